package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"clipdesk/internal/domain"
)

// RequestSubmission is the public intake form payload.
type RequestSubmission struct {
	Name          string
	Email         string
	Company       *string
	NeedType      string
	Platforms     []string
	VolumePerWeek int
	Turnaround    string
	BudgetRange   string
	FootageLink   *string
	ExamplesLink  *string
	Notes         *string
}

// SubmitRequest validates an intake submission, classifies it, and persists
// it with status NEW.
func (e *Engine) SubmitRequest(ctx context.Context, sub RequestSubmission) (domain.BuyerRequest, error) {
	var req domain.BuyerRequest
	if strings.TrimSpace(sub.Name) == "" {
		return req, invalid("name", "required")
	}
	if strings.TrimSpace(sub.Email) == "" {
		return req, invalid("email", "required")
	}
	if !strings.Contains(sub.Email, "@") {
		return req, invalid("email", "must be an email address")
	}
	if sub.VolumePerWeek < 1 {
		return req, invalid("volume_per_week", "must be at least 1")
	}
	catalogs := e.Config.Intake
	if !slices.Contains(catalogs.NeedTypes, sub.NeedType) {
		return req, invalid("need_type", fmt.Sprintf("must be one of %s", strings.Join(catalogs.NeedTypes, ", ")))
	}
	if len(sub.Platforms) == 0 {
		return req, invalid("platforms", "at least one platform is required")
	}
	for _, p := range sub.Platforms {
		if !slices.Contains(catalogs.Platforms, p) {
			return req, invalid("platforms", fmt.Sprintf("%q is not one of %s", p, strings.Join(catalogs.Platforms, ", ")))
		}
	}
	if !slices.Contains(catalogs.Turnarounds, sub.Turnaround) {
		return req, invalid("turnaround", fmt.Sprintf("must be one of %s", strings.Join(catalogs.Turnarounds, ", ")))
	}
	if !slices.Contains(catalogs.BudgetRanges, sub.BudgetRange) {
		return req, invalid("budget_range", fmt.Sprintf("must be one of %s", strings.Join(catalogs.BudgetRanges, ", ")))
	}

	notes := ""
	if sub.Notes != nil {
		notes = *sub.Notes
	}
	complexity, speed := e.rules().Classify(sub.NeedType, sub.VolumePerWeek, sub.Turnaround, notes)

	req = domain.BuyerRequest{
		ID:                  uuid.NewString(),
		CreatedAt:           e.timestamp(),
		Name:                sub.Name,
		Email:               sub.Email,
		Company:             sub.Company,
		NeedType:            sub.NeedType,
		Platforms:           sub.Platforms,
		VolumePerWeek:       sub.VolumePerWeek,
		Turnaround:          sub.Turnaround,
		BudgetRange:         sub.BudgetRange,
		FootageLink:         sub.FootageLink,
		ExamplesLink:        sub.ExamplesLink,
		Notes:               sub.Notes,
		Status:              domain.RequestStatusNew,
		ComplexitySuggested: complexity,
		SpeedTier:           speed,
	}
	if err := e.Repo.InsertRequest(ctx, req); err != nil {
		return domain.BuyerRequest{}, err
	}
	return req, nil
}

func (e *Engine) ListRequests(ctx context.Context) ([]domain.BuyerRequest, error) {
	return e.Repo.ListRequests(ctx)
}

func (e *Engine) GetRequest(ctx context.Context, id string) (domain.BuyerRequest, error) {
	return e.Repo.GetRequest(ctx, id)
}

func (e *Engine) SetRequestStatus(ctx context.Context, id, status string) (domain.BuyerRequest, error) {
	if !domain.ValidRequestStatus(status) {
		return domain.BuyerRequest{}, invalid("status", "must be one of NEW, IN_REVIEW, QUOTED, WON, LOST")
	}
	if err := e.Repo.UpdateRequestStatus(ctx, id, status); err != nil {
		return domain.BuyerRequest{}, err
	}
	return e.Repo.GetRequest(ctx, id)
}

func (e *Engine) SetRequestTiers(ctx context.Context, id, complexity, speed string) (domain.BuyerRequest, error) {
	if !domain.ValidComplexityTier(complexity) {
		return domain.BuyerRequest{}, invalid("complexity_suggested", "must be one of BASIC, PRO, ELITE")
	}
	if !domain.ValidSpeedTier(speed) {
		return domain.BuyerRequest{}, invalid("speed_tier", "must be one of STANDARD, RUSH")
	}
	if err := e.Repo.UpdateRequestTiers(ctx, id, complexity, speed); err != nil {
		return domain.BuyerRequest{}, err
	}
	return e.Repo.GetRequest(ctx, id)
}

// ConvertRequest turns a request into a job. The job insert, its empty
// checklist, and the WON status flip happen in one transaction so a failure
// leaves no partial state behind.
func (e *Engine) ConvertRequest(ctx context.Context, id string) (domain.Job, error) {
	req, err := e.Repo.GetRequest(ctx, id)
	if err != nil {
		return domain.Job{}, err
	}

	job := domain.Job{
		ID:         uuid.NewString(),
		CreatedAt:  e.timestamp(),
		RequestID:  &req.ID,
		Status:     domain.JobStatusIntakePending,
		BuyerName:  req.Name,
		BuyerEmail: req.Email,
		Service:    req.NeedType,
		Rush:       req.SpeedTier == domain.SpeedRush,
	}
	checklist := domain.JobChecklist{
		ID:    uuid.NewString(),
		JobID: job.ID,
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Job{}, err
	}
	defer tx.Rollback()

	if err := e.Repo.InsertJobTx(ctx, tx, job); err != nil {
		return domain.Job{}, err
	}
	if err := e.Repo.InsertChecklistTx(ctx, tx, checklist); err != nil {
		return domain.Job{}, err
	}
	if err := e.Repo.UpdateRequestStatusTx(ctx, tx, req.ID, domain.RequestStatusWon); err != nil {
		return domain.Job{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Job{}, err
	}
	return job, nil
}
