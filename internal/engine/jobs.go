package engine

import (
	"context"

	"clipdesk/internal/domain"
	"clipdesk/internal/repo"
)

func (e *Engine) ListJobs(ctx context.Context) ([]domain.Job, error) {
	return e.Repo.ListJobs(ctx)
}

func (e *Engine) GetJob(ctx context.Context, id string) (domain.Job, error) {
	return e.Repo.GetJob(ctx, id)
}

func (e *Engine) SetJobStatus(ctx context.Context, id, status string) (domain.Job, error) {
	if !domain.ValidJobStatus(status) {
		return domain.Job{}, invalid("status", "must be one of INTAKE_PENDING, IN_PROGRESS, QA, DELIVERED, REVISIONS, CLOSED")
	}
	if err := e.Repo.UpdateJobStatus(ctx, id, status); err != nil {
		return domain.Job{}, err
	}
	return e.Repo.GetJob(ctx, id)
}

// JobUpdate carries optional job field updates; nil fields are left alone.
type JobUpdate struct {
	Status       *string
	Package      *string
	Rush         *bool
	DueAt        *string
	AssetsLink   *string
	FootageLink  *string
	DeliveryLink *string
	QANotes      *string
	BuyerPrice   *float64
	EditorPayout *float64
	PayoutStatus *string
}

func (e *Engine) UpdateJob(ctx context.Context, id string, upd JobUpdate) (domain.Job, error) {
	if upd.Status != nil && !domain.ValidJobStatus(*upd.Status) {
		return domain.Job{}, invalid("status", "must be one of INTAKE_PENDING, IN_PROGRESS, QA, DELIVERED, REVISIONS, CLOSED")
	}
	if upd.PayoutStatus != nil && !domain.ValidPayoutStatus(*upd.PayoutStatus) {
		return domain.Job{}, invalid("payout_status", "must be one of PENDING, PAID, CANCELLED")
	}
	if upd.BuyerPrice != nil && *upd.BuyerPrice < 0 {
		return domain.Job{}, invalid("buyer_price", "must not be negative")
	}
	if upd.EditorPayout != nil && *upd.EditorPayout < 0 {
		return domain.Job{}, invalid("editor_payout", "must not be negative")
	}
	err := e.Repo.UpdateJobFields(ctx, id, repo.JobFieldUpdates{
		Status:       upd.Status,
		Package:      upd.Package,
		Rush:         upd.Rush,
		DueAt:        upd.DueAt,
		AssetsLink:   upd.AssetsLink,
		FootageLink:  upd.FootageLink,
		DeliveryLink: upd.DeliveryLink,
		QANotes:      upd.QANotes,
		BuyerPrice:   upd.BuyerPrice,
		EditorPayout: upd.EditorPayout,
		PayoutStatus: upd.PayoutStatus,
	})
	if err != nil {
		return domain.Job{}, err
	}
	return e.Repo.GetJob(ctx, id)
}

func (e *Engine) GetChecklist(ctx context.Context, jobID string) (domain.JobChecklist, error) {
	return e.Repo.GetChecklist(ctx, jobID)
}

// ChecklistUpdate carries optional flag updates; nil flags are left alone.
type ChecklistUpdate struct {
	PaymentConfirmed  *bool
	FilesReceived     *bool
	ScopeLocked       *bool
	EditInProgress    *bool
	QAPass            *bool
	Delivered         *bool
	RevisionRequested *bool
	Closed            *bool
}

func (e *Engine) UpdateChecklist(ctx context.Context, jobID string, upd ChecklistUpdate) (domain.JobChecklist, error) {
	err := e.Repo.UpdateChecklist(ctx, jobID, repo.ChecklistUpdates{
		PaymentConfirmed:  upd.PaymentConfirmed,
		FilesReceived:     upd.FilesReceived,
		ScopeLocked:       upd.ScopeLocked,
		EditInProgress:    upd.EditInProgress,
		QAPass:            upd.QAPass,
		Delivered:         upd.Delivered,
		RevisionRequested: upd.RevisionRequested,
		Closed:            upd.Closed,
	})
	if err != nil {
		return domain.JobChecklist{}, err
	}
	return e.Repo.GetChecklist(ctx, jobID)
}
