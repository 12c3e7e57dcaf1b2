package server

import (
	"clipdesk/internal/domain"
)

// IntakeRequest is the public intake form payload.
type IntakeRequest struct {
	Name          string   `json:"name" example:"Ada Creator"`
	Email         string   `json:"email" format:"email" example:"ada@example.com"`
	Company       *string  `json:"company,omitempty"`
	NeedType      string   `json:"need_type" example:"Social Edit"`
	Platforms     []string `json:"platforms" example:"[\"TikTok\",\"IG\"]"`
	VolumePerWeek int      `json:"volume_per_week" minimum:"1" example:"4"`
	Turnaround    string   `json:"turnaround" example:"24-48h"`
	BudgetRange   string   `json:"budget_range" example:"200-500"`
	FootageLink   *string  `json:"footage_link,omitempty"`
	ExamplesLink  *string  `json:"examples_link,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

type UpdateRequestStatusRequest struct {
	Status string `json:"status" enum:"NEW,IN_REVIEW,QUOTED,WON,LOST"`
}

type UpdateRequestTiersRequest struct {
	ComplexitySuggested string `json:"complexity_suggested" enum:"BASIC,PRO,ELITE"`
	SpeedTier           string `json:"speed_tier" enum:"STANDARD,RUSH"`
}

type ConvertResponse struct {
	JobID string `json:"job_id"`
}

type UpdateJobRequest struct {
	Status       *string  `json:"status,omitempty" enum:"INTAKE_PENDING,IN_PROGRESS,QA,DELIVERED,REVISIONS,CLOSED"`
	Package      *string  `json:"package,omitempty"`
	Rush         *bool    `json:"rush,omitempty"`
	DueAt        *string  `json:"due_at,omitempty" format:"date-time"`
	AssetsLink   *string  `json:"assets_link,omitempty"`
	FootageLink  *string  `json:"footage_link,omitempty"`
	DeliveryLink *string  `json:"delivery_link,omitempty"`
	QANotes      *string  `json:"qa_notes,omitempty"`
	BuyerPrice   *float64 `json:"buyer_price,omitempty"`
	EditorPayout *float64 `json:"editor_payout,omitempty"`
	PayoutStatus *string  `json:"payout_status,omitempty" enum:"PENDING,PAID,CANCELLED"`
}

type UpdateJobStatusRequest struct {
	Status string `json:"status" enum:"INTAKE_PENDING,IN_PROGRESS,QA,DELIVERED,REVISIONS,CLOSED"`
}

type UpdateChecklistRequest struct {
	PaymentConfirmed  *bool `json:"payment_confirmed,omitempty"`
	FilesReceived     *bool `json:"files_received,omitempty"`
	ScopeLocked       *bool `json:"scope_locked,omitempty"`
	EditInProgress    *bool `json:"edit_in_progress,omitempty"`
	QAPass            *bool `json:"qa_pass,omitempty"`
	Delivered         *bool `json:"delivered,omitempty"`
	RevisionRequested *bool `json:"revision_requested,omitempty"`
	Closed            *bool `json:"closed,omitempty"`
}

type CreateTemplateRequest struct {
	Name    string  `json:"name" example:"Quote follow-up"`
	Subject *string `json:"subject,omitempty"`
	Body    string  `json:"body" example:"Hi {name}, your quote for {need_type} is ready."`
}

type UpdateTemplateRequest struct {
	Name    *string `json:"name,omitempty"`
	Subject *string `json:"subject,omitempty"`
	Body    *string `json:"body,omitempty"`
}

type PreviewTemplateRequest struct {
	Fields map[string]string `json:"fields"`
}

type PreviewTemplateResponse struct {
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

type LoginRequest struct {
	Email    string `json:"email" format:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Token   string `json:"token"`
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
}

type MeResponse struct {
	AdminID string `json:"admin_id"`
	Email   string `json:"email"`
}

func mapRequests(items []domain.BuyerRequest) []domain.BuyerRequest {
	if items == nil {
		return []domain.BuyerRequest{}
	}
	return items
}

func mapJobs(items []domain.Job) []domain.Job {
	if items == nil {
		return []domain.Job{}
	}
	return items
}

func mapTemplates(items []domain.Template) []domain.Template {
	if items == nil {
		return []domain.Template{}
	}
	return items
}
