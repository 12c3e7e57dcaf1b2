package domain

// Request lifecycle statuses. NEW/IN_REVIEW/QUOTED are working states,
// WON/LOST are terminal. Transitions are not guarded; any value may be set.
const (
	RequestStatusNew      = "NEW"
	RequestStatusInReview = "IN_REVIEW"
	RequestStatusQuoted   = "QUOTED"
	RequestStatusWon      = "WON"
	RequestStatusLost     = "LOST"
)

const (
	JobStatusIntakePending = "INTAKE_PENDING"
	JobStatusInProgress    = "IN_PROGRESS"
	JobStatusQA            = "QA"
	JobStatusDelivered     = "DELIVERED"
	JobStatusRevisions     = "REVISIONS"
	JobStatusClosed        = "CLOSED"
)

const (
	ComplexityBasic = "BASIC"
	ComplexityPro   = "PRO"
	ComplexityElite = "ELITE"
)

const (
	SpeedStandard = "STANDARD"
	SpeedRush     = "RUSH"
)

const (
	PayoutPending   = "PENDING"
	PayoutPaid      = "PAID"
	PayoutCancelled = "CANCELLED"
)

// TurnaroundRush is the intake turnaround value that forces the RUSH speed tier.
const TurnaroundRush = "Rush 12h"

func ValidRequestStatus(s string) bool {
	switch s {
	case RequestStatusNew, RequestStatusInReview, RequestStatusQuoted, RequestStatusWon, RequestStatusLost:
		return true
	}
	return false
}

func ValidJobStatus(s string) bool {
	switch s {
	case JobStatusIntakePending, JobStatusInProgress, JobStatusQA, JobStatusDelivered, JobStatusRevisions, JobStatusClosed:
		return true
	}
	return false
}

func ValidComplexityTier(s string) bool {
	return s == ComplexityBasic || s == ComplexityPro || s == ComplexityElite
}

func ValidSpeedTier(s string) bool {
	return s == SpeedStandard || s == SpeedRush
}

func ValidPayoutStatus(s string) bool {
	return s == PayoutPending || s == PayoutPaid || s == PayoutCancelled
}

// BuyerRequest is an inbound lead from the public intake form.
type BuyerRequest struct {
	ID                  string   `json:"id"`
	CreatedAt           string   `json:"created_at" format:"date-time"`
	Name                string   `json:"name"`
	Email               string   `json:"email"`
	Company             *string  `json:"company,omitempty"`
	NeedType            string   `json:"need_type"`
	Platforms           []string `json:"platforms"`
	VolumePerWeek       int      `json:"volume_per_week"`
	Turnaround          string   `json:"turnaround"`
	BudgetRange         string   `json:"budget_range"`
	FootageLink         *string  `json:"footage_link,omitempty"`
	ExamplesLink        *string  `json:"examples_link,omitempty"`
	Notes               *string  `json:"notes,omitempty"`
	Status              string   `json:"status" enum:"NEW,IN_REVIEW,QUOTED,WON,LOST"`
	ComplexitySuggested string   `json:"complexity_suggested,omitempty" enum:"BASIC,PRO,ELITE"`
	SpeedTier           string   `json:"speed_tier,omitempty" enum:"STANDARD,RUSH"`
}

// Job is a committed unit of paid editing work. Buyer fields are snapshotted
// from the originating request at conversion time and never re-synced.
type Job struct {
	ID           string   `json:"id"`
	CreatedAt    string   `json:"created_at" format:"date-time"`
	RequestID    *string  `json:"request_id,omitempty"`
	Status       string   `json:"status" enum:"INTAKE_PENDING,IN_PROGRESS,QA,DELIVERED,REVISIONS,CLOSED"`
	BuyerName    string   `json:"buyer_name"`
	BuyerEmail   string   `json:"buyer_email"`
	Service      string   `json:"service"`
	Package      *string  `json:"package,omitempty"`
	Rush         bool     `json:"rush"`
	DueAt        *string  `json:"due_at,omitempty" format:"date-time"`
	AssetsLink   *string  `json:"assets_link,omitempty"`
	FootageLink  *string  `json:"footage_link,omitempty"`
	DeliveryLink *string  `json:"delivery_link,omitempty"`
	QANotes      *string  `json:"qa_notes,omitempty"`
	BuyerPrice   *float64 `json:"buyer_price,omitempty"`
	EditorPayout *float64 `json:"editor_payout,omitempty"`
	PayoutStatus *string  `json:"payout_status,omitempty" enum:"PENDING,PAID,CANCELLED"`
}

// JobChecklist holds the eight advisory readiness gates for a job. The flags
// are independent booleans; no ordering between them is enforced.
type JobChecklist struct {
	ID                string `json:"id"`
	JobID             string `json:"job_id"`
	PaymentConfirmed  bool   `json:"payment_confirmed"`
	FilesReceived     bool   `json:"files_received"`
	ScopeLocked       bool   `json:"scope_locked"`
	EditInProgress    bool   `json:"edit_in_progress"`
	QAPass            bool   `json:"qa_pass"`
	Delivered         bool   `json:"delivered"`
	RevisionRequested bool   `json:"revision_requested"`
	Closed            bool   `json:"closed"`
}

// Template is a canned buyer-facing message with {field} placeholders in the
// body. Placeholder names are not validated against any schema.
type Template struct {
	ID        string  `json:"id"`
	CreatedAt string  `json:"created_at" format:"date-time"`
	Name      string  `json:"name"`
	Subject   *string `json:"subject,omitempty"`
	Body      string  `json:"body"`
}

// Admin is a dashboard operator account.
type Admin struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	CreatedAt    string `json:"created_at" format:"date-time"`
}
