package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clipdesk/internal/domain"
)

const jobColumns = `id,created_at,request_id,status,buyer_name,buyer_email,service,package,rush,due_at,assets_link,footage_link,delivery_link,qa_notes,buyer_price,editor_payout,payout_status`

func (r Repo) InsertJobTx(ctx context.Context, tx *sql.Tx, job domain.Job) error {
	rush := 0
	if job.Rush {
		rush = 1
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO jobs(id,created_at,request_id,status,buyer_name,buyer_email,service,package,rush,due_at,assets_link,footage_link,delivery_link,qa_notes,buyer_price,editor_payout,payout_status)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		job.ID, job.CreatedAt, nullableStringPtr(job.RequestID), job.Status, job.BuyerName, job.BuyerEmail, job.Service,
		nullableStringPtr(job.Package), rush, nullableStringPtr(job.DueAt), nullableStringPtr(job.AssetsLink),
		nullableStringPtr(job.FootageLink), nullableStringPtr(job.DeliveryLink), nullableStringPtr(job.QANotes),
		nullableFloatPtr(job.BuyerPrice), nullableFloatPtr(job.EditorPayout), nullableStringPtr(job.PayoutStatus))
	return err
}

func (r Repo) InsertChecklistTx(ctx context.Context, tx *sql.Tx, cl domain.JobChecklist) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO job_checklist(id,job_id,payment_confirmed,files_received,scope_locked,edit_in_progress,qa_pass,delivered,revision_requested,closed)
VALUES (?,?,?,?,?,?,?,?,?,?)`,
		cl.ID, cl.JobID, boolInt(cl.PaymentConfirmed), boolInt(cl.FilesReceived), boolInt(cl.ScopeLocked),
		boolInt(cl.EditInProgress), boolInt(cl.QAPass), boolInt(cl.Delivered), boolInt(cl.RevisionRequested), boolInt(cl.Closed))
	return err
}

func scanJob(scan func(dest ...any) error) (domain.Job, error) {
	var job domain.Job
	var requestID, pkg, dueAt, assets, footage, delivery, qaNotes, payoutStatus sql.NullString
	var buyerPrice, editorPayout sql.NullFloat64
	var rush int
	err := scan(&job.ID, &job.CreatedAt, &requestID, &job.Status, &job.BuyerName, &job.BuyerEmail, &job.Service,
		&pkg, &rush, &dueAt, &assets, &footage, &delivery, &qaNotes, &buyerPrice, &editorPayout, &payoutStatus)
	if err == sql.ErrNoRows {
		return job, ErrNotFound
	}
	if err != nil {
		return job, err
	}
	job.Rush = rush != 0
	if requestID.Valid {
		job.RequestID = &requestID.String
	}
	if pkg.Valid {
		job.Package = &pkg.String
	}
	if dueAt.Valid {
		job.DueAt = &dueAt.String
	}
	if assets.Valid {
		job.AssetsLink = &assets.String
	}
	if footage.Valid {
		job.FootageLink = &footage.String
	}
	if delivery.Valid {
		job.DeliveryLink = &delivery.String
	}
	if qaNotes.Valid {
		job.QANotes = &qaNotes.String
	}
	if buyerPrice.Valid {
		job.BuyerPrice = &buyerPrice.Float64
	}
	if editorPayout.Valid {
		job.EditorPayout = &editorPayout.Float64
	}
	if payoutStatus.Valid {
		job.PayoutStatus = &payoutStatus.String
	}
	return job, nil
}

func (r Repo) GetJob(ctx context.Context, id string) (domain.Job, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE id=?`, id)
	return scanJob(row.Scan)
}

func (r Repo) ListJobs(ctx context.Context) ([]domain.Job, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, job)
	}
	return res, rows.Err()
}

func (r Repo) UpdateJobStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE jobs SET status=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// JobFieldUpdates carries optional field updates for a job. Nil means leave
// the column untouched; a pointer to the zero value clears nothing and writes
// the value as-is.
type JobFieldUpdates struct {
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

func (r Repo) UpdateJobFields(ctx context.Context, id string, upd JobFieldUpdates) error {
	var sets []string
	var args []any
	add := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s=?", col))
		args = append(args, v)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}
	if upd.Package != nil {
		add("package", *upd.Package)
	}
	if upd.Rush != nil {
		add("rush", boolInt(*upd.Rush))
	}
	if upd.DueAt != nil {
		add("due_at", *upd.DueAt)
	}
	if upd.AssetsLink != nil {
		add("assets_link", *upd.AssetsLink)
	}
	if upd.FootageLink != nil {
		add("footage_link", *upd.FootageLink)
	}
	if upd.DeliveryLink != nil {
		add("delivery_link", *upd.DeliveryLink)
	}
	if upd.QANotes != nil {
		add("qa_notes", *upd.QANotes)
	}
	if upd.BuyerPrice != nil {
		add("buyer_price", *upd.BuyerPrice)
	}
	if upd.EditorPayout != nil {
		add("editor_payout", *upd.EditorPayout)
	}
	if upd.PayoutStatus != nil {
		add("payout_status", *upd.PayoutStatus)
	}
	if len(sets) == 0 {
		// Nothing to write; still report missing rows.
		_, err := r.GetJob(ctx, id)
		return err
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, `UPDATE jobs SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) GetChecklist(ctx context.Context, jobID string) (domain.JobChecklist, error) {
	var cl domain.JobChecklist
	var payment, files, scope, edit, qa, delivered, revision, closed int
	row := r.DB.QueryRowContext(ctx, `SELECT id,job_id,payment_confirmed,files_received,scope_locked,edit_in_progress,qa_pass,delivered,revision_requested,closed FROM job_checklist WHERE job_id=?`, jobID)
	err := row.Scan(&cl.ID, &cl.JobID, &payment, &files, &scope, &edit, &qa, &delivered, &revision, &closed)
	if err == sql.ErrNoRows {
		return cl, ErrNotFound
	}
	if err != nil {
		return cl, err
	}
	cl.PaymentConfirmed = payment != 0
	cl.FilesReceived = files != 0
	cl.ScopeLocked = scope != 0
	cl.EditInProgress = edit != 0
	cl.QAPass = qa != 0
	cl.Delivered = delivered != 0
	cl.RevisionRequested = revision != 0
	cl.Closed = closed != 0
	return cl, nil
}

// ChecklistUpdates carries optional flag updates. Nil leaves a flag untouched.
type ChecklistUpdates struct {
	PaymentConfirmed  *bool
	FilesReceived     *bool
	ScopeLocked       *bool
	EditInProgress    *bool
	QAPass            *bool
	Delivered         *bool
	RevisionRequested *bool
	Closed            *bool
}

func (r Repo) UpdateChecklist(ctx context.Context, jobID string, upd ChecklistUpdates) error {
	var sets []string
	var args []any
	add := func(col string, v *bool) {
		if v == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s=?", col))
		args = append(args, boolInt(*v))
	}
	add("payment_confirmed", upd.PaymentConfirmed)
	add("files_received", upd.FilesReceived)
	add("scope_locked", upd.ScopeLocked)
	add("edit_in_progress", upd.EditInProgress)
	add("qa_pass", upd.QAPass)
	add("delivered", upd.Delivered)
	add("revision_requested", upd.RevisionRequested)
	add("closed", upd.Closed)
	if len(sets) == 0 {
		_, err := r.GetChecklist(ctx, jobID)
		return err
	}
	args = append(args, jobID)
	res, err := r.DB.ExecContext(ctx, `UPDATE job_checklist SET `+strings.Join(sets, ", ")+` WHERE job_id=?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
