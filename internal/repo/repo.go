package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"clipdesk/internal/domain"
)

type Repo struct {
	DB *sql.DB
}

var ErrNotFound = errors.New("not found")

const requestColumns = `id,created_at,name,email,company,need_type,platforms_json,volume_per_week,turnaround,budget_range,footage_link,examples_link,notes,status,COALESCE(complexity_suggested,''),COALESCE(speed_tier,'')`

func (r Repo) InsertRequest(ctx context.Context, req domain.BuyerRequest) error {
	platforms, err := json.Marshal(req.Platforms)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, `INSERT INTO buyer_requests(id,created_at,name,email,company,need_type,platforms_json,volume_per_week,turnaround,budget_range,footage_link,examples_link,notes,status,complexity_suggested,speed_tier)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		req.ID, req.CreatedAt, req.Name, req.Email, nullableStringPtr(req.Company), req.NeedType, string(platforms),
		req.VolumePerWeek, req.Turnaround, req.BudgetRange, nullableStringPtr(req.FootageLink), nullableStringPtr(req.ExamplesLink),
		nullableStringPtr(req.Notes), req.Status, nullable(req.ComplexitySuggested), nullable(req.SpeedTier))
	return err
}

func scanRequest(scan func(dest ...any) error) (domain.BuyerRequest, error) {
	var req domain.BuyerRequest
	var company, footage, examples, notes sql.NullString
	var platformsJSON string
	err := scan(&req.ID, &req.CreatedAt, &req.Name, &req.Email, &company, &req.NeedType, &platformsJSON,
		&req.VolumePerWeek, &req.Turnaround, &req.BudgetRange, &footage, &examples, &notes,
		&req.Status, &req.ComplexitySuggested, &req.SpeedTier)
	if err == sql.ErrNoRows {
		return req, ErrNotFound
	}
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal([]byte(platformsJSON), &req.Platforms); err != nil {
		return req, err
	}
	if company.Valid {
		req.Company = &company.String
	}
	if footage.Valid {
		req.FootageLink = &footage.String
	}
	if examples.Valid {
		req.ExamplesLink = &examples.String
	}
	if notes.Valid {
		req.Notes = &notes.String
	}
	return req, nil
}

func (r Repo) GetRequest(ctx context.Context, id string) (domain.BuyerRequest, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM buyer_requests WHERE id=?`, id)
	return scanRequest(row.Scan)
}

// ListRequests returns all requests, newest creation timestamp first.
func (r Repo) ListRequests(ctx context.Context) ([]domain.BuyerRequest, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+requestColumns+` FROM buyer_requests ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.BuyerRequest
	for rows.Next() {
		req, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, req)
	}
	return res, rows.Err()
}

func (r Repo) UpdateRequestStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE buyer_requests SET status=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) UpdateRequestStatusTx(ctx context.Context, tx *sql.Tx, id, status string) error {
	res, err := tx.ExecContext(ctx, `UPDATE buyer_requests SET status=? WHERE id=?`, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) UpdateRequestTiers(ctx context.Context, id, complexity, speed string) error {
	res, err := r.DB.ExecContext(ctx, `UPDATE buyer_requests SET complexity_suggested=?, speed_tier=? WHERE id=?`, complexity, speed, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}

func nullableStringPtr(v *string) any {
	if v == nil {
		return nil
	}
	if *v == "" {
		return nil
	}
	return *v
}

func nullableFloatPtr(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
