package repo

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clipdesk/internal/domain"
)

func (r Repo) InsertTemplate(ctx context.Context, t domain.Template) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO templates(id,created_at,name,subject,body) VALUES (?,?,?,?,?)`,
		t.ID, t.CreatedAt, t.Name, nullableStringPtr(t.Subject), t.Body)
	return err
}

func scanTemplate(scan func(dest ...any) error) (domain.Template, error) {
	var t domain.Template
	var subject sql.NullString
	err := scan(&t.ID, &t.CreatedAt, &t.Name, &subject, &t.Body)
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	if subject.Valid {
		t.Subject = &subject.String
	}
	return t, nil
}

func (r Repo) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id,created_at,name,subject,body FROM templates WHERE id=?`, id)
	return scanTemplate(row.Scan)
}

// ListTemplates returns templates sorted by name, case-insensitively.
func (r Repo) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id,created_at,name,subject,body FROM templates ORDER BY name COLLATE NOCASE ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var res []domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// TemplateUpdates carries optional field updates. Nil leaves a column untouched.
type TemplateUpdates struct {
	Name    *string
	Subject *string
	Body    *string
}

func (r Repo) UpdateTemplate(ctx context.Context, id string, upd TemplateUpdates) error {
	var sets []string
	var args []any
	add := func(col string, v *string) {
		if v == nil {
			return
		}
		sets = append(sets, fmt.Sprintf("%s=?", col))
		args = append(args, *v)
	}
	add("name", upd.Name)
	add("subject", upd.Subject)
	add("body", upd.Body)
	if len(sets) == 0 {
		_, err := r.GetTemplate(ctx, id)
		return err
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, `UPDATE templates SET `+strings.Join(sets, ", ")+` WHERE id=?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r Repo) DeleteTemplate(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM templates WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
