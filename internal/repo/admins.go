package repo

import (
	"context"
	"database/sql"

	"clipdesk/internal/domain"
)

func (r Repo) InsertAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.DB.ExecContext(ctx, `INSERT INTO admins(id,email,password_hash,created_at) VALUES (?,?,?,?)`,
		a.ID, a.Email, a.PasswordHash, a.CreatedAt)
	return err
}

func (r Repo) GetAdmin(ctx context.Context, id string) (domain.Admin, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id,email,password_hash,created_at FROM admins WHERE id=?`, id)
	return scanAdmin(row.Scan)
}

func (r Repo) GetAdminByEmail(ctx context.Context, email string) (domain.Admin, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT id,email,password_hash,created_at FROM admins WHERE email=?`, email)
	return scanAdmin(row.Scan)
}

func (r Repo) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n)
	return n, err
}

func scanAdmin(scan func(dest ...any) error) (domain.Admin, error) {
	var a domain.Admin
	err := scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err == sql.ErrNoRows {
		return a, ErrNotFound
	}
	return a, err
}
