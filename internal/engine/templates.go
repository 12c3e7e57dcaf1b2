package engine

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"clipdesk/internal/domain"
	"clipdesk/internal/render"
	"clipdesk/internal/repo"
)

func (e *Engine) CreateTemplate(ctx context.Context, name string, subject *string, body string) (domain.Template, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Template{}, invalid("name", "required")
	}
	if strings.TrimSpace(body) == "" {
		return domain.Template{}, invalid("body", "required")
	}
	t := domain.Template{
		ID:        uuid.NewString(),
		CreatedAt: e.timestamp(),
		Name:      name,
		Subject:   subject,
		Body:      body,
	}
	if err := e.Repo.InsertTemplate(ctx, t); err != nil {
		return domain.Template{}, err
	}
	return t, nil
}

func (e *Engine) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	return e.Repo.ListTemplates(ctx)
}

func (e *Engine) GetTemplate(ctx context.Context, id string) (domain.Template, error) {
	return e.Repo.GetTemplate(ctx, id)
}

// TemplateUpdate carries optional field updates; nil fields are left alone.
type TemplateUpdate struct {
	Name    *string
	Subject *string
	Body    *string
}

func (e *Engine) UpdateTemplate(ctx context.Context, id string, upd TemplateUpdate) (domain.Template, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return domain.Template{}, invalid("name", "must not be empty")
	}
	if upd.Body != nil && strings.TrimSpace(*upd.Body) == "" {
		return domain.Template{}, invalid("body", "must not be empty")
	}
	err := e.Repo.UpdateTemplate(ctx, id, repo.TemplateUpdates{
		Name:    upd.Name,
		Subject: upd.Subject,
		Body:    upd.Body,
	})
	if err != nil {
		return domain.Template{}, err
	}
	return e.Repo.GetTemplate(ctx, id)
}

func (e *Engine) DeleteTemplate(ctx context.Context, id string) error {
	return e.Repo.DeleteTemplate(ctx, id)
}

// PreviewTemplate expands a template body and subject against the given
// fields. Unknown placeholders are left intact.
func (e *Engine) PreviewTemplate(ctx context.Context, id string, fields map[string]string) (subject, body string, err error) {
	t, err := e.Repo.GetTemplate(ctx, id)
	if err != nil {
		return "", "", err
	}
	if t.Subject != nil {
		subject = render.Expand(*t.Subject, fields)
	}
	body = render.Expand(t.Body, fields)
	return subject, body, nil
}
