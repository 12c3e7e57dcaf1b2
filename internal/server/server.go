// Package server exposes the HTTP API over the engine.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"clipdesk/internal/domain"
	"clipdesk/internal/engine"
	"clipdesk/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	Engine         *engine.Engine
	BasePath       string
	Auth           AuthConfig
	AllowedOrigins []string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"not_found"`
	Message string         `json:"message" example:"request not found"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the clipdesk API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	if len(cfg.Auth.JWTSecret) == 0 {
		return nil, errors.New("auth jwt secret is required")
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			// Schema/request validation errors surface as 400 bad_request.
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	router.Use(newAuthMiddleware(cfg.Auth, basePath))
	hcfg := huma.DefaultConfig("Clipdesk API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerAuth(group, cfg.Engine, cfg.Auth)
	registerIntake(group, cfg.Engine)
	registerRequests(group, cfg.Engine)
	registerJobs(group, cfg.Engine)
	registerTemplates(group, cfg.Engine)
	registerOpenAPI(router, api, basePath)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	return c.Handler(router), nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var ve *engine.ValidationError
	if errors.As(err, &ve) {
		return newAPIError(http.StatusBadRequest, "bad_request", err.Error(), map[string]any{"field": ve.Field})
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	if errors.Is(err, engine.ErrInvalidCredentials) {
		return newAPIError(http.StatusUnauthorized, "unauthorized", err.Error(), nil)
	}
	return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": err.Error()})
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Clipdesk API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
    <p style="padding: 1rem; font-family: sans-serif; color: #444;">
      Authenticate via POST /v0/auth/login; the session cookie or Authorization: Bearer &lt;token&gt; works.
    </p>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerAuth(api huma.API, e *engine.Engine, authCfg AuthConfig) {
	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Admin login",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body LoginRequest `json:"body"`
	}) (*struct {
		SetCookie http.Cookie     `header:"Set-Cookie"`
		Body      SessionResponse `json:"body"`
	}, error) {
		if input.Body.Email == "" || input.Body.Password == "" {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", "email and password are required", nil)
		}
		admin, err := e.Authenticate(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, handleError(err)
		}
		token, err := authCfg.issueSession(admin.ID, admin.Email, time.Now())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			SetCookie http.Cookie     `header:"Set-Cookie"`
			Body      SessionResponse `json:"body"`
		}{
			SetCookie: http.Cookie{
				Name:     authCfg.CookieName,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   int(authCfg.SessionTTL.Seconds()),
			},
			Body: SessionResponse{Token: token, AdminID: admin.ID, Email: admin.Email},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "logout",
		Method:      http.MethodPost,
		Path:        "/auth/logout",
		Summary:     "Admin logout",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		SetCookie http.Cookie `header:"Set-Cookie"`
	}, error) {
		return &struct {
			SetCookie http.Cookie `header:"Set-Cookie"`
		}{
			SetCookie: http.Cookie{
				Name:     authCfg.CookieName,
				Value:    "",
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
				MaxAge:   -1,
			},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Current admin",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body MeResponse `json:"body"`
	}, error) {
		p, ok := principalFrom(ctx)
		if !ok {
			return nil, newAPIError(http.StatusUnauthorized, "unauthorized", "authentication required", nil)
		}
		return &struct {
			Body MeResponse `json:"body"`
		}{Body: MeResponse{AdminID: p.AdminID, Email: p.Email}}, nil
	})
}

func registerIntake(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "submit-request",
		Method:        http.MethodPost,
		Path:          "/intake/requests",
		Summary:       "Submit a buyer request",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		Body IntakeRequest `json:"body"`
	}) (*struct {
		Body domain.BuyerRequest `json:"body"`
	}, error) {
		req, err := e.SubmitRequest(ctx, engine.RequestSubmission{
			Name:          input.Body.Name,
			Email:         input.Body.Email,
			Company:       input.Body.Company,
			NeedType:      input.Body.NeedType,
			Platforms:     input.Body.Platforms,
			VolumePerWeek: input.Body.VolumePerWeek,
			Turnaround:    input.Body.Turnaround,
			BudgetRange:   input.Body.BudgetRange,
			FootageLink:   input.Body.FootageLink,
			ExamplesLink:  input.Body.ExamplesLink,
			Notes:         input.Body.Notes,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.BuyerRequest `json:"body"`
		}{Body: req}, nil
	})
}

func registerRequests(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-requests",
		Method:      http.MethodGet,
		Path:        "/admin/requests",
		Summary:     "List buyer requests",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.BuyerRequest `json:"body"`
	}, error) {
		items, err := e.ListRequests(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.BuyerRequest `json:"body"`
		}{Body: mapRequests(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-request",
		Method:      http.MethodGet,
		Path:        "/admin/requests/{id}",
		Summary:     "Get buyer request",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body domain.BuyerRequest `json:"body"`
	}, error) {
		req, err := e.GetRequest(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.BuyerRequest `json:"body"`
		}{Body: req}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-request-status",
		Method:      http.MethodPatch,
		Path:        "/admin/requests/{id}/status",
		Summary:     "Update request status",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string                     `path:"id"`
		Body UpdateRequestStatusRequest `json:"body"`
	}) (*struct {
		Body domain.BuyerRequest `json:"body"`
	}, error) {
		req, err := e.SetRequestStatus(ctx, input.ID, input.Body.Status)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.BuyerRequest `json:"body"`
		}{Body: req}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-request-tiers",
		Method:      http.MethodPatch,
		Path:        "/admin/requests/{id}/tiers",
		Summary:     "Override suggested tiers",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string                    `path:"id"`
		Body UpdateRequestTiersRequest `json:"body"`
	}) (*struct {
		Body domain.BuyerRequest `json:"body"`
	}, error) {
		req, err := e.SetRequestTiers(ctx, input.ID, input.Body.ComplexitySuggested, input.Body.SpeedTier)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.BuyerRequest `json:"body"`
		}{Body: req}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "convert-request",
		Method:        http.MethodPost,
		Path:          "/admin/requests/{id}/convert",
		Summary:       "Convert request to job",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusUnauthorized, http.StatusNotFound, http.StatusInternalServerError},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body ConvertResponse `json:"body"`
	}, error) {
		job, err := e.ConvertRequest(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body ConvertResponse `json:"body"`
		}{Body: ConvertResponse{JobID: job.ID}}, nil
	})
}

func registerJobs(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-jobs",
		Method:      http.MethodGet,
		Path:        "/admin/jobs",
		Summary:     "List jobs",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Job `json:"body"`
	}, error) {
		items, err := e.ListJobs(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Job `json:"body"`
		}{Body: mapJobs(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-job",
		Method:      http.MethodGet,
		Path:        "/admin/jobs/{id}",
		Summary:     "Get job",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body domain.Job `json:"body"`
	}, error) {
		job, err := e.GetJob(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Job `json:"body"`
		}{Body: job}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-job",
		Method:      http.MethodPatch,
		Path:        "/admin/jobs/{id}",
		Summary:     "Update job fields",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string           `path:"id"`
		Body UpdateJobRequest `json:"body"`
	}) (*struct {
		Body domain.Job `json:"body"`
	}, error) {
		job, err := e.UpdateJob(ctx, input.ID, engine.JobUpdate{
			Status:       input.Body.Status,
			Package:      input.Body.Package,
			Rush:         input.Body.Rush,
			DueAt:        input.Body.DueAt,
			AssetsLink:   input.Body.AssetsLink,
			FootageLink:  input.Body.FootageLink,
			DeliveryLink: input.Body.DeliveryLink,
			QANotes:      input.Body.QANotes,
			BuyerPrice:   input.Body.BuyerPrice,
			EditorPayout: input.Body.EditorPayout,
			PayoutStatus: input.Body.PayoutStatus,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Job `json:"body"`
		}{Body: job}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-job-status",
		Method:      http.MethodPatch,
		Path:        "/admin/jobs/{id}/status",
		Summary:     "Update job status",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string                 `path:"id"`
		Body UpdateJobStatusRequest `json:"body"`
	}) (*struct {
		Body domain.Job `json:"body"`
	}, error) {
		job, err := e.SetJobStatus(ctx, input.ID, input.Body.Status)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Job `json:"body"`
		}{Body: job}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-job-checklist",
		Method:      http.MethodGet,
		Path:        "/admin/jobs/{id}/checklist",
		Summary:     "Get job checklist",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body domain.JobChecklist `json:"body"`
	}, error) {
		cl, err := e.GetChecklist(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.JobChecklist `json:"body"`
		}{Body: cl}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-job-checklist",
		Method:      http.MethodPatch,
		Path:        "/admin/jobs/{id}/checklist",
		Summary:     "Update job checklist flags",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string                 `path:"id"`
		Body UpdateChecklistRequest `json:"body"`
	}) (*struct {
		Body domain.JobChecklist `json:"body"`
	}, error) {
		cl, err := e.UpdateChecklist(ctx, input.ID, engine.ChecklistUpdate{
			PaymentConfirmed:  input.Body.PaymentConfirmed,
			FilesReceived:     input.Body.FilesReceived,
			ScopeLocked:       input.Body.ScopeLocked,
			EditInProgress:    input.Body.EditInProgress,
			QAPass:            input.Body.QAPass,
			Delivered:         input.Body.Delivered,
			RevisionRequested: input.Body.RevisionRequested,
			Closed:            input.Body.Closed,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.JobChecklist `json:"body"`
		}{Body: cl}, nil
	})
}

func registerTemplates(api huma.API, e *engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-templates",
		Method:      http.MethodGet,
		Path:        "/admin/templates",
		Summary:     "List templates",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body []domain.Template `json:"body"`
	}, error) {
		items, err := e.ListTemplates(ctx)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body []domain.Template `json:"body"`
		}{Body: mapTemplates(items)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-template",
		Method:        http.MethodPost,
		Path:          "/admin/templates",
		Summary:       "Create template",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body CreateTemplateRequest `json:"body"`
	}) (*struct {
		Body domain.Template `json:"body"`
	}, error) {
		t, err := e.CreateTemplate(ctx, input.Body.Name, input.Body.Subject, input.Body.Body)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Template `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-template",
		Method:      http.MethodGet,
		Path:        "/admin/templates/{id}",
		Summary:     "Get template",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct {
		Body domain.Template `json:"body"`
	}, error) {
		t, err := e.GetTemplate(ctx, input.ID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Template `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-template",
		Method:      http.MethodPatch,
		Path:        "/admin/templates/{id}",
		Summary:     "Update template",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string                `path:"id"`
		Body UpdateTemplateRequest `json:"body"`
	}) (*struct {
		Body domain.Template `json:"body"`
	}, error) {
		t, err := e.UpdateTemplate(ctx, input.ID, engine.TemplateUpdate{
			Name:    input.Body.Name,
			Subject: input.Body.Subject,
			Body:    input.Body.Body,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Template `json:"body"`
		}{Body: t}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-template",
		Method:      http.MethodDelete,
		Path:        "/admin/templates/{id}",
		Summary:     "Delete template",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID string `path:"id"`
	}) (*struct{}, error) {
		if err := e.DeleteTemplate(ctx, input.ID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "preview-template",
		Method:      http.MethodPost,
		Path:        "/admin/templates/{id}/preview",
		Summary:     "Preview template expansion",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ID   string                 `path:"id"`
		Body PreviewTemplateRequest `json:"body"`
	}) (*struct {
		Body PreviewTemplateResponse `json:"body"`
	}, error) {
		subject, body, err := e.PreviewTemplate(ctx, input.ID, input.Body.Fields)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PreviewTemplateResponse `json:"body"`
		}{Body: PreviewTemplateResponse{Subject: subject, Body: body}}, nil
	})
}
