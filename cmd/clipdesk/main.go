package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"clipdesk/internal/app"
	"clipdesk/internal/config"
	"clipdesk/internal/db"
	"clipdesk/internal/engine"
	"clipdesk/internal/migrate"
	"clipdesk/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "clipdesk",
	Short: "Clipdesk CLI",
	Long: `Clipdesk is the operations hub for a managed video-editing service.
It takes buyer requests in through a public intake form, lets admins triage
and quote them, converts won requests into jobs with a delivery checklist,
and keeps a library of reusable buyer-facing message templates.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		workspace := viper.GetString("workspace")
		if _, err := db.EnsureWorkspace(workspace); err != nil {
			return err
		}
		return nil
	},
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("CLIPDESK")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(requestCmd())
	rootCmd.AddCommand(jobCmd())
	rootCmd.AddCommand(templateCmd())
	rootCmd.AddCommand(adminCmd())
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default clipdesk.yml into the workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.Path(viper.GetString("workspace"))
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := os.WriteFile(path, []byte(config.GenerateDefault()), 0o644); err != nil {
				return err
			}
			fmt.Println("wrote", path)
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	var addr, basePath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stderr, "clipdesk: ", log.LstdFlags)
			workspace := viper.GetString("workspace")
			if _, err := db.EnsureWorkspace(workspace); err != nil {
				return err
			}
			conn, err := db.Open(db.Config{Workspace: workspace})
			if err != nil {
				return err
			}
			defer conn.Close()
			if err := migrate.Migrate(conn); err != nil {
				return err
			}
			cfg, err := config.LoadOptional(workspace)
			if err != nil {
				return err
			}
			e := engine.New(conn, cfg)

			secret := os.Getenv("CLIPDESK_JWT_SECRET")
			if secret == "" {
				return fmt.Errorf("CLIPDESK_JWT_SECRET is required for session auth")
			}
			if err := app.EnsureAdmin(cmd.Context(), e, cfg.Auth.SeedAdminEmail, os.Getenv("CLIPDESK_ADMIN_PASSWORD"), logger); err != nil {
				return err
			}
			handler, err := server.New(server.Config{
				Engine:   e,
				BasePath: basePath,
				Auth: server.AuthConfig{
					JWTSecret:  []byte(secret),
					CookieName: cfg.Auth.CookieName,
					SessionTTL: time.Duration(cfg.Auth.SessionTTLHours) * time.Hour,
					Logger:     logger,
				},
				AllowedOrigins: cfg.Auth.AllowedOrigins,
			})
			if err != nil {
				return err
			}
			srv := &http.Server{Addr: addr, Handler: handler}
			go func() {
				<-cmd.Context().Done()
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(ctx)
			}()
			fmt.Printf("Serving Clipdesk API on http://%s%s (OpenAPI at %s/openapi.json, Swagger UI at /docs)\n", addr, basePath, basePath)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	cmd.Flags().StringVar(&basePath, "base-path", "/v0", "API base path")
	return cmd
}

func requestCmd() *cobra.Command {
	req := &cobra.Command{Use: "request", Short: "Manage buyer requests"}
	req.AddCommand(requestListCmd())
	req.AddCommand(requestShowCmd())
	req.AddCommand(requestSubmitCmd())
	req.AddCommand(requestSetStatusCmd())
	req.AddCommand(requestSetTiersCmd())
	req.AddCommand(requestConvertCmd())
	return req
}

func requestListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List buyer requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				items, err := e.ListRequests(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				t := newTable("ID", "CREATED", "NAME", "NEED", "VOL/WK", "TURNAROUND", "STATUS", "TIERS")
				for _, r := range items {
					t.AppendRow(table.Row{r.ID, r.CreatedAt, r.Name, r.NeedType, r.VolumePerWeek, r.Turnaround, r.Status,
						fmt.Sprintf("%s/%s", r.ComplexitySuggested, r.SpeedTier)})
				}
				fmt.Println(t.Render())
				return nil
			})
		},
	}
}

func requestShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a buyer request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				r, err := e.GetRequest(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(r)
			})
		},
	}
}

func requestSubmitCmd() *cobra.Command {
	var name, email, company, needType, turnaround, budget, footage, examples, notes string
	var platforms []string
	var volume int
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a buyer request (as the public form would)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				r, err := e.SubmitRequest(ctx, engine.RequestSubmission{
					Name:          name,
					Email:         email,
					Company:       optionalString(company),
					NeedType:      needType,
					Platforms:     platforms,
					VolumePerWeek: volume,
					Turnaround:    turnaround,
					BudgetRange:   budget,
					FootageLink:   optionalString(footage),
					ExamplesLink:  optionalString(examples),
					Notes:         optionalString(notes),
				})
				if err != nil {
					return err
				}
				return printJSON(r)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "buyer name")
	cmd.Flags().StringVar(&email, "email", "", "buyer email")
	cmd.Flags().StringVar(&company, "company", "", "company")
	cmd.Flags().StringVar(&needType, "need-type", "", "need type")
	cmd.Flags().StringSliceVar(&platforms, "platform", nil, "target platform (repeatable)")
	cmd.Flags().IntVar(&volume, "volume", 1, "videos per week")
	cmd.Flags().StringVar(&turnaround, "turnaround", "", "turnaround")
	cmd.Flags().StringVar(&budget, "budget", "", "budget range")
	cmd.Flags().StringVar(&footage, "footage-link", "", "footage link")
	cmd.Flags().StringVar(&examples, "examples-link", "", "examples link")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("need-type")
	_ = cmd.MarkFlagRequired("turnaround")
	_ = cmd.MarkFlagRequired("budget")
	return cmd
}

func requestSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Set request status (NEW, IN_REVIEW, QUOTED, WON, LOST)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				r, err := e.SetRequestStatus(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(r)
			})
		},
	}
}

func requestSetTiersCmd() *cobra.Command {
	var complexity, speed string
	cmd := &cobra.Command{
		Use:   "set-tiers <id>",
		Short: "Override suggested complexity and speed tiers",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				r, err := e.SetRequestTiers(ctx, args[0], complexity, speed)
				if err != nil {
					return err
				}
				return printJSON(r)
			})
		},
	}
	cmd.Flags().StringVar(&complexity, "complexity", "", "BASIC, PRO, or ELITE")
	cmd.Flags().StringVar(&speed, "speed", "", "STANDARD or RUSH")
	_ = cmd.MarkFlagRequired("complexity")
	_ = cmd.MarkFlagRequired("speed")
	return cmd
}

func requestConvertCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <id>",
		Short: "Convert a request into a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				job, err := e.ConvertRequest(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(job)
			})
		},
	}
}

func jobCmd() *cobra.Command {
	job := &cobra.Command{Use: "job", Short: "Manage jobs"}
	job.AddCommand(jobListCmd())
	job.AddCommand(jobShowCmd())
	job.AddCommand(jobSetStatusCmd())
	job.AddCommand(jobUpdateCmd())
	job.AddCommand(jobChecklistCmd())
	return job
}

func jobListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				items, err := e.ListJobs(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				t := newTable("ID", "CREATED", "BUYER", "SERVICE", "RUSH", "STATUS", "PAYOUT")
				for _, j := range items {
					payout := ""
					if j.PayoutStatus != nil {
						payout = *j.PayoutStatus
					}
					t.AppendRow(table.Row{j.ID, j.CreatedAt, j.BuyerName, j.Service, j.Rush, j.Status, payout})
				}
				fmt.Println(t.Render())
				return nil
			})
		},
	}
}

func jobShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				j, err := e.GetJob(ctx, args[0])
				if err != nil {
					return err
				}
				return printJSON(j)
			})
		},
	}
}

func jobSetStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <status>",
		Short: "Set job status (INTAKE_PENDING, IN_PROGRESS, QA, DELIVERED, REVISIONS, CLOSED)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				j, err := e.SetJobStatus(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return printJSON(j)
			})
		},
	}
}

func jobUpdateCmd() *cobra.Command {
	var pkg, dueAt, assets, footage, delivery, qaNotes, payoutStatus string
	var rush bool
	var buyerPrice, editorPayout float64
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update job fields; only flags you pass are written",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := engine.JobUpdate{}
			if cmd.Flags().Changed("package") {
				upd.Package = &pkg
			}
			if cmd.Flags().Changed("rush") {
				upd.Rush = &rush
			}
			if cmd.Flags().Changed("due-at") {
				upd.DueAt = &dueAt
			}
			if cmd.Flags().Changed("assets-link") {
				upd.AssetsLink = &assets
			}
			if cmd.Flags().Changed("footage-link") {
				upd.FootageLink = &footage
			}
			if cmd.Flags().Changed("delivery-link") {
				upd.DeliveryLink = &delivery
			}
			if cmd.Flags().Changed("qa-notes") {
				upd.QANotes = &qaNotes
			}
			if cmd.Flags().Changed("buyer-price") {
				upd.BuyerPrice = &buyerPrice
			}
			if cmd.Flags().Changed("editor-payout") {
				upd.EditorPayout = &editorPayout
			}
			if cmd.Flags().Changed("payout-status") {
				upd.PayoutStatus = &payoutStatus
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				j, err := e.UpdateJob(ctx, args[0], upd)
				if err != nil {
					return err
				}
				return printJSON(j)
			})
		},
	}
	cmd.Flags().StringVar(&pkg, "package", "", "package (e.g. BASIC, PRO, ELITE)")
	cmd.Flags().BoolVar(&rush, "rush", false, "rush delivery")
	cmd.Flags().StringVar(&dueAt, "due-at", "", "due timestamp (RFC3339)")
	cmd.Flags().StringVar(&assets, "assets-link", "", "assets link")
	cmd.Flags().StringVar(&footage, "footage-link", "", "footage link")
	cmd.Flags().StringVar(&delivery, "delivery-link", "", "delivery link")
	cmd.Flags().StringVar(&qaNotes, "qa-notes", "", "QA notes")
	cmd.Flags().Float64Var(&buyerPrice, "buyer-price", 0, "buyer price")
	cmd.Flags().Float64Var(&editorPayout, "editor-payout", 0, "editor payout")
	cmd.Flags().StringVar(&payoutStatus, "payout-status", "", "PENDING, PAID, or CANCELLED")
	return cmd
}

func jobChecklistCmd() *cobra.Command {
	checklistFlags := []string{
		"payment-confirmed", "files-received", "scope-locked", "edit-in-progress",
		"qa-pass", "delivered", "revision-requested", "closed",
	}
	values := map[string]*bool{}
	cmd := &cobra.Command{
		Use:   "checklist <job-id>",
		Short: "Show or update the job checklist; only flags you pass are written",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := engine.ChecklistUpdate{}
			pick := func(flag string) *bool {
				if cmd.Flags().Changed(flag) {
					return values[flag]
				}
				return nil
			}
			upd.PaymentConfirmed = pick("payment-confirmed")
			upd.FilesReceived = pick("files-received")
			upd.ScopeLocked = pick("scope-locked")
			upd.EditInProgress = pick("edit-in-progress")
			upd.QAPass = pick("qa-pass")
			upd.Delivered = pick("delivered")
			upd.RevisionRequested = pick("revision-requested")
			upd.Closed = pick("closed")
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				cl, err := e.UpdateChecklist(ctx, args[0], upd)
				if err != nil {
					return err
				}
				return printJSON(cl)
			})
		},
	}
	for _, name := range checklistFlags {
		values[name] = cmd.Flags().Bool(name, false, "set the "+strings.ReplaceAll(name, "-", "_")+" flag")
	}
	return cmd
}

func templateCmd() *cobra.Command {
	tpl := &cobra.Command{Use: "template", Short: "Manage message templates"}
	tpl.AddCommand(templateListCmd())
	tpl.AddCommand(templateCreateCmd())
	tpl.AddCommand(templateUpdateCmd())
	tpl.AddCommand(templateDeleteCmd())
	tpl.AddCommand(templatePreviewCmd())
	return tpl
}

func templateListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				items, err := e.ListTemplates(ctx)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(items)
				}
				t := newTable("ID", "NAME", "SUBJECT")
				for _, item := range items {
					subject := ""
					if item.Subject != nil {
						subject = *item.Subject
					}
					t.AppendRow(table.Row{item.ID, item.Name, subject})
				}
				fmt.Println(t.Render())
				return nil
			})
		},
	}
}

func templateCreateCmd() *cobra.Command {
	var name, subject, body string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a template",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.CreateTemplate(ctx, name, optionalString(subject), body)
				if err != nil {
					return err
				}
				return printJSON(t)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "template name")
	cmd.Flags().StringVar(&subject, "subject", "", "subject line")
	cmd.Flags().StringVar(&body, "body", "", "body with {field} placeholders")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("body")
	return cmd
}

func templateUpdateCmd() *cobra.Command {
	var name, subject, body string
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a template; only flags you pass are written",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			upd := engine.TemplateUpdate{}
			if cmd.Flags().Changed("name") {
				upd.Name = &name
			}
			if cmd.Flags().Changed("subject") {
				upd.Subject = &subject
			}
			if cmd.Flags().Changed("body") {
				upd.Body = &body
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				t, err := e.UpdateTemplate(ctx, args[0], upd)
				if err != nil {
					return err
				}
				return printJSON(t)
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "template name")
	cmd.Flags().StringVar(&subject, "subject", "", "subject line")
	cmd.Flags().StringVar(&body, "body", "", "body with {field} placeholders")
	return cmd
}

func templateDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				return e.DeleteTemplate(ctx, args[0])
			})
		},
	}
}

func templatePreviewCmd() *cobra.Command {
	var fields []string
	cmd := &cobra.Command{
		Use:   "preview <id>",
		Short: "Preview a template with field values (--field name=Ada)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fieldMap := map[string]string{}
			for _, f := range fields {
				k, v, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid --field %q, want name=value", f)
				}
				fieldMap[k] = v
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				subject, body, err := e.PreviewTemplate(ctx, args[0], fieldMap)
				if err != nil {
					return err
				}
				if subject != "" {
					fmt.Println("Subject:", subject)
				}
				fmt.Println(body)
				return nil
			})
		},
	}
	cmd.Flags().StringSliceVar(&fields, "field", nil, "field value as name=value (repeatable)")
	return cmd
}

func adminCmd() *cobra.Command {
	adm := &cobra.Command{Use: "admin", Short: "Manage admin accounts"}
	adm.AddCommand(adminCreateCmd())
	return adm
}

func adminCreateCmd() *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("CLIPDESK_ADMIN_PASSWORD")
			}
			if password == "" {
				return fmt.Errorf("--password or CLIPDESK_ADMIN_PASSWORD is required")
			}
			return withEngine(cmd.Context(), func(ctx context.Context, e *engine.Engine) error {
				a, err := e.CreateAdmin(ctx, email, password)
				if err != nil {
					return err
				}
				return printJSON(a)
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "admin email")
	cmd.Flags().StringVar(&password, "password", "", "password (falls back to CLIPDESK_ADMIN_PASSWORD)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

// --- helpers ---

func withEngine(ctx context.Context, fn func(context.Context, *engine.Engine) error) error {
	workspace := viper.GetString("workspace")
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return err
	}
	defer conn.Close()
	if err := migrate.Migrate(conn); err != nil {
		return err
	}
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return err
	}
	return fn(ctx, engine.New(conn, cfg))
}

func newTable(columns ...string) table.Writer {
	t := table.NewWriter()
	row := table.Row{}
	for _, c := range columns {
		row = append(row, c)
	}
	t.AppendHeader(row)
	t.SetStyle(table.StyleLight)
	return t
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
