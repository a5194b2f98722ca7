package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hr-core/internal/attendance"
	"github.com/frahmantamala/hr-core/internal/auth"
	"github.com/frahmantamala/hr-core/internal/benefit"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/frahmantamala/hr-core/internal/memo"
	"github.com/frahmantamala/hr-core/internal/overtime"
	"github.com/frahmantamala/hr-core/internal/schedule"
	"github.com/frahmantamala/hr-core/internal/settings"
	"github.com/frahmantamala/hr-core/internal/talent"
	"github.com/frahmantamala/hr-core/internal/textgen"
	"github.com/frahmantamala/hr-core/internal/transport/middleware"
	"github.com/frahmantamala/hr-core/internal/transport/swagger"
	"github.com/go-chi/chi"
)

// Handlers groups the HTTP handlers mounted under /api/v1. A nil handler
// leaves its routes unmounted.
type Handlers struct {
	Health     *HealthHandler
	Auth       *auth.Handler
	Employee   *employee.Handler
	Leave      *leave.Handler
	Overtime   *overtime.Handler
	Schedule   *schedule.Handler
	Attendance *attendance.Handler
	Benefit    *benefit.Handler
	Memo       *memo.Handler
	Settings   *settings.Handler
	Talent     *talent.Handler
	Assistant  *textgen.Handler
}

type RouterOptions struct {
	AllowedOrigins string
	// LoginRate is a limiter rate such as "5-M"; empty disables limiting.
	LoginRate   string
	OpenAPIPath string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts RouterOptions, logger *slog.Logger) error {
	loginLimit, err := middleware.RateLimit(opts.LoginRate)
	if err != nil {
		return err
	}
	if h.Health == nil {
		h.Health = NewHealthHandler()
	}
	if opts.OpenAPIPath == "" {
		opts.OpenAPIPath = "./api/openapi.yml"
	}

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, opts.OpenAPIPath)
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health.healthCheckHandler)
		r.Get("/ping", h.Health.pingHandler)

		if h.Auth == nil {
			return
		}

		r.Route("/auth", func(ar chi.Router) {
			ar.With(loginLimit).Post("/login", h.Auth.Login)
			ar.With(h.Auth.AuthMiddleware).Post("/logout", h.Auth.Logout)
			ar.With(h.Auth.AuthMiddleware).Get("/me", h.Auth.Me)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			admin := h.Auth.RequireAdmin

			if h.Employee != nil {
				pr.Route("/employees", func(er chi.Router) {
					er.Get("/", h.Employee.ListEmployees)
					er.With(admin).Post("/", h.Employee.CreateEmployee)
					er.Get("/{id}", h.Employee.GetEmployee)
					er.With(admin).Put("/{id}", h.Employee.UpdateEmployee)
					er.With(admin).Post("/{id}/deactivate", h.Employee.DeactivateEmployee)
				})
			}

			if h.Leave != nil {
				pr.Route("/leave-requests", func(lr chi.Router) {
					lr.Get("/", h.Leave.ListLeaveRequests)
					lr.Post("/", h.Leave.CreateLeaveRequest)
					lr.Post("/availability", h.Leave.CheckAvailability)
					lr.Get("/{id}/actions", h.Leave.Actions)
					lr.Patch("/{id}/status", h.Leave.UpdateStatus)
				})
			}

			if h.Overtime != nil {
				pr.Route("/overtime-requests", func(or chi.Router) {
					or.Get("/", h.Overtime.ListOvertimeRequests)
					or.Post("/", h.Overtime.CreateOvertimeRequest)
					or.Patch("/{id}/status", h.Overtime.UpdateStatus)
				})
			}

			if h.Schedule != nil {
				pr.Route("/schedules", func(sr chi.Router) {
					sr.Get("/", h.Schedule.ListSchedules)
					sr.With(admin).Post("/", h.Schedule.CreateSchedule)
					sr.With(admin).Put("/{id}", h.Schedule.UpdateSchedule)
					sr.Post("/suggest", h.Schedule.SuggestSchedule)
				})
			}

			if h.Attendance != nil {
				pr.Route("/time-records", func(tr chi.Router) {
					tr.Get("/", h.Attendance.ListTimeRecords)
					tr.With(admin).Get("/export", h.Attendance.ExportTimeRecords)
					tr.With(admin).Post("/absences", h.Attendance.MarkAbsences)
				})
				pr.Route("/biometric", func(br chi.Router) {
					br.Get("/devices", h.Attendance.ListDevices)
					br.With(admin).Post("/devices", h.Attendance.CreateDevice)
					br.With(admin).Put("/devices/{id}", h.Attendance.UpdateDevice)
					br.With(admin).Delete("/devices/{id}", h.Attendance.DeleteDevice)
					br.Get("/logs", h.Attendance.ListLogs)
					br.With(admin).Post("/sync", h.Attendance.SyncDevices)
				})
			}

			if h.Benefit != nil {
				pr.Route("/claims", func(cr chi.Router) {
					cr.Get("/", h.Benefit.ListClaims)
					cr.Post("/", h.Benefit.CreateClaim)
					cr.With(admin).Put("/{id}", h.Benefit.UpdateClaim)
					cr.With(admin).Patch("/{id}/status", h.Benefit.UpdateStatus)
				})
			}

			if h.Memo != nil {
				pr.Route("/memos", func(mr chi.Router) {
					mr.Get("/", h.Memo.ListMemos)
					mr.With(admin).Post("/", h.Memo.CreateMemo)
					mr.With(admin).Put("/{id}", h.Memo.UpdateMemo)
					mr.With(admin).Delete("/{id}", h.Memo.DeleteMemo)
				})
			}

			if h.Settings != nil {
				pr.Get("/settings", h.Settings.GetSettings)
				pr.With(admin).Put("/settings", h.Settings.UpdateSettings)
			}

			if h.Talent != nil {
				pr.Route("/talent", func(tr chi.Router) {
					tr.Use(admin)
					tr.Get("/job-postings", h.Talent.ListJobPostings)
					tr.Post("/job-postings", h.Talent.CreateJobPosting)
					tr.Get("/onboarding-plans", h.Talent.ListOnboardingPlans)
					tr.Post("/onboarding-plans", h.Talent.CreateOnboardingPlan)
					tr.Get("/performance-reviews", h.Talent.ListPerformanceReviews)
					tr.Post("/performance-reviews", h.Talent.CreatePerformanceReview)
				})
			}

			if h.Assistant != nil {
				pr.Route("/assistant", func(ar chi.Router) {
					ar.With(admin).Post("/job-description", h.Assistant.JobDescription)
					ar.With(admin).Post("/performance-review", h.Assistant.PerformanceReview)
					ar.With(admin).Post("/onboarding-plan", h.Assistant.OnboardingPlan)
					ar.Post("/schedule", h.Assistant.Schedule)
					ar.Post("/chart-insights", h.Assistant.ChartInsights)
					ar.Post("/chat", h.Assistant.Chat)
					ar.Delete("/chat", h.Assistant.ResetChat)
				})
			}
		})
	})
	return nil
}
