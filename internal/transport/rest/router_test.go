package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frahmantamala/hr-core/internal/auth"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/frahmantamala/hr-core/internal/memo"
	"github.com/frahmantamala/hr-core/internal/settings"
	"github.com/frahmantamala/hr-core/internal/state"
	"github.com/frahmantamala/hr-core/internal/storage"
	"github.com/frahmantamala/hr-core/internal/storage/memory"
	"github.com/frahmantamala/hr-core/internal/transport/rest"
	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/frahmantamala/hr-core/pkg/password"
	"github.com/go-chi/chi"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

const secret = "router-test-secret-at-least-32-chars!"

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

var _ = ginkgo.Describe("RegisterAllRoutes", func() {
	var (
		router  *chi.Mux
		store   *state.Store
		pingErr error
		opts    rest.RouterOptions
	)

	do := func(method, path, token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	login := func(email string) string {
		rec := do(http.MethodPost, "/api/v1/auth/login", "", `{"email":"`+email+`","password":"password"}`)
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		var session auth.Session
		gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &session)).To(gomega.Succeed())
		return session.AccessToken
	}

	build := func() {
		now := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
		defaults := state.DefaultDataset(now)
		var err error
		store, err = state.Open(context.Background(), state.Options{
			Adapter:  storage.NewAdapter(memory.New(), logger.Discard()),
			Logger:   logger.Discard(),
			Hasher:   password.NewHasher(4),
			Location: time.UTC,
			Now:      func() time.Time { return now },
			Defaults: &defaults,
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		tokens := auth.NewJWTTokenGenerator(secret, time.Hour)
		health := rest.NewHealthHandler().Register("storage", pingerFunc(func(context.Context) error { return pingErr }), map[string]any{"driver": "memory"})

		router = chi.NewRouter()
		err = rest.RegisterAllRoutes(router, rest.Handlers{
			Health:   health,
			Auth:     auth.NewHandler(auth.NewService(store, tokens, password.NewHasher(4), logger.Discard())),
			Employee: employee.NewHandler(store),
			Memo:     memo.NewHandler(store),
			Settings: settings.NewHandler(store),
		}, opts, logger.Discard())
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	}

	ginkgo.BeforeEach(func() {
		pingErr = nil
		opts = rest.RouterOptions{}
	})

	ginkgo.Context("health", func() {
		ginkgo.BeforeEach(build)

		ginkgo.It("answers ping without touching components", func() {
			rec := do(http.MethodGet, "/api/v1/ping", "", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"OK"`))
		})

		ginkgo.It("reports healthy components", func() {
			rec := do(http.MethodGet, "/api/v1/health", "", "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var resp rest.HealthResponse
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp.Status).To(gomega.Equal(rest.HealthHealthy))
			gomega.Expect(resp.Components["storage"].Details).To(gomega.HaveKeyWithValue("driver", "memory"))
		})

		ginkgo.It("returns 503 when a component fails", func() {
			pingErr = errors.New("connection refused")

			rec := do(http.MethodGet, "/api/v1/health", "", "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusServiceUnavailable))
			var resp rest.HealthResponse
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(gomega.Succeed())
			gomega.Expect(resp.Components["storage"].Status).To(gomega.Equal(rest.HealthUnhealthy))
			gomega.Expect(resp.Components["storage"].Message).To(gomega.Equal("connection refused"))
		})
	})

	ginkgo.Context("authenticated routes", func() {
		ginkgo.BeforeEach(build)

		ginkgo.It("rejects requests without a token", func() {
			rec := do(http.MethodGet, "/api/v1/employees", "", "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("lists every employee for the administrator", func() {
			token := login("admin@hr-core.com")

			rec := do(http.MethodGet, "/api/v1/employees", token, "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			var list []map[string]any
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(gomega.Succeed())
			gomega.Expect(list).To(gomega.HaveLen(len(store.Employees())))
			gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("passwordHash"))
		})

		ginkgo.It("scopes the list for an employee without reports", func() {
			token := login("john.doe@example.com")

			rec := do(http.MethodGet, "/api/v1/employees", token, "")

			var list []map[string]any
			gomega.Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(gomega.Succeed())
			gomega.Expect(list).To(gomega.HaveLen(1))
			gomega.Expect(list[0]["email"]).To(gomega.Equal("john.doe@example.com"))
		})

		ginkgo.It("keeps admin routes for administrators", func() {
			token := login("john.doe@example.com")

			rec := do(http.MethodPost, "/api/v1/memos", token, `{"title":"t","content":"c","date":"2024-07-01"}`)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusForbidden))
		})

		ginkgo.It("does not mount handlers that were not provided", func() {
			token := login("admin@hr-core.com")
			rec := do(http.MethodGet, "/api/v1/claims", token, "")
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNotFound))
		})
	})

	ginkgo.Context("cross-cutting middleware", func() {
		ginkgo.It("echoes the trace id or mints one", func() {
			build()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
			req.Header.Set("X-Trace-ID", "trace-123")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			gomega.Expect(rec.Header().Get("X-Trace-ID")).To(gomega.Equal("trace-123"))

			rec = do(http.MethodGet, "/api/v1/ping", "", "")
			gomega.Expect(rec.Header().Get("X-Trace-ID")).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("answers CORS preflight for allowed origins", func() {
			opts.AllowedOrigins = "http://localhost:5173"
			build()

			req := httptest.NewRequest(http.MethodOptions, "/api/v1/employees", nil)
			req.Header.Set("Origin", "http://localhost:5173")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.Equal("http://localhost:5173"))
		})

		ginkgo.It("does not grant other origins", func() {
			opts.AllowedOrigins = "http://localhost:5173"
			build()

			req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
			req.Header.Set("Origin", "http://evil.example")
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.BeEmpty())
		})

		ginkgo.It("rate limits login attempts", func() {
			opts.LoginRate = "2-M"
			build()

			body := `{"email":"admin@hr-core.com","password":"wrong"}`
			gomega.Expect(do(http.MethodPost, "/api/v1/auth/login", "", body).Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(do(http.MethodPost, "/api/v1/auth/login", "", body).Code).To(gomega.Equal(http.StatusUnauthorized))

			rec := do(http.MethodPost, "/api/v1/auth/login", "", body)
			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusTooManyRequests))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("RATE_LIMITED"))
		})

		ginkgo.It("refuses a malformed rate", func() {
			err := rest.RegisterAllRoutes(chi.NewRouter(), rest.Handlers{}, rest.RouterOptions{LoginRate: "lots"}, logger.Discard())
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("serves the OpenAPI document", func() {
			path := filepath.Join(ginkgo.GinkgoT().TempDir(), "openapi.yml")
			gomega.Expect(os.WriteFile(path, []byte("openapi: 3.0.3\n"), 0o600)).To(gomega.Succeed())
			opts.OpenAPIPath = path
			build()

			rec := do(http.MethodGet, "/openapi.yml", "", "")

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("openapi: 3.0.3"))
		})
	})
})
