package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("RecoveryMiddleware", func() {
	ginkgo.It("turns a panic into a 500 without leaking the value", func() {
		h := RecoveryMiddleware(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("secret detail")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(rec.Header().Get("Content-Type")).To(gomega.Equal("application/json"))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"code":"INTERNAL_ERROR"`))
		gomega.Expect(rec.Body.String()).ToNot(gomega.ContainSubstring("secret detail"))
	})
})

var _ = ginkgo.Describe("LoggingMiddleware", func() {
	var (
		buf *bytes.Buffer
		lg  *slog.Logger
	)

	ginkgo.BeforeEach(func() {
		buf = &bytes.Buffer{}
		lg = slog.New(slog.NewJSONHandler(buf, nil))
	})

	ginkgo.It("masks credentials in request and response bodies", func() {
		h := LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"accessToken":"abc.def.ghi","tokenType":"Bearer"}`))
		}))

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"a@b.c","password":"hunter2"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer xyz")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		out := buf.String()
		gomega.Expect(out).ToNot(gomega.ContainSubstring("hunter2"))
		gomega.Expect(out).ToNot(gomega.ContainSubstring("abc.def.ghi"))
		gomega.Expect(out).ToNot(gomega.ContainSubstring("Bearer xyz"))
		gomega.Expect(out).To(gomega.ContainSubstring("a@b.c"))
		gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring("abc.def.ghi"))
	})

	ginkgo.It("keeps the request body readable for the handler", func() {
		var seen string
		h := LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			b := new(bytes.Buffer)
			_, _ = b.ReadFrom(r.Body)
			seen = b.String()
		}))

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"memo"}`))
		req.Header.Set("Content-Type", "application/json")
		h.ServeHTTP(httptest.NewRecorder(), req)

		gomega.Expect(seen).To(gomega.Equal(`{"title":"memo"}`))
	})

	ginkgo.It("does not log binary payloads", func() {
		h := LoggingMiddleware(lg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			_, _ = w.Write([]byte("PK\x03\x04binary"))
		}))

		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/export", nil))

		gomega.Expect(buf.String()).To(gomega.ContainSubstring(`"body":"[binary]"`))
		gomega.Expect(buf.String()).To(gomega.ContainSubstring(`"response_size":10`))
	})
})

var _ = ginkgo.Describe("filterSensitiveBody", func() {
	ginkgo.It("masks nested credential and benefit fields", func() {
		out := filterSensitiveBody([]byte(`{"employees":[{"name":"Ann","passwordHash":"$2a$","healthCareBenefit":{"balance":"100"}}]}`))

		gomega.Expect(out).To(gomega.ContainSubstring(`"name":"Ann"`))
		gomega.Expect(out).To(gomega.ContainSubstring(`"passwordHash":"[FILTERED]"`))
		gomega.Expect(out).To(gomega.ContainSubstring(`"healthCareBenefit":"[FILTERED]"`))
	})

	ginkgo.It("refuses to echo plain text mentioning secrets", func() {
		gomega.Expect(filterSensitiveBody([]byte("password=hunter2"))).To(gomega.Equal("[FILTERED - Contains sensitive data]"))
	})
})

var _ = ginkgo.Describe("CORS", func() {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	preflight := func(h http.Handler, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/employees", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
		req.Header.Set("Access-Control-Request-Headers", "Authorization")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	ginkgo.It("answers preflight for a listed origin without reaching the handler", func() {
		// Given two configured origins
		h := CORS("http://a.example, http://b.example")(next)

		// When the second one sends a preflight
		rec := preflight(h, "http://b.example")

		// Then it is granted
		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.Equal("http://b.example"))
		gomega.Expect(rec.Header().Get("Access-Control-Allow-Methods")).To(gomega.Equal(http.MethodPatch))
	})

	ginkgo.It("exposes the trace header on simple requests", func() {
		h := CORS("http://a.example")(next)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil)
		req.Header.Set("Origin", "http://a.example")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		gomega.Expect(rec.Code).To(gomega.Equal(http.StatusTeapot))
		gomega.Expect(rec.Header().Get("Access-Control-Expose-Headers")).To(gomega.ContainSubstring("X-Trace-Id"))
	})

	ginkgo.It("allows any origin when none are configured", func() {
		rec := preflight(CORS("")(next), "http://anywhere.example")

		gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.Equal("*"))
	})

	ginkgo.It("does not grant an unlisted origin", func() {
		rec := preflight(CORS("http://a.example")(next), "http://evil.example")

		gomega.Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(gomega.BeEmpty())
	})
})
