package textgen_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/internal/textgen"
	"github.com/frahmantamala/hr-core/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Handler", func() {
	var (
		fake    *fakeGemini
		srv     *httptest.Server
		handler *textgen.Handler
	)

	call := func(h http.HandlerFunc, body string, as *user.Principal) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if as != nil {
			req = req.WithContext(user.WithPrincipal(req.Context(), as))
		}
		rec := httptest.NewRecorder()
		h(rec, req)
		return rec
	}

	BeforeEach(func() {
		fake = &fakeGemini{}
		srv = httptest.NewServer(fake)
		client := textgen.NewClient(textgen.Config{APIKey: "k", BaseURL: srv.URL, Timeout: time.Second}, logger.Discard())
		handler = textgen.NewHandler(client)
	})

	AfterEach(func() {
		srv.Close()
	})

	It("wraps prose in a text field", func() {
		fake.replies = []string{"A great job."}
		rec := call(handler.JobDescription, `{"title":"Engineer","requirements":"Go"}`, nil)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`{"text":"A great job."}`))
	})

	It("requires a title", func() {
		Expect(call(handler.JobDescription, `{"title":" "}`, nil).Code).To(Equal(http.StatusBadRequest))
	})

	It("returns structured output unwrapped", func() {
		fake.status = http.StatusBadGateway
		rec := call(handler.OnboardingPlan, `{"role":"Engineer","department":"Technology"}`, nil)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"error"`))
	})

	It("keeps a separate conversation per employee", func() {
		fake.replies = []string{"one", "two", "three"}
		alice := &user.Principal{ID: 1}
		bob := &user.Principal{ID: 2}

		call(handler.Chat, `{"message":"hi"}`, alice)
		call(handler.Chat, `{"message":"hi"}`, bob)
		call(handler.Chat, `{"message":"again"}`, alice)

		Expect(fake.last()["contents"]).To(HaveLen(3))
	})

	It("needs a principal to chat", func() {
		Expect(call(handler.Chat, `{"message":"hi"}`, nil).Code).To(Equal(http.StatusUnauthorized))
	})
})
