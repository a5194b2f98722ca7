package textgen_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/frahmantamala/hr-core/internal/settings"
	"github.com/frahmantamala/hr-core/internal/textgen"
	"github.com/frahmantamala/hr-core/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// fakeGemini records requests and answers with the next queued reply.
type fakeGemini struct {
	mu       sync.Mutex
	requests []map[string]any
	replies  []string
	status   int
	delay    time.Duration

	// blockReason, when set, answers with promptFeedback and no candidates.
	blockReason string
}

func (f *fakeGemini) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	body["_path"] = r.URL.Path
	body["_key"] = r.Header.Get("x-goog-api-key")
	f.requests = append(f.requests, body)
	reply := ""
	if len(f.replies) > 0 {
		reply, f.replies = f.replies[0], f.replies[1:]
	}
	status, delay, blocked := f.status, f.delay, f.blockReason
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"code": status, "message": "unavailable", "status": "UNAVAILABLE"},
		})
		return
	}
	if blocked != "" {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"promptFeedback": map[string]any{"blockReason": blocked},
		})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"role": "model", "parts": []map[string]string{{"text": reply}}}},
		},
	})
}

func (f *fakeGemini) last() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

var _ = Describe("Client", func() {
	var (
		fake   *fakeGemini
		srv    *httptest.Server
		client *textgen.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		fake = &fakeGemini{}
		srv = httptest.NewServer(fake)
		client = textgen.NewClient(textgen.Config{
			APIKey:     "test-key",
			BaseURL:    srv.URL,
			APIVersion: "v1beta",
			Model:      "gemini-test",
			Timeout:    time.Second,
		}, logger.Discard())
	})

	AfterEach(func() {
		srv.Close()
	})

	Describe("free text", func() {
		It("returns the generated text", func() {
			fake.replies = []string{"## Role Overview\nBuild things."}

			text := client.GenerateJobDescription(ctx, "Engineer", "Go")

			Expect(text).To(Equal("## Role Overview\nBuild things."))
			req := fake.last()
			Expect(req["_path"]).To(Equal("/v1beta/models/gemini-test:generateContent"))
			Expect(req["_key"]).To(Equal("test-key"))
			Expect(req["contents"]).To(HaveLen(1))
		})

		It("falls back when the prompt is blocked", func() {
			fake.blockReason = "SAFETY"
			Expect(client.GenerateJobDescription(ctx, "Engineer", "Go")).To(Equal("Sorry, I couldn't generate the job description at this time. Please try again later."))
		})

		It("falls back to an apology when the API fails", func() {
			fake.status = http.StatusInternalServerError
			Expect(client.GeneratePerformanceReview(ctx, "John", "shipped", "docs")).To(ContainSubstring("couldn't generate the performance review"))
			Expect(client.AnalyzeChartData(ctx, "Headcount", "up")).To(Equal("Sorry, I couldn't analyze the data at this time."))
		})

		It("gives up after the timeout", func() {
			fake.delay = 2 * time.Second
			started := time.Now()
			Expect(client.GenerateJobDescription(ctx, "Engineer", "Go")).To(ContainSubstring("Sorry"))
			Expect(time.Since(started)).To(BeNumerically("<", 1900*time.Millisecond))
		})

		It("honours caller cancellation", func() {
			fake.delay = 2 * time.Second
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			Expect(client.GenerateJobDescription(cctx, "Engineer", "Go")).To(ContainSubstring("Sorry"))
		})
	})

	Describe("structured output", func() {
		It("passes through a plan that matches the schema", func() {
			plan := `{"plan":[{"week":1,"title":"Welcome","tasks":[{"task":"Meet the team","completed":false}]}]}`
			fake.replies = []string{plan}

			Expect(client.GenerateOnboardingPlan(ctx, "Engineer", "Technology")).To(MatchJSON(plan))

			cfg := fake.last()["generationConfig"].(map[string]any)
			Expect(cfg["responseMimeType"]).To(Equal("application/json"))
			schema := cfg["responseSchema"].(map[string]any)
			Expect(schema["type"]).To(Equal("OBJECT"))
			Expect(schema["required"]).To(ConsistOf("plan"))
		})

		It("unwraps fenced JSON", func() {
			fake.replies = []string{"```json\n{\"monday\":\"9-5\",\"tuesday\":\"9-5\",\"wednesday\":\"9-5\",\"thursday\":\"9-5\",\"friday\":\"9-5\",\"saturday\":\"Day Off\",\"sunday\":\"Day Off\"}\n```"}

			var week map[string]string
			Expect(json.Unmarshal([]byte(client.GenerateEmployeeSchedule(ctx, "Engineer", "Technology")), &week)).To(Succeed())
			Expect(week).To(HaveKeyWithValue("saturday", "Day Off"))
		})

		It("replaces output that does not match the schema", func() {
			fake.replies = []string{`{"monday":"9-5"}`}

			Expect(client.GenerateEmployeeSchedule(ctx, "Engineer", "Technology")).
				To(MatchJSON(`{"error":"Sorry, I couldn't generate the schedule at this time."}`))
		})

		It("replaces output that is not JSON", func() {
			fake.replies = []string{"Here is your plan!"}
			Expect(client.GenerateOnboardingPlan(ctx, "Engineer", "Technology")).To(ContainSubstring(`"error"`))
		})
	})

	Describe("without an API key", func() {
		It("never calls out and answers with fallbacks", func() {
			offline := textgen.NewClient(textgen.Config{BaseURL: srv.URL}, logger.Discard())

			Expect(offline.Configured()).To(BeFalse())
			Expect(offline.GenerateJobDescription(ctx, "Engineer", "Go")).To(ContainSubstring("Sorry"))
			Expect(offline.GenerateOnboardingPlan(ctx, "Engineer", "Technology")).To(ContainSubstring(`"error"`))
			Expect(fake.requests).To(BeEmpty())
		})
	})

	Describe("Chat", func() {
		It("keeps the conversation and system instruction", func() {
			fake.replies = []string{"Hello!", "Twenty days is common."}
			chat := client.NewChat(textgen.AssistantInstruction)

			Expect(chat.SendMessage(ctx, "Hi")).To(Equal("Hello!"))
			Expect(chat.SendMessage(ctx, "How much vacation?")).To(Equal("Twenty days is common."))
			Expect(chat.Turns()).To(Equal(2))

			req := fake.last()
			Expect(req["contents"]).To(HaveLen(3))
			Expect(req).To(HaveKey("systemInstruction"))
		})

		It("drops a failed turn from the history", func() {
			fake.replies = []string{"Hello!"}
			chat := client.NewChat("")
			chat.SendMessage(ctx, "Hi")

			fake.status = http.StatusServiceUnavailable
			Expect(chat.SendMessage(ctx, "Still there?")).To(ContainSubstring("trouble connecting"))
			Expect(chat.Turns()).To(Equal(1))

			chat.Reset()
			Expect(chat.Turns()).To(BeZero())
		})
	})

	Describe("CheckLeaveAvailability", func() {
		holidays := []settings.Holiday{{Name: "Independence Day", Date: "2024-07-04"}}
		credits := leave.Credits{Vacation: 4, Sick: 1, Personal: 0}

		It("confirms a request the balance covers", func() {
			Expect(client.CheckLeaveAvailability("John", credits, leave.TypeVacation, "2024-07-01", "2024-07-05", holidays)).
				To(HavePrefix("CONFIRMED:"))
		})

		It("warns about a shortfall", func() {
			Expect(client.CheckLeaveAvailability("John", credits, leave.TypeSick, "2024-07-01", "2024-07-05", holidays)).
				To(And(HavePrefix("WARNING:"), ContainSubstring("short by 3")))
		})

		It("reports a reversed range", func() {
			Expect(client.CheckLeaveAvailability("John", credits, leave.TypeVacation, "2024-07-05", "2024-07-01", holidays)).
				To(HavePrefix("ERROR:"))
			Expect(fake.requests).To(BeEmpty())
		})
	})
})
