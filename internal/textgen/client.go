// Package textgen talks to Gemini through the genai SDK. Callers always get
// a displayable answer back: any failure is logged and replaced by a
// fallback message, so nothing here can break a store operation.
package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"google.golang.org/genai"
)

const (
	fallbackJobDescription    = "Sorry, I couldn't generate the job description at this time. Please try again later."
	fallbackPerformanceReview = "Sorry, I couldn't generate the performance review at this time. Please try again later."
	fallbackChartInsights     = "Sorry, I couldn't analyze the data at this time."
	fallbackOnboardingPlan    = "Sorry, I couldn't generate the onboarding plan at this time. Please try again later."
	fallbackSchedule          = "Sorry, I couldn't generate the schedule at this time."
	fallbackChat              = "I'm having trouble connecting right now. Please try again in a moment."
)

const (
	defaultBaseURL    = "https://generativelanguage.googleapis.com/"
	defaultAPIVersion = "v1beta"
)

var ErrNotConfigured = errors.New("textgen: api key not configured")

type Config struct {
	APIKey string
	// BaseURL is the API root without the version segment.
	BaseURL    string
	APIVersion string
	Model      string
	Timeout    time.Duration
}

type Client struct {
	genai   *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

func NewClient(config Config, logger *slog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	if config.APIVersion == "" {
		config.APIVersion = defaultAPIVersion
	}
	if config.Model == "" {
		config.Model = "gemini-2.5-flash"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		model:   config.Model,
		timeout: config.Timeout,
		logger:  logger,
	}
	if config.APIKey == "" {
		logger.Warn("text generation api key missing, assistant will answer with fallbacks")
		return c
	}

	gc, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:     config.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{},
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    config.BaseURL,
			APIVersion: config.APIVersion,
		},
	})
	if err != nil {
		logger.Error("failed to create text generation client, assistant will answer with fallbacks", "error", err)
		return c
	}
	c.genai = gc
	return c
}

func (c *Client) Configured() bool {
	return c.genai != nil
}

// generate performs one GenerateContent round trip under the client
// timeout and returns the text of the first candidate.
func (c *Client) generate(ctx context.Context, contents []*genai.Content, config *genai.GenerateContentConfig) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return c.answer(resp, start)
}

func (c *Client) answer(resp *genai.GenerateContentResponse, start time.Time) (string, error) {
	if resp == nil {
		return "", errors.New("empty response")
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", errors.New("no candidates returned")
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("empty candidate")
	}

	c.logger.Debug("text generated", "model", c.model, "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}

func (c *Client) prose(ctx context.Context, op, prompt, fallback string) string {
	text, err := c.generate(ctx, genai.Text(prompt), nil)
	if err != nil {
		c.logger.Error("text generation failed", "operation", op, "error", err)
		return fallback
	}
	return text
}

// structured asks for JSON matching schema and only returns it when it
// validates; otherwise it returns {"error": fallback}.
func (c *Client) structured(ctx context.Context, op, prompt string, schema *openapi3.Schema, fallback string) string {
	text, err := c.generate(ctx, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   responseSchema(schema),
	})
	if err != nil {
		c.logger.Error("text generation failed", "operation", op, "error", err)
		return errorJSON(fallback)
	}

	text = stripFence(text)
	if err := validateJSON(schema, text); err != nil {
		c.logger.Error("generated JSON rejected", "operation", op, "error", err)
		return errorJSON(fallback)
	}
	return text
}

func errorJSON(msg string) string {
	b, _ := json.Marshal(map[string]string{"error": msg})
	return string(b)
}

// stripFence removes a ```json fence some models wrap around JSON output.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func (c *Client) GenerateJobDescription(ctx context.Context, title, requirements string) string {
	prompt := fmt.Sprintf(`Generate a compelling and professional job description for the following role. Be comprehensive and structure it with sections like 'Role Overview', 'Key Responsibilities', 'Qualifications', and 'What We Offer'.

**Job Title:** %s
**Key Requirements/Skills:** %s`, title, requirements)
	return c.prose(ctx, "job_description", prompt, fallbackJobDescription)
}

func (c *Client) GeneratePerformanceReview(ctx context.Context, name, achievements, improvementAreas string) string {
	prompt := fmt.Sprintf(`Generate a constructive and professional performance review summary for an employee. Be balanced, specific, and encouraging.

**Employee Name:** %s
**Key Achievements this period:** %s
**Areas for Improvement/Development:** %s`, name, achievements, improvementAreas)
	return c.prose(ctx, "performance_review", prompt, fallbackPerformanceReview)
}

func (c *Client) AnalyzeChartData(ctx context.Context, chartTitle, dataSummary string) string {
	prompt := fmt.Sprintf(`As an expert HR data analyst, provide three sharp, actionable insights based on the following data. Present them as a bulleted list.

**Chart:** %s
**Data Summary:** %s`, chartTitle, dataSummary)
	return c.prose(ctx, "chart_insights", prompt, fallbackChartInsights)
}

// GenerateOnboardingPlan returns {"plan":[{week,title,tasks:[{task,completed}]}]}.
func (c *Client) GenerateOnboardingPlan(ctx context.Context, role, department string) string {
	prompt := fmt.Sprintf("Generate a comprehensive 4-week onboarding plan for a new hire in the role of %s within the %s department. The plan should include key milestones, introductory meetings, and role-specific tasks.", role, department)
	return c.structured(ctx, "onboarding_plan", prompt, OnboardingPlanSchema, fallbackOnboardingPlan)
}

// GenerateEmployeeSchedule returns an object with one shift string per weekday.
func (c *Client) GenerateEmployeeSchedule(ctx context.Context, position, department string) string {
	prompt := fmt.Sprintf(`Generate a typical 7-day work schedule for an employee. A standard shift is "9-5". Most roles have Saturday and Sunday as "Day Off". Consider roles that might have different hours or a day off during the week.

**Employee Position:** %s
**Department:** %s`, position, department)
	return c.structured(ctx, "schedule", prompt, ScheduleSchema, fallbackSchedule)
}
