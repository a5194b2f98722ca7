package textgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"google.golang.org/genai"
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

var OnboardingPlanSchema = func() *openapi3.Schema {
	task := openapi3.NewObjectSchema().
		WithProperty("task", described(openapi3.NewStringSchema(), "The specific onboarding task.")).
		WithProperty("completed", described(openapi3.NewBoolSchema(), "Default to false.")).
		WithRequired([]string{"task", "completed"})

	week := openapi3.NewObjectSchema().
		WithProperty("week", described(openapi3.NewFloat64Schema(), "The week number.")).
		WithProperty("title", described(openapi3.NewStringSchema(), "A title for the week's focus.")).
		WithProperty("tasks", described(openapi3.NewArraySchema().WithItems(task), "A list of tasks for the week.")).
		WithRequired([]string{"week", "title", "tasks"})

	return openapi3.NewObjectSchema().
		WithProperty("plan", described(openapi3.NewArraySchema().WithItems(week), "List of weekly plans for the new hire.")).
		WithRequired([]string{"plan"})
}()

var ScheduleSchema = func() *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for _, d := range weekdays {
		desc := fmt.Sprintf("Work schedule for %s%s (e.g., '9-5', '10-6', 'Day Off').", strings.ToUpper(d[:1]), d[1:])
		s = s.WithProperty(d, described(openapi3.NewStringSchema(), desc))
	}
	return s.WithRequired(weekdays)
}()

func described(s *openapi3.Schema, description string) *openapi3.Schema {
	s.Description = description
	return s
}

func validateJSON(schema *openapi3.Schema, text string) error {
	var doc any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return fmt.Errorf("not JSON: %w", err)
	}
	return schema.VisitJSON(doc)
}

// responseSchema converts s into the schema type GenerateContent accepts,
// which spells types in upper case.
func responseSchema(s *openapi3.Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
	}
	if types := s.Type.Slice(); len(types) > 0 {
		out.Type = genai.Type(strings.ToUpper(types[0]))
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, ref := range s.Properties {
			if ref != nil {
				out.Properties[name] = responseSchema(ref.Value)
			}
		}
	}
	if s.Items != nil {
		out.Items = responseSchema(s.Items.Value)
	}
	return out
}
