package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/frahmantamala/hr-core/internal/textgen"
	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/spf13/cobra"
)

var assistantCmd = &cobra.Command{
	Use:   "assistant",
	Short: "Talk to the AI HR assistant",
	Long:  `Generate HR documents and chat with the assistant from the terminal. Without an API key every command prints its fallback text.`,
}

var (
	assistantTitle        string
	assistantRequirements string
	assistantName         string
	assistantAchievements string
	assistantImprovements string
	assistantRole         string
	assistantDepartment   string
	assistantChartTitle   string
	assistantChartData    string
)

func newAssistantClient() *textgen.Client {
	cfg := mustLoadConfig()
	return textgen.NewClient(textgen.Config{
		APIKey:     cfg.AI.APIKey,
		BaseURL:    cfg.AI.BaseURL,
		APIVersion: cfg.AI.APIVersion,
		Model:      cfg.AI.Model,
		Timeout:    cfg.AI.Timeout,
	}, logger.LoggerWrapper())
}

var jobDescriptionCmd = &cobra.Command{
	Use:   "job-description",
	Short: "Write a job description",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(newAssistantClient().GenerateJobDescription(cmd.Context(), assistantTitle, assistantRequirements))
	},
}

var performanceReviewCmd = &cobra.Command{
	Use:   "performance-review",
	Short: "Draft a performance review",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(newAssistantClient().GeneratePerformanceReview(cmd.Context(), assistantName, assistantAchievements, assistantImprovements))
	},
}

var onboardingPlanCmd = &cobra.Command{
	Use:   "onboarding-plan",
	Short: "Generate a four-week onboarding plan as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(newAssistantClient().GenerateOnboardingPlan(cmd.Context(), assistantRole, assistantDepartment))
	},
}

var assistantScheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Suggest a weekly schedule as JSON",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(newAssistantClient().GenerateEmployeeSchedule(cmd.Context(), assistantRole, assistantDepartment))
	},
}

var chartInsightsCmd = &cobra.Command{
	Use:   "chart-insights",
	Short: "Summarise a chart's data",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(newAssistantClient().AnalyzeChartData(cmd.Context(), assistantChartTitle, assistantChartData))
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat; an empty line or EOF ends it",
	Run: func(cmd *cobra.Command, args []string) {
		runChat(cmd.Context(), newAssistantClient().NewChat(textgen.AssistantInstruction))
	},
}

func runChat(ctx context.Context, chat *textgen.Chat) {
	if ctx == nil {
		ctx = context.Background()
	}
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("you> ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			return
		}
		fmt.Printf("assistant> %s\n\n", chat.SendMessage(ctx, line))
	}
}

func init() {
	jobDescriptionCmd.Flags().StringVar(&assistantTitle, "title", "", "job title")
	jobDescriptionCmd.Flags().StringVar(&assistantRequirements, "requirements", "", "key requirements")
	_ = jobDescriptionCmd.MarkFlagRequired("title")

	performanceReviewCmd.Flags().StringVar(&assistantName, "name", "", "employee name")
	performanceReviewCmd.Flags().StringVar(&assistantAchievements, "achievements", "", "achievements")
	performanceReviewCmd.Flags().StringVar(&assistantImprovements, "improvements", "", "areas for improvement")
	_ = performanceReviewCmd.MarkFlagRequired("name")

	for _, c := range []*cobra.Command{onboardingPlanCmd, assistantScheduleCmd} {
		c.Flags().StringVar(&assistantRole, "role", "", "role or position")
		c.Flags().StringVar(&assistantDepartment, "department", "", "department")
		_ = c.MarkFlagRequired("role")
	}

	chartInsightsCmd.Flags().StringVar(&assistantChartTitle, "title", "", "chart title")
	chartInsightsCmd.Flags().StringVar(&assistantChartData, "data", "", "summary of the chart data")

	assistantCmd.AddCommand(jobDescriptionCmd, performanceReviewCmd, onboardingPlanCmd, assistantScheduleCmd, chartInsightsCmd, chatCmd)
	rootCmd.AddCommand(assistantCmd)
}
