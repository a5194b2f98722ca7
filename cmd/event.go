package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/frahmantamala/hr-core/internal/core/events"
	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect and exercise the in-process HR event bus`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a test event to the event bus for testing and debugging. Known types: ` + strings.Join(events.AllEventTypes, ", "),
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := publishTestEvent(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var listEventCmd = &cobra.Command{
	Use:   "list",
	Short: "List the domain event types",
	Run: func(cmd *cobra.Command, args []string) {
		for _, t := range events.AllEventTypes {
			fmt.Println(t)
		}
	},
}

var eventData string

// registerEventLoggers subscribes an audit logger to every domain event.
func registerEventLoggers(bus *events.EventBus, log *slog.Logger) {
	for _, eventType := range events.AllEventTypes {
		bus.Subscribe(eventType, func(ctx context.Context, event events.Event) error {
			log.Info("domain event",
				"event_id", event.EventID(),
				"event_type", event.EventType(),
				"occurred_at", event.OccurredAt(),
				"payload", event.Payload())
			return nil
		})
	}
}

func publishTestEvent(eventType string) error {
	if !slices.Contains(events.AllEventTypes, eventType) {
		return fmt.Errorf("unknown event type %q", eventType)
	}

	log := logger.LoggerWrapper()
	eventBus := events.NewEventBus(log)
	registerEventLoggers(eventBus, log)

	testEvent := events.BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now(),
		Data: map[string]interface{}{
			"message": eventData,
			"source":  "cli-command",
		},
	}

	log.Info("publishing test event", "event_type", eventType, "event_id", testEvent.ID)

	if err := eventBus.PublishSync(context.Background(), testEvent); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().StringVar(&eventData, "data", "test message", "Event data message")

	eventCmd.AddCommand(publishEventCmd)
	eventCmd.AddCommand(listEventCmd)

	rootCmd.AddCommand(eventCmd)
}
