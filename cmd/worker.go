package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-core/internal/core/events"
	"github.com/frahmantamala/hr-core/internal/state"
	"github.com/frahmantamala/hr-core/pkg/logger"
	"github.com/spf13/cobra"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Start background workers",
	Long:  `Start long-running workers such as the biometric device poller.`,
}

var biometricWorkerCmd = &cobra.Command{
	Use:   "biometric",
	Short: "Poll biometric devices on an interval",
	Long:  `Sync punches from every online biometric device into the time records until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		startBiometricWorker()
	},
}

var (
	syncInterval time.Duration
	markAbsences bool
	runOnce      bool
)

func startBiometricWorker() {
	config := mustLoadConfig()
	log := logger.LoggerWrapper()

	bus := events.NewEventBus(log)
	registerEventLoggers(bus, log)

	store, err := openStore(context.Background(), config, log, bus)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open store: %v\n", err)
		os.Exit(1)
	}

	interval := getDurationFlag(syncInterval, config.Biometric.SyncInterval)
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	log.Info("starting biometric worker",
		"interval", interval,
		"reader", config.Biometric.Reader,
		"max_concurrency", config.Biometric.MaxConcurrency,
		"mark_absences", markAbsences)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		runBiometricLoop(ctx, store, interval, log)
	}()

	if runOnce {
		cancel()
	} else {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		log.Info("biometric worker is running. Press Ctrl+C to stop.")
		sig := <-sigChan
		log.Info("received signal, shutting down biometric worker", "signal", sig)
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	select {
	case <-done:
		log.Info("biometric worker shutdown complete")
	case <-shutdownCtx.Done():
		log.Warn("shutdown timeout reached, forcing exit")
	}

	if err := store.Close(); err != nil {
		log.Error("store close error", "error", err)
	}
}

// runBiometricLoop syncs immediately and then on every tick. When absence
// marking is on, the previous day is closed out once per calendar day.
func runBiometricLoop(ctx context.Context, store *state.Store, interval time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastClosed := ""
	for {
		// A cancelled context still lets the first round finish for --once.
		syncCtx := context.WithoutCancel(ctx)
		result, err := store.SyncBiometricData(syncCtx)
		if err != nil {
			log.Error("biometric sync failed", "error", err)
		} else {
			log.Info("biometric sync finished",
				"new_logs", result.NewLogsCount,
				"offline_devices", result.OfflineDevices,
				"updated_records", result.UpdatedRecords)
		}

		if markAbsences {
			yesterday := time.Now().In(store.Location()).AddDate(0, 0, -1).Format("2006-01-02")
			if yesterday != lastClosed {
				marked, err := store.MarkAbsences(syncCtx, yesterday)
				if err != nil {
					log.Error("absence marking failed", "date", yesterday, "error", err)
				} else {
					lastClosed = yesterday
					log.Info("absences marked", "date", yesterday, "marked", marked)
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func getDurationFlag(flagValue, configValue time.Duration) time.Duration {
	if flagValue > 0 {
		return flagValue
	}
	return configValue
}

func init() {
	biometricWorkerCmd.Flags().DurationVar(&syncInterval, "interval", 0, "Sync interval (overrides config)")
	biometricWorkerCmd.Flags().BoolVar(&markAbsences, "mark-absences", false, "Mark yesterday's absences once per day")
	biometricWorkerCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single sync round and exit")

	workerCmd.AddCommand(biometricWorkerCmd)

	rootCmd.AddCommand(workerCmd)
}
