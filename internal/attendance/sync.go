package attendance

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// DeviceReader pulls punches recorded by a device since a point in time.
type DeviceReader interface {
	FetchLogs(ctx context.Context, device Device, since time.Time) ([]Log, error)
}

// DeviceResult is what one device returned during a sync round.
type DeviceResult struct {
	Device Device
	Logs   []Log
	Err    error
}

// SyncResult summarises one biometric sync round.
type SyncResult struct {
	NewLogsCount   int     `json:"newLogsCount"`
	OfflineDevices []int64 `json:"offlineDevices"`
	UpdatedRecords int     `json:"updatedRecords"`
}

type SyncerConfig struct {
	MaxConcurrency int
	DeviceTimeout  time.Duration
}

// Syncer fans out to devices concurrently. A failing device never aborts
// the round; its error is reported in its result.
type Syncer struct {
	reader         DeviceReader
	maxConcurrency int
	deviceTimeout  time.Duration
	logger         *slog.Logger
}

func NewSyncer(reader DeviceReader, cfg SyncerConfig, logger *slog.Logger) *Syncer {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.DeviceTimeout <= 0 {
		cfg.DeviceTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		reader:         reader,
		maxConcurrency: cfg.MaxConcurrency,
		deviceTimeout:  cfg.DeviceTimeout,
		logger:         logger,
	}
}

// Collect reads every device and returns one result per device, in input
// order.
func (s *Syncer) Collect(ctx context.Context, devices []Device, since time.Time) []DeviceResult {
	results := make([]DeviceResult, len(devices))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, d := range devices {
		g.Go(func() error {
			dctx, cancel := context.WithTimeout(gctx, s.deviceTimeout)
			defer cancel()

			logs, err := s.reader.FetchLogs(dctx, d, since)
			if err != nil {
				s.logger.Warn("biometric device unreachable",
					"device_id", d.ID,
					"device", d.Info(),
					"error", err)
			} else {
				s.logger.Debug("biometric device read",
					"device_id", d.ID,
					"logs", len(logs))
			}
			results[i] = DeviceResult{Device: d, Logs: logs, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// SortNewestFirst orders logs by timestamp, most recent first.
func SortNewestFirst(logs []Log) {
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp > logs[j].Timestamp
	})
}

// HTTPReader reads punches from devices exposing GET /logs?since=RFC3339.
type HTTPReader struct {
	client *http.Client
	logger *slog.Logger
}

func NewHTTPReader(timeout time.Duration, logger *slog.Logger) *HTTPReader {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPReader{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (r *HTTPReader) FetchLogs(ctx context.Context, device Device, since time.Time) ([]Log, error) {
	u := url.URL{
		Scheme:   "http",
		Host:     fmt.Sprintf("%s:%d", device.IPAddress, device.Port),
		Path:     "/logs",
		RawQuery: url.Values{"since": {since.UTC().Format(time.RFC3339)}}.Encode(),
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("read device %s: %w", device.Info(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("device %s returned status %d", device.Info(), resp.StatusCode)
	}

	var punches []struct {
		BiometricNumber int64   `json:"biometricNumber"`
		Timestamp       string  `json:"timestamp"`
		Type            LogType `json:"type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&punches); err != nil {
		return nil, fmt.Errorf("decode device %s response: %w", device.Info(), err)
	}

	logs := make([]Log, 0, len(punches))
	for _, p := range punches {
		if p.Type != ClockIn && p.Type != ClockOut {
			r.logger.Warn("skipping punch with unknown type", "device_id", device.ID, "type", p.Type)
			continue
		}
		logs = append(logs, Log{
			BiometricNumber: p.BiometricNumber,
			Timestamp:       p.Timestamp,
			Type:            p.Type,
			DeviceInfo:      device.Info(),
		})
	}
	return logs, nil
}

// SimulatedReader stands in for hardware: each enrolled employee without a
// punch yet today clocks in, and one already clocked in clocks out.
type SimulatedReader struct {
	enrolled func() []Enrollment
	now      func() time.Time
	seen     func(biometricNumber int64, date string) (clockedIn, clockedOut bool)
}

func NewSimulatedReader(enrolled func() []Enrollment, seen func(int64, string) (bool, bool), now func() time.Time) *SimulatedReader {
	if now == nil {
		now = time.Now
	}
	return &SimulatedReader{enrolled: enrolled, seen: seen, now: now}
}

func (r *SimulatedReader) FetchLogs(ctx context.Context, device Device, _ time.Time) ([]Log, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := r.now()
	date := now.Format("2006-01-02")

	var logs []Log
	for _, e := range r.enrolled() {
		in, out := false, false
		if r.seen != nil {
			in, out = r.seen(e.BiometricNumber, date)
		}
		var t LogType
		switch {
		case !in:
			t = ClockIn
		case !out:
			t = ClockOut
		default:
			continue
		}
		logs = append(logs, Log{
			EmployeeName:    e.EmployeeName,
			BiometricNumber: e.BiometricNumber,
			Timestamp:       now.Format(time.RFC3339),
			Type:            t,
			DeviceInfo:      device.Info(),
		})
	}
	return logs, nil
}
