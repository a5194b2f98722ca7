// Package state is the application state store: every HR collection held
// in memory, the cross-entity rules that keep them consistent, and a
// mirror of each collection in a key-value backend.
//
// Each collection is saved on its own right after it changes. A crash
// between two saves can leave the persisted collections out of step with
// one another (an approved claim whose balance debit was never flushed);
// that weak durability is accepted.
package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/attendance"
	"github.com/frahmantamala/hr-core/internal/benefit"
	"github.com/frahmantamala/hr-core/internal/core/datefmt"
	"github.com/frahmantamala/hr-core/internal/core/events"
	"github.com/frahmantamala/hr-core/internal/core/idgen"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/frahmantamala/hr-core/internal/memo"
	"github.com/frahmantamala/hr-core/internal/overtime"
	"github.com/frahmantamala/hr-core/internal/schedule"
	"github.com/frahmantamala/hr-core/internal/settings"
	"github.com/frahmantamala/hr-core/internal/storage"
	"github.com/frahmantamala/hr-core/internal/talent"
	"github.com/frahmantamala/hr-core/pkg/password"
)

var errClosed = errors.New("state: store is closed")

type Options struct {
	Adapter *storage.Adapter
	Logger  *slog.Logger
	// Bus receives domain events after a mutation is committed. Optional.
	Bus    *events.EventBus
	Hasher password.Hasher
	// Location is the organisation's timezone for clock arithmetic.
	Location         *time.Location
	LegacyAdminEmail string
	Now              func() time.Time
	// Defaults seeds any collection that has never been persisted.
	Defaults *Dataset
	// Reader and SyncerConfig drive biometric sync. A nil Reader uses the
	// simulated feed.
	Reader       attendance.DeviceReader
	SyncerConfig attendance.SyncerConfig
}

type Store struct {
	mu sync.RWMutex

	adapter *storage.Adapter
	logger  *slog.Logger
	bus     *events.EventBus
	hasher  password.Hasher
	loc     *time.Location
	now     func() time.Time
	ids     *idgen.Generator
	syncer  *attendance.Syncer
	closed  bool

	employees          *Collection[employee.Employee]
	jobPostings        *Collection[talent.JobPosting]
	onboardingPlans    *Collection[talent.OnboardingPlan]
	performanceReviews *Collection[talent.PerformanceReview]
	leaveRequests      *Collection[leave.Request]
	timeRecords        *Collection[attendance.TimeRecord]
	schedules          *Collection[schedule.Schedule]
	overtimeRequests   *Collection[overtime.Request]
	memos              *Collection[memo.Memo]
	devices            *Collection[attendance.Device]
	biometricLogs      *Collection[attendance.Log]
	claims             *Collection[benefit.Claim]
	settings           settings.Settings

	sessionUserID *int64
	nav           Navigation
}

// Open loads every collection from the adapter, falling back to
// opts.Defaults for keys never written, and upgrades legacy employee
// records. A backend read failure or an undecodable document aborts the
// open; nothing already stored is overwritten with defaults.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Adapter == nil {
		return nil, errors.New("state: adapter is required")
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Defaults == nil {
		d := DefaultDataset(opts.Now().In(opts.Location))
		opts.Defaults = &d
	}

	s := &Store{
		adapter: opts.Adapter,
		logger:  opts.Logger,
		bus:     opts.Bus,
		hasher:  opts.Hasher,
		loc:     opts.Location,
		now:     opts.Now,
		ids:     idgen.New(opts.Now),
		nav:     defaultNavigation(),
	}

	l := &loader{ctx: ctx, adapter: opts.Adapter, missing: make(map[string]bool)}
	def := opts.Defaults
	s.employees = NewCollection(load(l, storage.KeyEmployees, def.Employees))
	s.jobPostings = NewCollection(load(l, storage.KeyJobPostings, def.JobPostings))
	s.onboardingPlans = NewCollection(load(l, storage.KeyOnboardingPlans, def.OnboardingPlans))
	s.performanceReviews = NewCollection(load(l, storage.KeyPerformanceReviews, def.PerformanceReviews))
	s.leaveRequests = NewCollection(load(l, storage.KeyLeaveRequests, def.LeaveRequests))
	s.timeRecords = NewCollection(load(l, storage.KeyTimeRecords, def.TimeRecords))
	s.schedules = NewCollection(load(l, storage.KeySchedules, def.Schedules))
	s.overtimeRequests = NewCollection(load(l, storage.KeyOvertimeRequests, def.OvertimeRequests))
	s.memos = NewCollection(load(l, storage.KeyMemos, def.Memos))
	s.devices = NewCollection(load(l, storage.KeyBiometricDevices, def.BiometricDevices))
	s.biometricLogs = NewCollection(load(l, storage.KeyBiometricLogs, def.BiometricLogs))
	s.claims = NewCollection(load(l, storage.KeyHealthCareClaims, def.HealthCareClaims))
	s.settings = load(l, storage.KeySettings, def.Settings)
	if l.err != nil {
		return nil, fmt.Errorf("state: load persisted collections: %w", l.err)
	}

	sess, err := opts.Adapter.GetSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("state: load session: %w", err)
	}
	if sess != nil {
		id := sess.UserID
		s.sessionUserID = &id
	}

	upgraded, err := s.normalizeEmployees(opts.LegacyAdminEmail)
	if err != nil {
		return nil, err
	}
	if upgraded {
		l.missing[storage.KeyEmployees] = true
	}
	s.observeIDs()
	if err := s.persistAll(ctx, l.missing); err != nil {
		return nil, err
	}

	reader := opts.Reader
	if reader == nil {
		reader = attendance.NewSimulatedReader(s.Enrollments, s.punchedOn, func() time.Time { return s.now().In(s.loc) })
	}
	s.syncer = attendance.NewSyncer(reader, opts.SyncerConfig, s.logger)

	s.logger.Info("state store opened",
		"employees", s.employees.Len(),
		"leave_requests", s.leaveRequests.Len(),
		"schedules", s.schedules.Len(),
		"claims", s.claims.Len())

	return s, nil
}

// Close releases the backend. The store rejects mutations afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.logger.Info("state store closed")
	return s.adapter.Close()
}

// Ping reports backend liveness.
func (s *Store) Ping(ctx context.Context) error {
	return s.adapter.Ping(ctx)
}

// Location is the timezone clock arithmetic runs in.
func (s *Store) Location() *time.Location {
	return s.loc
}

func (s *Store) normalizeEmployees(legacyAdminEmail string) (bool, error) {
	changed := false
	all := s.employees.All()
	for i := range all {
		c, err := employee.Normalize(&all[i], legacyAdminEmail, s.hasher.Hash)
		if err != nil {
			return false, internal.NewInternalError("failed to upgrade employee record", err)
		}
		if c {
			changed = true
		}
	}
	if changed {
		s.employees = NewCollection(all)
		s.logger.Info("upgraded legacy employee records")
	}
	return changed, nil
}

// persistAll writes the collections named in only, or every collection
// when only is nil.
func (s *Store) persistAll(ctx context.Context, only map[string]bool) error {
	writes := []struct {
		key   string
		value any
	}{
		{storage.KeyEmployees, s.employees.snapshot()},
		{storage.KeyJobPostings, s.jobPostings.snapshot()},
		{storage.KeyOnboardingPlans, s.onboardingPlans.snapshot()},
		{storage.KeyPerformanceReviews, s.performanceReviews.snapshot()},
		{storage.KeyLeaveRequests, s.leaveRequests.snapshot()},
		{storage.KeyTimeRecords, s.timeRecords.snapshot()},
		{storage.KeySchedules, s.schedules.snapshot()},
		{storage.KeyOvertimeRequests, s.overtimeRequests.snapshot()},
		{storage.KeyMemos, s.memos.snapshot()},
		{storage.KeyBiometricDevices, s.devices.snapshot()},
		{storage.KeyBiometricLogs, s.biometricLogs.snapshot()},
		{storage.KeyHealthCareClaims, s.claims.snapshot()},
		{storage.KeySettings, s.settings},
	}
	for _, w := range writes {
		if only != nil && !only[w.key] {
			continue
		}
		if err := s.persist(ctx, w.key, w.value); err != nil {
			return err
		}
	}
	return nil
}

// loader records which keys fell back to defaults and keeps the first
// load failure.
type loader struct {
	ctx     context.Context
	adapter *storage.Adapter
	missing map[string]bool
	err     error
}

func load[T any](l *loader, key string, def T) T {
	if l.err != nil {
		return def
	}
	v, found, err := storage.Lookup[T](l.ctx, l.adapter, key)
	if err != nil {
		l.err = err
		return def
	}
	if !found {
		l.missing[key] = true
		return def
	}
	return v
}

func (s *Store) observeIDs() {
	observe := func(ids ...int64) {
		for _, id := range ids {
			s.ids.Observe(id)
		}
	}
	for _, e := range s.employees.All() {
		observe(e.ID)
	}
	for _, r := range s.leaveRequests.All() {
		observe(r.ID)
	}
	for _, r := range s.overtimeRequests.All() {
		observe(r.ID)
	}
	for _, r := range s.schedules.All() {
		observe(r.ID)
	}
	for _, r := range s.timeRecords.All() {
		observe(r.ID)
	}
	for _, r := range s.claims.All() {
		observe(r.ID)
	}
	for _, r := range s.memos.All() {
		observe(r.ID)
	}
	for _, r := range s.devices.All() {
		observe(r.ID)
	}
	for _, r := range s.biometricLogs.All() {
		observe(r.ID)
	}
	for _, r := range s.jobPostings.All() {
		observe(r.ID)
	}
	for _, r := range s.onboardingPlans.All() {
		observe(r.ID)
	}
	for _, r := range s.performanceReviews.All() {
		observe(r.ID)
	}
}

// checkOpen must be called with s.mu held.
func (s *Store) checkOpen() error {
	if s.closed {
		return internal.NewInternalError("state store is closed", errClosed)
	}
	return nil
}

// persist writes one collection. The in-memory change stays applied when
// the write fails.
func (s *Store) persist(ctx context.Context, key string, value any) error {
	if err := s.adapter.Save(ctx, key, value); err != nil {
		return internal.NewPersistenceError(err)
	}
	return nil
}

func (s *Store) publish(ctx context.Context, ev events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, ev); err != nil {
		s.logger.Error("failed to publish event", "event_type", ev.EventType(), "error", err)
	}
}

func (s *Store) today() string {
	return datefmt.FormatDate(s.now().In(s.loc))
}
