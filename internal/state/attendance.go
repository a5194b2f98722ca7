package state

import (
	"context"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/attendance"
	"github.com/frahmantamala/hr-core/internal/core/datefmt"
	"github.com/frahmantamala/hr-core/internal/core/events"
	"github.com/frahmantamala/hr-core/internal/storage"
)

func (s *Store) BiometricDevices() []attendance.Device {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.devices.All()
}

func (s *Store) AddBiometricDevice(ctx context.Context, dto attendance.DeviceDTO) (attendance.Device, error) {
	if err := dto.Validate(); err != nil {
		return attendance.Device{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return attendance.Device{}, err
	}

	d := attendance.Device{
		ID:        s.ids.Next(),
		Name:      dto.Name,
		IPAddress: dto.IPAddress,
		Port:      dto.Port,
		Status:    dto.Status,
	}
	if d.Status == "" {
		d.Status = attendance.DeviceOnline
	}
	s.devices.Add(d)
	if err := s.persist(ctx, storage.KeyBiometricDevices, s.devices.snapshot()); err != nil {
		return d, err
	}
	s.logger.Info("biometric device added", "device_id", d.ID, "device", d.Info())
	return d, nil
}

func (s *Store) UpdateBiometricDevice(ctx context.Context, id int64, dto attendance.DeviceDTO) (attendance.Device, error) {
	if err := dto.Validate(); err != nil {
		return attendance.Device{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return attendance.Device{}, err
	}

	d, ok := s.devices.FindByID(id)
	if !ok {
		return attendance.Device{}, internal.ErrDeviceNotFound
	}
	d.Name = dto.Name
	d.IPAddress = dto.IPAddress
	d.Port = dto.Port
	if dto.Status != "" {
		d.Status = dto.Status
	}
	_ = s.devices.Update(d)
	if err := s.persist(ctx, storage.KeyBiometricDevices, s.devices.snapshot()); err != nil {
		return d, err
	}
	s.logger.Info("biometric device updated", "device_id", id)
	return d, nil
}

func (s *Store) DeleteBiometricDevice(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	if err := s.devices.Remove(id); err != nil {
		return internal.ErrDeviceNotFound
	}
	if err := s.persist(ctx, storage.KeyBiometricDevices, s.devices.snapshot()); err != nil {
		return err
	}
	s.logger.Info("biometric device deleted", "device_id", id)
	return nil
}

// BiometricLogs are newest first.
func (s *Store) BiometricLogs() []attendance.Log {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.biometricLogs.All()
}

func (s *Store) TimeRecords() []attendance.TimeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeRecords.All()
}

func (s *Store) TimeRecordsVisibleTo(viewerID int64) []attendance.TimeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scope := s.scope(viewerID)
	return s.timeRecords.Filter(func(r attendance.TimeRecord) bool { return inScope(scope, r.EmployeeID) })
}

// SyncBiometricData reads every online device, appends punches not seen
// before and folds them into time records. Devices that cannot be read are
// marked offline; the round never fails because of them.
func (s *Store) SyncBiometricData(ctx context.Context) (attendance.SyncResult, error) {
	s.mu.RLock()
	if err := s.checkOpen(); err != nil {
		s.mu.RUnlock()
		return attendance.SyncResult{}, err
	}
	online := s.devices.Filter(func(d attendance.Device) bool { return d.Status == attendance.DeviceOnline })
	since := s.lastPunch()
	s.mu.RUnlock()

	results := s.syncer.Collect(ctx, online, since)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return attendance.SyncResult{}, err
	}

	res := attendance.SyncResult{OfflineDevices: []int64{}}
	seen := make(map[string]struct{}, s.biometricLogs.Len())
	for _, l := range s.biometricLogs.All() {
		seen[l.Key()] = struct{}{}
	}

	byNumber := map[int64]attendance.Enrollment{}
	for _, en := range s.enrollments() {
		byNumber[en.BiometricNumber] = en
	}

	var fresh []attendance.Log
	devicesChanged := false
	for _, r := range results {
		if r.Err != nil {
			if d, ok := s.devices.FindByID(r.Device.ID); ok && d.Status != attendance.DeviceOffline {
				d.Status = attendance.DeviceOffline
				_ = s.devices.Update(d)
				devicesChanged = true
			}
			res.OfflineDevices = append(res.OfflineDevices, r.Device.ID)
			continue
		}
		for _, l := range r.Logs {
			if _, dup := seen[l.Key()]; dup {
				continue
			}
			seen[l.Key()] = struct{}{}
			l.ID = s.ids.Next()
			if l.EmployeeName == "" {
				if en, ok := byNumber[l.BiometricNumber]; ok {
					l.EmployeeName = en.EmployeeName
				}
			}
			fresh = append(fresh, l)
		}
	}

	// oldest first so the first clock-in of a day opens the record
	chronological := make([]attendance.Log, len(fresh))
	copy(chronological, fresh)
	attendance.SortNewestFirst(chronological)
	records := s.timeRecords.All()
	for i := len(chronological) - 1; i >= 0; i-- {
		l := chronological[i]
		en, ok := byNumber[l.BiometricNumber]
		if !ok {
			s.logger.Debug("punch from unknown biometric number", "biometric_number", l.BiometricNumber)
			continue
		}
		var changed bool
		records, changed = attendance.ApplyLog(records, l, en, s.loc, s.ids.Next)
		if changed {
			res.UpdatedRecords++
		}
	}

	res.NewLogsCount = len(fresh)
	if len(fresh) > 0 {
		all := append(s.biometricLogs.All(), fresh...)
		attendance.SortNewestFirst(all)
		s.biometricLogs = NewCollection(all)
		if err := s.persist(ctx, storage.KeyBiometricLogs, s.biometricLogs.snapshot()); err != nil {
			return res, err
		}
	}
	if res.UpdatedRecords > 0 {
		s.timeRecords = NewCollection(records)
		if err := s.persist(ctx, storage.KeyTimeRecords, s.timeRecords.snapshot()); err != nil {
			return res, err
		}
	}
	if devicesChanged {
		if err := s.persist(ctx, storage.KeyBiometricDevices, s.devices.snapshot()); err != nil {
			return res, err
		}
	}

	s.logger.Info("biometric sync finished",
		"devices", len(online),
		"new_logs", res.NewLogsCount,
		"updated_records", res.UpdatedRecords,
		"offline", len(res.OfflineDevices))
	s.publish(ctx, events.NewBiometricSyncedEvent(res.NewLogsCount, res.OfflineDevices))
	return res, nil
}

// lastPunch must be called with s.mu held.
func (s *Store) lastPunch() time.Time {
	var last time.Time
	for _, l := range s.biometricLogs.All() {
		if t, err := l.Time(); err == nil && t.After(last) {
			last = t
		}
	}
	return last
}

// punchedOn reports whether the employee holding biometricNumber has
// clocked in and out on date.
func (s *Store) punchedOn(biometricNumber int64, date string) (clockedIn, clockedOut bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var empID int64
	found := false
	for _, e := range s.employees.All() {
		if e.AssignedBiometricNumber != nil && *e.AssignedBiometricNumber == biometricNumber {
			empID, found = e.ID, true
			break
		}
	}
	if !found {
		return false, false
	}
	for _, r := range s.timeRecords.All() {
		if r.EmployeeID == empID && r.Date == date && r.Status != attendance.StatusAbsent {
			return r.TimeIn != "", r.TimeOut != nil
		}
	}
	return false, false
}

// MarkAbsences records an Absent entry for every active employee scheduled
// to work on date who has no time record for it. Holidays are skipped.
func (s *Store) MarkAbsences(ctx context.Context, date string) (int, error) {
	if _, err := datefmt.ParseDate(date, time.UTC); err != nil {
		return 0, internal.NewValidationFieldError("date", "date must be in YYYY-MM-DD format", internal.ErrCodeInvalidDate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return 0, err
	}

	for _, h := range s.settings.HolidayDates() {
		if h == date {
			return 0, nil
		}
	}

	present := map[int64]bool{}
	for _, r := range s.timeRecords.All() {
		if r.Date == date {
			present[r.EmployeeID] = true
		}
	}

	scheds := s.schedules.All()
	marked := 0
	for _, e := range s.employees.All() {
		if !e.Active() || present[e.ID] {
			continue
		}
		if _, works := shiftOn(scheds, e.ID, date); !works {
			continue
		}
		s.timeRecords.Add(attendance.TimeRecord{
			ID:           s.ids.Next(),
			EmployeeID:   e.ID,
			EmployeeName: e.Name,
			Date:         date,
			Status:       attendance.StatusAbsent,
		})
		marked++
	}

	if marked == 0 {
		return 0, nil
	}
	if err := s.persist(ctx, storage.KeyTimeRecords, s.timeRecords.snapshot()); err != nil {
		return marked, err
	}
	s.logger.Info("absences marked", "date", date, "count", marked)
	return marked, nil
}
