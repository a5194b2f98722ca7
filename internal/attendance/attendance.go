package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/core/common/validation"
	"github.com/frahmantamala/hr-core/internal/core/datefmt"
)

type RecordStatus string

const (
	StatusOnTime RecordStatus = "On Time"
	StatusLate   RecordStatus = "Late"
	StatusAbsent RecordStatus = "Absent"
)

type TimeRecord struct {
	ID             int64        `json:"id"`
	EmployeeID     int64        `json:"employeeId"`
	EmployeeName   string       `json:"employeeName"`
	Date           string       `json:"date"`
	TimeIn         string       `json:"timeIn"`
	ClockInDevice  *string      `json:"clockInDevice"`
	TimeOut        *string      `json:"timeOut"`
	ClockOutDevice *string      `json:"clockOutDevice"`
	TotalHours     *float64     `json:"totalHours"`
	Status         RecordStatus `json:"status"`
}

func (r TimeRecord) GetID() int64 { return r.ID }

type DeviceStatus string

const (
	DeviceOnline  DeviceStatus = "Online"
	DeviceOffline DeviceStatus = "Offline"
)

type Device struct {
	ID        int64        `json:"id"`
	Name      string       `json:"name"`
	IPAddress string       `json:"ipAddress"`
	Port      int          `json:"port"`
	Status    DeviceStatus `json:"status"`
}

func (d Device) GetID() int64 { return d.ID }

// Info is the label stamped on logs, e.g. "Main Entrance (192.168.1.100:8080)".
func (d Device) Info() string {
	return fmt.Sprintf("%s (%s:%d)", d.Name, d.IPAddress, d.Port)
}

type LogType string

const (
	ClockIn  LogType = "clock-in"
	ClockOut LogType = "clock-out"
)

// Log is one raw punch read from a device. Logs are append-only.
type Log struct {
	ID              int64   `json:"id"`
	EmployeeName    string  `json:"employeeName"`
	BiometricNumber int64   `json:"biometricNumber"`
	Timestamp       string  `json:"timestamp"`
	Type            LogType `json:"type"`
	DeviceInfo      string  `json:"deviceInfo"`
}

func (l Log) GetID() int64 { return l.ID }

// Key identifies a punch regardless of which device reported it.
func (l Log) Key() string {
	return fmt.Sprintf("%d|%s|%s", l.BiometricNumber, l.Timestamp, l.Type)
}

func (l Log) Time() (time.Time, error) {
	return time.Parse(time.RFC3339, l.Timestamp)
}

// Enrollment links a biometric number to an employee and the shift they are
// expected to start on a given day.
type Enrollment struct {
	EmployeeID      int64
	EmployeeName    string
	BiometricNumber int64
	// ShiftStart returns the HH:MM start for date, or "" when no shift applies.
	ShiftStart func(date string) string
}

// ApplyLog folds one punch into the day's records. The first clock-in of a
// day opens the record; the latest clock-out closes it. Punches that cannot
// be matched are ignored. It returns the updated slice and whether it changed.
func ApplyLog(records []TimeRecord, l Log, who Enrollment, loc *time.Location, nextID func() int64) ([]TimeRecord, bool) {
	ts, err := l.Time()
	if err != nil {
		return records, false
	}
	ts = ts.In(loc)
	date := datefmt.FormatDate(ts)
	clock := datefmt.FormatClock(ts)
	device := l.DeviceInfo

	idx := -1
	for i, r := range records {
		if r.EmployeeID == who.EmployeeID && r.Date == date {
			idx = i
			break
		}
	}

	switch l.Type {
	case ClockIn:
		status := StatusOnTime
		if who.ShiftStart != nil {
			if start := who.ShiftStart(date); start != "" && clock > start {
				status = StatusLate
			}
		}
		if idx >= 0 {
			r := records[idx]
			if r.Status != StatusAbsent && r.TimeIn != "" && r.TimeIn <= clock {
				return records, false
			}
			r.TimeIn = clock
			r.ClockInDevice = &device
			r.Status = status
			r.TotalHours = hoursBetween(date, r.TimeIn, r.TimeOut, loc)
			records[idx] = r
			return records, true
		}
		return append(records, TimeRecord{
			ID:            nextID(),
			EmployeeID:    who.EmployeeID,
			EmployeeName:  who.EmployeeName,
			Date:          date,
			TimeIn:        clock,
			ClockInDevice: &device,
			Status:        status,
		}), true

	case ClockOut:
		if idx < 0 || records[idx].TimeIn == "" || records[idx].Status == StatusAbsent {
			return records, false
		}
		r := records[idx]
		if r.TimeOut != nil && *r.TimeOut >= clock {
			return records, false
		}
		r.TimeOut = &clock
		r.ClockOutDevice = &device
		r.TotalHours = hoursBetween(date, r.TimeIn, r.TimeOut, loc)
		records[idx] = r
		return records, true
	}
	return records, false
}

func hoursBetween(date, in string, out *string, loc *time.Location) *float64 {
	if out == nil {
		return nil
	}
	from, err := datefmt.ParseClock(date, in, loc)
	if err != nil {
		return nil
	}
	to, err := datefmt.ParseClock(date, *out, loc)
	if err != nil || !to.After(from) {
		return nil
	}
	h := math.Round(to.Sub(from).Hours()*100) / 100
	return &h
}

type DeviceDTO struct {
	Name      string       `json:"name"`
	IPAddress string       `json:"ipAddress"`
	Port      int          `json:"port"`
	Status    DeviceStatus `json:"status"`
}

func (dto DeviceDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", dto.Name).Required().MaxLength(200)
	v.Field("ipAddress", dto.IPAddress).Required()
	v.Field("port", dto.Port).MinInt(1, internal.ErrCodeValidationFailed)
	v.Field("status", string(dto.Status)).OneOf(string(DeviceOnline), string(DeviceOffline))
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type AbsenceDTO struct {
	Date string `json:"date"`
}
