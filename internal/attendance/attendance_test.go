package attendance_test

import (
	"time"

	"github.com/frahmantamala/hr-core/internal/attendance"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ApplyLog", func() {
	var (
		records []attendance.TimeRecord
		who     attendance.Enrollment
		next    int64
	)

	nextID := func() int64 {
		next++
		return next
	}

	punch := func(ts string, t attendance.LogType, device string) attendance.Log {
		return attendance.Log{BiometricNumber: 1001, Timestamp: ts, Type: t, DeviceInfo: device}
	}

	BeforeEach(func() {
		records = nil
		next = 0
		who = attendance.Enrollment{
			EmployeeID:      101,
			EmployeeName:    "John Doe",
			BiometricNumber: 1001,
			ShiftStart:      func(string) string { return "09:00" },
		}
	})

	It("opens a record on the first clock-in of the day", func() {
		var changed bool
		records, changed = attendance.ApplyLog(records, punch("2024-07-01T08:55:00Z", attendance.ClockIn, "Lobby"), who, time.UTC, nextID)

		Expect(changed).To(BeTrue())
		Expect(records).To(HaveLen(1))
		Expect(records[0].ID).To(Equal(int64(1)))
		Expect(records[0].TimeIn).To(Equal("08:55"))
		Expect(*records[0].ClockInDevice).To(Equal("Lobby"))
		Expect(records[0].Status).To(Equal(attendance.StatusOnTime))
		Expect(records[0].TimeOut).To(BeNil())
	})

	It("marks arrivals after the shift start as late", func() {
		records, _ = attendance.ApplyLog(records, punch("2024-07-01T09:01:00Z", attendance.ClockIn, "Lobby"), who, time.UTC, nextID)
		Expect(records[0].Status).To(Equal(attendance.StatusLate))
	})

	It("keeps the earliest clock-in", func() {
		records, _ = attendance.ApplyLog(records, punch("2024-07-01T08:30:00Z", attendance.ClockIn, "Lobby"), who, time.UTC, nextID)
		var changed bool
		records, changed = attendance.ApplyLog(records, punch("2024-07-01T08:45:00Z", attendance.ClockIn, "Side"), who, time.UTC, nextID)

		Expect(changed).To(BeFalse())
		Expect(records[0].TimeIn).To(Equal("08:30"))
	})

	It("closes the record with the latest clock-out and computes hours", func() {
		records, _ = attendance.ApplyLog(records, punch("2024-07-01T08:30:00Z", attendance.ClockIn, "Lobby"), who, time.UTC, nextID)
		records, _ = attendance.ApplyLog(records, punch("2024-07-01T16:00:00Z", attendance.ClockOut, "Lobby"), who, time.UTC, nextID)
		records, _ = attendance.ApplyLog(records, punch("2024-07-01T17:15:00Z", attendance.ClockOut, "Back Door"), who, time.UTC, nextID)

		Expect(records).To(HaveLen(1))
		Expect(*records[0].TimeOut).To(Equal("17:15"))
		Expect(*records[0].ClockOutDevice).To(Equal("Back Door"))
		Expect(*records[0].TotalHours).To(Equal(8.75))
	})

	It("ignores a clock-out without a clock-in", func() {
		var changed bool
		records, changed = attendance.ApplyLog(records, punch("2024-07-01T17:00:00Z", attendance.ClockOut, "Lobby"), who, time.UTC, nextID)
		Expect(changed).To(BeFalse())
		Expect(records).To(BeEmpty())
	})

	It("replaces an absence when the employee turns up", func() {
		records = []attendance.TimeRecord{{ID: 7, EmployeeID: 101, Date: "2024-07-01", Status: attendance.StatusAbsent}}
		var changed bool
		records, changed = attendance.ApplyLog(records, punch("2024-07-01T10:00:00Z", attendance.ClockIn, "Lobby"), who, time.UTC, nextID)

		Expect(changed).To(BeTrue())
		Expect(records).To(HaveLen(1))
		Expect(records[0].ID).To(Equal(int64(7)))
		Expect(records[0].Status).To(Equal(attendance.StatusLate))
	})

	It("files punches under the local date", func() {
		loc := time.FixedZone("UTC+7", 7*3600)
		records, _ = attendance.ApplyLog(records, punch("2024-07-01T20:00:00Z", attendance.ClockIn, "Lobby"), who, loc, nextID)
		Expect(records[0].Date).To(Equal("2024-07-02"))
		Expect(records[0].TimeIn).To(Equal("03:00"))
	})

	It("skips punches with unreadable timestamps", func() {
		var changed bool
		records, changed = attendance.ApplyLog(records, punch("yesterday", attendance.ClockIn, "Lobby"), who, time.UTC, nextID)
		Expect(changed).To(BeFalse())
	})
})

var _ = Describe("Device", func() {
	It("labels logs with name and address", func() {
		d := attendance.Device{Name: "Main Entrance", IPAddress: "192.168.1.100", Port: 8080}
		Expect(d.Info()).To(Equal("Main Entrance (192.168.1.100:8080)"))
	})

	It("validates device input", func() {
		Expect(attendance.DeviceDTO{Name: "Lobby", IPAddress: "10.0.0.1", Port: 4370}.Validate()).To(Succeed())
		Expect(attendance.DeviceDTO{Name: "", IPAddress: "10.0.0.1", Port: 4370}.Validate()).NotTo(Succeed())
		Expect(attendance.DeviceDTO{Name: "Lobby", IPAddress: "10.0.0.1", Port: 0}.Validate()).NotTo(Succeed())
		Expect(attendance.DeviceDTO{Name: "Lobby", IPAddress: "10.0.0.1", Port: 1, Status: "Broken"}.Validate()).NotTo(Succeed())
	})
})
