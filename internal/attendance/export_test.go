package attendance_test

import (
	"bytes"

	"github.com/frahmantamala/hr-core/internal/attendance"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("WriteXLSX", func() {
	It("writes a header row and one row per record", func() {
		out := "17:05"
		device := "Main Entrance"
		hours := 8.0
		records := []attendance.TimeRecord{
			{ID: 1, EmployeeName: "John Doe", Date: "2024-07-01", TimeIn: "09:05", ClockInDevice: &device, TimeOut: &out, ClockOutDevice: &device, TotalHours: &hours, Status: attendance.StatusOnTime},
			{ID: 2, EmployeeName: "Jane Smith", Date: "2024-07-01", TimeIn: "09:30", Status: attendance.StatusLate},
		}

		var buf bytes.Buffer
		Expect(attendance.WriteXLSX(&buf, records)).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"Time Records"}))
		rows, err := f.GetRows("Time Records")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0][0]).To(Equal("Date"))
		Expect(rows[1][1]).To(Equal("John Doe"))
		Expect(rows[1][6]).To(Equal("8"))
		Expect(rows[2][7]).To(Equal(string(attendance.StatusLate)))
	})
})
