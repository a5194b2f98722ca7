package state

import (
	"context"
	"time"

	"github.com/frahmantamala/hr-core/internal/approval"
	"github.com/frahmantamala/hr-core/internal/attendance"
	"github.com/frahmantamala/hr-core/internal/benefit"
	"github.com/frahmantamala/hr-core/internal/core/user"
	"github.com/frahmantamala/hr-core/internal/employee"
	"github.com/frahmantamala/hr-core/internal/leave"
	"github.com/frahmantamala/hr-core/internal/memo"
	"github.com/frahmantamala/hr-core/internal/overtime"
	"github.com/frahmantamala/hr-core/internal/schedule"
	"github.com/frahmantamala/hr-core/internal/settings"
	"github.com/frahmantamala/hr-core/internal/talent"
	"github.com/shopspring/decimal"
)

// Dataset is the full content of a store, one slice per persisted key.
type Dataset struct {
	Employees          []employee.Employee
	JobPostings        []talent.JobPosting
	OnboardingPlans    []talent.OnboardingPlan
	PerformanceReviews []talent.PerformanceReview
	LeaveRequests      []leave.Request
	TimeRecords        []attendance.TimeRecord
	Schedules          []schedule.Schedule
	OvertimeRequests   []overtime.Request
	Memos              []memo.Memo
	BiometricDevices   []attendance.Device
	BiometricLogs      []attendance.Log
	HealthCareClaims   []benefit.Claim
	Settings           settings.Settings
}

// EmptyDataset has no records and zeroed settings.
func EmptyDataset() Dataset {
	return Dataset{
		Employees:          []employee.Employee{},
		JobPostings:        []talent.JobPosting{},
		OnboardingPlans:    []talent.OnboardingPlan{},
		PerformanceReviews: []talent.PerformanceReview{},
		LeaveRequests:      []leave.Request{},
		TimeRecords:        []attendance.TimeRecord{},
		Schedules:          []schedule.Schedule{},
		OvertimeRequests:   []overtime.Request{},
		Memos:              []memo.Memo{},
		BiometricDevices:   []attendance.Device{},
		BiometricLogs:      []attendance.Log{},
		HealthCareClaims:   []benefit.Claim{},
		Settings:           settings.Settings{Holidays: []settings.Holiday{}},
	}
}

// DefaultDataset is the demo organisation a fresh install starts with.
// Passwords are plaintext here and hashed when the store opens.
func DefaultDataset(today time.Time) Dataset {
	defaultCredits := leave.Credits{Vacation: 15, Sick: 10, Personal: 5}
	allowance := decimal.NewFromInt(2000)
	admin := int64(1)

	ptr := func(v int64) *int64 { return &v }
	str := func(v string) *string { return &v }
	hours := func(v float64) *float64 { return &v }

	return Dataset{
		Employees: []employee.Employee{
			{
				ID:                1,
				Name:              "Admin User",
				Position:          "HR Administrator",
				Department:        "Administration",
				Email:             "admin@hr-core.com",
				LegacyPassword:    "password",
				Role:              user.RoleAdmin,
				Avatar:            "https://i.pravatar.cc/100?u=admin",
				Status:            employee.StatusActive,
				Gender:            "Prefer not to say",
				Address:           employee.Address{Street: "123 Admin Way", City: "Corpville", State: "CA", Zip: "90210"},
				EmploymentHistory: []employee.EmploymentHistory{},
				Contracts: []employee.Contract{
					{Type: employee.ContractFullTime, StartDate: "2020-01-01"},
				},
				Performance:  employee.Performance{LastReview: "2023-12-01", Achievements: []string{}, AreasForImprovement: []string{}},
				LeaveCredits: leave.Credits{Vacation: 99, Sick: 99, Personal: 99},
				HealthCareBenefit: benefit.HealthCare{
					Allowance: decimal.NewFromInt(5000),
					Balance:   decimal.NewFromInt(5000),
				},
				AccessibleModules:       []string{},
				AssignedBiometricNumber: ptr(1000),
			},
			{
				ID:             101,
				Name:           "John Doe",
				Position:       "Software Engineer",
				Department:     "Technology",
				Email:          "john.doe@example.com",
				LegacyPassword: "password",
				Role:           user.RoleEmployee,
				Avatar:         "https://i.pravatar.cc/100?u=johndoe",
				Status:         employee.StatusActive,
				Gender:         "Male",
				SupervisorID:   &admin,
				Address:        employee.Address{Street: "456 Dev Lane", City: "Codeburg", State: "CA", Zip: "94107"},
				EmploymentHistory: []employee.EmploymentHistory{
					{Company: "Tech Solutions Inc.", Position: "Junior Developer", StartDate: "2020-06-01", EndDate: "2022-05-31"},
				},
				Contracts: []employee.Contract{
					{Type: employee.ContractFullTime, StartDate: "2022-06-01"},
				},
				Performance: employee.Performance{
					LastReview:          "2023-11-15",
					Achievements:        []string{"Launched new feature ahead of schedule"},
					AreasForImprovement: []string{"Improve documentation on legacy code"},
				},
				LeaveCredits: defaultCredits,
				HealthCareBenefit: benefit.HealthCare{
					Allowance: allowance,
					Balance:   allowance.Sub(decimal.NewFromInt(150)),
				},
				AccessibleModules:       []string{"dashboard", "profile", "attendance", "benefits", "assistant"},
				AssignedBiometricNumber: ptr(1001),
			},
			{
				ID:                102,
				Name:              "Jane Smith",
				Position:          "Product Manager",
				Department:        "Product",
				Email:             "jane.smith@example.com",
				LegacyPassword:    "password",
				Role:              user.RoleEmployee,
				Avatar:            "https://i.pravatar.cc/100?u=janesmith",
				Status:            employee.StatusInactive,
				Gender:            "Female",
				SupervisorID:      &admin,
				Address:           employee.Address{Street: "789 Product Rd", City: "Featuretown", State: "NY", Zip: "10001"},
				EmploymentHistory: []employee.EmploymentHistory{},
				Contracts: []employee.Contract{
					{Type: employee.ContractFullTime, StartDate: "2021-03-15", EndDate: str("2023-08-31")},
				},
				Performance:  employee.Performance{LastReview: "2023-03-01", Achievements: []string{}, AreasForImprovement: []string{}},
				LeaveCredits: leave.Credits{},
				HealthCareBenefit: benefit.HealthCare{
					Allowance: allowance,
					Balance:   decimal.Zero,
				},
				AccessibleModules:       []string{},
				AssignedBiometricNumber: ptr(1002),
			},
		},
		JobPostings: []talent.JobPosting{
			{ID: 1, Title: "Senior Frontend Engineer", Department: "Technology", Status: talent.PostingOpen, Candidates: 25},
			{ID: 2, Title: "UX/UI Designer", Department: "Design", Status: talent.PostingClosed, Candidates: 42},
		},
		OnboardingPlans: []talent.OnboardingPlan{
			{ID: 1, EmployeeName: "New Hire Example", Role: "Data Analyst", StartDate: today.Format("2006-01-02"), Manager: "Admin User", Progress: 25},
		},
		PerformanceReviews: []talent.PerformanceReview{
			{ID: 1, EmployeeID: 101, EmployeeName: "John Doe", Date: "2024-07-15", Status: talent.ReviewPending},
			{ID: 2, EmployeeID: 102, EmployeeName: "Jane Smith", Date: "2023-08-20", Status: talent.ReviewCompleted},
		},
		LeaveRequests: []leave.Request{
			{ID: 1, EmployeeID: 101, EmployeeName: "John Doe", Type: leave.TypeVacation, StartDate: "2024-08-05", EndDate: "2024-08-09", Reason: "Family trip", Status: approval.StatusApproved},
			{ID: 2, EmployeeID: 101, EmployeeName: "John Doe", Type: leave.TypeSick, StartDate: "2024-06-10", EndDate: "2024-06-10", Reason: "Flu", Status: approval.StatusApproved},
		},
		TimeRecords: []attendance.TimeRecord{
			{
				ID:             1,
				EmployeeID:     101,
				EmployeeName:   "John Doe",
				Date:           "2024-06-25",
				TimeIn:         "09:05",
				ClockInDevice:  str("Main Entrance"),
				TimeOut:        str("17:30"),
				ClockOutDevice: str("Main Entrance"),
				TotalHours:     hours(8.42),
				Status:         attendance.StatusLate,
			},
		},
		Schedules: []schedule.Schedule{
			{
				ID:           1,
				EmployeeID:   101,
				EmployeeName: "John Doe",
				Week: schedule.Week{
					Monday: "9-5", Tuesday: "9-5", Wednesday: "9-5", Thursday: "9-5", Friday: "9-5",
					Saturday: schedule.DayOff, Sunday: schedule.DayOff,
				},
				EffectiveDate: "2023-01-01",
			},
		},
		OvertimeRequests: []overtime.Request{
			{ID: 1, EmployeeID: 101, EmployeeName: "John Doe", Date: "2024-06-20", StartTime: "17:30", EndTime: "19:00", Hours: 1.5, Reason: "Urgent feature release", Status: approval.StatusApproved},
		},
		Memos: []memo.Memo{
			{ID: 1, Title: "Company Summer Picnic", Content: "Join us for our annual summer picnic on July 20th!", Date: "2024-07-01"},
		},
		BiometricDevices: []attendance.Device{
			{ID: 1, Name: "Main Entrance", IPAddress: "192.168.1.100", Port: 8080, Status: attendance.DeviceOnline},
		},
		BiometricLogs: []attendance.Log{
			{ID: 1, EmployeeName: "John Doe", BiometricNumber: 1001, Timestamp: "2024-06-25T09:05:12Z", Type: attendance.ClockIn, DeviceInfo: "Main Entrance (192.168.1.100:8080)"},
		},
		HealthCareClaims: []benefit.Claim{
			{ID: 1, EmployeeID: 101, EmployeeName: "John Doe", Date: "2024-05-15", Type: "Dental Check-up", Amount: decimal.NewFromInt(150), Status: benefit.ClaimApproved},
		},
		Settings: settings.Settings{
			DefaultLeaveCredits: defaultCredits,
			HealthCareAllowance: allowance,
			TwoStepApproval:     true,
			Holidays: []settings.Holiday{
				{ID: 1, Name: "New Year's Day", Date: "2024-01-01"},
				{ID: 2, Name: "Independence Day", Date: "2024-07-04"},
			},
		},
	}
}

// Replace overwrites every collection with d and persists all of them.
func (s *Store) Replace(ctx context.Context, d Dataset, legacyAdminEmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkOpen(); err != nil {
		return err
	}

	s.employees = NewCollection(d.Employees)
	s.jobPostings = NewCollection(d.JobPostings)
	s.onboardingPlans = NewCollection(d.OnboardingPlans)
	s.performanceReviews = NewCollection(d.PerformanceReviews)
	s.leaveRequests = NewCollection(d.LeaveRequests)
	s.timeRecords = NewCollection(d.TimeRecords)
	s.schedules = NewCollection(d.Schedules)
	s.overtimeRequests = NewCollection(d.OvertimeRequests)
	s.memos = NewCollection(d.Memos)
	s.devices = NewCollection(d.BiometricDevices)
	s.biometricLogs = NewCollection(d.BiometricLogs)
	s.claims = NewCollection(d.HealthCareClaims)
	s.settings = d.Settings

	if _, err := s.normalizeEmployees(legacyAdminEmail); err != nil {
		return err
	}
	s.observeIDs()

	if err := s.persistAll(ctx, nil); err != nil {
		return err
	}
	s.logger.Info("store contents replaced", "employees", s.employees.Len())
	return nil
}
