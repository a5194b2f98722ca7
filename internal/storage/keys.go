package storage

// Fixed keys under which each collection is persisted. The layout predates
// this service and must not change.
const (
	KeyEmployees          = "hr_core_employees"
	KeyJobPostings        = "hr_core_job_postings"
	KeyOnboardingPlans    = "hr_core_onboarding_plans"
	KeyPerformanceReviews = "hr_core_performance_reviews"
	KeyLeaveRequests      = "hr_core_leave_requests"
	KeyTimeRecords        = "hr_core_time_records"
	KeySchedules          = "hr_core_schedules"
	KeyOvertimeRequests   = "hr_core_overtime_requests"
	KeyMemos              = "hr_core_memos"
	KeyBiometricDevices   = "hr_core_biometric_devices"
	KeyBiometricLogs      = "hr_core_biometric_logs"
	KeyHealthCareClaims   = "hr_core_health_care_claims"
	KeySettings           = "hr_core_settings"
	KeySession            = "hr_core_session"
)

// AllKeys is every key the store owns, session included.
var AllKeys = []string{
	KeyEmployees,
	KeyJobPostings,
	KeyOnboardingPlans,
	KeyPerformanceReviews,
	KeyLeaveRequests,
	KeyTimeRecords,
	KeySchedules,
	KeyOvertimeRequests,
	KeyMemos,
	KeyBiometricDevices,
	KeyBiometricLogs,
	KeyHealthCareClaims,
	KeySettings,
	KeySession,
}
