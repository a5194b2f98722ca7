// Package talent covers recruiting and review records shown on the
// dashboard.
package talent

import (
	"github.com/frahmantamala/hr-core/internal/core/common/validation"
)

type PostingStatus string

const (
	PostingOpen   PostingStatus = "Open"
	PostingClosed PostingStatus = "Closed"
)

type JobPosting struct {
	ID         int64         `json:"id"`
	Title      string        `json:"title"`
	Department string        `json:"department"`
	Status     PostingStatus `json:"status"`
	Candidates int           `json:"candidates"`
}

func (j JobPosting) GetID() int64 { return j.ID }

type OnboardingPlan struct {
	ID           int64  `json:"id"`
	EmployeeName string `json:"employeeName"`
	Role         string `json:"role"`
	StartDate    string `json:"startDate"`
	Manager      string `json:"manager"`
	Progress     int    `json:"progress"`
}

func (o OnboardingPlan) GetID() int64 { return o.ID }

type ReviewStatus string

const (
	ReviewPending   ReviewStatus = "Pending"
	ReviewCompleted ReviewStatus = "Completed"
)

type PerformanceReview struct {
	ID           int64        `json:"id"`
	EmployeeID   int64        `json:"employeeId"`
	EmployeeName string       `json:"employeeName"`
	Date         string       `json:"date"`
	Status       ReviewStatus `json:"status"`
}

func (p PerformanceReview) GetID() int64 { return p.ID }

type JobPostingDTO struct {
	Title      string        `json:"title"`
	Department string        `json:"department"`
	Status     PostingStatus `json:"status"`
}

func (dto JobPostingDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", dto.Title).Required().MaxLength(200)
	v.Field("department", dto.Department).Required()
	v.Field("status", string(dto.Status)).OneOf(string(PostingOpen), string(PostingClosed))
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type OnboardingPlanDTO struct {
	EmployeeName string `json:"employeeName"`
	Role         string `json:"role"`
	StartDate    string `json:"startDate"`
	Manager      string `json:"manager"`
}

func (dto OnboardingPlanDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employeeName", dto.EmployeeName).Required()
	v.Field("role", dto.Role).Required()
	v.Field("startDate", dto.StartDate).Required().Date()
	v.Field("manager", dto.Manager).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type PerformanceReviewDTO struct {
	EmployeeID int64  `json:"employeeId"`
	Date       string `json:"date"`
}

func (dto PerformanceReviewDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employeeId", dto.EmployeeID).Required()
	v.Field("date", dto.Date).Required().Date()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
