package benefit

import (
	"github.com/frahmantamala/hr-core/internal"
	"github.com/frahmantamala/hr-core/internal/core/common/validation"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts are persisted as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "Pending"
	ClaimApproved ClaimStatus = "Approved"
	ClaimRejected ClaimStatus = "Rejected"
)

func (s ClaimStatus) Valid() bool {
	return s == ClaimPending || s == ClaimApproved || s == ClaimRejected
}

// HealthCare is an employee's yearly allowance and what is left of it.
type HealthCare struct {
	Allowance decimal.Decimal `json:"allowance"`
	Balance   decimal.Decimal `json:"balance"`
}

type Claim struct {
	ID           int64           `json:"id"`
	EmployeeID   int64           `json:"employeeId"`
	EmployeeName string          `json:"employeeName"`
	Date         string          `json:"date"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Status       ClaimStatus     `json:"status"`
	ReceiptURL   *string         `json:"receiptUrl,omitempty"`
}

func (c Claim) GetID() int64 { return c.ID }

// Charge is the amount a claim currently holds against the balance.
func (c Claim) Charge() decimal.Decimal {
	if c.Status == ClaimApproved {
		return c.Amount
	}
	return decimal.Zero
}

// BalanceDelta is the change to the balance when prev becomes next: the
// previous charge is credited back, the new charge is debited.
func BalanceDelta(prev, next Claim) decimal.Decimal {
	return prev.Charge().Sub(next.Charge())
}

type CreateClaimDTO struct {
	EmployeeID int64           `json:"employeeId"`
	Date       string          `json:"date"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	ReceiptURL *string         `json:"receiptUrl,omitempty"`
}

func (dto CreateClaimDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employeeId", dto.EmployeeID).Required()
	v.Field("date", dto.Date).Required().Date()
	v.Field("type", dto.Type).Required().MaxLength(200)
	v.Field("amount", dto.Amount).Positive(internal.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateClaimDTO struct {
	EmployeeID int64           `json:"employeeId"`
	Date       string          `json:"date"`
	Type       string          `json:"type"`
	Amount     decimal.Decimal `json:"amount"`
	Status     ClaimStatus     `json:"status"`
	ReceiptURL *string         `json:"receiptUrl,omitempty"`
}

func (dto UpdateClaimDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("employeeId", dto.EmployeeID).Required()
	v.Field("date", dto.Date).Required().Date()
	v.Field("type", dto.Type).Required().MaxLength(200)
	v.Field("amount", dto.Amount).Positive(internal.ErrCodeInvalidAmount)
	v.Field("status", string(dto.Status)).Required().OneOf(string(ClaimPending), string(ClaimApproved), string(ClaimRejected))
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStatusDTO struct {
	Status ClaimStatus `json:"status"`
}
