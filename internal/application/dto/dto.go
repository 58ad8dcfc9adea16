package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bibbank/installments/pkg/money"
)

// ---------------------------------------------------------------------------
// Request DTOs
// ---------------------------------------------------------------------------

// RateRequest is a percentage quoted for a periodicity, for example 2 MONTHLY.
type RateRequest struct {
	Percentage  decimal.Decimal `json:"percentage"`
	Periodicity string          `json:"periodicity"`
}

// ComponentRequest is one component of an installment to create.
type ComponentRequest struct {
	Type  string      `json:"type"`
	Value money.Money `json:"value"`
}

// InstallmentRequest is one installment of the schedule to create.
type InstallmentRequest struct {
	DueDate    time.Time          `json:"due_date"`
	TotalValue money.Money        `json:"total_value"`
	Components []ComponentRequest `json:"components"`
}

// CreatePortfolioRequest carries the contract terms and the schedule.
type CreatePortfolioRequest struct {
	ProductType   string               `json:"product_type"`
	InterestRate  RateRequest          `json:"interest_rate"`
	MoratoryRate  RateRequest          `json:"moratory_rate"`
	PenaltyKind   string               `json:"penalty_kind"`
	FixedPenalty  money.Money          `json:"fixed_penalty"`
	PenaltyRate   decimal.Decimal      `json:"penalty_rate"`
	DiscountRate  RateRequest          `json:"discount_rate"`
	ReferenceDate time.Time            `json:"reference_date"`
	Installments  []InstallmentRequest `json:"installments"`
}

// PayInstallmentRequest pays one installment.
type PayInstallmentRequest struct {
	PortfolioID   string      `json:"portfolio_id"`
	Number        int         `json:"number"`
	Amount        money.Money `json:"amount"`
	Method        string      `json:"method"`
	ReferenceDate time.Time   `json:"reference_date"`
}

// PayMultipleInstallmentsRequest pays several installments with one amount.
type PayMultipleInstallmentsRequest struct {
	PortfolioID   string      `json:"portfolio_id"`
	Numbers       []int       `json:"numbers"`
	Amount        money.Money `json:"amount"`
	Method        string      `json:"method"`
	ReferenceDate time.Time   `json:"reference_date"`
}

// PayLumpSumRequest spreads one amount over the installments in order.
type PayLumpSumRequest struct {
	PortfolioID   string      `json:"portfolio_id"`
	Amount        money.Money `json:"amount"`
	Method        string      `json:"method"`
	ReferenceDate time.Time   `json:"reference_date"`
}

// CancelInstallmentRequest cancels one installment.
type CancelInstallmentRequest struct {
	PortfolioID   string    `json:"portfolio_id"`
	Number        int       `json:"number"`
	ReferenceDate time.Time `json:"reference_date"`
}

// ReversePaymentRequest reverses the payment documented by a record.
type ReversePaymentRequest struct {
	PortfolioID   string    `json:"portfolio_id"`
	RecordID      string    `json:"record_id"`
	ReferenceDate time.Time `json:"reference_date"`
}

// GetPortfolioRequest identifies a portfolio and the valuation date.
type GetPortfolioRequest struct {
	PortfolioID   string    `json:"portfolio_id"`
	ReferenceDate time.Time `json:"reference_date"`
}

// ListRecordsRequest identifies the installment whose records are listed.
type ListRecordsRequest struct {
	PortfolioID string `json:"portfolio_id"`
	Number      int    `json:"number"`
}

// ---------------------------------------------------------------------------
// Response DTOs
// ---------------------------------------------------------------------------

// ComponentResponse is one component balance.
type ComponentResponse struct {
	Type          string      `json:"type"`
	OriginalValue money.Money `json:"original_value"`
	Balance       money.Money `json:"balance"`
}

// InstallmentResponse is the external representation of an installment.
type InstallmentResponse struct {
	Number      int                 `json:"number"`
	DueDate     time.Time           `json:"due_date"`
	TotalValue  money.Money         `json:"total_value"`
	Status      string              `json:"status"`
	Outstanding money.Money         `json:"outstanding"`
	Components  []ComponentResponse `json:"components"`
}

// PortfolioResponse is the external representation of a portfolio.
type PortfolioResponse struct {
	ID           string                `json:"id"`
	ProductType  string                `json:"product_type"`
	MonthlyRate  decimal.Decimal       `json:"monthly_rate"`
	Version      int                   `json:"version"`
	Installments []InstallmentResponse `json:"installments"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// ApplicationDetailResponse is what one component absorbed from a payment.
type ApplicationDetailResponse struct {
	Type          string      `json:"type"`
	BalanceBefore money.Money `json:"balance_before"`
	AmountApplied money.Money `json:"amount_applied"`
	BalanceAfter  money.Money `json:"balance_after"`
}

// AmortizationRecordResponse is the external representation of a record.
type AmortizationRecordResponse struct {
	ID                string                      `json:"id"`
	InstallmentNumber int                         `json:"installment_number"`
	RecordedAt        time.Time                   `json:"recorded_at"`
	PaymentAmount     money.Money                 `json:"payment_amount"`
	PaymentMethod     string                      `json:"payment_method"`
	Strategy          string                      `json:"strategy"`
	Details           []ApplicationDetailResponse `json:"details"`
	AmountNotUsed     money.Money                 `json:"amount_not_used"`
}

// PaymentResponse reports the records a payment produced and what it left over.
type PaymentResponse struct {
	PortfolioID  string                       `json:"portfolio_id"`
	Records      []AmortizationRecordResponse `json:"records"`
	Unapplied    money.Money                  `json:"unapplied"`
	Installments []InstallmentResponse        `json:"installments"`
}

// InstallmentValuationResponse is the value of one installment at a date.
type InstallmentValuationResponse struct {
	Number       int         `json:"number"`
	DueDate      time.Time   `json:"due_date"`
	Status       string      `json:"status"`
	Outstanding  money.Money `json:"outstanding"`
	CurrentValue money.Money `json:"current_value"`
}

// ValuationResponse is the value of a portfolio at a date.
type ValuationResponse struct {
	PortfolioID   string                         `json:"portfolio_id"`
	ReferenceDate time.Time                      `json:"reference_date"`
	Outstanding   money.Money                    `json:"outstanding"`
	CurrentValue  money.Money                    `json:"current_value"`
	Installments  []InstallmentValuationResponse `json:"installments"`
}

// GetPortfolioResponse is a portfolio with its valuation.
type GetPortfolioResponse struct {
	Portfolio PortfolioResponse `json:"portfolio"`
	Valuation ValuationResponse `json:"valuation"`
}

// ListRecordsResponse is the payment history of one installment, oldest first.
type ListRecordsResponse struct {
	PortfolioID string                       `json:"portfolio_id"`
	Number      int                          `json:"number"`
	Records     []AmortizationRecordResponse `json:"records"`
}
