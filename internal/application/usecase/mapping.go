package usecase

import (
	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/domain/model"
)

func toPortfolioResponse(p *model.Portfolio) dto.PortfolioResponse {
	return dto.PortfolioResponse{
		ID:           p.ID(),
		ProductType:  p.ProductType().String(),
		MonthlyRate:  p.MonthlyRate(),
		Version:      p.Version(),
		Installments: toInstallmentResponses(p.Installments()),
		CreatedAt:    p.CreatedAt(),
		UpdatedAt:    p.UpdatedAt(),
	}
}

func toInstallmentResponses(insts []*model.Installment) []dto.InstallmentResponse {
	out := make([]dto.InstallmentResponse, len(insts))
	for i, inst := range insts {
		out[i] = toInstallmentResponse(inst)
	}
	return out
}

func toInstallmentResponse(inst *model.Installment) dto.InstallmentResponse {
	views := inst.Components()
	components := make([]dto.ComponentResponse, len(views))
	for i, c := range views {
		components[i] = dto.ComponentResponse{
			Type:          c.Type.String(),
			OriginalValue: c.OriginalValue,
			Balance:       c.Balance,
		}
	}
	return dto.InstallmentResponse{
		Number:      inst.Number().Int(),
		DueDate:     inst.DueDate(),
		TotalValue:  inst.TotalValue(),
		Status:      inst.Status().String(),
		Outstanding: inst.OutstandingBalance(),
		Components:  components,
	}
}

func toRecordResponses(records []model.AmortizationRecord) []dto.AmortizationRecordResponse {
	out := make([]dto.AmortizationRecordResponse, len(records))
	for i, r := range records {
		out[i] = toRecordResponse(r)
	}
	return out
}

func toRecordResponse(r model.AmortizationRecord) dto.AmortizationRecordResponse {
	src := r.Details()
	details := make([]dto.ApplicationDetailResponse, len(src))
	for i, d := range src {
		details[i] = dto.ApplicationDetailResponse{
			Type:          d.Type.String(),
			BalanceBefore: d.BalanceBefore,
			AmountApplied: d.AmountApplied,
			BalanceAfter:  d.BalanceAfter,
		}
	}
	return dto.AmortizationRecordResponse{
		ID:                r.ID(),
		InstallmentNumber: r.InstallmentNumber().Int(),
		RecordedAt:        r.RecordedAt(),
		PaymentAmount:     r.Payment().Amount(),
		PaymentMethod:     r.Payment().Method(),
		Strategy:          r.StrategyName(),
		Details:           details,
		AmountNotUsed:     r.AmountNotUsed(),
	}
}

func toValuationResponse(portfolioID string, v model.Valuation) dto.ValuationResponse {
	insts := make([]dto.InstallmentValuationResponse, len(v.Installments))
	for i, iv := range v.Installments {
		insts[i] = dto.InstallmentValuationResponse{
			Number:       iv.Number.Int(),
			DueDate:      iv.DueDate,
			Status:       iv.Status.String(),
			Outstanding:  iv.Outstanding,
			CurrentValue: iv.CurrentValue,
		}
	}
	return dto.ValuationResponse{
		PortfolioID:   portfolioID,
		ReferenceDate: v.ReferenceDate,
		Outstanding:   v.Outstanding,
		CurrentValue:  v.CurrentValue,
		Installments:  insts,
	}
}
