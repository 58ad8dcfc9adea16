package usecase

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/domain/port"
	"github.com/bibbank/installments/internal/domain/valueobject"
)

// ListRecordsUseCase lists the amortization records of one installment.
type ListRecordsUseCase struct {
	records port.AmortizationRecordRepository
}

// NewListRecordsUseCase wires dependencies.
func NewListRecordsUseCase(records port.AmortizationRecordRepository) *ListRecordsUseCase {
	return &ListRecordsUseCase{records: records}
}

func (uc *ListRecordsUseCase) Execute(
	ctx context.Context,
	req dto.ListRecordsRequest,
) (dto.ListRecordsResponse, error) {
	ctx, span := startSpan(ctx, "ListRecords", req.PortfolioID)
	defer span.End()
	span.SetAttributes(attribute.Int("installment.number", req.Number))

	if _, err := valueobject.NewInstallmentNumber(req.Number); err != nil {
		span.RecordError(err)
		return dto.ListRecordsResponse{}, fmt.Errorf("parse installment number: %w", err)
	}

	records, err := uc.records.FindByInstallment(ctx, req.PortfolioID, req.Number)
	if err != nil {
		span.RecordError(err)
		return dto.ListRecordsResponse{}, fmt.Errorf("find records: %w", err)
	}

	return dto.ListRecordsResponse{
		PortfolioID: req.PortfolioID,
		Number:      req.Number,
		Records:     toRecordResponses(records),
	}, nil
}
