package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/application/usecase"
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
)

// InstallmentHandler is the gRPC handler for portfolio operations.
type InstallmentHandler struct {
	UnimplementedInstallmentServiceServer

	create      *usecase.CreatePortfolioUseCase
	get         *usecase.GetPortfolioUseCase
	paySingle   *usecase.PayInstallmentUseCase
	payMultiple *usecase.PayMultipleInstallmentsUseCase
	payLumpSum  *usecase.PayLumpSumUseCase
	cancel      *usecase.CancelInstallmentUseCase
	reverse     *usecase.ReversePaymentUseCase
}

// NewInstallmentHandler creates a new handler with all use-case dependencies.
func NewInstallmentHandler(
	create *usecase.CreatePortfolioUseCase,
	get *usecase.GetPortfolioUseCase,
	paySingle *usecase.PayInstallmentUseCase,
	payMultiple *usecase.PayMultipleInstallmentsUseCase,
	payLumpSum *usecase.PayLumpSumUseCase,
	cancel *usecase.CancelInstallmentUseCase,
	reverse *usecase.ReversePaymentUseCase,
) *InstallmentHandler {
	return &InstallmentHandler{
		create:      create,
		get:         get,
		paySingle:   paySingle,
		payMultiple: payMultiple,
		payLumpSum:  payLumpSum,
		cancel:      cancel,
		reverse:     reverse,
	}
}

// CreatePortfolio handles the gRPC CreatePortfolio request.
func (h *InstallmentHandler) CreatePortfolio(ctx context.Context, req *dto.CreatePortfolioRequest) (*dto.PortfolioResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	resp, err := h.create.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// GetPortfolio handles the gRPC GetPortfolio request.
func (h *InstallmentHandler) GetPortfolio(ctx context.Context, req *dto.GetPortfolioRequest) (*dto.GetPortfolioResponse, error) {
	if req == nil || req.PortfolioID == "" {
		return nil, status.Error(codes.InvalidArgument, "portfolio_id is required")
	}
	resp, err := h.get.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// PayInstallment handles the gRPC PayInstallment request.
func (h *InstallmentHandler) PayInstallment(ctx context.Context, req *dto.PayInstallmentRequest) (*dto.PaymentResponse, error) {
	if req == nil || req.PortfolioID == "" {
		return nil, status.Error(codes.InvalidArgument, "portfolio_id is required")
	}
	resp, err := h.paySingle.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// PayMultipleInstallments handles the gRPC PayMultipleInstallments request.
func (h *InstallmentHandler) PayMultipleInstallments(ctx context.Context, req *dto.PayMultipleInstallmentsRequest) (*dto.PaymentResponse, error) {
	if req == nil || req.PortfolioID == "" {
		return nil, status.Error(codes.InvalidArgument, "portfolio_id is required")
	}
	if len(req.Numbers) == 0 {
		return nil, status.Error(codes.InvalidArgument, "numbers must not be empty")
	}
	resp, err := h.payMultiple.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// PayLumpSum handles the gRPC PayLumpSum request.
func (h *InstallmentHandler) PayLumpSum(ctx context.Context, req *dto.PayLumpSumRequest) (*dto.PaymentResponse, error) {
	if req == nil || req.PortfolioID == "" {
		return nil, status.Error(codes.InvalidArgument, "portfolio_id is required")
	}
	resp, err := h.payLumpSum.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// CancelInstallment handles the gRPC CancelInstallment request.
func (h *InstallmentHandler) CancelInstallment(ctx context.Context, req *dto.CancelInstallmentRequest) (*dto.InstallmentResponse, error) {
	if req == nil || req.PortfolioID == "" {
		return nil, status.Error(codes.InvalidArgument, "portfolio_id is required")
	}
	resp, err := h.cancel.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// ReversePayment handles the gRPC ReversePayment request.
func (h *InstallmentHandler) ReversePayment(ctx context.Context, req *dto.ReversePaymentRequest) (*dto.InstallmentResponse, error) {
	if req == nil || req.PortfolioID == "" || req.RecordID == "" {
		return nil, status.Error(codes.InvalidArgument, "portfolio_id and record_id are required")
	}
	resp, err := h.reverse.Execute(ctx, *req)
	if err != nil {
		return nil, toStatus(err)
	}
	return &resp, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

var statusByError = []struct {
	err  error
	code codes.Code
}{
	{model.ErrPortfolioNotFound, codes.NotFound},
	{model.ErrInstallmentNotFound, codes.NotFound},
	{model.ErrRecordNotFound, codes.NotFound},
	{model.ErrVersionConflict, codes.Aborted},
	{valueobject.ErrInvalidStatusTransition, codes.FailedPrecondition},
	{model.ErrInsufficientPayment, codes.FailedPrecondition},
	{model.ErrScheduleAlreadyGenerated, codes.FailedPrecondition},
	{model.ErrRecordMismatch, codes.FailedPrecondition},
	{valueobject.ErrInvalidInstallmentNumber, codes.InvalidArgument},
	{valueobject.ErrUnknownComponentType, codes.InvalidArgument},
	{valueobject.ErrUnknownProduct, codes.InvalidArgument},
	{valueobject.ErrNonPositivePayment, codes.InvalidArgument},
	{valueobject.ErrInvalidChargeParameters, codes.InvalidArgument},
	{money.ErrInvalidRate, codes.InvalidArgument},
	{model.ErrEmptySchedule, codes.InvalidArgument},
	{model.ErrTooManyInstallments, codes.InvalidArgument},
	{model.ErrDuplicateInstallment, codes.InvalidArgument},
	{model.ErrNegativeValue, codes.InvalidArgument},
	{model.ErrNonPositiveTotal, codes.InvalidArgument},
	{model.ErrEmptyComponents, codes.InvalidArgument},
	{model.ErrDuplicateComponent, codes.InvalidArgument},
	{model.ErrMissingComponentType, codes.InvalidArgument},
	{model.ErrMissingEssentialComponent, codes.InvalidArgument},
	{model.ErrDueDateBeforeReference, codes.InvalidArgument},
}

// toStatus maps domain errors to gRPC status codes. Anything unrecognised is
// Internal.
func toStatus(err error) error {
	if errors.Is(err, context.Canceled) {
		return status.Error(codes.Canceled, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	for _, m := range statusByError {
		if errors.Is(err, m.err) {
			return status.Error(m.code, err.Error())
		}
	}
	return status.Error(codes.Internal, err.Error())
}
