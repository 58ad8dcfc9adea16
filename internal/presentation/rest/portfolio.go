package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/application/usecase"
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/valueobject"
)

const dateLayout = "2006-01-02"

// PortfolioHandler serves the read side of portfolios: the valuation at a
// date and the payment history of an installment.
type PortfolioHandler struct {
	getPortfolio *usecase.GetPortfolioUseCase
	listRecords  *usecase.ListRecordsUseCase
	logger       *slog.Logger
}

// NewPortfolioHandler creates a portfolio HTTP handler.
func NewPortfolioHandler(
	getPortfolio *usecase.GetPortfolioUseCase,
	listRecords *usecase.ListRecordsUseCase,
	logger *slog.Logger,
) *PortfolioHandler {
	return &PortfolioHandler{getPortfolio: getPortfolio, listRecords: listRecords, logger: logger}
}

// get handles GET /v1/portfolios/{portfolioId}?date=YYYY-MM-DD.
func (h *PortfolioHandler) get(w http.ResponseWriter, r *http.Request) {
	var ref time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
			return
		}
		ref = d
	}

	resp, err := h.getPortfolio.Execute(r.Context(), dto.GetPortfolioRequest{
		PortfolioID:   chi.URLParam(r, "portfolioId"),
		ReferenceDate: ref,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// records handles GET /v1/portfolios/{portfolioId}/installments/{number}/records.
func (h *PortfolioHandler) records(w http.ResponseWriter, r *http.Request) {
	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "installment number must be an integer")
		return
	}

	resp, err := h.listRecords.Execute(r.Context(), dto.ListRecordsRequest{
		PortfolioID: chi.URLParam(r, "portfolioId"),
		Number:      number,
	})
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *PortfolioHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrPortfolioNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, valueobject.ErrInvalidInstallmentNumber):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.ErrorContext(r.Context(), "portfolio request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
