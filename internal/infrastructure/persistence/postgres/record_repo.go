package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/valueobject"
	pkgpostgres "github.com/bibbank/installments/pkg/postgres"
)

// AmortizationRecordRepo implements port.AmortizationRecordRepository.
// Records are written by PortfolioRepo.Save.
type AmortizationRecordRepo struct {
	db pkgpostgres.Querier
}

// NewAmortizationRecordRepo creates a new PostgreSQL-backed record repository
// reading through db, a pool or a transaction.
func NewAmortizationRecordRepo(db pkgpostgres.Querier) *AmortizationRecordRepo {
	return &AmortizationRecordRepo{db: db}
}

const recordColumns = `
	id, installment_number, recorded_at,
	payment_amount, payment_date, payment_method,
	strategy_name, details, amount_not_used
`

// FindByID retrieves one record of a portfolio.
func (r *AmortizationRecordRepo) FindByID(ctx context.Context, portfolioID, id string) (model.AmortizationRecord, error) {
	query := `SELECT ` + recordColumns + ` FROM amortization_records WHERE portfolio_id = $1 AND id = $2`
	rec, err := scanRecord(r.db.QueryRow(ctx, query, portfolioID, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AmortizationRecord{}, fmt.Errorf("%w: %s", model.ErrRecordNotFound, id)
	}
	return rec, err
}

// FindByInstallment retrieves the records of one installment in the order
// they were stored.
func (r *AmortizationRecordRepo) FindByInstallment(ctx context.Context, portfolioID string, number int) ([]model.AmortizationRecord, error) {
	query := `SELECT ` + recordColumns + `
		FROM amortization_records
		WHERE portfolio_id = $1 AND installment_number = $2
		ORDER BY seq
	`
	rows, err := r.db.Query(ctx, query, portfolioID, number)
	if err != nil {
		return nil, fmt.Errorf("query amortization records: %w", err)
	}
	defer rows.Close()

	var records []model.AmortizationRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(s scannable) (model.AmortizationRecord, error) {
	var (
		id                           string
		number                       int
		recordedAt, paymentDate      time.Time
		paymentAmount, amountNotUsed decimal.Decimal
		method, strategy             string
		detailsJSON                  []byte
	)
	err := s.Scan(
		&id, &number, &recordedAt,
		&paymentAmount, &paymentDate, &method,
		&strategy, &detailsJSON, &amountNotUsed,
	)
	if err != nil {
		return model.AmortizationRecord{}, err
	}

	n, err := valueobject.NewInstallmentNumber(number)
	if err != nil {
		return model.AmortizationRecord{}, err
	}
	payment, err := valueobject.NewPayment(moneyOf(paymentAmount), paymentDate.UTC(), method)
	if err != nil {
		return model.AmortizationRecord{}, fmt.Errorf("record %s: %w", id, err)
	}

	var rows []detailRow
	if err := json.Unmarshal(detailsJSON, &rows); err != nil {
		return model.AmortizationRecord{}, fmt.Errorf("unmarshal record %s details: %w", id, err)
	}
	details := make([]model.ApplicationDetail, 0, len(rows))
	for _, d := range rows {
		t, err := valueobject.NewComponentType(d.Type)
		if err != nil {
			return model.AmortizationRecord{}, err
		}
		details = append(details, model.ApplicationDetail{
			Type:          t,
			BalanceBefore: d.BalanceBefore,
			AmountApplied: d.AmountApplied,
			BalanceAfter:  d.BalanceAfter,
		})
	}

	return model.ReconstructAmortizationRecord(
		id, n, recordedAt.UTC(), payment, strategy, details, moneyOf(amountNotUsed),
	), nil
}
