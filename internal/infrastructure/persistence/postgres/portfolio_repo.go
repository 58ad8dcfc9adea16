package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/internal/domain/valueobject"
	"github.com/bibbank/installments/pkg/money"
	pkgpostgres "github.com/bibbank/installments/pkg/postgres"
)

// PolicyResolver rebuilds the behaviour of a stored portfolio from its
// product type and charge parameters. *service.PortfolioFactory satisfies it.
type PolicyResolver interface {
	Policies(
		productType valueobject.ProductType,
		charge valueobject.ChargeParameters,
		discount valueobject.DiscountParameters,
	) (model.Recipe, model.Conditions, error)
}

// PortfolioRepo implements port.PortfolioRepository.
type PortfolioRepo struct {
	pool     *pgxpool.Pool
	policies PolicyResolver
}

// NewPortfolioRepo creates a new PostgreSQL-backed portfolio repository.
func NewPortfolioRepo(pool *pgxpool.Pool, policies PolicyResolver) *PortfolioRepo {
	return &PortfolioRepo{pool: pool, policies: policies}
}

// Save persists the portfolio, its installments and the given amortization
// records in one transaction. The stored version must equal p.Version().
func (r *PortfolioRepo) Save(ctx context.Context, p *model.Portfolio, records []model.AmortizationRecord) error {
	var stored int
	err := pkgpostgres.WithTransaction(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		v, err := savePortfolioRow(ctx, tx, p)
		if err != nil {
			return err
		}
		stored = v
		if err := saveInstallments(ctx, tx, p); err != nil {
			return err
		}
		return saveRecords(ctx, tx, p.ID(), records)
	})
	if err != nil {
		return err
	}
	if stored > p.Version() {
		p.IncrementVersion()
	}
	return nil
}

func savePortfolioRow(ctx context.Context, tx pgx.Tx, p *model.Portfolio) (int, error) {
	query := `
		INSERT INTO portfolios (
			id, product_type, monthly_rate,
			moratory_rate, penalty_kind, fixed_penalty, penalty_rate, discount_rate,
			version, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			version    = portfolios.version + 1,
			updated_at = EXCLUDED.updated_at
		WHERE portfolios.version = $9
		RETURNING version
	`
	charge := p.Conditions().ChargeParams
	discount := p.Conditions().DiscountParams
	var version int
	err := tx.QueryRow(ctx, query,
		p.ID(), p.ProductType().String(), p.MonthlyRate(),
		charge.MoratoryRate().Daily(), charge.PenaltyKind().String(),
		charge.FixedPenalty().Amount(), charge.PenaltyRate().Daily(),
		discount.DiscountRate().Daily(),
		p.Version(), p.CreatedAt(), p.UpdatedAt(),
	).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%w: portfolio %s at version %d", model.ErrVersionConflict, p.ID(), p.Version())
	}
	if err != nil {
		return 0, fmt.Errorf("save portfolio: %w", err)
	}
	return version, nil
}

// saveInstallments upserts every installment and rewrites the components in
// one batch round trip.
func saveInstallments(ctx context.Context, tx pgx.Tx, p *model.Portfolio) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM installment_components WHERE portfolio_id = $1`, p.ID())
	for _, inst := range p.Installments() {
		batch.Queue(`
			INSERT INTO installments (
				portfolio_id, number, due_date, total_value, status,
				accrued_through, penalty_assessed, last_record_id
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			ON CONFLICT (portfolio_id, number) DO UPDATE SET
				due_date         = EXCLUDED.due_date,
				total_value      = EXCLUDED.total_value,
				status           = EXCLUDED.status,
				accrued_through  = EXCLUDED.accrued_through,
				penalty_assessed = EXCLUDED.penalty_assessed,
				last_record_id   = EXCLUDED.last_record_id
		`,
			p.ID(), inst.Number().Int(), inst.DueDate(), inst.TotalValue().Amount(),
			inst.Status().String(), nullableDate(inst.AccruedThrough()), inst.PenaltyAssessed(),
			nullableString(inst.LastRecordID()),
		)
		for pos, c := range inst.Components() {
			batch.Queue(`
				INSERT INTO installment_components (
					portfolio_id, number, type, position, original_value, balance
				) VALUES ($1,$2,$3,$4,$5,$6)
			`,
				p.ID(), inst.Number().Int(), c.Type.String(), pos,
				c.OriginalValue.Amount(), c.Balance.Amount(),
			)
		}
	}

	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("save installments: %w", err)
		}
	}
	return br.Close()
}

// detailRow is the JSONB form of an ApplicationDetail.
type detailRow struct {
	Type          string      `json:"type"`
	BalanceBefore money.Money `json:"balance_before"`
	AmountApplied money.Money `json:"amount_applied"`
	BalanceAfter  money.Money `json:"balance_after"`
}

func saveRecords(ctx context.Context, tx pgx.Tx, portfolioID string, records []model.AmortizationRecord) error {
	query := `
		INSERT INTO amortization_records (
			id, portfolio_id, installment_number, recorded_at,
			payment_amount, payment_date, payment_method,
			strategy_name, details, amount_not_used
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`
	for _, rec := range records {
		rows := make([]detailRow, 0, len(rec.Details()))
		for _, d := range rec.Details() {
			rows = append(rows, detailRow{
				Type:          d.Type.String(),
				BalanceBefore: d.BalanceBefore,
				AmountApplied: d.AmountApplied,
				BalanceAfter:  d.BalanceAfter,
			})
		}
		details, err := json.Marshal(rows)
		if err != nil {
			return fmt.Errorf("marshal record %s details: %w", rec.ID(), err)
		}
		payment := rec.Payment()
		_, err = tx.Exec(ctx, query,
			rec.ID(), portfolioID, rec.InstallmentNumber().Int(), rec.RecordedAt(),
			payment.Amount().Amount(), payment.Date(), payment.Method(),
			rec.StrategyName(), details, rec.AmountNotUsed().Amount(),
		)
		if err != nil {
			return fmt.Errorf("save amortization record %s: %w", rec.ID(), err)
		}
	}
	return nil
}

// FindByID retrieves a portfolio with its installments and components, all
// read from one repeatable-read snapshot.
func (r *PortfolioRepo) FindByID(ctx context.Context, id string) (*model.Portfolio, error) {
	var (
		row          portfolioRow
		installments []*model.Installment
	)
	snapshot := pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}
	err := pkgpostgres.WithTransaction(ctx, r.pool, snapshot, func(tx pgx.Tx) error {
		var err error
		row, err = loadPortfolioRow(ctx, tx, id)
		if err != nil {
			return err
		}
		installments, err = loadInstallments(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	productType, err := valueobject.NewProductType(row.productType)
	if err != nil {
		return nil, err
	}
	kind, err := valueobject.NewPenaltyKind(row.penaltyKind)
	if err != nil {
		return nil, err
	}
	charge, err := valueobject.NewChargeParameters(
		money.NewDailyRate(row.moratoryRate), kind,
		moneyOf(row.fixedPenalty), money.NewDailyRate(row.penaltyRate),
	)
	if err != nil {
		return nil, err
	}
	discount := valueobject.NewDiscountParameters(money.NewDailyRate(row.discountRate))

	recipe, conditions, err := r.policies.Policies(productType, charge, discount)
	if err != nil {
		return nil, fmt.Errorf("resolve policies: %w", err)
	}

	return model.ReconstructPortfolio(
		row.id, productType, row.monthlyRate, conditions, recipe,
		installments, row.version, row.createdAt, row.updatedAt,
	), nil
}

// ---------------------------------------------------------------------------
// internal helpers
// ---------------------------------------------------------------------------

type portfolioRow struct {
	id, productType, penaltyKind string
	monthlyRate, moratoryRate    decimal.Decimal
	fixedPenalty, penaltyRate    decimal.Decimal
	discountRate                 decimal.Decimal
	version                      int
	createdAt, updatedAt         time.Time
}

func scanPortfolioRow(s scannable) (portfolioRow, error) {
	var row portfolioRow
	err := s.Scan(
		&row.id, &row.productType, &row.monthlyRate,
		&row.moratoryRate, &row.penaltyKind, &row.fixedPenalty, &row.penaltyRate, &row.discountRate,
		&row.version, &row.createdAt, &row.updatedAt,
	)
	return row, err
}

func loadPortfolioRow(ctx context.Context, q pkgpostgres.Querier, id string) (portfolioRow, error) {
	query := `
		SELECT id, product_type, monthly_rate,
		       moratory_rate, penalty_kind, fixed_penalty, penalty_rate, discount_rate,
		       version, created_at, updated_at
		FROM portfolios
		WHERE id = $1
	`
	row, err := scanPortfolioRow(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return portfolioRow{}, fmt.Errorf("%w: %s", model.ErrPortfolioNotFound, id)
	}
	if err != nil {
		return portfolioRow{}, fmt.Errorf("query portfolio: %w", err)
	}
	return row, nil
}

func loadInstallments(ctx context.Context, q pkgpostgres.Querier, portfolioID string) ([]*model.Installment, error) {
	components, err := loadComponents(ctx, q, portfolioID)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT number, due_date, total_value, status, accrued_through, penalty_assessed, last_record_id
		FROM installments
		WHERE portfolio_id = $1
		ORDER BY number
	`
	rows, err := q.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("query installments: %w", err)
	}
	defer rows.Close()

	var installments []*model.Installment
	for rows.Next() {
		var (
			number          int
			dueDate         time.Time
			totalValue      decimal.Decimal
			statusStr       string
			accruedThrough  *time.Time
			penaltyAssessed bool
			lastRecordID    *string
		)
		if err := rows.Scan(
			&number, &dueDate, &totalValue, &statusStr,
			&accruedThrough, &penaltyAssessed, &lastRecordID,
		); err != nil {
			return nil, fmt.Errorf("scan installment: %w", err)
		}
		n, err := valueobject.NewInstallmentNumber(number)
		if err != nil {
			return nil, err
		}
		status, err := valueobject.NewInstallmentStatus(statusStr)
		if err != nil {
			return nil, err
		}
		installments = append(installments, model.ReconstructInstallment(
			n, dueDate.UTC(), moneyOf(totalValue), components[number],
			status, dateOrZero(accruedThrough), penaltyAssessed, stringOrEmpty(lastRecordID),
		))
	}
	return installments, rows.Err()
}

func loadComponents(ctx context.Context, q pkgpostgres.Querier, portfolioID string) (map[int][]*model.Component, error) {
	query := `
		SELECT number, type, original_value, balance
		FROM installment_components
		WHERE portfolio_id = $1
		ORDER BY number, position
	`
	rows, err := q.Query(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("query components: %w", err)
	}
	defer rows.Close()

	out := make(map[int][]*model.Component)
	for rows.Next() {
		var (
			number            int
			typeStr           string
			original, balance decimal.Decimal
		)
		if err := rows.Scan(&number, &typeStr, &original, &balance); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		t, err := valueobject.NewComponentType(typeStr)
		if err != nil {
			return nil, err
		}
		out[number] = append(out[number], model.ReconstructComponent(t, moneyOf(original), moneyOf(balance)))
	}
	return out, rows.Err()
}
