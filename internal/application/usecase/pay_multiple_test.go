package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/installments/internal/application/dto"
	"github.com/bibbank/installments/internal/application/usecase"
	"github.com/bibbank/installments/internal/domain/model"
	"github.com/bibbank/installments/pkg/money"
)

func TestPayMultipleInstallments_Execute(t *testing.T) {
	t.Run("settles every selected installment", func(t *testing.T) {
		p := storedPortfolio(t)
		repo := repoWith(p)
		publisher := &mockEventPublisher{}
		metrics := &mockMetrics{}
		uc := usecase.NewPayMultipleInstallmentsUseCase(repo, publisher, metrics)

		resp, err := uc.Execute(context.Background(), dto.PayMultipleInstallmentsRequest{
			PortfolioID:   p.ID(),
			Numbers:       []int{1, 2},
			Amount:        money.MustParse("6200.00"),
			Method:        "TED",
			ReferenceDate: firstDue,
		})

		require.NoError(t, err)
		require.Len(t, resp.Records, 2)
		assert.Equal(t, "80.00", resp.Unapplied.String())
		assert.Equal(t, "PAID", resp.Installments[0].Status)
		assert.Equal(t, "PAID", resp.Installments[1].Status)
		assert.Equal(t, "OPEN", resp.Installments[2].Status)

		assert.Len(t, repo.savedRecords, 2)
		assert.Equal(t, []string{
			"installment.payment.applied",
			"installment.paid",
			"installment.payment.applied",
			"installment.paid",
		}, publisher.types())
		assert.Equal(t, []string{"PAID", "PAID"}, metrics.transitions)
	})

	t.Run("rejects an amount below the total due", func(t *testing.T) {
		p := storedPortfolio(t)
		repo := repoWith(p)
		uc := usecase.NewPayMultipleInstallmentsUseCase(repo, &mockEventPublisher{}, &mockMetrics{})

		_, err := uc.Execute(context.Background(), dto.PayMultipleInstallmentsRequest{
			PortfolioID:   p.ID(),
			Numbers:       []int{1, 2},
			Amount:        money.MustParse("6119.99"),
			ReferenceDate: firstDue,
		})

		assert.ErrorIs(t, err, model.ErrInsufficientPayment)
		assert.Empty(t, repo.saved)
		for _, inst := range p.Installments() {
			assert.Equal(t, "3060.00", inst.OutstandingBalance().String())
		}
	})

	t.Run("rejects a repeated installment", func(t *testing.T) {
		p := storedPortfolio(t)
		uc := usecase.NewPayMultipleInstallmentsUseCase(repoWith(p), &mockEventPublisher{}, &mockMetrics{})

		_, err := uc.Execute(context.Background(), dto.PayMultipleInstallmentsRequest{
			PortfolioID:   p.ID(),
			Numbers:       []int{2, 2},
			Amount:        money.MustParse("9000.00"),
			ReferenceDate: firstDue,
		})

		assert.ErrorIs(t, err, model.ErrDuplicateInstallment)
	})
}

func TestPayLumpSum_Execute(t *testing.T) {
	t.Run("pays oldest first", func(t *testing.T) {
		p := storedPortfolio(t)
		repo := repoWith(p)
		publisher := &mockEventPublisher{}
		uc := usecase.NewPayLumpSumUseCase(repo, publisher, &mockMetrics{})

		resp, err := uc.Execute(context.Background(), dto.PayLumpSumRequest{
			PortfolioID:   p.ID(),
			Amount:        money.MustParse("4000.00"),
			ReferenceDate: firstDue,
		})

		require.NoError(t, err)
		require.Len(t, resp.Records, 2)
		assert.Equal(t, 1, resp.Records[0].InstallmentNumber)
		assert.Equal(t, 2, resp.Records[1].InstallmentNumber)
		assert.Equal(t, "0.00", resp.Unapplied.String())
		assert.Equal(t, "PAID", resp.Installments[0].Status)
		assert.Equal(t, "OPEN", resp.Installments[1].Status)
		assert.Equal(t, "2120.00", resp.Installments[1].Outstanding.String())
		assert.Len(t, repo.savedRecords, 2)
	})

	t.Run("reports what is left after the schedule is settled", func(t *testing.T) {
		p := storedPortfolio(t)
		uc := usecase.NewPayLumpSumUseCase(repoWith(p), &mockEventPublisher{}, &mockMetrics{})

		resp, err := uc.Execute(context.Background(), dto.PayLumpSumRequest{
			PortfolioID:   p.ID(),
			Amount:        money.MustParse("12300.00"),
			ReferenceDate: firstDue,
		})

		require.NoError(t, err)
		assert.Len(t, resp.Records, 4)
		assert.Equal(t, "60.00", resp.Unapplied.String())
		for _, inst := range resp.Installments {
			assert.Equal(t, "PAID", inst.Status)
		}
	})

	t.Run("fails when the portfolio does not exist", func(t *testing.T) {
		metrics := &mockMetrics{}
		uc := usecase.NewPayLumpSumUseCase(&mockPortfolioRepository{}, &mockEventPublisher{}, metrics)

		_, err := uc.Execute(context.Background(), dto.PayLumpSumRequest{
			PortfolioID: "missing",
			Amount:      money.MustParse("1.00"),
		})

		assert.ErrorIs(t, err, model.ErrPortfolioNotFound)
		assert.Equal(t, []string{"pay_lump_sum"}, metrics.failures)
	})
}
