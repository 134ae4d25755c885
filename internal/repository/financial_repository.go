package repository

import (
	"context"
	"time"

	"agri_market/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type FinancialRepository interface {
	CreateTransaction(ctx context.Context, transaction *models.Transaction) error
	GetTransactionsByUser(ctx context.Context, userID uint) ([]models.Transaction, error)
	GetEarningsSummary(ctx context.Context, userID uint, dayStart time.Time) (*models.EarningsSummary, error)
	GetAvailableBalance(ctx context.Context, userID uint) (decimal.Decimal, error)
	CreatePayout(ctx context.Context, payout *models.PayoutRequest) error
	GetPayoutsByUser(ctx context.Context, userID uint) ([]models.PayoutRequest, error)
}

type financialRepository struct {
	db *gorm.DB
}

func NewFinancialRepository(db *gorm.DB) FinancialRepository {
	return &financialRepository{db: db}
}

func (r *financialRepository) CreateTransaction(ctx context.Context, transaction *models.Transaction) error {
	return r.db.WithContext(ctx).Create(transaction).Error
}

func (r *financialRepository) GetTransactionsByUser(ctx context.Context, userID uint) ([]models.Transaction, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&transactions).Error
	return transactions, err
}

// GetEarningsSummary sums completed credits; amounts are added as decimals
// in Go so no database-specific numeric casting is needed.
func (r *financialRepository) GetEarningsSummary(ctx context.Context, userID uint, dayStart time.Time) (*models.EarningsSummary, error) {
	var credits []models.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND transaction_type = ? AND status = ?", userID, string(models.TransactionCredit), "completed").
		Find(&credits).Error
	if err != nil {
		return nil, err
	}

	summary := &models.EarningsSummary{TotalEarnings: decimal.Zero, TodayEarnings: decimal.Zero}
	for _, credit := range credits {
		summary.TotalEarnings = summary.TotalEarnings.Add(credit.Amount)
		if !credit.CreatedAt.Before(dayStart) {
			summary.TodayEarnings = summary.TodayEarnings.Add(credit.Amount)
		}
		summary.TransactionCount++
	}
	return summary, nil
}

// GetAvailableBalance is completed credits minus completed debits minus
// payouts that are still pending or approved.
func (r *financialRepository) GetAvailableBalance(ctx context.Context, userID uint) (decimal.Decimal, error) {
	var transactions []models.Transaction
	err := r.db.WithContext(ctx).Where("user_id = ? AND status = ?", userID, "completed").Find(&transactions).Error
	if err != nil {
		return decimal.Zero, err
	}
	var payouts []models.PayoutRequest
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND status IN ?", userID, []string{string(models.PayoutPending), string(models.PayoutApproved)}).
		Find(&payouts).Error
	if err != nil {
		return decimal.Zero, err
	}

	balance := decimal.Zero
	for _, t := range transactions {
		switch models.TransactionType(t.TransactionType) {
		case models.TransactionCredit:
			balance = balance.Add(t.Amount)
		case models.TransactionDebit:
			balance = balance.Sub(t.Amount)
		}
	}
	for _, p := range payouts {
		balance = balance.Sub(p.Amount)
	}
	return balance, nil
}

func (r *financialRepository) CreatePayout(ctx context.Context, payout *models.PayoutRequest) error {
	return r.db.WithContext(ctx).Create(payout).Error
}

func (r *financialRepository) GetPayoutsByUser(ctx context.Context, userID uint) ([]models.PayoutRequest, error) {
	var payouts []models.PayoutRequest
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&payouts).Error
	return payouts, err
}
