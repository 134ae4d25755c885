package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"agri_market/internal/events"
	"agri_market/internal/models"
	"agri_market/internal/repository"

	"github.com/shopspring/decimal"
)

type FinanceService interface {
	GetTransactions(ctx context.Context, actor Actor) ([]models.Transaction, error)
	GetEarningsSummary(ctx context.Context, actor Actor) (*models.EarningsSummary, error)
	RequestPayout(ctx context.Context, actor Actor, input PayoutInput) (*models.PayoutRequest, error)
	GetPayouts(ctx context.Context, actor Actor) ([]models.PayoutRequest, error)
}

type PayoutInput struct {
	Amount      decimal.Decimal `json:"amount"`
	BankDetails string          `json:"bank_details" binding:"required"`
}

// PayoutRequestedPayload is the body of a payout.requested event.
type PayoutRequestedPayload struct {
	PayoutID uint            `json:"payout_id"`
	UserID   uint            `json:"user_id"`
	Amount   decimal.Decimal `json:"amount"`
}

type financeService struct {
	repos      *repository.Repositories
	dispatcher *Dispatcher
	now        func() time.Time
}

func NewFinanceService(repos *repository.Repositories, dispatcher *Dispatcher) FinanceService {
	return &financeService{repos: repos, dispatcher: dispatcher, now: time.Now}
}

func (s *financeService) GetTransactions(ctx context.Context, actor Actor) ([]models.Transaction, error) {
	return s.repos.Financial.GetTransactionsByUser(ctx, actor.UserID)
}

func (s *financeService) GetEarningsSummary(ctx context.Context, actor Actor) (*models.EarningsSummary, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.repos.Financial.GetEarningsSummary(ctx, actor.UserID, dayStart)
}

// RequestPayout records a pending payout. The user row is locked while the
// balance is checked, so two requests cannot both spend the same credits.
func (s *financeService) RequestPayout(ctx context.Context, actor Actor, input PayoutInput) (*models.PayoutRequest, error) {
	if !input.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	if strings.TrimSpace(input.BankDetails) == "" {
		return nil, fmt.Errorf("%w: bank_details is required", ErrInvalidInput)
	}

	var out outbox
	var payout *models.PayoutRequest
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Users.GetForUpdate(ctx, actor.UserID); err != nil {
			return notFound(err, "user", actor.UserID)
		}
		balance, err := tx.Financial.GetAvailableBalance(ctx, actor.UserID)
		if err != nil {
			return err
		}
		if input.Amount.GreaterThan(balance) {
			return fmt.Errorf("%w: amount %s exceeds available balance %s", ErrConflict, input.Amount.String(), balance.String())
		}

		payout = &models.PayoutRequest{
			UserID:      actor.UserID,
			Amount:      input.Amount,
			BankDetails: strings.TrimSpace(input.BankDetails),
			Status:      string(models.PayoutPending),
		}
		if err := tx.Financial.CreatePayout(ctx, payout); err != nil {
			return fmt.Errorf("failed to create payout request: %w", err)
		}

		out.notify(actor.UserID, models.NotifyPayment, "Payout requested",
			fmt.Sprintf("Your payout of %s is pending review", payout.Amount.StringFixed(2)), "")
		out.event(events.PayoutRequested, fmt.Sprintf("user-%d", actor.UserID), PayoutRequestedPayload{
			PayoutID: payout.ID, UserID: actor.UserID, Amount: payout.Amount,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.dispatcher.dispatch(ctx, &out)
	return payout, nil
}

func (s *financeService) GetPayouts(ctx context.Context, actor Actor) ([]models.PayoutRequest, error) {
	return s.repos.Financial.GetPayoutsByUser(ctx, actor.UserID)
}

// creditSeller writes the supplier's earnings line inside the transaction
// that completes the sale or rental.
func creditSeller(ctx context.Context, tx *repository.Repositories, supplierID uint, amount decimal.Decimal, description, reference string, orderID, rentalID *uint) error {
	supplier, err := tx.Profiles.GetSupplierByID(ctx, supplierID)
	if err != nil {
		return notFound(err, "supplier", supplierID)
	}
	return creditUser(ctx, tx, supplier.UserID, amount, description, reference, orderID, rentalID)
}

func creditUser(ctx context.Context, tx *repository.Repositories, userID uint, amount decimal.Decimal, description, reference string, orderID, rentalID *uint) error {
	credit := &models.Transaction{
		UserID:          userID,
		Amount:          amount,
		TransactionType: string(models.TransactionCredit),
		Description:     description,
		OrderID:         orderID,
		RentalID:        rentalID,
		Status:          "completed",
		ReferenceID:     reference,
	}
	if err := tx.Financial.CreateTransaction(ctx, credit); err != nil {
		return fmt.Errorf("failed to record earnings: %w", err)
	}
	return nil
}
