package services

import (
	"context"
	"errors"
	"fmt"

	"agri_market/internal/events"
	"agri_market/internal/models"
	"agri_market/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReviewService interface {
	CreateReview(ctx context.Context, actor Actor, input CreateReviewInput) (*ReviewResult, error)
	GetSupplierReviews(ctx context.Context, supplierID uint) ([]models.SupplierReview, error)
	RecomputeSupplierRating(ctx context.Context, supplierID uint) (RatingSummary, error)
	RecomputeProductRating(ctx context.Context, productID uint) (RatingSummary, error)
}

type CreateReviewInput struct {
	SubjectType string `json:"subject_type" binding:"required"`
	SubjectID   uint   `json:"subject_id" binding:"required"`
	Rating      int    `json:"rating" binding:"required"`
	Comment     string `json:"comment"`
}

type RatingSummary struct {
	AverageRating decimal.Decimal `json:"average_rating"`
	ReviewCount   int             `json:"review_count"`
}

type ReviewResult struct {
	Review  interface{}   `json:"review"`
	Summary RatingSummary `json:"summary"`
}

type ReviewCreatedPayload struct {
	SubjectType   string          `json:"subject_type"`
	SubjectID     uint            `json:"subject_id"`
	ReviewerID    uint            `json:"reviewer_id"`
	Rating        int             `json:"rating"`
	AverageRating decimal.Decimal `json:"average_rating"`
	ReviewCount   int             `json:"review_count"`
}

// AverageRating is the arithmetic mean of ratings rounded to two places.
// No ratings yields 0 and 0.
func AverageRating(ratings []int) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{AverageRating: decimal.Zero, ReviewCount: 0}
	}
	var sum int64
	for _, r := range ratings {
		sum += int64(r)
	}
	avg := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(ratings)))).Round(2)
	return RatingSummary{AverageRating: avg, ReviewCount: len(ratings)}
}

type reviewService struct {
	repos      *repository.Repositories
	dispatcher *Dispatcher
}

func NewReviewService(repos *repository.Repositories, dispatcher *Dispatcher) ReviewService {
	return &reviewService{repos: repos, dispatcher: dispatcher}
}

func (s *reviewService) CreateReview(ctx context.Context, actor Actor, input CreateReviewInput) (*ReviewResult, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}

	var out outbox
	var result *ReviewResult
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		switch models.ReviewSubject(input.SubjectType) {
		case models.SubjectSupplier:
			result, err = s.reviewSupplier(ctx, tx, actor, input, &out)
		case models.SubjectProduct:
			result, err = s.reviewProduct(ctx, tx, actor, input, &out)
		default:
			err = fmt.Errorf("%w: subject_type must be supplier or product", ErrInvalidInput)
		}
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: you have already reviewed this %s", ErrConflict, input.SubjectType)
		}
		return nil, err
	}

	out.event(events.ReviewCreated, fmt.Sprintf("%s-%d", input.SubjectType, input.SubjectID), ReviewCreatedPayload{
		SubjectType:   input.SubjectType,
		SubjectID:     input.SubjectID,
		ReviewerID:    actor.UserID,
		Rating:        input.Rating,
		AverageRating: result.Summary.AverageRating,
		ReviewCount:   result.Summary.ReviewCount,
	})
	s.dispatcher.dispatch(ctx, &out)
	return result, nil
}

func (s *reviewService) reviewSupplier(ctx context.Context, tx *repository.Repositories, actor Actor, input CreateReviewInput, out *outbox) (*ReviewResult, error) {
	supplier, err := tx.Profiles.GetSupplierForUpdate(ctx, input.SubjectID)
	if err != nil {
		return nil, notFound(err, "supplier", input.SubjectID)
	}
	if supplier.UserID == actor.UserID {
		return nil, fmt.Errorf("%w: cannot review your own business", ErrForbidden)
	}

	exists, err := tx.Reviews.SupplierReviewExists(ctx, supplier.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: you have already reviewed this supplier", ErrConflict)
	}

	review := &models.SupplierReview{
		SupplierID: supplier.ID,
		ReviewerID: actor.UserID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := tx.Reviews.CreateSupplierReview(ctx, review); err != nil {
		return nil, err
	}

	summary, err := recomputeSupplierRating(ctx, tx, supplier.ID)
	if err != nil {
		return nil, err
	}

	out.notify(supplier.UserID, models.NotifyReview, "New review",
		fmt.Sprintf("You received a %d-star review. Rating is now %s from %d reviews",
			review.Rating, summary.AverageRating.StringFixed(2), summary.ReviewCount), "")
	return &ReviewResult{Review: review, Summary: summary}, nil
}

func (s *reviewService) reviewProduct(ctx context.Context, tx *repository.Repositories, actor Actor, input CreateReviewInput, out *outbox) (*ReviewResult, error) {
	product, err := tx.Products.GetForUpdate(ctx, input.SubjectID)
	if err != nil {
		return nil, notFound(err, "product", input.SubjectID)
	}
	supplier, err := tx.Profiles.GetSupplierByID(ctx, product.SupplierID)
	if err != nil {
		return nil, notFound(err, "supplier", product.SupplierID)
	}
	if supplier.UserID == actor.UserID {
		return nil, fmt.Errorf("%w: cannot review your own product", ErrForbidden)
	}

	exists, err := tx.Reviews.ProductReviewExists(ctx, product.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: you have already reviewed this product", ErrConflict)
	}

	review := &models.ProductReview{
		ProductID:  product.ID,
		ReviewerID: actor.UserID,
		Rating:     input.Rating,
		Comment:    input.Comment,
	}
	if err := tx.Reviews.CreateProductReview(ctx, review); err != nil {
		return nil, err
	}

	summary, err := recomputeProductRating(ctx, tx, product.ID)
	if err != nil {
		return nil, err
	}

	out.notify(supplier.UserID, models.NotifyReview, "New product review",
		fmt.Sprintf("%s received a %d-star review", product.Name, review.Rating), "")
	return &ReviewResult{Review: review, Summary: summary}, nil
}

func (s *reviewService) GetSupplierReviews(ctx context.Context, supplierID uint) ([]models.SupplierReview, error) {
	if _, err := s.repos.Profiles.GetSupplierByID(ctx, supplierID); err != nil {
		return nil, notFound(err, "supplier", supplierID)
	}
	return s.repos.Reviews.GetBySupplierID(ctx, supplierID)
}

func (s *reviewService) RecomputeSupplierRating(ctx context.Context, supplierID uint) (RatingSummary, error) {
	var summary RatingSummary
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Profiles.GetSupplierForUpdate(ctx, supplierID); err != nil {
			return notFound(err, "supplier", supplierID)
		}
		var err error
		summary, err = recomputeSupplierRating(ctx, tx, supplierID)
		return err
	})
	return summary, err
}

func (s *reviewService) RecomputeProductRating(ctx context.Context, productID uint) (RatingSummary, error) {
	var summary RatingSummary
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Products.GetForUpdate(ctx, productID); err != nil {
			return notFound(err, "product", productID)
		}
		var err error
		summary, err = recomputeProductRating(ctx, tx, productID)
		return err
	})
	return summary, err
}

// recomputeSupplierRating rebuilds the summary from every review. The caller
// holds the supplier row lock.
func recomputeSupplierRating(ctx context.Context, tx *repository.Repositories, supplierID uint) (RatingSummary, error) {
	ratings, err := tx.Reviews.SupplierRatings(ctx, supplierID)
	if err != nil {
		return RatingSummary{}, err
	}
	summary := AverageRating(ratings)
	if err := tx.Profiles.UpdateSupplierRating(ctx, supplierID, summary.AverageRating, summary.ReviewCount); err != nil {
		return RatingSummary{}, fmt.Errorf("failed to update supplier rating: %w", err)
	}
	return summary, nil
}

func recomputeProductRating(ctx context.Context, tx *repository.Repositories, productID uint) (RatingSummary, error) {
	ratings, err := tx.Reviews.ProductRatings(ctx, productID)
	if err != nil {
		return RatingSummary{}, err
	}
	summary := AverageRating(ratings)
	if err := tx.Products.UpdateRating(ctx, productID, summary.AverageRating, summary.ReviewCount); err != nil {
		return RatingSummary{}, fmt.Errorf("failed to update product rating: %w", err)
	}
	return summary, nil
}
