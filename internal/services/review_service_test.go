package services

import (
	"testing"

	"agri_market/internal/events"
	"agri_market/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAverageRating(t *testing.T) {
	tests := []struct {
		name      string
		ratings   []int
		wantAvg   string
		wantCount int
	}{
		{"none", nil, "0", 0},
		{"single", []int{5}, "5", 1},
		{"whole mean", []int{5, 3, 4}, "4", 3},
		{"rounded", []int{5, 4, 4}, "4.33", 3},
		{"rounded up", []int{5, 5, 4}, "4.67", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := AverageRating(tt.ratings)
			assert.True(t, summary.AverageRating.Equal(decimal.RequireFromString(tt.wantAvg)), summary.AverageRating.String())
			assert.Equal(t, tt.wantCount, summary.ReviewCount)
		})
	}
}

func TestReviewService_SupplierReviews(t *testing.T) {
	f := newFixture(t)
	owner, supplier := f.supplier(nil, nil)
	service := NewReviewService(f.repos, f.dispatcher)

	var last *ReviewResult
	for _, rating := range []int{5, 3, 4} {
		reviewer := f.user(models.RoleFarmer, nil, nil)
		var err error
		last, err = service.CreateReview(f.ctx, f.actor(reviewer), CreateReviewInput{
			SubjectType: "supplier", SubjectID: supplier.ID, Rating: rating, Comment: "ok",
		})
		require.NoError(t, err)
	}

	assert.True(t, last.Summary.AverageRating.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, 3, last.Summary.ReviewCount)

	stored, err := f.repos.Profiles.GetSupplierByID(f.ctx, supplier.ID)
	require.NoError(t, err)
	assert.True(t, stored.Rating.Equal(decimal.NewFromInt(4)))
	assert.Equal(t, 3, stored.TotalReviews)

	reviews, err := service.GetSupplierReviews(f.ctx, supplier.ID)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)

	notifications, err := f.repos.Notifications.GetByUserID(f.ctx, owner.ID, false)
	require.NoError(t, err)
	assert.Len(t, notifications, 3)
	assert.Contains(t, f.publisher.types(), events.ReviewCreated)
}

func TestReviewService_ProductReview(t *testing.T) {
	f := newFixture(t)
	_, supplier := f.supplier(nil, nil)
	product := f.product(supplier.ID, "Paddy seeds", "seeds", 10, "450.00")
	reviewer := f.user(models.RoleFarmer, nil, nil)
	service := NewReviewService(f.repos, f.dispatcher)

	result, err := service.CreateReview(f.ctx, f.actor(reviewer), CreateReviewInput{
		SubjectType: "product", SubjectID: product.ID, Rating: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Summary.ReviewCount)

	stored, err := f.repos.Products.GetByID(f.ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, stored.Rating.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 1, stored.TotalReviews)
}

func TestReviewService_Rejections(t *testing.T) {
	f := newFixture(t)
	owner, supplier := f.supplier(nil, nil)
	reviewer := f.user(models.RoleFarmer, nil, nil)
	service := NewReviewService(f.repos, f.dispatcher)

	_, err := service.CreateReview(f.ctx, f.actor(reviewer), CreateReviewInput{SubjectType: "supplier", SubjectID: supplier.ID, Rating: 4})
	require.NoError(t, err)

	tests := []struct {
		name    string
		actor   Actor
		input   CreateReviewInput
		wantErr error
	}{
		{"duplicate", f.actor(reviewer), CreateReviewInput{SubjectType: "supplier", SubjectID: supplier.ID, Rating: 1}, ErrConflict},
		{"rating too low", f.actor(reviewer), CreateReviewInput{SubjectType: "supplier", SubjectID: supplier.ID, Rating: 0}, ErrInvalidInput},
		{"rating too high", f.actor(reviewer), CreateReviewInput{SubjectType: "supplier", SubjectID: supplier.ID, Rating: 6}, ErrInvalidInput},
		{"unknown subject", f.actor(reviewer), CreateReviewInput{SubjectType: "farmer", SubjectID: supplier.ID, Rating: 3}, ErrInvalidInput},
		{"missing supplier", f.actor(reviewer), CreateReviewInput{SubjectType: "supplier", SubjectID: 404, Rating: 3}, ErrNotFound},
		{"own business", f.actor(owner), CreateReviewInput{SubjectType: "supplier", SubjectID: supplier.ID, Rating: 5}, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateReview(f.ctx, tt.actor, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	stored, err := f.repos.Profiles.GetSupplierByID(f.ctx, supplier.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.TotalReviews)
	assert.True(t, stored.Rating.Equal(decimal.NewFromInt(4)))
}

func TestReviewService_RecomputeWithoutReviews(t *testing.T) {
	f := newFixture(t)
	_, supplier := f.supplier(nil, nil)
	product := f.product(supplier.ID, "Urea", "fertilizer", 1, "300.00")
	service := NewReviewService(f.repos, f.dispatcher)

	summary, err := service.RecomputeSupplierRating(f.ctx, supplier.ID)
	require.NoError(t, err)
	assert.True(t, summary.AverageRating.IsZero())
	assert.Equal(t, 0, summary.ReviewCount)

	summary, err = service.RecomputeProductRating(f.ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, summary.AverageRating.IsZero())

	_, err = service.RecomputeProductRating(f.ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}
