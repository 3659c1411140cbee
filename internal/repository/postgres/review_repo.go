// internal/repository/postgres/review_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitterhub-service/internal/domain/review"
)

type ReviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// Create inserts a review.
func (r *ReviewRepository) Create(ctx context.Context, rev *review.Review) error {
	query := `
		INSERT INTO reviews (booking_id, parent_id, babysitter_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query,
		rev.BookingID, rev.ParentID, rev.BabysitterID, rev.Rating, rev.Comment,
	).Scan(&rev.ID, &rev.CreatedAt)
}

// ExistsForBooking checks whether the booking was already reviewed.
func (r *ReviewRepository) ExistsForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE booking_id = $1)`, bookingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check review existence: %w", err)
	}
	return exists, nil
}

// RatingsForBabysitter returns every rating given to the sitter.
func (r *ReviewRepository) RatingsForBabysitter(ctx context.Context, babysitterID uuid.UUID) ([]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rating FROM reviews WHERE babysitter_id = $1`, babysitterID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ratings: %w", err)
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// ListForBabysitter returns the sitter's most recent reviews.
func (r *ReviewRepository) ListForBabysitter(ctx context.Context, babysitterID uuid.UUID, limit int) ([]review.Review, error) {
	query := `
		SELECT id, booking_id, parent_id, babysitter_id, rating, comment, created_at
		FROM reviews
		WHERE babysitter_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(ctx, query, babysitterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []review.Review
	for rows.Next() {
		var rev review.Review
		if err := rows.Scan(
			&rev.ID, &rev.BookingID, &rev.ParentID, &rev.BabysitterID,
			&rev.Rating, &rev.Comment, &rev.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}
