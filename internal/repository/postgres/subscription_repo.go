// internal/repository/postgres/subscription_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitterhub-service/internal/domain/subscription"
	xerrors "sitterhub-service/internal/pkg/errors"
)

type SubscriptionRepository struct {
	db *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

const subscriptionColumns = `id, parent_id, plan, status, start_date, end_date, created_at`

func scanSubscription(row pgx.Row) (*subscription.Subscription, error) {
	var s subscription.Subscription
	err := row.Scan(&s.ID, &s.ParentID, &s.Plan, &s.Status, &s.StartDate, &s.EndDate, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan subscription: %w", err)
	}
	return &s, nil
}

// ActiveForParent returns the parent's active subscription, if any.
func (r *SubscriptionRepository) ActiveForParent(ctx context.Context, parentID uuid.UUID) (*subscription.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE parent_id = $1 AND status = 'active'
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanSubscription(r.db.QueryRow(ctx, query, parentID))
}

// ExpireActive marks every active subscription for the parent as expired.
// Called before activating a new plan so at most one subscription is active.
func (r *SubscriptionRepository) ExpireActive(ctx context.Context, parentID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `
		UPDATE subscriptions
		SET status = 'expired', end_date = NOW()
		WHERE parent_id = $1 AND status = 'active'
	`, parentID)
	if err != nil {
		return fmt.Errorf("failed to expire subscriptions: %w", err)
	}
	return nil
}

func (r *SubscriptionRepository) Create(ctx context.Context, parentID uuid.UUID, plan subscription.Plan, endDate *time.Time) (*subscription.Subscription, error) {
	query := `
		INSERT INTO subscriptions (parent_id, plan, status, start_date, end_date)
		VALUES ($1, $2, 'active', NOW(), $3)
		RETURNING ` + subscriptionColumns
	return scanSubscription(r.db.QueryRow(ctx, query, parentID, plan, endDate))
}

// Cancel sets the parent's active subscription to cancelled.
func (r *SubscriptionRepository) Cancel(ctx context.Context, parentID uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE subscriptions
		SET status = 'cancelled', end_date = NOW()
		WHERE parent_id = $1 AND status = 'active'
	`, parentID)
	if err != nil {
		return fmt.Errorf("failed to cancel subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
