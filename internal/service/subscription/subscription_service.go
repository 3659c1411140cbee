// internal/service/subscription/subscription_service.go
package subscription

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/subscription"
	xerrors "sitterhub-service/internal/pkg/errors"
	"sitterhub-service/internal/repository/postgres"
)

// Premium runs month to month; basic never expires on its own.
const premiumTerm = 30 * 24 * time.Hour

type SubscriptionService struct {
	repo   *postgres.SubscriptionRepository
	logger *zap.Logger
}

func NewSubscriptionService(repo *postgres.SubscriptionRepository, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, logger: logger}
}

// Activate starts the requested plan, expiring whatever was active.
func (s *SubscriptionService) Activate(ctx context.Context, parentID uuid.UUID, plan subscription.Plan) (*subscription.Subscription, error) {
	if err := s.repo.ExpireActive(ctx, parentID); err != nil {
		return nil, err
	}

	var endDate *time.Time
	if plan == subscription.PlanPremium {
		t := time.Now().Add(premiumTerm)
		endDate = &t
	}

	sub, err := s.repo.Create(ctx, parentID, plan, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to activate subscription: %w", err)
	}

	s.logger.Info("subscription activated",
		zap.String("parent_id", parentID.String()),
		zap.String("plan", string(plan)))
	return sub, nil
}

// Current returns the parent's active subscription. A lapsed premium term
// is surfaced as expired rather than active.
func (s *SubscriptionService) Current(ctx context.Context, parentID uuid.UUID) (*subscription.Subscription, error) {
	sub, err := s.repo.ActiveForParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	if sub.EndDate.Valid && sub.EndDate.Time.Before(time.Now()) {
		if err := s.repo.ExpireActive(ctx, parentID); err != nil {
			s.logger.Warn("failed to expire lapsed subscription", zap.Error(err))
		}
		sub.Status = subscription.StatusExpired
	}
	return sub, nil
}

// HasPremium reports whether the parent currently holds a premium plan.
func (s *SubscriptionService) HasPremium(ctx context.Context, parentID uuid.UUID) (bool, error) {
	sub, err := s.Current(ctx, parentID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return sub.Plan == subscription.PlanPremium && sub.Status == subscription.StatusActive, nil
}

func (s *SubscriptionService) Cancel(ctx context.Context, parentID uuid.UUID) error {
	return s.repo.Cancel(ctx, parentID)
}
