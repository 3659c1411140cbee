// internal/repository/postgres/availability_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitterhub-service/internal/domain/availability"
)

type AvailabilityRepository struct {
	db *pgxpool.Pool
}

func NewAvailabilityRepository(db *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// ReplaceForBabysitter swaps the sitter's full weekly schedule in one
// transaction, the delete-then-insert shape the onboarding flow submits.
func (r *AvailabilityRepository) ReplaceForBabysitter(ctx context.Context, babysitterID uuid.UUID, slots []availability.SlotInput) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM babysitter_availability WHERE babysitter_id = $1`, babysitterID,
	); err != nil {
		return fmt.Errorf("failed to clear availability: %w", err)
	}

	for _, s := range slots {
		if _, err := tx.Exec(ctx, `
			INSERT INTO babysitter_availability (babysitter_id, day_of_week, start_time, end_time, is_available)
			VALUES ($1, $2, $3, $4, $5)
		`, babysitterID, s.DayOfWeek, s.StartTime, s.EndTime, s.IsAvailable); err != nil {
			return fmt.Errorf("failed to insert slot: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListForBabysitter returns the sitter's weekly slots in week order.
func (r *AvailabilityRepository) ListForBabysitter(ctx context.Context, babysitterID uuid.UUID) ([]availability.Slot, error) {
	query := `
		SELECT id, babysitter_id, day_of_week,
		       to_char(start_time, 'HH24:MI'), to_char(end_time, 'HH24:MI'),
		       is_available, created_at
		FROM babysitter_availability
		WHERE babysitter_id = $1
		ORDER BY day_of_week, start_time
	`
	rows, err := r.db.Query(ctx, query, babysitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list availability: %w", err)
	}
	defer rows.Close()

	var slots []availability.Slot
	for rows.Next() {
		var s availability.Slot
		if err := rows.Scan(
			&s.ID, &s.BabysitterID, &s.DayOfWeek, &s.StartTime, &s.EndTime,
			&s.IsAvailable, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan slot: %w", err)
		}
		slots = append(slots, s)
	}
	return slots, rows.Err()
}
