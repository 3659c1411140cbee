// internal/repository/postgres/child_repo.go
package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitterhub-service/internal/domain/child"
)

type ChildRepository struct {
	db *pgxpool.Pool
}

func NewChildRepository(db *pgxpool.Pool) *ChildRepository {
	return &ChildRepository{db: db}
}

// ReplaceForParent swaps the parent's full child list in one transaction.
func (r *ChildRepository) ReplaceForParent(ctx context.Context, parentID uuid.UUID, children []child.ChildInput) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM children WHERE parent_id = $1`, parentID,
	); err != nil {
		return fmt.Errorf("failed to clear children: %w", err)
	}

	for _, c := range children {
		if _, err := tx.Exec(ctx, `
			INSERT INTO children (parent_id, name, age, notes, special_needs)
			VALUES ($1, $2, $3, $4, $5)
		`, parentID, c.Name, c.Age, nullIfEmpty(c.Notes), nullIfEmpty(c.SpecialNeeds)); err != nil {
			return fmt.Errorf("failed to insert child: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// ListForParent returns the parent's children.
func (r *ChildRepository) ListForParent(ctx context.Context, parentID uuid.UUID) ([]child.Child, error) {
	query := `
		SELECT id, parent_id, name, age, notes, special_needs, created_at
		FROM children
		WHERE parent_id = $1
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	defer rows.Close()

	var children []child.Child
	for rows.Next() {
		var c child.Child
		if err := rows.Scan(
			&c.ID, &c.ParentID, &c.Name, &c.Age, &c.Notes, &c.SpecialNeeds, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		children = append(children, c)
	}
	return children, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
