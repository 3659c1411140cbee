// internal/domain/child/entity.go
package child

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Child struct {
	ID           uuid.UUID      `json:"id" db:"id"`
	ParentID     uuid.UUID      `json:"parent_id" db:"parent_id"`
	Name         string         `json:"name" db:"name"`
	Age          sql.NullInt32  `json:"age,omitempty" db:"age"`
	Notes        sql.NullString `json:"notes,omitempty" db:"notes"`
	SpecialNeeds sql.NullString `json:"special_needs,omitempty" db:"special_needs"`
	CreatedAt    time.Time      `json:"created_at" db:"created_at"`
}

type ChildInput struct {
	Name         string `json:"name" binding:"required,max=255"`
	Age          *int32 `json:"age" binding:"omitempty,min=0,max=17"`
	Notes        string `json:"notes"`
	SpecialNeeds string `json:"special_needs"`
}

// ReplaceChildrenRequest replaces the parent's full child list, the same
// delete-then-insert shape the onboarding flow submits.
type ReplaceChildrenRequest struct {
	Children []ChildInput `json:"children" binding:"dive"`
}
