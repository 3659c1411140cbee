// internal/domain/subscription/entity.go
package subscription

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Plan string

const (
	PlanBasic   Plan = "basic"
	PlanPremium Plan = "premium"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

type Subscription struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	ParentID  uuid.UUID    `json:"parent_id" db:"parent_id"`
	Plan      Plan         `json:"plan" db:"plan"`
	Status    Status       `json:"status" db:"status"`
	StartDate time.Time    `json:"start_date" db:"start_date"`
	EndDate   sql.NullTime `json:"end_date,omitempty" db:"end_date"`
	CreatedAt time.Time    `json:"created_at" db:"created_at"`
}
