// internal/domain/profile/entity.go
package profile

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// BabysitterProfile is the sitter's public listing. rating_avg and
// rating_count are denormalized aggregates maintained by the review
// service.
type BabysitterProfile struct {
	ID     uuid.UUID `json:"id" db:"id"`
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	Name   string    `json:"name" db:"name"`

	PhotoURL        sql.NullString  `json:"photo_url,omitempty" db:"photo_url"`
	Bio             sql.NullString  `json:"bio,omitempty" db:"bio"`
	YearsExperience sql.NullInt32   `json:"years_experience,omitempty" db:"years_experience"`
	HourlyRate      sql.NullFloat64 `json:"hourly_rate,omitempty" db:"hourly_rate"`
	MaxKids         sql.NullInt32   `json:"max_kids,omitempty" db:"max_kids"`
	Languages       pq.StringArray  `json:"languages,omitempty" db:"languages"`
	Skills          pq.StringArray  `json:"skills,omitempty" db:"skills"`

	City        sql.NullString  `json:"city,omitempty" db:"city"`
	LocationLat sql.NullFloat64 `json:"location_lat,omitempty" db:"location_lat"`
	LocationLng sql.NullFloat64 `json:"location_lng,omitempty" db:"location_lng"`

	IsVerified  bool    `json:"is_verified" db:"is_verified"`
	RatingAvg   float64 `json:"rating_avg" db:"rating_avg"`
	RatingCount int     `json:"rating_count" db:"rating_count"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type ParentProfile struct {
	ID     uuid.UUID `json:"id" db:"id"`
	UserID uuid.UUID `json:"user_id" db:"user_id"`
	Name   string    `json:"name" db:"name"`

	Phone       sql.NullString  `json:"phone,omitempty" db:"phone"`
	About       sql.NullString  `json:"about,omitempty" db:"about"`
	Address     sql.NullString  `json:"address,omitempty" db:"address"`
	City        sql.NullString  `json:"city,omitempty" db:"city"`
	LocationLat sql.NullFloat64 `json:"location_lat,omitempty" db:"location_lat"`
	LocationLng sql.NullFloat64 `json:"location_lng,omitempty" db:"location_lng"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Contact is the minimal projection used by inbox contact lists and
// admin views: a user id and the display name from whichever profile
// table has a row.
type Contact struct {
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
}
