// internal/repository/postgres/profile_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitterhub-service/internal/domain/profile"
	xerrors "sitterhub-service/internal/pkg/errors"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const babysitterColumns = `
	id, user_id, name, photo_url, bio, years_experience, hourly_rate,
	max_kids, languages, skills, city, location_lat, location_lng,
	is_verified, rating_avg, rating_count, created_at, updated_at
`

func scanBabysitter(row pgx.Row) (*profile.BabysitterProfile, error) {
	var p profile.BabysitterProfile
	err := row.Scan(
		&p.ID, &p.UserID, &p.Name, &p.PhotoURL, &p.Bio, &p.YearsExperience,
		&p.HourlyRate, &p.MaxKids, &p.Languages, &p.Skills, &p.City,
		&p.LocationLat, &p.LocationLng, &p.IsVerified, &p.RatingAvg,
		&p.RatingCount, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan babysitter profile: %w", err)
	}
	return &p, nil
}

// UpsertBabysitter inserts or updates the sitter profile keyed by user id.
func (r *ProfileRepository) UpsertBabysitter(ctx context.Context, p *profile.BabysitterProfile) error {
	query := `
		INSERT INTO babysitter_profiles (
			user_id, name, photo_url, bio, years_experience, hourly_rate,
			max_kids, languages, skills, city, location_lat, location_lng
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			photo_url = EXCLUDED.photo_url,
			bio = EXCLUDED.bio,
			years_experience = EXCLUDED.years_experience,
			hourly_rate = EXCLUDED.hourly_rate,
			max_kids = EXCLUDED.max_kids,
			languages = EXCLUDED.languages,
			skills = EXCLUDED.skills,
			city = EXCLUDED.city,
			location_lat = EXCLUDED.location_lat,
			location_lng = EXCLUDED.location_lng,
			updated_at = now()
		RETURNING id, is_verified, rating_avg, rating_count, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		p.UserID, p.Name, p.PhotoURL, p.Bio, p.YearsExperience, p.HourlyRate,
		p.MaxKids, p.Languages, p.Skills, p.City, p.LocationLat, p.LocationLng,
	).Scan(&p.ID, &p.IsVerified, &p.RatingAvg, &p.RatingCount, &p.CreatedAt, &p.UpdatedAt)
}

// UpsertParent inserts or updates the parent profile keyed by user id.
func (r *ProfileRepository) UpsertParent(ctx context.Context, p *profile.ParentProfile) error {
	query := `
		INSERT INTO parent_profiles (
			user_id, name, phone, about, address, city, location_lat, location_lng
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			about = EXCLUDED.about,
			address = EXCLUDED.address,
			city = EXCLUDED.city,
			location_lat = EXCLUDED.location_lat,
			location_lng = EXCLUDED.location_lng,
			updated_at = now()
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		p.UserID, p.Name, p.Phone, p.About, p.Address, p.City, p.LocationLat, p.LocationLng,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

// FindBabysitterByUserID retrieves a sitter profile by owner.
func (r *ProfileRepository) FindBabysitterByUserID(ctx context.Context, userID uuid.UUID) (*profile.BabysitterProfile, error) {
	query := `SELECT ` + babysitterColumns + ` FROM babysitter_profiles WHERE user_id = $1`
	return scanBabysitter(r.db.QueryRow(ctx, query, userID))
}

// FindBabysitterByID retrieves a sitter profile by row id.
func (r *ProfileRepository) FindBabysitterByID(ctx context.Context, id uuid.UUID) (*profile.BabysitterProfile, error) {
	query := `SELECT ` + babysitterColumns + ` FROM babysitter_profiles WHERE id = $1`
	return scanBabysitter(r.db.QueryRow(ctx, query, id))
}

// FindParentByUserID retrieves a parent profile by owner.
func (r *ProfileRepository) FindParentByUserID(ctx context.Context, userID uuid.UUID) (*profile.ParentProfile, error) {
	query := `
		SELECT id, user_id, name, phone, about, address, city,
		       location_lat, location_lng, created_at, updated_at
		FROM parent_profiles
		WHERE user_id = $1
	`
	var p profile.ParentProfile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.Name, &p.Phone, &p.About, &p.Address, &p.City,
		&p.LocationLat, &p.LocationLng, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan parent profile: %w", err)
	}
	return &p, nil
}

// SearchBabysitters lists sitter profiles matching the filters, newest
// rated first.
func (r *ProfileRepository) SearchBabysitters(ctx context.Context, f profile.SearchFilters) ([]profile.BabysitterProfile, int64, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	idx := 1

	if f.City != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(city) = LOWER($%d)", idx))
		args = append(args, f.City)
		idx++
	}
	if f.MaxRate != nil {
		conditions = append(conditions, fmt.Sprintf("hourly_rate <= $%d", idx))
		args = append(args, *f.MaxRate)
		idx++
	}
	if f.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating_avg >= $%d", idx))
		args = append(args, *f.MinRating)
		idx++
	}
	if f.VerifiedOnly {
		conditions = append(conditions, "is_verified = TRUE")
	}

	where := strings.Join(conditions, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM babysitter_profiles WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sitters: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM babysitter_profiles
		WHERE %s
		ORDER BY rating_avg DESC, rating_count DESC
		LIMIT $%d OFFSET $%d
	`, babysitterColumns, where, idx, idx+1)
	args = append(args, f.PageSize, (f.Page-1)*f.PageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search sitters: %w", err)
	}
	defer rows.Close()

	var sitters []profile.BabysitterProfile
	for rows.Next() {
		var p profile.BabysitterProfile
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.PhotoURL, &p.Bio, &p.YearsExperience,
			&p.HourlyRate, &p.MaxKids, &p.Languages, &p.Skills, &p.City,
			&p.LocationLat, &p.LocationLng, &p.IsVerified, &p.RatingAvg,
			&p.RatingCount, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan sitter: %w", err)
		}
		sitters = append(sitters, p)
	}
	return sitters, total, rows.Err()
}

// ListBabysitters returns sitter profiles newest first, for the admin
// panel.
func (r *ProfileRepository) ListBabysitters(ctx context.Context, limit int) ([]profile.BabysitterProfile, error) {
	query := `
		SELECT ` + babysitterColumns + `
		FROM babysitter_profiles
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sitters: %w", err)
	}
	defer rows.Close()

	var sitters []profile.BabysitterProfile
	for rows.Next() {
		var p profile.BabysitterProfile
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Name, &p.PhotoURL, &p.Bio, &p.YearsExperience,
			&p.HourlyRate, &p.MaxKids, &p.Languages, &p.Skills, &p.City,
			&p.LocationLat, &p.LocationLng, &p.IsVerified, &p.RatingAvg,
			&p.RatingCount, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan sitter: %w", err)
		}
		sitters = append(sitters, p)
	}
	return sitters, rows.Err()
}

// SetVerification flips the sitter's verified flag.
func (r *ProfileRepository) SetVerification(ctx context.Context, userID uuid.UUID, verified bool) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE babysitter_profiles SET is_verified = $1, updated_at = now()
		WHERE user_id = $2
	`, verified, userID)
	if err != nil {
		return fmt.Errorf("failed to set verification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// UpdateRating writes the denormalized rating aggregate.
func (r *ProfileRepository) UpdateRating(ctx context.Context, userID uuid.UUID, avg float64, count int) error {
	_, err := r.db.Exec(ctx, `
		UPDATE babysitter_profiles SET rating_avg = $1, rating_count = $2, updated_at = now()
		WHERE user_id = $3
	`, avg, count, userID)
	if err != nil {
		return fmt.Errorf("failed to update rating: %w", err)
	}
	return nil
}

// NamesByUserIDs resolves display names from both profile tables; sitter
// names win when a user somehow has rows in both.
func (r *ProfileRepository) NamesByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(userIDs))
	if len(userIDs) == 0 {
		return names, nil
	}

	query := `
		SELECT user_id, name FROM parent_profiles WHERE user_id = ANY($1)
		UNION ALL
		SELECT user_id, name FROM babysitter_profiles WHERE user_id = ANY($1)
	`
	rows, err := r.db.Query(ctx, query, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan name: %w", err)
		}
		names[id] = name
	}
	return names, rows.Err()
}
