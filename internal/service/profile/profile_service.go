// internal/service/profile/profile_service.go
package profile

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"sitterhub-service/internal/domain/availability"
	"sitterhub-service/internal/domain/child"
	"sitterhub-service/internal/domain/profile"
	"sitterhub-service/internal/repository/postgres"
)

type ProfileService struct {
	profileRepo      *postgres.ProfileRepository
	availabilityRepo *postgres.AvailabilityRepository
	childRepo        *postgres.ChildRepository
	logger           *zap.Logger
}

func NewProfileService(
	profileRepo *postgres.ProfileRepository,
	availabilityRepo *postgres.AvailabilityRepository,
	childRepo *postgres.ChildRepository,
	logger *zap.Logger,
) *ProfileService {
	return &ProfileService{
		profileRepo:      profileRepo,
		availabilityRepo: availabilityRepo,
		childRepo:        childRepo,
		logger:           logger,
	}
}

// ========== Babysitter ==========

func (s *ProfileService) UpsertBabysitter(ctx context.Context, userID uuid.UUID, req *profile.UpsertBabysitterRequest) (*profile.BabysitterProfile, error) {
	p := &profile.BabysitterProfile{
		UserID:    userID,
		Name:      req.Name,
		PhotoURL:  nullString(req.PhotoURL),
		Bio:       nullString(req.Bio),
		Languages: pq.StringArray(req.Languages),
		Skills:    pq.StringArray(req.Skills),
		City:      nullString(req.City),
	}
	if req.YearsExperience != nil {
		p.YearsExperience = sql.NullInt32{Int32: *req.YearsExperience, Valid: true}
	}
	if req.HourlyRate != nil {
		p.HourlyRate = sql.NullFloat64{Float64: *req.HourlyRate, Valid: true}
	}
	if req.MaxKids != nil {
		p.MaxKids = sql.NullInt32{Int32: *req.MaxKids, Valid: true}
	}
	if req.LocationLat != nil {
		p.LocationLat = sql.NullFloat64{Float64: *req.LocationLat, Valid: true}
	}
	if req.LocationLng != nil {
		p.LocationLng = sql.NullFloat64{Float64: *req.LocationLng, Valid: true}
	}

	if err := s.profileRepo.UpsertBabysitter(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to upsert babysitter profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) GetBabysitterByUserID(ctx context.Context, userID uuid.UUID) (*profile.BabysitterProfile, error) {
	return s.profileRepo.FindBabysitterByUserID(ctx, userID)
}

func (s *ProfileService) GetBabysitter(ctx context.Context, id uuid.UUID) (*profile.BabysitterProfile, error) {
	return s.profileRepo.FindBabysitterByID(ctx, id)
}

func (s *ProfileService) SearchBabysitters(ctx context.Context, f profile.SearchFilters) (*profile.SearchResponse, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}

	sitters, total, err := s.profileRepo.SearchBabysitters(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to search babysitters: %w", err)
	}
	return &profile.SearchResponse{
		Sitters:  sitters,
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}, nil
}

// ========== Parent ==========

func (s *ProfileService) UpsertParent(ctx context.Context, userID uuid.UUID, req *profile.UpsertParentRequest) (*profile.ParentProfile, error) {
	p := &profile.ParentProfile{
		UserID:  userID,
		Name:    req.Name,
		Phone:   nullString(req.Phone),
		About:   nullString(req.About),
		Address: nullString(req.Address),
		City:    nullString(req.City),
	}
	if req.LocationLat != nil {
		p.LocationLat = sql.NullFloat64{Float64: *req.LocationLat, Valid: true}
	}
	if req.LocationLng != nil {
		p.LocationLng = sql.NullFloat64{Float64: *req.LocationLng, Valid: true}
	}

	if err := s.profileRepo.UpsertParent(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to upsert parent profile: %w", err)
	}
	return p, nil
}

func (s *ProfileService) GetParentByUserID(ctx context.Context, userID uuid.UUID) (*profile.ParentProfile, error) {
	return s.profileRepo.FindParentByUserID(ctx, userID)
}

// ========== Availability ==========

// ReplaceAvailability swaps the sitter's weekly schedule wholesale, the
// same semantics the schedule editor submits.
func (s *ProfileService) ReplaceAvailability(ctx context.Context, babysitterID uuid.UUID, slots []availability.SlotInput) ([]availability.Slot, error) {
	if err := s.availabilityRepo.ReplaceForBabysitter(ctx, babysitterID, slots); err != nil {
		return nil, fmt.Errorf("failed to replace availability: %w", err)
	}
	return s.availabilityRepo.ListForBabysitter(ctx, babysitterID)
}

func (s *ProfileService) ListAvailability(ctx context.Context, babysitterID uuid.UUID) ([]availability.Slot, error) {
	return s.availabilityRepo.ListForBabysitter(ctx, babysitterID)
}

// ========== Children ==========

func (s *ProfileService) ReplaceChildren(ctx context.Context, parentID uuid.UUID, children []child.ChildInput) ([]child.Child, error) {
	if err := s.childRepo.ReplaceForParent(ctx, parentID, children); err != nil {
		return nil, fmt.Errorf("failed to replace children: %w", err)
	}
	return s.childRepo.ListForParent(ctx, parentID)
}

func (s *ProfileService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]child.Child, error) {
	return s.childRepo.ListForParent(ctx, parentID)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
