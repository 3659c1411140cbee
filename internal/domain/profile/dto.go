// internal/domain/profile/dto.go
package profile

type UpsertBabysitterRequest struct {
	Name            string   `json:"name" binding:"required,max=255"`
	PhotoURL        string   `json:"photo_url" binding:"omitempty,max=1024"`
	Bio             string   `json:"bio"`
	YearsExperience *int32   `json:"years_experience" binding:"omitempty,min=0,max=80"`
	HourlyRate      *float64 `json:"hourly_rate" binding:"omitempty,min=0"`
	MaxKids         *int32   `json:"max_kids" binding:"omitempty,min=1,max=20"`
	Languages       []string `json:"languages"`
	Skills          []string `json:"skills"`
	City            string   `json:"city" binding:"max=255"`
	LocationLat     *float64 `json:"location_lat"`
	LocationLng     *float64 `json:"location_lng"`
}

type UpsertParentRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Phone       string   `json:"phone" binding:"max=20"`
	About       string   `json:"about"`
	Address     string   `json:"address" binding:"max=512"`
	City        string   `json:"city" binding:"max=255"`
	LocationLat *float64 `json:"location_lat"`
	LocationLng *float64 `json:"location_lng"`
}

type SearchFilters struct {
	City         string   `form:"city"`
	MaxRate      *float64 `form:"max_rate"`
	MinRating    *float64 `form:"min_rating"`
	VerifiedOnly bool     `form:"verified_only"`
	Page         int      `form:"page,default=1" binding:"min=1"`
	PageSize     int      `form:"page_size,default=20" binding:"min=1,max=100"`
}

type SearchResponse struct {
	Sitters  []BabysitterProfile `json:"sitters"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}
