// internal/domain/subscription/dto.go
package subscription

type ActivateRequest struct {
	Plan Plan `json:"plan" binding:"required,oneof=basic premium"`
}
