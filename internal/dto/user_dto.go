package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	Id          uuid.UUID              `json:"id"`
	Email       string                 `json:"email"`
	FullName    string                 `json:"full_name"`
	Role        string                 `json:"role"`
	Status      string                 `json:"status"`
	Preferences map[string]interface{} `json:"preferences,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName    *string                `json:"full_name" validate:"omitempty,min=2,max=100"`
	Preferences map[string]interface{} `json:"preferences"`
}
