package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Language  string    `json:"language"`
	Timezone  string    `json:"timezone"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"omitempty,min=3"`
	Language string `json:"language" validate:"omitempty,oneof=ru en"`
	Timezone string `json:"timezone" validate:"omitempty,max=64"`
}
