// Package profile mirrors identity-provider users into local buyer profiles.
package profile

import "time"

// Profile is keyed by the identity provider's user id (ClerkID).
type Profile struct {
	ID        string    `json:"id"`
	ClerkID   string    `json:"clerk_id"`
	Email     string    `json:"email"`
	Nickname  string    `json:"nickname"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Patch changes only its non-empty fields.
type Patch struct {
	Email     string
	Nickname  string
	AvatarURL string
}

// UpdateProfileRequest payload of the profile edit form.
// swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Nickname  string `json:"nickname"   example:"prompt_fan"`
	AvatarURL string `json:"avatar_url" example:"https://img.example.com/a.png"`
}
