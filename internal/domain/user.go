package domain

import "time"

// User is a profile document keyed by the external identity id.
// It is auto-created on first authenticated access.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identity is the verified result of the bearer token: a stable owner
// identifier plus email. The core treats it as an opaque, pre-validated
// input and performs no credential logic.
type Identity struct {
	OwnerID string
	Email   string
}

// UpdateUserRequest is the payload for PUT /v1/users/me.
type UpdateUserRequest struct {
	Name *string `json:"name"`
}
