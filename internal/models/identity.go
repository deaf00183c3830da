package models

import "github.com/google/uuid"

// Identity is the already-verified caller attached to a request.
type Identity struct {
	UserID   uuid.UUID
	IsTenant bool
	IsOwner  bool
	IsAdmin  bool
}
