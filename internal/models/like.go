package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyLike struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	PropertyID uuid.UUID `json:"property_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// LikeCount is the on-demand aggregate of likes for one property.
type LikeCount struct {
	PropertyID uuid.UUID `json:"property_id"`
	Count      int64     `json:"count"`
}
