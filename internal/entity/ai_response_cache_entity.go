package entity

import (
	"time"

	"github.com/google/uuid"
)

// AIResponseCache is the persistent mirror of the Redis response cache. Redis
// is the authoritative lookup path; these rows are written best-effort for
// auditing and cache warm-up after a Redis flush.
type AIResponseCache struct {
	Id        uuid.UUID
	CacheKey  string
	Model     string
	Response  string
	HitCount  int
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
