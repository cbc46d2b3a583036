package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// OwnerCache keeps gym display names for notification text, so reminder batches do not read
// the owner row once per member.
type OwnerCache struct {
	cache *cache.Cache
}

func NewOwnerCache(ttl time.Duration) *OwnerCache {
	return &OwnerCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (r *OwnerCache) SaveGymName(ownerId uuid.UUID, gymName string) {
	r.cache.Set(ownerId.String(), gymName, cache.DefaultExpiration)
}

func (r *OwnerCache) GymName(ownerId uuid.UUID) (string, bool) {
	if x, found := r.cache.Get(ownerId.String()); found {
		return x.(string), true
	}
	return "", false
}

func (r *OwnerCache) Forget(ownerId uuid.UUID) {
	r.cache.Delete(ownerId.String())
}
