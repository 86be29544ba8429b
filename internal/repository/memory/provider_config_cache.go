package memory

import (
	"time"

	"ai-chat-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ProviderConfigCache keeps each user's resolved active provider config hot,
// so the generator factory does not hit the database on every message.
type ProviderConfigCache struct {
	cache *cache.Cache
}

func NewProviderConfigCache() *ProviderConfigCache {
	// Default expiration of 10 minutes, purge every 5.
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &ProviderConfigCache{
		cache: c,
	}
}

func (r *ProviderConfigCache) Save(userId uuid.UUID, config *entity.ProviderConfig) {
	r.cache.Set(userId.String(), config, cache.DefaultExpiration)
}

func (r *ProviderConfigCache) Get(userId uuid.UUID) (*entity.ProviderConfig, bool) {
	if x, found := r.cache.Get(userId.String()); found {
		return x.(*entity.ProviderConfig), true
	}
	return nil, false
}

// Invalidate drops the cached config after any provider config write.
func (r *ProviderConfigCache) Invalidate(userId uuid.UUID) {
	r.cache.Delete(userId.String())
}
