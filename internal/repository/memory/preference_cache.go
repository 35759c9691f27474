package memory

import (
	"strings"
	"time"

	"gymflow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// PreferenceCache is a read-through cache in front of user_tool_preferences.
type PreferenceCache struct {
	cache *cache.Cache
}

func NewPreferenceCache(ttl time.Duration) *PreferenceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	// Expired items are purged every two TTLs.
	return &PreferenceCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func preferenceKey(userId uuid.UUID, tool entity.AiTool) string {
	return userId.String() + ":" + string(tool)
}

func (r *PreferenceCache) Set(pref *entity.UserToolPreference) {
	r.cache.Set(preferenceKey(pref.UserId, pref.Tool), pref, cache.DefaultExpiration)
}

func (r *PreferenceCache) Get(userId uuid.UUID, tool entity.AiTool) (*entity.UserToolPreference, bool) {
	if x, found := r.cache.Get(preferenceKey(userId, tool)); found {
		return x.(*entity.UserToolPreference), true
	}
	return nil, false
}

// Fill caches a value read from the database unless the key is already
// cached. A reader that raced a writer cannot replace the newer value.
func (r *PreferenceCache) Fill(pref *entity.UserToolPreference) {
	_ = r.cache.Add(preferenceKey(pref.UserId, pref.Tool), pref, cache.DefaultExpiration)
}

// InvalidateUser drops every cached tool preference of userId.
func (r *PreferenceCache) InvalidateUser(userId uuid.UUID) {
	prefix := userId.String() + ":"
	for key := range r.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			r.cache.Delete(key)
		}
	}
}
