package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's active session.
func (r *CacheKeyStruct) UserSessionKey(userID string) string {
	return fmt.Sprintf("login:%s", userID)
}

var CacheKey = NewCacheKeyStruct()
