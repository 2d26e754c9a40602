package config

import (
	"fmt"
	"strings"
	"time"
)

type Cache struct {
	Backend    CacheBackend  `env:"CACHE_BACKEND" envDefault:"MEMORY"`
	ListingTTL time.Duration `env:"CACHE_LISTING_TTL" envDefault:"15m"`
}

// CacheBackend selects where the sale listing cache lives.
type CacheBackend uint8

const (
	CacheBackendMemory CacheBackend = iota
	CacheBackendRedis
)

func (b CacheBackend) String() string {
	return []string{"MEMORY", "REDIS"}[b]
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (b *CacheBackend) UnmarshalText(text []byte) error {
	switch strings.ToUpper(string(text)) {
	case "MEMORY":
		*b = CacheBackendMemory
	case "REDIS":
		*b = CacheBackendRedis
	default:
		return fmt.Errorf("unknown cache backend: %s", text)
	}
	return nil
}

func (b CacheBackend) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}
