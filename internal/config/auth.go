package config

import (
	"fmt"
	"time"
)

type Auth struct {
	Secret     string        `env:"AUTH_SECRET,required,notEmpty"`
	Issuer     string        `env:"AUTH_ISSUER" envDefault:"sales-analytics"`
	AccessTTL  time.Duration `env:"AUTH_ACCESS_TTL" envDefault:"5m"`
	RefreshTTL time.Duration `env:"AUTH_REFRESH_TTL" envDefault:"24h"`
}

// Validate rejects secrets too short for HS256.
func (a Auth) Validate() error {
	if len(a.Secret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be at least 32 characters")
	}
	if a.AccessTTL <= 0 || a.RefreshTTL <= 0 {
		return fmt.Errorf("token lifetimes must be positive")
	}
	return nil
}
