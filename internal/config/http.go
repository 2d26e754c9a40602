package config

import "time"

type HTTP struct {
	Port           uint32   `env:"HTTP_PORT" envDefault:"8000"`
	Swagger        bool     `env:"HTTP_SWAGGER" envDefault:"true"`
	PageSize       int      `env:"HTTP_PAGE_SIZE" envDefault:"10"`
	AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	// Request quotas per window: authenticated callers by user, anonymous
	// callers by client IP. A non-positive limit disables that quota.
	UserRateLimit   int           `env:"HTTP_USER_RATE_LIMIT" envDefault:"1000"`
	AnonRateLimit   int           `env:"HTTP_ANON_RATE_LIMIT" envDefault:"100"`
	RateLimitWindow time.Duration `env:"HTTP_RATE_LIMIT_WINDOW" envDefault:"24h"`
}
