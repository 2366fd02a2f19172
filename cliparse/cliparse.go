package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port int

	// Persistence gateway (PostgREST-style record store)
	GatewayURL        string
	GatewayKey        string
	GatewayServiceKey string
	GatewayTimeout    time.Duration

	// Session authenticator
	SigningSecret      string
	AdminEmail         string
	AdminPassword      string
	SuperAdminEmail    string
	SuperAdminPassword string

	// Optional external token registry; empty selects the in-process map
	RedisAddr string

	// National identity registry lookup; the URL is required, the key
	// depends on the deployment
	IdentityURL string
	IdentityKey string

	// Duplicate-vote tie-break: "newest" or "oldest"
	DuplicatePolicy string
}

// ParseFlags validates flags, falling back to environment variables.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("sufragio", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.GatewayURL, "gateway-url", "", "Persistence gateway base URL")
	fs.StringVar(&cfg.GatewayKey, "gateway-key", "", "Gateway API key (prefer env)")
	fs.StringVar(&cfg.GatewayServiceKey, "gateway-service-key", "", "Gateway service-role key (prefer env)")
	fs.DurationVar(&cfg.GatewayTimeout, "gateway-timeout", 0, "Per-call gateway timeout")
	fs.StringVar(&cfg.SigningSecret, "signing-secret", "", "Token signing secret (prefer env)")
	fs.StringVar(&cfg.RedisAddr, "redis", "", "Redis URL for the token registry (optional)")
	fs.StringVar(&cfg.IdentityURL, "identity-url", "", "Identity registry base URL")
	fs.StringVar(&cfg.IdentityKey, "identity-key", "", "Identity registry API key (prefer env)")
	fs.StringVar(&cfg.DuplicatePolicy, "duplicate-policy", "", "Duplicate resolution policy: newest or oldest")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8080 // default
		}
	}

	if cfg.GatewayURL == "" {
		cfg.GatewayURL = os.Getenv("GATEWAY_URL")
	}
	if cfg.GatewayURL == "" {
		return Config{}, errors.New("gateway URL required (use -gateway-url or GATEWAY_URL env)")
	}

	if cfg.GatewayKey == "" {
		cfg.GatewayKey = os.Getenv("GATEWAY_KEY")
	}
	if cfg.GatewayKey == "" {
		return Config{}, errors.New("GATEWAY_KEY required")
	}

	if cfg.GatewayServiceKey == "" {
		cfg.GatewayServiceKey = os.Getenv("GATEWAY_SERVICE_KEY")
	}
	if cfg.GatewayServiceKey == "" {
		// Reads still work with the anon key; writes need the service role.
		cfg.GatewayServiceKey = cfg.GatewayKey
	}

	if cfg.GatewayTimeout == 0 {
		if v := os.Getenv("GATEWAY_TIMEOUT"); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, errors.New("invalid GATEWAY_TIMEOUT env variable")
			}
			cfg.GatewayTimeout = d
		} else {
			cfg.GatewayTimeout = 10 * time.Second
		}
	}

	if cfg.SigningSecret == "" {
		cfg.SigningSecret = os.Getenv("SIGNING_SECRET")
	}
	if cfg.SigningSecret == "" {
		return Config{}, errors.New("SIGNING_SECRET required")
	}

	cfg.AdminEmail = envDefault("ADMIN_EMAIL", "admin@elecciones.pe")
	cfg.AdminPassword = os.Getenv("ADMIN_PASSWORD")
	if cfg.AdminPassword == "" {
		return Config{}, errors.New("ADMIN_PASSWORD required")
	}
	cfg.SuperAdminEmail = envDefault("SUPERADMIN_EMAIL", "superadmin@elecciones.pe")
	cfg.SuperAdminPassword = os.Getenv("SUPERADMIN_PASSWORD")
	if cfg.SuperAdminPassword == "" {
		return Config{}, errors.New("SUPERADMIN_PASSWORD required")
	}

	if cfg.RedisAddr == "" {
		cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	}

	if cfg.IdentityURL == "" {
		cfg.IdentityURL = os.Getenv("IDENTITY_URL")
	}
	if cfg.IdentityURL == "" {
		// Voter verification cannot run without this lookup.
		return Config{}, errors.New("identity URL required (use -identity-url or IDENTITY_URL env)")
	}
	if cfg.IdentityKey == "" {
		cfg.IdentityKey = os.Getenv("IDENTITY_KEY")
	}

	if cfg.DuplicatePolicy == "" {
		cfg.DuplicatePolicy = envDefault("DUPLICATE_POLICY", "newest")
	}
	if cfg.DuplicatePolicy != "newest" && cfg.DuplicatePolicy != "oldest" {
		return Config{}, errors.New("duplicate policy must be 'newest' or 'oldest'")
	}

	return cfg, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
