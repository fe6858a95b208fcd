package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	OverridesFile  = "file"
	OverridesRedis = "redis"
)

// Settings holds everything the server needs at startup
type Settings struct {
	Host string
	Port int
	Prod bool

	TilesetPath      string
	OverridesBackend string
	OverridesFile    string
	RedisURL         string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDatabase string
	MigratePostgres  bool
	VerbosePostgres  bool

	SessionKey     string
	SessionTimeout time.Duration
	InviteTimeout  time.Duration
}

// Defaults returns the settings used when nothing is configured
func Defaults() Settings {
	return Settings{
		Host:             "127.0.0.1",
		Port:             8000,
		OverridesBackend: OverridesFile,
		OverridesFile:    "overrides.json",
		RedisURL:         "redis://localhost:6379/0",
		PostgresPort:     "5432",
		SessionKey:       "meeple-dev-session",
		SessionTimeout:   60 * time.Second,
		InviteTimeout:    120 * time.Second,
	}
}

// Load reads a .env file if present and overlays the environment on the defaults
func Load() Settings {
	// A missing .env is fine; the process environment still applies
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds settings from a lookup function
func FromEnv(getenv func(string) string) Settings {
	s := Defaults()

	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	flag := func(key string, dst *bool) {
		if v, err := strconv.ParseBool(getenv(key)); err == nil {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		v := getenv(key)
		if v == "" {
			return
		}
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
			return
		}
		// Plain numbers are seconds
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			*dst = time.Duration(n) * time.Second
		}
	}

	str("HOST", &s.Host)
	if p, err := strconv.Atoi(getenv("PORT")); err == nil && p > 0 {
		s.Port = p
	}
	flag("PROD", &s.Prod)
	str("TILESET_PATH", &s.TilesetPath)
	str("OVERRIDES_BACKEND", &s.OverridesBackend)
	str("OVERRIDES_FILE", &s.OverridesFile)
	str("REDIS_URL", &s.RedisURL)
	str("POSTGRES_HOST", &s.PostgresHost)
	str("POSTGRES_PORT", &s.PostgresPort)
	str("POSTGRES_USER", &s.PostgresUser)
	str("POSTGRES_PASSWORD", &s.PostgresPassword)
	str("POSTGRES_DATABASE", &s.PostgresDatabase)
	flag("MIGRATE_POSTGRES", &s.MigratePostgres)
	flag("VERBOSE_POSTGRES", &s.VerbosePostgres)
	str("SESSION_KEY", &s.SessionKey)
	dur("SESSION_TIMEOUT", &s.SessionTimeout)
	dur("INVITE_TIMEOUT", &s.InviteTimeout)
	return s
}

// Addr is the listen address for the HTTP server
func (s Settings) Addr() string {
	return s.Host + ":" + strconv.Itoa(s.Port)
}

// ArchiveEnabled reports whether concluded matches go to PostgreSQL
func (s Settings) ArchiveEnabled() bool {
	return s.PostgresHost != ""
}
