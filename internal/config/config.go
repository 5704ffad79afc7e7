// Package config loads the bot configuration from environment variables.
// envconfig maps variables onto the Config struct; a .env file, if present,
// is loaded by the entrypoint before Load is called.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every application setting.
type Config struct {
	// --- Discord ---
	DiscordToken  string `envconfig:"DISCORD_TOKEN" required:"true"`
	GuildID       string `envconfig:"DISCORD_GUILD_ID"`
	CommandPrefix string `envconfig:"COMMAND_PREFIX" default:"!"`
	AdminIDsRaw   string `envconfig:"ADMIN_IDS"`
	// Filled from AdminIDsRaw by Load.
	AdminIDs []string `envconfig:"-"`

	// --- Database ---
	// Inside docker-compose the database service is called "postgres";
	// override DB_HOST=localhost for local runs.
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"botuser"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"p2e_bot"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`
	AppTimezone string `envconfig:"APP_TIMEZONE" default:"UTC"`

	// --- Bot runtime ---
	// How many gateway events are handled concurrently.
	BotMaxInflight int `envconfig:"BOT_MAX_INFLIGHT" default:"64"`

	// --- Activity dedup ---
	DedupCapacity int           `envconfig:"DEDUP_CAPACITY" default:"1000"`
	DedupTTL      time.Duration `envconfig:"DEDUP_TTL" default:"10m"`

	// --- Async follow-ups (milestones, backend sync, DMs) ---
	DispatchWorkers int `envconfig:"DISPATCH_WORKERS" default:"4"`
	DispatchQueue   int `envconfig:"DISPATCH_QUEUE" default:"256"`

	// --- Backend API ---
	BackendAPIURL  string        `envconfig:"BACKEND_API_URL" default:"http://localhost:8000"`
	BackendEnabled bool          `envconfig:"BACKEND_ENABLED" default:"true"`
	BackendTimeout time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`

	// --- Presentation ---
	LeaderboardPageSize int `envconfig:"LEADERBOARD_PAGE_SIZE" default:"10"`

	// --- Jobs ---
	SuspensionSweepSpec string `envconfig:"SUSPENSION_SWEEP_SPEC" default:"@every 1m"`
	DailySummarySpec    string `envconfig:"DAILY_SUMMARY_SPEC" default:"0 9 * * *"`

	// --- Feature flags ---
	FeatureActivityPoints    bool `envconfig:"FEATURE_ACTIVITY_POINTS" default:"true"`
	FeatureEnforceSuspension bool `envconfig:"FEATURE_ENFORCE_SUSPENSION" default:"false"`
	FeatureWelcomeDM         bool `envconfig:"FEATURE_WELCOME_DM" default:"true"`
}

// DatabaseDSN returns the PostgreSQL connection URL. User and password are
// escaped as URL userinfo.
func (c *Config) DatabaseDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, strconv.Itoa(c.DBPort)),
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": {c.DBSSLMode}}.Encode(),
	}
	return u.String()
}

// IsAdminID reports whether the Discord user ID is listed in ADMIN_IDS.
func (c *Config) IsAdminID(userID string) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.CommandPrefix) == "" {
		return fmt.Errorf("COMMAND_PREFIX must not be empty")
	}
	if c.BotMaxInflight <= 0 {
		return fmt.Errorf("BOT_MAX_INFLIGHT must be > 0")
	}
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.DedupCapacity <= 0 || c.DedupTTL <= 0 {
		return fmt.Errorf("DEDUP_CAPACITY and DEDUP_TTL must be > 0")
	}
	if c.DispatchWorkers <= 0 || c.DispatchQueue <= 0 {
		return fmt.Errorf("DISPATCH_WORKERS and DISPATCH_QUEUE must be > 0")
	}
	if c.LeaderboardPageSize <= 0 {
		return fmt.Errorf("LEADERBOARD_PAGE_SIZE must be > 0")
	}
	if c.BackendEnabled {
		u, err := url.Parse(c.BackendAPIURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("BACKEND_API_URL %q is not an absolute URL", c.BackendAPIURL)
		}
		if c.BackendTimeout <= 0 {
			return fmt.Errorf("BACKEND_TIMEOUT must be > 0")
		}
	}
	if _, err := time.LoadLocation(c.AppTimezone); err != nil {
		return fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.AppTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads the environment and fills Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	ids, err := parseSnowflakeCSV(cfg.AdminIDsRaw)
	if err != nil {
		return nil, fmt.Errorf("ADMIN_IDS parse: %w", err)
	}
	cfg.AdminIDs = ids
	cfg.BackendAPIURL = strings.TrimRight(cfg.BackendAPIURL, "/")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// parseSnowflakeCSV splits a comma-separated list of Discord IDs.
// IDs stay strings but must be valid unsigned 64-bit integers.
func parseSnowflakeCSV(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := strconv.ParseUint(p, 10, 64); err != nil {
			return nil, fmt.Errorf("bad snowflake %q: %w", p, err)
		}
		out = append(out, p)
	}
	return out, nil
}
