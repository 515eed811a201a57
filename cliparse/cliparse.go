package cliparse

import (
	"errors"
	"flag"
	"net/netip"
	"os"
	"strconv"
	"strings"

	"github.com/danielhkuo/quickly-cloud/catalog"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"

	DefaultResetTimeoutSeconds = 60
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	AdminKeySalt string

	// PrintAdminKey prints the counts admin key and exits
	PrintAdminKey bool

	// Kiosk behavior
	ResetTimeoutSeconds int
	TotalItems          int
	TranslationsDir     string

	// Vote endpoint rate limit per client IP
	VoteRate  float64
	VoteBurst int

	// Proxies whose X-Forwarded-For / X-Real-IP headers are believed.
	// Empty means the TCP peer is always the client.
	TrustedProxies []netip.Prefix
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("quickly-cloud", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKeySalt, "admin-salt", "", "Admin key salt (prefer env)")
	fs.BoolVar(&cfg.PrintAdminKey, "print-admin-key", false, "Print the admin key for clearing counts and exit")

	fs.IntVar(&cfg.ResetTimeoutSeconds, "reset-timeout", 0, "Seconds before an idle selection is cleared")
	fs.IntVar(&cfg.TotalItems, "items", 0, "Number of catalog items")
	fs.StringVar(&cfg.TranslationsDir, "translations", "", "Directory of <lang>.json tables (default: embedded)")
	fs.Float64Var(&cfg.VoteRate, "vote-rate", 0, "Votes per second allowed per client IP")
	fs.IntVar(&cfg.VoteBurst, "vote-burst", 0, "Vote burst allowed per client IP")
	var trustProxy string
	fs.StringVar(&trustProxy, "trust-proxy", "", "Comma-separated proxy IPs or CIDRs allowed to set X-Forwarded-For")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		port, err := envInt("PORT", 3318)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = port
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return Config{}, errors.New("database type must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.AdminKeySalt == "" {
		cfg.AdminKeySalt = os.Getenv("ADMIN_KEY_SALT")
	}
	if cfg.AdminKeySalt == "" {
		return Config{}, errors.New("ADMIN_KEY_SALT required")
	}

	if cfg.ResetTimeoutSeconds == 0 {
		secs, err := envInt("RESET_SELECTION_TIMEOUT_SECONDS", DefaultResetTimeoutSeconds)
		if err != nil {
			return Config{}, err
		}
		cfg.ResetTimeoutSeconds = secs
	}
	if cfg.ResetTimeoutSeconds <= 0 {
		return Config{}, errors.New("reset timeout must be positive")
	}

	if cfg.TotalItems == 0 {
		n, err := envInt("TOTAL_ITEMS", catalog.DefaultSize)
		if err != nil {
			return Config{}, err
		}
		cfg.TotalItems = n
	}
	if cfg.TotalItems < catalog.MaxSelections {
		return Config{}, errors.New("catalog must hold at least as many items as one vote")
	}

	if cfg.TranslationsDir == "" {
		cfg.TranslationsDir = os.Getenv("TRANSLATIONS_DIR")
	}

	if cfg.VoteRate == 0 {
		if s := os.Getenv("VOTE_RATE"); s != "" {
			r, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return Config{}, errors.New("invalid VOTE_RATE env variable")
			}
			cfg.VoteRate = r
		} else {
			cfg.VoteRate = 1
		}
	}
	if cfg.VoteBurst == 0 {
		b, err := envInt("VOTE_BURST", 3)
		if err != nil {
			return Config{}, err
		}
		cfg.VoteBurst = b
	}

	if trustProxy == "" {
		trustProxy = os.Getenv("TRUSTED_PROXIES")
	}
	prefixes, err := ParseTrustedProxies(trustProxy)
	if err != nil {
		return Config{}, err
	}
	cfg.TrustedProxies = prefixes

	return cfg, nil
}

// ParseTrustedProxies reads a comma-separated list of IPs and CIDRs.
// A bare IP trusts that single address.
func ParseTrustedProxies(list string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, field := range strings.Split(list, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}

		if strings.Contains(field, "/") {
			prefix, err := netip.ParsePrefix(field)
			if err != nil {
				return nil, errors.New("invalid trusted proxy " + field)
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(field)
		if err != nil {
			return nil, errors.New("invalid trusted proxy " + field)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid " + key + " env variable")
	}
	return n, nil
}
