// Package config loads process configuration from LICENSEGUARD_* environment variables.
package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/kelseyhightower/envconfig"
	"golang.org/x/crypto/hkdf"
)

const envPrefix = "LICENSEGUARD"

// Config is the root configuration.
type Config struct {
	Server         ServerConfig         `envconfig:"SERVER"`
	Logging        LoggingConfig        `envconfig:"LOGGING"`
	Security       SecurityConfig       `envconfig:"SECURITY"`
	Postgres       PostgresConfig       `envconfig:"POSTGRES"`
	Redis          RedisConfig          `envconfig:"REDIS"`
	Kafka          KafkaConfig          `envconfig:"KAFKA"`
	Engine         EngineConfig         `envconfig:"ENGINE"`
	Detector       DetectorConfig       `envconfig:"DETECTOR"`
	Countermeasure CountermeasureConfig `envconfig:"COUNTERMEASURE"`
	Sweeper        SweeperConfig        `envconfig:"SWEEPER"`
	Incidents      IncidentsConfig      `envconfig:"INCIDENTS"`
}

type ServerConfig struct {
	Addr              string        `envconfig:"ADDR" default:":8080"`
	ReadHeaderTimeout time.Duration `envconfig:"READ_HEADER_TIMEOUT" default:"5s"`
	ShutdownTimeout   time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

type LoggingConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// SecurityConfig holds the master secret; per-purpose keys are derived from it.
// Admin routes are only mounted when AdminToken is set.
type SecurityConfig struct {
	MasterSecret  string `envconfig:"MASTER_SECRET" required:"true"`
	SigningIssuer string `envconfig:"SIGNING_ISSUER" default:"licenseguard"`
	AdminToken    string `envconfig:"ADMIN_TOKEN"`
}

// PostgresConfig selects the durable stores. An empty DSN keeps everything in memory.
type PostgresConfig struct {
	DSN          string `envconfig:"DSN"`
	MaxOpenConns int    `envconfig:"MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns int    `envconfig:"MAX_IDLE_CONNS" default:"5"`
	SeedCatalog  bool   `envconfig:"SEED_CATALOG" default:"true"`
}

// RedisConfig selects the shared usage tracker. An empty URL uses the in-memory tracker.
type RedisConfig struct {
	URL          string        `envconfig:"URL"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// KafkaConfig enables the incident stream sink when brokers are set.
type KafkaConfig struct {
	Brokers           []string `envconfig:"BROKERS"`
	IncidentTopic     string   `envconfig:"INCIDENT_TOPIC" default:"license.incidents"`
	Partitions        int32    `envconfig:"PARTITIONS" default:"3"`
	ReplicationFactor int16    `envconfig:"REPLICATION_FACTOR" default:"1"`
}

type EngineConfig struct {
	RateLimitPerHour int `envconfig:"RATE_LIMIT_PER_HOUR" default:"60"`
}

type DetectorConfig struct {
	ExcessiveChecks     int           `envconfig:"EXCESSIVE_CHECKS" default:"10"`
	ChecksWindow        time.Duration `envconfig:"CHECKS_WINDOW" default:"1h"`
	DomainsPerIP        int           `envconfig:"DOMAINS_PER_IP" default:"5"`
	DomainsWindow       time.Duration `envconfig:"DOMAINS_WINDOW" default:"24h"`
	IPsPerLicense       int           `envconfig:"IPS_PER_LICENSE" default:"5"`
	IPsWindow           time.Duration `envconfig:"IPS_WINDOW" default:"1h"`
	ExcessiveFailures   int           `envconfig:"EXCESSIVE_FAILURES" default:"10"`
	FailuresWindow      time.Duration `envconfig:"FAILURES_WINDOW" default:"1h"`
	UserAgentsPerDomain int           `envconfig:"USER_AGENTS_PER_DOMAIN" default:"3"`
	UserAgentsWindow    time.Duration `envconfig:"USER_AGENTS_WINDOW" default:"24h"`
	ProductMismatches   int           `envconfig:"PRODUCT_MISMATCHES" default:"5"`
	MismatchWindow      time.Duration `envconfig:"MISMATCH_WINDOW" default:"24h"`
}

func (c DetectorConfig) validate() []error {
	var errs []error
	thresholds := []struct {
		name  string
		value int
	}{
		{"excessive checks", c.ExcessiveChecks},
		{"domains per ip", c.DomainsPerIP},
		{"ips per license", c.IPsPerLicense},
		{"excessive failures", c.ExcessiveFailures},
		{"user agents per domain", c.UserAgentsPerDomain},
		{"product mismatches", c.ProductMismatches},
	}
	for _, t := range thresholds {
		if t.value < 1 {
			errs = append(errs, fmt.Errorf("detector %s threshold must be positive", t.name))
		}
	}
	errs = append(errs, positiveDurations("detector", map[string]time.Duration{
		"checks window":      c.ChecksWindow,
		"domains window":     c.DomainsWindow,
		"ips window":         c.IPsWindow,
		"failures window":    c.FailuresWindow,
		"user agents window": c.UserAgentsWindow,
		"mismatch window":    c.MismatchWindow,
	})...)
	return errs
}

type CountermeasureConfig struct {
	ExcessiveChecksThrottle time.Duration `envconfig:"EXCESSIVE_CHECKS_THROTTLE" default:"1h"`
	MultipleIPsBlock        time.Duration `envconfig:"MULTIPLE_IPS_BLOCK" default:"1h"`
	MultipleDomainsBlock    time.Duration `envconfig:"MULTIPLE_DOMAINS_BLOCK" default:"24h"`
	ExcessiveFailuresBlock  time.Duration `envconfig:"EXCESSIVE_FAILURES_BLOCK" default:"30m"`
}

func (c CountermeasureConfig) validate() []error {
	return positiveDurations("countermeasure", map[string]time.Duration{
		"excessive checks throttle": c.ExcessiveChecksThrottle,
		"multiple ips block":        c.MultipleIPsBlock,
		"multiple domains block":    c.MultipleDomainsBlock,
		"excessive failures block":  c.ExcessiveFailuresBlock,
	})
}

func positiveDurations(section string, durations map[string]time.Duration) []error {
	names := make([]string, 0, len(durations))
	for name := range durations {
		names = append(names, name)
	}
	slices.Sort(names)

	var errs []error
	for _, name := range names {
		if durations[name] <= 0 {
			errs = append(errs, fmt.Errorf("%s %s must be positive", section, name))
		}
	}
	return errs
}

type SweeperConfig struct {
	Interval time.Duration `envconfig:"INTERVAL" default:"1h"`
}

type IncidentsConfig struct {
	BufferSize int `envconfig:"BUFFER_SIZE" default:"1024"`
	BatchSize  int `envconfig:"BATCH_SIZE" default:"64"`
}

// Load reads the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("process env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if len(c.Security.MasterSecret) < 32 {
		errs = append(errs, errors.New("security master secret must be at least 32 bytes"))
	}
	if c.Security.AdminToken != "" && len(c.Security.AdminToken) < 16 {
		errs = append(errs, errors.New("security admin token must be at least 16 bytes"))
	}
	if c.Engine.RateLimitPerHour < 1 {
		errs = append(errs, errors.New("engine rate limit must be positive"))
	}
	errs = append(errs, c.Detector.validate()...)
	errs = append(errs, c.Countermeasure.validate()...)
	if c.Sweeper.Interval <= 0 {
		errs = append(errs, errors.New("sweeper interval must be positive"))
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.IncidentTopic == "" {
		errs = append(errs, errors.New("kafka incident topic is required when brokers are set"))
	}
	return errors.Join(errs...)
}

// Keys are the per-purpose secrets derived from the master secret.
type Keys struct {
	Fingerprint []byte
	Signing     []byte
}

const derivedKeyLength = 32

// DeriveKeys expands the master secret with HKDF-SHA256 so fingerprints and
// signatures never share key material.
func (c *Config) DeriveKeys() (Keys, error) {
	fp, err := derive(c.Security.MasterSecret, "licenseguard fingerprint v1")
	if err != nil {
		return Keys{}, err
	}
	sig, err := derive(c.Security.MasterSecret, "licenseguard payload signing v1")
	if err != nil {
		return Keys{}, err
	}
	return Keys{Fingerprint: fp, Signing: sig}, nil
}

func derive(secret, info string) ([]byte, error) {
	key := make([]byte, derivedKeyLength)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive %s key: %w", info, err)
	}
	return key, nil
}
