// Package config loads runtime configuration from the environment, optionally
// seeded from a .env file. Real environment variables always win over file
// values.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile       = ".env"
	defaultPort          = "8080"
	defaultReadTimeout   = 15 * time.Second
	defaultWriteTimeout  = 30 * time.Second
	defaultIdleTimeout   = 120 * time.Second
	defaultStorePath     = "storefront.db"
	defaultCheckoutDelay = 1500 * time.Millisecond
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Coupons  CouponConfig
	Checkout CheckoutConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig locates the persistent key/value database.
type StoreConfig struct {
	// Path is the SQLite database file. The sentinel ":memory:" selects the
	// in-memory store.
	Path string
}

// CouponConfig locates the coupon catalog. An empty CatalogFile selects the
// built-in default catalog.
type CouponConfig struct {
	CatalogFile string
}

// CheckoutConfig tunes the simulated order placement.
type CheckoutConfig struct {
	SubmitDelay time.Duration
}

// Load reads configuration from the process environment, seeded from the
// .env file when present.
func Load() (Config, error) {
	values, err := environmentValues()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         valueOrDefault(values, "PORT", defaultPort),
			ReadTimeout:  defaultReadTimeout,
			WriteTimeout: defaultWriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
		Store: StoreConfig{
			Path: valueOrDefault(values, "STORE_PATH", defaultStorePath),
		},
		Coupons: CouponConfig{
			CatalogFile: strings.TrimSpace(values["COUPON_CATALOG"]),
		},
		Checkout: CheckoutConfig{
			SubmitDelay: defaultCheckoutDelay,
		},
	}

	if raw := strings.TrimSpace(values["SERVER_READ_TIMEOUT"]); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid SERVER_READ_TIMEOUT: %w", err)
		}
		cfg.Server.ReadTimeout = d
	}
	if raw := strings.TrimSpace(values["SERVER_WRITE_TIMEOUT"]); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid SERVER_WRITE_TIMEOUT: %w", err)
		}
		cfg.Server.WriteTimeout = d
	}
	if raw := strings.TrimSpace(values["CHECKOUT_DELAY_MS"]); raw != "" {
		ms, err := strconv.Atoi(raw)
		if err != nil || ms < 0 {
			return Config{}, fmt.Errorf("config: invalid CHECKOUT_DELAY_MS %q", raw)
		}
		cfg.Checkout.SubmitDelay = time.Duration(ms) * time.Millisecond
	}

	return cfg, nil
}

// environmentValues merges .env file entries with the process environment;
// the process environment takes precedence.
func environmentValues() (map[string]string, error) {
	values := map[string]string{}

	if file, err := os.Open(defaultEnvFile); err == nil {
		defer func() { _ = file.Close() }()
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			key, value, ok := strings.Cut(line, "=")
			if !ok {
				continue
			}
			values[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"`)
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", defaultEnvFile, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: open %s: %w", defaultEnvFile, err)
	}

	for _, pair := range os.Environ() {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		values[key] = value
	}
	return values, nil
}

func valueOrDefault(values map[string]string, key, fallback string) string {
	if v := strings.TrimSpace(values[key]); v != "" {
		return v
	}
	return fallback
}
