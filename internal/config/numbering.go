package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/JaimeStill/docket/internal/numbering"
)

const (
	EnvNumberingTimezone      = "DOCKET_NUMBERING_TIMEZONE"
	EnvNumberingRequireConfig = "DOCKET_NUMBERING_REQUIRE_CONFIG"
	EnvNumberingBulkLimit     = "DOCKET_NUMBERING_BULK_LIMIT"
)

// NumberingConfig tunes reference number allocation.
type NumberingConfig struct {
	// Timezone decides which civil date and year a number is issued in.
	Timezone string `toml:"timezone"`
	// RequireConfig turns the dated fallback off: auto allocation without a
	// registered sequence fails instead.
	RequireConfig bool `toml:"require_config"`
	BulkLimit     int  `toml:"bulk_limit"`

	location *time.Location
}

// Location returns the loaded Timezone. Valid after Finalize.
func (c *NumberingConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// Options builds the numbering system options for roles.
func (c *NumberingConfig) Options(roles []string) numbering.Options {
	return numbering.Options{
		Location:      c.Location(),
		RequireConfig: c.RequireConfig,
		BulkLimit:     c.BulkLimit,
		Roles:         roles,
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *NumberingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. RequireConfig always applies.
func (c *NumberingConfig) Merge(overlay *NumberingConfig) {
	if overlay.Timezone != "" {
		c.Timezone = overlay.Timezone
	}
	if overlay.BulkLimit != 0 {
		c.BulkLimit = overlay.BulkLimit
	}
	c.RequireConfig = overlay.RequireConfig
}

func (c *NumberingConfig) loadDefaults() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.BulkLimit == 0 {
		c.BulkLimit = numbering.DefaultBulkLimit
	}
}

func (c *NumberingConfig) loadEnv() {
	if v := os.Getenv(EnvNumberingTimezone); v != "" {
		c.Timezone = v
	}
	if v := os.Getenv(EnvNumberingRequireConfig); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.RequireConfig = b
		}
	}
	if v := os.Getenv(EnvNumberingBulkLimit); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BulkLimit = n
		}
	}
}

func (c *NumberingConfig) validate() error {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.location = loc

	if c.BulkLimit < 1 {
		return fmt.Errorf("bulk_limit must be positive")
	}
	return nil
}
