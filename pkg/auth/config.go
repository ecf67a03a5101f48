package auth

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
)

// Config selects how request actors are established.
// With Enabled false, the actor is read from trusted headers set by the upstream
// session layer. With Enabled true, an OIDC ID token bearer is required.
type Config struct {
	Enabled   bool   `toml:"enabled"`
	Issuer    string `toml:"issuer"`
	ClientID  string `toml:"client_id"`
	JWKSURL   string `toml:"jwks_url"`
	RoleClaim string `toml:"role_claim"`

	ActorHeader string `toml:"actor_header"`
	RoleHeader  string `toml:"role_header"`

	// NumberingRoles may change reference numbers, sequences, and registers.
	NumberingRoles []string `toml:"numbering_roles"`
}

// DefaultNumberingRoles applies when no numbering_roles are configured.
var DefaultNumberingRoles = []string{"admin", "records_officer"}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled     string
	Issuer      string
	ClientID    string
	JWKSURL     string
	RoleClaim   string
	ActorHeader string
	RoleHeader  string
	// NumberingRoles names a comma-separated list variable.
	NumberingRoles string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled
	if overlay.Issuer != "" {
		c.Issuer = overlay.Issuer
	}
	if overlay.ClientID != "" {
		c.ClientID = overlay.ClientID
	}
	if overlay.JWKSURL != "" {
		c.JWKSURL = overlay.JWKSURL
	}
	if overlay.RoleClaim != "" {
		c.RoleClaim = overlay.RoleClaim
	}
	if overlay.ActorHeader != "" {
		c.ActorHeader = overlay.ActorHeader
	}
	if overlay.RoleHeader != "" {
		c.RoleHeader = overlay.RoleHeader
	}
	if len(overlay.NumberingRoles) > 0 {
		c.NumberingRoles = overlay.NumberingRoles
	}
}

func (c *Config) loadDefaults() {
	if c.RoleClaim == "" {
		c.RoleClaim = "role"
	}
	if c.ActorHeader == "" {
		c.ActorHeader = "X-Actor-ID"
	}
	if c.RoleHeader == "" {
		c.RoleHeader = "X-Actor-Role"
	}
	if len(c.NumberingRoles) == 0 {
		c.NumberingRoles = slices.Clone(DefaultNumberingRoles)
	}
	if c.JWKSURL == "" && c.Issuer != "" {
		c.JWKSURL = strings.TrimSuffix(c.Issuer, "/") + "/.well-known/jwks.json"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.Issuer != "" {
		if v := os.Getenv(env.Issuer); v != "" {
			c.Issuer = v
		}
	}
	if env.ClientID != "" {
		if v := os.Getenv(env.ClientID); v != "" {
			c.ClientID = v
		}
	}
	if env.JWKSURL != "" {
		if v := os.Getenv(env.JWKSURL); v != "" {
			c.JWKSURL = v
		}
	}
	if env.RoleClaim != "" {
		if v := os.Getenv(env.RoleClaim); v != "" {
			c.RoleClaim = v
		}
	}
	if env.ActorHeader != "" {
		if v := os.Getenv(env.ActorHeader); v != "" {
			c.ActorHeader = v
		}
	}
	if env.RoleHeader != "" {
		if v := os.Getenv(env.RoleHeader); v != "" {
			c.RoleHeader = v
		}
	}
	if env.NumberingRoles != "" {
		if v := os.Getenv(env.NumberingRoles); v != "" {
			c.NumberingRoles = splitList(v)
		}
	}
}

func splitList(v string) []string {
	var out []string
	for part := range strings.SplitSeq(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (c *Config) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Issuer == "" {
		return fmt.Errorf("issuer required when enabled")
	}
	if c.ClientID == "" {
		return fmt.Errorf("client_id required when enabled")
	}
	return nil
}
