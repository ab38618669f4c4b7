package leader

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

const (
	// MinTTL is the floor for the election record time-to-live. Values below
	// it are silently raised, never rejected, so a misconfigured candidate
	// still participates with a safe TTL.
	MinTTL = 5 * time.Second

	// DefaultGroup is the election group name used when none is supplied.
	DefaultGroup = "default"

	// groupKeyPrefix namespaces derived collection names so election
	// collections never collide with anything else in the shared store.
	groupKeyPrefix = "leader-"
)

// Config is the configuration for a Candidate.
//
// All fields are optional; zero values are filled in by SetDefaults. Duration
// fields accept standard Go duration strings like "5s" or "1m" when loaded
// from YAML.
type Config struct {
	// ID uniquely identifies this candidate within its election group. When
	// empty, a random UUID is generated; collision probability is negligible
	// for realistic group sizes.
	ID string `yaml:"id"`

	// TTL is how long this candidate's election record remains valid in the
	// store before background expiry removes it. Clamped to MinTTL.
	TTL time.Duration `yaml:"ttl"`

	// Group is the election group name. Candidates sharing a group compete
	// for the same leadership; unrelated groups never interact because each
	// group gets its own collection, named after a digest of this value.
	Group string `yaml:"group"`
}

// DefaultConfig returns a Config with default values.
//
// Returns:
//   - Config: Configuration with the default group and minimum TTL
func DefaultConfig() Config {
	return Config{
		TTL:   MinTTL,
		Group: DefaultGroup,
	}
}

// SetDefaults fills in missing configuration values and clamps the TTL.
//
// A TTL below MinTTL (including zero) is raised to exactly MinTTL rather than
// rejected, and an empty ID gets a freshly generated random identifier.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	if cfg.ID == "" {
		cfg.ID = uuid.NewString()
	}
	if cfg.TTL < MinTTL {
		cfg.TTL = MinTTL
	}
	if cfg.Group == "" {
		cfg.Group = DefaultGroup
	}
}

// GroupKey derives the collection name for an election group.
//
// The group name is hashed into a fixed-length digest and prefixed with a
// constant namespace tag, so arbitrary operator-supplied names are always
// safe to use directly as collection or stream identifiers, and distinct
// groups deterministically map to distinct collections.
//
// Parameters:
//   - group: Election group name (DefaultGroup when empty)
//
// Returns:
//   - string: Namespaced, fixed-length collection identifier
func GroupKey(group string) string {
	if group == "" {
		group = DefaultGroup
	}

	sum := xxh3.HashString128(group).Bytes()

	return groupKeyPrefix + hex.EncodeToString(sum[:])
}

// ConfigFromYAML parses a Config from YAML data.
//
// Parameters:
//   - data: Raw YAML document
//
// Returns:
//   - Config: Parsed configuration (defaults are applied later by NewCandidate)
//   - error: Parse error for malformed YAML
//
// Example:
//
//	cfg, err := leader.ConfigFromYAML([]byte("group: daily-job\nttl: 10s\n"))
func ConfigFromYAML(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}
