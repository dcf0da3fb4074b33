package governance

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Thresholds defines the session-aggregate boundaries for semaphore rules.
// DependencyYellow is a strict greater-than bound; NoWorkStreak is
// greater-or-equal.
type Thresholds struct {
	DependencyYellow float64 `yaml:"dependency_yellow"`
	NoWorkStreak     int     `yaml:"no_work_streak"`
}

// RiskThresholds defines the aggregate boundaries the risk detectors use.
type RiskThresholds struct {
	DependencyMedium   float64 `yaml:"dependency_medium"`
	DependencySole     float64 `yaml:"dependency_sole"`
	InterventionRepeat int     `yaml:"intervention_repeat"`
	DebugStreak        int     `yaml:"debug_streak"`
	IntegrityStreak    int     `yaml:"integrity_streak"`
}

// Config holds all tunable governance parameters. Thresholds are
// configuration, never scattered literals: changing a bound must not touch
// the decision order.
type Config struct {
	Thresholds Thresholds     `yaml:"thresholds"`
	Risk       RiskThresholds `yaml:"risk"`

	// Extra phrases appended to the compiled defaults.
	DelegationPhrases []string `yaml:"delegation_phrases,omitempty"`
	EvasionPhrases    []string `yaml:"evasion_phrases,omitempty"`
}

// DefaultConfig returns the built-in governance parameters.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: Thresholds{
			DependencyYellow: 0.7,
			NoWorkStreak:     5,
		},
		Risk: RiskThresholds{
			DependencyMedium:   0.6,
			DependencySole:     0.8,
			InterventionRepeat: 5,
			DebugStreak:        3,
			IntegrityStreak:    3,
		},
	}
}

// LoadConfig loads governance configuration from a YAML file.
// Empty path falls back to ~/.aulaguard/governance.yaml.
// Missing file returns defaults. Invalid YAML returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg, _, err := LoadConfigWithHash(path)
	return cfg, err
}

// LoadConfigWithHash loads governance configuration and returns the SHA-256
// of the raw YAML bytes for audit stamping. When no file exists (defaults
// used), the hash is the SHA-256 of empty input.
func LoadConfigWithHash(path string) (*Config, string, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return DefaultConfig(), emptyHash(), nil
		}
		path = filepath.Join(home, ".aulaguard", "governance.yaml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), emptyHash(), nil
		}
		return nil, "", fmt.Errorf("failed to read governance config: %w", err)
	}

	h := sha256.Sum256(data)
	hash := "sha256:" + hex.EncodeToString(h[:])

	// Start with defaults, YAML overwrites only specified fields.
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse governance config: %w", err)
	}

	return cfg, hash, nil
}

func emptyHash() string {
	h := sha256.Sum256(nil)
	return "sha256:" + hex.EncodeToString(h[:])
}
