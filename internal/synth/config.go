// Package synth ties the rest of the module together into a runnable
// synthesis job: configuration, scenario loading from YAML, and the
// Job/TargetSpec types the Driver is built from.
package synth

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cozysynth/cozy/internal/cost"
)

// Config is the tunable knobs of one synthesis run — spec.md §9's
// configuration surface, plus the hyper-aggressive-eviction and
// testcase_sink knobs it calls out explicitly.
type Config struct {
	CostCeiling          cost.Cost `yaml:"cost_ceiling"`
	HyperAggressiveEvict bool      `yaml:"hyperaggressive_eviction"`
	TestcaseSink         string    `yaml:"testcase_sink"`
	OracleIntRadius      int64     `yaml:"oracle_int_radius"`
	OracleHandlePool     int       `yaml:"oracle_handle_pool_size"`
	FieldWeight          int       `yaml:"field_weight"`
}

// DefaultConfig mirrors verifier.DefaultConfig's choices for the oracle
// knobs, plus a modest cost ceiling suitable for interactive use.
func DefaultConfig() Config {
	return Config{
		CostCeiling:      cost.Cost{Size: 12},
		OracleIntRadius:  2,
		OracleHandlePool: 3,
		FieldWeight:      2,
	}
}

// LoadConfig reads and parses a YAML config file, falling back to
// DefaultConfig's values for anything the file leaves zero.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("synth: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("synth: parse config %s: %w", path, err)
	}
	return cfg, nil
}
