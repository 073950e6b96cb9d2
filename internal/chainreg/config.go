package chainreg

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk shape of the currency registry, matching the
// teacher's node.Config convention of a yaml-tagged struct with a
// package-level Load function.
type Config struct {
	Currencies map[Currency]Params `yaml:"currencies"`
}

// DefaultConfig returns the Config equivalent of Default().
func DefaultConfig() *Config {
	return &Config{
		Currencies: map[Currency]Params{
			BTC: {CltvDelta: 40, SubunitFactor: 100000000},
			LTC: {CltvDelta: 576, SubunitFactor: 100000000},
		},
	}
}

// Load reads a currency registry configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("chainreg: read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("chainreg: parse config: %w", err)
	}
	if len(cfg.Currencies) == 0 {
		return nil, fmt.Errorf("chainreg: config has no currencies")
	}
	return cfg, nil
}

// Registry builds a Registry from the Config.
func (c *Config) Registry() *Registry {
	r := New()
	for symbol, params := range c.Currencies {
		r.Set(symbol, params)
	}
	return r
}
