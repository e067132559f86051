// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/antgroup/structmerge/modules/matcher"
	"github.com/antgroup/structmerge/pkg/strategy"
)

// Config is the on-disk merge configuration: strategy choice and cost-model
// weights, loaded from a TOML or YAML file (the CLI reads .structmerge.toml
// in the working tree) so
// repeated invocations don't need every weight repeated as a flag. Config
// loading itself is ambient plumbing around the core, not part of it.
type Config struct {
	Strategy       string  `toml:"strategy" yaml:"strategy"`
	WeightNoMatch  float64 `toml:"weight_no_match" yaml:"weight_no_match"`
	WeightRename   float64 `toml:"weight_rename" yaml:"weight_rename"`
	WeightAncestry float64 `toml:"weight_ancestry" yaml:"weight_ancestry"`
	WeightSibling  float64 `toml:"weight_sibling" yaml:"weight_sibling"`
	LookAhead      int     `toml:"look_ahead" yaml:"look_ahead"`
}

// LoadConfig reads path and returns the parsed Config, or the default
// config when path cannot be read (including when it does not exist). Files named *.yaml or *.yml are decoded
// as YAML; anything else is decoded as TOML.
func LoadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, nil
	}
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := toml.Unmarshal(raw, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	w := matcher.DefaultContext()
	return &Config{
		Strategy:       string(strategy.Combined),
		WeightNoMatch:  w.WeightNoMatch,
		WeightRename:   w.WeightRename,
		WeightAncestry: w.WeightAncestry,
		WeightSibling:  w.WeightSibling,
		LookAhead:      w.LookAhead,
	}
}

// ToStrategyContext builds a strategy.Context from the loaded config and the
// side labels supplied on the command line.
func (c *Config) ToStrategyContext(leftName, rightName string) strategy.Context {
	return strategy.Context{
		Strategy: strategy.Kind(c.Strategy),
		Weights: matcher.Context{
			WeightNoMatch:  c.WeightNoMatch,
			WeightRename:   c.WeightRename,
			WeightAncestry: c.WeightAncestry,
			WeightSibling:  c.WeightSibling,
			LookAhead:      c.LookAhead,
		},
		LookAhead: c.LookAhead,
		LeftName:  leftName,
		RightName: rightName,
	}
}
