// Copyright 2020 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/juju/errors"
	"github.com/spf13/viper"
)

const (
	DefaultFolds           = 10
	DefaultTrainingPattern = "{fold}_training.csv"
	DefaultTestPattern     = "{fold}_test.csv"

	// FoldParam is the reserved parameter name placing the fold loop in the nesting order.
	FoldParam = "fold"
	// FoldPlaceholder is replaced by the fold index in file patterns.
	FoldPlaceholder = "{fold}"
)

// Config is the configuration of a hyper-parameter sweep.
type Config struct {
	// Program is the executable invoked for every combination, "java" for example.
	Program string `mapstructure:"program" validate:"required"`
	// Args are passed before the parameter values.
	Args            []string      `mapstructure:"args"`
	Params          []ParamConfig `mapstructure:"params" validate:"unique=Name,dive"`
	Folds           int           `mapstructure:"folds" validate:"gte=1"`
	TrainingPattern string        `mapstructure:"training_pattern" validate:"required"`
	TestPattern     string        `mapstructure:"test_pattern" validate:"required"`
	// Filter is an expression over parameter names and fold. Combinations evaluating to
	// false are skipped.
	Filter    string `mapstructure:"filter"`
	FailFast  bool   `mapstructure:"fail_fast"`
	LogOutput string `mapstructure:"log_output"`
}

type ParamConfig struct {
	Name   string   `mapstructure:"name" validate:"required"`
	Values []string `mapstructure:"values" validate:"required_unless=Name fold"`
}

func GetDefaultConfig() *Config {
	return &Config{
		Folds:           DefaultFolds,
		TrainingPattern: DefaultTrainingPattern,
		TestPattern:     DefaultTestPattern,
	}
}

func setDefault(v *viper.Viper) {
	defaultConfig := GetDefaultConfig()
	v.SetDefault("folds", defaultConfig.Folds)
	v.SetDefault("training_pattern", defaultConfig.TrainingPattern)
	v.SetDefault("test_pattern", defaultConfig.TestPattern)
	v.SetDefault("fail_fast", defaultConfig.FailFast)
}

type configBinding struct {
	key string
	env string
}

func bindEnv(v *viper.Viper) error {
	bindings := []configBinding{
		{"program", "GORSE_SWEEP_PROGRAM"},
		{"args", "GORSE_SWEEP_ARGS"},
		{"folds", "GORSE_SWEEP_FOLDS"},
		{"training_pattern", "GORSE_SWEEP_TRAINING_PATTERN"},
		{"test_pattern", "GORSE_SWEEP_TEST_PATTERN"},
		{"filter", "GORSE_SWEEP_FILTER"},
		{"fail_fast", "GORSE_SWEEP_FAIL_FAST"},
		{"log_output", "GORSE_SWEEP_LOG_OUTPUT"},
	}
	for _, binding := range bindings {
		if err := v.BindEnv(binding.key, binding.env); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

// LoadConfig loads the sweep configuration from a toml, yaml or json file. Environment
// variables prefixed with GORSE_SWEEP_ override the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefault(v)
	if err := bindEnv(v); err != nil {
		return nil, errors.Trace(err)
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Annotate(err, path)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var conf Config
	if err := v.Unmarshal(&conf, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, errors.Trace(err)
	}
	if err := conf.Validate(); err != nil {
		return nil, errors.Trace(err)
	}
	return &conf, nil
}

// Validate checks the configuration.
func (config *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return errors.NotValidf("sweep config (%v)", err)
	}
	for _, param := range config.Params {
		if param.Name == FoldParam && len(param.Values) > 0 {
			return errors.NotValidf("values of %s (fold values come from folds)", FoldParam)
		}
		if param.Name != FoldParam && len(param.Values) == 0 {
			return errors.NotValidf("empty values of %s", param.Name)
		}
	}
	for _, pattern := range []string{config.TrainingPattern, config.TestPattern} {
		if !strings.Contains(pattern, FoldPlaceholder) {
			return errors.NotValidf("pattern %q without %s", pattern, FoldPlaceholder)
		}
	}
	return nil
}
