/*
 * config.go, part of govasp.
 *
 * Copyright 2026 Raul Mera <rmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

// Package config holds the settings of a govasp session. They are read
// from an optional vaspy.{yaml,toml,json} file and from VASPY_* environment
// variables, on top of built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	vasp "github.com/rmera/govasp"
)

const (
	// EnvPrefix is the prefix of the environment variables that override the settings.
	EnvPrefix = "VASPY"
	// FileBase is the name, without extension, of the configuration file
	// looked for in the root directory of a calculation.
	FileBase = "vaspy"
	// EnvPotentialPath is the usual variable pointing to the potential sets.
	EnvPotentialPath = "VASP_PP_PATH"
)

// Config is the configuration of a session.
type Config struct {
	Input  string `mapstructure:"input"`  //relative to the root, unless absolute
	Output string `mapstructure:"output"` //relative to the root, unless absolute

	AutoSave bool `mapstructure:"auto_save"`

	PotentialRoot string `mapstructure:"potential_root"`
	PotentialType string `mapstructure:"potential_type"`
	PotentialFile string `mapstructure:"potential_file"`

	JobScript       string `mapstructure:"job_script"`
	JobTemplate     string `mapstructure:"job_template"`
	DirectiveMarker string `mapstructure:"directive_marker"`

	LogLevel    string `mapstructure:"log_level"`
	DisableLogs bool   `mapstructure:"disable_logs"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AutoSave:        true,
		PotentialRoot:   os.Getenv(EnvPotentialPath),
		PotentialType:   "potpaw_PBE",
		PotentialFile:   "POTCAR",
		JobScript:       "job.slurm",
		JobTemplate:     "default.job",
		DirectiveMarker: "#SBATCH",
		LogLevel:        "info",
	}
}

// SetDefaults registers the built-in values in v.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("input", d.Input)
	v.SetDefault("output", d.Output)
	v.SetDefault("auto_save", d.AutoSave)
	v.SetDefault("potential_root", d.PotentialRoot)
	v.SetDefault("potential_type", d.PotentialType)
	v.SetDefault("potential_file", d.PotentialFile)
	v.SetDefault("job_script", d.JobScript)
	v.SetDefault("job_template", d.JobTemplate)
	v.SetDefault("directive_marker", d.DirectiveMarker)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("disable_logs", d.DisableLogs)
}

// Load builds the configuration for a calculation in root. If file is
// given, it must exist. Otherwise, a vaspy.{yaml,toml,json} in root is
// used if present. Environment variables (VASPY_AUTO_SAVE, etc.) take
// precedence over both.
func Load(root string, file ...string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if len(file) > 0 && file[0] != "" {
		v.SetConfigFile(file[0])
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading configuration file %s: %w", file[0], err)
		}
	} else {
		v.SetConfigName(FileBase)
		v.AddConfigPath(root)
		if err := v.ReadInConfig(); err != nil {
			var notfound viper.ConfigFileNotFoundError
			if !errors.As(err, &notfound) {
				return nil, fmt.Errorf("reading configuration in %s: %w", root, err)
			}
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if f := v.ConfigFileUsed(); f != "" {
		vasp.Logger().Debugf("Configuration read from %s", f)
	}
	return &cfg, nil
}

// Validate returns all the problems found in c, or nil.
func (c *Config) Validate() error {
	var err error
	if c.PotentialType == "" {
		err = multierr.Append(err, errors.New("potential_type can't be empty"))
	}
	if c.PotentialFile == "" {
		err = multierr.Append(err, errors.New("potential_file can't be empty"))
	}
	if c.JobScript == "" {
		err = multierr.Append(err, errors.New("job_script can't be empty"))
	}
	if !strings.HasPrefix(c.DirectiveMarker, "#") {
		err = multierr.Append(err, fmt.Errorf("directive_marker %q must start with '#'", c.DirectiveMarker))
	}
	if _, lerr := zapcore.ParseLevel(c.LogLevel); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("log_level: %w", lerr))
	}
	return err
}

// Apply sets up the library logger according to c.
func (c *Config) Apply() error {
	if c.DisableLogs {
		vasp.SetLogger(nil)
		return nil
	}
	return vasp.SetLogLevel(c.LogLevel)
}
