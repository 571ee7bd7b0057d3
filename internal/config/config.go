// Copyright 2024 The Ontokit Authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config reads ontokit settings from flags, environment and an
// optional configuration file.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ontokit/ontokit/factstore"
)

const (
	KeyBackend  = "store.backend"
	KeyPath     = "store.path"
	KeyOptions  = "store.options"
	KeyReadOnly = "http.read_only"

	KeyLoadBatch = "load.batch"

	KeyWorkers       = "infer.workers"
	KeyMaxIterations = "infer.max_iterations"
	KeyCalibrate     = "infer.calibrate"

	KeyHost    = "http.host"
	KeyTimeout = "http.timeout"
)

// Name is the base name of the configuration file and the prefix of
// environment variables (ONTOKIT_STORE_BACKEND).
const Name = "ontokit"

// Config is the typed view of the settings.
type Config struct {
	Backend  string
	Path     string
	Options  factstore.Options
	ReadOnly bool

	LoadBatch int

	Workers       int
	MaxIterations int
	Calibrate     bool

	Host    string
	Timeout time.Duration
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyBackend, "memstore")
	v.SetDefault(KeyPath, "")
	v.SetDefault(KeyReadOnly, false)
	v.SetDefault(KeyLoadBatch, 10000)
	v.SetDefault(KeyWorkers, 4)
	v.SetDefault(KeyMaxIterations, 32)
	v.SetDefault(KeyCalibrate, false)
	v.SetDefault(KeyHost, "127.0.0.1:64280")
	v.SetDefault(KeyTimeout, "30s")
}

// New returns a viper instance with defaults and environment lookup set
// up.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(Name)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// ReadFile reads file into v. When file is empty ontokit.{yml,json,toml}
// is searched in the working directory, $HOME/.ontokit and /etc/ontokit;
// not finding one is not an error.
func ReadFile(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(Name)
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/." + Name)
		v.AddConfigPath("/etc/" + Name)
	}
	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	} else if err != nil {
		return fmt.Errorf("could not read config: %w", err)
	}
	return nil
}

// FromViper returns the typed settings of v.
func FromViper(v *viper.Viper) (*Config, error) {
	timeout, err := parseDuration(v.Get(KeyTimeout))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyTimeout, err)
	}
	return &Config{
		Backend:       v.GetString(KeyBackend),
		Path:          v.GetString(KeyPath),
		Options:       factstore.Options(v.GetStringMap(KeyOptions)),
		ReadOnly:      v.GetBool(KeyReadOnly),
		LoadBatch:     v.GetInt(KeyLoadBatch),
		Workers:       v.GetInt(KeyWorkers),
		MaxIterations: v.GetInt(KeyMaxIterations),
		Calibrate:     v.GetBool(KeyCalibrate),
		Host:          v.GetString(KeyHost),
		Timeout:       timeout,
	}, nil
}

// parseDuration accepts a time.Duration, a duration string, or a number
// of seconds.
func parseDuration(val interface{}) (time.Duration, error) {
	switch val := val.(type) {
	case nil:
		return 0, nil
	case time.Duration:
		return val, nil
	case int:
		return time.Duration(val) * time.Second, nil
	case int64:
		return time.Duration(val) * time.Second, nil
	case float64:
		return time.Duration(val * float64(time.Second)), nil
	case string:
		if val == "" {
			return 0, nil
		}
		if d, err := time.ParseDuration(val); err == nil {
			return d, nil
		}
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", val)
		}
		return time.Duration(f * float64(time.Second)), nil
	}
	return 0, fmt.Errorf("invalid duration of type %T", val)
}

// OpenStore opens the configured fact store.
func (c *Config) OpenStore() (factstore.Store, error) {
	return factstore.Open(c.Backend, c.Path, c.Options)
}

// InitStore creates the configured fact store.
func (c *Config) InitStore() error {
	return factstore.Init(c.Backend, c.Path, c.Options)
}
