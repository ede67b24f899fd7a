// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// config is the contents of a configuration file.
type config struct {
	// Workers is the number of files parsed concurrently.
	Workers   int    `yaml:"workers"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	// Include is a list of glob patterns of files to process
	// when none are named on the command line.
	Include []string `yaml:"include"`
}

// loadConfig reads the configuration file at path.
// A missing file yields an empty configuration unless required is true.
func loadConfig(path string, required bool) (*config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return new(config), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := new(config)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("load config %s: workers must not be negative", path)
	}
	return cfg, nil
}
