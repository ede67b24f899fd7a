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

// mdtokens prints and verifies the block tokens of CommonMark documents.
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const defaultConfigPath = ".mdtokens.yaml"

type globalOptions struct {
	configPath string
	logLevel   string
	logFormat  string
	workers    int

	cfg *config
	log *logrus.Logger
}

func main() {
	cmd := newRootCommand(os.Stdin, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{
		configPath: defaultConfigPath,
		logLevel:   "warn",
		logFormat:  "text",
		workers:    runtime.GOMAXPROCS(0),
	}
	root := &cobra.Command{
		Use:          "mdtokens",
		Short:        "Inspect the block tokens of CommonMark documents",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init(cmd.Flags(), stderr)
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	addGlobalFlags(root.PersistentFlags(), g)
	root.AddCommand(
		newTokensCommand(g),
		newVerifyCommand(g),
	)
	return root
}

func addGlobalFlags(fs *pflag.FlagSet, g *globalOptions) {
	fs.StringVar(&g.configPath, "config", g.configPath, "path to configuration `file`")
	fs.StringVar(&g.logLevel, "log-level", g.logLevel, "log messages at or above `level`: debug, info, warn, error")
	fs.StringVar(&g.logFormat, "log-format", g.logFormat, "log output `format`: text or json")
	fs.IntVarP(&g.workers, "jobs", "j", g.workers, "number of files to parse concurrently")
}

// init loads the configuration file and sets up logging.
// Flags set on the command line take precedence over the file.
func (g *globalOptions) init(fs *pflag.FlagSet, stderr io.Writer) error {
	cfg, err := loadConfig(g.configPath, fs.Changed("config"))
	if err != nil {
		return err
	}
	g.cfg = cfg
	if cfg.LogLevel != "" && !fs.Changed("log-level") {
		g.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !fs.Changed("log-format") {
		g.logFormat = cfg.LogFormat
	}
	if cfg.Workers > 0 && !fs.Changed("jobs") {
		g.workers = cfg.Workers
	}
	if g.workers < 1 {
		return fmt.Errorf("--jobs must be positive (got %d)", g.workers)
	}

	g.log = logrus.New()
	g.log.SetOutput(stderr)
	level, err := logrus.ParseLevel(g.logLevel)
	if err != nil {
		return err
	}
	g.log.SetLevel(level)
	switch g.logFormat {
	case "text":
		g.log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	case "json":
		g.log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %q", g.logFormat)
	}
	return nil
}
