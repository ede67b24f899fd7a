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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"zombiezen.com/go/mdparse"
)

// stdinName is the input name that reads from standard input.
const stdinName = "-"

// document is a parsed input file.
type document struct {
	name   string
	source []byte
	tokens []*mdparse.Token
	refs   mdparse.ReferenceMap
}

// inputNames returns the files to process:
// the command line arguments if any,
// then the configuration's include patterns,
// then standard input.
func (g *globalOptions) inputNames(args []string) ([]string, error) {
	if len(args) > 0 {
		n := 0
		for _, arg := range args {
			if arg == stdinName {
				n++
			}
		}
		if n > 1 {
			return nil, errors.New("standard input named more than once")
		}
		return args, nil
	}
	var names []string
	for _, pattern := range g.cfg.Include {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("include %q: %w", pattern, err)
		}
		names = append(names, matches...)
	}
	if len(g.cfg.Include) > 0 && len(names) == 0 {
		return nil, errors.New("include patterns matched no files")
	}
	if len(names) == 0 {
		names = []string{stdinName}
	}
	return names, nil
}

// parseAll reads and parses the named inputs concurrently.
// The returned documents are in the same order as names.
func parseAll(ctx context.Context, g *globalOptions, stdin io.Reader, names []string) ([]*document, error) {
	docs := make([]*document, len(names))
	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(g.workers)
	for i, name := range names {
		i, name := i, name
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := parseFile(g.log, stdin, name)
			if err != nil {
				return err
			}
			docs[i] = doc
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}

func parseFile(log logrus.FieldLogger, stdin io.Reader, name string) (*document, error) {
	var source []byte
	var err error
	if name == stdinName {
		source, err = io.ReadAll(stdin)
	} else {
		source, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	fileLog := log.WithField("file", name)
	p := mdparse.NewParser(bytes.NewReader(source))
	p.Logger = fileLog
	tokens, refs, err := p.Parse()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	fileLog.WithFields(logrus.Fields{
		"tokens":     len(tokens),
		"references": len(refs),
	}).Debug("Parsed file")
	return &document{
		name:   name,
		source: source,
		tokens: tokens,
		refs:   refs,
	}, nil
}
