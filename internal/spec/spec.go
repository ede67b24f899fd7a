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

// Package spec provides access to block parsing test cases
// stored as [txtar] archives.
//
// Each archive holds cases as pairs of files:
// NAME.md is the Markdown input
// and NAME.tokens is the expected token stream, one token per line.
// The final line ending of each input is not part of the case.
//
// [txtar]: https://pkg.go.dev/golang.org/x/tools/txtar
package spec

import (
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"golang.org/x/tools/txtar"
)

// Example is a single test case.
type Example struct {
	Name     string
	Section  string
	Markdown string
	Tokens   []string
}

//go:embed testdata/*.txtar
var testdata embed.FS

// Load returns the test cases from every archive, sorted by section and name.
func Load() ([]Example, error) {
	names, err := testdata.ReadDir("testdata")
	if err != nil {
		return nil, err
	}
	var examples []Example
	for _, ent := range names {
		data, err := testdata.ReadFile(path.Join("testdata", ent.Name()))
		if err != nil {
			return nil, err
		}
		section := strings.TrimSuffix(ent.Name(), ".txtar")
		ex, err := parseArchive(section, txtar.Parse(data))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", ent.Name(), err)
		}
		examples = append(examples, ex...)
	}
	sort.Slice(examples, func(i, j int) bool {
		if examples[i].Section != examples[j].Section {
			return examples[i].Section < examples[j].Section
		}
		return examples[i].Name < examples[j].Name
	})
	return examples, nil
}

func parseArchive(section string, archive *txtar.Archive) ([]Example, error) {
	inputs := make(map[string]string)
	outputs := make(map[string][]string)
	for _, f := range archive.Files {
		switch ext := path.Ext(f.Name); ext {
		case ".md":
			inputs[strings.TrimSuffix(f.Name, ext)] = strings.TrimSuffix(string(f.Data), "\n")
		case ".tokens":
			outputs[strings.TrimSuffix(f.Name, ext)] = strings.Split(strings.TrimSuffix(string(f.Data), "\n"), "\n")
		default:
			return nil, fmt.Errorf("unknown file %s", f.Name)
		}
	}
	var examples []Example
	for name, md := range inputs {
		tokens, ok := outputs[name]
		if !ok {
			return nil, fmt.Errorf("%s: missing tokens", name)
		}
		examples = append(examples, Example{
			Name:     name,
			Section:  section,
			Markdown: md,
			Tokens:   tokens,
		})
	}
	if len(examples) != len(outputs) {
		return nil, fmt.Errorf("found %d token files for %d inputs", len(outputs), len(examples))
	}
	return examples, nil
}
