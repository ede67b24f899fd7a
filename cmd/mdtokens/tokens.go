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
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"zombiezen.com/go/mdparse"
)

type tokensOptions struct {
	output     string
	references bool
}

func newTokensCommand(g *globalOptions) *cobra.Command {
	opts := &tokensOptions{output: "text"}
	c := &cobra.Command{
		Use:   "tokens [FILE [...]]",
		Short: "Print the block tokens of each file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTokens(cmd, g, opts, args)
		},
	}
	c.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output `format`: text or yaml")
	c.Flags().BoolVar(&opts.references, "refs", false, "also print link reference definitions")
	return c
}

func runTokens(cmd *cobra.Command, g *globalOptions, opts *tokensOptions, args []string) error {
	if opts.output != "text" && opts.output != "yaml" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}
	names, err := g.inputNames(args)
	if err != nil {
		return err
	}
	docs, err := parseAll(cmd.Context(), g, cmd.InOrStdin(), names)
	if err != nil {
		return err
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	if opts.output == "yaml" {
		err = writeTokensYAML(out, docs, opts.references)
	} else {
		writeTokensText(out, docs, opts.references)
	}
	if err != nil {
		return err
	}
	return out.Flush()
}

func writeTokensText(w io.Writer, docs []*document, references bool) {
	for i, doc := range docs {
		if len(docs) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "==> %s <==\n", doc.name)
		}
		for _, tok := range doc.tokens {
			fmt.Fprintln(w, tok)
		}
		if !references {
			continue
		}
		for _, label := range sortedLabels(doc.refs) {
			def := doc.refs[label]
			if def.TitlePresent {
				fmt.Fprintf(w, "ref %q -> %q %q (line %d)\n", label, def.Destination, def.Title, def.Line)
			} else {
				fmt.Fprintf(w, "ref %q -> %q (line %d)\n", label, def.Destination, def.Line)
			}
		}
	}
}

type yamlDocument struct {
	File       string                   `yaml:"file"`
	Tokens     []string                 `yaml:"tokens"`
	References map[string]yamlReference `yaml:"references,omitempty"`
}

type yamlReference struct {
	Destination string  `yaml:"destination"`
	Title       *string `yaml:"title,omitempty"`
	Line        int     `yaml:"line"`
}

func writeTokensYAML(w io.Writer, docs []*document, references bool) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	for _, doc := range docs {
		yd := &yamlDocument{
			File:   doc.name,
			Tokens: mdparse.FormatTokens(doc.tokens),
		}
		if references && len(doc.refs) > 0 {
			yd.References = make(map[string]yamlReference, len(doc.refs))
			for label, def := range doc.refs {
				ref := yamlReference{
					Destination: def.Destination,
					Line:        def.Line,
				}
				if def.TitlePresent {
					title := def.Title
					ref.Title = &title
				}
				yd.References[label] = ref
			}
		}
		if err := enc.Encode(yd); err != nil {
			return fmt.Errorf("%s: %w", doc.name, err)
		}
	}
	return enc.Close()
}

func sortedLabels(refs mdparse.ReferenceMap) []string {
	labels := make([]string, 0, len(refs))
	for label := range refs {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}
