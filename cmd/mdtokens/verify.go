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
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"zombiezen.com/go/mdparse/format"
)

func newVerifyCommand(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "verify [FILE [...]]",
		Short: "Check that each file can be reconstructed from its tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, g, args)
		},
	}
}

func runVerify(cmd *cobra.Command, g *globalOptions, args []string) error {
	names, err := g.inputNames(args)
	if err != nil {
		return err
	}
	docs, err := parseAll(cmd.Context(), g, cmd.InOrStdin(), names)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	failed := 0
	for _, doc := range docs {
		want := normalizeSource(doc.source)
		got := format.Rehydrate(doc.tokens)
		line, wantLine, gotLine, ok := firstDifference(want, got)
		if ok {
			fmt.Fprintf(out, "%s: ok\n", doc.name)
			continue
		}
		failed++
		g.log.WithFields(logrus.Fields{
			"file": doc.name,
			"line": line,
		}).Info("Reconstruction differs")
		fmt.Fprintf(out, "%s:%d: source %q, reconstructed %q\n", doc.name, line, wantLine, gotLine)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be reconstructed", failed, len(docs))
	}
	return nil
}

// normalizeSource applies the parser's input normalization:
// line endings become "\n" and NUL becomes U+FFFD.
func normalizeSource(source []byte) string {
	s := strings.ReplaceAll(string(source), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\x00", "\ufffd")
}

// firstDifference compares want and got line by line.
// If they differ, it returns the 1-based number of the first differing line
// and the text of that line in each.
func firstDifference(want, got string) (line int, wantLine, gotLine string, same bool) {
	if want == got {
		return 0, "", "", true
	}
	wantLines := strings.Split(want, "\n")
	gotLines := strings.Split(got, "\n")
	for i := 0; ; i++ {
		var w, g string
		if i < len(wantLines) {
			w = wantLines[i]
		}
		if i < len(gotLines) {
			g = gotLines[i]
		}
		if w != g || i >= len(wantLines) || i >= len(gotLines) {
			return i + 1, w, g, false
		}
	}
}
