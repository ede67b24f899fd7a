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

package mdparse

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// TestContainersMatchGoldmark checks that the container nesting
// agrees with an independent CommonMark implementation.
func TestContainersMatchGoldmark(t *testing.T) {
	tests := []string{
		"> a",
		"- a\n- b",
		"1. a\n2. b",
		"> - a\n>   - b",
		"- > a",
		"* a\n\n- b",
		"1. a\n1) b",
		"- a\n  > b",
		"> a\nb\n> c",
		"> a\n\n> b",
		"- a\n\n\n- b",
		"-\n\n  foo",
		"1. > + list\n   >   item",
		"> - > a",
		"- a\n - b\n  - c",
		"- - - -",
		"a\n- b",
		"a\n2. b",
	}
	md := goldmark.New()
	for _, input := range tests {
		tokens, _ := Parse([]byte(input))
		got := tokenContainerOutline(tokens)
		doc := md.Parser().Parse(text.NewReader([]byte(input)))
		want := goldmarkContainerOutline(doc)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("containers for %q (-goldmark +mdparse):\n%s", input, diff)
		}
	}
}

func tokenContainerOutline(tokens []*Token) []string {
	var outline []string
	depth := 0
	Walk(tokens, &WalkOptions{
		Pre: func(c *Cursor) bool {
			var name string
			switch c.Token().Kind {
			case BlockQuoteToken:
				name = "quote"
			case UnorderedListToken:
				name = "bullets"
			case OrderedListToken:
				name = "ordered"
			default:
				return true
			}
			outline = append(outline, strings.Repeat(".", depth)+name)
			depth++
			return true
		},
		Post: func(c *Cursor) bool {
			if c.Token().Kind.IsContainer() {
				depth--
			}
			return true
		},
	})
	return outline
}

func goldmarkContainerOutline(doc ast.Node) []string {
	var outline []string
	depth := 0
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		var name string
		switch n := n.(type) {
		case *ast.Blockquote:
			name = "quote"
		case *ast.List:
			name = "bullets"
			if n.IsOrdered() {
				name = "ordered"
			}
		default:
			return ast.WalkContinue, nil
		}
		if entering {
			outline = append(outline, strings.Repeat(".", depth)+name)
			depth++
		} else {
			depth--
		}
		return ast.WalkContinue, nil
	})
	return outline
}
