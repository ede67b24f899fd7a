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
	"testing"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestCalculateLength(t *testing.T) {
	tests := []struct {
		s           string
		startColumn int
		want        int
	}{
		{"", 0, 0},
		{"abc", 0, 3},
		{"\t", 0, 4},
		{"\t", 1, 3},
		{"a\tb", 0, 5},
		{"  \t", 2, 6},
	}
	for _, test := range tests {
		if got := calculateLength(test.s, test.startColumn); got != test.want {
			t.Errorf("calculateLength(%q, %d) = %d; want %d", test.s, test.startColumn, got, test.want)
		}
	}
}

func TestDetabifyString(t *testing.T) {
	tests := []struct {
		s           string
		startColumn int
		want        string
	}{
		{"foo", 0, "foo"},
		{"\tfoo", 0, "    foo"},
		{"a\tb", 0, "a   b"},
		{" \t", 2, "  "},
		{"\t\t", 3, "     "},
		{"\torig", 0, "    orig"},
		{"\torig", 2, "  orig"},
	}
	for _, test := range tests {
		if got := detabifyString(test.s, test.startColumn); got != test.want {
			t.Errorf("detabifyString(%q, %d) = %q; want %q", test.s, test.startColumn, got, test.want)
		}
	}
}

func TestFindDetabifyString(t *testing.T) {
	tests := []struct {
		original    string
		detabified  string
		startColumn int
		wantStart   int
		wantEnd     int
	}{
		{"foo", "foo", 0, 0, 3},
		{"  \tfoo", "foo", 0, 3, 6},
		{"\tfoo", "  foo", 2, 0, 4},
		{"abc", "x", 0, -1, -1},
		{"\tfoo", "  foo", 0, -1, -1},
	}
	for _, test := range tests {
		start, end := findDetabifyString(test.original, test.detabified, test.startColumn)
		if start != test.wantStart || end != test.wantEnd {
			t.Errorf("findDetabifyString(%q, %q, %d) = %d, %d; want %d, %d",
				test.original, test.detabified, test.startColumn, start, end, test.wantStart, test.wantEnd)
		}
	}
}

func FuzzDetabifyString(f *testing.F) {
	f.Add("\tfoo", 0)
	f.Add("\torig", 2)
	f.Add(" \t\tx\ty", 3)
	f.Add("a\t\t", 1)
	f.Add("- \tfoo\t", 5)
	f.Add("\u00e9\tb", 0)
	f.Fuzz(func(t *testing.T, s string, startColumn int) {
		if !utf8.ValidString(s) {
			t.Skip("invalid UTF-8")
		}
		col := int(uint(startColumn) % 64)
		detab := detabifyString(s, col)
		if again := detabifyString(detab, col); again != detab {
			t.Errorf("detabifyString(detabifyString(%q, %d), %d) = %q; want %q", s, col, col, again, detab)
		}
		if got, want := utf8.RuneCountInString(detab), calculateLength(s, col); got != want {
			t.Errorf("detabifyString(%q, %d) has %d columns; calculateLength = %d", s, col, got, want)
		}

		// Every suffix of s can be found again from its detabified form,
		// and the found range detabifies to the same text.
		for i := range s + "x" {
			suffixCol := col + calculateLength(s[:i], col)
			want := detabifyString(s[i:], suffixCol)
			start, end := findDetabifyString(s, want, col)
			if start < 0 {
				t.Errorf("findDetabifyString(%q, %q, %d) = -1; want a match", s, want, col)
				continue
			}
			foundCol := col + calculateLength(s[:start], col)
			if got := detabifyString(s[start:end], foundCol); got != want {
				t.Errorf("findDetabifyString(%q, %q, %d) = %d, %d; range detabifies to %q",
					s, want, col, start, end, got)
			}
		}
	})
}

func TestMatchTabbedWhitespace(t *testing.T) {
	tests := []struct {
		ws            string
		startColumn   int
		width         int
		wantIndex     int
		wantSplit     bool
		wantRemainder int
	}{
		{"  ", 0, 2, 2, false, 0},
		{" ", 0, 2, -1, false, 0},
		{"\t", 0, 2, 1, true, 2},
		{"\t", 1, 3, 1, false, 0},
		{" \t", 0, 4, 2, false, 0},
		{"", 0, 0, 0, false, 0},
	}
	for _, test := range tests {
		index, split, remainder := matchTabbedWhitespace(test.ws, test.startColumn, test.width)
		if index != test.wantIndex || split != test.wantSplit || remainder != test.wantRemainder {
			t.Errorf("matchTabbedWhitespace(%q, %d, %d) = %d, %t, %d; want %d, %t, %d",
				test.ws, test.startColumn, test.width, index, split, remainder,
				test.wantIndex, test.wantSplit, test.wantRemainder)
		}
	}
}

func TestLineCursorSplitTab(t *testing.T) {
	c := newLineCursor(">\tfoo")
	if got := c.consumeBytesFromRest(1); got != ">" {
		t.Errorf("consumeBytesFromRest(1) = %q; want %q", got, ">")
	}
	literal, split := c.consumeIndent(1)
	if literal != "\t" || !split {
		t.Errorf("consumeIndent(1) = %q, %t; want %q, true", literal, split, "\t")
	}

	type cursorState struct {
		LiteralIndex int
		Column       int
		Virtual      int
		Rest         string
		DetabRest    string
		Indent       int
	}
	got := cursorState{
		LiteralIndex: c.literalIndex(),
		Column:       c.column(),
		Virtual:      c.virtual(),
		Rest:         c.rest(),
		DetabRest:    c.detabRest(),
		Indent:       c.indent(),
	}
	want := cursorState{
		LiteralIndex: 2,
		Column:       2,
		Virtual:      2,
		Rest:         "foo",
		DetabRest:    "  foo",
		Indent:       2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("after split (-want +got):\n%s", diff)
	}
	if got := c.peek(); got != ' ' {
		t.Errorf("peek() = %q; want ' '", got)
	}

	// The rest of the tab is not attributed to anyone.
	literal, split = c.consumeIndent(2)
	if literal != "" || split {
		t.Errorf("consumeIndent(2) = %q, %t; want \"\", false", literal, split)
	}
	if got, want := c.column(), 4; got != want {
		t.Errorf("column() = %d; want %d", got, want)
	}
	if got, want := c.rest(), "foo"; got != want {
		t.Errorf("rest() = %q; want %q", got, want)
	}
}
