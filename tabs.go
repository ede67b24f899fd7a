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
	"unicode/utf8"
)

// tabStopSize is the [tab stop] width.
//
// [tab stop]: https://spec.commonmark.org/0.30/#tabs
const tabStopSize = 4

func tabWidth(column int) int {
	return tabStopSize - column%tabStopSize
}

// calculateLength returns the number of columns s occupies
// when it starts at the given 0-based column.
// Every rune other than a tab occupies one column.
func calculateLength(s string, startColumn int) int {
	col := startColumn
	for _, c := range s {
		if c == '\t' {
			col += tabWidth(col)
		} else {
			col++
		}
	}
	return col - startColumn
}

// detabifyString replaces every tab in s with the spaces
// that reach the next tab stop, given that s starts at startColumn.
func detabifyString(s string, startColumn int) string {
	if strings.IndexByte(s, '\t') < 0 {
		return s
	}
	sb := new(strings.Builder)
	sb.Grow(len(s) + 3*strings.Count(s, "\t"))
	col := startColumn
	for _, c := range s {
		if c == '\t' {
			w := tabWidth(col)
			for i := 0; i < w; i++ {
				sb.WriteByte(' ')
			}
			col += w
			continue
		}
		sb.WriteRune(c)
		col++
	}
	return sb.String()
}

// findDetabifyString locates the substring of original
// whose detabified form (at its own column) equals detabified.
// original begins at startColumn.
// It returns the byte offsets of the substring in original,
// or (-1, -1) if there is no such substring.
func findDetabifyString(original, detabified string, startColumn int) (start, end int) {
	col := startColumn
	for start = 0; start <= len(original); {
		if end, ok := matchDetabifiedPrefix(original[start:], detabified, col); ok {
			return start, start + end
		}
		if start == len(original) {
			break
		}
		c, size := utf8.DecodeRuneInString(original[start:])
		if c == '\t' {
			col += tabWidth(col)
		} else {
			col++
		}
		start += size
	}
	return -1, -1
}

// matchDetabifiedPrefix reports whether a prefix of s,
// detabified at startColumn, equals want.
// A tab may not straddle the end of want.
func matchDetabifiedPrefix(s, want string, startColumn int) (end int, ok bool) {
	col := startColumn
	j := 0
	for i, c := range s {
		if j == len(want) {
			return i, true
		}
		if c != '\t' {
			c2, size := utf8.DecodeRuneInString(want[j:])
			if c2 != c {
				return 0, false
			}
			j += size
			col++
			continue
		}
		w := tabWidth(col)
		if len(want)-j < w || strings.TrimLeft(want[j:j+w], " ") != "" {
			return 0, false
		}
		j += w
		col += w
	}
	if j == len(want) {
		return len(s), true
	}
	return 0, false
}

// matchTabbedWhitespace finds where width columns of the whitespace ws end.
// ws begins at startColumn.
// index is the byte offset just past the character that completes the width.
// If that character is a tab that extends past the width,
// splitTab is true and remainder is the number of the tab's columns
// left over.
// If ws is too narrow, matchTabbedWhitespace returns index -1.
func matchTabbedWhitespace(ws string, startColumn, width int) (index int, splitTab bool, remainder int) {
	if width <= 0 {
		return 0, false, 0
	}
	col := startColumn
	for i := 0; i < len(ws); i++ {
		w := 1
		switch ws[i] {
		case ' ':
		case '\t':
			w = tabWidth(col)
		default:
			return -1, false, 0
		}
		col += w
		if got := col - startColumn; got >= width {
			return i + 1, got > width, got - width
		}
	}
	return -1, false, 0
}

// lineCursor is a position in a line that may be in the middle of a tab.
// Containers consume columns from the front of the line,
// so a tab can be partially consumed by one container
// with the rest of its columns seen as spaces by the next.
type lineCursor struct {
	line string
	// i is the byte offset of the next unconsumed character.
	i int
	// col is the 0-based column of line[i].
	col int
	// tabpos is the number of line[i]'s columns already consumed.
	// It is only non-zero when line[i] is a tab.
	tabpos int
}

func newLineCursor(line string) *lineCursor {
	return &lineCursor{line: line}
}

// literalIndex returns the byte offset of the first byte
// not yet attributed to a consumer.
// A partially consumed tab belongs to the consumer that split it.
func (c *lineCursor) literalIndex() int {
	if c.tabpos > 0 {
		return c.i + 1
	}
	return c.i
}

// literalColumn returns the column of line[c.literalIndex()].
func (c *lineCursor) literalColumn() int {
	if c.tabpos > 0 {
		return c.col + tabWidth(c.col)
	}
	return c.col
}

// column returns the column of the cursor,
// including consumed columns of a split tab.
func (c *lineCursor) column() int {
	return c.col + c.tabpos
}

// virtual returns the number of unconsumed columns of a split tab.
func (c *lineCursor) virtual() int {
	if c.tabpos == 0 {
		return 0
	}
	return tabWidth(c.col) - c.tabpos
}

// rest returns the literal text from the cursor to the end of the line,
// excluding any split tab.
func (c *lineCursor) rest() string {
	return c.line[c.literalIndex():]
}

// detabRest returns the remainder of the line with tabs expanded,
// including the unconsumed columns of a split tab.
func (c *lineCursor) detabRest() string {
	rest := detabifyString(c.rest(), c.literalColumn())
	if v := c.virtual(); v > 0 {
		return strings.Repeat(" ", v) + rest
	}
	return rest
}

// isBlank reports whether the remainder of the line is whitespace.
func (c *lineCursor) isBlank() bool {
	return isBlankLine(c.rest())
}

// indent returns the number of whitespace columns at the cursor.
func (c *lineCursor) indent() int {
	rest := c.rest()
	ws := rest[:len(rest)-len(strings.TrimLeft(rest, " \t"))]
	return c.virtual() + calculateLength(ws, c.literalColumn())
}

// peek returns the character at the cursor as it would appear
// after detabifying, or 0 at the end of the line.
func (c *lineCursor) peek() byte {
	if c.virtual() > 0 {
		return ' '
	}
	if c.i >= len(c.line) {
		return 0
	}
	if c.line[c.i] == '\t' {
		return ' '
	}
	return c.line[c.i]
}

// consumeIndent advances the cursor by n columns of whitespace.
// It returns the literal text newly attributed to the caller
// and whether the cursor ended in the middle of a tab.
// consumeIndent panics if there are fewer than n columns of whitespace.
func (c *lineCursor) consumeIndent(n int) (literal string, splitTab bool) {
	start := c.literalIndex()
	if v := c.virtual(); v > 0 {
		if n < v {
			c.tabpos += n
			return "", true
		}
		n -= v
		c.col += tabWidth(c.col)
		c.i++
		c.tabpos = 0
	}
	if n == 0 {
		return c.line[start:c.literalIndex()], false
	}
	rest := c.line[c.i:]
	ws := rest[:len(rest)-len(strings.TrimLeft(rest, " \t"))]
	idx, split, remainder := matchTabbedWhitespace(ws, c.col, n)
	if idx < 0 {
		panic(internalErrorf(0, "consume %d columns of indent from %q", n, rest))
	}
	if split {
		tabCol := c.col + calculateLength(ws[:idx-1], c.col)
		c.i += idx - 1
		c.col = tabCol
		c.tabpos = tabWidth(tabCol) - remainder
	} else {
		c.col += calculateLength(ws[:idx], c.col)
		c.i += idx
	}
	return c.line[start:c.literalIndex()], split
}

// consumeAllIndent advances the cursor past all whitespace.
func (c *lineCursor) consumeAllIndent() string {
	return c.consumeBytesFromRest(len(c.rest()) - len(strings.TrimLeft(c.rest(), " \t")))
}

// consumeBytesFromRest advances the cursor by n literal bytes.
// A split tab at the cursor is finished first without being attributed
// to the caller.
func (c *lineCursor) consumeBytesFromRest(n int) string {
	if c.tabpos > 0 {
		c.col += tabWidth(c.col)
		c.i++
		c.tabpos = 0
	}
	s := c.line[c.i : c.i+n]
	c.col += calculateLength(s, c.col)
	c.i += n
	return s
}
