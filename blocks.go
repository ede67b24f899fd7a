// Copyright 2023 Ross Light
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

import "strings"

// codeBlockIndentLimit is the column width of an indent
// required to start an indented code block.
const codeBlockIndentLimit = 4

// parseThematicBreak attempts to parse the line as a [thematic break].
// It returns the end of the thematic break characters
// or -1 if the line is not a thematic break.
// parseThematicBreak assumes that the caller has stripped any leading indentation.
//
// [thematic break]: https://spec.commonmark.org/0.30/#thematic-breaks
func parseThematicBreak(line string) (end int) {
	n := 0
	var want byte
	for i := 0; i < len(line); i++ {
		switch b := line[i]; b {
		case '-', '_', '*':
			if n == 0 {
				want = b
			} else if b != want {
				return -1
			}
			n++
			end = i + 1
		case ' ', '\t':
			// Ignore
		default:
			return -1
		}
	}
	if n < 3 {
		return -1
	}
	return end
}

type atxHeading struct {
	level        int // 1-6
	contentStart int
	contentEnd   int
}

// parseATXHeading attempts to parse the line as an [ATX heading].
// The level is zero if the line is not an ATX heading.
// parseATXHeading assumes that the caller has stripped any leading indentation.
//
// [ATX heading]: https://spec.commonmark.org/0.30/#atx-headings
func parseATXHeading(line string) atxHeading {
	var h atxHeading
	for h.level < len(line) && line[h.level] == '#' {
		h.level++
	}
	if h.level == 0 || h.level > 6 {
		return atxHeading{}
	}

	i := h.level
	if i >= len(line) {
		h.contentStart = i
		h.contentEnd = i
		return h
	}
	if !isSpaceOrTab(line[i]) {
		return atxHeading{}
	}
	for i < len(line) && isSpaceOrTab(line[i]) {
		i++
	}
	h.contentStart = i

	// Trim trailing whitespace, then an optional closing sequence
	// that must be preceded by whitespace.
	h.contentEnd = len(strings.TrimRight(line, " \t"))
	if h.contentEnd < h.contentStart {
		h.contentEnd = h.contentStart
		return h
	}
	j := h.contentEnd
	for j > h.contentStart && line[j-1] == '#' {
		j--
	}
	switch {
	case j == h.contentEnd:
	case j == h.contentStart:
		h.contentEnd = h.contentStart
	case isSpaceOrTab(line[j-1]):
		h.contentEnd = len(strings.TrimRight(line[:j], " \t"))
	}
	return h
}

type codeFence struct {
	char   byte
	length int
	info   string
}

// parseCodeFence attempts to parse a [code fence] at the start of the line.
// The length is zero if the line does not start a fenced code block.
// parseCodeFence assumes that the caller has stripped any leading indentation.
//
// [code fence]: https://spec.commonmark.org/0.30/#code-fence
func parseCodeFence(line string) codeFence {
	if len(line) == 0 || (line[0] != '`' && line[0] != '~') {
		return codeFence{}
	}
	f := codeFence{char: line[0]}
	for f.length < len(line) && line[f.length] == f.char {
		f.length++
	}
	if f.length < 3 {
		return codeFence{}
	}
	f.info = strings.Trim(line[f.length:], " \t")
	if f.char == '`' && strings.IndexByte(f.info, '`') >= 0 {
		return codeFence{}
	}
	return f
}

// isClosingCodeFence reports whether line closes a fenced code block
// opened with the given fence.
// isClosingCodeFence assumes that the caller has stripped any leading indentation.
func isClosingCodeFence(line string, char byte, length int) bool {
	n := 0
	for n < len(line) && line[n] == char {
		n++
	}
	return n >= length && isBlankLine(line[n:])
}

// parseSetextUnderline returns the heading level of a [setext heading underline]
// or zero if the line is not an underline.
// parseSetextUnderline assumes that the caller has stripped any leading indentation.
//
// [setext heading underline]: https://spec.commonmark.org/0.30/#setext-heading-underline
func parseSetextUnderline(line string) int {
	if len(line) == 0 || (line[0] != '=' && line[0] != '-') {
		return 0
	}
	c := line[0]
	n := 0
	for n < len(line) && line[n] == c {
		n++
	}
	if !isBlankLine(line[n:]) {
		return 0
	}
	if c == '=' {
		return 1
	}
	return 2
}

// isBlankLine reports whether line contains only spaces and tabs.
func isBlankLine(line string) bool {
	return strings.Trim(line, " \t") == ""
}
