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

	"github.com/sirupsen/logrus"
)

// listStart is a [list marker] found at the start of a line.
//
// [list marker]: https://spec.commonmark.org/0.30/#list-marker
type listStart struct {
	ordered bool
	// marker is the bullet character or ordered list delimiter.
	marker byte
	start  int
	// indent is the number of columns before the marker.
	indent      int
	markerWidth int
	// contentWidth is the number of columns between the marker and the content.
	contentWidth int
	// blank is true if nothing follows the marker.
	blank bool
}

// width returns the number of columns a continuation line
// must be indented to belong to the item.
func (ls listStart) width() int {
	return ls.indent + ls.markerWidth + ls.contentWidth
}

// parseListStart attempts to parse a list item start
// from a detabified line remainder.
func parseListStart(line string) (listStart, bool) {
	trimmed := strings.TrimLeft(line, " ")
	ls := listStart{indent: len(line) - len(trimmed)}
	if ls.indent >= codeBlockIndentLimit || trimmed == "" {
		return listStart{}, false
	}
	switch c := trimmed[0]; {
	case c == '-' || c == '+' || c == '*':
		ls.marker = c
		ls.markerWidth = 1
	case isASCIIDigit(c):
		n := 0
		for n < len(trimmed) && isASCIIDigit(trimmed[n]) {
			ls.start = ls.start*10 + int(trimmed[n]-'0')
			n++
		}
		if n > 9 || n >= len(trimmed) || (trimmed[n] != '.' && trimmed[n] != ')') {
			return listStart{}, false
		}
		ls.ordered = true
		ls.marker = trimmed[n]
		ls.markerWidth = n + 1
	default:
		return listStart{}, false
	}

	after := trimmed[ls.markerWidth:]
	switch {
	case isBlankLine(after):
		ls.blank = true
		ls.contentWidth = 1
	case after[0] != ' ':
		return listStart{}, false
	default:
		spaces := len(after) - len(strings.TrimLeft(after, " "))
		if spaces > codeBlockIndentLimit {
			ls.contentWidth = 1
		} else {
			ls.contentWidth = spaces
		}
	}
	return ls, true
}

// detectListStart returns the list item that starts at the cursor, if any.
// Thematic breaks take priority over bullet list items.
// When the item would interrupt a paragraph,
// it must not be blank and an ordered item must start at 1.
func (gb *containerGrabBag) detectListStart() (listStart, bool) {
	line := gb.cursor.detabRest()
	ls, ok := parseListStart(line)
	if !ok {
		return listStart{}, false
	}
	if !ls.ordered && parseThematicBreak(line[ls.indent:]) >= 0 {
		return listStart{}, false
	}
	if gb.interruptingParagraph() && (ls.blank || ls.ordered && ls.start != 1) {
		return listStart{}, false
	}
	return ls, true
}

// interruptingParagraph reports whether a block starting at the cursor
// would interrupt an open paragraph.
func (gb *containerGrabBag) interruptingParagraph() bool {
	return gb.allMatched && !gb.startedContainer && gb.inParagraph()
}

// continueListItem attempts to match the current item of an open list.
// Blank lines continue an item that has content.
// Other lines must be indented at least as far as the item's content.
func (gb *containerGrabBag) continueListItem(entry *stackToken) bool {
	c := gb.cursor
	if c.isBlank() {
		if entry.hasContent {
			literal, _ := c.consumeIndent(min(c.indent(), entry.width))
			entry.token.addLeadingSpace(literal)
			return true
		}
		return gb.closeEmptyListItem(entry)
	}
	if entry.itemClosed || c.indent() < entry.width {
		return false
	}
	literal, _ := c.consumeIndent(entry.width)
	entry.token.addLeadingSpace(literal)
	return true
}

// handleListStart opens a new list or adds an item to an open list.
func (gb *containerGrabBag) handleListStart(ls listStart) *RequeueLineInfo {
	st := gb.state
	kind := listStackKind(ls.ordered)
	first := gb.lastMatched + 1
	sibling := first < len(st.stack) && st.stack[first].kind == kind && st.stack[first].marker == ls.marker
	until := gb.lastMatched
	if sibling {
		until = first
	}
	if rq := st.closeOpenBlocks(gb, until, true); rq != nil {
		return rq
	}

	c := gb.cursor
	start := c.literalIndex()
	ws, _ := c.consumeIndent(ls.indent)
	markerIndex := c.literalIndex()
	c.consumeBytesFromRest(ls.markerWidth)
	if !ls.blank {
		c.consumeIndent(ls.contentWidth)
	}
	literal := c.line[start:c.literalIndex()]
	indentLevel := c.column()
	if ls.blank {
		indentLevel++
	}

	tok := &Token{
		Line:                gb.lineNumber,
		Column:              markerIndex + 1,
		ExtractedWhitespace: ws,
		ListMarker:          ls.marker,
		ListStart:           ls.start,
		IndentLevel:         indentLevel,
	}
	if sibling {
		tok.Kind = NewListItemToken
		entry := &st.stack[first]
		entry.token.addLeadingSpace(literal)
		entry.width = ls.width()
		entry.hasContent = false
		entry.itemClosed = false
		st.addToken(tok)
		gb.lastMatched = first
	} else {
		tok.Kind = UnorderedListToken
		if ls.ordered {
			tok.Kind = OrderedListToken
		}
		tok.addLeadingSpace(literal)
		st.push(stackToken{
			kind:   kind,
			token:  tok,
			marker: ls.marker,
			width:  ls.width(),
		})
		gb.lastMatched = len(st.stack) - 1
	}
	gb.logger().WithFields(logrus.Fields{
		"kind":    kind.String(),
		"sibling": sibling,
		"width":   ls.width(),
	}).Debug("Starting list item")
	gb.containerDepth++
	gb.removedText += literal
	gb.startedContainer = true
	gb.allMatched = true
	gb.updateBlockQuoteCounts()
	return nil
}
