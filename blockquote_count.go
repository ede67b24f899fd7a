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

import "github.com/sirupsen/logrus"

// consumeBlockQuoteMarker consumes a [block quote marker]
// and the optional space after it.
// It returns the literal text consumed.
// A tab after the marker that is wider than one column
// is split: its first column belongs to the marker.
//
// [block quote marker]: https://spec.commonmark.org/0.30/#block-quote-marker
func consumeBlockQuoteMarker(c *lineCursor) (literal string, ok bool) {
	if c.indent() >= codeBlockIndentLimit {
		return "", false
	}
	save := *c
	start := c.literalIndex()
	c.consumeAllIndent()
	if c.peek() != '>' {
		*c = save
		return "", false
	}
	c.consumeBytesFromRest(1)
	if c.peek() == ' ' {
		c.consumeIndent(1)
	}
	return c.line[start:c.literalIndex()], true
}

// countBlockQuoteStarts returns the number of consecutive block quote markers
// at the cursor, up to limit.
// It does not move the cursor.
func countBlockQuoteStarts(c *lineCursor, limit int) int {
	tmp := *c
	n := 0
	for n < limit {
		if _, ok := consumeBlockQuoteMarker(&tmp); !ok {
			break
		}
		n++
	}
	return n
}

// continueBlockQuote attempts to match an open block quote
// at the start of the line.
func (gb *containerGrabBag) continueBlockQuote(entry *stackToken) bool {
	literal, ok := consumeBlockQuoteMarker(gb.cursor)
	if !ok {
		return false
	}
	entry.token.addLeadingSpace(literal)
	return true
}

// handleBlockQuoteStart opens count new block quotes.
func (gb *containerGrabBag) handleBlockQuoteStart(count int) *RequeueLineInfo {
	st := gb.state
	if rq := st.closeOpenBlocks(gb, gb.lastMatched, true); rq != nil {
		return rq
	}
	gb.updateBlockQuoteCounts()
	gb.logger().WithFields(logrus.Fields{
		"count": count,
		"index": gb.containerIndices.BlockQuote,
	}).Debug("Opening block quotes")
	if rq := gb.ensureStackAtLevel(gb.blockQuoteData.StackCount + count); rq != nil {
		return rq
	}
	gb.startedContainer = true
	gb.allMatched = true
	return nil
}
