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

// maxContainerDepth is the number of containers that may be opened on one line.
// Deeper container starts are treated as content.
const maxContainerDepth = 10

// RequeueLineInfo tells the driver to parse lines again
// after the parser has been rolled back.
type RequeueLineInfo struct {
	// LinesToRequeue are the lines to parse next, in order.
	LinesToRequeue []string
	// ForceIgnoreFirstAsLRD prevents the first requeued line
	// from starting a link reference definition.
	ForceIgnoreFirstAsLRD bool
	// ContinueParagraph makes the first requeued line continue
	// the paragraph whose leading link reference definitions
	// were emitted before it.
	ContinueParagraph bool
}

// BlockQuoteData tracks block quote nesting for the current line.
type BlockQuoteData struct {
	// CurrentCount is the number of block quote markers
	// matched or opened on the current line.
	CurrentCount int
	// StackCount is the number of block quotes open on the stack.
	StackCount int
}

// ContainerIndices records the byte offset in the line
// where each kind of container starts at the cursor, or -1.
type ContainerIndices struct {
	BlockQuote    int
	UnorderedList int
	OrderedList   int
}

// containerGrabBag is the scratch state for parsing a single line.
// It is discarded at the end of the line.
type containerGrabBag struct {
	state        *ParserState
	cursor       *lineCursor
	lineNumber   int
	originalLine string

	// containerDepth is the number of containers opened on this line.
	containerDepth int
	// lastMatched is the stack index of the innermost container
	// that was continued or opened on this line.
	lastMatched int
	// allMatched is true if every open container was continued
	// or a new container was opened.
	allMatched       bool
	startedContainer bool
	lazy             bool

	blockQuoteData   BlockQuoteData
	containerIndices ContainerIndices

	forceIgnoreFirstAsLRD bool
	// continueParagraph is true if the line continues a paragraph
	// that has been reduced to link reference definitions.
	continueParagraph bool
	// removedText is the text consumed by containers opened on this line.
	removedText string
}

func newContainerGrabBag(state *ParserState, line string, lineNumber int) *containerGrabBag {
	return &containerGrabBag{
		state:        state,
		cursor:       newLineCursor(line),
		lineNumber:   lineNumber,
		originalLine: line,
		allMatched:   true,
	}
}

func (gb *containerGrabBag) logger() logrus.FieldLogger {
	return gb.state.log.WithFields(logrus.Fields{
		"line":  gb.lineNumber,
		"depth": gb.containerDepth,
	})
}

// updateBlockQuoteCounts recomputes the block quote counts from the stack.
func (gb *containerGrabBag) updateBlockQuoteCounts() {
	st := gb.state
	gb.blockQuoteData = BlockQuoteData{StackCount: st.countStack(isBlockQuoteStack)}
	for i := 1; i <= gb.lastMatched && i < len(st.stack); i++ {
		if st.stack[i].kind == blockQuoteStack {
			gb.blockQuoteData.CurrentCount++
		}
	}
}

// reduceContainersIfRequired closes one block quote
// if the line has block quote markers but fewer than are open
// and the innermost open container is an unmatched block quote.
// Lines without any markers close their quotes through closeOpenBlocks.
// The closed quote's end token records the quote's last leading-space entry.
func (gb *containerGrabBag) reduceContainersIfRequired() (rq *RequeueLineInfo, closed bool) {
	st := gb.state
	bq := &gb.blockQuoteData
	if bq.CurrentCount == 0 || bq.CurrentCount >= bq.StackCount {
		return nil, false
	}
	inner := st.innermostContainer()
	if inner <= gb.lastMatched || st.stack[inner].kind != blockQuoteStack {
		return nil, false
	}
	if rq := st.closeOpenBlocks(gb, inner, true); rq != nil {
		return rq, false
	}
	st.closeTop(true, st.top().token.lastLeadingSpace())
	bq.StackCount--
	return nil, true
}

// ensureStackAtLevel opens or closes block quotes
// until count block quotes are open.
// Opening consumes one block quote marker from the line for each quote.
func (gb *containerGrabBag) ensureStackAtLevel(count int) *RequeueLineInfo {
	st := gb.state
	for gb.blockQuoteData.StackCount > count {
		rq, closed := gb.reduceContainersIfRequired()
		if rq != nil {
			return rq
		}
		if !closed {
			break
		}
	}
	for gb.blockQuoteData.StackCount < count {
		start := gb.cursor.literalIndex()
		literal, ok := consumeBlockQuoteMarker(gb.cursor)
		if !ok {
			panic(internalErrorf(gb.lineNumber, "no block quote marker at %d", start))
		}
		tok := &Token{
			Kind:   BlockQuoteToken,
			Line:   gb.lineNumber,
			Column: start + strings.IndexByte(literal, '>') + 1,
		}
		tok.addLeadingSpace(literal)
		st.push(stackToken{kind: blockQuoteStack, token: tok})
		gb.lastMatched = len(st.stack) - 1
		gb.blockQuoteData.StackCount++
		gb.blockQuoteData.CurrentCount++
		gb.containerDepth++
		gb.removedText += literal
	}
	return nil
}

// isLazyContinuation reports whether the line continues a paragraph
// whose containers were not all matched.
func (gb *containerGrabBag) isLazyContinuation() bool {
	if gb.allMatched || gb.startedContainer {
		return false
	}
	if !gb.inParagraph() || gb.cursor.isBlank() {
		return false
	}
	return !interruptsParagraph(newLeafInput(gb))
}

// inParagraph reports whether the line follows paragraph text.
func (gb *containerGrabBag) inParagraph() bool {
	return gb.continueParagraph || gb.state.top().kind.isParagraphLike()
}

// markLazyContinuation records an empty leading-space entry
// for every container that the lazy line did not match.
func (gb *containerGrabBag) markLazyContinuation() {
	st := gb.state
	inner := st.innermostContainer()
	for i := gb.lastMatched + 1; i <= inner; i++ {
		if st.stack[i].kind.isContainer() {
			st.stack[i].token.addLeadingSpace("")
		}
	}
	gb.lazy = true
	gb.logger().Debug("Lazy continuation line")
}
