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

import "strings"

// parseLineForContainerBlocks parses one line of input.
// It continues or opens container blocks,
// then hands the rest of the line to the leaf block parser.
// It returns a non-nil value if lines must be parsed again.
// requeued is non-nil if the line is the first of a previous requeue.
func parseLineForContainerBlocks(st *ParserState, line string, lineNumber int, requeued *RequeueLineInfo) *RequeueLineInfo {
	st.lineNumber = lineNumber
	st.lineStart = st.takeSnapshot()

	gb := newContainerGrabBag(st, line, lineNumber)
	if requeued != nil {
		gb.forceIgnoreFirstAsLRD = requeued.ForceIgnoreFirstAsLRD
		gb.continueParagraph = requeued.ContinueParagraph
	}
	gb.matchContainers()
	if !gb.avoidBlockStarts() {
		if rq := gb.detectContainerStarts(); rq != nil {
			return rq
		}
	}
	if rq := gb.resolveUnmatchedContainers(); rq != nil {
		return rq
	}
	if rq := processLeafTokens(gb); rq != nil {
		return rq
	}
	st.markListsHaveContent(gb.cursor.isBlank())
	return nil
}

// matchContainers continues open containers in stack order,
// stopping at the first one the line does not continue.
// Each container consumes its own prefix from the cursor,
// so nested quotes and lists need no special cases here.
func (gb *containerGrabBag) matchContainers() {
	st := gb.state
	for i := 1; i < len(st.stack); i++ {
		entry := &st.stack[i]
		if !entry.kind.isContainer() {
			break
		}
		var ok bool
		switch entry.kind {
		case blockQuoteStack:
			ok = gb.continueBlockQuote(entry)
		case unorderedListStack, orderedListStack:
			ok = gb.continueListItem(entry)
		}
		if !ok {
			gb.allMatched = false
			break
		}
		gb.lastMatched = i
	}
	gb.updateBlockQuoteCounts()
}

// avoidBlockStarts reports whether the line belongs to an open leaf block
// that does not allow container starts,
// like a fenced code block.
func (gb *containerGrabBag) avoidBlockStarts() bool {
	if !gb.allMatched {
		return false
	}
	switch gb.state.top().kind {
	case fencedCodeBlockStack, htmlBlockStack:
		return true
	case indentedCodeBlockStack:
		return gb.cursor.isBlank() || gb.cursor.indent() >= codeBlockIndentLimit
	default:
		return false
	}
}

// detectContainerStarts opens any block quotes or list items
// that start at the cursor.
func (gb *containerGrabBag) detectContainerStarts() *RequeueLineInfo {
	if gb.containerDepth >= maxContainerDepth {
		return nil
	}
	idx, ls := gb.findContainerStarts()
	gb.containerIndices = idx
	switch {
	case idx.BlockQuote >= 0:
		n := countBlockQuoteStarts(gb.cursor, maxContainerDepth-gb.containerDepth)
		if rq := gb.handleBlockQuoteStart(n); rq != nil {
			return rq
		}
	case idx.UnorderedList >= 0 || idx.OrderedList >= 0:
		if rq := gb.handleListStart(ls); rq != nil {
			return rq
		}
	default:
		return nil
	}
	return gb.handleNestedContainerBlocks()
}

// findContainerStarts reports which kind of container starts at the cursor.
// Block quotes take priority over list items.
// If a list item starts, its marker is returned as well.
func (gb *containerGrabBag) findContainerStarts() (ContainerIndices, listStart) {
	idx := ContainerIndices{BlockQuote: -1, UnorderedList: -1, OrderedList: -1}
	c := gb.cursor
	if c.indent() >= codeBlockIndentLimit {
		return idx, listStart{}
	}
	rest := c.rest()
	if countBlockQuoteStarts(c, 1) > 0 {
		idx.BlockQuote = c.literalIndex() + strings.IndexByte(rest, '>')
		return idx, listStart{}
	}
	ls, ok := gb.detectListStart()
	if !ok {
		return idx, listStart{}
	}
	i := c.literalIndex() + len(rest) - len(strings.TrimLeft(rest, " \t"))
	if ls.ordered {
		idx.OrderedList = i
	} else {
		idx.UnorderedList = i
	}
	return idx, ls
}

// resolveUnmatchedContainers decides what happens
// to the containers the line did not continue:
// either the line lazily continues a paragraph inside them,
// or they are closed.
func (gb *containerGrabBag) resolveUnmatchedContainers() *RequeueLineInfo {
	if gb.allMatched {
		return nil
	}
	if gb.isLazyContinuation() {
		gb.markLazyContinuation()
		return nil
	}
	for {
		rq, closed := gb.reduceContainersIfRequired()
		if rq != nil {
			return rq
		}
		if !closed {
			break
		}
	}
	if rq := gb.state.closeOpenBlocks(gb, gb.lastMatched, true); rq != nil {
		return rq
	}
	gb.allMatched = true
	return nil
}
