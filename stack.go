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

import "strconv"

// stackKind is the kind of an entry on the parser's block stack.
type stackKind uint8

const (
	documentStack stackKind = iota
	blockQuoteStack
	unorderedListStack
	orderedListStack
	paragraphStack
	indentedCodeBlockStack
	fencedCodeBlockStack
	htmlBlockStack
	linkDefinitionStack
)

func (k stackKind) String() string {
	switch k {
	case documentStack:
		return "document"
	case blockQuoteStack:
		return "block-quote"
	case unorderedListStack:
		return "ulist"
	case orderedListStack:
		return "olist"
	case paragraphStack:
		return "para"
	case indentedCodeBlockStack:
		return "icode-block"
	case fencedCodeBlockStack:
		return "fcode-block"
	case htmlBlockStack:
		return "html-block"
	case linkDefinitionStack:
		return "link-ref-def"
	default:
		return "stackKind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k stackKind) isContainer() bool {
	return k == blockQuoteStack || k == unorderedListStack || k == orderedListStack
}

func (k stackKind) isList() bool {
	return k == unorderedListStack || k == orderedListStack
}

// isParagraphLike reports whether lines may lazily continue
// an open element of the kind.
func (k stackKind) isParagraphLike() bool {
	return k == paragraphStack || k == linkDefinitionStack
}

// stackToken is an open element on the parser's block stack.
// The document is always at the bottom of the stack.
type stackToken struct {
	kind stackKind
	// token is the element's start token. It is nil for the document.
	token *Token
	// text is the open text token of a leaf block.
	text *Token

	// List items.
	// marker is the bullet character or ordered list delimiter.
	marker byte
	// width is the number of columns a continuation line must have
	// at the cursor, after the enclosing containers' prefixes are consumed.
	// continueListItem consumes that many columns.
	width int
	// hasContent is false while the current item has only had blank lines.
	hasContent bool
	// itemClosed is true if the current item ended at a blank line
	// before it had any content.
	itemClosed bool

	// Fenced code blocks.
	fenceChar   byte
	fenceLength int

	// HTML blocks.
	htmlCondition int

	// Indented code blocks: the column of each line's remainder.
	lineColumns []int

	// Link reference definitions in progress.
	// lrdLines holds each buffered line as it appeared in the input,
	// lrdContent holds the text of each line after container prefixes,
	// and lrdSnapshots holds the parser state at the start of each line.
	lrdLines     []string
	lrdContent   []string
	lrdSnapshots []stateSnapshot
}

func (st *stackToken) String() string {
	return st.kind.String()
}

func listStackKind(ordered bool) stackKind {
	if ordered {
		return orderedListStack
	}
	return unorderedListStack
}
