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

// ParserState is the state that persists between lines of a parse:
// the stack of open elements, the tokens produced so far,
// and the link reference definitions collected so far.
type ParserState struct {
	stack      []stackToken
	tokens     []*Token
	references ReferenceMap
	log        logrus.FieldLogger

	lineNumber int
	// lineStart is the state at the start of the current line,
	// used to roll back a link reference definition.
	lineStart stateSnapshot
}

func newParserState(log logrus.FieldLogger) *ParserState {
	return &ParserState{
		stack:      []stackToken{{kind: documentStack}},
		references: make(ReferenceMap),
		log:        log,
	}
}

// Tokens returns the tokens produced so far.
func (s *ParserState) Tokens() []*Token {
	return s.tokens
}

// References returns the link reference definitions collected so far.
func (s *ParserState) References() ReferenceMap {
	return s.references
}

func (s *ParserState) top() *stackToken {
	return &s.stack[len(s.stack)-1]
}

func (s *ParserState) addToken(tok *Token) {
	s.tokens = append(s.tokens, tok)
}

// push opens an element.
func (s *ParserState) push(st stackToken) *stackToken {
	if st.token != nil {
		s.addToken(st.token)
	}
	if st.text != nil {
		s.addToken(st.text)
	}
	s.stack = append(s.stack, st)
	return s.top()
}

// innermostContainer returns the index of the innermost open container,
// or 0 for the document.
func (s *ParserState) innermostContainer() int {
	for i := len(s.stack) - 1; i > 0; i-- {
		if s.stack[i].kind.isContainer() {
			return i
		}
	}
	return 0
}

// countStack returns the number of entries on the stack
// that satisfy f.
func (s *ParserState) countStack(f func(stackKind) bool) int {
	n := 0
	for _, st := range s.stack {
		if f(st.kind) {
			n++
		}
	}
	return n
}

func isBlockQuoteStack(k stackKind) bool { return k == blockQuoteStack }

// closeTop pops the top of the stack and emits its end token.
// closeTop must not be used on a link reference definition in progress.
func (s *ParserState) closeTop(forced bool, extra string) {
	top := *s.top()
	switch top.kind {
	case documentStack:
		panic(internalErrorf(s.lineNumber, "close document"))
	case linkDefinitionStack:
		panic(internalErrorf(s.lineNumber, "close unresolved link reference definition"))
	}
	s.stack = s.stack[:len(s.stack)-1]
	s.log.WithFields(logrus.Fields{
		"line":   s.lineNumber,
		"kind":   top.kind.String(),
		"forced": forced,
	}).Debug("Closing block")

	var trailingBlanks []*Token
	if top.kind == indentedCodeBlockStack {
		trailingBlanks = trimTrailingBlankCode(&top)
	}
	s.addToken(&Token{
		Kind:         EndToken,
		Start:        top.token,
		ExtraEndData: extra,
		WasForced:    forced,
	})
	for _, blank := range trailingBlanks {
		s.addToken(blank)
	}
}

// trimTrailingBlankCode removes blank lines from the end of an indented code block
// and returns them as blank line tokens.
func trimTrailingBlankCode(st *stackToken) []*Token {
	lines := strings.Split(st.text.Text, "\n")
	n := len(lines)
	for n > 1 && isBlankLine(lines[n-1]) {
		n--
	}
	if n == len(lines) {
		return nil
	}
	var blanks []*Token
	for i := n; i < len(lines); i++ {
		blanks = append(blanks, &Token{
			Kind:                BlankLineToken,
			Line:                st.text.Line + i,
			Column:              st.lineColumns[i] + 1,
			ExtractedWhitespace: lines[i],
		})
	}
	st.text.Text = strings.Join(lines[:n], "\n")
	return blanks
}

// closeOpenBlocks closes every element above the stack index until.
// If an unresolved link reference definition has to be rolled back,
// closeOpenBlocks stops and returns the lines to parse again.
func (s *ParserState) closeOpenBlocks(gb *containerGrabBag, until int, forced bool) *RequeueLineInfo {
	for len(s.stack)-1 > until {
		if s.top().kind == linkDefinitionStack {
			if rq := s.finalizeLinkDefinition(gb); rq != nil {
				return rq
			}
			continue
		}
		s.closeTop(forced, "")
	}
	return nil
}

// closeDocument closes everything at the end of input.
func (s *ParserState) closeDocument() *RequeueLineInfo {
	return s.closeOpenBlocks(nil, 0, true)
}

// markListsHaveContent records that the current item of every open list
// has seen something other than blank lines.
func (s *ParserState) markListsHaveContent(blankRemainder bool) {
	for i := range s.stack {
		if s.stack[i].kind.isList() && (!blankRemainder || i < len(s.stack)-1) {
			s.stack[i].hasContent = true
		}
	}
}

// stateSnapshot is a copy of the parser state
// that can be restored to undo the effects of parsing lines.
type stateSnapshot struct {
	stack     []stackToken
	numTokens int
	open      []savedToken
}

type savedToken struct {
	tok   *Token
	saved Token
}

func (s *ParserState) takeSnapshot() stateSnapshot {
	snap := stateSnapshot{
		stack:     append([]stackToken(nil), s.stack...),
		numTokens: len(s.tokens),
	}
	for _, st := range s.stack {
		if st.token != nil {
			snap.open = append(snap.open, savedToken{st.token, *st.token})
		}
		if st.text != nil {
			snap.open = append(snap.open, savedToken{st.text, *st.text})
		}
	}
	return snap
}

// restore returns the parser to the state in snap,
// discarding any tokens produced after it was taken.
func (s *ParserState) restore(snap stateSnapshot) {
	s.stack = append(s.stack[:0:0], snap.stack...)
	for i := snap.numTokens; i < len(s.tokens); i++ {
		s.tokens[i] = nil
	}
	s.tokens = s.tokens[:snap.numTokens]
	for _, o := range snap.open {
		*o.tok = o.saved
	}
}
