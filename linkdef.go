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

type linkDefStatus int8

const (
	// linkDefInvalid means the text cannot begin a link reference definition
	// no matter what lines follow.
	linkDefInvalid linkDefStatus = iota
	// linkDefIncomplete means the text could begin a definition
	// if more lines follow.
	linkDefIncomplete
	// linkDefComplete means a prefix of the text is a complete definition.
	linkDefComplete
)

type linkDefScan struct {
	status linkDefStatus
	// end is the byte offset just past the definition
	// (excluding the following newline).
	// It is only set for complete definitions.
	end          int
	label        string
	destination  string
	title        string
	titlePresent bool
}

// scanLinkDefinition parses a [link reference definition]
// from the start of s, which holds one or more lines separated by "\n".
// The first line must have fewer than four columns of indentation.
//
// [link reference definition]: https://spec.commonmark.org/0.30/#link-reference-definitions
func scanLinkDefinition(s string) linkDefScan {
	i := len(s) - len(strings.TrimLeft(s, " \t"))
	if i >= len(s) || s[i] != '[' {
		return linkDefScan{}
	}

	// Label.
	j := i + 1
	for ; ; j++ {
		if j >= len(s) {
			return linkDefScan{status: linkDefIncomplete}
		}
		if j-(i+1) > 999 {
			return linkDefScan{}
		}
		c := s[j]
		if c == '\\' && j+1 < len(s) && isASCIIPunctuation(s[j+1]) {
			j++
			continue
		}
		if c == '[' {
			return linkDefScan{}
		}
		if c == ']' {
			break
		}
	}
	result := linkDefScan{label: s[i+1 : j]}
	if strings.TrimSpace(result.label) == "" {
		return linkDefScan{}
	}
	j++
	if j >= len(s) {
		return linkDefScan{status: linkDefIncomplete}
	}
	if s[j] != ':' {
		return linkDefScan{}
	}
	j++

	// Destination, possibly on the next line.
	j, _ = skipDefinitionSpace(s, j)
	if j >= len(s) {
		return linkDefScan{status: linkDefIncomplete}
	}
	if s[j] == '<' {
		k := j + 1
		for ; k < len(s) && s[k] != '>'; k++ {
			switch s[k] {
			case '\\':
				if k+1 < len(s) && isASCIIPunctuation(s[k+1]) {
					k++
				}
			case '\n', '<':
				return linkDefScan{}
			}
		}
		if k >= len(s) {
			return linkDefScan{}
		}
		result.destination = s[j+1 : k]
		j = k + 1
	} else {
		k := j
		depth := 0
	rawDest:
		for ; k < len(s); k++ {
			switch c := s[k]; {
			case c == '\\' && k+1 < len(s) && isASCIIPunctuation(s[k+1]):
				k++
			case c == '(':
				depth++
				if depth > 32 {
					return linkDefScan{}
				}
			case c == ')':
				if depth == 0 {
					break rawDest
				}
				depth--
			case c <= ' ' || c == 0x7f:
				break rawDest
			}
		}
		if k == j || depth != 0 {
			return linkDefScan{}
		}
		result.destination = s[j:k]
		j = k
	}

	// The definition may end after the destination
	// if the rest of the line is whitespace.
	destEnd := j
	for destEnd < len(s) && isSpaceOrTab(s[destEnd]) {
		destEnd++
	}
	endsLine := destEnd >= len(s) || s[destEnd] == '\n'

	// Title.
	k, sawSpace := skipDefinitionSpace(s, j)
	if k >= len(s) || !sawSpace || strings.IndexByte(`"'(`, s[k]) < 0 {
		if !endsLine {
			return linkDefScan{}
		}
		result.status = linkDefComplete
		result.end = destEnd
		return result
	}
	closer := s[k]
	if closer == '(' {
		closer = ')'
	}
	m := k + 1
	for ; ; m++ {
		if m >= len(s) {
			return linkDefScan{status: linkDefIncomplete}
		}
		c := s[m]
		if c == '\\' && m+1 < len(s) && isASCIIPunctuation(s[m+1]) {
			m++
			continue
		}
		if c == closer {
			break
		}
		if closer == ')' && c == '(' {
			m = -1
			break
		}
	}
	if m >= 0 {
		title := s[k+1 : m]
		m++
		for m < len(s) && isSpaceOrTab(s[m]) {
			m++
		}
		if m >= len(s) || s[m] == '\n' {
			result.status = linkDefComplete
			result.end = m
			result.title = title
			result.titlePresent = true
			return result
		}
	}
	if !endsLine {
		return linkDefScan{}
	}
	result.status = linkDefComplete
	result.end = destEnd
	return result
}

// skipDefinitionSpace skips spaces, tabs, and up to one newline.
func skipDefinitionSpace(s string, i int) (int, bool) {
	start := i
	sawNewline := false
	for i < len(s) {
		switch s[i] {
		case ' ', '\t':
		case '\n':
			if sawNewline {
				return i, true
			}
			sawNewline = true
		default:
			return i, i > start
		}
		i++
	}
	return i, i > start
}

// isCompleteLinkDefinition reports whether the lines
// form exactly one complete link reference definition.
func isCompleteLinkDefinition(lines []string) bool {
	s := strings.Join(lines, "\n")
	scan := scanLinkDefinition(s)
	return scan.status == linkDefComplete && scan.end == len(s)
}

// startLinkDefinition opens a link reference definition in progress.
func (gb *containerGrabBag) startLinkDefinition(in *leafInput) {
	st := gb.state
	// The token is not part of the stream until the definition is resolved.
	st.stack = append(st.stack, stackToken{
		kind: linkDefinitionStack,
		token: &Token{
			Kind:                LinkReferenceDefinitionToken,
			Line:                gb.lineNumber,
			Column:              in.contentIndex + 1,
			ExtractedWhitespace: in.ws,
		},
		lrdLines:     []string{gb.originalLine},
		lrdContent:   []string{in.pos.TextToParse},
		lrdSnapshots: []stateSnapshot{st.lineStart},
	})
}

// continueLinkDefinition offers the current line
// to the link reference definition in progress.
// If the definition cannot include the line, it is resolved:
// handled is false if the line still needs to be parsed.
// A line that could have continued the paragraph
// starts the paragraph text after the definition.
func (gb *containerGrabBag) continueLinkDefinition(in *leafInput) (rq *RequeueLineInfo, handled bool) {
	st := gb.state
	top := st.top()
	continues := !in.blank && (gb.lazy || !interruptsParagraph(in) && !isSetextUnderline(in))
	if continues {
		candidate := append(append([]string(nil), top.lrdContent...), in.pos.TextToParse)
		s := strings.Join(candidate, "\n")
		if scan := scanLinkDefinition(s); scan.status == linkDefIncomplete || scan.status == linkDefComplete && scan.end == len(s) {
			top.lrdLines = append(top.lrdLines, gb.originalLine)
			top.lrdContent = candidate
			top.lrdSnapshots = append(top.lrdSnapshots, st.lineStart)
			return nil, true
		}
	}
	if rq := st.finalizeLinkDefinition(gb); rq != nil {
		return rq, true
	}
	if continues {
		gb.continueDefinitionParagraph(in)
		return nil, true
	}
	return nil, false
}

// finalizeLinkDefinition resolves the link reference definition
// on the top of the stack.
// If all of its buffered lines form a definition, it is emitted.
// Otherwise the parser is rolled back to the start of the first line
// that is not part of a definition,
// and that line and every line after it (including the current line, if any)
// must be parsed again without being treated as a definition.
// If any definitions were kept, the first requeued line
// continues their paragraph.
func (s *ParserState) finalizeLinkDefinition(gb *containerGrabBag) *RequeueLineInfo {
	top := s.top()
	if top.kind != linkDefinitionStack {
		panic(internalErrorf(s.lineNumber, "resolve link reference definition with %v on top of stack", top.kind))
	}
	n := len(top.lrdContent)
	k := n
	for ; k > 0; k-- {
		if isCompleteLinkDefinition(top.lrdContent[:k]) {
			break
		}
	}
	if k == n {
		s.emitLinkDefinition()
		return nil
	}

	rq := &RequeueLineInfo{
		LinesToRequeue:        append([]string(nil), top.lrdLines[k:]...),
		ForceIgnoreFirstAsLRD: true,
		ContinueParagraph:     k > 0,
	}
	if gb != nil {
		rq.LinesToRequeue = append(rq.LinesToRequeue, gb.originalLine)
	}
	s.log.WithFields(logrus.Fields{
		"line":    s.lineNumber,
		"kept":    k,
		"requeue": len(rq.LinesToRequeue),
	}).Debug("Rolling back link reference definition")
	s.restore(top.lrdSnapshots[k])
	if k > 0 {
		s.emitLinkDefinition()
	}
	return rq
}

// emitLinkDefinition pops the link reference definition on the top of the stack
// and adds it to the token stream and the reference map.
func (s *ParserState) emitLinkDefinition() {
	top := *s.top()
	s.stack = s.stack[:len(s.stack)-1]
	scan := scanLinkDefinition(strings.Join(top.lrdContent, "\n"))
	tok := top.token
	tok.Text = strings.Join(top.lrdContent, "\n")
	if ws := tok.ExtractedWhitespace; strings.HasPrefix(tok.Text, ws) {
		tok.Text = tok.Text[len(ws):]
	}
	tok.LinkLabel = scan.label
	tok.LinkDestination = scan.destination
	tok.LinkTitle = scan.title
	tok.linkTitlePresent = scan.titlePresent
	s.addToken(tok)
	if !s.references.add(tok) {
		s.log.WithFields(logrus.Fields{
			"line":  tok.Line,
			"label": scan.label,
		}).Debug("Ignoring duplicate link reference definition")
	}
}
