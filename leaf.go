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

// leafInput is the part of a line left for leaf blocks
// after container prefixes have been removed.
type leafInput struct {
	pos PositionMarker
	// detab is the remainder with tabs expanded.
	detab string
	// trimmed is detab without its indentation.
	trimmed string
	indent  int
	// ws is the literal indentation and content is the literal text after it.
	ws           string
	content      string
	contentIndex int
	blank        bool
}

func newLeafInput(gb *containerGrabBag) *leafInput {
	c := gb.cursor
	in := &leafInput{
		pos:   positionAt(gb.lineNumber, c),
		detab: c.detabRest(),
	}
	in.trimmed = strings.TrimLeft(in.detab, " ")
	in.indent = len(in.detab) - len(in.trimmed)
	rest := in.pos.TextToParse
	if isBlankLine(rest) {
		in.blank = true
		in.ws = rest
		in.contentIndex = in.pos.IndexNumber + len(rest)
		return in
	}
	start, _ := findDetabifyString(rest, in.trimmed, c.literalColumn())
	if start < 0 {
		panic(internalErrorf(gb.lineNumber, "content %q not found in %q", in.trimmed, rest))
	}
	in.ws = rest[:start]
	in.content = rest[start:]
	in.contentIndex = in.pos.IndexNumber + start
	return in
}

// interruptsParagraph reports whether the line starts a leaf block
// that can interrupt a paragraph.
func interruptsParagraph(in *leafInput) bool {
	if in.blank || in.indent >= codeBlockIndentLimit {
		return false
	}
	return parseThematicBreak(in.content) >= 0 ||
		parseATXHeading(in.content).level > 0 ||
		parseCodeFence(in.content).length > 0 ||
		htmlBlockStart(in.content, true) > 0
}

func isSetextUnderline(in *leafInput) bool {
	return in.indent < codeBlockIndentLimit && parseSetextUnderline(in.trimmed) > 0
}

// processLeafTokens parses the remainder of the line
// after containers have been handled.
func processLeafTokens(gb *containerGrabBag) *RequeueLineInfo {
	st := gb.state
	in := newLeafInput(gb)
	if gb.continueParagraph && !in.blank {
		gb.continueDefinitionParagraph(in)
		return nil
	}
	switch top := st.top(); top.kind {
	case fencedCodeBlockStack:
		gb.continueFencedCodeBlock(top, in)
		return nil
	case htmlBlockStack:
		if in.blank && htmlBlockEnds(top.htmlCondition, "") {
			st.closeTop(false, "")
			break
		}
		gb.appendText(top, in.pos.TextToParse)
		if htmlBlockEnds(top.htmlCondition, in.content) {
			st.closeTop(false, "")
		}
		return nil
	case indentedCodeBlockStack:
		if in.blank || in.indent >= codeBlockIndentLimit {
			gb.appendText(top, in.pos.TextToParse)
			top.lineColumns = append(top.lineColumns, in.pos.IndexNumber)
			return nil
		}
		st.closeTop(false, "")
	case linkDefinitionStack:
		rq, handled := gb.continueLinkDefinition(in)
		if rq != nil || handled {
			return rq
		}
	case paragraphStack:
		if in.blank {
			st.closeTop(false, "")
			break
		}
		if gb.lazy {
			gb.appendParagraphLine(top, in)
			return nil
		}
		if level := parseSetextUnderline(in.trimmed); level > 0 && in.indent < codeBlockIndentLimit {
			gb.closeSetextHeading(top, in, level)
			return nil
		}
		if !interruptsParagraph(in) {
			gb.appendParagraphLine(top, in)
			return nil
		}
		st.closeTop(false, "")
	}
	if in.blank {
		st.addToken(&Token{
			Kind:                BlankLineToken,
			Line:                gb.lineNumber,
			Column:              in.pos.IndexNumber + 1,
			ExtractedWhitespace: in.ws,
		})
		return nil
	}
	gb.startLeafBlock(in)
	return nil
}

// startLeafBlock opens the leaf block that starts the line.
func (gb *containerGrabBag) startLeafBlock(in *leafInput) {
	st := gb.state
	tok := &Token{
		Line:                gb.lineNumber,
		Column:              in.contentIndex + 1,
		ExtractedWhitespace: in.ws,
	}
	defer func() {
		gb.logger().WithFields(logrus.Fields{
			"kind":           tok.Kind.String(),
			"container_text": gb.removedText,
		}).Debug("Starting leaf block")
	}()

	if in.indent >= codeBlockIndentLimit {
		tok.Kind = IndentedCodeBlockToken
		tok.Column = in.pos.IndexNumber + 1
		tok.ExtractedWhitespace = ""
		st.push(stackToken{
			kind:        indentedCodeBlockStack,
			token:       tok,
			text:        gb.newText(in.pos.IndexNumber, in.pos.TextToParse),
			lineColumns: []int{in.pos.IndexNumber},
		})
		return
	}
	if h := parseATXHeading(in.content); h.level > 0 {
		tok.Kind = ATXHeadingToken
		tok.HeadingLevel = h.level
		tok.Text = in.content
		st.addToken(tok)
		st.addToken(gb.newText(in.contentIndex+h.contentStart, in.content[h.contentStart:h.contentEnd]))
		st.addToken(&Token{Kind: EndToken, Start: tok})
		return
	}
	if parseThematicBreak(in.content) >= 0 {
		tok.Kind = ThematicBreakToken
		tok.Text = in.content
		st.addToken(tok)
		return
	}
	if f := parseCodeFence(in.content); f.length > 0 {
		tok.Kind = FencedCodeBlockToken
		tok.Text = in.content
		tok.FenceMarker = strings.Repeat(string(f.char), f.length)
		tok.InfoString = f.info
		st.push(stackToken{
			kind:        fencedCodeBlockStack,
			token:       tok,
			fenceChar:   f.char,
			fenceLength: f.length,
		})
		return
	}
	if cond := htmlBlockStart(in.content, false); cond > 0 {
		tok.Kind = HTMLBlockToken
		st.push(stackToken{
			kind:          htmlBlockStack,
			token:         tok,
			text:          gb.newText(in.pos.IndexNumber, in.pos.TextToParse),
			htmlCondition: cond,
		})
		if htmlBlockEnds(cond, in.content) {
			st.closeTop(false, "")
		}
		return
	}
	if !gb.forceIgnoreFirstAsLRD && in.content[0] == '[' && scanLinkDefinition(in.pos.TextToParse).status != linkDefInvalid {
		tok.Kind = LinkReferenceDefinitionToken
		gb.startLinkDefinition(in)
		return
	}
	tok.Kind = ParagraphToken
	st.push(stackToken{
		kind:  paragraphStack,
		token: tok,
		text:  gb.newText(in.contentIndex, in.content),
	})
}

// continueDefinitionParagraph handles a line of a paragraph
// after the link reference definitions at its start have been emitted.
// Block starts and indentation are not significant on such a line,
// but it may begin another definition.
func (gb *containerGrabBag) continueDefinitionParagraph(in *leafInput) {
	if !gb.forceIgnoreFirstAsLRD && in.content[0] == '[' && scanLinkDefinition(in.content).status != linkDefInvalid {
		gb.startLinkDefinition(in)
		return
	}
	gb.state.push(stackToken{
		kind: paragraphStack,
		token: &Token{
			Kind:                ParagraphToken,
			Line:                gb.lineNumber,
			Column:              in.contentIndex + 1,
			ExtractedWhitespace: in.ws,
		},
		text: gb.newText(in.contentIndex, in.content),
	})
	gb.logger().Debug("Continuing paragraph after link reference definition")
}

func (gb *containerGrabBag) newText(index int, text string) *Token {
	return &Token{
		Kind:   TextToken,
		Line:   gb.lineNumber,
		Column: index + 1,
		Text:   text,
	}
}

func (gb *containerGrabBag) appendText(entry *stackToken, line string) {
	entry.text.Text += "\n" + line
}

func (gb *containerGrabBag) appendParagraphLine(entry *stackToken, in *leafInput) {
	entry.token.ExtractedWhitespace += "\n" + in.ws
	gb.appendText(entry, in.content)
}

// closeSetextHeading turns the open paragraph into a [setext heading].
// The end token records the underline.
//
// [setext heading]: https://spec.commonmark.org/0.30/#setext-headings
func (gb *containerGrabBag) closeSetextHeading(entry *stackToken, in *leafInput, level int) {
	entry.token.Kind = SetextHeadingToken
	entry.token.HeadingLevel = level
	gb.state.closeTop(false, in.pos.TextToParse)
}

// continueFencedCodeBlock adds the line to the open fenced code block
// or closes the block if the line is a closing fence.
// The closing fence is recorded on the end token.
func (gb *containerGrabBag) continueFencedCodeBlock(entry *stackToken, in *leafInput) {
	if !in.blank && in.indent < codeBlockIndentLimit && isClosingCodeFence(in.trimmed, entry.fenceChar, entry.fenceLength) {
		gb.state.closeTop(false, in.pos.TextToParse)
		return
	}
	if entry.text == nil {
		entry.text = gb.newText(in.pos.IndexNumber, in.pos.TextToParse)
		gb.state.addToken(entry.text)
		return
	}
	gb.appendText(entry, in.pos.TextToParse)
}
