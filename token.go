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
	"strconv"
	"strings"

	"go4.org/bytereplacer"
)

// TokenKind is an enumeration of the tokens produced by a [Parser].
type TokenKind uint16

const (
	// BlockQuoteToken opens a [block quote].
	//
	// [block quote]: https://spec.commonmark.org/0.30/#block-quotes
	BlockQuoteToken TokenKind = 1 + iota
	// UnorderedListToken opens a [bullet list].
	// The list's first item starts at the same position.
	//
	// [bullet list]: https://spec.commonmark.org/0.30/#bullet-list
	UnorderedListToken
	// OrderedListToken opens an [ordered list].
	// The list's first item starts at the same position.
	//
	// [ordered list]: https://spec.commonmark.org/0.30/#ordered-list
	OrderedListToken
	// NewListItemToken marks the start of a second or later item
	// in the innermost open list.
	NewListItemToken
	ParagraphToken
	// TextToken holds the literal text of the enclosing leaf block,
	// one source line per "\n"-separated line.
	TextToken
	BlankLineToken
	ThematicBreakToken
	ATXHeadingToken
	SetextHeadingToken
	IndentedCodeBlockToken
	FencedCodeBlockToken
	HTMLBlockToken
	LinkReferenceDefinitionToken
	// EndToken closes the element opened by its Start token.
	EndToken
)

var tokenKindNames = [...]string{
	BlockQuoteToken:              "block-quote",
	UnorderedListToken:           "ulist",
	OrderedListToken:             "olist",
	NewListItemToken:             "li",
	ParagraphToken:               "para",
	TextToken:                    "text",
	BlankLineToken:               "BLANK",
	ThematicBreakToken:           "tbreak",
	ATXHeadingToken:              "atx",
	SetextHeadingToken:           "setext",
	IndentedCodeBlockToken:       "icode-block",
	FencedCodeBlockToken:         "fcode-block",
	HTMLBlockToken:               "html-block",
	LinkReferenceDefinitionToken: "link-ref-def",
	EndToken:                     "end",
}

// String returns the short name used in a token's serialized form.
func (k TokenKind) String() string {
	if int(k) >= len(tokenKindNames) || tokenKindNames[k] == "" {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// IsContainer reports whether the kind opens a container block.
func (k TokenKind) IsContainer() bool {
	return k == BlockQuoteToken || k == UnorderedListToken || k == OrderedListToken
}

// IsList reports whether the kind opens a list.
func (k TokenKind) IsList() bool {
	return k == UnorderedListToken || k == OrderedListToken
}

// HasEnd reports whether tokens of the kind are closed by an [EndToken].
func (k TokenKind) HasEnd() bool {
	switch k {
	case NewListItemToken, TextToken, BlankLineToken, ThematicBreakToken, LinkReferenceDefinitionToken, EndToken:
		return false
	default:
		return true
	}
}

// A Token is a single element of the flat token stream produced by a [Parser].
// Element boundaries are expressed as a start token
// followed later by an [EndToken] whose Start field points back to it.
type Token struct {
	Kind TokenKind
	// Line is the 1-based line number the token starts on.
	Line int
	// Column is the 1-based byte index into the line
	// of the token's first significant character.
	Column int

	// ExtractedWhitespace is the literal leading whitespace
	// that was skipped before the element.
	// Paragraphs and setext headings record one entry per line,
	// separated by "\n".
	ExtractedWhitespace string
	// Text is the literal text of the element.
	// For [TextToken] it is the content, one line per "\n"-separated line.
	// For thematic breaks, ATX headings, fenced code block openings,
	// and link reference definitions it is the raw source after ExtractedWhitespace.
	Text string

	// List fields.
	// ListMarker is the bullet character or the ordered list delimiter.
	ListMarker byte
	// ListStart is the ordinal of an ordered list item.
	ListStart int
	// IndentLevel is the absolute 0-based column of the list item's content.
	IndentLevel int

	// Heading fields.
	HeadingLevel int

	// Fenced code block fields.
	FenceMarker string
	InfoString  string

	// Link reference definition fields.
	LinkLabel       string
	LinkDestination string
	LinkTitle       string

	linkTitlePresent bool

	// End token fields.
	// Start is the token this end token closes.
	Start *Token
	// ExtraEndData is source text that belongs to the close:
	// the underline of a setext heading, the closing fence of a code block,
	// or the last leading-space entry of a block quote
	// that was closed because fewer markers were present.
	ExtraEndData string
	// WasForced is true if the element was closed
	// by something other than its own closing syntax.
	WasForced bool

	leadingSpaces []string
}

// LeadingSpaces returns the container's per-line leading-space entries:
// the literal text the container consumed on each line it spans.
// Lazy continuation lines have an empty entry.
// LeadingSpaces returns nil for tokens that are not containers.
func (tok *Token) LeadingSpaces() []string {
	if tok == nil || !tok.Kind.IsContainer() {
		return nil
	}
	return tok.leadingSpaces
}

func (tok *Token) addLeadingSpace(s string) {
	tok.leadingSpaces = append(tok.leadingSpaces, s)
}

func (tok *Token) lastLeadingSpace() string {
	if len(tok.leadingSpaces) == 0 {
		return ""
	}
	return tok.leadingSpaces[len(tok.leadingSpaces)-1]
}

// IsEnd reports whether tok closes an element.
func (tok *Token) IsEnd() bool {
	return tok != nil && tok.Kind == EndToken
}

var tokenEscaper = bytereplacer.New(
	"\n", `\n`,
	"\t", `\t`,
)

func escapeField(s string) string {
	if !strings.ContainsAny(s, "\n\t") {
		return s
	}
	return string(tokenEscaper.Replace([]byte(s)))
}

// String serializes the token in a compact bracketed form,
// like "[para(1,3):]" or "[end-block-quote:]".
// Newlines and tabs in fields are written as \n and \t.
func (tok *Token) String() string {
	sb := new(strings.Builder)
	sb.WriteString("[")
	if tok.Kind == EndToken {
		sb.WriteString("end-")
		if tok.Start != nil {
			sb.WriteString(tok.Start.Kind.String())
		}
		sb.WriteString(":")
		sb.WriteString(escapeField(tok.ExtraEndData))
		sb.WriteString("]")
		return sb.String()
	}
	sb.WriteString(tok.Kind.String())
	sb.WriteString("(")
	sb.WriteString(strconv.Itoa(tok.Line))
	sb.WriteString(",")
	sb.WriteString(strconv.Itoa(tok.Column))
	sb.WriteString(")")
	var fields []string
	switch tok.Kind {
	case BlockQuoteToken:
		fields = []string{strings.Join(tok.leadingSpaces, "\n")}
	case UnorderedListToken:
		fields = []string{
			string(tok.ListMarker),
			strconv.Itoa(tok.IndentLevel),
			tok.ExtractedWhitespace,
			strings.Join(tok.leadingSpaces, "\n"),
		}
	case OrderedListToken:
		fields = []string{
			string(tok.ListMarker),
			strconv.Itoa(tok.ListStart),
			strconv.Itoa(tok.IndentLevel),
			tok.ExtractedWhitespace,
			strings.Join(tok.leadingSpaces, "\n"),
		}
	case NewListItemToken:
		fields = []string{strconv.Itoa(tok.IndentLevel), tok.ExtractedWhitespace}
		if tok.ListMarker == '.' || tok.ListMarker == ')' {
			fields = append(fields, strconv.Itoa(tok.ListStart))
		}
	case ParagraphToken, BlankLineToken, SetextHeadingToken, IndentedCodeBlockToken:
		fields = []string{tok.ExtractedWhitespace}
		if tok.Kind == SetextHeadingToken {
			fields = []string{setextChar(tok.HeadingLevel), tok.ExtractedWhitespace}
		}
	case TextToken:
		fields = []string{tok.Text}
	case ThematicBreakToken:
		fields = []string{tok.Text[:1], tok.ExtractedWhitespace, tok.Text}
	case ATXHeadingToken:
		fields = []string{strconv.Itoa(tok.HeadingLevel), tok.ExtractedWhitespace, tok.Text}
	case FencedCodeBlockToken:
		fields = []string{tok.FenceMarker, tok.InfoString, tok.ExtractedWhitespace, tok.Text}
	case LinkReferenceDefinitionToken:
		fields = []string{tok.LinkLabel, tok.LinkDestination, tok.LinkTitle, tok.Text}
	}
	for _, f := range fields {
		sb.WriteString(":")
		sb.WriteString(escapeField(f))
	}
	sb.WriteString("]")
	return sb.String()
}

func setextChar(level int) string {
	if level == 1 {
		return "="
	}
	return "-"
}

// FormatTokens returns the serialized form of each token.
func FormatTokens(tokens []*Token) []string {
	s := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		s = append(s, tok.String())
	}
	return s
}
