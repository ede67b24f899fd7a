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

	"golang.org/x/net/html/atom"
)

// htmlBlockConditions is the set of [HTML block] start and end conditions,
// indexed by condition number minus one.
// Conditions are tested against the line with its indentation removed.
//
// [HTML block]: https://spec.commonmark.org/0.30/#html-blocks
var htmlBlockConditions = []struct {
	startCondition        func(line string) bool
	endCondition          func(line string) bool
	canInterruptParagraph bool
}{
	{
		startCondition: func(line string) bool {
			for _, starter := range htmlBlockStarters1 {
				if hasCaseInsensitivePrefix(line, starter) {
					rest := line[len(starter):]
					if len(rest) == 0 || isSpaceOrTab(rest[0]) || rest[0] == '>' {
						return true
					}
				}
			}
			return false
		},
		endCondition: func(line string) bool {
			for _, ender := range htmlBlockEnders1 {
				if caseInsensitiveContains(line, ender) {
					return true
				}
			}
			return false
		},
		canInterruptParagraph: true,
	},
	{
		startCondition: func(line string) bool {
			return strings.HasPrefix(line, "<!--")
		},
		endCondition: func(line string) bool {
			return strings.Contains(line, "-->")
		},
		canInterruptParagraph: true,
	},
	{
		startCondition: func(line string) bool {
			return strings.HasPrefix(line, "<?")
		},
		endCondition: func(line string) bool {
			return strings.Contains(line, "?>")
		},
		canInterruptParagraph: true,
	},
	{
		startCondition: func(line string) bool {
			return strings.HasPrefix(line, "<!") && len(line) >= 3 && isASCIILetter(line[2])
		},
		endCondition: func(line string) bool {
			return strings.Contains(line, ">")
		},
		canInterruptParagraph: true,
	},
	{
		startCondition: func(line string) bool {
			return strings.HasPrefix(line, "<![CDATA[")
		},
		endCondition: func(line string) bool {
			return strings.Contains(line, "]]>")
		},
		canInterruptParagraph: true,
	},
	{
		startCondition: func(line string) bool {
			switch {
			case strings.HasPrefix(line, "</"):
				line = line[2:]
			case strings.HasPrefix(line, "<"):
				line = line[1:]
			default:
				return false
			}
			for _, starter := range htmlBlockStarters6 {
				if hasCaseInsensitivePrefix(line, starter) {
					rest := line[len(starter):]
					if len(rest) == 0 || isSpaceOrTab(rest[0]) || rest[0] == '>' || strings.HasPrefix(rest, "/>") {
						return true
					}
				}
			}
			return false
		},
		endCondition:          isBlankLine,
		canInterruptParagraph: true,
	},
	{
		startCondition: func(line string) bool {
			if !strings.HasPrefix(line, "<") {
				return false
			}
			r := &htmlTagScanner{s: line, pos: 1}
			if strings.HasPrefix(line, "</") {
				if !r.closingTag() {
					return false
				}
			} else if !r.openTag() {
				return false
			}
			return isBlankLine(line[r.pos:])
		},
		endCondition:          isBlankLine,
		canInterruptParagraph: false,
	},
}

// htmlBlockStart returns the 1-based number of the HTML block condition
// that line starts, or 0 if it does not start an HTML block.
// line must not have any indentation.
func htmlBlockStart(line string, interruptingParagraph bool) int {
	for i, cond := range htmlBlockConditions {
		if interruptingParagraph && !cond.canInterruptParagraph {
			continue
		}
		if cond.startCondition(line) {
			return i + 1
		}
	}
	return 0
}

// htmlBlockEnds reports whether line satisfies the end condition
// of an HTML block started with the given condition.
func htmlBlockEnds(condition int, line string) bool {
	return htmlBlockConditions[condition-1].endCondition(line)
}

// htmlTagScanner reads an HTML tag from a single line.
type htmlTagScanner struct {
	s   string
	pos int
}

func (r *htmlTagScanner) current() byte {
	if r.pos >= len(r.s) {
		return 0
	}
	return r.s[r.pos]
}

func (r *htmlTagScanner) skipSpace() {
	for r.pos < len(r.s) && isSpaceOrTab(r.s[r.pos]) {
		r.pos++
	}
}

// openTag parses an [open tag] sans the leading '<'.
//
// [open tag]: https://spec.commonmark.org/0.30/#open-tag
func (r *htmlTagScanner) openTag() bool {
	if !r.tagName() {
		return false
	}
	for {
		beforeSpace := r.pos
		r.skipSpace()
		switch r.current() {
		case '/':
			r.pos++
			if r.current() != '>' {
				return false
			}
			fallthrough
		case '>':
			r.pos++
			return true
		}
		if r.pos == beforeSpace || !r.attribute() {
			return false
		}
	}
}

// closingTag parses a [closing tag] sans the leading '<'.
//
// [closing tag]: https://spec.commonmark.org/0.30/#closing-tag
func (r *htmlTagScanner) closingTag() bool {
	if r.current() != '/' {
		return false
	}
	r.pos++
	if !r.tagName() {
		return false
	}
	r.skipSpace()
	if r.current() != '>' {
		return false
	}
	r.pos++
	return true
}

func (r *htmlTagScanner) tagName() bool {
	if !isASCIILetter(r.current()) {
		return false
	}
	r.pos++
	for c := r.current(); isASCIILetter(c) || isASCIIDigit(c) || c == '-'; c = r.current() {
		r.pos++
	}
	return true
}

func (r *htmlTagScanner) attribute() bool {
	// Attribute name.
	if c := r.current(); !isASCIILetter(c) && c != '_' && c != ':' {
		return false
	}
	r.pos++
	for c := r.current(); c != 0 && (isASCIILetter(c) || isASCIIDigit(c) || strings.IndexByte("_.:-", c) >= 0); c = r.current() {
		r.pos++
	}

	// Attribute value specification.
	// Don't consume space unless it is followed by an equal sign,
	// since it will cause future attributes to fail.
	prev := r.pos
	r.skipSpace()
	if r.current() != '=' {
		r.pos = prev
		return true
	}
	r.pos++
	r.skipSpace()
	switch c := r.current(); {
	case c == '\'' || c == '"':
		end := strings.IndexByte(r.s[r.pos+1:], c)
		if end < 0 {
			return false
		}
		r.pos += end + 2
		return true
	case c != 0 && isUnquotedAttributeValueChar(c):
		for c := r.current(); c != 0 && isUnquotedAttributeValueChar(c); c = r.current() {
			r.pos++
		}
		return true
	default:
		return false
	}
}

func hasCaseInsensitivePrefix(s string, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

func caseInsensitiveContains(s string, search string) bool {
	for i := 0; i+len(search) <= len(s); i++ {
		if hasCaseInsensitivePrefix(s[i:], search) {
			return true
		}
	}
	return false
}

func isUnquotedAttributeValueChar(c byte) bool {
	return !isSpaceOrTab(c) && strings.IndexByte("\"'=<>`", c) < 0
}

func isSpaceOrTab(c byte) bool {
	return c == ' ' || c == '\t'
}

func isASCIILetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z'
}

func isASCIIDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isASCIIPunctuation(c byte) bool {
	return '!' <= c && c <= '/' ||
		':' <= c && c <= '@' ||
		'[' <= c && c <= '`' ||
		'{' <= c && c <= '~'
}

var (
	htmlBlockStarters1 = []string{
		"<pre",
		"<script",
		"<style",
		"<textarea",
	}
	htmlBlockEnders1 = []string{
		"</pre>",
		"</script>",
		"</style>",
		"</textarea>",
	}

	htmlBlockStarters6 = []string{
		atom.Address.String(),
		atom.Article.String(),
		atom.Aside.String(),
		atom.Base.String(),
		atom.Basefont.String(),
		atom.Blockquote.String(),
		atom.Body.String(),
		atom.Caption.String(),
		atom.Center.String(),
		atom.Col.String(),
		atom.Colgroup.String(),
		atom.Dd.String(),
		atom.Details.String(),
		atom.Dialog.String(),
		atom.Dir.String(),
		atom.Div.String(),
		atom.Dl.String(),
		atom.Dt.String(),
		atom.Fieldset.String(),
		atom.Figcaption.String(),
		atom.Figure.String(),
		atom.Footer.String(),
		atom.Form.String(),
		atom.Frame.String(),
		atom.Frameset.String(),
		atom.H1.String(),
		atom.H2.String(),
		atom.H3.String(),
		atom.H4.String(),
		atom.H5.String(),
		atom.H6.String(),
		atom.Head.String(),
		atom.Header.String(),
		atom.Hr.String(),
		atom.Html.String(),
		atom.Iframe.String(),
		atom.Legend.String(),
		atom.Li.String(),
		atom.Link.String(),
		atom.Main.String(),
		atom.Menu.String(),
		atom.Menuitem.String(),
		atom.Nav.String(),
		atom.Noframes.String(),
		atom.Ol.String(),
		atom.Optgroup.String(),
		atom.Option.String(),
		atom.P.String(),
		atom.Param.String(),
		atom.Section.String(),
		atom.Source.String(),
		atom.Summary.String(),
		atom.Table.String(),
		atom.Tbody.String(),
		atom.Td.String(),
		atom.Tfoot.String(),
		atom.Th.String(),
		atom.Thead.String(),
		atom.Title.String(),
		atom.Tr.String(),
		atom.Track.String(),
		atom.Ul.String(),
	}
)
