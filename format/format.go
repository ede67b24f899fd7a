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

// Package format reconstructs Markdown source from a token stream.
package format

import (
	"fmt"
	"io"
	"strings"

	"zombiezen.com/go/mdparse"
)

// Format writes the Markdown source that the tokens were parsed from.
// Line endings are written as "\n".
func Format(w io.Writer, tokens []*mdparse.Token) error {
	ww := &errWriter{w: w}
	ww.WriteString(Rehydrate(tokens))
	return ww.err
}

// Rehydrate returns the Markdown source that the tokens were parsed from,
// with line endings normalized to "\n".
// Each line is the concatenation of the leading-space entries
// of the containers open on it, followed by the line's leaf text.
func Rehydrate(tokens []*mdparse.Token) string {
	r := newRehydrator()
	mdparse.Walk(tokens, &mdparse.WalkOptions{
		Pre: func(c *mdparse.Cursor) bool {
			r.visit(tokens, c)
			return true
		},
	})
	for _, tok := range tokens {
		if tok.IsEnd() {
			r.visitEnd(tok)
		}
	}
	return r.String()
}

type rehydrator struct {
	prefixes map[int]*strings.Builder
	content  map[int]string
	maxLine  int
	// fenceLines is the number of content lines in each fenced code block.
	fenceLines map[*mdparse.Token]int
}

func newRehydrator() *rehydrator {
	return &rehydrator{
		prefixes:   make(map[int]*strings.Builder),
		content:    make(map[int]string),
		fenceLines: make(map[*mdparse.Token]int),
	}
}

func (r *rehydrator) addPrefix(line int, s string) {
	sb := r.prefixes[line]
	if sb == nil {
		sb = new(strings.Builder)
		r.prefixes[line] = sb
	}
	sb.WriteString(s)
	r.seen(line)
}

func (r *rehydrator) setLines(start int, text string) {
	for i, line := range strings.Split(text, "\n") {
		r.content[start+i] = line
		r.seen(start + i)
	}
}

func (r *rehydrator) seen(line int) {
	if line > r.maxLine {
		r.maxLine = line
	}
}

func (r *rehydrator) visit(tokens []*mdparse.Token, c *mdparse.Cursor) {
	tok := c.Token()
	switch tok.Kind {
	case mdparse.BlockQuoteToken, mdparse.UnorderedListToken, mdparse.OrderedListToken:
		for i, s := range tok.LeadingSpaces() {
			r.addPrefix(tok.Line+i, s)
		}
	case mdparse.ParagraphToken, mdparse.SetextHeadingToken:
		ws := strings.Split(tok.ExtractedWhitespace, "\n")
		var text []string
		if next := c.Index() + 1; next < len(tokens) && tokens[next].Kind == mdparse.TextToken {
			text = strings.Split(tokens[next].Text, "\n")
		}
		for i := range ws {
			line := ws[i]
			if i < len(text) {
				line += text[i]
			}
			r.content[tok.Line+i] = line
			r.seen(tok.Line + i)
		}
	case mdparse.BlankLineToken:
		r.setLines(tok.Line, tok.ExtractedWhitespace)
	case mdparse.ThematicBreakToken, mdparse.ATXHeadingToken, mdparse.FencedCodeBlockToken, mdparse.LinkReferenceDefinitionToken:
		r.setLines(tok.Line, tok.ExtractedWhitespace+tok.Text)
	case mdparse.TextToken:
		switch p := c.Parent(); {
		case p == nil:
		case p.Kind == mdparse.IndentedCodeBlockToken || p.Kind == mdparse.HTMLBlockToken:
			r.setLines(tok.Line, tok.Text)
		case p.Kind == mdparse.FencedCodeBlockToken:
			r.setLines(tok.Line, tok.Text)
			r.fenceLines[p] = strings.Count(tok.Text, "\n") + 1
		}
	}
}

// visitEnd places source text recorded on end tokens:
// setext heading underlines and closing code fences.
func (r *rehydrator) visitEnd(end *mdparse.Token) {
	start := end.Start
	if start == nil || end.WasForced {
		return
	}
	switch start.Kind {
	case mdparse.SetextHeadingToken:
		n := strings.Count(start.ExtractedWhitespace, "\n") + 1
		r.setLines(start.Line+n, end.ExtraEndData)
	case mdparse.FencedCodeBlockToken:
		r.setLines(start.Line+1+r.fenceLines[start], end.ExtraEndData)
	}
}

func (r *rehydrator) String() string {
	sb := new(strings.Builder)
	for line := 1; line <= r.maxLine; line++ {
		if line > 1 {
			sb.WriteString("\n")
		}
		if p := r.prefixes[line]; p != nil {
			sb.WriteString(p.String())
		}
		sb.WriteString(r.content[line])
	}
	return sb.String()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) WriteString(s string) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = io.WriteString(w.w, s)
	if w.err != nil {
		w.err = fmt.Errorf("format markdown: %w", w.err)
	}
	return n, w.err
}
