// Copyright 2023 Ross Light
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

// Package mdparse provides a CommonMark block parser
// that produces a flat stream of tokens.
// Container blocks (block quotes and lists) record the exact text
// they consumed on each line,
// so the original document can be reconstructed from the tokens.
package mdparse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// A Parser splits Markdown into block tokens.
type Parser struct {
	// Logger receives debug information about parsing decisions.
	// If nil, nothing is logged.
	Logger logrus.FieldLogger

	buf      []byte // unparsed input
	parsePos int    // parse position within buf
	sawEOL   bool   // whether the last line returned ended with a line ending

	r   io.Reader
	err error // non-nil indicates there is no more data after end of buf

	// requeued holds lines to be parsed again before reading more input.
	requeued []string
	// onRequeue is called whenever lines are requeued. Used for testing.
	onRequeue func(*RequeueLineInfo)
}

// NewParser returns a parser that reads Markdown from r.
func NewParser(r io.Reader) *Parser {
	return &Parser{
		r: r,
	}
}

// Parse splits the source into tokens.
// It panics if the parser encounters an internal error.
func Parse(source []byte) ([]*Token, ReferenceMap) {
	p := &Parser{
		buf: source,
		err: io.EOF,
	}
	tokens, refs, err := p.Parse()
	if err != nil {
		panic(err)
	}
	return tokens, refs
}

// Parse reads the entire input and returns its tokens
// along with the link reference definitions found.
// Carriage returns and CRLF sequences are treated as line feeds.
// If the input ends with a line ending,
// the empty line after it produces a final blank line token.
func (p *Parser) Parse() (tokens []*Token, refs ReferenceMap, err error) {
	st := newParserState(p.logger())
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		ie, ok := v.(*InternalError)
		if !ok {
			panic(v)
		}
		if ie.Line == 0 {
			ie.Line = st.lineNumber
		}
		tokens, refs, err = nil, nil, fmt.Errorf("parse markdown: %w", ie)
	}()

	lineno := 0
	var requeued *RequeueLineInfo
	for {
		line, ok := p.nextLine()
		if !ok {
			if p.err != nil && !errors.Is(p.err, io.EOF) {
				return nil, nil, fmt.Errorf("parse markdown: %w", p.err)
			}
			rq := st.closeDocument()
			if rq == nil {
				break
			}
			p.requeue(rq)
			lineno -= len(rq.LinesToRequeue)
			requeued = rq
			continue
		}
		lineno++
		rq := parseLineForContainerBlocks(st, line, lineno, requeued)
		requeued = nil
		if rq != nil {
			p.requeue(rq)
			// The current line is included in the requeued lines.
			lineno -= len(rq.LinesToRequeue)
			requeued = rq
		}
	}
	return st.Tokens(), st.References(), nil
}

var discardLogger = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}()

func (p *Parser) logger() logrus.FieldLogger {
	if p.Logger == nil {
		return discardLogger
	}
	return p.Logger
}

func (p *Parser) requeue(rq *RequeueLineInfo) {
	if p.onRequeue != nil {
		p.onRequeue(rq)
	}
	p.requeued = append(append([]string(nil), rq.LinesToRequeue...), p.requeued...)
}

// nextLine returns the next line to parse without its line ending.
func (p *Parser) nextLine() (string, bool) {
	if len(p.requeued) > 0 {
		line := p.requeued[0]
		p.requeued = p.requeued[1:]
		return line, true
	}
	line, ok := p.readline()
	if !ok {
		return "", false
	}
	if strings.IndexByte(line, 0) >= 0 {
		// Contains one or more NUL bytes.
		// Replace with Unicode replacement character.
		line = strings.ReplaceAll(line, "\x00", "\ufffd")
	}
	return line, true
}

// readline reads the next line of input, growing p.buf as necessary.
// The returned line does not include its line ending.
// A line ending at the very end of the input is followed by an empty line.
func (p *Parser) readline() (string, bool) {
	const (
		chunkSize   = 8 * 1024
		maxLineSize = 1024 * 1024
	)

	eolStart, eolEnd := -1, -1
	for {
		// Check if we have a line ending available.
		if i := bytes.IndexAny(p.buf[p.parsePos:], "\r\n"); i >= 0 {
			eolStart = p.parsePos + i
			if p.buf[eolStart] == '\n' {
				eolEnd = eolStart + 1
				break
			}
			if eolStart+1 < len(p.buf) {
				// Carriage return with enough buffer for 1 byte lookahead.
				eolEnd = eolStart + 1
				if p.buf[eolEnd] == '\n' {
					eolEnd++
				}
				break
			}
			if p.err != nil {
				// Carriage return right before EOF.
				eolEnd = len(p.buf)
				break
			}
		}

		if p.err != nil {
			if p.parsePos < len(p.buf) {
				line := string(p.buf[p.parsePos:])
				p.parsePos = len(p.buf)
				p.sawEOL = false
				return line, true
			}
			if p.sawEOL {
				p.sawEOL = false
				return "", true
			}
			return "", false
		}

		// If the line is too long, stop reading.
		if len(p.buf)-p.parsePos >= maxLineSize {
			p.err = fmt.Errorf("line too long")
			return "", false
		}

		// Drop consumed data, then grab more from the reader.
		if p.parsePos > 0 {
			n := copy(p.buf, p.buf[p.parsePos:])
			p.buf = p.buf[:n]
			p.parsePos = 0
		}
		newSize := len(p.buf) + chunkSize
		if cap(p.buf) < newSize {
			newbuf := make([]byte, len(p.buf), newSize)
			copy(newbuf, p.buf)
			p.buf = newbuf
		}
		var n int
		n, p.err = p.r.Read(p.buf[len(p.buf):newSize])
		p.buf = p.buf[:len(p.buf)+n]
	}

	line := string(p.buf[p.parsePos:eolStart])
	p.parsePos = eolEnd
	p.sawEOL = true
	return line, true
}
