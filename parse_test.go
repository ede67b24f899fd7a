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
	"errors"
	"io"
	"sort"
	"strings"
	"testing"
	"testing/iotest"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"
)

func TestInsecureCharacters(t *testing.T) {
	const input = "Hello,\x00World"
	const want = "Hello,\ufffdWorld"

	type testCase struct {
		name   string
		tokens []*Token
		err    error
	}
	var tests []testCase

	memTokens, _ := Parse([]byte(input))
	tests = append(tests, testCase{
		name:   "Parse",
		tokens: memTokens,
	})
	readerTokens, _, err := NewParser(strings.NewReader(input)).Parse()
	tests = append(tests, testCase{
		name:   "Parser",
		tokens: readerTokens,
		err:    err,
	})

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if test.err != nil {
				t.Fatal("Parse:", test.err)
			}
			if len(test.tokens) != 3 {
				t.Fatalf("tokens = %q; want 3 tokens", FormatTokens(test.tokens))
			}
			if got := test.tokens[1].Kind; got != TextToken {
				t.Fatalf("tokens[1].Kind = %v; want %v", got, TextToken)
			}
			if got := test.tokens[1].Text; got != want {
				t.Errorf("tokens[1].Text = %q; want %q", got, want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     []string
	}{
		{
			name:     "Empty",
			markdown: "",
			want:     []string{},
		},
		{
			name:     "LineEndings",
			markdown: "a\r\nb\rc",
			want: []string{
				"[para(1,1):\\n\\n]",
				"[text(1,1):a\\nb\\nc]",
				"[end-para:]",
			},
		},
		{
			name:     "QuoteInListInQuote",
			markdown: "> - > a",
			want: []string{
				"[block-quote(1,1):> ]",
				"[ulist(1,3):-:4::- ]",
				"[block-quote(1,5):> ]",
				"[para(1,7):]",
				"[text(1,7):a]",
				"[end-para:]",
				"[end-block-quote:]",
				"[end-ulist:]",
				"[end-block-quote:]",
			},
		},
		{
			name:     "QuoteContinuedInListItem",
			markdown: "- > a\n  > b",
			want: []string{
				"[ulist(1,1):-:2::- \\n  ]",
				"[block-quote(1,3):> \\n> ]",
				"[para(1,5):\\n]",
				"[text(1,5):a\\nb]",
				"[end-para:]",
				"[end-block-quote:]",
				"[end-ulist:]",
			},
		},
		{
			name:     "OrderedListCannotInterruptParagraph",
			markdown: "a\n2. b",
			want: []string{
				"[para(1,1):\\n]",
				"[text(1,1):a\\n2. b]",
				"[end-para:]",
			},
		},
		{
			name:     "OrderedListStartingAtOneInterruptsParagraph",
			markdown: "a\n1. b",
			want: []string{
				"[para(1,1):]",
				"[text(1,1):a]",
				"[end-para:]",
				"[olist(2,1):.:1:3::1. ]",
				"[para(2,4):]",
				"[text(2,4):b]",
				"[end-para:]",
				"[end-olist:]",
			},
		},
		{
			name:     "TenDigitOrdinalIsText",
			markdown: "1234567890. a",
			want: []string{
				"[para(1,1):]",
				"[text(1,1):1234567890. a]",
				"[end-para:]",
			},
		},
		{
			name:     "WideListContentIsCode",
			markdown: "-      code",
			want: []string{
				"[ulist(1,1):-:2::- ]",
				"[icode-block(1,3):]",
				"[text(1,3):     code]",
				"[end-icode-block:]",
				"[end-ulist:]",
			},
		},
		{
			name:     "DifferentBulletsStartNewList",
			markdown: "- a\n+ b",
			want: []string{
				"[ulist(1,1):-:2::- ]",
				"[para(1,3):]",
				"[text(1,3):a]",
				"[end-para:]",
				"[end-ulist:]",
				"[ulist(2,1):+:2::+ ]",
				"[para(2,3):]",
				"[text(2,3):b]",
				"[end-para:]",
				"[end-ulist:]",
			},
		},
		{
			name:     "LazyParagraphInList",
			markdown: "- a\nb",
			want: []string{
				"[ulist(1,1):-:2::- \\n]",
				"[para(1,3):\\n]",
				"[text(1,3):a\\nb]",
				"[end-para:]",
				"[end-ulist:]",
			},
		},
		{
			name:     "ThematicBreakEndsLazyQuote",
			markdown: "> a\n---",
			want: []string{
				"[block-quote(1,1):> ]",
				"[para(1,3):]",
				"[text(1,3):a]",
				"[end-para:]",
				"[end-block-quote:]",
				"[tbreak(2,1):-::---]",
			},
		},
		{
			name:     "BlankLineInList",
			markdown: "- a\n\n  b",
			want: []string{
				"[ulist(1,1):-:2::- \\n\\n  ]",
				"[para(1,3):]",
				"[text(1,3):a]",
				"[end-para:]",
				"[BLANK(2,1):]",
				"[para(3,3):]",
				"[text(3,3):b]",
				"[end-para:]",
				"[end-ulist:]",
			},
		},
		{
			name:     "FencedCodeClosedByQuoteEnd",
			markdown: "> ```\n> a\nb",
			want: []string{
				"[block-quote(1,1):> \\n> ]",
				"[fcode-block(1,3):```:::```]",
				"[text(2,3):a]",
				"[end-fcode-block:]",
				"[end-block-quote:]",
				"[para(3,1):]",
				"[text(3,1):b]",
				"[end-para:]",
			},
		},
		{
			name:     "ATXHeadingClosingSequence",
			markdown: "## foo ##",
			want: []string{
				"[atx(1,1):2::## foo ##]",
				"[text(1,4):foo]",
				"[end-atx:]",
			},
		},
		{
			name:     "IndentedParagraph",
			markdown: "  a\n   b",
			want: []string{
				"[para(1,3):  \\n   ]",
				"[text(1,3):a\\nb]",
				"[end-para:]",
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tokens, _ := Parse([]byte(test.markdown))
			if diff := cmp.Diff(test.want, FormatTokens(tokens)); diff != "" {
				t.Errorf("Input:\n%s\nTokens (-want +got):\n%s", test.markdown, diff)
			}
			verifyTokenStream(t, tokens)
		})
	}
}

func TestContainerDepthLimit(t *testing.T) {
	tokens, _ := Parse([]byte(strings.Repeat(">", 12) + "a"))
	quotes := 0
	for _, tok := range tokens {
		if tok.Kind == BlockQuoteToken {
			quotes++
		}
	}
	if quotes != maxContainerDepth {
		t.Errorf("opened %d block quotes; want %d", quotes, maxContainerDepth)
	}
	var text string
	for _, tok := range tokens {
		if tok.Kind == TextToken {
			text = tok.Text
		}
	}
	if want := ">>a"; text != want {
		t.Errorf("paragraph text = %q; want %q", text, want)
	}
	verifyTokenStream(t, tokens)
}

func TestBlockQuoteReduction(t *testing.T) {
	tokens, _ := Parse([]byte(">>>>a\n>> # h"))
	var ends []*Token
	for _, tok := range tokens {
		if tok.Kind == EndToken && tok.Start.Kind == BlockQuoteToken {
			ends = append(ends, tok)
		}
		if tok.Kind == ATXHeadingToken {
			break
		}
	}
	if len(ends) != 2 {
		t.Fatalf("closed %d block quotes before the heading; want 2", len(ends))
	}
	for _, end := range ends {
		if got, want := end.ExtraEndData, end.Start.lastLeadingSpace(); got != want {
			t.Errorf("%v ExtraEndData = %q; want %q", end.Start, got, want)
		}
		if !end.WasForced {
			t.Errorf("%v WasForced = false; want true", end.Start)
		}
	}
	verifyTokenStream(t, tokens)
}

func TestLinkDefinitionRequeue(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		requeues []RequeueLineInfo
		want     []string
		refs     []string
	}{
		{
			name:     "Unfinished",
			markdown: "[foo]:\n\n[foo]",
			requeues: []RequeueLineInfo{
				{LinesToRequeue: []string{"[foo]:", ""}, ForceIgnoreFirstAsLRD: true},
				{LinesToRequeue: []string{"[foo]"}, ForceIgnoreFirstAsLRD: true},
			},
			want: []string{
				"[para(1,1):]",
				"[text(1,1):[foo]:]",
				"[end-para:]",
				"[BLANK(2,1):]",
				"[para(3,1):]",
				"[text(3,1):[foo]]",
				"[end-para:]",
			},
		},
		{
			name:     "PartialTitle",
			markdown: "[foo]: /url\n'title\nbar",
			requeues: []RequeueLineInfo{
				{LinesToRequeue: []string{"'title", "bar"}, ForceIgnoreFirstAsLRD: true, ContinueParagraph: true},
			},
			want: []string{
				"[link-ref-def(1,1):foo:/url::[foo]: /url]",
				"[para(2,1):\\n]",
				"[text(2,1):'title\\nbar]",
				"[end-para:]",
			},
			refs: []string{"foo"},
		},
		{
			name:     "IndentedLineAfterDefinition",
			markdown: "[a]: /u\n    b",
			want: []string{
				"[link-ref-def(1,1):a:/u::[a]: /u]",
				"[para(2,5):    ]",
				"[text(2,5):b]",
				"[end-para:]",
			},
			refs: []string{"a"},
		},
		{
			name:     "IndentedLineAfterDefinitionInQuote",
			markdown: "> [a]: /u\n>     b",
			want: []string{
				"[block-quote(1,1):> \\n> ]",
				"[link-ref-def(1,3):a:/u::[a]: /u]",
				"[para(2,7):    ]",
				"[text(2,7):b]",
				"[end-para:]",
				"[end-block-quote:]",
			},
			refs: []string{"a"},
		},
		{
			name:     "LazyLineAfterDefinitionInQuote",
			markdown: "> [a]: /u\n    b",
			want: []string{
				"[block-quote(1,1):> \\n]",
				"[link-ref-def(1,3):a:/u::[a]: /u]",
				"[para(2,5):    ]",
				"[text(2,5):b]",
				"[end-para:]",
				"[end-block-quote:]",
			},
			refs: []string{"a"},
		},
		{
			name:     "HTMLAfterDefinition",
			markdown: "[a]: /u\n<custom>",
			want: []string{
				"[link-ref-def(1,1):a:/u::[a]: /u]",
				"[para(2,1):]",
				"[text(2,1):<custom>]",
				"[end-para:]",
			},
			refs: []string{"a"},
		},
		{
			name:     "IndentedDefinitionAfterDefinition",
			markdown: "[a]: /u\n    [b]: /v",
			want: []string{
				"[link-ref-def(1,1):a:/u::[a]: /u]",
				"[link-ref-def(2,5):b:/v::[b]: /v]",
			},
			refs: []string{"a", "b"},
		},
		{
			name:     "IndentedPartialTitle",
			markdown: "[a]: /u\n    'x\n",
			requeues: []RequeueLineInfo{
				{LinesToRequeue: []string{"    'x", ""}, ForceIgnoreFirstAsLRD: true, ContinueParagraph: true},
			},
			want: []string{
				"[link-ref-def(1,1):a:/u::[a]: /u]",
				"[para(2,5):    ]",
				"[text(2,5):'x]",
				"[end-para:]",
				"[BLANK(3,1):]",
			},
			refs: []string{"a"},
		},
		{
			name:     "MultiLine",
			markdown: "[Foo\n bar]:\n/url\n'title'",
			want: []string{
				"[link-ref-def(1,1):Foo\\n bar:/url:title:[Foo\\n bar]:\\n/url\\n'title']",
			},
			refs: []string{"foo bar"},
		},
		{
			name:     "InQuote",
			markdown: "> [foo]:\n> /url\n\n[foo]",
			requeues: []RequeueLineInfo{
				{LinesToRequeue: []string{"[foo]"}, ForceIgnoreFirstAsLRD: true},
			},
			want: []string{
				"[block-quote(1,1):> \\n> ]",
				"[link-ref-def(1,3):foo:/url::[foo]:\\n/url]",
				"[end-block-quote:]",
				"[BLANK(3,1):]",
				"[para(4,1):]",
				"[text(4,1):[foo]]",
				"[end-para:]",
			},
			refs: []string{"foo"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var requeues []RequeueLineInfo
			p := NewParser(strings.NewReader(test.markdown))
			p.onRequeue = func(rq *RequeueLineInfo) {
				requeues = append(requeues, *rq)
			}
			tokens, refs, err := p.Parse()
			if err != nil {
				t.Fatal("Parse:", err)
			}
			if diff := cmp.Diff(test.want, FormatTokens(tokens)); diff != "" {
				t.Errorf("Tokens (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.requeues, requeues); diff != "" {
				t.Errorf("Requeues (-want +got):\n%s", diff)
			}
			var gotRefs []string
			for label := range refs {
				gotRefs = append(gotRefs, label)
			}
			sort.Strings(gotRefs)
			if diff := cmp.Diff(test.refs, gotRefs); diff != "" {
				t.Errorf("Reference labels (-want +got):\n%s", diff)
			}
			verifyTokenStream(t, tokens)
		})
	}
}

func TestParserReader(t *testing.T) {
	const input = "> a\n> - b\n>   c\n\n```go\nx\n```\n"
	want, _ := Parse([]byte(input))
	got, _, err := NewParser(iotest.OneByteReader(strings.NewReader(input))).Parse()
	if err != nil {
		t.Fatal("Parse:", err)
	}
	if diff := cmp.Diff(FormatTokens(want), FormatTokens(got)); diff != "" {
		t.Errorf("tokens (-Parse +Parser.Parse):\n%s", diff)
	}
}

func TestParserReadError(t *testing.T) {
	errBoom := errors.New("boom")
	r := io.MultiReader(strings.NewReader("a\n"), iotest.ErrReader(errBoom))
	_, _, err := NewParser(r).Parse()
	if !errors.Is(err, errBoom) {
		t.Errorf("Parse() error = %v; want %v", err, errBoom)
	}
}

func TestInternalError(t *testing.T) {
	defer func() {
		v := recover()
		err, ok := v.(*InternalError)
		if !ok {
			t.Fatalf("recovered %v; want *InternalError", v)
		}
		if err.Error() == "" {
			t.Error("Error() is empty")
		}
	}()
	newLineCursor("a").consumeIndent(1)
}

func FuzzParse(f *testing.F) {
	for _, test := range loadTestSuite(f) {
		f.Add(test.Markdown)
	}
	f.Add("> a\n>> b\n> - c\n>   d")
	f.Add("- \t[x]:\n  /u\n\n\t- y")

	f.Fuzz(func(t *testing.T, markdown string) {
		if !utf8.ValidString(markdown) {
			t.Skip("Invalid UTF-8")
		}
		tokens, _, err := NewParser(strings.NewReader(markdown)).Parse()
		if err != nil {
			t.Fatal(err)
		}
		verifyTokenStream(t, tokens)
	})
}
