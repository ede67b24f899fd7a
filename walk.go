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

// A Cursor describes a [Token] encountered during [Walk].
type Cursor struct {
	token  *Token
	parent *Token
	index  int
	depth  int
}

// Token returns the current start or leaf [Token].
// End tokens are never returned: Post is called with the start token instead.
func (c *Cursor) Token() *Token {
	return c.token
}

// Parent returns the start token of the element
// that contains the current token,
// or nil if the current token is at the top level of the document.
func (c *Cursor) Parent() *Token {
	return c.parent
}

// Index returns the position of the current token in the stream.
func (c *Cursor) Index() int {
	return c.index
}

// Depth returns the number of elements that contain the current token.
func (c *Cursor) Depth() int {
	return c.depth
}

// WalkOptions is the set of parameters to [Walk].
type WalkOptions struct {
	// If Pre is not nil, it is called for each token before the element's children are traversed (pre-order).
	// If Pre returns false, no children are traversed, and Post is not called for that token.
	Pre func(c *Cursor) bool
	// If Post is not nil, it is called for each token after the element's children are traversed (post-order).
	// If Post returns false, traversal is terminated and Walk returns immediately.
	Post func(c *Cursor) bool
}

// Walk traverses a token stream as a tree,
// using end tokens to find where elements close,
// and calling [WalkOptions.Pre] and [WalkOptions.Post].
func Walk(tokens []*Token, opts *WalkOptions) {
	type walkFrame struct {
		token  *Token
		parent *Token
		index  int
	}

	var stack []walkFrame
	cursor := new(Cursor)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind == EndToken {
			if len(stack) == 0 || stack[len(stack)-1].token != tok.Start {
				continue
			}
			curr := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if opts.Post != nil {
				*cursor = Cursor{token: curr.token, parent: curr.parent, index: curr.index, depth: len(stack)}
				if !opts.Post(cursor) {
					return
				}
			}
			continue
		}

		curr := walkFrame{token: tok, index: i}
		if len(stack) > 0 {
			curr.parent = stack[len(stack)-1].token
		}
		if opts.Pre != nil {
			*cursor = Cursor{token: curr.token, parent: curr.parent, index: i, depth: len(stack)}
			if !opts.Pre(cursor) {
				if tok.Kind.HasEnd() {
					i = findEnd(tokens, i)
				}
				continue
			}
		}
		if tok.Kind.HasEnd() {
			stack = append(stack, curr)
			continue
		}
		if opts.Post != nil {
			*cursor = Cursor{token: curr.token, parent: curr.parent, index: i, depth: len(stack)}
			if !opts.Post(cursor) {
				return
			}
		}
	}
}

// findEnd returns the index of the end token for tokens[start],
// or the last index if there is none.
func findEnd(tokens []*Token, start int) int {
	for i := start + 1; i < len(tokens); i++ {
		if tokens[i].Kind == EndToken && tokens[i].Start == tokens[start] {
			return i
		}
	}
	return len(tokens) - 1
}
