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

package mdparse_test

import (
	"fmt"
	"strings"

	"zombiezen.com/go/mdparse"
)

func Example() {
	tokens, _ := mdparse.Parse([]byte("> - item\n>   more\n"))
	for _, tok := range tokens {
		fmt.Println(tok)
	}
	// Output:
	// [block-quote(1,1):> \n> ]
	// [ulist(1,3):-:4::- \n  ]
	// [para(1,5):\n]
	// [text(1,5):item\nmore]
	// [end-para:]
	// [end-ulist:]
	// [end-block-quote:]
	// [BLANK(3,1):]
}

func ExampleParser() {
	input := strings.NewReader(
		"See [the docs][docs].\n" +
			"\n" +
			"[docs]: https://www.example.com/ \"Docs\"\n",
	)
	tokens, refs, err := mdparse.NewParser(input).Parse()
	if err != nil {
		// Not expecting an error from a string.
		panic(err)
	}
	fmt.Println(len(tokens), "tokens")
	def, _ := refs.Lookup("DOCS")
	fmt.Println(def.Destination, def.Title)
	// Output:
	// 6 tokens
	// https://www.example.com/ Docs
}

func ExampleWalk() {
	tokens, _ := mdparse.Parse([]byte("- a\n- b"))
	mdparse.Walk(tokens, &mdparse.WalkOptions{
		Pre: func(c *mdparse.Cursor) bool {
			fmt.Printf("%s%v\n", strings.Repeat("  ", c.Depth()), c.Token().Kind)
			return true
		},
	})
	// Output:
	// ulist
	//   para
	//     text
	//   li
	//   para
	//     text
}
