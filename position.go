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

import "fmt"

// PositionMarker identifies where the unparsed remainder of a line begins.
type PositionMarker struct {
	// LineNumber is the 1-based line number.
	LineNumber int
	// IndexNumber is the byte offset of TextToParse in the original line.
	IndexNumber int
	// IndexIndent is the 0-based column of the remainder,
	// including columns of a split tab that were consumed by a container.
	IndexIndent int
	// TextToParse is the literal text remaining on the line.
	TextToParse string
}

func (pos PositionMarker) String() string {
	return fmt.Sprintf("%d:%d", pos.LineNumber, pos.IndexNumber+1)
}

// positionAt returns the position of c's cursor.
func positionAt(lineNumber int, c *lineCursor) PositionMarker {
	return PositionMarker{
		LineNumber:  lineNumber,
		IndexNumber: c.literalIndex(),
		IndexIndent: c.column(),
		TextToParse: c.rest(),
	}
}
