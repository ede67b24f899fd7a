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

// InternalError is returned by [Parser.Parse]
// when the parser reaches a state that should not be possible.
// It indicates a bug in the parser rather than a problem with the input.
type InternalError struct {
	// Line is the line being processed, or 0 if unknown.
	Line int
	Msg  string
}

func internalErrorf(line int, format string, args ...any) *InternalError {
	return &InternalError{Line: line, Msg: fmt.Sprintf(format, args...)}
}

func (e *InternalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("internal parser error: line %d: %s", e.Line, e.Msg)
	}
	return "internal parser error: " + e.Msg
}
