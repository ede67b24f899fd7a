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

import "github.com/sirupsen/logrus"

// handleNestedContainerBlocks looks for further container starts
// in the text after a container opened on the current line,
// like the list in "> - item".
func (gb *containerGrabBag) handleNestedContainerBlocks() *RequeueLineInfo {
	if gb.cursor.isBlank() {
		return nil
	}
	if gb.containerDepth >= maxContainerDepth {
		gb.logger().WithFields(logrus.Fields{
			"limit": maxContainerDepth,
		}).Debug("Container nesting limit reached; treating rest of line as content")
		return nil
	}
	return gb.detectContainerStarts()
}

// closeEmptyListItem handles a blank line in a list item
// that has only had blank lines.
// A list item can begin with at most one blank line,
// so the item ends, but its list stays open for a following item.
func (gb *containerGrabBag) closeEmptyListItem(entry *stackToken) bool {
	if !entry.itemClosed {
		gb.logger().Debug("Closing empty list item")
	}
	entry.itemClosed = true
	entry.token.addLeadingSpace("")
	return true
}
