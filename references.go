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

package mdparse

import (
	"strings"

	"golang.org/x/text/cases"
)

// A type that implements ReferenceMatcher
// can be checked for the presence of link reference definitions.
type ReferenceMatcher interface {
	MatchReference(normalizedLabel string) bool
}

// LinkDefinition is the data of a [link reference definition].
//
// [link reference definition]: https://spec.commonmark.org/0.30/#link-reference-definition
type LinkDefinition struct {
	Destination  string
	Title        string
	TitlePresent bool
	// Line is the line the definition starts on.
	Line int
}

// ReferenceMap is a mapping of [normalized labels] to link definitions.
//
// [normalized labels]: https://spec.commonmark.org/0.30/#matches
type ReferenceMap map[string]LinkDefinition

// MatchReference reports whether the normalized label appears in the map.
func (m ReferenceMap) MatchReference(normalizedLabel string) bool {
	_, ok := m[normalizedLabel]
	return ok
}

// Lookup returns the definition for the given label.
// The label does not need to be normalized.
func (m ReferenceMap) Lookup(label string) (LinkDefinition, bool) {
	def, ok := m[NormalizeLinkLabel(label)]
	return def, ok
}

// add records a definition unless the label is already defined.
// In case of conflicts, the first definition in source order wins.
func (m ReferenceMap) add(tok *Token) bool {
	label := NormalizeLinkLabel(tok.LinkLabel)
	if _, exists := m[label]; label == "" || exists {
		return false
	}
	m[label] = LinkDefinition{
		Destination:  tok.LinkDestination,
		Title:        tok.LinkTitle,
		TitlePresent: tok.linkTitlePresent,
		Line:         tok.Line,
	}
	return true
}

// NormalizeLinkLabel returns the [normalized form] of a link label:
// Unicode case folded with internal whitespace collapsed to a single space.
//
// [normalized form]: https://spec.commonmark.org/0.30/#matches
func NormalizeLinkLabel(label string) string {
	return cases.Fold().String(strings.Join(strings.Fields(label), " "))
}
