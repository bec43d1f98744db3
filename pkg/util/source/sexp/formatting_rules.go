// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package sexp

import "math"

// FormattingRule provides a generic mechanism for writing custom formatting
// rules.  Whenever a list is encountered during formatting, the formatting
// rules will be given the opportunity to direct formatting of the list.  That
// is, whether to start a new line and indent the list as whole and/or any of
// its children.  A formatting rule should return nil for the formatting chunks
// when it doesn't handle the given list.
type FormattingRule interface {
	Split(*List) ([]FormattingChunk, uint)
}

// LFormatter moves a matching list onto its own line, and indents its children
// like so:
//
//	(head
//	  child1
//	  ...
//	  childn)
type LFormatter struct {
	// Head symbol to match
	Head string
	// Priority to give for matching.
	Priority uint
}

// Split a list using the LFormatter where the list matches.
func (p *LFormatter) Split(list *List) ([]FormattingChunk, uint) {
	return splitList(list, p.Head, 1, p.Priority), 1
}

// SFormatter is a variation on the LFormatter which keeps the first child on
// the same line as the head, thusly:
//
//	(head child1
//	  child2
//	  ...
//	  childn)
type SFormatter struct {
	// Head symbol to match
	Head string
	// Priority to give for matching.
	Priority uint
}

// Split a list using the SFormatter where the list matches.
func (p *SFormatter) Split(list *List) ([]FormattingChunk, uint) {
	return splitList(list, p.Head, 2, p.Priority), 1
}

// IFormatter splits a matching list in place, without moving it onto a new
// line:
//
//	(head
//	  child1
//	  ...
//	  childn)
type IFormatter struct {
	// Head symbol to match
	Head string
	// Priority to give for matching.
	Priority uint
}

// Split a list using the IFormatter where the list matches.
func (p *IFormatter) Split(list *List) ([]FormattingChunk, uint) {
	return splitList(list, p.Head, 1, p.Priority), math.MaxUint
}

// Split a list whose head matches into chunks, where the first n chunks are
// never split and the remainder are split at the given priority.  This returns
// nil if the list does not match.
func splitList(list *List, head string, n int, priority uint) []FormattingChunk {
	if list.Head() != head {
		return nil
	}
	//
	chunks := make([]FormattingChunk, list.Len())
	//
	for i, element := range list.Elements {
		chunks[i].Contents = element
		//
		if i < n {
			chunks[i].Priority = math.MaxUint
		} else {
			chunks[i].Priority = priority
			chunks[i].Indent = 1
		}
	}
	//
	return chunks
}
