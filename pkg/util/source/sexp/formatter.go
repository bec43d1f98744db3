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

import (
	"math"
	"strings"
)

// FormattingChunk represents a chunk of a lisp expression which is to be
// indented at a given priority level.
type FormattingChunk struct {
	Priority uint
	Indent   uint
	Contents SExp
}

// Formatter pretty prints S-Expressions so that they fit (where possible)
// within a given width.  Lists are split according to a set of formatting
// rules, where lower priority chunks are split onto new lines first.
type Formatter struct {
	// Maximum desired width
	maxWidth uint
	// Rules to be used for formatting
	rules []FormattingRule
}

// NewFormatter constructs a new formatter which aims to fit its output within a
// given width.
func NewFormatter(width uint, rules ...FormattingRule) *Formatter {
	return &Formatter{width, rules}
}

// Add a new formatting rule to this formatter.
func (p *Formatter) Add(rule FormattingRule) {
	p.rules = append(p.rules, rule)
}

// Format a given S-Expression using the rules embedded within this formatter.
// The resulting text is terminated by a newline.
func (p *Formatter) Format(sexp SExp) string {
	var text FormattedText
	// Increase the splitting priority until everything fits, or there is
	// nothing further to split.
	for priority := uint(0); ; priority++ {
		text = FormattedText{}
		p.formatInner(priority, false, sexp, &text)
		//
		if text.MaxWidth() <= p.maxWidth || priority >= maxPriority {
			return text.String()
		}
	}
}

// Priorities beyond this are never split.
const maxPriority = 10

func (p *Formatter) formatInner(priority uint, newline bool, sexp SExp, text *FormattedText) {
	switch sexp := sexp.(type) {
	case *Symbol:
		text.WriteString(sexp.String(false))
	case *List:
		// Lists which fit on the current line are never split.
		if text.LineWidth()+uint(len(sexp.String(false))) <= p.maxWidth {
			priority = 0
		}
		//
		for _, rule := range p.rules {
			if chunks, indent := rule.Split(sexp); chunks != nil {
				p.formatChunks(priority, newline, chunks, indent, text)
				return
			}
		}
		// default rule
		text.WriteString("(")
		//
		for i, element := range sexp.Elements {
			if i != 0 {
				text.WriteString(" ")
			}
			//
			p.formatInner(priority, false, element, text)
		}
		//
		text.WriteString(")")
	default:
		panic("unreachable")
	}
}

func (p *Formatter) formatChunks(priority uint, newline bool, chunks []FormattingChunk, indent uint,
	text *FormattedText) {
	// Lists are only moved onto a new line if something precedes them.
	breakLine := indent != math.MaxUint && !newline && text.LineWidth() > 0
	//
	if breakLine {
		text.Indent(int(indent))
		text.NewLine()
	}
	//
	text.WriteString("(")
	//
	for i, chunk := range chunks {
		split := chunk.Priority < priority
		//
		if split {
			text.Indent(int(chunk.Indent))
			text.NewLine()
		} else if i != 0 {
			text.WriteString(" ")
		}
		//
		p.formatInner(priority, split, chunk.Contents, text)
		//
		if split {
			text.Indent(-int(chunk.Indent))
		}
	}
	//
	text.WriteString(")")
	//
	if breakLine {
		text.Indent(-int(indent))
	}
}

// ===================================================================
// Formatted Text
// ===================================================================

// FormattedText represents a block of text being formatted, made up from one
// or more lines at varying indentation levels.
type FormattedText struct {
	// Current indent level
	indent int
	// Lines being written
	lines []string
}

// Indentation used for each level.
const indentation = "  "

func (p *FormattedText) String() string {
	var builder strings.Builder
	//
	for _, l := range p.lines {
		builder.WriteString(l)
		builder.WriteString("\n")
	}
	//
	return builder.String()
}

// Indent increases or decreases the current indent level.
func (p *FormattedText) Indent(delta int) {
	p.indent += delta
}

// NewLine starts a new line at the current indent level.
func (p *FormattedText) NewLine() {
	p.lines = append(p.lines, strings.Repeat(indentation, max(p.indent, 0)))
}

// LineWidth returns the width of the current line.
func (p *FormattedText) LineWidth() uint {
	if n := len(p.lines); n > 0 {
		return uint(len(p.lines[n-1]))
	}
	//
	return 0
}

// MaxWidth returns the maximum width of any line in this formatted text block.
func (p *FormattedText) MaxWidth() uint {
	width := 0
	//
	for _, l := range p.lines {
		width = max(width, len(l))
	}
	//
	return uint(width)
}

// WriteString appends a string onto the current line of this formatted text
// block.
func (p *FormattedText) WriteString(str string) {
	if n := len(p.lines); n == 0 {
		p.lines = append(p.lines, str)
	} else {
		p.lines[n-1] += str
	}
}
