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
package util

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/consensys/go-bounds/pkg/util/source"
)

// Expected errors are declared in a block of comments at the very start of an
// invalid test file, one per line, as ";;error:LINE:START-END:MESSAGE".
// Columns are numbered from 1 and END is exclusive.
const errorPrefix = ";;error"

var expectedErrorRegex = regexp.MustCompile(`^;;error:(\d+):(\d+)-(\d+):(.+)$`)

// ExpectedErrors reads the errors declared at the start of a given test file,
// in the order they are declared.  Malformed declarations are reported
// together, rather than stopping at the first.
func ExpectedErrors(srcfile *source.File) ([]source.SyntaxError, error) {
	var (
		lines    = srcfile.Lines()
		expected []source.SyntaxError
		errs     []error
	)
	//
	for i := range lines {
		contents := strings.TrimRight(lines[i].String(), "\r")
		//
		if !strings.HasPrefix(contents, errorPrefix) {
			break
		} else if err, ok := expectedError(srcfile, lines, contents); ok {
			expected = append(expected, err)
		} else {
			errs = append(errs, fmt.Errorf("%s:%d: malformed error declaration %q", srcfile.Filename(),
				lines[i].Number(), contents))
		}
	}
	//
	return expected, errors.Join(errs...)
}

// Construct the syntax error described by a single declaration, provided its
// span lies within one line of the file.
func expectedError(srcfile *source.File, lines []source.Line, contents string) (source.SyntaxError, bool) {
	match := expectedErrorRegex.FindStringSubmatch(contents)
	//
	if match == nil {
		return source.SyntaxError{}, false
	}
	// Digits only, hence no conversion errors besides overflow
	lineno, err1 := strconv.Atoi(match[1])
	start, err2 := strconv.Atoi(match[2])
	end, err3 := strconv.Atoi(match[3])
	//
	switch {
	case err1 != nil || err2 != nil || err3 != nil:
		return source.SyntaxError{}, false
	case lineno < 1 || lineno > len(lines) || start < 1 || end < start:
		return source.SyntaxError{}, false
	}
	//
	line := &lines[lineno-1]
	//
	if start > line.Length() || end-1 > line.Length() {
		return source.SyntaxError{}, false
	}
	//
	span := source.NewSpan(line.Start()+start-1, line.Start()+end-1)
	//
	return *srcfile.SyntaxError(span, match[4]), true
}
