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
package bounds

import (
	"fmt"
	"io"

	"github.com/consensys/go-bounds/pkg/util/source/sexp"
)

// Dump writes the bounds inferred at each of the given sites in a readable
// form.  For each site, the site itself is written followed by its target (or
// declared) bounds and its source (or initialiser) bounds.  Sites are grouped
// by their enclosing function, and lisp is formatted to fit the given width.
func Dump(out io.Writer, sites []*Site, width uint) error {
	formatter := newDumpFormatter(width)
	//
	for i, site := range sites {
		if i == 0 || sites[i-1].Function != site.Function {
			if _, err := fmt.Fprintf(out, ";; %s\n", site.Function.Name); err != nil {
				return err
			}
		}
		//
		if err := dumpSite(out, formatter, site); err != nil {
			return err
		}
	}
	//
	return nil
}

func dumpSite(out io.Writer, formatter *sexp.Formatter, site *Site) error {
	var target, source string
	//
	switch site.Kind {
	case ASSIGNMENT:
		target, source = "Target Bounds:", "RHS Bounds:"
	case DECLARATION:
		target, source = "Declared Bounds:", "Initializer Bounds:"
	default:
		panic(fmt.Sprintf("unknown site kind (%d)", site.Kind))
	}
	//
	_, err := fmt.Fprintf(out, "%s%s\n%s%s\n%s", formatter.Format(site.Node.Lisp()), target,
		formatter.Format(site.TargetBounds.Lisp()), source, formatter.Format(site.SourceBounds.Lisp()))
	//
	return err
}

func newDumpFormatter(width uint) *sexp.Formatter {
	return sexp.NewFormatter(width,
		&sexp.SFormatter{Head: "var", Priority: 0},
		&sexp.IFormatter{Head: "bounds", Priority: 0},
		&sexp.IFormatter{Head: "=", Priority: 1},
		&sexp.IFormatter{Head: "+", Priority: 2},
	)
}
