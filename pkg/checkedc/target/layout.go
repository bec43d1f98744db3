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
package target

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math/bits"
	"os"

	"github.com/consensys/go-bounds/pkg/checkedc/ast"
	"gopkg.in/yaml.v3"
)

// DataLayout determines the size (in bytes) of each primitive type on the
// target machine.  Sizes are used to scale byte counts into element counts,
// and to evaluate sizeof expressions.
type DataLayout struct {
	Char     uint64 `yaml:"char"`
	Short    uint64 `yaml:"short"`
	Int      uint64 `yaml:"int"`
	Long     uint64 `yaml:"long"`
	LongLong uint64 `yaml:"longlong"`
	Pointer  uint64 `yaml:"pointer"`
}

// LP64 is the default data layout, as used on 64-bit Linux and macOS.
var LP64 = DataLayout{Char: 1, Short: 2, Int: 4, Long: 8, LongLong: 8, Pointer: 8}

// ILP32 is the data layout used on 32-bit targets.
var ILP32 = DataLayout{Char: 1, Short: 2, Int: 4, Long: 4, LongLong: 8, Pointer: 4}

// ErrIncompleteType is returned when asking for the size of a type which has
// none, such as void.
var ErrIncompleteType = errors.New("type has no size")

// ErrSizeOverflow is returned when the size of a type does not fit in 64 bits.
var ErrSizeOverflow = errors.New("type size overflows")

// ReadDataLayout reads a data layout from a YAML file.  Any sizes not given in
// the file default to those of LP64.
func ReadDataLayout(filename string) (DataLayout, error) {
	data, err := os.ReadFile(filename)
	//
	if err != nil {
		return DataLayout{}, fmt.Errorf("failed to read data layout: %w", err)
	}
	//
	return ParseDataLayout(data)
}

// ParseDataLayout parses a data layout from YAML text.  Unknown keys and zero
// sizes are rejected.
func ParseDataLayout(data []byte) (DataLayout, error) {
	layout := LP64
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	// An empty document leaves the defaults in place
	if err := decoder.Decode(&layout); err != nil && !errors.Is(err, io.EOF) {
		return DataLayout{}, fmt.Errorf("failed to parse data layout: %w", err)
	}
	//
	if err := layout.Validate(); err != nil {
		return DataLayout{}, fmt.Errorf("invalid data layout: %w", err)
	}
	//
	return layout, nil
}

// Validate checks that every size in this layout is non-zero.
func (p *DataLayout) Validate() error {
	sizes := []struct {
		name string
		size uint64
	}{
		{"char", p.Char}, {"short", p.Short}, {"int", p.Int},
		{"long", p.Long}, {"longlong", p.LongLong}, {"pointer", p.Pointer},
	}
	//
	for _, s := range sizes {
		if s.size == 0 {
			return fmt.Errorf("size of %s cannot be zero", s.name)
		}
	}
	//
	return nil
}

// SizeOf returns the size in bytes of a given type.
func (p *DataLayout) SizeOf(t ast.Type) (uint64, error) {
	switch t := t.(type) {
	case nil:
		return 0, ErrIncompleteType
	case *ast.ScalarType:
		return p.scalarSize(t.Kind), nil
	case *ast.PointerType:
		return p.Pointer, nil
	case *ast.ArrayType:
		elem, err := p.SizeOf(t.Element)
		//
		if err != nil {
			return 0, err
		}
		//
		hi, lo := bits.Mul64(elem, t.Length)
		//
		if hi != 0 {
			return 0, fmt.Errorf("%w (%s)", ErrSizeOverflow, t.String())
		}
		//
		return lo, nil
	default:
		return 0, fmt.Errorf("%w (%s)", ErrIncompleteType, t.String())
	}
}

// Yaml returns the YAML representation of this layout.
func (p *DataLayout) Yaml() string {
	data, err := yaml.Marshal(p)
	// Should be unreachable for a plain struct.
	if err != nil {
		panic(err)
	}
	//
	return string(data)
}

func (p *DataLayout) scalarSize(kind ast.ScalarKind) uint64 {
	switch kind {
	case ast.CHAR:
		return p.Char
	case ast.SHORT:
		return p.Short
	case ast.INT:
		return p.Int
	case ast.LONG:
		return p.Long
	case ast.LONGLONG:
		return p.LongLong
	default:
		panic(fmt.Sprintf("unknown scalar kind (%d)", kind))
	}
}
