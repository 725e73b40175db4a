// Copyright 2025 the Quel authors
//
//  Licensed under the Apache License, Version 2.0 (the "License");
//  you may not use this file except in compliance with the License.
//  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
//  Unless required by applicable law or agreed to in writing, software
//  distributed under the License is distributed on an "AS IS" BASIS,
//  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//  See the License for the specific language governing permissions and
//  limitations under the License.

package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quelang/quel/lr"
)

// SyntaxError describes a parse error at a particular
// location in the input.
type SyntaxError struct {
	Start, End uint32   // byte span of the offending input
	Message    string   // textual description of the error
	Expected   []string // token names acceptable at this point, if known
}

func (e *SyntaxError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "at offset %d: %s", e.Start, e.Message)
	if len(e.Expected) > 0 {
		sb.WriteString(" (expected ")
		for i, name := range e.Expected {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(name)
		}
		sb.WriteString(")")
	}
	return sb.String()
}

// errAt produces a *SyntaxError spanning the given
// reduction values.
func errAt(vals []lr.Value, format string, args ...any) error {
	start, end := uint32(0), uint32(0)
	if len(vals) > 0 {
		start = vals[0].Start
		end = vals[len(vals)-1].End
	}
	return &SyntaxError{Start: start, End: end, Message: fmt.Sprintf(format, args...)}
}

// convert translates the errors produced by the parse
// engine into this package's error types.
func convert(err error) error {
	var se *lr.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{
			Start:    se.Start,
			End:      se.End,
			Message:  fmt.Sprintf("unexpected %s", se.Token),
			Expected: se.Expected,
		}
	}
	return err
}
