// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package formatutil colors terminal output and sanitizes strings for display.
package formatutil

import (
	"fmt"

	"golang.org/x/term"
)

// The color helpers wrap their arguments in an ANSI escape sequence when stdout
// is a terminal, and leave them untouched otherwise.
var (
	Bold   = color("\033[1m%s\033[0m")
	Faint  = color("\033[2m%s\033[0m")
	Red    = color("\033[1;31m%s\033[0m")
	Green  = color("\033[1;32m%s\033[0m")
	Yellow = color("\033[1;33m%s\033[0m")
	Cyan   = color("\033[1;36m%s\033[0m")
)

func color(seq string) func(...any) string {
	return func(args ...any) string {
		s := fmt.Sprint(args...)
		if !term.IsTerminal(1) {
			return s
		}
		return fmt.Sprintf(seq, s)
	}
}

// Sanitize quotes the escape sequences of a string so that displaying it cannot
// corrupt the terminal. Used on identifiers read from input files.
func Sanitize(s string) string {
	r := fmt.Sprintf("%q", s)
	if len(r) >= 2 {
		return r[1 : len(r)-1]
	}
	return r
}

// SanitizeRepr sanitizes the string representation of an object
func SanitizeRepr(s fmt.Stringer) string {
	return Sanitize(s.String())
}
