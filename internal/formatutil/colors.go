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

// Package formatutil colors the text printed by the command line tools.
package formatutil

import (
	"fmt"
	"os"
	"strconv"

	"golang.org/x/term"
)

// colors is true when the escape sequences are printed. By default, colors are used when the standard output is a
// terminal.
var colors = term.IsTerminal(int(os.Stdout.Fd()))

var (
	Bold   = Color("1")
	Faint  = Color("2")
	Red    = Color("1;31")
	Green  = Color("1;32")
	Yellow = Color("1;33")
)

// SetColors turns colors on or off, regardless of the standard output
func SetColors(on bool) {
	colors = on
}

// Color returns a function that formats its arguments like fmt.Sprint, surrounded by the select graphic rendition
// code when colors are on.
func Color(code string) func(...interface{}) string {
	return func(args ...interface{}) string {
		s := fmt.Sprint(args...)
		if !colors {
			return s
		}
		return "\033[" + code + "m" + s + "\033[0m"
	}
}

// Sanitize escapes the control characters of s, so that source text printed in a report cannot emit escape
// sequences.
func Sanitize(s string) string {
	q := strconv.Quote(s)
	return q[1 : len(q)-1]
}
