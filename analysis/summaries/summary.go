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

// Package summaries defines how taint flows through PHP builtin functions and language operators.
// These summaries are only for pre-determined functions (the PHP standard extensions) and are not computed during
// the analysis.
package summaries

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Summary describes the flow of data from the arguments of a builtin to its returned value.
type Summary struct {
	// Rets lists the argument positions whose data flows to the returned value. For example, Rets = [0] means the
	// returned value is tainted when the first argument is. An empty Rets means the returned value never carries
	// data from the arguments.
	Rets []int
	// AllArgs means every argument, including variadic ones, flows to the returned value. Rets is ignored.
	AllArgs bool
}

// NoDataFlowPropagation is a summary for functions whose returned value does not carry data from their arguments,
// e.g. strlen or is_numeric.
var NoDataFlowPropagation = Summary{Rets: []int{}}

// FirstArgPropagation is a summary for functions returning a transformation of their first argument.
var FirstArgPropagation = Summary{Rets: []int{0}}

// SecondArgPropagation is a summary for functions returning a transformation of their second argument, e.g.
// explode($delimiter, $string).
var SecondArgPropagation = Summary{Rets: []int{1}}

// AllArgsPropagation is a summary for functions whose result is built from all their arguments, e.g. sprintf.
var AllArgsPropagation = Summary{AllArgs: true}

// Propagates returns true if the data of argument i flows to the returned value.
func (s Summary) Propagates(i int) bool {
	return s.AllArgs || slices.Contains(s.Rets, i)
}

// PropagatedArgs returns the positions, among n arguments, whose data flows to the returned value.
func (s Summary) PropagatedArgs(n int) []int {
	var res []int
	for i := 0; i < n; i++ {
		if s.Propagates(i) {
			res = append(res, i)
		}
	}
	return res
}

// SummaryOfFunc returns the summary of the builtin named name and true if it has one, otherwise it returns an empty
// summary and false. Names are case-insensitive.
func SummaryOfFunc(name string) (Summary, bool) {
	name = strings.ToLower(strings.TrimPrefix(name, "\\"))
	for _, ext := range stdExtensions {
		if s, ok := ext[name]; ok {
			return s, true
		}
	}
	if s, ok := operators[name]; ok {
		return s, true
	}
	return Summary{}, false
}

// IsBuiltin returns true when name is a function of one of the standard PHP extensions, a language construct or an
// operator that has a summary.
func IsBuiltin(name string) bool {
	_, ok := SummaryOfFunc(name)
	return ok
}
