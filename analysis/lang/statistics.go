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

package lang

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Statistics counts the functions, blocks and operations of a set of scripts
type Statistics struct {
	NumberOfScripts           uint
	NumberOfFunctions         uint
	NumberOfNonemptyFunctions uint
	NumberOfBlocks            uint
	NumberOfOperations        uint
	// OperationsByKind maps the kinds returned by OpKind to the number of operations of that kind
	OperationsByKind map[string]uint
}

// ScriptStatistics returns general statistics about the control-flow graphs of the scripts. The main function of
// each script is counted as a function. Only the blocks reachable from the entry of a function are counted.
func ScriptStatistics(scripts []*Script) Statistics {
	result := Statistics{OperationsByKind: map[string]uint{}}

	for _, s := range scripts {
		result.NumberOfScripts++
		for _, f := range append([]*FunctionDecl{s.Main}, s.Functions...) {
			result.NumberOfFunctions++
			nonEmpty := false
			for _, b := range Blocks(f) {
				result.NumberOfBlocks++
				result.NumberOfOperations += uint(len(b.Ops))
				for _, op := range b.Ops {
					result.OperationsByKind[OpKind(op)]++
				}
				nonEmpty = nonEmpty || len(b.Ops) > 0
			}
			if nonEmpty {
				result.NumberOfNonemptyFunctions++
			}
		}
	}

	return result
}

// String returns the statistics on one line, operation kinds sorted by name
func (s Statistics) String() string {
	kinds := maps.Keys(s.OperationsByKind)
	slices.Sort(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s=%d", k, s.OperationsByKind[k])
	}
	return fmt.Sprintf("%d scripts, %d functions (%d non-empty), %d blocks, %d operations [%s]",
		s.NumberOfScripts, s.NumberOfFunctions, s.NumberOfNonemptyFunctions, s.NumberOfBlocks, s.NumberOfOperations,
		strings.Join(parts, " "))
}
