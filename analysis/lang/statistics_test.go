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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScriptStatistics(t *testing.T) {
	s := NewScript("/app/index.php")
	then, merge := NewBlock(), NewBlock()
	s.Main.CFG.Add(
		&Assign{Var: NewVariable("a"), Expr: NewLiteral("x")},
		&ConditionalJump{Cond: Read("a"), If: then, Else: merge})
	then.Add(&Jump{Target: merge})
	merge.Add(&Include{Kind: KindInclude, Expr: Read("a")})
	// a block that is never reached is not counted
	NewBlock().Add(&Return{})

	empty := NewFunctionDecl("f", s.File)
	s.Functions = append(s.Functions, empty)

	got := ScriptStatistics([]*Script{s})
	want := Statistics{
		NumberOfScripts:           1,
		NumberOfFunctions:         2,
		NumberOfNonemptyFunctions: 1,
		NumberOfBlocks:            4,
		NumberOfOperations:        4,
		OperationsByKind:          map[string]uint{"assign": 1, "jump-if": 1, "jump": 1, "include": 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected statistics (-want +got):\n%s", diff)
	}
	if got.String() != "1 scripts, 2 functions (1 non-empty), 4 blocks, 4 operations [assign=1 include=1 jump=1 jump-if=1]" {
		t.Errorf("unexpected string %q", got.String())
	}
}
