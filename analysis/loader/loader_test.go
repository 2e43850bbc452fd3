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

package loader

import (
	"errors"
	"io"
	"testing"

	"github.com/awslabs/ar-php-tools/analysis/config"
	"github.com/awslabs/ar-php-tools/analysis/lang"
	"github.com/google/go-cmp/cmp"
)

type fakeFiles map[string]bool

func (f fakeFiles) IsFile(path string) bool { return f[path] }

func TestResolveWith(t *testing.T) {
	files := fakeFiles{
		"/app/lib/util.php":    true,
		"/app/config.php":      true,
		"/usr/share/php/x.php": true,
	}
	include := []string{"/usr/share/php"}
	tests := []struct {
		base string
		path string
		want string
		ok   bool
	}{
		{"/app/index.php", "config.php", "/app/config.php", true},
		{"/app/index.php", "lib/util.php", "/app/lib/util.php", true},
		{"/app/lib/util.php", "../config.php", "/app/config.php", true},
		{"/app/index.php", "/app/lib/../config.php", "/app/config.php", true},
		{"/app/index.php", "x.php", "/usr/share/php/x.php", true},
		{"/app/index.php", "missing.php", "", false},
		{"/app/index.php", "", "", false},
	}
	for _, test := range tests {
		got, ok := ResolveWith(files, include, test.base, test.path)
		if got != test.want || ok != test.ok {
			t.Errorf("ResolveWith(%q, %q) = %q, %v; want %q, %v", test.base, test.path, got, ok, test.want, test.ok)
		}
	}
}

func parse(t *testing.T, src string) *lang.Script {
	t.Helper()
	p := NewPHPParser(config.NewLogGroupWithOutput(config.ErrLevel, io.Discard))
	s, err := p.ParseSource("/app/index.php", []byte(src))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return s
}

// ops returns the kinds of all operations of the function, in block order
func ops(f *lang.FunctionDecl) []string {
	var kinds []string
	for _, b := range lang.Blocks(f) {
		for _, op := range b.Ops {
			kinds = append(kinds, lang.OpKind(op))
		}
	}
	return kinds
}

func TestParseSourceError(t *testing.T) {
	p := NewPHPParser(config.NewLogGroupWithOutput(config.ErrLevel, io.Discard))
	_, err := p.ParseSource("/app/bad.php", []byte("<?php $a = ;"))
	if !errors.Is(err, ErrParse) {
		t.Errorf("expected a parse error, got %v", err)
	}
}

func TestLowerAssignments(t *testing.T) {
	s := parse(t, `<?php
$a = "x";
$b = $a . $_GET["p"];
echo $b;
`)
	want := []string{"assign", "array-fetch", "concat", "assign", "call"}
	if diff := cmp.Diff(want, ops(s.Main)); diff != "" {
		t.Errorf("unexpected operations (-want +got):\n%s", diff)
	}
	first, ok := s.Main.CFG.Ops[0].(*lang.Assign)
	if !ok {
		t.Fatalf("first op should be an assignment")
	}
	if lit, ok := first.Expr.(*lang.Literal); !ok || lit.Value != "x" {
		t.Errorf("string literal should be unquoted, got %#v", first.Expr)
	}
	if first.Position().Line != 2 {
		t.Errorf("assignment should be on line 2, got %v", first.Position())
	}
	concat := s.Main.CFG.Ops[2].(*lang.StringConcatenation)
	v, ok := lang.BaseVariable(concat.Parts[0])
	if !ok || v.Name != "a" {
		t.Fatalf("first part of the concatenation should read $a")
	}
	if len(v.Defs) != 1 || v.Defs[0] != first {
		t.Errorf("read of $a should be defined by the first assignment")
	}
}

func TestLowerFunctions(t *testing.T) {
	s := parse(t, `<?php
function greet($name, $greeting = "hello") {
	return $greeting . $name;
}
$f = function($x) { return $x; };
greet("a");
`)
	if len(s.Functions) != 1 {
		t.Fatalf("expected one declared function, got %d", len(s.Functions))
	}
	fn := s.Functions[0]
	if fn.Name != "greet" || fn.File != "/app/index.php" {
		t.Errorf("unexpected function %s in %s", fn.Name, fn.File)
	}
	if len(fn.Params) != 2 || fn.Params[0].Default != nil {
		t.Fatalf("unexpected parameters %v", fn.Params)
	}
	if d, ok := fn.Params[1].Default.(*lang.Literal); !ok || d.Value != "hello" {
		t.Errorf("expected literal default, got %#v", fn.Params[1].Default)
	}
	if diff := cmp.Diff([]string{"concat", "return"}, ops(fn)); diff != "" {
		t.Errorf("unexpected body (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"function", "closure", "assign", "call"}, ops(s.Main)); diff != "" {
		t.Errorf("unexpected main (-want +got):\n%s", diff)
	}
}

func TestLowerIfMergesDefinitions(t *testing.T) {
	s := parse(t, `<?php
if ($c) {
	$a = "x";
} else {
	$a = "y";
}
include $a;
`)
	var inc *lang.Include
	for _, b := range lang.Blocks(s.Main) {
		for _, op := range b.Ops {
			if i, ok := op.(*lang.Include); ok {
				inc = i
			}
		}
	}
	if inc == nil {
		t.Fatalf("include not lowered")
	}
	v, ok := lang.BaseVariable(inc.Expr)
	if !ok {
		t.Fatalf("include should read a variable")
	}
	if len(v.Defs) != 2 {
		t.Errorf("both branch definitions should reach the include, got %d", len(v.Defs))
	}
	if inc.Kind != lang.KindInclude {
		t.Errorf("expected include kind, got %s", inc.Kind)
	}
}

func TestLowerParameterDefinitionReachesBody(t *testing.T) {
	s := parse(t, `<?php
function load($p) {
	if ($c) {
		$p = "safe.php";
	}
	include $p;
}
`)
	fn := s.Functions[0]
	var inc *lang.Include
	for _, b := range lang.Blocks(fn) {
		for _, op := range b.Ops {
			if i, ok := op.(*lang.Include); ok {
				inc = i
			}
		}
	}
	if inc == nil {
		t.Fatalf("include not lowered")
	}
	v, ok := lang.BaseVariable(inc.Expr)
	if !ok || len(v.Defs) != 2 {
		t.Fatalf("the parameter and the branch assignment should reach the include, got %v", v)
	}
	incoming, ok := v.Defs[0].(*lang.Assign)
	if !ok {
		t.Fatalf("expected an assignment defining the parameter, got %s", lang.OpKind(v.Defs[0]))
	}
	if tmp, ok := incoming.Expr.(*lang.Temporary); !ok || tmp.Original != nil || len(tmp.Ops) != 0 {
		t.Errorf("the value of the parameter should be unknown, got %s", lang.UnwrapOperand(incoming.Expr))
	}
	if incoming.Position().Line != 2 {
		t.Errorf("the parameter should be defined at line 2, got %s", incoming.Position())
	}
	for _, b := range lang.Blocks(fn) {
		for _, op := range b.Ops {
			if op == incoming {
				t.Errorf("the parameter definition should not be part of the body")
			}
		}
	}
}

func TestLowerIncludeKindsAndCasts(t *testing.T) {
	s := parse(t, `<?php
require_once __DIR__ . "/lib.php";
include_once (int) $_GET["id"];
`)
	var kinds []lang.IncludeKind
	var casts []lang.CastKind
	for _, op := range s.Main.CFG.Ops {
		switch x := op.(type) {
		case *lang.Include:
			kinds = append(kinds, x.Kind)
		case *lang.Cast:
			casts = append(casts, x.Kind)
		}
	}
	if diff := cmp.Diff([]lang.IncludeKind{lang.KindRequireOnce, lang.KindIncludeOnce}, kinds); diff != "" {
		t.Errorf("unexpected include kinds (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]lang.CastKind{lang.CastInt}, casts); diff != "" {
		t.Errorf("unexpected casts (-want +got):\n%s", diff)
	}
	path := s.Main.CFG.Ops[0].(*lang.StringConcatenation)
	if dir, ok := path.Parts[0].(*lang.Literal); !ok || dir.Value != "/app" {
		t.Errorf("expected __DIR__ to be replaced by the directory of the file, got %#v", path.Parts[0])
	}
}

func TestLowerLoopHasBackEdge(t *testing.T) {
	s := parse(t, `<?php
while ($i < 10) {
	$i = $i + 1;
}
`)
	header := lang.Successors(s.Main.CFG)
	if len(header) != 1 {
		t.Fatalf("entry should jump to the loop header")
	}
	body := lang.Successors(header[0])
	if len(body) != 2 {
		t.Fatalf("loop header should branch to the body and the exit, got %d successors", len(body))
	}
	if !reaches(body[0], header[0]) {
		t.Errorf("loop body should jump back to the header")
	}
	if reaches(body[1], header[0]) {
		t.Errorf("loop exit should not reach the header")
	}
}

// reaches returns true if there is a path from b1 to b2
func reaches(b1 *lang.Block, b2 *lang.Block) bool {
	for _, b := range lang.Blocks(&lang.FunctionDecl{CFG: b1}) {
		if b == b2 {
			return true
		}
	}
	return false
}
