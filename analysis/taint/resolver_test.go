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

package taint

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/awslabs/ar-php-tools/analysis/config"
	"github.com/awslabs/ar-php-tools/analysis/lang"
	"github.com/awslabs/ar-php-tools/analysis/loader"
	"github.com/google/go-cmp/cmp"
)

const indexFile = "/app/index.php"

// fakeParser returns the scripts it holds, keyed by file
type fakeParser map[string]*lang.Script

func (p fakeParser) ParseFile(path string) (*lang.Script, error) {
	if s, ok := p[path]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("%s: %w: no such script", path, loader.ErrParse)
}

// fakeFiles is a file system where the files are the keys of the map
type fakeFiles map[string]bool

func (f fakeFiles) IsFile(path string) bool { return f[path] }

func (f fakeFiles) Resolve(base string, path string) (string, bool) {
	return loader.ResolveWith(f, nil, base, path)
}

func quietLogger() *config.LogGroup {
	return config.NewLogGroupWithOutput(config.ErrLevel, io.Discard)
}

// newTestResolver returns a resolver with the default config where every script is a file
func newTestResolver(cfg *config.Config, scripts ...*lang.Script) *Resolver {
	parser := fakeParser{}
	files := fakeFiles{}
	for _, s := range scripts {
		parser[s.File] = s
		files[s.File] = true
	}
	if cfg == nil {
		cfg = config.NewDefault()
	}
	return NewResolver(cfg, quietLogger(), parser, files)
}

func newScript(file string, entry *lang.Block, functions ...*lang.FunctionDecl) *lang.Script {
	s := lang.NewScript(file)
	s.Main.CFG = entry
	s.Functions = functions
	return s
}

func block(ops ...lang.Operation) *lang.Block {
	return lang.NewBlock().Add(ops...)
}

func lit(s string) *lang.Literal { return lang.NewLiteral(s) }

func assign(name string, e lang.Operand) *lang.Assign {
	return &lang.Assign{Var: lang.NewVariable(name), Expr: e}
}

func superGlobal(array string, key string) *lang.ArrayElementFetch {
	return &lang.ArrayElementFetch{Var: lang.Read(array), Dim: lit(key)}
}

func call(name string, args ...lang.Operand) *lang.FunctionCall {
	return &lang.FunctionCall{Name: lit(name), Args: args}
}

func concat(parts ...lang.Operand) *lang.StringConcatenation {
	return &lang.StringConcatenation{Parts: parts}
}

func run(t *testing.T, r *Resolver, entry string) Scope {
	t.Helper()
	s, err := r.Run(entry)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return s
}

func checkTaint(t *testing.T, r *Resolver, op lang.Operation, want Taint) {
	t.Helper()
	got, ok := r.Annotations().Taint(op)
	if !ok {
		t.Errorf("%s %s has no taint, want %s", lang.OpKind(op), lang.UnwrapOp(op), want)
		return
	}
	if got != want {
		t.Errorf("%s %s has taint %s, want %s", lang.OpKind(op), lang.UnwrapOp(op), got, want)
	}
}

func TestTransferLiteral(t *testing.T) {
	tf := NewTransitionFunction(config.NewDefault(), NewAnnotations(), quietLogger())
	scope := NewScope(indexFile).AssignVariable("x", Tainted)
	for _, s := range []string{"", "abc", "$x", "42"} {
		if got := tf.Transfer(scope, lit(s)); got != Untainted {
			t.Errorf("literal %q has taint %s", s, got)
		}
	}
}

func TestTransferOp(t *testing.T) {
	tf := NewTransitionFunction(config.NewDefault(), NewAnnotations(), quietLogger())
	scope := NewScope(indexFile).AssignVariable("t", Tainted).AssignVariable("u", Untainted)
	tests := []struct {
		name string
		op   lang.Operation
		want Taint
	}{
		{"bare return", &lang.Return{}, Untainted},
		{"return tainted", &lang.Return{Expr: lang.Read("t")}, Tainted},
		{"source", call("getenv", lit("HOME")), Tainted},
		{"sanitizer", call("intval", lang.Read("t")), Untainted},
		{"sanitizer of another context", call("htmlspecialchars", lang.Read("t")), Untainted},
		{"builtin propagating", call("strtolower", lang.Read("t")), Tainted},
		{"builtin not propagating", call("strlen", lang.Read("t")), Untainted},
		{"unknown function", call("mystery", lang.Read("u")), Unknown},
		{"unknown function tainted arg", call("mystery", lang.Read("t")), Tainted},
		{"constant", &lang.ConstantFetch{Name: "PHP_EOL"}, Untainted},
		{"other", &lang.ObjectInstantiation{Class: lit("Foo")}, Unknown},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := tf.TransferOp(scope, test.op); got != test.want {
				t.Errorf("TransferOp = %s, want %s", got, test.want)
			}
		})
	}
}

func TestSuperGlobalReadIsTainted(t *testing.T) {
	fetch := superGlobal("_GET", "id")
	byVar := &lang.ArrayElementFetch{Var: lang.Read("_REQUEST"), Dim: lang.Read("k")}
	x := assign("x", lang.ResultOf(fetch))
	r := newTestResolver(nil, newScript(indexFile, block(fetch, byVar, x)))
	scope := run(t, r, indexFile)
	checkTaint(t, r, fetch, Tainted)
	checkTaint(t, r, byVar, Tainted)
	checkTaint(t, r, x, Tainted)
	if scope.VariableTaint("x") != Tainted {
		t.Errorf("x should be tainted")
	}
}

func TestReassignmentClearsTaint(t *testing.T) {
	fetch := superGlobal("_POST", "name")
	read1 := concat(lang.Read("x"))
	read2 := concat(lang.Read("x"))
	r := newTestResolver(nil, newScript(indexFile, block(
		fetch,
		assign("x", lang.ResultOf(fetch)),
		read1,
		assign("x", lit("safe")),
		read2,
	)))
	scope := run(t, r, indexFile)
	checkTaint(t, r, read1, Tainted)
	checkTaint(t, r, read2, Untainted)
	if scope.VariableTaint("x") != Untainted {
		t.Errorf("x should be untainted at the end")
	}
}

func TestConcatenationNeverSanitizes(t *testing.T) {
	fetch := superGlobal("_COOKIE", "c")
	c := concat(lit("safe"), lang.Read("t"))
	safe := concat(lit("a"), lit("b"))
	unknown := concat(lit("a"), lang.Read("unbound"))
	r := newTestResolver(nil, newScript(indexFile, block(
		fetch, assign("t", lang.ResultOf(fetch)), c, safe, unknown)))
	run(t, r, indexFile)
	checkTaint(t, r, c, Tainted)
	checkTaint(t, r, safe, Untainted)
	checkTaint(t, r, unknown, Unknown)
}

func TestCasts(t *testing.T) {
	fetch := superGlobal("_GET", "n")
	tests := []struct {
		kind lang.CastKind
		want Taint
	}{
		{lang.CastInt, Untainted},
		{lang.CastFloat, Untainted},
		{lang.CastBool, Untainted},
		{lang.CastUnset, Untainted},
		{lang.CastString, Tainted},
		{lang.CastArray, Tainted},
		{lang.CastObject, Tainted},
	}
	for _, test := range tests {
		t.Run(test.kind.String(), func(t *testing.T) {
			cast := &lang.Cast{Kind: test.kind, Expr: lang.ResultOf(fetch)}
			x := assign("x", lang.ResultOf(cast))
			r := newTestResolver(nil, newScript(indexFile, block(fetch, cast, x)))
			scope := run(t, r, indexFile)
			checkTaint(t, r, cast, test.want)
			if scope.VariableTaint("x") != test.want {
				t.Errorf("x has taint %s, want %s", scope.VariableTaint("x"), test.want)
			}
		})
	}
}

func identity() *lang.FunctionDecl {
	f := lang.NewFunctionDecl("f", indexFile, "a")
	f.CFG.Add(&lang.Return{Expr: lang.Read("a")})
	return f
}

func TestFunctionCallMemo(t *testing.T) {
	f := identity()
	get := superGlobal("_GET", "a")
	post := superGlobal("_POST", "b")
	call1 := call("f", lang.ResultOf(get))
	call2 := call("F", lang.ResultOf(post))
	call3 := call("f", lit("x"))
	r := newTestResolver(nil, newScript(indexFile, block(
		&lang.FunctionDeclaration{Func: f}, get, call1, post, call2, call3), f))
	run(t, r, indexFile)

	checkTaint(t, r, call1, Tainted)
	checkTaint(t, r, call2, Tainted)
	checkTaint(t, r, call3, Untainted)
	if n := r.BodyWalks(f); n != 2 {
		t.Errorf("body of f should be walked once per argument taint vector, walked %d times", n)
	}
	if r.Memo().Len() != 2 {
		t.Fatalf("expected 2 memo entries, got %d", r.Memo().Len())
	}
	first := r.Memo().Entries()[0]
	if first.Function != f || len(first.Args) != 1 || first.Args[0] != (ArgTaint{"a", Tainted}) ||
		first.Result != Tainted {
		t.Errorf("unexpected first entry %s", first)
	}
}

func TestFunctionWithoutReturnIsUnknown(t *testing.T) {
	f := lang.NewFunctionDecl("log_it", indexFile, "msg")
	c := call("log_it", lit("x"))
	r := newTestResolver(nil, newScript(indexFile, block(c), f))
	run(t, r, indexFile)
	checkTaint(t, r, c, Unknown)
}

func TestUndeclaredFunctions(t *testing.T) {
	f := lang.NewFunctionDecl("log_it", indexFile, "msg")
	ops := []lang.Operation{
		call("Mystery", lit("x")),
		call("\\mystery"),
		call("helper"),
		call("strlen", lit("x")),
		call("system", lit("ls")),
		call("htmlspecialchars", lit("x")),
		call("log_it", lit("x")),
		&lang.FunctionCall{Name: lang.Read("callback")},
	}
	r := newTestResolver(nil, newScript(indexFile, block(ops...), f))
	run(t, r, indexFile)
	if diff := cmp.Diff([]string{"helper", "mystery"}, r.UndeclaredFunctions()); diff != "" {
		t.Errorf("unexpected undeclared functions (-want +got):\n%s", diff)
	}
	checkTaint(t, r, ops[0], Unknown)
}

func TestMissingArgumentsUseDefaults(t *testing.T) {
	f := lang.NewFunctionDecl("g", indexFile, "a", "b", "c")
	f.Params[1].Default = lit("default")
	f.CFG.Add(&lang.Return{Expr: lang.Read("b")})
	g := lang.NewFunctionDecl("h", indexFile, "a", "b")
	g.CFG.Add(&lang.Return{Expr: lang.Read("b")})
	c1 := call("g", lit("x"))
	c2 := call("h", lit("x"))
	r := newTestResolver(nil, newScript(indexFile, block(c1, c2), f, g))
	run(t, r, indexFile)
	checkTaint(t, r, c1, Untainted)
	checkTaint(t, r, c2, Unknown)
	args := r.Memo().Entries()[0].Args
	if args[2] != (ArgTaint{"c", Unknown}) {
		t.Errorf("missing argument without default should be unknown, got %v", args[2])
	}
}

func TestRecursionTerminates(t *testing.T) {
	f := lang.NewFunctionDecl("loop", indexFile, "a")
	inner := call("loop", lang.Read("a"))
	f.CFG.Add(inner, &lang.Return{Expr: lang.ResultOf(inner)})
	get := superGlobal("_GET", "x")
	outer := call("loop", lang.ResultOf(get))
	r := newTestResolver(nil, newScript(indexFile, block(get, outer), f))
	run(t, r, indexFile)
	checkTaint(t, r, inner, Unknown)
	checkTaint(t, r, outer, Unknown)
	if n := r.BodyWalks(f); n != 1 {
		t.Errorf("recursive call should not walk the body again, walked %d times", n)
	}
}

func TestMaxDepth(t *testing.T) {
	// main -> a -> b, where b is one call too deep
	a := lang.NewFunctionDecl("a", indexFile, "x")
	b := lang.NewFunctionDecl("b", indexFile, "x")
	callB := call("b", lang.Read("x"))
	a.CFG.Add(callB, &lang.Return{Expr: lang.ResultOf(callB)})
	b.CFG.Add(&lang.Return{Expr: lang.Read("x")})
	get := superGlobal("_GET", "x")
	callA := call("a", lang.ResultOf(get))
	cfg := config.NewDefault()
	cfg.MaxDepth = 1
	r := newTestResolver(cfg, newScript(indexFile, block(get, callA), a, b))
	run(t, r, indexFile)
	checkTaint(t, r, callA, Unknown)
	if r.BodyWalks(b) != 0 {
		t.Errorf("b should not be analyzed beyond the maximum depth")
	}
}

func TestRedeclaredFunction(t *testing.T) {
	f1 := lang.NewFunctionDecl("dup", indexFile)
	f2 := lang.NewFunctionDecl("DUP", indexFile)
	r := newTestResolver(nil, newScript(indexFile, block(), f1, f2))
	_, err := r.Run(indexFile)
	if !errors.Is(err, ErrRedeclaredFunction) {
		t.Errorf("expected a redeclaration error, got %v", err)
	}

	r = newTestResolver(nil, newScript(indexFile, block(&lang.FunctionDeclaration{Func: f1}), f1))
	if _, err := r.Run(indexFile); err != nil {
		t.Errorf("declaring the same function again should not fail: %v", err)
	}
	if fn, ok := r.Function("Dup"); !ok || fn != f1 {
		t.Errorf("functions should be found case-insensitively")
	}
}

func TestClosureAlias(t *testing.T) {
	closure := lang.NewFunctionDecl("{closure#1}", indexFile, "p")
	closure.CFG.Add(&lang.Return{Expr: lang.Read("p")})
	decl := &lang.ClosureDeclaration{Func: closure}
	get := superGlobal("_GET", "x")
	c := &lang.FunctionCall{Name: lang.Read("g"), Args: []lang.Operand{lang.ResultOf(get)}}
	r := newTestResolver(nil, newScript(indexFile, block(decl, assign("g", lang.ResultOf(decl)), get, c)))
	run(t, r, indexFile)
	checkTaint(t, r, decl, Untainted)
	checkTaint(t, r, c, Tainted)
	if r.BodyWalks(closure) != 1 {
		t.Errorf("closure should be walked through its alias")
	}
}

func TestObjectTypesAndProperties(t *testing.T) {
	n := &lang.ObjectInstantiation{Class: lit("Request")}
	o := assign("o", lang.ResultOf(n))
	get := superGlobal("_GET", "q")
	prop := &lang.PropertyFetch{Var: lang.Read("o"), Name: lit("q")}
	set := &lang.Assign{Var: &lang.Temporary{Ops: []lang.Operation{prop}}, Expr: lang.ResultOf(get)}
	read := &lang.PropertyFetch{Var: lang.Read("o"), Name: lit("q")}
	other := &lang.PropertyFetch{Var: lang.Read("o"), Name: lit("other")}
	r := newTestResolver(nil, newScript(indexFile, block(n, o, get, set, read, other)))
	run(t, r, indexFile)
	if typ, ok := r.Annotations().Type(o); !ok || typ != "Request" {
		t.Errorf("assignment of new object should have its type, got %q", typ)
	}
	if _, ok := r.Annotations().Taint(n); ok {
		t.Errorf("object instantiation should not have a taint")
	}
	checkTaint(t, r, read, Tainted)
	checkTaint(t, r, other, Unknown)
}

func TestWeakAssignJoins(t *testing.T) {
	get := superGlobal("_GET", "x")
	weak := &lang.Assign{Var: lang.NewVariable("arr"), Expr: lang.ResultOf(get), Weak: true}
	r := newTestResolver(nil, newScript(indexFile, block(
		assign("arr", lit("[]")), get, weak, &lang.Assign{Var: lang.NewVariable("arr"), Expr: lit("x"), Weak: true})))
	scope := run(t, r, indexFile)
	checkTaint(t, r, weak, Tainted)
	if scope.VariableTaint("arr") != Tainted {
		t.Errorf("weak assignment of untainted data should not clear the taint of arr")
	}
}

// branches returns a script if (c) { $x = then } else { $x = else } $y = $x;
func branches(thenValue lang.Operand, thenOps []lang.Operation, elseValue lang.Operand,
	elseOps []lang.Operation) (*lang.Script, *lang.Assign) {
	y := assign("y", lang.Read("x"))
	merge := block(y)
	thenBlock := block(append(thenOps, assign("x", thenValue), &lang.Jump{Target: merge})...)
	elseBlock := block(append(elseOps, assign("x", elseValue), &lang.Jump{Target: merge})...)
	entry := block(&lang.ConditionalJump{Cond: lang.Read("c"), If: thenBlock, Else: elseBlock})
	return newScript(indexFile, entry), y
}

func TestConditionalJoin(t *testing.T) {
	get := superGlobal("_GET", "x")
	s, y := branches(lit("a"), nil, lang.ResultOf(get), []lang.Operation{get})
	r := newTestResolver(nil, s)
	run(t, r, indexFile)
	checkTaint(t, r, y, Tainted)
	checkTaint(t, r, get, Tainted)

	s, y = branches(lit("a"), nil, lit("b"), nil)
	r = newTestResolver(nil, s)
	run(t, r, indexFile)
	checkTaint(t, r, y, Untainted)
}

func TestSingleBranchConditionals(t *testing.T) {
	get := superGlobal("_GET", "x")
	s, y := branches(lit("a"), nil, lang.ResultOf(get), []lang.Operation{get})
	cfg := config.NewDefault()
	cfg.SingleBranchConditionals = true
	r := newTestResolver(cfg, s)
	run(t, r, indexFile)
	checkTaint(t, r, y, Untainted)
	if _, ok := r.Annotations().Get(get); ok {
		t.Errorf("else branch should not be visited")
	}
}

func TestLoopTerminates(t *testing.T) {
	get := superGlobal("_GET", "x")
	exit := block(assign("y", lang.Read("x")))
	header := lang.NewBlock()
	body := block(get, assign("x", lang.ResultOf(get)), &lang.Jump{Target: header})
	header.Add(&lang.ConditionalJump{Cond: lang.Read("c"), If: body, Else: exit})
	entry := block(assign("x", lit("a")), &lang.Jump{Target: header})
	r := newTestResolver(nil, newScript(indexFile, entry))
	scope := run(t, r, indexFile)
	if scope.VariableTaint("y") != Tainted {
		t.Errorf("value assigned in the loop should reach the exit, y is %s", scope.VariableTaint("y"))
	}
}

func TestCallbacksSeeEveryOperation(t *testing.T) {
	get := superGlobal("_GET", "x")
	ops := []lang.Operation{get, assign("x", lang.ResultOf(get)), concat(lang.Read("x"))}
	r := newTestResolver(nil, newScript(indexFile, block(ops...)))
	var seen []lang.Operation
	var last Scope
	r.AddCallback(func(op lang.Operation, scope Scope) {
		seen = append(seen, op)
		last = scope
	})
	run(t, r, indexFile)
	if len(seen) != len(ops) {
		t.Fatalf("expected %d callbacks, got %d", len(ops), len(seen))
	}
	for i := range ops {
		if seen[i] != ops[i] {
			t.Errorf("callback %d is for %s", i, lang.OpKind(seen[i]))
		}
	}
	if last.VariableTaint("x") != Tainted {
		t.Errorf("callback should receive the scope after the operation")
	}
}
