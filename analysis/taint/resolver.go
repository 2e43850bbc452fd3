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
	"fmt"
	"path/filepath"
	"strings"

	"github.com/awslabs/ar-php-tools/analysis/config"
	"github.com/awslabs/ar-php-tools/analysis/lang"
	"github.com/awslabs/ar-php-tools/analysis/loader"
	"github.com/awslabs/ar-php-tools/analysis/summaries"
	"github.com/awslabs/ar-php-tools/internal/graphutil"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/tools/container/intsets"
)

// OpCallback is called after the resolver visits an operation, with the scope after the operation
type OpCallback func(op lang.Operation, scope Scope)

// A frame is the state of the walk of one function body or file
type frame struct {
	fn *lang.FunctionDecl
	// visited contains the ids of the blocks walked in this frame
	visited intsets.Sparse
	// barriers counts, per block id, the conditional jumps that will walk the block after joining their branches
	barriers map[int]int
	returns  []Taint
}

// Resolver walks control-flow graphs, threading a Scope through the operations and annotating every visited
// operation with its taint. Calls to user functions are resolved by walking their body, once per vector of argument
// taints; included files are parsed and walked when their path can be resolved.
//
// A Resolver runs one analysis: create a new one for each entry point.
type Resolver struct {
	config      *config.Config
	logger      *config.LogGroup
	parser      loader.Parser
	files       loader.FileHelper
	tf          *TransitionFunction
	annotations *Annotations
	memo        *Memo
	callbacks   []OpCallback

	// functions maps lower-case function names, and "$"-prefixed names of variables bound to closures, to their
	// declaration
	functions map[string]*lang.FunctionDecl

	// scope is the current scope of the walk
	scope  Scope
	frames []*frame
	// calls are the calls being resolved, innermost last. The results are not set.
	calls []FuncCallMapping

	// includes is the chain of files being analyzed, the current file last
	includes     *graphutil.Tree[string]
	includeGraph *graphutil.IncludeGraph
	callGraph    *graphutil.NamedGraph
	// fileResults are the result taints of the files analyzed
	fileResults map[string]Taint

	// scripts are the scripts analyzed, entry first
	scripts []*lang.Script
	// undeclared are the lower-case names of the functions called that are neither declared, builtins nor in the
	// catalog
	undeclared map[string]bool
	bodyWalks  map[*lang.FunctionDecl]int
	errors     []error
}

// NewResolver returns a resolver using the sources, sanitizers and options of cfg. The parser and file helper are
// used to analyze included files.
func NewResolver(cfg *config.Config, logger *config.LogGroup, parser loader.Parser,
	files loader.FileHelper) *Resolver {
	annotations := NewAnnotations()
	return &Resolver{
		config:       cfg,
		logger:       logger,
		parser:       parser,
		files:        files,
		tf:           NewTransitionFunction(cfg, annotations, logger),
		annotations:  annotations,
		memo:         NewMemo(cfg.MaxMemoEntries),
		functions:    map[string]*lang.FunctionDecl{},
		includeGraph: graphutil.NewIncludeGraph(),
		callGraph:    graphutil.NewNamedGraph(),
		fileResults:  map[string]Taint{},
		undeclared:   map[string]bool{},
		bodyWalks:    map[*lang.FunctionDecl]int{},
	}
}

// AddCallback registers cb to be called after every operation visited
func (r *Resolver) AddCallback(cb OpCallback) {
	r.callbacks = append(r.callbacks, cb)
}

// Annotations returns the annotations computed so far
func (r *Resolver) Annotations() *Annotations { return r.annotations }

// Memo returns the function call memo
func (r *Resolver) Memo() *Memo { return r.memo }

// TransitionFunction returns the transition function of the resolver
func (r *Resolver) TransitionFunction() *TransitionFunction { return r.tf }

// Errors returns the errors recorded while analyzing included files
func (r *Resolver) Errors() []error { return r.errors }

// Scripts returns the entry script and the included scripts analyzed, in the order they were first analyzed
func (r *Resolver) Scripts() []*lang.Script { return r.scripts }

// UndeclaredFunctions returns the sorted names of the functions called that are neither declared in the files
// analyzed, known builtins, sources, sanitizers nor sinks. Their results are at least Unknown.
func (r *Resolver) UndeclaredFunctions() []string {
	names := maps.Keys(r.undeclared)
	slices.Sort(names)
	return names
}

// BodyWalks returns the number of times the body of fn has been walked
func (r *Resolver) BodyWalks(fn *lang.FunctionDecl) int { return r.bodyWalks[fn] }

// Function returns the declaration of the function name, case-insensitively
func (r *Resolver) Function(name string) (*lang.FunctionDecl, bool) {
	fn, ok := r.functions[strings.ToLower(strings.TrimPrefix(name, "\\"))]
	return fn, ok
}

// Run analyzes the file entry and returns the scope at the end of its top-level code. The error is non-nil if the
// file could not be parsed, or declares a function twice.
func (r *Resolver) Run(entry string) (Scope, error) {
	entry = filepath.Clean(entry)
	script, err := r.parser.ParseFile(entry)
	if err != nil {
		return Scope{}, fmt.Errorf("could not analyze %s: %w", entry, err)
	}
	return r.RunScript(script)
}

// RunScript analyzes an already parsed script. The path of the script is cleaned, as the paths of included files are.
func (r *Resolver) RunScript(script *lang.Script) (Scope, error) {
	if err := r.declareAll(script); err != nil {
		return Scope{}, err
	}
	file := filepath.Clean(script.File)
	r.scripts = append(r.scripts, script)
	r.includes = graphutil.NewTree(file)
	r.includeGraph.AddFile(file)
	r.callGraph.AddNode(callGraphName(script.Main))
	out, _ := r.walk(script.Main, NewScope(file))
	r.fileResults[file] = out.ResultTaint()
	r.logger.Debugf("analyzed %s: %d operations annotated, %d memo entries", file, r.annotations.Len(),
		r.memo.Len())
	return out, nil
}

// ************************* Functions *************************

func (r *Resolver) declareAll(script *lang.Script) error {
	for _, fn := range script.Functions {
		if err := r.declare(fn); err != nil {
			return err
		}
	}
	return nil
}

// declare adds fn to the function table. Declaring the same function twice is allowed.
func (r *Resolver) declare(fn *lang.FunctionDecl) error {
	key := strings.ToLower(fn.Name)
	if prev, ok := r.functions[key]; ok {
		if prev == fn {
			return nil
		}
		return fmt.Errorf("%w: %s in %s, first declared in %s", ErrRedeclaredFunction, fn.Name, fn.File, prev.File)
	}
	r.functions[key] = fn
	r.callGraph.AddNode(callGraphName(fn))
	return nil
}

// lookup returns the user function called with callee: a function name, or a variable bound to a closure
func (r *Resolver) lookup(callee lang.Operand) (*lang.FunctionDecl, bool) {
	if name := CalleeName(callee); name != "" {
		return r.Function(name)
	}
	if v, ok := lang.BaseVariable(callee); ok {
		fn, ok := r.functions["$"+v.Name]
		return fn, ok
	}
	return nil, false
}

// callUser returns the taint of the result of fn called with args. The body of fn is walked only if there is no
// entry in the memo for the taints of the arguments.
func (r *Resolver) callUser(fn *lang.FunctionDecl, args []lang.Operand) Taint {
	vector := make([]ArgTaint, len(fn.Params))
	for i, p := range fn.Params {
		t := Unknown
		if i < len(args) {
			t = r.tf.Transfer(r.scope, args[i])
		} else if p.Default != nil {
			t = r.tf.Transfer(r.scope, p.Default)
		}
		vector[i] = ArgTaint{Param: p.Name, Taint: t}
	}
	r.callGraph.AddEdge(callGraphName(r.frame().fn), callGraphName(fn))

	if t, ok := r.memo.Find(fn, vector); ok {
		r.logger.Debugf("memo hit for %s(%s) -> %s", fn.Name, formatArgs(vector), t)
		return t
	}
	for _, c := range r.calls {
		if c.Matches(fn, vector) {
			r.logger.Debugf("recursive call to %s(%s) is unknown", fn.Name, formatArgs(vector))
			return Unknown
		}
	}
	if r.config.ExceedsMaxDepth(len(r.frames)) {
		r.logger.Warnf("call to %s not analyzed: maximum depth %d exceeded", fn.Name, r.config.MaxDepth)
		return Unknown
	}

	scope := NewScope(fn.File)
	for _, a := range vector {
		scope = scope.AssignVariable(a.Param, a.Taint)
	}
	r.logger.Debugf("analyzing call %s(%s)", fn.Name, formatArgs(vector))
	r.calls = append(r.calls, FuncCallMapping{Function: fn, Args: vector})
	_, returns := r.walk(fn, scope)
	r.calls = r.calls[:len(r.calls)-1]

	res := Unknown
	if len(returns) > 0 {
		res = JoinAll(returns...)
	}
	if !r.memo.Add(FuncCallMapping{Function: fn, Args: vector, Result: res}) && r.memo.IsFull() {
		r.logger.Debugf("memo is full, result of %s(%s) not stored", fn.Name, formatArgs(vector))
	}
	return res
}

// callGraphName is the name of fn in the call graph. Top-level code is named after its file.
func callGraphName(fn *lang.FunctionDecl) string {
	if fn.Name == lang.MainFunctionName || strings.HasPrefix(fn.Name, "{") {
		return fn.File + ":" + fn.Name
	}
	return strings.ToLower(fn.Name)
}

// ************************* Walking *************************

func (r *Resolver) frame() *frame {
	return r.frames[len(r.frames)-1]
}

// walk walks the body of fn from scope in a new frame, and returns the scope at the end of the walk and the taints
// of the return statements visited. The current scope is unchanged.
func (r *Resolver) walk(fn *lang.FunctionDecl, scope Scope) (Scope, []Taint) {
	saved := r.scope
	f := &frame{fn: fn, barriers: map[int]int{}}
	r.frames = append(r.frames, f)
	r.bodyWalks[fn]++
	r.scope = scope
	r.walkBlock(fn.CFG)
	out := r.scope
	r.frames = r.frames[:len(r.frames)-1]
	r.scope = saved
	return out, f.returns
}

// walkBlock visits the operations of b unless b has already been walked in the current frame, or b is the merge
// block of a conditional jump whose branches are being walked.
func (r *Resolver) walkBlock(b *lang.Block) {
	if b == nil {
		return
	}
	f := r.frame()
	if f.barriers[b.ID] > 0 || f.visited.Has(b.ID) {
		return
	}
	f.visited.Insert(b.ID)
	for _, op := range b.Ops {
		r.visit(op)
	}
}

func (r *Resolver) visit(op lang.Operation) {
	r.logger.Tracef("%s %s: %s", op.Position(), lang.OpKind(op), lang.UnwrapOp(op))
	if !lang.OpSwitch(r, op) {
		r.logger.Warnf("%s: skipping missing operation", r.scope.File())
		return
	}
	for _, cb := range r.callbacks {
		cb(op, r.scope)
	}
}

// ************************* Operations *************************

func (r *Resolver) DoJump(op *lang.Jump) {
	r.walkBlock(op.Target)
}

// DoConditionalJump walks both branches from the same scope, then walks the block where they merge with the join of
// the scopes at the end of each branch. With the single-branch option, only the If branch is walked.
func (r *Resolver) DoConditionalJump(op *lang.ConditionalJump) {
	if r.config.SingleBranchConditionals {
		r.walkBlock(op.If)
		return
	}
	f := r.frame()
	entry := r.scope
	merge := lang.MergeBlock(op.If, op.Else)
	if merge != nil {
		f.barriers[merge.ID]++
	}
	r.walkBlock(op.If)
	then := r.scope
	r.scope = entry
	r.walkBlock(op.Else)
	if merge != nil {
		f.barriers[merge.ID]--
	}
	r.scope = then.Join(r.scope)
	r.walkBlock(merge)
}

func (r *Resolver) DoObjectInstantiation(op *lang.ObjectInstantiation) {
	if class := CalleeName(op.Class); class != "" {
		r.annotations.SetType(op, class)
	}
}

func (r *Resolver) DoAssign(op *lang.Assign) {
	t := r.tf.Transfer(r.scope, op.Expr)
	key := assignedName(op.Var)
	if op.Weak && key != "" && r.scope.IsBound(key) {
		t = Join(t, r.scope.VariableTaint(key))
	}
	if key != "" {
		r.scope = r.scope.AssignVariable(key, t)
	} else {
		r.logger.Warnf("%s: assignment to %s is not tracked", op.Position(), lang.UnwrapOperand(op.Var))
	}
	r.annotations.SetTaint(op, t)

	for _, def := range definitions(op.Expr) {
		if c, ok := def.(*lang.ClosureDeclaration); ok && c.Func != nil {
			if v, ok := lang.BaseVariable(op.Var); ok {
				r.functions["$"+v.Name] = c.Func
			}
		}
		if typ, ok := r.annotations.Type(def); ok {
			r.annotations.SetType(op, typ)
		}
	}
}

func (r *Resolver) DoFunctionCall(op *lang.FunctionCall) {
	name := CalleeName(op.Name)
	if r.tf.IsSource(name) || r.tf.IsSanitizer(name, "") {
		r.annotations.SetTaint(op, r.tf.TransferOp(r.scope, op))
		return
	}
	if fn, ok := r.lookup(op.Name); ok {
		r.annotations.SetTaint(op, r.callUser(fn, op.Args))
		return
	}
	if _, sink := r.tf.IsSink(name); name != "" && !sink && !summaries.IsBuiltin(name) {
		if !r.undeclared[strings.ToLower(name)] {
			r.logger.Debugf("%s: function %s is not declared", op.Position(), name)
		}
		r.undeclared[strings.ToLower(name)] = true
	}
	r.annotations.SetTaint(op, r.tf.TransferOp(r.scope, op))
}

func (r *Resolver) DoMethodCall(op *lang.MethodCall) {
	r.annotations.SetTaint(op, r.tf.TransferOp(r.scope, op))
}

func (r *Resolver) DoReturn(op *lang.Return) {
	t := r.tf.TransferOp(r.scope, op)
	r.annotations.SetTaint(op, t)
	f := r.frame()
	f.returns = append(f.returns, t)
	r.scope = r.scope.WithResultTaint(Join(r.scope.ResultTaint(), t))
}

func (r *Resolver) DoArrayElementFetch(op *lang.ArrayElementFetch) {
	if v, ok := lang.BaseVariable(op.Var); ok && r.tf.IsSuperGlobal(v.Name) {
		r.annotations.SetTaint(op, r.tf.TransferSuperGlobal(v, op.Dim))
		return
	}
	r.annotations.SetTaint(op, r.tf.Transfer(r.scope, op.Var))
}

// DoPropertyFetch reads the taint of the property from the scope when it has been assigned, and otherwise uses the
// taint of the object.
func (r *Resolver) DoPropertyFetch(op *lang.PropertyFetch) {
	if key := lang.UnwrapOp(op); r.scope.IsBound(key) {
		r.annotations.SetTaint(op, r.scope.VariableTaint(key))
		return
	}
	r.annotations.SetTaint(op, r.tf.Transfer(r.scope, op.Var))
}

func (r *Resolver) DoConstantFetch(op *lang.ConstantFetch) {
	r.annotations.SetTaint(op, r.tf.TransferOp(r.scope, op))
}

func (r *Resolver) DoCast(op *lang.Cast) {
	r.scope = r.tf.TransferCast(r.scope, op)
}

func (r *Resolver) DoStringConcatenation(op *lang.StringConcatenation) {
	r.annotations.SetTaint(op, JoinAll(r.tf.TransferAll(r.scope, op.Parts)...))
}

func (r *Resolver) DoClosureDeclaration(op *lang.ClosureDeclaration) {
	r.annotations.SetTaint(op, Untainted)
}

func (r *Resolver) DoFunctionDeclaration(op *lang.FunctionDeclaration) {
	r.annotations.SetTaint(op, Untainted)
	if op.Func == nil {
		return
	}
	if err := r.declare(op.Func); err != nil {
		r.errors = append(r.errors, err)
		r.logger.Errorf("%s: %v", op.Position(), err)
	}
}

// assignedName returns the scope key of the target of an assignment: the name of a variable, or the unwound
// property fetch for assignments to properties. It returns "" for targets that are not tracked.
func assignedName(o lang.Operand) string {
	if v, ok := lang.BaseVariable(o); ok {
		return v.Name
	}
	if t, ok := o.(*lang.Temporary); ok && len(t.Ops) == 1 {
		if pf, ok := t.Ops[0].(*lang.PropertyFetch); ok {
			return lang.UnwrapOp(pf)
		}
	}
	return ""
}

// definitions returns the operations defining o, looking through aliases and the definitions of variables
func definitions(o lang.Operand) []lang.Operation {
	switch x := o.(type) {
	case *lang.Temporary:
		if x.Original != nil {
			return definitions(x.Original)
		}
		return x.Ops
	case *lang.Variable:
		return x.Defs
	}
	return nil
}
