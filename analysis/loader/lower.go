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
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/awslabs/ar-php-tools/analysis/config"
	"github.com/awslabs/ar-php-tools/analysis/lang"
	"github.com/awslabs/ar-php-tools/analysis/summaries"
	"github.com/z7zmey/php-parser/node"
	"github.com/z7zmey/php-parser/node/expr"
	"github.com/z7zmey/php-parser/node/expr/assign"
	"github.com/z7zmey/php-parser/node/expr/binary"
	"github.com/z7zmey/php-parser/node/expr/cast"
	"github.com/z7zmey/php-parser/node/name"
	"github.com/z7zmey/php-parser/node/scalar"
	"github.com/z7zmey/php-parser/node/stmt"
)

// defs maps variable names to the assignments that reach the current point
type defs map[string][]lang.Operation

func (d defs) clone() defs {
	res := make(defs, len(d))
	for k, v := range d {
		res[k] = append([]lang.Operation(nil), v...)
	}
	return res
}

// merge returns the union of the definitions of a and b
func merge(a defs, b defs) defs {
	res := a.clone()
	for k, ops := range b {
		for _, op := range ops {
			if !containsOp(res[k], op) {
				res[k] = append(res[k], op)
			}
		}
	}
	return res
}

func containsOp(ops []lang.Operation, op lang.Operation) bool {
	for _, x := range ops {
		if x == op {
			return true
		}
	}
	return false
}

type loop struct {
	cont *lang.Block
	brk  *lang.Block
}

// builder lowers the statements of one file
type builder struct {
	file     string
	script   *lang.Script
	block    *lang.Block
	defs     defs
	loops    []loop
	closures int
	logger   *config.LogGroup
}

func lower(file string, stmts []node.Node, logger *config.LogGroup) *lang.Script {
	s := lang.NewScript(file)
	b := &builder{file: file, script: s, logger: logger}
	b.body(s.Main, defs{}, func() { b.stmts(stmts) })
	return s
}

// body lowers the body of fn with fresh definitions
func (b *builder) body(fn *lang.FunctionDecl, entry defs, lowerBody func()) {
	block, d, loops := b.block, b.defs, b.loops
	b.block, b.defs, b.loops = fn.CFG, entry, nil
	lowerBody()
	b.block, b.defs, b.loops = block, d, loops
}

func (b *builder) emit(op lang.Operation, n node.Node) lang.Operation {
	op.SetPosition(b.position(n))
	b.block.Add(op)
	return op
}

func (b *builder) position(n node.Node) lang.Position {
	line := 0
	if n != nil {
		if p := n.GetPosition(); p != nil {
			line = p.StartLine
		}
	}
	return lang.Position{File: b.file, Line: line}
}

// result emits op and returns the temporary holding its value
func (b *builder) result(op lang.Operation, n node.Node) lang.Operand {
	return lang.ResultOf(b.emit(op, n))
}

func (b *builder) call(fn string, n node.Node, args ...lang.Operand) lang.Operand {
	return b.result(&lang.FunctionCall{Name: lang.NewLiteral(fn), Args: args}, n)
}

func (b *builder) read(name string) lang.Operand {
	return &lang.Temporary{Original: lang.NewVariable(name, b.defs[name]...)}
}

// jump ends the current block with a jump to target and continues in a fresh, unreachable block
func (b *builder) jump(target *lang.Block, n node.Node) {
	b.emit(&lang.Jump{Target: target}, n)
	b.block = lang.NewBlock()
}

// ************************* Statements *************************

func (b *builder) stmts(nodes []node.Node) {
	for _, n := range nodes {
		b.stmt(n)
	}
}

//gocyclo:ignore
func (b *builder) stmt(n node.Node) {
	if n == nil {
		return
	}
	switch x := n.(type) {
	case *stmt.Expression:
		b.expr(x.Expr)
	case *stmt.Echo:
		for _, e := range x.Exprs {
			b.call(summaries.Echo, x, b.expr(e))
		}
	case *stmt.InlineHtml, *stmt.Nop:
	case *stmt.Return:
		var e lang.Operand
		if x.Expr != nil {
			e = b.expr(x.Expr)
		}
		b.emit(&lang.Return{Expr: e}, x)
		b.block = lang.NewBlock()
	case *stmt.StmtList:
		b.stmts(x.Stmts)
	case *stmt.Namespace:
		b.stmts(x.Stmts)
	case *stmt.If:
		b.ifStmt(x, x.Cond, x.Stmt, x.ElseIf, x.Else)
	case *stmt.Switch:
		b.switchStmt(x)
	case *stmt.While:
		b.whileStmt(x)
	case *stmt.Do:
		b.doStmt(x)
	case *stmt.For:
		b.forStmt(x)
	case *stmt.Foreach:
		b.foreachStmt(x)
	case *stmt.Break:
		if len(b.loops) > 0 {
			b.jump(b.loops[len(b.loops)-1].brk, x)
		}
	case *stmt.Continue:
		if len(b.loops) > 0 {
			b.jump(b.loops[len(b.loops)-1].cont, x)
		}
	case *stmt.Function:
		b.function(x)
	case *stmt.Global:
		// globals are bound outside the function
		for _, v := range x.Vars {
			if name, ok := variableName(v); ok {
				b.define(name, &lang.Assign{Var: lang.NewVariable(name), Expr: &lang.Temporary{}}, x)
			}
		}
	case *stmt.Unset:
		for _, v := range x.Vars {
			if name, ok := variableName(v); ok {
				b.define(name, &lang.Assign{Var: lang.NewVariable(name), Expr: lang.NewLiteral("null")}, x)
			}
		}
	default:
		b.logger.Debugf("%s: statement %T is not lowered", b.position(n), n)
	}
}

func (b *builder) ifStmt(n node.Node, cond node.Node, then node.Node, elseIfs []node.Node, els node.Node) {
	c := b.expr(cond)
	thenBlock, after := lang.NewBlock(), lang.NewBlock()
	hasElse := len(elseIfs) > 0 || els != nil
	elseBlock := after
	if hasElse {
		elseBlock = lang.NewBlock()
	}
	b.emit(&lang.ConditionalJump{Cond: c, If: thenBlock, Else: elseBlock}, n)
	entry := b.defs.clone()

	b.block = thenBlock
	b.stmt(then)
	b.emit(&lang.Jump{Target: after}, n)
	thenDefs := b.defs

	if !hasElse {
		b.defs = merge(entry, thenDefs)
		b.block = after
		return
	}

	b.defs = entry
	b.block = elseBlock
	if len(elseIfs) > 0 {
		if ei, ok := elseIfs[0].(*stmt.ElseIf); ok {
			b.ifStmt(ei, ei.Cond, ei.Stmt, elseIfs[1:], els)
		}
	} else if e, ok := els.(*stmt.Else); ok {
		b.stmt(e.Stmt)
	}
	b.emit(&lang.Jump{Target: after}, n)
	b.defs = merge(thenDefs, b.defs)
	b.block = after
}

func (b *builder) switchStmt(x *stmt.Switch) {
	subject := b.expr(x.Cond)
	after := lang.NewBlock()
	var cases []node.Node
	if x.CaseList != nil {
		cases = x.CaseList.Cases
	}
	entry := b.defs.clone()
	merged := entry.clone()
	b.loops = append(b.loops, loop{cont: after, brk: after})
	for _, c := range cases {
		b.defs = entry.clone()
		var body []node.Node
		cond := subject
		switch c := c.(type) {
		case *stmt.Case:
			cond = b.call("==", c, subject, b.expr(c.Cond))
			body = c.Stmts
		case *stmt.Default:
			body = c.Stmts
		default:
			continue
		}
		caseBlock, next := lang.NewBlock(), lang.NewBlock()
		b.emit(&lang.ConditionalJump{Cond: cond, If: caseBlock, Else: next}, c)
		b.block = caseBlock
		b.stmts(body)
		b.emit(&lang.Jump{Target: after}, c)
		merged = merge(merged, b.defs)
		b.block = next
	}
	b.loops = b.loops[:len(b.loops)-1]
	b.emit(&lang.Jump{Target: after}, x)
	b.defs = merged
	b.block = after
}

func (b *builder) whileStmt(x *stmt.While) {
	header, body, exit := lang.NewBlock(), lang.NewBlock(), lang.NewBlock()
	b.emit(&lang.Jump{Target: header}, x)
	b.block = header
	c := b.expr(x.Cond)
	b.emit(&lang.ConditionalJump{Cond: c, If: body, Else: exit}, x)
	b.loopBody(body, loop{cont: header, brk: exit}, func() { b.stmt(x.Stmt) }, header, x)
	b.block = exit
}

func (b *builder) doStmt(x *stmt.Do) {
	body, condBlock, exit := lang.NewBlock(), lang.NewBlock(), lang.NewBlock()
	b.emit(&lang.Jump{Target: body}, x)
	b.loopBody(body, loop{cont: condBlock, brk: exit}, func() { b.stmt(x.Stmt) }, condBlock, x)
	b.block = condBlock
	c := b.expr(x.Cond)
	b.emit(&lang.ConditionalJump{Cond: c, If: body, Else: exit}, x)
	b.block = exit
}

func (b *builder) forStmt(x *stmt.For) {
	for _, e := range x.Init {
		b.expr(e)
	}
	header, body, step, exit := lang.NewBlock(), lang.NewBlock(), lang.NewBlock(), lang.NewBlock()
	b.emit(&lang.Jump{Target: header}, x)
	b.block = header
	var c lang.Operand = lang.NewLiteral("true")
	for _, e := range x.Cond {
		c = b.expr(e)
	}
	b.emit(&lang.ConditionalJump{Cond: c, If: body, Else: exit}, x)
	b.loopBody(body, loop{cont: step, brk: exit}, func() { b.stmt(x.Stmt) }, step, x)
	b.block = step
	for _, e := range x.Loop {
		b.expr(e)
	}
	b.emit(&lang.Jump{Target: header}, x)
	b.block = exit
}

func (b *builder) foreachStmt(x *stmt.Foreach) {
	arr := b.expr(x.Expr)
	header, body, exit := lang.NewBlock(), lang.NewBlock(), lang.NewBlock()
	b.emit(&lang.Jump{Target: header}, x)
	b.block = header
	b.emit(&lang.ConditionalJump{Cond: arr, If: body, Else: exit}, x)
	b.loopBody(body, loop{cont: header, brk: exit}, func() {
		elem := b.result(&lang.ArrayElementFetch{Var: arr}, x)
		b.assign(x, x.Variable, elem)
		if x.Key != nil {
			b.assign(x, x.Key, b.call("key", x, arr))
		}
		b.stmt(x.Stmt)
	}, header, x)
	b.block = exit
}

// loopBody lowers a loop body starting at block body and ending with a jump to next. The definitions after the
// loop are the union of the definitions before and after the body.
func (b *builder) loopBody(body *lang.Block, l loop, lowerBody func(), next *lang.Block, n node.Node) {
	entry := b.defs.clone()
	b.block = body
	b.loops = append(b.loops, l)
	lowerBody()
	b.loops = b.loops[:len(b.loops)-1]
	b.emit(&lang.Jump{Target: next}, n)
	b.defs = merge(entry, b.defs)
}

func (b *builder) function(x *stmt.Function) {
	fn := b.decl(identifierValue(x.FunctionName), x.Params, func() { b.stmts(x.Stmts) })
	b.script.Functions = append(b.script.Functions, fn)
	b.emit(&lang.FunctionDeclaration{Func: fn}, x)
}

func (b *builder) decl(fname string, params []node.Node, lowerBody func()) *lang.FunctionDecl {
	fn := &lang.FunctionDecl{Name: fname, CFG: lang.NewBlock(), File: b.file}
	entry := defs{}
	for _, p := range params {
		if param, ok := p.(*node.Parameter); ok {
			if pname, ok := variableName(param.Variable); ok {
				fn.Params = append(fn.Params, lang.Param{Name: pname, Default: constant(param.DefaultValue)})
				entry[pname] = []lang.Operation{b.parameterDefinition(pname, param)}
			}
		}
	}
	b.body(fn, entry, lowerBody)
	return fn
}

// parameterDefinition returns the definition of the parameter pname reaching the entry of the function body. It is
// not part of the body: its value depends on the call site and is never resolvable from the declaration.
func (b *builder) parameterDefinition(pname string, n node.Node) lang.Operation {
	op := &lang.Assign{Var: lang.NewVariable(pname), Expr: &lang.Temporary{}}
	op.SetPosition(b.position(n))
	return op
}

// ************************* Expressions *************************

//gocyclo:ignore
func (b *builder) expr(n node.Node) lang.Operand {
	switch x := n.(type) {
	case nil:
		return &lang.Temporary{}
	case *scalar.String:
		return lang.NewLiteral(unquote(x.Value))
	case *scalar.Lnumber:
		return lang.NewLiteral(x.Value)
	case *scalar.Dnumber:
		return lang.NewLiteral(x.Value)
	case *scalar.EncapsedStringPart:
		return lang.NewLiteral(x.Value)
	case *scalar.Encapsed:
		return b.concat(x, x.Parts)
	case *scalar.Heredoc:
		return b.concat(x, x.Parts)
	case *scalar.MagicConstant:
		return b.magicConstant(x)
	case *expr.Variable:
		if vname, ok := variableName(x); ok {
			return b.read(vname)
		}
		return &lang.Temporary{}
	case *expr.ArrayDimFetch:
		var dim lang.Operand
		if x.Dim != nil {
			dim = b.expr(x.Dim)
		}
		return b.result(&lang.ArrayElementFetch{Var: b.expr(x.Variable), Dim: dim}, x)
	case *expr.PropertyFetch:
		return b.result(&lang.PropertyFetch{Var: b.expr(x.Variable), Name: b.name(x.Property)}, x)
	case *expr.StaticPropertyFetch:
		return b.result(&lang.PropertyFetch{Var: b.name(x.Class), Name: b.name(x.Property)}, x)
	case *expr.ConstFetch:
		cname := identifierValue(x.Constant)
		switch strings.ToLower(cname) {
		case "true", "false", "null":
			return lang.NewLiteral(strings.ToLower(cname))
		}
		return b.result(&lang.ConstantFetch{Name: cname}, x)
	case *expr.ClassConstFetch:
		return b.result(&lang.ConstantFetch{Name: identifierValue(x.Class) + "::" + identifierValue(x.ConstantName)}, x)
	case *expr.FunctionCall:
		callee := b.name(x.Function)
		return b.result(&lang.FunctionCall{Name: callee, Args: b.args(x.ArgumentList)}, x)
	case *expr.MethodCall:
		v := b.expr(x.Variable)
		return b.result(&lang.MethodCall{Var: v, Name: b.name(x.Method), Args: b.args(x.ArgumentList)}, x)
	case *expr.StaticCall:
		class := b.name(x.Class)
		return b.result(&lang.MethodCall{Var: class, Name: b.name(x.Call), Args: b.args(x.ArgumentList)}, x)
	case *expr.New:
		class := b.name(x.Class)
		return b.result(&lang.ObjectInstantiation{Class: class, Args: b.args(x.ArgumentList)}, x)
	case *expr.Include:
		return b.result(&lang.Include{Kind: lang.KindInclude, Expr: b.expr(x.Expr)}, x)
	case *expr.IncludeOnce:
		return b.result(&lang.Include{Kind: lang.KindIncludeOnce, Expr: b.expr(x.Expr)}, x)
	case *expr.Require:
		return b.result(&lang.Include{Kind: lang.KindRequire, Expr: b.expr(x.Expr)}, x)
	case *expr.RequireOnce:
		return b.result(&lang.Include{Kind: lang.KindRequireOnce, Expr: b.expr(x.Expr)}, x)
	case *expr.Closure:
		return b.closure(x, x.Params, func() { b.stmts(x.Stmts) })
	case *expr.ArrowFunction:
		return b.closure(x, x.Params, func() {
			e := b.expr(x.Expr)
			b.emit(&lang.Return{Expr: e}, x)
		})
	case *expr.Array:
		return b.array(x, x.Items)
	case *expr.ShortArray:
		return b.array(x, x.Items)
	case *expr.Ternary:
		ifTrue := x.IfTrue
		if ifTrue == nil {
			ifTrue = x.Condition
		}
		b.expr(x.Condition)
		return b.call(summaries.Ternary, x, b.expr(ifTrue), b.expr(x.IfFalse))
	case *expr.Isset:
		return b.call("isset", x, b.exprs(x.Variables)...)
	case *expr.Empty:
		return b.call("empty", x, b.expr(x.Expr))
	case *expr.Print:
		return b.call(summaries.Print, x, b.expr(x.Expr))
	case *expr.Exit:
		if x.Expr == nil {
			return b.call(summaries.Exit, x)
		}
		return b.call(summaries.Exit, x, b.expr(x.Expr))
	case *expr.BooleanNot:
		return b.call("!", x, b.expr(x.Expr))
	case *expr.UnaryMinus:
		return b.call("-", x, b.expr(x.Expr))
	case *expr.UnaryPlus:
		return b.call("+", x, b.expr(x.Expr))
	case *expr.PreInc:
		return b.assign(x, x.Variable, b.call("+", x, b.expr(x.Variable)))
	case *expr.PostInc:
		return b.assign(x, x.Variable, b.call("+", x, b.expr(x.Variable)))
	case *expr.PreDec:
		return b.assign(x, x.Variable, b.call("-", x, b.expr(x.Variable)))
	case *expr.PostDec:
		return b.assign(x, x.Variable, b.call("-", x, b.expr(x.Variable)))
	case *expr.ErrorSuppress:
		return b.expr(x.Expr)
	case *expr.Eval:
		return b.call("eval", x, b.expr(x.Expr))
	case *expr.ShellExec:
		return b.call("shell_exec", x, b.concat(x, x.Parts))
	case *assign.Assign:
		return b.assign(x, x.Variable, b.expr(x.Expression))
	case *assign.Reference:
		return b.assign(x, x.Variable, b.expr(x.Expression))
	case *assign.Concat:
		cur := b.expr(x.Variable)
		c := b.result(&lang.StringConcatenation{Parts: []lang.Operand{cur, b.expr(x.Expression)}}, x)
		return b.assign(x, x.Variable, c)
	case *assign.Plus:
		return b.assign(x, x.Variable, b.call("+", x, b.expr(x.Variable), b.expr(x.Expression)))
	case *assign.Minus:
		return b.assign(x, x.Variable, b.call("-", x, b.expr(x.Variable), b.expr(x.Expression)))
	case *assign.Mul:
		return b.assign(x, x.Variable, b.call("*", x, b.expr(x.Variable), b.expr(x.Expression)))
	case *assign.Div:
		return b.assign(x, x.Variable, b.call("/", x, b.expr(x.Variable), b.expr(x.Expression)))
	case *binary.Concat:
		return b.concat(x, concatParts(x))
	case *cast.Int:
		return b.cast(x, lang.CastInt, x.Expr)
	case *cast.Double:
		return b.cast(x, lang.CastFloat, x.Expr)
	case *cast.Bool:
		return b.cast(x, lang.CastBool, x.Expr)
	case *cast.String:
		return b.cast(x, lang.CastString, x.Expr)
	case *cast.Array:
		return b.cast(x, lang.CastArray, x.Expr)
	case *cast.Object:
		return b.cast(x, lang.CastObject, x.Expr)
	case *cast.Unset:
		return b.cast(x, lang.CastUnset, x.Expr)
	}
	if op, left, right, ok := binaryOperator(n); ok {
		l := b.expr(left)
		return b.call(op, n, l, b.expr(right))
	}
	b.logger.Debugf("%s: expression %T is not lowered, its value is unknown", b.position(n), n)
	return &lang.Temporary{}
}

func (b *builder) exprs(nodes []node.Node) []lang.Operand {
	res := make([]lang.Operand, 0, len(nodes))
	for _, n := range nodes {
		res = append(res, b.expr(n))
	}
	return res
}

func (b *builder) args(list *node.ArgumentList) []lang.Operand {
	if list == nil {
		return nil
	}
	res := make([]lang.Operand, 0, len(list.Arguments))
	for _, a := range list.Arguments {
		if arg, ok := a.(*node.Argument); ok {
			res = append(res, b.expr(arg.Expr))
		} else {
			res = append(res, b.expr(a))
		}
	}
	return res
}

// name returns a literal for static names, and lowers dynamic names such as $f in $f()
func (b *builder) name(n node.Node) lang.Operand {
	if s := identifierValue(n); s != "" {
		return lang.NewLiteral(s)
	}
	return b.expr(n)
}

func (b *builder) concat(n node.Node, parts []node.Node) lang.Operand {
	return b.result(&lang.StringConcatenation{Parts: b.exprs(parts)}, n)
}

func (b *builder) cast(n node.Node, kind lang.CastKind, e node.Node) lang.Operand {
	return b.result(&lang.Cast{Kind: kind, Expr: b.expr(e)}, n)
}

func (b *builder) array(n node.Node, items []node.Node) lang.Operand {
	var values []lang.Operand
	for _, item := range items {
		it, ok := item.(*expr.ArrayItem)
		if !ok || it == nil {
			continue
		}
		if it.Key != nil {
			values = append(values, b.expr(it.Key))
		}
		values = append(values, b.expr(it.Val))
	}
	return b.call(summaries.ArrayLiteral, n, values...)
}

func (b *builder) closure(n node.Node, params []node.Node, lowerBody func()) lang.Operand {
	b.closures++
	fname := fmt.Sprintf("{closure#%d}", b.closures)
	fn := b.decl(fname, params, lowerBody)
	return b.result(&lang.ClosureDeclaration{Func: fn}, n)
}

func (b *builder) magicConstant(x *scalar.MagicConstant) lang.Operand {
	switch strings.ToUpper(x.Value) {
	case "__DIR__":
		return lang.NewLiteral(filepath.Dir(b.file))
	case "__FILE__":
		return lang.NewLiteral(b.file)
	case "__LINE__":
		return lang.NewLiteral(strconv.Itoa(b.position(x).Line))
	}
	return lang.NewLiteral(x.Value)
}

// assign lowers the assignment of rhs to lhs and returns the value of the assignment
func (b *builder) assign(n node.Node, lhs node.Node, rhs lang.Operand) lang.Operand {
	switch l := lhs.(type) {
	case *expr.Variable:
		vname, ok := variableName(l)
		if !ok {
			return rhs
		}
		return b.define(vname, &lang.Assign{Var: lang.NewVariable(vname), Expr: rhs}, n)
	case *expr.Reference:
		return b.assign(n, l.Variable, rhs)
	case *expr.ArrayDimFetch:
		base, ok := rootVariable(l)
		if !ok {
			return rhs
		}
		op := &lang.Assign{Var: lang.NewVariable(base), Expr: rhs, Weak: true}
		b.emit(op, n)
		b.defs[base] = append(b.defs[base], op)
		return lang.ResultOf(op)
	case *expr.PropertyFetch:
		pf := &lang.PropertyFetch{Var: b.expr(l.Variable), Name: b.name(l.Property)}
		pf.SetPosition(b.position(l))
		return b.result(&lang.Assign{Var: &lang.Temporary{Ops: []lang.Operation{pf}}, Expr: rhs}, n)
	}
	b.logger.Debugf("%s: assignment to %T is not lowered", b.position(n), lhs)
	return rhs
}

// define emits op, a strong assignment of name, and makes it the only definition of name
func (b *builder) define(vname string, op *lang.Assign, n node.Node) lang.Operand {
	b.emit(op, n)
	b.defs[vname] = []lang.Operation{op}
	return lang.ResultOf(op)
}

// ************************* Helpers *************************

// variableName returns the name, without $, of a simple variable
func variableName(n node.Node) (string, bool) {
	v, ok := n.(*expr.Variable)
	if !ok {
		return "", false
	}
	id, ok := v.VarName.(*node.Identifier)
	if !ok {
		return "", false
	}
	return strings.TrimPrefix(id.Value, "$"), true
}

// rootVariable returns the variable at the root of nested array accesses, e.g. a in $a[0][1]
func rootVariable(n node.Node) (string, bool) {
	switch x := n.(type) {
	case *expr.ArrayDimFetch:
		return rootVariable(x.Variable)
	case *expr.Variable:
		return variableName(x)
	}
	return "", false
}

func identifierValue(n node.Node) string {
	switch x := n.(type) {
	case *node.Identifier:
		return x.Value
	case *name.Name:
		return joinNameParts(x.Parts)
	case *name.FullyQualified:
		return "\\" + joinNameParts(x.Parts)
	case *name.Relative:
		return joinNameParts(x.Parts)
	}
	return ""
}

func joinNameParts(parts []node.Node) string {
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if np, ok := p.(*name.NamePart); ok {
			names = append(names, np.Value)
		}
	}
	return strings.Join(names, "\\")
}

func concatParts(n node.Node) []node.Node {
	if c, ok := n.(*binary.Concat); ok {
		return append(concatParts(c.Left), concatParts(c.Right)...)
	}
	return []node.Node{n}
}

// constant returns the literal value of a parameter default, or nil when it is not a literal
func constant(n node.Node) lang.Operand {
	switch x := n.(type) {
	case *scalar.String:
		return lang.NewLiteral(unquote(x.Value))
	case *scalar.Lnumber:
		return lang.NewLiteral(x.Value)
	case *scalar.Dnumber:
		return lang.NewLiteral(x.Value)
	case *expr.ConstFetch:
		return lang.NewLiteral(strings.ToLower(identifierValue(x.Constant)))
	case *expr.Array, *expr.ShortArray:
		return lang.NewLiteral("[]")
	}
	return nil
}

// unquote removes the quotes of a string literal as written in the source
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	q := s[0]
	if (q != '\'' && q != '"') || s[len(s)-1] != q {
		return s
	}
	s = s[1 : len(s)-1]
	if q == '\'' {
		s = strings.ReplaceAll(s, `\'`, `'`)
		s = strings.ReplaceAll(s, `\\`, `\`)
	}
	return s
}

//gocyclo:ignore
func binaryOperator(n node.Node) (string, node.Node, node.Node, bool) {
	switch x := n.(type) {
	case *binary.Plus:
		return "+", x.Left, x.Right, true
	case *binary.Minus:
		return "-", x.Left, x.Right, true
	case *binary.Mul:
		return "*", x.Left, x.Right, true
	case *binary.Div:
		return "/", x.Left, x.Right, true
	case *binary.Mod:
		return "%", x.Left, x.Right, true
	case *binary.Pow:
		return "**", x.Left, x.Right, true
	case *binary.Equal:
		return "==", x.Left, x.Right, true
	case *binary.NotEqual:
		return "!=", x.Left, x.Right, true
	case *binary.Identical:
		return "===", x.Left, x.Right, true
	case *binary.NotIdentical:
		return "!==", x.Left, x.Right, true
	case *binary.Smaller:
		return "<", x.Left, x.Right, true
	case *binary.SmallerOrEqual:
		return "<=", x.Left, x.Right, true
	case *binary.Greater:
		return ">", x.Left, x.Right, true
	case *binary.GreaterOrEqual:
		return ">=", x.Left, x.Right, true
	case *binary.Spaceship:
		return "<=>", x.Left, x.Right, true
	case *binary.BooleanAnd:
		return "&&", x.Left, x.Right, true
	case *binary.BooleanOr:
		return "||", x.Left, x.Right, true
	case *binary.LogicalAnd:
		return "&&", x.Left, x.Right, true
	case *binary.LogicalOr:
		return "||", x.Left, x.Right, true
	case *binary.LogicalXor:
		return "xor", x.Left, x.Right, true
	case *binary.BitwiseAnd:
		return "&", x.Left, x.Right, true
	case *binary.BitwiseOr:
		return "|", x.Left, x.Right, true
	case *binary.BitwiseXor:
		return "^", x.Left, x.Right, true
	case *binary.ShiftLeft:
		return "<<", x.Left, x.Right, true
	case *binary.ShiftRight:
		return ">>", x.Left, x.Right, true
	case *binary.Coalesce:
		return summaries.Ternary, x.Left, x.Right, true
	}
	return "", nil, nil, false
}
