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

// An Operation is a node of the control-flow graph. The set of operations is closed; every operation embeds the
// position of the statement it comes from.
type Operation interface {
	isOperation()
	// Position returns the position of the operation in the source
	Position() Position
	// SetPosition sets the position of the operation
	SetPosition(p Position)
}

type opNode struct {
	pos Position
}

func (*opNode) isOperation()             {}
func (n *opNode) Position() Position     { return n.pos }
func (n *opNode) SetPosition(p Position) { n.pos = p }

// CastKind is the target type of a cast.
type CastKind int

const (
	CastInt CastKind = iota
	CastFloat
	CastBool
	CastString
	CastArray
	CastObject
	CastUnset
)

var castNames = [...]string{"int", "float", "bool", "string", "array", "object", "unset"}

func (k CastKind) String() string {
	if int(k) < len(castNames) {
		return castNames[k]
	}
	return "?"
}

// IncludeKind distinguishes the four inclusion constructs.
type IncludeKind int

const (
	KindInclude IncludeKind = iota
	KindIncludeOnce
	KindRequire
	KindRequireOnce
)

var includeNames = [...]string{"include", "include_once", "require", "require_once"}

func (k IncludeKind) String() string {
	if int(k) < len(includeNames) {
		return includeNames[k]
	}
	return "include"
}

// Once returns true for the _once inclusion constructs.
func (k IncludeKind) Once() bool {
	return k == KindIncludeOnce || k == KindRequireOnce
}

// Assign stores Expr into Var. A weak assignment updates an element of Var (e.g. $a[k] = v) and does not
// overwrite the previous contents.
type Assign struct {
	opNode
	Var  Operand
	Expr Operand
	Weak bool
}

// FunctionCall calls the function Name.
type FunctionCall struct {
	opNode
	Name Operand
	Args []Operand
}

// MethodCall calls the method Name on Var. Static calls have a literal class name as Var.
type MethodCall struct {
	opNode
	Var  Operand
	Name Operand
	Args []Operand
}

// ObjectInstantiation is a new expression.
type ObjectInstantiation struct {
	opNode
	Class Operand
	Args  []Operand
}

// Jump is an unconditional jump to Target.
type Jump struct {
	opNode
	Target *Block
}

// ConditionalJump jumps to If when Cond holds, and to Else otherwise. Else may be nil in hand-built graphs, in which
// case control falls through.
type ConditionalJump struct {
	opNode
	Cond Operand
	If   *Block
	Else *Block
}

// Return returns Expr, which is nil for a bare return.
type Return struct {
	opNode
	Expr Operand
}

// Include evaluates the file whose path is Expr.
type Include struct {
	opNode
	Kind IncludeKind
	Expr Operand
}

// ArrayElementFetch reads Var[Dim]. Dim is nil for appends.
type ArrayElementFetch struct {
	opNode
	Var Operand
	Dim Operand
}

// PropertyFetch reads Var->Name.
type PropertyFetch struct {
	opNode
	Var  Operand
	Name Operand
}

// ConstantFetch reads the named constant.
type ConstantFetch struct {
	opNode
	Name string
}

// Cast converts Expr to Kind.
type Cast struct {
	opNode
	Kind CastKind
	Expr Operand
}

// StringConcatenation concatenates all its parts, in order.
type StringConcatenation struct {
	opNode
	Parts []Operand
}

// ClosureDeclaration defines an anonymous function.
type ClosureDeclaration struct {
	opNode
	Func *FunctionDecl
}

// FunctionDeclaration marks where a named function is declared.
type FunctionDeclaration struct {
	opNode
	Func *FunctionDecl
}
