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

// An Operand is a value read or defined by operations. The implementations are Literal, Variable and Temporary.
type Operand interface {
	isOperand()
}

// A Literal is a constant scalar value. The value of a string literal does not include quotes.
type Literal struct {
	Value string
}

// A Variable is a named program variable, without the leading '$'.
type Variable struct {
	Name string
	// Defs are the operations defining the variable that reach the read, when known
	Defs []Operation
}

// A Temporary is an intermediate value. If Original is not nil, the temporary aliases that operand; otherwise it is
// the value defined by the operations in Ops.
type Temporary struct {
	Original Operand
	Ops      []Operation
}

func (*Literal) isOperand()   {}
func (*Variable) isOperand()  {}
func (*Temporary) isOperand() {}

// NewLiteral returns a literal operand.
func NewLiteral(v string) *Literal { return &Literal{Value: v} }

// NewVariable returns a variable operand with the optional reaching definitions.
func NewVariable(name string, defs ...Operation) *Variable { return &Variable{Name: name, Defs: defs} }

// Read returns a temporary aliasing the variable name, the way reads of variables appear in operations.
func Read(name string) *Temporary { return &Temporary{Original: NewVariable(name)} }

// ResultOf returns a temporary defined by op.
func ResultOf(op Operation) *Temporary { return &Temporary{Ops: []Operation{op}} }

// BaseVariable returns the variable a operand stands for, looking through temporaries that alias a variable.
func BaseVariable(o Operand) (*Variable, bool) {
	switch x := o.(type) {
	case *Variable:
		return x, true
	case *Temporary:
		if x.Original != nil {
			return BaseVariable(x.Original)
		}
	}
	return nil, false
}
