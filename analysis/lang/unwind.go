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
)

// Placeholder is the string returned for shapes the unwinder does not recognize.
const Placeholder = "?"

// maxUnwindDepth bounds the recursion on cyclic temporaries (a definition reaching itself through a loop)
const maxUnwindDepth = 64

// UnwrapOperand returns a canonical symbolic string for the operand: the value of a literal, the name of a
// variable, or the unwound expression defining a temporary. It is total: unknown shapes give Placeholder.
func UnwrapOperand(o Operand) string {
	return unwrapOperand(o, 0)
}

// UnwrapOp returns a canonical symbolic string for the expression computed by op, e.g. "$obj->prop" or
// "f(a, b)". It is total: unknown shapes give Placeholder.
func UnwrapOp(op Operation) string {
	return unwrapOp(op, 0)
}

func unwrapOperand(o Operand, depth int) string {
	if depth > maxUnwindDepth {
		return Placeholder
	}
	switch x := o.(type) {
	case *Literal:
		return x.Value
	case *Variable:
		return x.Name
	case *Temporary:
		if x.Original != nil {
			return unwrapOperand(x.Original, depth+1)
		}
		if len(x.Ops) > 0 {
			return unwrapOp(x.Ops[0], depth+1)
		}
	}
	return Placeholder
}

//gocyclo:ignore
func unwrapOp(op Operation, depth int) string {
	if depth > maxUnwindDepth {
		return Placeholder
	}
	switch x := op.(type) {
	case *PropertyFetch:
		return fmt.Sprintf("$%s->%s", unwrapOperand(x.Var, depth+1), unwrapOperand(x.Name, depth+1))
	case *FunctionCall:
		return fmt.Sprintf("%s(%s)", unwrapOperand(x.Name, depth+1), unwrapList(x.Args, ", ", depth+1))
	case *MethodCall:
		return fmt.Sprintf("$%s->%s(%s)", unwrapOperand(x.Var, depth+1), unwrapOperand(x.Name, depth+1),
			unwrapList(x.Args, ", ", depth+1))
	case *Assign:
		return fmt.Sprintf("%s = %s", unwrapOperand(x.Var, depth+1), unwrapOperand(x.Expr, depth+1))
	case *StringConcatenation:
		return unwrapList(x.Parts, " . ", depth+1)
	case *Cast:
		return fmt.Sprintf("(%s)%s", x.Kind, unwrapOperand(x.Expr, depth+1))
	case *ArrayElementFetch:
		dim := ""
		if x.Dim != nil {
			dim = unwrapOperand(x.Dim, depth+1)
		}
		return fmt.Sprintf("%s[%s]", unwrapOperand(x.Var, depth+1), dim)
	case *ConstantFetch:
		return x.Name
	case *ObjectInstantiation:
		return fmt.Sprintf("new %s(%s)", unwrapOperand(x.Class, depth+1), unwrapList(x.Args, ", ", depth+1))
	case *Include:
		return fmt.Sprintf("%s %s", x.Kind, unwrapOperand(x.Expr, depth+1))
	case *ClosureDeclaration:
		if x.Func != nil {
			return x.Func.Name
		}
	case *FunctionDeclaration:
		if x.Func != nil {
			return x.Func.Name
		}
	case *Return:
		if x.Expr == nil {
			return "return"
		}
		return "return " + unwrapOperand(x.Expr, depth+1)
	}
	return Placeholder
}

func unwrapList(operands []Operand, sep string, depth int) string {
	parts := make([]string, len(operands))
	for i, o := range operands {
		parts[i] = unwrapOperand(o, depth)
	}
	return strings.Join(parts, sep)
}
