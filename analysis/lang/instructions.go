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

// An OpVisitor must implement methods for ALL possible operations. Adding an operation to the language adds a
// method here, so every visitor stops compiling until it handles the new operation.
type OpVisitor interface {
	DoAssign(*Assign)
	DoFunctionCall(*FunctionCall)
	DoMethodCall(*MethodCall)
	DoObjectInstantiation(*ObjectInstantiation)
	DoJump(*Jump)
	DoConditionalJump(*ConditionalJump)
	DoReturn(*Return)
	DoInclude(*Include)
	DoArrayElementFetch(*ArrayElementFetch)
	DoPropertyFetch(*PropertyFetch)
	DoConstantFetch(*ConstantFetch)
	DoCast(*Cast)
	DoStringConcatenation(*StringConcatenation)
	DoClosureDeclaration(*ClosureDeclaration)
	DoFunctionDeclaration(*FunctionDeclaration)
}

// OpSwitch is mainly a map from the different operations to the methods of the visitor.
// It returns false when op is nil, which is the only value outside the closed set of operations.
//
//gocyclo:ignore
func OpSwitch(visitor OpVisitor, op Operation) bool {
	switch op := op.(type) {
	case *Assign:
		visitor.DoAssign(op)
	case *FunctionCall:
		visitor.DoFunctionCall(op)
	case *MethodCall:
		visitor.DoMethodCall(op)
	case *ObjectInstantiation:
		visitor.DoObjectInstantiation(op)
	case *Jump:
		visitor.DoJump(op)
	case *ConditionalJump:
		visitor.DoConditionalJump(op)
	case *Return:
		visitor.DoReturn(op)
	case *Include:
		visitor.DoInclude(op)
	case *ArrayElementFetch:
		visitor.DoArrayElementFetch(op)
	case *PropertyFetch:
		visitor.DoPropertyFetch(op)
	case *ConstantFetch:
		visitor.DoConstantFetch(op)
	case *Cast:
		visitor.DoCast(op)
	case *StringConcatenation:
		visitor.DoStringConcatenation(op)
	case *ClosureDeclaration:
		visitor.DoClosureDeclaration(op)
	case *FunctionDeclaration:
		visitor.DoFunctionDeclaration(op)
	default:
		return false
	}
	return true
}

// OpKind returns a short name for the kind of op, used in logs.
func OpKind(op Operation) string {
	switch op.(type) {
	case *Assign:
		return "assign"
	case *FunctionCall:
		return "call"
	case *MethodCall:
		return "method-call"
	case *ObjectInstantiation:
		return "new"
	case *Jump:
		return "jump"
	case *ConditionalJump:
		return "jump-if"
	case *Return:
		return "return"
	case *Include:
		return "include"
	case *ArrayElementFetch:
		return "array-fetch"
	case *PropertyFetch:
		return "property-fetch"
	case *ConstantFetch:
		return "const-fetch"
	case *Cast:
		return "cast"
	case *StringConcatenation:
		return "concat"
	case *ClosureDeclaration:
		return "closure"
	case *FunctionDeclaration:
		return "function"
	default:
		return "?"
	}
}
