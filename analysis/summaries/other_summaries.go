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

package summaries

// Names of the calls the loader lowers language constructs and operators to.
const (
	// ArrayLiteral is the name of the call building an array literal from its values.
	ArrayLiteral = "array"
	// Echo is the name of the echo statement, lowered to one call per statement.
	Echo = "echo"
	// Print is the name of the print construct.
	Print = "print"
	// Exit is the name of exit and die.
	Exit = "exit"
	// Ternary is the name of the conditional operators ?: and ??.
	Ternary = "?:"
)

// operators holds the summaries of lowered language constructs and operators. Arithmetic, comparison and logical
// operators produce numbers or booleans, so their result never carries string data from the operands.
var operators = map[string]Summary{
	ArrayLiteral: AllArgsPropagation,
	Echo:         NoDataFlowPropagation,
	Print:        NoDataFlowPropagation,
	Exit:         NoDataFlowPropagation,
	Ternary:      AllArgsPropagation,
	"isset":      NoDataFlowPropagation,
	"empty":      NoDataFlowPropagation,
	"unset":      NoDataFlowPropagation,
	"list":       AllArgsPropagation,
	"+":          NoDataFlowPropagation,
	"-":          NoDataFlowPropagation,
	"*":          NoDataFlowPropagation,
	"/":          NoDataFlowPropagation,
	"%":          NoDataFlowPropagation,
	"**":         NoDataFlowPropagation,
	"<<":         NoDataFlowPropagation,
	">>":         NoDataFlowPropagation,
	"&":          NoDataFlowPropagation,
	"|":          NoDataFlowPropagation,
	"^":          NoDataFlowPropagation,
	"==":         NoDataFlowPropagation,
	"!=":         NoDataFlowPropagation,
	"===":        NoDataFlowPropagation,
	"!==":        NoDataFlowPropagation,
	"<":          NoDataFlowPropagation,
	"<=":         NoDataFlowPropagation,
	">":          NoDataFlowPropagation,
	">=":         NoDataFlowPropagation,
	"<=>":        NoDataFlowPropagation,
	"&&":         NoDataFlowPropagation,
	"||":         NoDataFlowPropagation,
	"!":          NoDataFlowPropagation,
	"xor":        NoDataFlowPropagation,
	"instanceof": NoDataFlowPropagation,
}
