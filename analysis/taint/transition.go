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
	"strings"

	"github.com/awslabs/ar-php-tools/analysis/config"
	"github.com/awslabs/ar-php-tools/analysis/lang"
	"github.com/awslabs/ar-php-tools/analysis/summaries"
)

// A Catalog answers which code elements are sources, sanitizers and sinks. *config.Config is a Catalog.
type Catalog interface {
	IsSomeSource(cid config.CodeIdentifier) bool
	IsSomeSanitizer(cid config.CodeIdentifier, context string) bool
	SomeSink(cid config.CodeIdentifier) (config.CodeIdentifier, bool)
}

// TransitionFunction computes the taint of operands and operations in a scope. It holds no state of its own: the
// taints of operations already visited are read from the annotations.
type TransitionFunction struct {
	catalog     Catalog
	annotations *Annotations
	logger      *config.LogGroup
}

// NewTransitionFunction returns a transition function using catalog for sources and sanitizers.
func NewTransitionFunction(catalog Catalog, annotations *Annotations, logger *config.LogGroup) *TransitionFunction {
	return &TransitionFunction{catalog: catalog, annotations: annotations, logger: logger}
}

// IsSuperGlobal returns true if the variable name (without $) is a source array such as _GET
func (tf *TransitionFunction) IsSuperGlobal(name string) bool {
	return tf.catalog.IsSomeSource(config.CodeIdentifier{Variable: name})
}

// IsSource returns true if calls to the function name return attacker data
func (tf *TransitionFunction) IsSource(name string) bool {
	return name != "" && tf.catalog.IsSomeSource(config.CodeIdentifier{Function: name})
}

// IsSanitizer returns true if the function name sanitizes data for context. An empty context matches any.
func (tf *TransitionFunction) IsSanitizer(name string, context string) bool {
	return name != "" && tf.catalog.IsSomeSanitizer(config.CodeIdentifier{Function: name}, context)
}

// IsSink returns the context of the sink function name, if name is a sink
func (tf *TransitionFunction) IsSink(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	sink, ok := tf.catalog.SomeSink(config.CodeIdentifier{Function: name})
	return sink.Context, ok
}

// IsMethodSink returns the context of the sink method, if the method of class is a sink. The class may be empty when
// the type of the receiver is not known.
func (tf *TransitionFunction) IsMethodSink(class string, method string) (string, bool) {
	if method == "" {
		return "", false
	}
	sink, ok := tf.catalog.SomeSink(config.CodeIdentifier{Class: class, Method: method})
	return sink.Context, ok
}

// Transfer returns the taint of operand o in scope.
func (tf *TransitionFunction) Transfer(scope Scope, o lang.Operand) Taint {
	switch x := o.(type) {
	case *lang.Literal:
		return Untainted
	case *lang.Variable:
		if tf.IsSuperGlobal(x.Name) {
			return Tainted
		}
		return scope.VariableTaint(x.Name)
	case *lang.Temporary:
		if x.Original != nil {
			return tf.Transfer(scope, x.Original)
		}
		return tf.transferDefinitions(x)
	case nil:
		tf.logger.Warnf("taint of missing operand in %s is unknown", scope.File())
		return Unknown
	}
	return Unknown
}

// transferDefinitions returns the join of the taints of the operations defining t. It is Unknown if none of them
// has been visited yet.
func (tf *TransitionFunction) transferDefinitions(t *lang.Temporary) Taint {
	res := Untainted
	found := false
	for _, op := range t.Ops {
		if x, ok := tf.annotations.Taint(op); ok {
			res = Join(res, x)
			found = true
		}
	}
	if !found {
		return Unknown
	}
	return res
}

// TransferAll returns the taints of the operands
func (tf *TransitionFunction) TransferAll(scope Scope, operands []lang.Operand) []Taint {
	res := make([]Taint, len(operands))
	for i, o := range operands {
		res[i] = tf.Transfer(scope, o)
	}
	return res
}

// TransferOp returns the taint of the value computed by op, for the operations whose taint does not depend on
// the rest of the program:
//
//   - a return has the taint of its operand, and a bare return is Untainted;
//   - a call to a source is Tainted, a call to a sanitizer is Untainted;
//   - a call to a builtin with a summary joins the arguments that flow to its result;
//   - any other call is at least Unknown, and Tainted if one of its arguments is;
//   - constants are Untainted.
//
// Other operations are Unknown.
func (tf *TransitionFunction) TransferOp(scope Scope, op lang.Operation) Taint {
	switch x := op.(type) {
	case *lang.Return:
		if x.Expr == nil {
			return Untainted
		}
		return tf.Transfer(scope, x.Expr)
	case *lang.FunctionCall:
		return tf.transferCall(scope, CalleeName(x.Name), x.Args)
	case *lang.MethodCall:
		cid := config.CodeIdentifier{Class: tf.classOf(x.Var), Method: CalleeName(x.Name)}
		if cid.Method != "" && tf.catalog.IsSomeSource(cid) {
			return Tainted
		}
		if cid.Method != "" && tf.catalog.IsSomeSanitizer(cid, "") {
			return Untainted
		}
		return JoinAll(append(tf.TransferAll(scope, x.Args), Unknown)...)
	case *lang.ConstantFetch:
		return Untainted
	}
	return Unknown
}

func (tf *TransitionFunction) transferCall(scope Scope, name string, args []lang.Operand) Taint {
	if tf.IsSource(name) {
		return Tainted
	}
	if tf.IsSanitizer(name, "") {
		return Untainted
	}
	argTaints := tf.TransferAll(scope, args)
	if s, ok := summaries.SummaryOfFunc(name); ok {
		res := Untainted
		for _, i := range s.PropagatedArgs(len(args)) {
			res = Join(res, argTaints[i])
		}
		return res
	}
	return JoinAll(append(argTaints, Unknown)...)
}

// TransferSuperGlobal returns the taint of a read of the superglobal variable at key. Reads of source arrays are
// Tainted, whatever the key.
func (tf *TransitionFunction) TransferSuperGlobal(variable *lang.Variable, key lang.Operand) Taint {
	return Tainted
}

// TransferCast annotates cast and returns the scope after the cast. Casts to int, float, bool and unset produce
// Untainted values; casts to string, array and object keep the taint of their operand.
func (tf *TransitionFunction) TransferCast(scope Scope, cast *lang.Cast) Scope {
	var t Taint
	switch cast.Kind {
	case lang.CastInt, lang.CastFloat, lang.CastBool, lang.CastUnset:
		t = Untainted
	default:
		t = tf.Transfer(scope, cast.Expr)
	}
	tf.annotations.SetTaint(cast, t)
	return scope
}

// classOf returns the class of the object o, when o was created by a new expression
func (tf *TransitionFunction) classOf(o lang.Operand) string {
	switch x := o.(type) {
	case *lang.Literal:
		// static calls
		return x.Value
	case *lang.Temporary:
		if x.Original != nil {
			return tf.classOf(x.Original)
		}
		for _, op := range x.Ops {
			if typ, ok := tf.annotations.Type(op); ok {
				return typ
			}
		}
	case *lang.Variable:
		for _, def := range x.Defs {
			if typ, ok := tf.annotations.Type(def); ok {
				return typ
			}
		}
	}
	return ""
}

// CalleeName returns the name of the function called, or "" when the callee is not a literal name. Leading
// namespace separators are removed.
func CalleeName(name lang.Operand) string {
	if l, ok := name.(*lang.Literal); ok {
		return strings.TrimPrefix(l.Value, "\\")
	}
	return ""
}
