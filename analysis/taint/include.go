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
)

// maxResolveDepth bounds the recursion when resolving include paths
const maxResolveDepth = 64

// DoInclude annotates an include following the three ways the path can be known:
//
//   - the path resolves to a literal naming an existing file other than the current one: the file is analyzed and
//     the include has the taint of the result of the file, with threat "result";
//   - the path is built only from literals and sanitized values: the include is Untainted, with threat "file";
//   - otherwise the include is Tainted, with threat "file".
//
// An include whose literal path names a missing file, or the current file, is left without taint.
func (r *Resolver) DoInclude(op *lang.Include) {
	if path, ok := r.resolveLiteral(op.Expr, 0); ok {
		r.includeLiteral(op, path)
		return
	}
	if r.isSafeForFileInclusion(op.Expr, 0) {
		r.annotations.SetTaint(op, Untainted)
	} else {
		r.annotations.SetTaint(op, Tainted)
	}
	r.annotations.SetThreats(op, ThreatFile)
}

func (r *Resolver) includeLiteral(op *lang.Include, path string) {
	current := r.scope.File()
	target, ok := r.files.Resolve(current, path)
	if !ok {
		r.logger.Debugf("%s: %s %q not found", op.Position(), op.Kind, path)
		return
	}
	if target == current {
		r.logger.Debugf("%s: %s of the current file skipped", op.Position(), op.Kind)
		return
	}
	r.includeGraph.AddInclude(current, target)
	if r.isBeingIncluded(target) {
		r.logger.Debugf("%s: %s is already being analyzed (%s)", op.Position(), target,
			strings.Join(r.includes.Path(), " -> "))
		return
	}
	if op.Kind.Once() {
		if t, ok := r.fileResults[target]; ok {
			r.annotations.SetTaint(op, t)
			r.annotations.SetThreats(op, ThreatResult)
			return
		}
	}
	t, err := r.includeFile(target)
	if err != nil {
		r.errors = append(r.errors, err)
		r.logger.Warnf("%s: %v", op.Position(), err)
		return
	}
	r.annotations.SetTaint(op, t)
	r.annotations.SetThreats(op, ThreatResult)
}

// includeFile analyzes the file target in a fresh scope and returns its result taint
func (r *Resolver) includeFile(target string) (Taint, error) {
	if r.config.ExceedsMaxDepth(len(r.frames)) {
		return Unknown, fmt.Errorf("could not include %s: %w", target, ErrMaxDepth)
	}
	script, err := r.parser.ParseFile(target)
	if err != nil {
		return Unknown, fmt.Errorf("could not include %s: %w", target, err)
	}
	if err := r.declareAll(script); err != nil {
		return Unknown, fmt.Errorf("could not include %s: %w", target, err)
	}
	if _, analyzed := r.fileResults[target]; !analyzed {
		r.scripts = append(r.scripts, script)
	}
	r.logger.Debugf("analyzing included file %s", target)
	r.callGraph.AddNode(callGraphName(script.Main))
	r.callGraph.AddEdge(callGraphName(r.frame().fn), callGraphName(script.Main))
	r.includes = r.includes.AddChild(target)
	out, _ := r.walk(script.Main, r.scope.EnterFile(target))
	r.includes = r.includes.Parent
	r.fileResults[target] = out.ResultTaint()
	return out.ResultTaint(), nil
}

func (r *Resolver) isBeingIncluded(file string) bool {
	return r.includes.HasAncestor(file)
}

// resolveLiteral returns the string value of o when it can be computed from literals, through concatenations,
// assignments, temporaries, constants, dirname calls and string casts.
//
//gocyclo:ignore
func (r *Resolver) resolveLiteral(o lang.Operand, depth int) (string, bool) {
	if depth > maxResolveDepth {
		return "", false
	}
	switch x := o.(type) {
	case *lang.Literal:
		return x.Value, true
	case *lang.Variable:
		if len(x.Defs) == 0 || r.tf.IsSuperGlobal(x.Name) {
			return "", false
		}
		res := ""
		for i, def := range x.Defs {
			s, ok := r.resolveOpLiteral(def, depth+1)
			if !ok || (i > 0 && s != res) {
				return "", false
			}
			res = s
		}
		return res, true
	case *lang.Temporary:
		if x.Original != nil {
			return r.resolveLiteral(x.Original, depth+1)
		}
		if len(x.Ops) == 1 {
			return r.resolveOpLiteral(x.Ops[0], depth+1)
		}
	}
	return "", false
}

func (r *Resolver) resolveOpLiteral(op lang.Operation, depth int) (string, bool) {
	switch x := op.(type) {
	case *lang.StringConcatenation:
		var b strings.Builder
		for _, part := range x.Parts {
			s, ok := r.resolveLiteral(part, depth+1)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	case *lang.Assign:
		return r.resolveLiteral(x.Expr, depth+1)
	case *lang.ConstantFetch:
		if x.Name == "DIRECTORY_SEPARATOR" {
			return "/", true
		}
		return x.Name, true
	case *lang.FunctionCall:
		if strings.EqualFold(CalleeName(x.Name), "dirname") && len(x.Args) == 1 {
			if s, ok := r.resolveLiteral(x.Args[0], depth+1); ok {
				return filepath.Dir(s), true
			}
		}
	case *lang.Cast:
		if x.Kind == lang.CastString {
			return r.resolveLiteral(x.Expr, depth+1)
		}
	}
	return "", false
}

// isSafeForFileInclusion returns true if o is built only from literals, constants, numeric values and the results
// of sanitizers for file paths.
//
//gocyclo:ignore
func (r *Resolver) isSafeForFileInclusion(o lang.Operand, depth int) bool {
	if depth > maxResolveDepth {
		return false
	}
	switch x := o.(type) {
	case *lang.Literal:
		return true
	case *lang.Variable:
		// a variable without definitions is bound outside the current body, and its taint does not tell for which
		// context it was sanitized
		if r.tf.IsSuperGlobal(x.Name) || len(x.Defs) == 0 {
			return false
		}
		for _, def := range x.Defs {
			if !r.isSafeOp(def, depth+1) {
				return false
			}
		}
		return true
	case *lang.Temporary:
		if x.Original != nil {
			return r.isSafeForFileInclusion(x.Original, depth+1)
		}
		if len(x.Ops) == 0 {
			return false
		}
		for _, op := range x.Ops {
			if !r.isSafeOp(op, depth+1) {
				return false
			}
		}
		return true
	}
	return false
}

func (r *Resolver) isSafeOp(op lang.Operation, depth int) bool {
	switch x := op.(type) {
	case *lang.StringConcatenation:
		for _, part := range x.Parts {
			if !r.isSafeForFileInclusion(part, depth+1) {
				return false
			}
		}
		return true
	case *lang.Assign:
		return r.isSafeForFileInclusion(x.Expr, depth+1)
	case *lang.ConstantFetch:
		return true
	case *lang.FunctionCall:
		return r.tf.IsSanitizer(CalleeName(x.Name), config.ContextFile)
	case *lang.Cast:
		switch x.Kind {
		case lang.CastInt, lang.CastFloat, lang.CastBool:
			return true
		case lang.CastString:
			return r.isSafeForFileInclusion(x.Expr, depth+1)
		}
	}
	return false
}
