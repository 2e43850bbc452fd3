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
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Scope maps variable names to taint values for one file. A Scope is a value: every mutator returns a new Scope
// and leaves the receiver unchanged. The zero Scope is an empty scope with no file.
type Scope struct {
	// variables is never modified after the scope is built
	variables   map[string]Taint
	file        string
	resultTaint Taint
}

// NewScope returns an empty scope for file. Its result taint is Untainted.
func NewScope(file string) Scope {
	return Scope{file: file, resultTaint: Untainted}
}

// AssignVariable returns a copy of the scope where name is bound to t
func (s Scope) AssignVariable(name string, t Taint) Scope {
	vars := make(map[string]Taint, len(s.variables)+1)
	for k, v := range s.variables {
		vars[k] = v
	}
	vars[name] = t
	s.variables = vars
	return s
}

// VariableTaint returns the taint bound to name. Unbound variables are Unknown.
func (s Scope) VariableTaint(name string) Taint {
	if t, ok := s.variables[name]; ok {
		return t
	}
	return Unknown
}

// IsBound returns true if name is bound in the scope
func (s Scope) IsBound(name string) bool {
	_, ok := s.variables[name]
	return ok
}

// EnterFile returns a fresh scope for the analysis of the included file path
func (s Scope) EnterFile(path string) Scope {
	return NewScope(path)
}

// File returns the file of the scope
func (s Scope) File() string {
	return s.file
}

// ResultTaint returns the taint of the value returned by the file, i.e. the join of the taints of its top-level
// return statements.
func (s Scope) ResultTaint() Taint {
	return s.resultTaint
}

// WithResultTaint returns a copy of the scope whose result taint is t
func (s Scope) WithResultTaint(t Taint) Scope {
	s.resultTaint = t
	return s
}

// Join returns the pointwise join of s and other. A variable bound on one side only is joined with Unknown, the
// value of the unbound side. The file of s is kept.
func (s Scope) Join(other Scope) Scope {
	vars := make(map[string]Taint, len(s.variables))
	for k, v := range s.variables {
		vars[k] = Join(v, other.VariableTaint(k))
	}
	for k, v := range other.variables {
		if _, ok := vars[k]; !ok {
			vars[k] = Join(v, Unknown)
		}
	}
	return Scope{variables: vars, file: s.file, resultTaint: Join(s.resultTaint, other.resultTaint)}
}

// Variables returns the sorted names of the bound variables
func (s Scope) Variables() []string {
	names := maps.Keys(s.variables)
	slices.Sort(names)
	return names
}

func (s Scope) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s{", s.file)
	for i, name := range s.Variables() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "$%s: %s", name, s.variables[name])
	}
	fmt.Fprintf(&b, "} -> %s", s.resultTaint)
	return b.String()
}
