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

	"github.com/awslabs/ar-php-tools/analysis/lang"
	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// ArgTaint is the taint bound to one parameter at a call
type ArgTaint struct {
	Param string
	Taint Taint
}

// FuncCallMapping records the result taint of a function for one vector of argument taints
type FuncCallMapping struct {
	Function *lang.FunctionDecl
	// Args holds one entry per parameter, in declaration order
	Args   []ArgTaint
	Result Taint
}

// Matches returns true if the mapping is for fn called with the argument taints args. The order of args matters.
func (m FuncCallMapping) Matches(fn *lang.FunctionDecl, args []ArgTaint) bool {
	return m.Function == fn && slices.Equal(m.Args, args)
}

func (m FuncCallMapping) String() string {
	return fmt.Sprintf("%s(%s) -> %s", m.Function.Name, formatArgs(m.Args), m.Result)
}

func formatArgs(args []ArgTaint) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprintf("$%s: %s", a.Param, a.Taint)
	}
	return strings.Join(parts, ", ")
}

// Memo caches the results of function calls, keyed by function and argument taints
type Memo struct {
	entries    []FuncCallMapping
	byFunction map[*lang.FunctionDecl][]int
	// maxEntries bounds the number of entries; <= 0 means unbounded
	maxEntries int
}

// NewMemo returns an empty memo holding at most maxEntries mappings. If maxEntries <= 0 the memo is unbounded.
func NewMemo(maxEntries int) *Memo {
	return &Memo{byFunction: map[*lang.FunctionDecl][]int{}, maxEntries: maxEntries}
}

// Find returns the result of fn for args, if it has been computed
func (m *Memo) Find(fn *lang.FunctionDecl, args []ArgTaint) (Taint, bool) {
	for _, i := range m.byFunction[fn] {
		if m.entries[i].Matches(fn, args) {
			return m.entries[i].Result, true
		}
	}
	return Unknown, false
}

// Add inserts the mapping and returns true, unless the memo is full or already holds a mapping for the same call.
func (m *Memo) Add(mapping FuncCallMapping) bool {
	if m.IsFull() {
		return false
	}
	if _, ok := m.Find(mapping.Function, mapping.Args); ok {
		return false
	}
	mapping.Args = slices.Clone(mapping.Args)
	m.byFunction[mapping.Function] = append(m.byFunction[mapping.Function], len(m.entries))
	m.entries = append(m.entries, mapping)
	return true
}

// IsFull returns true if no more mappings can be added
func (m *Memo) IsFull() bool {
	return m.maxEntries > 0 && len(m.entries) >= m.maxEntries
}

// Len returns the number of mappings in the memo
func (m *Memo) Len() int {
	return len(m.entries)
}

// Entries returns the mappings in insertion order
func (m *Memo) Entries() []FuncCallMapping {
	return slices.Clone(m.entries)
}

// MarshalYAML represents the memo as a list of mappings, with the arguments as an ordered map
func (m *Memo) MarshalYAML() (any, error) {
	seq := &yaml.Node{Kind: yaml.SequenceNode}
	for _, e := range m.entries {
		args := &yaml.Node{Kind: yaml.MappingNode}
		for _, a := range e.Args {
			args.Content = append(args.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: a.Param},
				&yaml.Node{Kind: yaml.ScalarNode, Value: a.Taint.String()})
		}
		entry := &yaml.Node{Kind: yaml.MappingNode}
		entry.Content = append(entry.Content,
			scalar("function"), scalar(e.Function.Name),
			scalar("file"), scalar(e.Function.File),
			scalar("args"), args,
			scalar("result"), scalar(e.Result.String()))
		seq.Content = append(seq.Content, entry)
	}
	return seq, nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
}
