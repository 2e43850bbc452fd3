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

// Package lang provides the control-flow graph representation of PHP programs analyzed by the tools in this
// repository. A program is a Script made of FunctionDecls, each with an entry Block of Operations that read and
// define Operands.
// The set of operations and operands is closed: use OpSwitch with an OpVisitor to dispatch on operations.
package lang

import (
	"fmt"
	"sync/atomic"
)

// MainFunctionName is the name of the pseudo-function holding the top-level statements of a script.
const MainFunctionName = "{main}"

var blockCounter int64

// Position is the location of an operation in the source.
type Position struct {
	File string
	Line int
}

func (p Position) String() string {
	if p.File == "" {
		return "-"
	}
	return fmt.Sprintf("%s:%d", p.File, p.Line)
}

// A Block is a basic block of the control-flow graph. The successors of a block are the targets of its Jump and
// ConditionalJump operations.
type Block struct {
	// ID is unique in the process; it is used to key sets of visited blocks
	ID int

	// Ops is the ordered sequence of operations in the block
	Ops []Operation
}

// NewBlock returns a new empty block with a fresh identifier.
func NewBlock() *Block {
	return &Block{ID: int(atomic.AddInt64(&blockCounter, 1))}
}

// Add appends the operations to the block and returns the block.
func (b *Block) Add(ops ...Operation) *Block {
	b.Ops = append(b.Ops, ops...)
	return b
}

func (b *Block) String() string {
	return fmt.Sprintf("block#%d", b.ID)
}

// A Param is a formal parameter of a function.
type Param struct {
	Name string
	// Default is the default value of the parameter, nil if there is none
	Default Operand
}

// A FunctionDecl is a user-defined function, closure, or the main body of a script.
type FunctionDecl struct {
	Name   string
	Params []Param
	// CFG is the entry block of the function body
	CFG *Block
	// File is the file declaring the function
	File string
}

// NewFunctionDecl returns a function with an empty entry block.
func NewFunctionDecl(name string, file string, params ...string) *FunctionDecl {
	f := &FunctionDecl{Name: name, CFG: NewBlock(), File: file}
	for _, p := range params {
		f.Params = append(f.Params, Param{Name: p})
	}
	return f
}

func (f *FunctionDecl) String() string {
	return f.Name
}

// A Script is the result of parsing one source file.
type Script struct {
	File string
	// Main holds the top-level statements of the file
	Main *FunctionDecl
	// Functions are the functions and closures declared in the file
	Functions []*FunctionDecl
}

// NewScript returns a script with an empty main function.
func NewScript(file string) *Script {
	return &Script{
		File: file,
		Main: NewFunctionDecl(MainFunctionName, file),
	}
}
