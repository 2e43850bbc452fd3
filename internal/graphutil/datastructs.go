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

package graphutil

import "github.com/awslabs/ar-php-tools/internal/funcutil"

// Tree is a generic tree where each node knows its parent. The analysis uses it for the chain of files being
// included: the current file is a leaf and its ancestors are the files that include it.
type Tree[T comparable] struct {
	Parent   *Tree[T]
	Children []*Tree[T]
	Label    T
}

// NewTree returns a tree with a single node labelled rootLabel
func NewTree[T comparable](rootLabel T) *Tree[T] {
	return &Tree[T]{Label: rootLabel}
}

// AddChild adds a node labelled label under t and returns it
func (t *Tree[T]) AddChild(label T) *Tree[T] {
	child := &Tree[T]{Parent: t, Label: label}
	t.Children = append(t.Children, child)
	return child
}

// Path returns the labels from the root of the tree down to t, t included
func (t *Tree[T]) Path() []T {
	var ans []T
	for cur := t; cur != nil; cur = cur.Parent {
		ans = append(ans, cur.Label)
	}
	funcutil.Reverse(ans)
	return ans
}

// HasAncestor returns true if t or one of its ancestors is labelled label
func (t *Tree[T]) HasAncestor(label T) bool {
	for cur := t; cur != nil; cur = cur.Parent {
		if cur.Label == label {
			return true
		}
	}
	return false
}
