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

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestIncludeGraph(t *testing.T) {
	ig := NewIncludeGraph()
	ig.AddInclude("index.php", "config.php")
	ig.AddInclude("index.php", "lib/a.php")
	ig.AddInclude("lib/a.php", "lib/b.php")
	ig.AddFile("standalone.php")

	order, err := ig.Order()
	if err != nil {
		t.Fatalf("Order() unexpected error: %v", err)
	}
	pos := map[string]int{}
	for i, f := range order {
		pos[f] = i
	}
	if pos["index.php"] > pos["lib/a.php"] || pos["lib/a.php"] > pos["lib/b.php"] {
		t.Errorf("Order() should put includers first, got %v", order)
	}
	if len(order) != 5 {
		t.Errorf("Order() should contain every file, got %v", order)
	}
	if len(ig.Cycles()) != 0 {
		t.Errorf("Cycles() should be empty, got %v", ig.Cycles())
	}

	ig.AddInclude("lib/b.php", "index.php")
	ig.AddInclude("config.php", "config.php")
	want := [][]string{{"config.php"}, {"index.php", "lib/a.php", "lib/b.php"}}
	if diff := cmp.Diff(want, ig.Cycles()); diff != "" {
		t.Errorf("Cycles() mismatch (-want +got):\n%s", diff)
	}
	if _, err := ig.Order(); err == nil {
		t.Errorf("Order() should fail on a cyclic graph")
	}
}

func TestTreePath(t *testing.T) {
	root := NewTree("index.php")
	a := root.AddChild("a.php")
	b := a.AddChild("b.php")
	root.AddChild("c.php")
	if diff := cmp.Diff([]string{"index.php", "a.php", "b.php"}, b.Path()); diff != "" {
		t.Errorf("Path() mismatch (-want +got):\n%s", diff)
	}
	if !b.HasAncestor("index.php") || !b.HasAncestor("b.php") {
		t.Errorf("b.php should have index.php and itself as ancestors")
	}
	if b.HasAncestor("c.php") {
		t.Errorf("c.php is a sibling, not an ancestor")
	}
	if len(root.Children) != 2 || b.Parent != a {
		t.Errorf("unexpected shape of the tree")
	}
}
