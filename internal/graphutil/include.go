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
	"fmt"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// IncludeGraph records which files include which other files during an analysis.
type IncludeGraph struct {
	g         *simple.DirectedGraph
	ids       map[string]int64
	names     map[int64]string
	selfLoops map[string]bool
}

// NewIncludeGraph returns an empty include graph
func NewIncludeGraph() *IncludeGraph {
	return &IncludeGraph{
		g:         simple.NewDirectedGraph(),
		ids:       map[string]int64{},
		names:     map[int64]string{},
		selfLoops: map[string]bool{},
	}
}

func (ig *IncludeGraph) node(file string) graph.Node {
	if id, ok := ig.ids[file]; ok {
		return ig.g.Node(id)
	}
	n := ig.g.NewNode()
	ig.g.AddNode(n)
	ig.ids[file] = n.ID()
	ig.names[n.ID()] = file
	return n
}

// AddFile adds file to the graph
func (ig *IncludeGraph) AddFile(file string) {
	ig.node(file)
}

// AddInclude records that from includes to
func (ig *IncludeGraph) AddInclude(from string, to string) {
	if from == to {
		ig.node(from)
		ig.selfLoops[from] = true
		return
	}
	ig.g.SetEdge(ig.g.NewEdge(ig.node(from), ig.node(to)))
}

// Cycles returns the sets of files that include each other, each set sorted, and the sets sorted by their first
// file.
func (ig *IncludeGraph) Cycles() [][]string {
	var res [][]string
	for _, scc := range topo.TarjanSCC(ig.g) {
		if len(scc) > 1 {
			res = append(res, ig.sortedNames(scc))
		}
	}
	for f := range ig.selfLoops {
		res = append(res, []string{f})
	}
	sort.Slice(res, func(i, j int) bool { return res[i][0] < res[j][0] })
	return res
}

// Order returns the files in an order where every file comes before the files it includes. It returns an error when
// the files include each other.
func (ig *IncludeGraph) Order() ([]string, error) {
	sorted, err := topo.Sort(ig.g)
	if err != nil {
		return nil, fmt.Errorf("include graph has cycles: %w", err)
	}
	res := make([]string, len(sorted))
	for i, n := range sorted {
		res[i] = ig.names[n.ID()]
	}
	return res, nil
}

func (ig *IncludeGraph) sortedNames(nodes []graph.Node) []string {
	res := make([]string, len(nodes))
	for i, n := range nodes {
		res[i] = ig.names[n.ID()]
	}
	sort.Strings(res)
	return res
}
