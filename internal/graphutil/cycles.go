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
	"sort"

	"github.com/yourbasic/graph"
	"gonum.org/v1/gonum/graph/topo"
)

// FindAllElementaryCycles finds all elementary cycles in the graph, including self loops.
// This uses Donald B. Johnson's algorithm presented in
// "Finding All The Elementary Circuits of a Directed Graph", 1975
//
// Each cycle starts and ends with the same node, e.g. [a b a].
func FindAllElementaryCycles(g *NamedGraph) [][]int64 {
	s := &state{cycles: [][]int64{}}
	keys := g.Keys
	i := 0
	for i < len(keys) {
		fg := Subgraph(g, keys[i:])
		var least []int
		for _, component := range graph.StrongComponents(fg) {
			if len(component) == 1 && !fg.Edges[int64(component[0])][int64(component[0])] {
				continue
			}
			sort.Ints(component)
			if least == nil || component[0] < least[0] {
				least = component
			}
		}
		if least == nil {
			return s.cycles
		}
		ids := make([]int64, len(least))
		for j, c := range least {
			ids[j] = int64(c)
		}
		start := ids[0]
		s.stack = []int64{}
		s.blocked = map[int64]bool{}
		s.blist = map[int64]map[int64]bool{}
		s.circuit(start, start, Subgraph(g, ids))
		i = sort.Search(len(keys), func(j int) bool { return keys[j] > start })
	}
	return s.cycles
}

type state struct {
	blocked map[int64]bool
	blist   map[int64]map[int64]bool
	stack   []int64
	cycles  [][]int64
}

func (s *state) unblock(u int64) {
	s.blocked[u] = false
	for w := range s.blist[u] {
		delete(s.blist[u], w)
		if s.blocked[w] {
			s.unblock(w)
		}
	}
}

func (s *state) circuit(v int64, i int64, g *NamedGraph) bool {
	f := false
	s.stack = append(s.stack, v)
	s.blocked[v] = true
	for _, w := range sortedKeys(g.Edges[v]) {
		if w == i {
			stackCopy := make([]int64, len(s.stack))
			copy(stackCopy, s.stack)
			stackCopy = append(stackCopy, w)
			s.cycles = append(s.cycles, stackCopy)
			f = true
		} else if !s.blocked[w] {
			if s.circuit(w, i, g) {
				f = true
			}
		}
	}

	if f {
		s.unblock(v)
	} else {
		for w := range g.Edges[v] {
			m := s.blist[w]
			if m != nil {
				s.blist[w][v] = true
			} else {
				s.blist[w] = map[int64]bool{v: true}
			}
		}
	}
	s.stack = s.stack[:len(s.stack)-1]
	return f
}

// RecursiveNodes returns the sorted ids of the nodes that belong to a cycle: the members of strongly connected
// components with at least two nodes, and the nodes with a self loop.
func RecursiveNodes(g *NamedGraph) []int64 {
	var res []int64
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) > 1 || g.Edges[scc[0].ID()][scc[0].ID()] {
			for _, n := range scc {
				res = append(res, n.ID())
			}
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i] < res[j] })
	return res
}
