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

	"gonum.org/v1/gonum/graph"
)

// NamedGraph is a directed graph whose nodes are labelled by unique names, e.g. the functions of a call graph.
// Node ids are assigned in insertion order starting at 0. It implements the methods to satisfy yourbasic's
// graph.Iterator and Gonum's graph.Directed.
type NamedGraph struct {
	// The order of the graph
	order int

	// names maps node ids to names
	names []string

	// ids maps names to node ids
	ids map[string]int64

	// Keys are all the node IDs, sorted
	Keys []int64

	// Edges is an adjacency matrix: Edges[x][y] means there is a directed edge between x and y
	Edges map[int64]map[int64]bool
}

// NewNamedGraph returns an empty graph
func NewNamedGraph() *NamedGraph {
	return &NamedGraph{
		ids:   map[string]int64{},
		Edges: map[int64]map[int64]bool{},
	}
}

// AddNode adds a node labelled name, if there is none yet, and returns its id.
func (g *NamedGraph) AddNode(name string) int64 {
	if id, ok := g.ids[name]; ok {
		return id
	}
	id := int64(len(g.names))
	g.names = append(g.names, name)
	g.ids[name] = id
	g.Keys = append(g.Keys, id)
	g.Edges[id] = map[int64]bool{}
	g.order++
	return id
}

// AddEdge adds a directed edge between the nodes labelled from and to, adding the nodes if necessary.
func (g *NamedGraph) AddEdge(from string, to string) {
	x := g.AddNode(from)
	y := g.AddNode(to)
	g.Edges[x][y] = true
}

// ID returns the id of the node labelled name
func (g *NamedGraph) ID(name string) (int64, bool) {
	id, ok := g.ids[name]
	return id, ok
}

// Name returns the label of the node with id, or "" if there is no such node
func (g *NamedGraph) Name(id int64) string {
	if id < 0 || int(id) >= len(g.names) {
		return ""
	}
	return g.names[id]
}

// Names returns the labels of the nodes in ids
func (g *NamedGraph) Names(ids []int64) []string {
	res := make([]string, len(ids))
	for i, id := range ids {
		res[i] = g.Name(id)
	}
	return res
}

// Subgraph returns a new graph that is the original graph with only the nodes in include. Only the edges that have
// both the origin and destination nodes in the include nodes are kept in the resulting graph.
// The subgraph's order, names and ids are the same as in origin, meaning that node indices will stay consistent
// across subgraphs.
func Subgraph(original *NamedGraph, include []int64) *NamedGraph {
	inSub := make(map[int64]bool, len(include))
	keys := make([]int64, len(include))
	for j, i := range include {
		keys[j] = i
		inSub[i] = true
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	edges := make(map[int64]map[int64]bool, len(include))
	for _, i := range include {
		edges[i] = map[int64]bool{}
		for e := range original.Edges[i] {
			if inSub[e] {
				edges[i][e] = true
			}
		}
	}

	return &NamedGraph{
		order: original.Order(),
		names: original.names,
		ids:   original.ids,
		Edges: edges,
		Keys:  keys,
	}
}

func (g *NamedGraph) has(id int64) bool {
	_, ok := g.Edges[id]
	return ok
}

// Order implements the order of the graph.Iterator interface for the NamedGraph
func (g *NamedGraph) Order() int {
	return g.order
}

// Visit implements the graph.Iterator interface for the NamedGraph
func (g *NamedGraph) Visit(v int, do func(w int, c int64) (skip bool)) (aborted bool) {
	for _, w := range sortedKeys(g.Edges[int64(v)]) {
		if do(int(w), 1) {
			return true
		}
	}
	return false
}

// *************** Graph interface implementation **********************

// Node implements the Graph interface
func (g *NamedGraph) Node(id int64) graph.Node {
	if !g.has(id) {
		return nil
	}
	return GNode{id: id, name: g.Name(id)}
}

// Nodes returns the set of nodes in the graph
func (g *NamedGraph) Nodes() graph.Nodes {
	return g.nodeSet(g.Keys)
}

// From returns the set of nodes reachable from the id
func (g *NamedGraph) From(id int64) graph.Nodes {
	return g.nodeSet(sortedKeys(g.Edges[id]))
}

// To returns the set of nodes that have an edge to id
func (g *NamedGraph) To(id int64) graph.Nodes {
	var keys []int64
	for _, k := range g.Keys {
		if g.Edges[k][id] {
			keys = append(keys, k)
		}
	}
	return g.nodeSet(keys)
}

// HasEdgeBetween returns a boolean indicating whether an edge exists between the two node identifiers
func (g *NamedGraph) HasEdgeBetween(xid, yid int64) bool {
	return g.Edges[xid][yid] || g.Edges[yid][xid]
}

// HasEdgeFromTo returns whether an edge exists from uid to vid
func (g *NamedGraph) HasEdgeFromTo(uid, vid int64) bool {
	return g.Edges[uid][vid]
}

// Edge returns the edge between the two identifiers (nil if none exists)
func (g *NamedGraph) Edge(uid, vid int64) graph.Edge {
	if g.Edges[uid][vid] {
		return GEdge{from: GNode{uid, g.Name(uid)}, to: GNode{vid, g.Name(vid)}}
	}
	return nil
}

func (g *NamedGraph) nodeSet(ids []int64) *NodeSet {
	return &NodeSet{graph: g, ids: ids, cur: -1}
}

func sortedKeys(m map[int64]bool) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// *************** Nodes implementation **********************

// GNode is a named node that implements the graph.Node interface
type GNode struct {
	id   int64
	name string
}

// ID returns the id of the node
func (n GNode) ID() int64 {
	return n.id
}

func (n GNode) String() string {
	return n.name
}

// NodeSet implements the graph.Nodes interface, an iterator over a set of nodes
type NodeSet struct {
	graph *NamedGraph

	// ids is the set of node ids in the iterator
	ids []int64

	// cur is the current index of the iterator. The current node is ids[cur]
	// invariant: -1 <= cur < len(ids)
	cur int
}

// Next moves the current node to the next, and returns true if such a node exists. Otherwise, returns false
// and the current node has not changed.
func (ns *NodeSet) Next() bool {
	if ns.cur < len(ns.ids)-1 {
		ns.cur++
		return true
	}
	return false
}

// Len returns the number of nodes remaining in the iterator
func (ns *NodeSet) Len() int {
	return len(ns.ids) - ns.cur - 1
}

// Reset resets the iterator to before the first node
func (ns *NodeSet) Reset() {
	ns.cur = -1
}

// Node return the current node in the set
func (ns *NodeSet) Node() graph.Node {
	if ns.cur < 0 || ns.cur >= len(ns.ids) {
		return nil
	}
	return ns.graph.Node(ns.ids[ns.cur])
}

// *************** Edge implementation **********************

// GEdge implements the graph.Edge interface
type GEdge struct {
	from GNode
	to   GNode
}

// From returns the origin of the edge
func (e GEdge) From() graph.Node {
	return e.from
}

// To returns the destination of the edge
func (e GEdge) To() graph.Node {
	return e.to
}

// ReversedEdge returns a new value representing the reversed edge
func (e GEdge) ReversedEdge() graph.Edge {
	return GEdge{from: e.to, to: e.from}
}
