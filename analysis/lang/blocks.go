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

package lang

// Successors returns the blocks control can go to at the end of b, in the order of its jump operations. For
// conditional jumps, the If block comes before the Else block.
func Successors(b *Block) []*Block {
	var succs []*Block
	for _, op := range b.Ops {
		switch j := op.(type) {
		case *Jump:
			if j.Target != nil {
				succs = append(succs, j.Target)
			}
		case *ConditionalJump:
			if j.If != nil {
				succs = append(succs, j.If)
			}
			if j.Else != nil {
				succs = append(succs, j.Else)
			}
		}
	}
	return succs
}

// reachable returns the blocks reachable from b in breadth-first order, b included.
func reachable(b *Block) []*Block {
	if b == nil {
		return nil
	}
	vis := map[*Block]bool{b: true}
	order := []*Block{b}
	for i := 0; i < len(order); i++ {
		for _, nb := range Successors(order[i]) {
			if !vis[nb] {
				vis[nb] = true
				order = append(order, nb)
			}
		}
	}
	return order
}

// MergeBlock returns the first block, in breadth-first order from b2, that is reachable from both b1 and b2. This is
// the block where the two branches of a conditional jump join. It returns nil if the branches never join.
func MergeBlock(b1 *Block, b2 *Block) *Block {
	if b1 == nil || b2 == nil {
		return nil
	}
	fromFirst := map[*Block]bool{}
	for _, b := range reachable(b1) {
		fromFirst[b] = true
	}
	for _, b := range reachable(b2) {
		if fromFirst[b] {
			return b
		}
	}
	return nil
}

// Blocks returns all the blocks of the function body, in breadth-first order from its entry.
func Blocks(f *FunctionDecl) []*Block {
	if f == nil {
		return nil
	}
	return reachable(f.CFG)
}
