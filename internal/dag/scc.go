package dag

import "slices"

// StronglyConnected returns the strongly connected components of g with
// Tarjan's algorithm. A component is listed after every component it has
// edges to, so for "depends on" edges the result is in dependency order.
// Roots and neighbours are visited by ascending id and each component is
// sorted, which makes the result independent of edge insertion order.
func StronglyConnected(g Graph) [][]NodeID {
	n := len(g.Edges)
	const unset = -1
	index := make([]int, n)
	low := make([]int, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unset
	}
	var (
		stack []NodeID
		out   [][]NodeID
		next  int
	)

	var connect func(v NodeID)
	connect = func(v NodeID) {
		index[v], low[v] = next, next
		next++
		stack = append(stack, v)
		onStack[v] = true

		succ := slices.Clone(g.Edges[v])
		slices.Sort(succ)
		for _, w := range succ {
			if !g.Present[w] {
				continue
			}
			switch {
			case index[w] == unset:
				connect(w)
				low[v] = min(low[v], low[w])
			case onStack[w]:
				low[v] = min(low[v], index[w])
			}
		}

		if low[v] != index[v] {
			return
		}
		var comp []NodeID
		for {
			w := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		slices.Sort(comp)
		out = append(out, comp)
	}

	for i := range n {
		if g.Present[i] && index[i] == unset {
			connect(nodeID(i))
		}
	}
	return out
}

// Subgraph restricts g to nodes, renumbered by their position in nodes.
func (g Graph) Subgraph(nodes []NodeID) Graph {
	pos := make(map[NodeID]NodeID, len(nodes))
	for i, id := range nodes {
		pos[id] = nodeID(i)
	}
	sub := NewGraph(len(nodes))
	for i, id := range nodes {
		for _, to := range g.Edges[id] {
			if j, ok := pos[to]; ok {
				sub.AddEdge(nodeID(i), j)
			}
		}
	}
	return sub
}
