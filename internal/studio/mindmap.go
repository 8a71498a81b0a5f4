package studio

import (
	"strconv"
	"strings"
)

// NodeKey addresses a mind-map node by its index path from the forest root,
// e.g. "0.2.1". Keys are stable for a given payload.
type NodeKey string

// ChildKey returns the key of the i-th child of k. The zero key is the forest.
func (k NodeKey) ChildKey(i int) NodeKey {
	if k == "" {
		return NodeKey(strconv.Itoa(i))
	}
	return k + NodeKey("."+strconv.Itoa(i))
}

// Depth is the number of ancestors of the node.
func (k NodeKey) Depth() int {
	if k == "" {
		return 0
	}
	return strings.Count(string(k), ".")
}

// DefaultExpanded is the initial state of a node at depth: the first two
// levels start open.
func DefaultExpanded(depth int) bool {
	return depth < 2
}

// TreeState holds per-node expansion overrides. Each node owns its own flag;
// collapsing an ancestor hides a subtree without forgetting its state.
type TreeState struct {
	overrides map[NodeKey]bool
}

// NewTreeState returns a state where every node has its default.
func NewTreeState() *TreeState {
	return &TreeState{overrides: make(map[NodeKey]bool)}
}

// Expanded reports whether the node at key is open.
func (s *TreeState) Expanded(key NodeKey) bool {
	if s != nil {
		if v, ok := s.overrides[key]; ok {
			return v
		}
	}
	return DefaultExpanded(key.Depth())
}

// Toggle flips the node at key and returns its new state.
func (s *TreeState) Toggle(key NodeKey) bool {
	next := !s.Expanded(key)
	if next == DefaultExpanded(key.Depth()) {
		delete(s.overrides, key)
	} else {
		s.overrides[key] = next
	}
	return next
}

// Reset restores every node to its default.
func (s *TreeState) Reset() {
	clear(s.overrides)
}

// TreeLine is one visible row of a rendered mind map.
type TreeLine struct {
	Key      NodeKey
	ID       string
	Label    string
	Depth    int
	Leaf     bool // no children, so no expand affordance
	Expanded bool
	Children int
}

// VisibleNodes flattens the forest into the rows currently shown.
func VisibleNodes(forest []MindMapNode, state *TreeState) []TreeLine {
	var out []TreeLine
	var walk func(nodes []MindMapNode, parent NodeKey, depth int)
	walk = func(nodes []MindMapNode, parent NodeKey, depth int) {
		for i, n := range nodes {
			key := parent.ChildKey(i)
			line := TreeLine{
				Key:      key,
				ID:       n.ID,
				Label:    n.Label,
				Depth:    depth,
				Leaf:     len(n.Children) == 0,
				Children: len(n.Children),
			}
			if !line.Leaf {
				line.Expanded = state.Expanded(key)
			}
			out = append(out, line)
			if line.Expanded {
				walk(n.Children, key, depth+1)
			}
		}
	}
	walk(forest, "", 0)
	return out
}
