package rope

import "strings"

// Tree shape constants.
const (
	// MaxChildren is the maximum children per internal node before splitting.
	MaxChildren = 8
)

// Node is a node of the rope B+ tree.
// Leaf nodes (height == 0) hold a non-empty text chunk. Internal nodes hold
// 2..MaxChildren children, all of the same height. Nodes are never mutated
// after construction, so they can be shared freely between ropes.
type Node struct {
	height   uint8
	summary  TextSummary
	text     string
	children []*Node
}

func newLeaf(text string) *Node {
	return &Node{text: text, summary: ComputeSummary(text)}
}

func newInternal(children []*Node) *Node {
	n := &Node{
		height:   children[0].height + 1,
		children: children,
	}
	for _, c := range children {
		n.summary = n.summary.Add(c.summary)
	}
	return n
}

// fromChildren builds the smallest node holding the given same-height
// siblings. A single child is returned as is.
func fromChildren(children []*Node) *Node {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return children[0]
	}
	owned := make([]*Node, len(children))
	copy(owned, children)
	return newInternal(owned)
}

// IsLeaf returns true if this is a leaf node.
func (n *Node) IsLeaf() bool {
	return n.height == 0
}

// Len returns the byte length of text in this subtree.
func (n *Node) Len() ByteOffset {
	return n.summary.Bytes
}

func (n *Node) appendTo(sb *strings.Builder) {
	if n.IsLeaf() {
		sb.WriteString(n.text)
		return
	}
	for _, c := range n.children {
		c.appendTo(sb)
	}
}

// appendRange appends the bytes in [start, end) of this subtree.
func (n *Node) appendRange(sb *strings.Builder, start, end ByteOffset) {
	if n.IsLeaf() {
		sb.WriteString(n.text[start:end])
		return
	}
	var base ByteOffset
	for _, c := range n.children {
		cEnd := base + c.Len()
		if cEnd > start && base < end {
			c.appendRange(sb, max(start, base)-base, min(end, cEnd)-base)
		}
		if cEnd >= end {
			return
		}
		base = cEnd
	}
}

// split cuts the subtree at offset. Either result may be nil.
func split(n *Node, offset ByteOffset) (*Node, *Node) {
	if n == nil || offset <= 0 {
		return nil, n
	}
	if offset >= n.Len() {
		return n, nil
	}
	if n.IsLeaf() {
		return newLeaf(n.text[:offset]), newLeaf(n.text[offset:])
	}

	var base ByteOffset
	for i, c := range n.children {
		cEnd := base + c.Len()
		if offset > cEnd {
			base = cEnd
			continue
		}
		if offset == cEnd {
			return fromChildren(n.children[:i+1]), fromChildren(n.children[i+1:])
		}
		l, r := split(c, offset-base)
		left := concat(fromChildren(n.children[:i]), l)
		right := concat(r, fromChildren(n.children[i+1:]))
		return left, right
	}
	return n, nil
}

// concat joins two subtrees, keeping every leaf at the same depth.
func concat(a, b *Node) *Node {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	nodes := join(a, b)
	if len(nodes) == 1 {
		return nodes[0]
	}
	return newInternal(nodes)
}

// join merges a and b into one or two nodes of height max(a.height, b.height).
// The shorter tree is grafted onto the facing spine of the taller one.
func join(a, b *Node) []*Node {
	switch {
	case a.height == b.height:
		if a.IsLeaf() {
			return joinLeaves(a, b)
		}
		children := make([]*Node, 0, len(a.children)+len(b.children))
		children = append(children, a.children...)
		children = append(children, b.children...)
		return pack(children)

	case a.height > b.height:
		last := len(a.children) - 1
		merged := join(a.children[last], b)
		children := make([]*Node, 0, last+len(merged))
		children = append(children, a.children[:last]...)
		children = append(children, merged...)
		return pack(children)

	default:
		merged := join(a, b.children[0])
		children := make([]*Node, 0, len(merged)+len(b.children)-1)
		children = append(children, merged...)
		children = append(children, b.children[1:]...)
		return pack(children)
	}
}

// joinLeaves merges two leaves when they fit in one chunk, and rebalances
// them when one is undersized.
func joinLeaves(a, b *Node) []*Node {
	if a.Len()+b.Len() <= MaxChunkSize {
		return []*Node{newLeaf(a.text + b.text)}
	}
	if a.Len() >= MinChunkSize && b.Len() >= MinChunkSize {
		return []*Node{a, b}
	}
	combined := a.text + b.text
	cut := runeBoundaryBefore(combined, len(combined)/2)
	return []*Node{newLeaf(combined[:cut]), newLeaf(combined[cut:])}
}

// pack wraps same-height children into one node, or two when they overflow
// MaxChildren. len(children) never exceeds 2*MaxChildren.
func pack(children []*Node) []*Node {
	if len(children) <= MaxChildren {
		return []*Node{newInternal(children)}
	}
	mid := len(children) / 2
	left := make([]*Node, mid)
	copy(left, children[:mid])
	right := make([]*Node, len(children)-mid)
	copy(right, children[mid:])
	return []*Node{newInternal(left), newInternal(right)}
}

// buildFromChunks builds a balanced tree bottom-up.
func buildFromChunks(chunks []string) *Node {
	if len(chunks) == 0 {
		return nil
	}
	nodes := make([]*Node, len(chunks))
	for i, c := range chunks {
		nodes[i] = newLeaf(c)
	}
	// Groups are sized evenly so no parent ends up with a single child.
	for len(nodes) > 1 {
		groups := (len(nodes) + MaxChildren - 1) / MaxChildren
		parents := make([]*Node, groups)
		for g := range groups {
			start := g * len(nodes) / groups
			end := (g + 1) * len(nodes) / groups
			parents[g] = fromChildren(nodes[start:end])
		}
		nodes = parents
	}
	return nodes[0]
}
