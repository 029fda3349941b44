package rope

// ChunkIterator walks the leaf chunks of a rope in order.
//
//	it := r.Chunks()
//	for it.Next() {
//	    use(it.Chunk())
//	}
type ChunkIterator struct {
	stack []iterFrame
	chunk string
	start ByteOffset
	next  ByteOffset
}

type iterFrame struct {
	node *Node
	idx  int
}

// Chunks returns an iterator over all chunks in the rope.
func (r Rope) Chunks() *ChunkIterator {
	it := &ChunkIterator{}
	if r.root != nil {
		it.stack = append(it.stack, iterFrame{node: r.root})
	}
	return it
}

// Next advances to the next chunk. It returns false when iteration is done.
func (it *ChunkIterator) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.node.IsLeaf() {
			it.stack = it.stack[:len(it.stack)-1]
			it.chunk = top.node.text
			it.start = it.next
			it.next += ByteOffset(len(it.chunk))
			return true
		}
		if top.idx == len(top.node.children) {
			it.stack = it.stack[:len(it.stack)-1]
			continue
		}
		child := top.node.children[top.idx]
		top.idx++
		it.stack = append(it.stack, iterFrame{node: child})
	}
	return false
}

// Chunk returns the current chunk.
func (it *ChunkIterator) Chunk() string {
	return it.chunk
}

// Offset returns the byte offset of the current chunk within the rope.
func (it *ChunkIterator) Offset() ByteOffset {
	return it.start
}

// LineIterator walks the lines of a rope, yielding each line's text without
// its newline.
type LineIterator struct {
	rope Rope
	line uint32
	text string
}

// Lines returns an iterator over all lines in the rope.
func (r Rope) Lines() *LineIterator {
	return &LineIterator{rope: r}
}

// Next advances to the next line.
func (it *LineIterator) Next() bool {
	if it.line >= it.rope.LineCount() {
		return false
	}
	it.text = it.rope.LineText(it.line)
	it.line++
	return true
}

// Text returns the current line's text.
func (it *LineIterator) Text() string {
	return it.text
}

// Line returns the index of the current line.
func (it *LineIterator) Line() uint32 {
	return it.line - 1
}
