package grok

import "fmt"

// nodeKind is the state of a slot in the packer's heap.
type nodeKind uint8

const (
	// nodeVacant reserves heap space for the children of a node that has
	// not been split yet.
	//
	// The root (0) is split into 1 and 2. An insert that fails in 1 but
	// succeeds in 2 splits 2 into 5 and 6, so 3 and 4 must exist as
	// placeholders:
	//
	//	| 0 | 1 | 2 | 3 | 4 | 5 | 6 |
	//	| B | L | B | V | V | L | L |
	nodeVacant nodeKind = iota
	// nodeClosed is a leaf whose residual rectangle has no area.
	nodeClosed
	// nodeLeaf is a free rectangle that can accept an insert.
	nodeLeaf
	// nodeBranch is a claimed slot; its remainder is split between the
	// right (2i+1) and bottom (2i+2) children.
	nodeBranch
)

func (k nodeKind) String() string {
	switch k {
	case nodeVacant:
		return "vacant"
	case nodeClosed:
		return "closed"
	case nodeLeaf:
		return "leaf"
	case nodeBranch:
		return "branch"
	}
	return fmt.Sprintf("nodeKind(%d)", uint8(k))
}

type packNode struct {
	kind nodeKind
	rect Rect[uint32]
}

// Packer is a guillotine rectangle packer. Each claimed slot splits the
// free rectangle it was placed in into the area to its right and the
// full-width area below it:
//
//	 ____________________________
//	|          |                 |
//	|   Slot   |      Right      |
//	|__________|_________________|
//	|                            |
//	|           Bottom           |
//	|____________________________|
//
// Nodes live in a flat slice indexed as a binary heap. Packing is
// deterministic: the same inserts on a fresh packer yield the same slots.
type Packer struct {
	nodes     []packNode
	available int
	size      [2]uint32
}

// NewPacker returns a packer covering a width x height region.
func NewPacker(width, height uint32) *Packer {
	p := &Packer{size: [2]uint32{width, height}}
	p.nodes = []packNode{{}}
	p.setChild(0, NewRect(0, 0, width, height))
	return p
}

// Size returns the dimensions of the packed region.
func (p *Packer) Size() [2]uint32 {
	return p.size
}

// Available returns the number of free rectangles.
func (p *Packer) Available() int {
	return p.available
}

// HasSpace reports whether any free rectangle remains.
func (p *Packer) HasSpace() bool {
	return p.available > 0
}

// TryInsert claims a width x height slot and returns its top-left corner.
// ok is false when no free rectangle can hold it.
func (p *Packer) TryInsert(width, height uint32) (pos [2]uint32, ok bool) {
	if len(p.nodes) == 0 {
		return pos, false
	}
	return p.insert([2]uint32{width, height}, 0)
}

func (p *Packer) insert(target [2]uint32, index int) ([2]uint32, bool) {
	node := p.nodes[index]
	switch node.kind {
	case nodeVacant:
		panic(fmt.Sprintf("grok: packer followed branch %d to a vacant node", (index-1)/2))

	case nodeClosed:
		return [2]uint32{}, false

	case nodeLeaf:
		rect := node.rect
		if target[0] > rect.Size[0] || target[1] > rect.Size[1] {
			return [2]uint32{}, false
		}

		slot := rect.Pos
		p.nodes[index] = packNode{kind: nodeBranch, rect: Rect[uint32]{Pos: slot, Size: target}}
		p.available--

		right, bottom := 2*index+1, 2*index+2
		if bottom >= len(p.nodes) {
			p.nodes = append(p.nodes, make([]packNode, bottom+1-len(p.nodes))...)
		}
		p.setChild(right, NewRect(slot[0]+target[0], slot[1], rect.Size[0]-target[0], target[1]))
		p.setChild(bottom, NewRect(slot[0], slot[1]+target[1], rect.Size[0], rect.Size[1]-target[1]))
		return slot, true

	case nodeBranch:
		if pos, ok := p.insert(target, 2*index+1); ok {
			return pos, true
		}
		return p.insert(target, 2*index+2)
	}
	return [2]uint32{}, false
}

func (p *Packer) setChild(index int, rect Rect[uint32]) {
	if rect.Empty() {
		p.nodes[index] = packNode{kind: nodeClosed}
		return
	}
	p.nodes[index] = packNode{kind: nodeLeaf, rect: rect}
	p.available++
}
