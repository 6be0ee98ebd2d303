package ast

// Chain is an immutable, persistent linked list of ancestor frames. The
// traverser pushes a frame when descending into a child and the caller
// simply drops its reference when ascending — there is no pop mutation,
// which is what makes the chain safe to pass by value to every rewriter
// without them needing to restore it afterwards.
//
// This replaces storing a parent pointer on Node itself (spec §9): the
// original motivation for an on-node parent pointer was so a rewriter could
// answer "what is my parent, which slot, which index" — Chain answers the
// same question without creating a cycle in the tree and without the
// O(depth^2) cost of copying an ancestor array at every recursive call.
type Chain struct {
	frame *frame
}

type frame struct {
	parent *Node
	slot   string
	// index is non-negative exactly when slot holds a list (invariant,
	// §3); -1 marks a single-node slot.
	index int
	up    *Chain
}

// emptyChain is the reused sentinel for "no ancestors" (root of the tree).
// Callers never need to branch on a nil Chain.
var emptyChain = Chain{}

// Root returns the empty chain, to be passed for the root node of a walk.
func Root() Chain { return emptyChain }

// Push returns a new chain with one additional frame describing that child
// occupies slot (and, if the slot is a list, index) of parent. O(1).
func (c Chain) Push(parent *Node, slot string, index int) Chain {
	self := c
	return Chain{frame: &frame{parent: parent, slot: slot, index: index, up: &self}}
}

// Parent returns the immediate parent node, or nil at the root.
func (c Chain) Parent() *Node {
	if c.frame == nil {
		return nil
	}
	return c.frame.parent
}

// Slot returns the slot name the current node occupies in its parent, or
// "" at the root.
func (c Chain) Slot() string {
	if c.frame == nil {
		return ""
	}
	return c.frame.slot
}

// Index returns the list index the current node occupies, or -1 if the
// slot is a single-node slot or this is the root.
func (c Chain) Index() int {
	if c.frame == nil {
		return -1
	}
	return c.frame.index
}

// Last returns the n-th frame counting back from the tip (n=0 is the
// immediate parent, n=1 the grandparent, …), or the empty chain if the
// chain is shorter than n+1 frames. O(n).
func (c Chain) Last(n int) Chain {
	cur := c
	for i := 0; i < n; i++ {
		if cur.frame == nil {
			return emptyChain
		}
		cur = *cur.frame.up
	}
	return cur
}

// Depth returns the number of ancestor frames (0 at the root).
func (c Chain) Depth() int {
	d := 0
	for cur := c; cur.frame != nil; cur = *cur.frame.up {
		d++
	}
	return d
}

// ReplaceHead replaces the node this chain's tip frame points at, within
// its parent, with newNode. A no-op if the chain is the root (its parent
// link is nil) — matching §4.1's "replacing via a chain whose parent link
// is null is a no-op".
func ReplaceHead(c Chain, newNode *Node) {
	if c.frame == nil || c.frame.parent == nil {
		return
	}
	p := c.frame.parent
	slot := c.frame.slot
	v := p.Slots[slot]
	if v.IsList() {
		if c.frame.index < 0 || c.frame.index >= len(v.List) {
			return
		}
		v.List[c.frame.index] = newNode
		p.Slots[slot] = v
		return
	}
	p.SetChild(slot, newNode)
}

// ReplaceHeadWithMany splices newNodes into the list slot at the chain
// tip's position, replacing the single element there with N nodes (N may
// be 0, which removes the element). No-op on a single-node slot or a root
// chain.
func ReplaceHeadWithMany(c Chain, newNodes []*Node) {
	if c.frame == nil || c.frame.parent == nil {
		return
	}
	p := c.frame.parent
	slot := c.frame.slot
	v := p.Slots[slot]
	if !v.IsList() || c.frame.index < 0 || c.frame.index >= len(v.List) {
		return
	}
	out := make([]*Node, 0, len(v.List)-1+len(newNodes))
	out = append(out, v.List[:c.frame.index]...)
	out = append(out, newNodes...)
	out = append(out, v.List[c.frame.index+1:]...)
	p.SetList(slot, out)
}

// RemoveHead removes the node this chain's tip frame points at from its
// parent. For a list slot this deletes that element; for a single-node
// slot it sets the slot to nil. No-op at the root.
func RemoveHead(c Chain) {
	if c.frame == nil || c.frame.parent == nil {
		return
	}
	p := c.frame.parent
	slot := c.frame.slot
	v := p.Slots[slot]
	if v.IsList() {
		if c.frame.index < 0 || c.frame.index >= len(v.List) {
			return
		}
		out := make([]*Node, 0, len(v.List)-1)
		out = append(out, v.List[:c.frame.index]...)
		out = append(out, v.List[c.frame.index+1:]...)
		p.SetList(slot, out)
		return
	}
	p.SetChild(slot, nil)
}

// WrapInBlock replaces a single non-block statement occupying the chain
// tip's slot with a BlockStatement whose body is that one statement.
// No-op if the node already is a BlockStatement or the chain is the root.
func WrapInBlock(c Chain, stmt *Node) {
	if stmt == nil || stmt.Kind == BlockStatement {
		return
	}
	block := NewNode(BlockStatement, map[string]SlotValue{
		SlotBody: {List: []*Node{stmt}},
	})
	ReplaceHead(c, block)
}
