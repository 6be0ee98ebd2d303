package ast

import "sort"

// Visitor is invoked once per node during a walk. It receives the node and
// the parent chain leading to it and reports whether it mutated the tree at
// or below that node.
type Visitor func(n *Node, chain Chain) bool

// childOrder pins a deterministic, source-order-approximating slot
// iteration order for the kinds that matter most to rewriters relying on
// document order (scope creation, sequence lifting, bundle-IIFE pattern
// matching). Kinds not listed fall back to a stable lexical key order,
// which is deterministic but not meaningful as "source order" — acceptable
// since no rewriter in §4.6/§4.7 depends on cross-slot ordering for those
// kinds.
var childOrder = map[Kind][]string{
	Program:              {SlotBody},
	BlockStatement:       {SlotBody},
	IfStatement:          {SlotTest, SlotConsequent, SlotAlternate},
	ForStatement:         {SlotInit, SlotTest, SlotUpdate, SlotBody},
	ForInStatement:       {SlotLeft, SlotRight, SlotBody},
	WhileStatement:       {SlotTest, SlotBody},
	DoWhileStatement:     {SlotBody, SlotTest},
	SwitchStatement:      {SlotDiscriminant, SlotCases},
	SwitchCase:           {SlotTest, SlotBody},
	TryStatement:         {SlotBlock, SlotHandler, SlotFinalizer},
	CatchClause:          {SlotParam, SlotBody},
	ReturnStatement:      {SlotArgument},
	ThrowStatement:       {SlotArgument},
	ExpressionStatement:  {SlotExpressions},
	VariableDeclaration:  {SlotDeclarations},
	VariableDeclarator:   {SlotId, SlotInit},
	FunctionDeclaration:  {SlotId, SlotParams, SlotBody},
	FunctionExpression:   {SlotId, SlotParams, SlotBody},
	ArrowFunctionExpr:    {SlotParams, SlotBody},
	BinaryExpression:     {SlotLeft, SlotRight},
	LogicalExpression:    {SlotLeft, SlotRight},
	AssignmentExpression: {SlotLeft, SlotRight},
	UnaryExpression:      {SlotArgument},
	UpdateExpression:     {SlotArgument},
	ConditionalExpression: {SlotTest, SlotConsequent, SlotAlternate},
	SequenceExpression:   {SlotExpressions},
	CallExpression:       {SlotCallee, SlotArguments},
	NewExpression:        {SlotCallee, SlotArguments},
	MemberExpression:     {SlotObject, SlotProperty},
	ArrayExpression:      {SlotElements},
	ObjectExpression:     {SlotProperties},
	Property:             {SlotKey, SlotValueSlot},
}

// childSlots returns, in order, every slot name present on n that should be
// visited during a walk.
func childSlots(n *Node) []string {
	if order, ok := childOrder[n.Kind]; ok {
		// filter to slots actually present, preserving pinned order, then
		// append any unexpected extra slots deterministically.
		seen := make(map[string]bool, len(order))
		out := make([]string, 0, len(n.Slots))
		for _, s := range order {
			if _, ok := n.Slots[s]; ok {
				out = append(out, s)
				seen[s] = true
			}
		}
		extra := make([]string, 0, len(n.Slots))
		for s := range n.Slots {
			if !seen[s] {
				extra = append(extra, s)
			}
		}
		sort.Strings(extra)
		return append(out, extra...)
	}
	out := make([]string, 0, len(n.Slots))
	for s := range n.Slots {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// TopDown performs a pre-order walk: each visitor sees a node before its
// children. Descent continues regardless of a visitor's mutation — a
// rewriter that replaces a node is responsible for returning true so the
// fixpoint caller re-runs; the traverser itself never re-visits within one
// walk.
func TopDown(n *Node, chain Chain, visitors ...Visitor) bool {
	if n == nil {
		return false
	}
	changed := false
	for _, v := range visitors {
		if v(n, chain) {
			changed = true
		}
	}
	for _, slot := range childSlots(n) {
		val := n.Slots[slot]
		if val.IsList() {
			for i, child := range val.List {
				if TopDown(child, chain.Push(n, slot, i), visitors...) {
					changed = true
				}
			}
		} else if val.IsNode() && val.Node != nil {
			if TopDown(val.Node, chain.Push(n, slot, -1), visitors...) {
				changed = true
			}
		}
	}
	return changed
}

// BottomUp performs a post-order walk: each visitor sees a node only after
// every descendant has already been visited (and possibly rewritten),
// which is the premise constant folding, dead-code elimination and
// sequence-expression lifting all rely on.
func BottomUp(n *Node, chain Chain, visitors ...Visitor) bool {
	if n == nil {
		return false
	}
	changed := false
	for _, slot := range childSlots(n) {
		val := n.Slots[slot]
		if val.IsList() {
			// re-read the live slot each iteration: a visitor earlier in
			// this same loop may have spliced the list (sequence lifting,
			// dead-code truncation) and changed its length.
			i := 0
			for {
				cur := n.Slots[slot]
				if !cur.IsList() || i >= len(cur.List) {
					break
				}
				child := cur.List[i]
				if BottomUp(child, chain.Push(n, slot, i), visitors...) {
					changed = true
				}
				i++
			}
		} else if val.IsNode() && val.Node != nil {
			if BottomUp(val.Node, chain.Push(n, slot, -1), visitors...) {
				changed = true
			}
		}
	}
	for _, v := range visitors {
		if v(n, chain) {
			changed = true
		}
	}
	return changed
}
