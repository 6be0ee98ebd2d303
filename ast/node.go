package ast

// Slot names used across kinds. Not every kind uses every slot; §3 ties a
// concrete slot set to each Kind via the grammar the parser lowers from.
const (
	SlotBody        = "body"
	SlotConsequent  = "consequent"
	SlotAlternate   = "alternate"
	SlotTest        = "test"
	SlotInit        = "init"
	SlotUpdate      = "update"
	SlotLeft        = "left"
	SlotRight       = "right"
	SlotOperator    = "operator"
	SlotArgument    = "argument"
	SlotArguments   = "arguments"
	SlotCallee      = "callee"
	SlotObject      = "object"
	SlotProperty    = "property"
	SlotComputed    = "computed"
	SlotId          = "id"
	SlotParams      = "params"
	SlotDeclarations = "declarations"
	SlotExpressions = "expressions"
	SlotElements    = "elements"
	SlotProperties  = "properties"
	SlotKey         = "key"
	SlotValueSlot   = "value"
	SlotDiscriminant = "discriminant"
	SlotCases       = "cases"
	SlotHandler     = "handler"
	SlotFinalizer   = "finalizer"
	SlotBlock       = "block"
	SlotParam       = "param"
	SlotQuasis      = "quasis"
	SlotTag         = "tag"
	SlotKind        = "varKind" // "var" | "let" | "const"
	SlotRaw         = "raw"
	SlotName        = "name"
	SlotPrefix      = "prefix"
)

// SlotValue is a closed sum: a slot holds exactly one of a single node, an
// ordered list of nodes, or a scalar payload (operator string, literal
// value, boolean flag). Exactly one field is non-zero at a time.
type SlotValue struct {
	Node   *Node
	List   []*Node
	Scalar any
}

// IsNode reports whether this slot holds a single node (possibly nil).
func (s SlotValue) IsNode() bool { return s.List == nil && s.Scalar == nil }

// IsList reports whether this slot holds an ordered list of nodes.
func (s SlotValue) IsList() bool { return s.List != nil }

// Node is a tagged-variant AST node. Invariant: every non-root node is
// referenced from exactly one slot of exactly one parent; there is no
// parent pointer here by design (see Chain) and no aliasing.
type Node struct {
	Kind  Kind
	Slots map[string]SlotValue

	// Loc is stripped by the strip-locations pre-pass; kept optional so a
	// freshly constructed node (e.g. synthetic fold result) has none.
	Loc *Location
}

// Location is source position metadata, dropped by the strip-locations
// pre-pass (§4.5 step 1) and never consulted by any rewriter.
type Location struct {
	StartLine, StartCol int
	EndLine, EndCol     int
}

// NewNode constructs a node of the given kind with the provided slot
// values. Unset slots are simply absent from the map.
func NewNode(kind Kind, slots map[string]SlotValue) *Node {
	if slots == nil {
		slots = map[string]SlotValue{}
	}
	return &Node{Kind: kind, Slots: slots}
}

// Child returns the single node held by the named slot, or nil if the slot
// is absent, holds a list, or holds a nil node.
func (n *Node) Child(slot string) *Node {
	if n == nil {
		return nil
	}
	v, ok := n.Slots[slot]
	if !ok || !v.IsNode() {
		return nil
	}
	return v.Node
}

// List returns the node list held by the named slot, or nil if absent.
func (n *Node) List(slot string) []*Node {
	if n == nil {
		return nil
	}
	return n.Slots[slot].List
}

// Scalar returns the scalar payload held by the named slot, or nil.
func (n *Node) Scalar(slot string) any {
	if n == nil {
		return nil
	}
	return n.Slots[slot].Scalar
}

// SetChild installs a single node (or nil) into the named slot.
func (n *Node) SetChild(slot string, child *Node) {
	n.Slots[slot] = SlotValue{Node: child}
}

// SetList installs a node list into the named slot.
func (n *Node) SetList(slot string, list []*Node) {
	n.Slots[slot] = SlotValue{List: list}
}

// SetScalar installs a scalar payload into the named slot.
func (n *Node) SetScalar(slot string, v any) {
	n.Slots[slot] = SlotValue{Scalar: v}
}

// Clone makes a shallow copy of n: the Slots map is copied and each list
// slot gets a fresh slice, but the child node pointers are shared. Rewriters
// that need a structurally independent copy must deep-copy explicitly.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{Kind: n.Kind, Loc: n.Loc}
	cp.Slots = make(map[string]SlotValue, len(n.Slots))
	for k, v := range n.Slots {
		if v.IsList() {
			list := make([]*Node, len(v.List))
			copy(list, v.List)
			cp.Slots[k] = SlotValue{List: list}
		} else {
			cp.Slots[k] = v
		}
	}
	return cp
}
