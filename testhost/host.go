// Package testhost implements an in-memory, hand-assembled
// host.SyntaxHost for use in tests and documentation examples: build a
// tree with AddRoot/AddChild, decorate it with SetName/SetText/SetAttr,
// then evaluate queries against it directly. It is not meant to parse
// real source; jsonhost and real language adapters do that.
package testhost

import (
	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/cygnusbill/spelunkpath/host"
)

// NodeID identifies a node within a single Host. Values are
// process-stable and collision-free across the Host's lifetime, unlike
// reusing Go pointer addresses (which a garbage-collected, mutated tree
// can't guarantee).
type NodeID = uuid.UUID

type node struct {
	id        NodeID
	typ       string
	name      string
	hasName   bool
	text      string
	attrs     *orderedmap.OrderedMap[string, host.AttrValue]
	parent    NodeID
	hasParent bool
	children  []NodeID
}

// Host is an in-memory syntax tree assembled directly by a test or
// example, rather than parsed from source. It implements
// host.SyntaxHost[NodeID] and host.Ordered[NodeID].
type Host struct {
	nodes map[NodeID]*node
	root  NodeID
}

// New returns an empty Host. Call AddRoot before anything else.
func New() *Host {
	return &Host{nodes: make(map[NodeID]*node)}
}

// AddRoot creates the tree's root node and returns its id. Calling
// AddRoot more than once on the same Host replaces the root; existing
// nodes from a prior root are orphaned but not removed.
func (h *Host) AddRoot(typ string) NodeID {
	n := &node{id: uuid.New(), typ: typ, attrs: orderedmap.New[string, host.AttrValue]()}
	h.nodes[n.id] = n
	h.root = n.id
	return n.id
}

// AddChild appends a new typ-typed node as the last child of parent
// and returns its id.
func (h *Host) AddChild(parent NodeID, typ string) NodeID {
	n := &node{id: uuid.New(), typ: typ, parent: parent, hasParent: true, attrs: orderedmap.New[string, host.AttrValue]()}
	h.nodes[n.id] = n
	if p, ok := h.nodes[parent]; ok {
		p.children = append(p.children, n.id)
	}
	return n.id
}

// SetName gives id a declared name (method/class/field names and the
// like, surfaced through NodeName).
func (h *Host) SetName(id NodeID, name string) {
	if n, ok := h.nodes[id]; ok {
		n.name = name
		n.hasName = true
	}
}

// SetText sets id's source text, used (after whitespace normalisation)
// for @contains/@matches.
func (h *Host) SetText(id NodeID, text string) {
	if n, ok := h.nodes[id]; ok {
		n.text = text
	}
}

// SetAttr assigns a named attribute value to id (e.g. "static",
// "async", "operator"). Attribute insertion order is preserved.
func (h *Host) SetAttr(id NodeID, key string, v host.AttrValue) {
	if n, ok := h.nodes[id]; ok {
		n.attrs.Set(key, v)
	}
}

func (h *Host) Root() NodeID { return h.root }

func (h *Host) Children(n NodeID) []NodeID {
	if node, ok := h.nodes[n]; ok {
		return append([]NodeID(nil), node.children...)
	}
	return nil
}

func (h *Host) Parent(n NodeID) (NodeID, bool) {
	node, ok := h.nodes[n]
	if !ok || !node.hasParent {
		return NodeID{}, false
	}
	return node.parent, true
}

func (h *Host) NodeType(n NodeID) string {
	if node, ok := h.nodes[n]; ok {
		return node.typ
	}
	return ""
}

func (h *Host) NodeName(n NodeID) (string, bool) {
	node, ok := h.nodes[n]
	if !ok || !node.hasName {
		return "", false
	}
	return node.name, true
}

func (h *Host) NormalisedText(n NodeID) string {
	node, ok := h.nodes[n]
	if !ok {
		return ""
	}
	return normalise(node.text)
}

func (h *Host) Attribute(n NodeID, key string) (host.AttrValue, bool) {
	node, ok := h.nodes[n]
	if !ok {
		return host.AttrValue{}, false
	}
	if v, ok := node.attrs.Get(key); ok {
		return v, true
	}
	// The declared name and canonical type double as attributes so
	// [@name=...] and [@type=...] work without SetAttr duplicating them.
	switch key {
	case "name":
		if node.hasName {
			return host.String(node.name), true
		}
	case "type":
		if node.typ != "" {
			return host.String(node.typ), true
		}
	}
	return host.AttrValue{}, false
}

// Less reports pre-order-walk ancestry/ordering between two ids of the
// same Host, satisfying host.Ordered so the evaluator can skip its own
// fallback ordinal numbering.
func (h *Host) Less(a, b NodeID) bool {
	if a == b {
		return false
	}
	order := h.preorder()
	return order[a] < order[b]
}

func (h *Host) preorder() map[NodeID]int {
	order := make(map[NodeID]int, len(h.nodes))
	i := 0
	var walk func(id NodeID)
	walk = func(id NodeID) {
		order[id] = i
		i++
		node, ok := h.nodes[id]
		if !ok {
			return
		}
		for _, c := range node.children {
			walk(c)
		}
	}
	walk(h.root)
	return order
}

func normalise(s string) string {
	var b []byte
	inSpace := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' {
			if !inSpace && len(b) > 0 {
				b = append(b, ' ')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b = append(b, c)
	}
	for len(b) > 0 && b[len(b)-1] == ' ' {
		b = b[:len(b)-1]
	}
	return string(b)
}
