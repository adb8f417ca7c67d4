// Package jsonhost implements a host.SyntaxHost backed by a JSON-described
// tree fixture, read with tidwall/gjson and patched with tidwall/sjson
// (Patch). It exists to demonstrate the evaluator is genuinely
// host-agnostic: nothing in eval or parser knows this package exists.
//
// Fixture shape:
//
//	{
//	  "type": "class",
//	  "name": "Widget",
//	  "text": "class Widget { ... }",
//	  "attrs": {"static": true, "visibility": "public"},
//	  "children": [ {...}, {...} ]
//	}
package jsonhost

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/cygnusbill/spelunkpath/host"
)

// NodeID is a gjson dot-path into the fixture's JSON text, relative to
// the document root ("" for the root itself, "children.0.children.1"
// for a grandchild).
type NodeID = string

// Host is a read-only host.SyntaxHost over a single JSON document. The
// document is indexed once at construction time; mutating the
// underlying JSON (via Patch) requires building a new Host.
type Host struct {
	raw    string
	parent map[NodeID]NodeID
	order  map[NodeID]int
}

// New parses raw as a JSON tree fixture and indexes it. It returns an
// error if raw is not valid JSON.
func New(raw string) (*Host, error) {
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("jsonhost: invalid JSON fixture")
	}
	h := &Host{
		raw:    raw,
		parent: make(map[NodeID]NodeID),
		order:  make(map[NodeID]int),
	}
	h.index()
	return h, nil
}

// Patch applies an sjson Set at the given gjson dot path, returning the
// patched JSON text. A Host built from the result with New reflects
// the edit; nodes the edit did not touch keep their content.
func Patch(raw string, path string, value any) (string, error) {
	patched, err := sjson.Set(raw, path, value)
	if err != nil {
		return "", fmt.Errorf("jsonhost: patch %q: %w", path, err)
	}
	return patched, nil
}

func (h *Host) index() {
	next := 0
	var walk func(path NodeID)
	walk = func(path NodeID) {
		h.order[path] = next
		next++
		children := h.get(path, "children")
		children.ForEach(func(key, _ gjson.Result) bool {
			child := joinPath(path, "children", key.String())
			h.parent[child] = path
			walk(child)
			return true
		})
	}
	walk("")
}

func (h *Host) get(path NodeID, field string) gjson.Result {
	if path == "" {
		return gjson.Get(h.raw, field)
	}
	return gjson.Get(h.raw, path+"."+field)
}

func joinPath(base NodeID, parts ...string) NodeID {
	tail := strings.Join(parts, ".")
	if base == "" {
		return tail
	}
	return base + "." + tail
}

func (h *Host) Root() NodeID { return "" }

func (h *Host) Children(n NodeID) []NodeID {
	arr := h.get(n, "children").Array()
	out := make([]NodeID, len(arr))
	for i := range arr {
		out[i] = joinPath(n, "children", strconv.Itoa(i))
	}
	return out
}

func (h *Host) Parent(n NodeID) (NodeID, bool) {
	if n == "" {
		return "", false
	}
	p, ok := h.parent[n]
	return p, ok
}

func (h *Host) NodeType(n NodeID) string {
	return h.get(n, "type").String()
}

func (h *Host) NodeName(n NodeID) (string, bool) {
	r := h.get(n, "name")
	if !r.Exists() {
		return "", false
	}
	return r.String(), true
}

func (h *Host) NormalisedText(n NodeID) string {
	return normalise(h.get(n, "text").String())
}

func (h *Host) Attribute(n NodeID, key string) (host.AttrValue, bool) {
	r := h.get(n, "attrs."+key)
	if r.Exists() {
		if r.Type == gjson.True || r.Type == gjson.False {
			return host.Bool(r.Bool()), true
		}
		return host.String(r.String()), true
	}
	// "name" and "type" are first-class fields of the fixture shape but
	// also belong to the attribute vocabulary, so queries like
	// [@name='foo'] resolve against them without the fixture having to
	// duplicate either into attrs.
	switch key {
	case "name":
		if name, ok := h.NodeName(n); ok {
			return host.String(name), true
		}
	case "type":
		if typ := h.NodeType(n); typ != "" {
			return host.String(typ), true
		}
	}
	return host.AttrValue{}, false
}

// Less reports document order between two ids of the same Host,
// satisfying host.Ordered from the pre-order index computed at New.
func (h *Host) Less(a, b NodeID) bool {
	return h.order[a] < h.order[b]
}

func normalise(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
