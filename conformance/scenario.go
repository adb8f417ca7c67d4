// Package conformance is a fixture-driven, end-to-end suite for the
// query engine's observable guarantees: determinism, document order,
// pattern fusion, positional semantics, block/statement distinction,
// and termination. Short-circuiting is not checked here. Trees
// are described in fixtures.yaml using the same shape jsonhost reads
// (type/name/text/attrs/children), loaded with yaml.v3 and converted to
// JSON so the existing jsonhost.Host does the actual node-access work;
// nothing here reimplements SyntaxHost.
package conformance

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/cygnusbill/spelunkpath/jsonhost"
)

//go:embed fixtures.yaml
var fixturesYAML []byte

// TreeNode is one node of a scenario's fixture tree, in the same field
// shape jsonhost.Host expects its source JSON to carry.
type TreeNode struct {
	Type     string         `yaml:"type"`
	Name     string         `yaml:"name,omitempty"`
	Text     string         `yaml:"text,omitempty"`
	Attrs    map[string]any `yaml:"attrs,omitempty"`
	Children []TreeNode     `yaml:"children,omitempty"`
}

// Want identifies one expected match by the SyntaxHost accessors an
// assertion can cheaply compare against: its canonical type, and
// optionally its declared name and/or a distinguishing attribute
// (used where two nodes in the same fixture otherwise look alike,
// such as two classes each declaring a method named F).
type Want struct {
	Type string `yaml:"type"`
	Name string `yaml:"name,omitempty"`
	Attr string `yaml:"attr,omitempty"`  // attribute key to check, if any
	Text string `yaml:"text,omitempty"`  // expected value for Attr, or NormalisedText() when Attr is empty
}

// Scenario is one fixture-driven case: a tree, a query to run against
// it from the root, and the matches it must produce in document
// order. MaxMillis, when non-zero, additionally asserts the Evaluate
// call (parsing is not timed) completed within that budget, the
// regression guard against the historical //*[@name='foo'] infinite
// loop.
type Scenario struct {
	Name      string     `yaml:"name"`
	Tree      TreeNode   `yaml:"tree"`
	Query     string     `yaml:"query"`
	Want      []Want     `yaml:"want"`
	MaxMillis int        `yaml:"max_millis,omitempty"`
}

// LoadScenarios decodes every scenario in fixtures.yaml.
func LoadScenarios() ([]Scenario, error) {
	var doc struct {
		Scenarios []Scenario `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(fixturesYAML, &doc); err != nil {
		return nil, fmt.Errorf("conformance: decode fixtures.yaml: %w", err)
	}
	return doc.Scenarios, nil
}

// BuildHost converts t into the JSON document jsonhost.New expects and
// indexes it.
func BuildHost(t TreeNode) (*jsonhost.Host, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("conformance: marshal fixture tree: %w", err)
	}
	return jsonhost.New(string(raw))
}

// MarshalJSON renders t in the field shape jsonhost.New expects,
// omitting Attrs/Children when empty so small fixture nodes stay
// readable in failure output.
func (t TreeNode) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type     string         `json:"type"`
		Name     string         `json:"name,omitempty"`
		Text     string         `json:"text,omitempty"`
		Attrs    map[string]any `json:"attrs,omitempty"`
		Children []TreeNode     `json:"children,omitempty"`
	}
	return json.Marshal(wire{
		Type:     t.Type,
		Name:     t.Name,
		Text:     t.Text,
		Attrs:    t.Attrs,
		Children: t.Children,
	})
}

// Matches reports whether node n of host h satisfies w: n's canonical
// type must equal w.Type; if w.Name is set it must equal n's declared
// name; if w.Attr is set its value (rendered through AttrValue.Text)
// must equal w.Text, otherwise (when only w.Text is set with no
// w.Attr) w.Text is compared against n's NormalisedText instead.
func (w Want) Matches(h *jsonhost.Host, n jsonhost.NodeID) bool {
	if h.NodeType(n) != w.Type {
		return false
	}
	if w.Name != "" {
		name, ok := h.NodeName(n)
		if !ok || name != w.Name {
			return false
		}
	}
	if w.Attr != "" {
		v, ok := h.Attribute(n, w.Attr)
		if !ok || v.Text() != w.Text {
			return false
		}
	} else if w.Text != "" {
		if h.NormalisedText(n) != w.Text {
			return false
		}
	}
	return true
}
