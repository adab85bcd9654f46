// Package schema describes structured-output shapes and translates them between the
// wire tag strings, the Gemini SDK's native schema and JSON Schema.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Kind is the type of a schema node.
type Kind int

const (
	KindUnspecified Kind = iota
	KindObject
	KindString
	KindNumber
	KindInteger
	KindBoolean
	KindArray
	KindNull
)

// TagUnspecified is sent for KindUnspecified and is what unknown tags decode to.
const TagUnspecified = "TYPE_UNSPECIFIED"

// kindTags is the single source of truth for the wire encoding. Every Kind has
// exactly one tag and every tag maps back to the Kind it came from.
var kindTags = map[Kind]string{
	KindUnspecified: TagUnspecified,
	KindObject:      "OBJECT",
	KindString:      "STRING",
	KindNumber:      "NUMBER",
	KindInteger:     "INTEGER",
	KindBoolean:     "BOOLEAN",
	KindArray:       "ARRAY",
	KindNull:        "NULL",
}

var tagKinds = func() map[string]Kind {
	out := make(map[string]Kind, len(kindTags))
	for k, tag := range kindTags {
		out[tag] = k
	}
	return out
}()

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindTags))
	for k := range kindTags {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Tag returns the wire tag of k. Out-of-range values encode as TYPE_UNSPECIFIED.
func (k Kind) Tag() string {
	if tag, ok := kindTags[k]; ok {
		return tag
	}
	return TagUnspecified
}

func (k Kind) String() string {
	return k.Tag()
}

// ParseKind decodes a wire tag. Unknown tags map to KindUnspecified rather than failing.
func ParseKind(tag string) Kind {
	if k, ok := tagKinds[tag]; ok {
		return k
	}
	return KindUnspecified
}

func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.Tag())
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		// A non-string type is treated like any other unknown tag.
		*k = KindUnspecified
		return nil
	}
	*k = ParseKind(tag)
	return nil
}

// Node is a recursive description of a structured-output shape.
type Node struct {
	Kind       Kind             `json:"type"`
	Properties map[string]*Node `json:"properties,omitempty"`
	Items      *Node            `json:"items,omitempty"`
	Required   []string         `json:"required,omitempty"`
}

// Validate checks the structural invariants: objects carry properties, arrays carry
// items, and required names refer to declared properties.
func (n *Node) Validate() error {
	return n.validate("$")
}

func (n *Node) validate(path string) error {
	if n == nil {
		return fmt.Errorf("%s: schema node is nil", path)
	}

	switch n.Kind {
	case KindObject:
		if len(n.Properties) == 0 {
			return fmt.Errorf("%s: OBJECT requires properties", path)
		}
		for _, name := range n.Required {
			if _, ok := n.Properties[name]; !ok {
				return fmt.Errorf("%s: required property %q is not declared", path, name)
			}
		}
		for _, name := range sortedKeys(n.Properties) {
			if err := n.Properties[name].validate(path + "." + name); err != nil {
				return err
			}
		}
	case KindArray:
		if n.Items == nil {
			return fmt.Errorf("%s: ARRAY requires items", path)
		}
		return n.Items.validate(path + "[]")
	}
	return nil
}

func sortedKeys(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Object builds an object node.
func Object(properties map[string]*Node, required ...string) *Node {
	return &Node{Kind: KindObject, Properties: properties, Required: required}
}

// ArrayOf builds an array node.
func ArrayOf(items *Node) *Node {
	return &Node{Kind: KindArray, Items: items}
}

// Scalar builds a leaf node of the given kind.
func Scalar(k Kind) *Node {
	return &Node{Kind: k}
}

// MarketingContentSchema is the shape requested for marketing generation: three
// required string properties.
func MarketingContentSchema() *Node {
	return Object(map[string]*Node{
		"instagram": Scalar(KindString),
		"email":     Scalar(KindString),
		"twitter":   Scalar(KindString),
	}, "instagram", "email", "twitter")
}
