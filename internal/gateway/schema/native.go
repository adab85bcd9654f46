package schema

import (
	"github.com/google/generative-ai-go/genai"
)

// genaiTypes maps kinds onto the SDK enum. The SDK has no NULL type, so KindNull is
// carried as an unspecified, nullable schema (see ToGenAI / FromGenAI).
var genaiTypes = map[Kind]genai.Type{
	KindUnspecified: genai.TypeUnspecified,
	KindObject:      genai.TypeObject,
	KindString:      genai.TypeString,
	KindNumber:      genai.TypeNumber,
	KindInteger:     genai.TypeInteger,
	KindBoolean:     genai.TypeBoolean,
	KindArray:       genai.TypeArray,
	KindNull:        genai.TypeUnspecified,
}

var genaiKinds = map[genai.Type]Kind{
	genai.TypeUnspecified: KindUnspecified,
	genai.TypeObject:      KindObject,
	genai.TypeString:      KindString,
	genai.TypeNumber:      KindNumber,
	genai.TypeInteger:     KindInteger,
	genai.TypeBoolean:     KindBoolean,
	genai.TypeArray:       KindArray,
}

// ToGenAI converts a node tree into the SDK's native schema, recursing through
// properties and items. Required names keep their order.
func ToGenAI(n *Node) *genai.Schema {
	if n == nil {
		return nil
	}

	out := &genai.Schema{
		Type:  genaiTypes[n.Kind],
		Items: ToGenAI(n.Items),
	}
	if n.Kind == KindNull {
		out.Nullable = true
	}
	if len(n.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for name, prop := range n.Properties {
			out.Properties[name] = ToGenAI(prop)
		}
	}
	if len(n.Required) > 0 {
		out.Required = append([]string(nil), n.Required...)
	}
	return out
}

// FromGenAI is the inverse of ToGenAI.
func FromGenAI(s *genai.Schema) *Node {
	if s == nil {
		return nil
	}

	kind, ok := genaiKinds[s.Type]
	if !ok {
		kind = KindUnspecified
	}
	if s.Type == genai.TypeUnspecified && s.Nullable {
		kind = KindNull
	}

	out := &Node{
		Kind:  kind,
		Items: FromGenAI(s.Items),
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*Node, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = FromGenAI(prop)
		}
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	return out
}

// jsonSchemaTypes maps kinds onto JSON Schema type names. Unspecified has no entry and
// therefore no type constraint.
var jsonSchemaTypes = map[Kind]string{
	KindObject:  "object",
	KindString:  "string",
	KindNumber:  "number",
	KindInteger: "integer",
	KindBoolean: "boolean",
	KindArray:   "array",
	KindNull:    "null",
}

// ToJSONSchema renders the node as a JSON Schema document suitable for gojsonschema.
func ToJSONSchema(n *Node) map[string]interface{} {
	if n == nil {
		return map[string]interface{}{}
	}

	out := map[string]interface{}{}
	if t, ok := jsonSchemaTypes[n.Kind]; ok {
		out["type"] = t
	}
	if len(n.Properties) > 0 {
		props := make(map[string]interface{}, len(n.Properties))
		for name, prop := range n.Properties {
			props[name] = ToJSONSchema(prop)
		}
		out["properties"] = props
	}
	if n.Items != nil {
		out["items"] = ToJSONSchema(n.Items)
	}
	if len(n.Required) > 0 {
		required := make([]interface{}, len(n.Required))
		for i, name := range n.Required {
			required[i] = name
		}
		out["required"] = required
	}
	return out
}
