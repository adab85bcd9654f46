package schema

import (
	"encoding/json"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

func TestKindTagTableIsTotal(t *testing.T) {
	kinds := Kinds()
	require.Len(t, kinds, 8)

	seen := map[string]bool{}
	for _, k := range kinds {
		tag := k.Tag()
		assert.NotEmpty(t, tag)
		assert.False(t, seen[tag], "duplicate tag %s", tag)
		seen[tag] = true
		assert.Equal(t, k, ParseKind(tag), "tag %s must decode to its kind", tag)
	}

	for _, tag := range []string{"OBJECT", "STRING", "NUMBER", "INTEGER", "BOOLEAN", "ARRAY", "NULL", "TYPE_UNSPECIFIED"} {
		assert.True(t, seen[tag], "missing wire tag %s", tag)
	}
}

func TestParseKindUnknown(t *testing.T) {
	assert.Equal(t, KindUnspecified, ParseKind("object"))
	assert.Equal(t, KindUnspecified, ParseKind(""))
	assert.Equal(t, KindUnspecified, ParseKind("DATETIME"))
	assert.Equal(t, TagUnspecified, Kind(42).Tag())
}

func TestNodeJSONUsesLiteralTags(t *testing.T) {
	data, err := json.Marshal(MarketingContentSchema())
	require.NoError(t, err)

	var wire map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &wire))
	assert.Equal(t, "OBJECT", wire["type"])
	props := wire["properties"].(map[string]interface{})
	assert.Equal(t, "STRING", props["instagram"].(map[string]interface{})["type"])
	assert.Equal(t, []interface{}{"instagram", "email", "twitter"}, wire["required"])
}

func TestNodeJSONDecodeIsTotal(t *testing.T) {
	raw := `{
		"type": "OBJECT",
		"properties": {
			"lines": {"type": "ARRAY", "items": {"type": "OBJECT", "properties": {"sku": {"type": "STRING"}, "qty": {"type": "INTEGER"}}, "required": ["sku"]}},
			"note": {"type": "SOMETHING_NEW"},
			"flag": {"type": 7},
			"gone": {"type": "NULL"}
		},
		"required": ["lines", "note"]
	}`

	var n Node
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	assert.Equal(t, KindObject, n.Kind)
	assert.Equal(t, []string{"lines", "note"}, n.Required)
	assert.Equal(t, KindArray, n.Properties["lines"].Kind)
	assert.Equal(t, KindObject, n.Properties["lines"].Items.Kind)
	assert.Equal(t, KindInteger, n.Properties["lines"].Items.Properties["qty"].Kind)
	assert.Equal(t, []string{"sku"}, n.Properties["lines"].Items.Required)
	assert.Equal(t, KindUnspecified, n.Properties["note"].Kind)
	assert.Equal(t, KindUnspecified, n.Properties["flag"].Kind)
	assert.Equal(t, KindNull, n.Properties["gone"].Kind)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		node    *Node
		wantErr string
	}{
		{"marketing", MarketingContentSchema(), ""},
		{"array of strings", ArrayOf(Scalar(KindString)), ""},
		{"object without properties", &Node{Kind: KindObject}, "OBJECT requires properties"},
		{"array without items", &Node{Kind: KindArray}, "ARRAY requires items"},
		{"nested array without items", Object(map[string]*Node{"tags": {Kind: KindArray}}), "$.tags: ARRAY requires items"},
		{"undeclared required", Object(map[string]*Node{"a": Scalar(KindString)}, "b"), `required property "b"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.node.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestGenAIMapping(t *testing.T) {
	native := ToGenAI(MarketingContentSchema())

	assert.Equal(t, genai.TypeObject, native.Type)
	require.Len(t, native.Properties, 3)
	for _, name := range []string{"instagram", "email", "twitter"} {
		assert.Equal(t, genai.TypeString, native.Properties[name].Type)
	}
	assert.Equal(t, []string{"instagram", "email", "twitter"}, native.Required)
}

func TestGenAIRoundTrip(t *testing.T) {
	tree := Object(map[string]*Node{
		"vendor": Scalar(KindString),
		"total":  Scalar(KindNumber),
		"count":  Scalar(KindInteger),
		"paid":   Scalar(KindBoolean),
		"void":   Scalar(KindNull),
		"misc":   Scalar(KindUnspecified),
		"lines": ArrayOf(Object(map[string]*Node{
			"sku": Scalar(KindString),
			"qty": Scalar(KindInteger),
		}, "sku", "qty")),
	}, "vendor", "lines")

	for _, k := range Kinds() {
		n := Scalar(k)
		assert.Equal(t, n, FromGenAI(ToGenAI(n)), "kind %s", k)
	}

	assert.Equal(t, tree, FromGenAI(ToGenAI(tree)))
	assert.True(t, ToGenAI(Scalar(KindNull)).Nullable)
	assert.Nil(t, ToGenAI(nil))
	assert.Nil(t, FromGenAI(nil))
}

func TestWireToNativeRoundTripValidatesSample(t *testing.T) {
	// client encodes to tags, remote decodes tags and converts to the native schema
	data, err := json.Marshal(MarketingContentSchema())
	require.NoError(t, err)

	var decoded Node
	require.NoError(t, json.Unmarshal(data, &decoded))
	native := ToGenAI(&decoded)
	reconstructed := FromGenAI(native)

	assert.Equal(t, MarketingContentSchema(), reconstructed)

	schemaLoader := gojsonschema.NewGoLoader(ToJSONSchema(reconstructed))

	good := map[string]interface{}{"instagram": "a", "email": "b", "twitter": "c"}
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(good))
	require.NoError(t, err)
	assert.True(t, result.Valid(), "%v", result.Errors())

	missing := map[string]interface{}{"instagram": "a", "email": "b"}
	result, err = gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(missing))
	require.NoError(t, err)
	assert.False(t, result.Valid())

	wrongType := map[string]interface{}{"instagram": "a", "email": "b", "twitter": 3}
	result, err = gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(wrongType))
	require.NoError(t, err)
	assert.False(t, result.Valid())
}

func TestToJSONSchema(t *testing.T) {
	js := ToJSONSchema(ArrayOf(Scalar(KindNull)))
	assert.Equal(t, "array", js["type"])
	assert.Equal(t, "null", js["items"].(map[string]interface{})["type"])

	_, hasType := ToJSONSchema(Scalar(KindUnspecified))["type"]
	assert.False(t, hasType)
	assert.Empty(t, ToJSONSchema(nil))
}
