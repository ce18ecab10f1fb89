package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"github.com/xeipuuv/gojsonschema"
)

// schemaNode is the subset of JSON Schema the generator understands.
// Properties keep their declaration order so emitted fields follow the document.
type schemaNode struct {
	Title                string                                      `json:"title,omitempty"`
	Description          string                                      `json:"description,omitempty"`
	Type                 typeList                                    `json:"type,omitempty"`
	Format               string                                      `json:"format,omitempty"`
	Enum                 []interface{}                               `json:"enum,omitempty"`
	Ref                  string                                      `json:"$ref,omitempty"`
	Properties           *orderedmap.OrderedMap[string, *schemaNode] `json:"properties,omitempty"`
	Required             []string                                    `json:"required,omitempty"`
	Items                *schemaNode                                 `json:"items,omitempty"`
	AdditionalProperties *schemaNode                                 `json:"additionalProperties,omitempty"`
	Defs                 map[string]*schemaNode                      `json:"$defs,omitempty"`
	Definitions          map[string]*schemaNode                      `json:"definitions,omitempty"`

	// boolean is set for the `true` / `false` schema shorthands.
	boolean *bool
}

func (n *schemaNode) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	switch string(trimmed) {
	case "true", "false":
		b := string(trimmed) == "true"
		n.boolean = &b
		return nil
	}

	type plain schemaNode
	return json.Unmarshal(data, (*plain)(n))
}

// forbids reports whether the node is the `false` schema.
func (n *schemaNode) forbids() bool {
	return n != nil && n.boolean != nil && !*n.boolean
}

func (n *schemaNode) hasProperties() bool {
	return n != nil && n.Properties != nil && n.Properties.Len() > 0
}

func (n *schemaNode) isRequired(property string) bool {
	for _, r := range n.Required {
		if r == property {
			return true
		}
	}
	return false
}

// stringEnum returns the enum values when every one of them is a string.
func (n *schemaNode) stringEnum() ([]string, bool) {
	if len(n.Enum) == 0 {
		return nil, false
	}
	values := make([]string, 0, len(n.Enum))
	for _, v := range n.Enum {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		values = append(values, s)
	}
	return values, true
}

// definition resolves a local reference of the form #/$defs/X or #/definitions/X.
func (n *schemaNode) definition(ref string) (string, *schemaNode, bool) {
	for _, prefix := range []string{"#/$defs/", "#/definitions/"} {
		if !strings.HasPrefix(ref, prefix) {
			continue
		}
		name := strings.TrimPrefix(ref, prefix)
		if def, ok := n.Defs[name]; ok {
			return name, def, true
		}
		if def, ok := n.Definitions[name]; ok {
			return name, def, true
		}
	}
	return "", nil, false
}

// typeList accepts both "type": "string" and "type": ["string", "null"].
type typeList []string

func (t *typeList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = typeList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("type must be a string or an array of strings: %w", err)
	}
	*t = many
	return nil
}

// primary returns the first non-null type, or "" when none is declared.
func (t typeList) primary() string {
	for _, name := range t {
		if name != "null" {
			return name
		}
	}
	return ""
}

// parseSchema checks that source is a JSON Schema and decodes the parts the
// generator needs.
func parseSchema(source string) (*schemaNode, error) {
	if _, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source)); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	var root schemaNode
	if err := json.Unmarshal([]byte(source), &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if root.boolean != nil {
		return nil, fmt.Errorf("%w: boolean schema has no shape to generate", ErrParse)
	}
	return &root, nil
}

// SchemaTitle returns the title declared by a schema document, or "Untitled"
// when the document has none or cannot be read.
func SchemaTitle(schemaJSON string) string {
	var head struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(schemaJSON), &head); err != nil || head.Title == "" {
		return "Untitled"
	}
	return head.Title
}
