package codegen

import (
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// goTypeKind classifies a generated Go type.
type goTypeKind int

const (
	kindStruct goTypeKind = iota
	kindEnum
	kindNamed
)

// goType is one top-level type declaration in the emitted file.
type goType struct {
	Name       string
	Doc        string
	Kind       goTypeKind
	Fields     []goField
	EnumValues []goEnumVal
	Underlying typeRef
}

type goField struct {
	Name     string
	JSONName string
	Doc      string
	Type     typeRef
	Required bool
}

type goEnumVal struct {
	GoName string
	Value  string
}

// typeRef is a reference to a Go type with its modifiers.
type typeRef struct {
	Builtin string // "string", "int64", "float64", "bool", "any"
	Time    bool
	Named   string
	Struct  bool // Named refers to a generated struct
	Pointer bool
	Slice   bool
	Map     bool
	Elem    *typeRef
}

var anyRef = typeRef{Builtin: "any"}

// typeMapper converts a parsed schema into Go type declarations.
type typeMapper struct {
	root     *schemaNode
	types    *orderedmap.OrderedMap[string, *goType]
	idents   map[string]bool
	refs     map[string]typeRef
	building map[string]bool
}

func newTypeMapper(root *schemaNode) *typeMapper {
	return &typeMapper{
		root:     root,
		types:    orderedmap.New[string, *goType](),
		idents:   make(map[string]bool),
		refs:     make(map[string]typeRef),
		building: make(map[string]bool),
	}
}

// mapRoot declares the type for the document root under name and everything
// reachable from it. The root type is always emitted first.
func (m *typeMapper) mapRoot(name string) *goType {
	root := m.root
	if values, ok := root.stringEnum(); ok {
		return m.declareEnum(name, root, values)
	}

	primary := root.Type.primary()
	if root.Ref == "" && (primary == "" || primary == "object") {
		return m.declareStruct(name, root)
	}

	t := &goType{Name: m.reserve(name), Doc: root.Description, Kind: kindNamed}
	m.types.Set(t.Name, t)
	t.Underlying = m.mapSchema(root, t.Name+"Value")
	return t
}

// declared returns the generated types in emission order.
func (m *typeMapper) declared() []*goType {
	out := make([]*goType, 0, m.types.Len())
	for pair := m.types.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

func (m *typeMapper) mapSchema(node *schemaNode, hint string) typeRef {
	if node == nil || node.boolean != nil {
		return anyRef
	}
	if node.Ref != "" {
		return m.mapRef(node.Ref)
	}
	if values, ok := node.stringEnum(); ok {
		return typeRef{Named: m.declareEnum(hint, node, values).Name}
	}

	switch primary := node.Type.primary(); primary {
	case "string":
		if node.Format == "date-time" {
			return typeRef{Time: true}
		}
		return typeRef{Builtin: "string"}
	case "integer":
		return typeRef{Builtin: "int64"}
	case "number":
		return typeRef{Builtin: "float64"}
	case "boolean":
		return typeRef{Builtin: "bool"}
	case "array":
		elem := m.mapSchema(node.Items, hint+"Item")
		return typeRef{Slice: true, Elem: &elem}
	case "object", "":
		if node.hasProperties() {
			return typeRef{Named: m.declareStruct(hint, node).Name, Struct: true}
		}
		if primary == "object" {
			elem := anyRef
			if extra := node.AdditionalProperties; extra != nil && extra.boolean == nil {
				elem = m.mapSchema(extra, hint+"Value")
			}
			return typeRef{Map: true, Elem: &elem}
		}
	}
	return anyRef
}

// mapRef resolves a local $ref to a named type declared once per definition.
func (m *typeMapper) mapRef(ref string) typeRef {
	if resolved, ok := m.refs[ref]; ok {
		return resolved
	}

	defName, def, ok := m.root.definition(ref)
	if !ok || def == nil {
		return anyRef
	}
	name := ToGoName(defName)
	if name == "" {
		name = SanitizeTypeName(defName)
	}

	if values, ok := def.stringEnum(); ok {
		resolved := typeRef{Named: m.declareEnum(name, def, values).Name}
		m.refs[ref] = resolved
		return resolved
	}

	if def.Ref == "" && def.hasProperties() {
		name = m.reserve(name)
		resolved := typeRef{Named: name, Struct: true}
		m.refs[ref] = resolved
		m.buildStruct(name, def)
		return resolved
	}

	// Cycles made only of references collapse to interface{}.
	m.refs[ref] = anyRef
	inner := m.mapSchema(def, name)
	if inner.Named != "" || inner == anyRef {
		m.refs[ref] = inner
		return inner
	}

	t := &goType{Name: m.reserve(name), Doc: def.Description, Kind: kindNamed, Underlying: inner}
	m.types.Set(t.Name, t)
	resolved := typeRef{Named: t.Name}
	m.refs[ref] = resolved
	return resolved
}

func (m *typeMapper) declareStruct(hint string, node *schemaNode) *goType {
	return m.buildStruct(m.reserve(hint), node)
}

func (m *typeMapper) buildStruct(name string, node *schemaNode) *goType {
	t := &goType{Name: name, Doc: node.Description, Kind: kindStruct}
	m.types.Set(name, t)
	m.building[name] = true
	defer delete(m.building, name)

	if node.Properties == nil {
		return t
	}

	fieldNames := make(map[string]bool)
	index := 0
	for pair := node.Properties.Oldest(); pair != nil; pair = pair.Next() {
		index++
		fieldName := ToGoName(pair.Key)
		if fieldName == "" {
			fieldName = "Field" + strconv.Itoa(index)
		}
		for base, n := fieldName, 2; fieldNames[fieldName]; n++ {
			fieldName = base + strconv.Itoa(n)
		}
		fieldNames[fieldName] = true

		ref := m.mapSchema(pair.Value, name+fieldName)
		required := node.isRequired(pair.Key)
		if ref.Struct && !ref.Pointer && (!required || m.building[ref.Named]) {
			ref.Pointer = true
		}

		field := goField{
			Name:     fieldName,
			JSONName: pair.Key,
			Type:     ref,
			Required: required,
		}
		if pair.Value != nil {
			field.Doc = pair.Value.Description
		}
		t.Fields = append(t.Fields, field)
	}
	return t
}

func (m *typeMapper) declareEnum(hint string, node *schemaNode, values []string) *goType {
	t := &goType{Name: m.reserve(hint), Doc: node.Description, Kind: kindEnum}
	m.types.Set(t.Name, t)

	for i, v := range values {
		suffix := ToGoName(v)
		if suffix == "" {
			suffix = "Value" + strconv.Itoa(i+1)
		}
		t.EnumValues = append(t.EnumValues, goEnumVal{
			GoName: m.reserve(t.Name + suffix),
			Value:  v,
		})
	}
	return t
}

// reserve claims a top-level identifier, appending a counter on collision.
func (m *typeMapper) reserve(name string) string {
	if name == "" {
		name = fallbackTypeName
	}
	candidate := name
	for n := 2; m.idents[candidate]; n++ {
		candidate = name + strconv.Itoa(n)
	}
	m.idents[candidate] = true
	return candidate
}
