package codegen

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderEventSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "OrderEvent",
  "description": "OrderEvent is emitted whenever an order changes state.",
  "type": "object",
  "properties": {
    "id": {"type": "string", "description": "Unique order identifier."},
    "amount": {"type": "number", "minimum": 0},
    "quantity": {"type": "integer"},
    "status": {"type": "string", "enum": ["pending", "shipped"]},
    "createdAt": {"type": "string", "format": "date-time"},
    "tags": {"type": "array", "items": {"type": "string"}},
    "attributes": {"type": "object", "additionalProperties": {"type": "string"}},
    "note": {"type": ["string", "null"]},
    "payload": {},
    "shippingAddress": {
      "type": "object",
      "properties": {"street": {"type": "string"}, "zip": {"type": "string"}},
      "required": ["street"]
    },
    "customer": {"$ref": "#/definitions/customer"},
    "lineItems": {"type": "array", "items": {"$ref": "#/$defs/line_item"}}
  },
  "required": ["id", "amount"],
  "definitions": {
    "customer": {"type": "object", "properties": {"email": {"type": "string"}}}
  },
  "$defs": {
    "line_item": {
      "type": "object",
      "properties": {"sku": {"type": "string"}, "price": {"type": "number"}},
      "required": ["sku"]
    }
  }
}`

func generateAndRead(t *testing.T, schema, namespace string, style Style) (GenerationResult, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "out")

	result := Generate(schema, dir, namespace, style)
	require.True(t, result.Success, result.ErrorMessage)

	content, err := os.ReadFile(result.OutputPath)
	require.NoError(t, err)

	_, err = parser.ParseFile(token.NewFileSet(), result.OutputPath, content, parser.AllErrors)
	require.NoError(t, err, "generated code must parse:\n%s", content)

	return result, string(content)
}

func TestGenerate(t *testing.T) {
	result, code := generateAndRead(t, orderEventSchema, "Acme.Orders", StyleStruct)

	t.Run("result", func(t *testing.T) {
		assert.Equal(t, "OrderEvent", result.TypeName)
		assert.Equal(t, "orders", result.Package)
		assert.Equal(t, "OrderEvent.g.go", filepath.Base(result.OutputPath))
		assert.Equal(t, len(strings.Split(code, "\n")), result.LinesGenerated)
		assert.NoError(t, result.Err)
		assert.Empty(t, result.ErrorMessage)
	})

	t.Run("header and package", func(t *testing.T) {
		assert.True(t, strings.HasPrefix(code, "// Code generated by schemactl. DO NOT EDIT."))
		assert.Contains(t, code, "package orders")
		assert.Contains(t, code, `"encoding/json"`)
		assert.Contains(t, code, `"time"`)
	})

	t.Run("required fields", func(t *testing.T) {
		assert.Regexp(t, "ID\\s+string\\s+`json:\"id\"`", code)
		assert.Regexp(t, "Amount\\s+float64\\s+`json:\"amount\"`", code)
		assert.Contains(t, code, "// Unique order identifier.")
	})

	t.Run("optional fields", func(t *testing.T) {
		assert.Regexp(t, "Quantity\\s+int64\\s+`json:\"quantity,omitempty\"`", code)
		assert.Regexp(t, "CreatedAt\\s+time\\.Time\\s+`json:\"createdAt,omitempty\"`", code)
		assert.Regexp(t, "Tags\\s+\\[\\]string\\s+`json:\"tags,omitempty\"`", code)
		assert.Regexp(t, "Attributes\\s+map\\[string\\]string\\s+`json:\"attributes,omitempty\"`", code)
		assert.Regexp(t, "Note\\s+string\\s+`json:\"note,omitempty\"`", code)
		assert.Regexp(t, "Payload\\s+interface\\{\\}\\s+`json:\"payload,omitempty\"`", code)
	})

	t.Run("enum", func(t *testing.T) {
		assert.Regexp(t, "Status\\s+OrderEventStatus\\s+`json:\"status,omitempty\"`", code)
		assert.Contains(t, code, "type OrderEventStatus string")
		assert.Regexp(t, `OrderEventStatusPending\s+OrderEventStatus = "pending"`, code)
		assert.Regexp(t, `OrderEventStatusShipped\s+OrderEventStatus = "shipped"`, code)
	})

	t.Run("nested objects", func(t *testing.T) {
		assert.Regexp(t, "ShippingAddress\\s+\\*OrderEventShippingAddress\\s+`json:\"shippingAddress,omitempty\"`", code)
		assert.Contains(t, code, "type OrderEventShippingAddress struct")
		assert.Regexp(t, "Street\\s+string\\s+`json:\"street\"`", code)
		assert.Regexp(t, "Zip\\s+string\\s+`json:\"zip,omitempty\"`", code)
	})

	t.Run("references", func(t *testing.T) {
		assert.Regexp(t, "Customer\\s+\\*Customer\\s+`json:\"customer,omitempty\"`", code)
		assert.Contains(t, code, "type Customer struct")
		assert.Regexp(t, "LineItems\\s+\\[\\]LineItem\\s+`json:\"lineItems,omitempty\"`", code)
		assert.Contains(t, code, "type LineItem struct")
		assert.Regexp(t, "SKU\\s+string\\s+`json:\"sku\"`", code)
	})

	t.Run("json helpers", func(t *testing.T) {
		assert.Contains(t, code, "func (o *OrderEvent) ToJSON() ([]byte, error)")
		assert.Contains(t, code, "func OrderEventFromJSON(data []byte) (*OrderEvent, error)")
	})

	t.Run("root is declared first", func(t *testing.T) {
		root := strings.Index(code, "type OrderEvent struct")
		nested := strings.Index(code, "type OrderEventShippingAddress struct")
		require.GreaterOrEqual(t, root, 0)
		assert.Less(t, root, nested)
	})

	t.Run("fields follow declaration order", func(t *testing.T) {
		id := strings.Index(code, "ID ")
		amount := strings.Index(code, "Amount ")
		quantity := strings.Index(code, "Quantity ")
		assert.Less(t, id, amount)
		assert.Less(t, amount, quantity)
	})
}

func TestGenerateRecordStyle(t *testing.T) {
	_, code := generateAndRead(t, orderEventSchema, "generated", StyleRecord)

	assert.Contains(t, code, "package generated")
	assert.Contains(t, code, "func NewOrderEvent(id string, amount float64) OrderEvent")
	assert.Contains(t, code, "func (o OrderEvent) WithQuantity(quantity int64) OrderEvent")
	assert.Contains(t, code, "func (o OrderEvent) WithStatus(status OrderEventStatus) OrderEvent")
	assert.Contains(t, code, "func NewOrderEventShippingAddress(street string) OrderEventShippingAddress")
	assert.Contains(t, code, "func (o OrderEvent) ToJSON() ([]byte, error)")
	assert.Contains(t, code, "func OrderEventFromJSON(data []byte) (OrderEvent, error)")
	assert.NotContains(t, code, "func (o OrderEvent) WithID(")
}

func TestGenerateNaming(t *testing.T) {
	t.Run("title is sanitized", func(t *testing.T) {
		result, code := generateAndRead(t, `{"title": "order_event-v2", "type": "object", "properties": {"id": {"type": "string"}}}`, "", StyleStruct)
		assert.Equal(t, "OrderEventV2", result.TypeName)
		assert.Equal(t, "OrderEventV2.g.go", filepath.Base(result.OutputPath))
		assert.Equal(t, "generated", result.Package)
		assert.Contains(t, code, "type OrderEventV2 struct")
	})

	t.Run("missing title falls back", func(t *testing.T) {
		result, _ := generateAndRead(t, `{"type": "object", "properties": {"id": {"type": "string"}}}`, "generated", StyleStruct)
		assert.Equal(t, "GeneratedSchema", result.TypeName)
	})

	t.Run("symbol-only title falls back", func(t *testing.T) {
		result, _ := generateAndRead(t, `{"title": "@@@", "type": "object"}`, "generated", StyleStruct)
		assert.Equal(t, "GeneratedSchema", result.TypeName)
	})

	t.Run("primitive root becomes a named type", func(t *testing.T) {
		_, code := generateAndRead(t, `{"title": "Sku", "type": "string"}`, "generated", StyleStruct)
		assert.Contains(t, code, "type Sku string")
	})

	t.Run("recursive reference uses a pointer", func(t *testing.T) {
		schema := `{
		  "title": "Tree",
		  "type": "object",
		  "properties": {"root": {"$ref": "#/$defs/node"}},
		  "required": ["root"],
		  "$defs": {
		    "node": {
		      "type": "object",
		      "properties": {
		        "value": {"type": "integer"},
		        "next": {"$ref": "#/$defs/node"},
		        "children": {"type": "array", "items": {"$ref": "#/$defs/node"}}
		      },
		      "required": ["value", "next"]
		    }
		  }
		}`
		_, code := generateAndRead(t, schema, "generated", StyleStruct)
		assert.Regexp(t, "Root\\s+Node\\s+`json:\"root\"`", code)
		assert.Regexp(t, "Next\\s+\\*Node\\s+`json:\"next\"`", code)
		assert.Regexp(t, "Children\\s+\\[\\]Node", code)
		assert.Equal(t, 1, strings.Count(code, "type Node struct"))
	})
}

func TestGenerateFailures(t *testing.T) {
	dir := t.TempDir()

	t.Run("not json", func(t *testing.T) {
		result := Generate("this is not json", dir, "generated", StyleStruct)
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Err, ErrParse)
		assert.NotEmpty(t, result.ErrorMessage)
	})

	t.Run("not a schema", func(t *testing.T) {
		result := Generate(`{"type": 42}`, dir, "generated", StyleStruct)
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Err, ErrParse)
	})

	t.Run("missing file", func(t *testing.T) {
		result := GenerateFromFile(filepath.Join(dir, "missing.schema.json"), dir, "generated", StyleStruct)
		assert.False(t, result.Success)
		assert.ErrorIs(t, result.Err, ErrFileNotFound)
		assert.Contains(t, result.ErrorMessage, "missing.schema.json")
	})

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed runs must not write files")
}

func TestGenerateFromFile(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "order-event.schema.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(orderEventSchema), 0o644))

	result := GenerateFromFile(schemaPath, filepath.Join(dir, "generated"), "Acme.Events", StyleStruct)
	require.True(t, result.Success, result.ErrorMessage)
	assert.Equal(t, filepath.Join(dir, "generated", "OrderEvent.g.go"), result.OutputPath)
	assert.FileExists(t, result.OutputPath)
}

func TestSchemaTitle(t *testing.T) {
	assert.Equal(t, "OrderEvent", SchemaTitle(orderEventSchema))
	assert.Equal(t, "Untitled", SchemaTitle(`{"type": "object"}`))
	assert.Equal(t, "Untitled", SchemaTitle("not json"))
}
