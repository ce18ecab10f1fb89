package codegen

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paymentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Payment",
  "type": "object",
  "properties": {
    "id": {"type": "string"},
    "amount": {"type": "number", "minimum": 0},
    "currency": {"type": "string", "enum": ["EUR", "USD"]},
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {"quantity": {"type": "integer"}},
        "required": ["quantity"]
      }
    }
  },
  "required": ["id", "amount"]
}`

func TestValidate(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		result := Validate(paymentSchema, `{"id": "p-1", "amount": 12.5, "currency": "EUR"}`)
		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
		assert.Equal(t, "(inline)", result.SchemaSource)
		assert.Equal(t, "(inline)", result.DataSource)
	})

	t.Run("one entry per missing property", func(t *testing.T) {
		result := Validate(paymentSchema, `{}`)
		assert.False(t, result.IsValid)
		assert.ElementsMatch(t, []string{
			"[/] required: id",
			"[/] required: amount",
		}, result.Errors)
	})

	t.Run("nested violations carry a pointer", func(t *testing.T) {
		result := Validate(paymentSchema, `{"id": "p-1", "amount": -1, "items": [{"quantity": "two"}]}`)
		assert.False(t, result.IsValid)
		assert.ElementsMatch(t, []string{
			"[/amount] number_gte: amount",
			"[/items/0/quantity] invalid_type: quantity",
		}, result.Errors)
	})

	t.Run("enum violation", func(t *testing.T) {
		result := Validate(paymentSchema, `{"id": "p-1", "amount": 1, "currency": "GBP"}`)
		require.Len(t, result.Errors, 1)
		assert.Equal(t, "[/currency] enum: currency", result.Errors[0])
	})

	t.Run("root violation has no property", func(t *testing.T) {
		result := Validate(paymentSchema, `[1]`)
		assert.False(t, result.IsValid)
		assert.Equal(t, []string{"[/] invalid_type"}, result.Errors)
	})

	t.Run("malformed document", func(t *testing.T) {
		result := Validate(paymentSchema, `{"id": `)
		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.True(t, strings.HasPrefix(result.Errors[0], "Validation error: "))
	})

	t.Run("malformed schema", func(t *testing.T) {
		result := Validate(`{"type": 42}`, `{}`)
		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.True(t, strings.HasPrefix(result.Errors[0], "Validation error: "))
	})
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "payment.schema.json")
	dataPath := filepath.Join(dir, "payment.json")
	require.NoError(t, os.WriteFile(schemaPath, []byte(paymentSchema), 0o644))
	require.NoError(t, os.WriteFile(dataPath, []byte(`{"id": "p-1"}`), 0o644))

	t.Run("reports paths as sources", func(t *testing.T) {
		result := ValidateFiles(schemaPath, dataPath)
		assert.False(t, result.IsValid)
		assert.Equal(t, []string{"[/] required: amount"}, result.Errors)
		assert.Equal(t, schemaPath, result.SchemaSource)
		assert.Equal(t, dataPath, result.DataSource)
	})

	t.Run("missing data file", func(t *testing.T) {
		result := ValidateFiles(schemaPath, filepath.Join(dir, "missing.json"))
		assert.False(t, result.IsValid)
		require.Len(t, result.Errors, 1)
		assert.Contains(t, result.Errors[0], "Validation error: ")
		assert.Contains(t, result.Errors[0], "file not found")
	})
}
