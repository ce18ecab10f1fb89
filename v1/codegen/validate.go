package codegen

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	inlineSource = "(inline)"
	contextRoot  = "(root)"
)

// Validate checks dataSource against schemaSource. Every violation becomes one
// entry of the form "[<json-pointer>] <kind>: <property>", for example
// "[/] required: id" or "[/items/0/quantity] number_gte: quantity".
// Violations of the document root carry no property: "[/] invalid_type".
// An unreadable schema or document yields a single "Validation error: ..." entry.
func Validate(schemaSource, dataSource string) ValidationResult {
	result := ValidationResult{SchemaSource: inlineSource, DataSource: inlineSource}
	result.IsValid, result.Errors = validate(schemaSource, dataSource)
	return result
}

// ValidateFiles is Validate over the contents of two files. The result
// records the paths as its sources.
func ValidateFiles(schemaPath, dataPath string) ValidationResult {
	result := ValidationResult{SchemaSource: schemaPath, DataSource: dataPath}

	schema, err := readInput(schemaPath, "schema")
	if err != nil {
		result.Errors = []string{"Validation error: " + err.Error()}
		return result
	}
	data, err := readInput(dataPath, "data")
	if err != nil {
		result.Errors = []string{"Validation error: " + err.Error()}
		return result
	}

	result.IsValid, result.Errors = validate(string(schema), string(data))
	return result
}

func validate(schemaSource, dataSource string) (valid bool, errs []string) {
	defer func() {
		if r := recover(); r != nil {
			valid, errs = false, []string{fmt.Sprintf("Validation error: %v", r)}
		}
	}()

	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaSource))
	if err != nil {
		return false, []string{fmt.Sprintf("Validation error: %v", fmt.Errorf("%w: %w", ErrParse, err))}
	}

	res, err := schema.Validate(gojsonschema.NewStringLoader(dataSource))
	if err != nil {
		return false, []string{fmt.Sprintf("Validation error: %v", fmt.Errorf("%w: %w", ErrParse, err))}
	}

	errs = make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		errs = append(errs, formatViolation(e))
	}
	return len(errs) == 0, errs
}

func formatViolation(e gojsonschema.ResultError) string {
	property := violatedProperty(e)
	if property == "" {
		return fmt.Sprintf("[%s] %s", pointer(e), e.Type())
	}
	return fmt.Sprintf("[%s] %s: %s", pointer(e), e.Type(), property)
}

// pointer renders the error location as a JSON pointer rooted at "/".
func pointer(e gojsonschema.ResultError) string {
	path := strings.TrimPrefix(e.Context().String("/"), contextRoot)
	if path == "" {
		return "/"
	}
	return path
}

func violatedProperty(e gojsonschema.ResultError) string {
	if property, ok := e.Details()["property"].(string); ok && property != "" {
		return property
	}
	field := e.Field()
	if field == contextRoot {
		return ""
	}
	if idx := strings.LastIndex(field, "."); idx >= 0 {
		return field[idx+1:]
	}
	return field
}
