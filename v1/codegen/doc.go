// Package codegen turns JSON Schema documents into Go source files and
// validates JSON documents against schemas.
//
// Generation maps the schema root to one named type (from its title) and
// every nested object, string enum and local $ref definition to further
// named types in the same file:
//
//	result := codegen.Generate(schema, "generated", "Acme.Orders", codegen.StyleStruct)
//	if !result.Success {
//	    return result.Err
//	}
//	fmt.Println(result.OutputPath) // generated/OrderEvent.g.go
//
// Validation reports one formatted entry per violation:
//
//	res := codegen.Validate(schema, `{"amount": -1}`)
//	// res.Errors: ["[/] required: id", "[/amount] number_gte: amount"]
//
// Failures never panic; they come back as result values whose Err wraps
// ErrParse or ErrFileNotFound.
package codegen
