package codegen

import "errors"

var (
	// ErrParse is wrapped by failures to read a schema or data document
	// as JSON, or to accept it as a JSON Schema.
	ErrParse = errors.New("schema parse error")

	// ErrFileNotFound is wrapped when an input file does not exist.
	ErrFileNotFound = errors.New("file not found")
)
