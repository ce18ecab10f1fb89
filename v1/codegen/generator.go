package codegen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Generate turns a JSON Schema document into a Go source file named
// <TypeName>.g.go inside outputDir, creating the directory if needed.
//
// Parameters:
//   - schemaSource: the schema document text
//   - outputDir: the directory that receives the generated file
//   - namespace: dotted namespace whose last segment becomes the package name
//   - style: StyleStruct or StyleRecord
//
// Returns:
//   - GenerationResult: Success with path, type, package and line count, or
//     Success=false with ErrorMessage and Err set. Parse failures wrap ErrParse.
func Generate(schemaSource, outputDir, namespace string, style Style) (result GenerationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = failed(fmt.Errorf("code generation failed: %v", r))
		}
	}()

	root, err := parseSchema(schemaSource)
	if err != nil {
		return failed(fmt.Errorf("code generation failed: %w", err))
	}

	typeName := SanitizeTypeName(root.Title)
	pkg := PackageName(namespace)

	mapper := newTypeMapper(root)
	rootType := mapper.mapRoot(typeName)

	code, err := emitter{packageName: pkg, style: style}.render(rootType.Name, mapper.declared())
	if err != nil {
		return failed(fmt.Errorf("code generation failed: %w", err))
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return failed(fmt.Errorf("failed to create output directory %s: %w", outputDir, err))
	}

	outputPath := filepath.Join(outputDir, rootType.Name+".g.go")
	if err := os.WriteFile(outputPath, []byte(code), 0o644); err != nil {
		return failed(fmt.Errorf("failed to write %s: %w", outputPath, err))
	}

	return GenerationResult{
		Success:        true,
		OutputPath:     outputPath,
		TypeName:       rootType.Name,
		Package:        pkg,
		LinesGenerated: len(strings.Split(code, "\n")),
	}
}

// GenerateFromFile reads schemaPath and runs Generate on its content.
// A missing file produces a failed result wrapping ErrFileNotFound.
func GenerateFromFile(schemaPath, outputDir, namespace string, style Style) GenerationResult {
	content, err := readInput(schemaPath, "schema")
	if err != nil {
		return failed(err)
	}
	return Generate(string(content), outputDir, namespace, style)
}

func readInput(path, kind string) ([]byte, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s file %s", ErrFileNotFound, kind, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file %s: %w", kind, path, err)
	}
	return content, nil
}
