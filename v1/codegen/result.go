package codegen

// Style selects the shape of the emitted Go types.
type Style int

const (
	// StyleStruct emits mutable structs with pointer-receiver JSON helpers.
	StyleStruct Style = iota

	// StyleRecord emits value types with a constructor for required fields
	// and copy-on-write With<Field> methods.
	StyleRecord
)

func (s Style) String() string {
	if s == StyleRecord {
		return "record"
	}
	return "struct"
}

// GenerationResult describes the outcome of one generation run.
// A failed run carries Success=false, an ErrorMessage and the underlying Err.
type GenerationResult struct {
	Success        bool
	OutputPath     string
	TypeName       string
	Package        string
	LinesGenerated int
	ErrorMessage   string
	Err            error
}

// ValidationResult describes the outcome of validating a document against a schema.
type ValidationResult struct {
	IsValid      bool
	Errors       []string
	SchemaSource string
	DataSource   string
}

func failed(err error) GenerationResult {
	return GenerationResult{
		Success:      false,
		ErrorMessage: err.Error(),
		Err:          err,
	}
}
