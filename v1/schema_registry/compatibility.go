package schema_registry

// Compatibility is the outcome of testing a candidate schema against the
// latest version registered under a subject.
type Compatibility int

const (
	// CompatibilityUnknown is the zero value and is never returned without an error.
	CompatibilityUnknown Compatibility = iota

	// Compatible means the registry accepts the candidate as the next version.
	Compatible

	// Incompatible means the candidate breaks the subject's compatibility rule.
	Incompatible

	// NoPriorVersion means the subject has no registered version yet, so
	// there is nothing to compare against.
	NoPriorVersion
)

func (c Compatibility) String() string {
	switch c {
	case Compatible:
		return "compatible"
	case Incompatible:
		return "incompatible"
	case NoPriorVersion:
		return "no prior version"
	default:
		return "unknown"
	}
}

// Allows reports whether registration may proceed.
func (c Compatibility) Allows() bool {
	return c == Compatible || c == NoPriorVersion
}
