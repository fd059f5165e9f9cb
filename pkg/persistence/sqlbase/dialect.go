package sqlbase

// Dialect captures the engine-specific behavior the shared repositories need.
// Queries use $N placeholders, which both supported engines accept.
type Dialect struct {
	// Name identifies the engine in logs.
	Name string

	// IsUniqueViolation reports whether err is a unique-constraint violation.
	IsUniqueViolation func(err error) bool
}
