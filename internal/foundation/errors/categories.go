package errors

// ErrorCategory is the broad classification of an error.
type ErrorCategory string

const (
	// CategoryConfig covers configuration files and CLI input.
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"
	CategoryNotFound   ErrorCategory = "not_found"

	// CategoryStale reports documents whose generated content is out of date.
	CategoryStale ErrorCategory = "stale"

	// CategoryFileSystem covers reading, walking and writing documents.
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryGit        ErrorCategory = "git"

	// CategoryState covers the incremental fingerprint store.
	CategoryState  ErrorCategory = "state"
	CategoryEvents ErrorCategory = "events"
	CategoryWatch  ErrorCategory = "watch"

	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates the impact level of an error.
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops the run
	SeverityError   ErrorSeverity = "error"   // Fails the current document
	SeverityWarning ErrorSeverity = "warning" // Run continues degraded
)

// ErrorContext provides structured context for errors.
type ErrorContext map[string]any

// Set adds or updates a context value.
func (c ErrorContext) Set(key string, value any) ErrorContext {
	if c == nil {
		c = make(ErrorContext)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c ErrorContext) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	value, exists := c[key]
	return value, exists
}

// GetString retrieves a string context value.
func (c ErrorContext) GetString(key string) (string, bool) {
	if value, exists := c.Get(key); exists {
		if str, ok := value.(string); ok {
			return str, true
		}
	}
	return "", false
}
