package errors

// Convenience functions for common error patterns

// Input and config errors

func ValidationFailed(field, reason string) *ProvisionError {
	return New(CategoryValidation, SeverityFatal, "validation failed").
		WithContext("field", field).
		WithContext("reason", reason)
}

func ConfigError(path string, cause error) *ProvisionError {
	return Wrap(cause, CategoryConfig, SeverityFatal, "configuration could not be loaded").
		WithContext("path", path)
}

// Workspace errors

func DirectoryExists(path string) *ProvisionError {
	return New(CategoryFileSystem, SeverityFatal, "workspace directory already exists (use --update to reuse it)").
		WithContext("path", path)
}

func DirectoryMissing(path string) *ProvisionError {
	return New(CategoryFileSystem, SeverityFatal, "workspace directory does not exist (drop --update to create it)").
		WithContext("path", path)
}

func WorkspaceError(operation, path string, cause error) *ProvisionError {
	return Wrap(cause, CategoryFileSystem, SeverityFatal, "workspace operation failed").
		WithContext("operation", operation).
		WithContext("path", path)
}

// External tool errors

func ToolFailed(category ErrorCategory, step string, cause error) *ProvisionError {
	return Wrap(cause, category, SeverityFatal, "external tool failed").
		WithContext("step", step)
}

// Internal errors

func InternalError(message string, cause error) *ProvisionError {
	return Wrap(cause, CategoryInternal, SeverityFatal, message)
}
