package app

// ValidationError marks a local precondition failure: the request was never
// issued and the service state is untouched.
type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

func errValidation(message string) error {
	return ValidationError(message)
}

// IsValidation reports whether an error is a local precondition failure.
func IsValidation(err error) bool {
	_, ok := err.(ValidationError)
	return ok
}
