package domain

// Caller identifies who issued a request. UserID is empty for anonymous callers.
type Caller struct {
	UserID string
}

// AnonymousCaller returns a caller with no identity
func AnonymousCaller() Caller {
	return Caller{}
}

// Identified reports whether the caller carries an authenticated user id
func (c Caller) Identified() bool {
	return c.UserID != ""
}
