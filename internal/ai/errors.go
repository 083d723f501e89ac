package ai

import "fmt"

// AuthError indicates the supplied credential was rejected (401/403).
type AuthError struct{ *APIError }

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.APIError.Error())
}

// ServiceError covers every other remote failure: rate limits, provider
// errors, malformed responses.
type ServiceError struct{ *APIError }

func (e *ServiceError) Error() string {
	return fmt.Sprintf("service error: %s", e.APIError.Error())
}
