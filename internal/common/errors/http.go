// internal/common/errors/http.go
package errors

import "net/http"

// HTTPStatus maps internal error codes to the status the API boundary
// reports. The handler layer is the only place responses are shaped, so
// the mapping lives next to the codes instead of being scattered.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case ErrCodeValidationFailed, ErrCodeOTPContactRequired,
		ErrCodeDuplicateEmail, ErrCodeInvalidCredentials:
		return http.StatusBadRequest
	case ErrCodeApplicationNotFound:
		return http.StatusNotFound
	case ErrCodeOTPMismatch:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
