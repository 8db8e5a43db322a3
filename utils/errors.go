package utils

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/kataras/iris/v12"
)

// Domain error kinds. Services return these; handlers translate them into the
// uniform {success:false, message} envelope with the matching status code.
var (
	ErrValidation    = errors.New("validation error")
	ErrAuthorization = errors.New("authorization error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
)

// ValidationError wraps ErrValidation with a caller-facing message.
func ValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// AuthorizationError wraps ErrAuthorization with a caller-facing message.
func AuthorizationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrAuthorization, fmt.Sprintf(format, args...))
}

// NotFoundError wraps ErrNotFound with a caller-facing message.
func NotFoundError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// ConflictError wraps ErrConflict with a caller-facing message.
func ConflictError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// ErrorMessage strips the kind prefix, leaving the caller-facing message.
func ErrorMessage(err error) string {
	for _, kind := range []error{ErrValidation, ErrAuthorization, ErrNotFound, ErrConflict} {
		if errors.Is(err, kind) {
			msg := err.Error()
			prefix := kind.Error() + ": "
			if len(msg) > len(prefix) && msg[:len(prefix)] == prefix {
				return msg[len(prefix):]
			}
			return msg
		}
	}
	return "Something went wrong"
}

// HandleServiceError writes the JSON envelope for a service-layer error.
// Conflicts on write operations map to 409; deletion/replace conflicts are
// reported by the callers that want 400 via HandleServiceErrorStatus.
func HandleServiceError(ctx iris.Context, err error) {
	HandleServiceErrorStatus(ctx, err, http.StatusConflict)
}

// HandleServiceErrorStatus is HandleServiceError with a custom conflict code,
// for the endpoints whose contract reports conflicts as 400.
func HandleServiceErrorStatus(ctx iris.Context, err error, conflictCode int) {
	switch {
	case errors.Is(err, ErrValidation):
		writeError(ctx, http.StatusBadRequest, err)
	case errors.Is(err, ErrAuthorization):
		writeError(ctx, http.StatusForbidden, err)
	case errors.Is(err, ErrNotFound):
		writeError(ctx, http.StatusNotFound, err)
	case errors.Is(err, ErrConflict):
		writeError(ctx, conflictCode, err)
	default:
		CreateInternalServerError(ctx)
	}
}

func writeError(ctx iris.Context, status int, err error) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"success": false, "message": ErrorMessage(err)})
}
