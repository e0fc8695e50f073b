// api/middleware/error_handler.go
package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10" // Import validator for binding errors
	"github.com/sirupsen/logrus"

	"github.com/Annany2002/nebula-canvas/internal/auth"
	"github.com/Annany2002/nebula-canvas/internal/command"
	"github.com/Annany2002/nebula-canvas/internal/core"
	"github.com/Annany2002/nebula-canvas/internal/design"
	"github.com/Annany2002/nebula-canvas/internal/engine"
	"github.com/Annany2002/nebula-canvas/internal/history"
	"github.com/Annany2002/nebula-canvas/internal/showdata"
	"github.com/Annany2002/nebula-canvas/internal/storage"
	"github.com/Annany2002/nebula-canvas/internal/translator"
)

// ErrorHandler creates a Gin middleware for centralized error handling.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// Only the last error decides the response.
		err := c.Errors.Last().Err
		statusCode, body := mapError(err)

		entry := customLog.WithFields(logrus.Fields{
			"path":   c.FullPath(),
			"status": statusCode,
		}).WithError(err)
		if statusCode >= http.StatusInternalServerError {
			entry.Errorf("[ErrorHandler] Request failed (%T)", err)
		} else {
			entry.Info("[ErrorHandler] Request rejected")
		}

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(statusCode, body)
		} else {
			customLog.Warn("[ErrorHandler] Response already written before handling error.")
		}
	}
}

// mapError maps an error attached by a handler to a status code and body.
func mapError(err error) (int, gin.H) {
	var (
		validationErrs validator.ValidationErrors
		invalidInput   *engine.InvalidInputError
		designErr      *design.SchemaValidationError
		commandErr     *command.SchemaValidationError
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
	)

	switch {
	// Translator failures keep an empty command list in the body.
	case errors.Is(err, translator.ErrTimeout):
		return http.StatusGatewayTimeout, gin.H{"error": "No commands available: the assistant took too long.", "commands": []any{}}
	case errors.Is(err, translator.ErrEmptyPrompt):
		return http.StatusBadRequest, gin.H{"error": err.Error(), "commands": []any{}}
	case errors.Is(err, translator.ErrUnavailable),
		errors.Is(err, translator.ErrGenerator),
		errors.Is(err, translator.ErrBadOutput):
		return http.StatusInternalServerError, gin.H{"error": "Could not translate the request into commands.", "commands": []any{}}

	case errors.As(err, &invalidInput):
		return http.StatusBadRequest, gin.H{"error": invalidInput.Error()}
	case errors.As(err, &designErr):
		return http.StatusBadRequest, gin.H{"error": designErr.Error()}
	case errors.As(err, &commandErr):
		return http.StatusBadRequest, gin.H{"error": commandErr.Error()}
	case errors.As(err, &validationErrs):
		details := make([]string, 0, len(validationErrs))
		for _, fe := range validationErrs {
			details = append(details, fe.Field()+" failed on "+fe.Tag())
		}
		return http.StatusBadRequest, gin.H{"error": "Validation failed. Please check your input.", "details": details}
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF):
		return http.StatusBadRequest, gin.H{"error": "Invalid JSON request body."}
	case errors.Is(err, core.ErrInvalidDisplayName), errors.Is(err, core.ErrInvalidQuery):
		return http.StatusBadRequest, gin.H{"error": err.Error()}

	case errors.Is(err, storage.ErrUserNotFound),
		errors.Is(err, storage.ErrRecordNotFound):
		return http.StatusNotFound, gin.H{"error": err.Error()}

	case errors.Is(err, history.ErrNothingToUndo),
		errors.Is(err, history.ErrNothingToRedo):
		return http.StatusConflict, gin.H{"error": err.Error()}

	case errors.Is(err, auth.ErrTokenExpired):
		return http.StatusUnauthorized, gin.H{"error": "Authentication token has expired."}
	case errors.Is(err, auth.ErrTokenMalformed),
		errors.Is(err, auth.ErrTokenInvalid),
		errors.Is(err, auth.ErrTokenClaimsInvalid):
		return http.StatusUnauthorized, gin.H{"error": "Invalid or malformed authentication token."}
	case errors.Is(err, auth.ErrMissingIdentity):
		return http.StatusUnauthorized, gin.H{"error": "Authorization header or x-user-id header required."}
	case errors.Is(err, auth.ErrUnauthorized):
		return http.StatusUnauthorized, gin.H{"error": err.Error()}

	case errors.Is(err, showdata.ErrUpstream):
		return http.StatusBadGateway, gin.H{"error": "Show data is unavailable right now."}

	default:
		return http.StatusInternalServerError, gin.H{"error": "An unexpected internal server error occurred."}
	}
}
