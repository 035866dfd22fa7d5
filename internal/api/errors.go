package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/riquemorozine/containers-api/internal/authz"
)

// writeServiceError maps a core error onto the HTTP response. Every denial,
// whatever the reason, becomes the same 401 category; only infrastructure
// failures surface as 500.
func writeServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var denial *authz.AccessError
	if errors.As(err, &denial) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: denial.Error()})
		return
	}
	logger.Error("internal server error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "An unexpected internal server error occurred."})
}

// writeBindingError maps a request binding failure onto a 400, spelling out
// field-level validation problems when the validator produced them.
func writeBindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: validationErrors.Error()})
		return
	}
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
}
