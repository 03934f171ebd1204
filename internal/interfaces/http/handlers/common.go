// Package handlers holds the gin HTTP handlers of the explorer API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/rxndb-explorer/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps an error to its HTTP status via the error-code table
// and writes the standard body.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := code.HTTPStatus()

	message := err.Error()
	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
		if appErr.Detail != "" {
			message = appErr.Message + ": " + appErr.Detail
		}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Code: string(code), Message: message})
}

// respondBadRequest reports a malformed request body or parameter.
func respondBadRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
		Code:    string(errors.ErrCodeBadRequest),
		Message: err.Error(),
	})
}
