// Package rest maps ledger errors onto HTTP responses for the gin surface.
package rest

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/gin-gonic/gin"
)

func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInsufficientStock),
		errors.Is(err, apperror.ErrAlreadyVoided),
		errors.Is(err, apperror.ErrAlreadySettled),
		errors.Is(err, apperror.ErrAlreadyCompleted),
		errors.Is(err, apperror.ErrConcurrentUpdate):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Abort writes err as a JSON body. Internal failures hide their detail.
func Abort(c *gin.Context, err error) {
	code := Status(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}
