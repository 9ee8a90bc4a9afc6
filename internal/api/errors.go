package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"recurring-planner/internal/service"
)

const (
	MsgInvalidID      = "Invalid id"
	MsgInvalidPayload = "Invalid payload"
	MsgUnauthorized   = "Unauthorized"
	MsgForbidden      = "Forbidden"
	MsgNotFound       = "Not found"
	MsgRuleExists     = "Recurrence rule already exists"
	MsgUserExists     = "User already exists"
	MsgInternal       = "Internal error"
)

// JsonErr is the error body returned by every endpoint.
type JsonErr struct {
	ErrDetails Err `json:"error"`
}

type Err struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e JsonErr) Error() string {
	return fmt.Sprintf("Code: %d, Message: %s", e.ErrDetails.Code, e.ErrDetails.Message)
}

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, JsonErr{ErrDetails: Err{Code: code, Message: message}})
}

// writeServiceError maps service sentinel errors to HTTP statuses.
func writeServiceError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidRule), errors.Is(err, service.ErrInvalidTask), errors.Is(err, service.ErrInvalidInput):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrForbidden):
		abortWithError(c, http.StatusForbidden, MsgForbidden)
	case errors.Is(err, service.ErrNotFound):
		abortWithError(c, http.StatusNotFound, MsgNotFound)
	case errors.Is(err, service.ErrRuleExists):
		abortWithError(c, http.StatusConflict, MsgRuleExists)
	case errors.Is(err, service.ErrUserExists):
		abortWithError(c, http.StatusConflict, MsgUserExists)
	default:
		zap.L().Error(op, zap.Error(err))
		abortWithError(c, http.StatusInternalServerError, MsgInternal)
	}
}
