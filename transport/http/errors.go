package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/layer-3/walletbridge/core"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Log       string `json:"log,omitempty"`
	Notice    string `json:"notice"`
	Retryable bool   `json:"retryable"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, core.ErrUnknownBackend), errors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrActivationInProgress), errors.Is(err, core.ErrNotConnected):
		return http.StatusConflict
	}

	switch core.KindOf(err) {
	case core.ErrValidation:
		return http.StatusBadRequest
	case core.ErrConnectionUnavailable, core.ErrConnectionRejected, core.ErrTransactionRejected:
		return http.StatusConflict
	case core.ErrTransactionFormatUnsupported, core.ErrTransactionFailed:
		return http.StatusUnprocessableEntity
	case core.ErrConnectionTimeout, core.ErrTransactionError:
		return http.StatusGatewayTimeout
	case core.ErrNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func errorResponse(err error) ErrorResponse {
	resp := ErrorResponse{
		Error:     err.Error(),
		Notice:    core.Notice(err),
		Retryable: core.Retryable(err),
	}
	if kind := core.KindOf(err); kind != nil {
		resp.Kind = kind.Error()
	}
	var ce *core.Error
	if errors.As(err, &ce) {
		resp.Log = ce.Log
	}
	return resp
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), errorResponse(err))
}
