package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/fta/internal/core/faulttree"
	"github.com/example/fta/internal/logger"
)

// statusFor maps a service error onto an HTTP status and error code.
func statusFor(err error) (int, ErrorResponse) {
	resp := ErrorResponse{Error: err.Error()}

	var ve *faulttree.ValidationError
	switch {
	case errors.As(err, &ve):
		resp.Code = CodeValidationFailed
		resp.Rule = ve.Rule
		return http.StatusUnprocessableEntity, resp
	case errors.Is(err, faulttree.ErrNoRoot):
		resp.Code = CodeNoRoot
		return http.StatusNotFound, resp
	case errors.Is(err, faulttree.ErrNotFound):
		resp.Code = CodeNotFound
		return http.StatusNotFound, resp
	case errors.Is(err, faulttree.ErrIntegrityHold), faulttree.IsIntegrity(err):
		resp.Code = CodeIntegrityHold
		return http.StatusConflict, resp
	case faulttree.IsRetryable(err):
		resp.Code = CodeStoreUnavailable
		return http.StatusServiceUnavailable, resp
	}
	resp.Code = CodeInternal
	return http.StatusInternalServerError, resp
}

// writeError renders err and logs it at a level matching its class.
func writeError(c *gin.Context, log *logger.Logger, err error) {
	status, resp := statusFor(err)
	switch {
	case status >= http.StatusInternalServerError:
		log.Error("request failed", "status", status, "code", resp.Code, "error", err)
	default:
		log.Info("request rejected", "status", status, "code", resp.Code, "error", err)
	}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	c.JSON(status, resp)
}

func writeBindError(c *gin.Context, log *logger.Logger, err error) {
	log.Warn("invalid request body", "error", err)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: "invalid request body: " + err.Error(),
		Code:  CodeInvalidRequest,
	})
}
