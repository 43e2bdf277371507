package middleware

import (
	"food-delivery-orders/apperrors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	ErrorKind apperrors.Kind               `json:"errorKind"`
	Message   string                       `json:"message"`
	Details   []apperrors.ValidationDetail `json:"details,omitempty"`
}

var genericMessages = map[apperrors.Kind]string{
	apperrors.KindStoreUnavailable: "Service temporarily unavailable, please retry",
	apperrors.KindInternal:         "Internal server error",
}

// ErrorHandler renders the last error a handler attached with c.Error.
// Server-side failures are logged with their cause and answered with a
// generic message.
func ErrorHandler(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		WriteError(c, log, c.Errors.Last().Err)
	}
}

func WriteError(c *gin.Context, log *zap.Logger, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		appErr = apperrors.NewInternalError("unclassified error", err)
	}
	status := apperrors.HTTPStatus(appErr.Kind)
	resp := ErrorResponse{ErrorKind: appErr.Kind, Message: appErr.Message, Details: appErr.Details}

	if status >= 500 {
		log.Error("request failed",
			zap.String("errorKind", string(appErr.Kind)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.String("requestId", c.GetString(ctxRequestID)),
			zap.Error(err),
		)
		resp.Message = genericMessages[apperrors.KindInternal]
		if msg, ok := genericMessages[appErr.Kind]; ok {
			resp.Message = msg
		}
		if appErr.Kind != apperrors.KindStoreUnavailable {
			resp.ErrorKind = apperrors.KindInternal
		}
		resp.Details = nil
	}
	c.JSON(status, resp)
}
