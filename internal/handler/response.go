package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/helioscare/clinic-api/internal/model"
	apperrors "github.com/helioscare/clinic-api/pkg/errors"
)

type Response struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// WriteError maps the app error taxonomy onto HTTP statuses. Forbidden and
// NotFound share a 404 so the response does not reveal whether a row exists
// under another clinic; persistence failures surface as a generic retryable
// notice.
func WriteError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
		return
	}

	switch appErr.Code {
	case apperrors.ErrValidation:
		c.JSON(http.StatusBadRequest, &Response{
			Status:  "error",
			Message: appErr.Message,
			Fields:  appErr.Fields,
		})
	case apperrors.ErrBadRequest:
		c.JSON(http.StatusBadRequest, NewErrorResponse(appErr.Message))
	case apperrors.ErrUnauthenticated:
		c.JSON(http.StatusUnauthorized, NewErrorResponse(appErr.Message))
	case apperrors.ErrNoClinicAssociation:
		c.JSON(http.StatusForbidden, NewErrorResponse(appErr.Message))
	case apperrors.ErrForbidden, apperrors.ErrNotFound:
		c.JSON(http.StatusNotFound, NewErrorResponse(appErr.Message))
	case apperrors.ErrPersistence:
		c.JSON(http.StatusInternalServerError, NewErrorResponse("a temporary storage error occurred, please retry"))
	default:
		c.JSON(http.StatusInternalServerError, NewErrorResponse("internal server error"))
	}
}

// SessionKey is the gin context key under which the auth middleware stores
// the resolved caller session.
const SessionKey = "session"

// SessionFromContext returns the caller's session, or nil when the request
// carried no valid token.
func SessionFromContext(c *gin.Context) *model.Session {
	v, ok := c.Get(SessionKey)
	if !ok {
		return nil
	}
	session, _ := v.(*model.Session)
	return session
}
