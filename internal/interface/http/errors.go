package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/booking-api/internal/application"
	"github.com/oksasatya/booking-api/pkg/helpers"
	"github.com/oksasatya/booking-api/pkg/response"
	"github.com/oksasatya/booking-api/pkg/validation"
)

// statusOf maps an application error kind onto its HTTP status.
func statusOf(k application.Kind) int {
	switch k {
	case application.KindBadRequest:
		return http.StatusBadRequest
	case application.KindUnauthorized:
		return http.StatusUnauthorized
	case application.KindForbidden:
		return http.StatusForbidden
	case application.KindNotFound:
		return http.StatusNotFound
	case application.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an envelope. Foreign errors and internal failures are
// logged and reported with a generic message.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	var ae *application.AppError
	if !errors.As(err, &ae) || ae.Kind == application.KindInternal {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, application.MsgInternal, nil)
		return
	}
	response.Error[any](c, statusOf(ae.Kind), ae.Message, nil)
}

func badPayload(c *gin.Context, err error) {
	details := validation.ToDetails(err)
	response.Error[any](c, http.StatusBadRequest, validation.Summary(details), details)
}
