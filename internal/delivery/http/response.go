package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shop-fulfillment/internal/auth"
	"shop-fulfillment/internal/service"
)

type dataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Kind    service.Kind `json:"kind"`
}

var errorStatus = map[service.Kind]int{
	service.KindValidation: http.StatusBadRequest,
	service.KindBusiness:   http.StatusBadRequest,
	service.KindSecurity:   http.StatusBadRequest,
	service.KindNotFound:   http.StatusNotFound,
	service.KindForbidden:  http.StatusForbidden,
	service.KindAuth:       http.StatusUnauthorized,
	service.KindInternal:   http.StatusInternalServerError,
}

func newResponse(c *gin.Context, status int, data any) {
	c.JSON(status, dataResponse{Success: true, Data: data})
}

func newErrorResponse(c *gin.Context, status int, kind service.Kind, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Message: message, Kind: kind})
}

// handleError maps a service error to its status and kind. Internal errors
// are logged and hidden from the client.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrForbidden):
		newErrorResponse(c, http.StatusForbidden, service.KindForbidden, service.ErrUnauthorized.Error())
		return
	case errors.Is(err, auth.ErrInvalidToken):
		newErrorResponse(c, http.StatusUnauthorized, service.KindAuth, service.ErrUnauthenticated.Error())
		return
	}

	kind := service.KindOf(err)
	status, ok := errorStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	if kind == service.KindInternal {
		logrus.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(requestIDKey),
		}).Error("request failed")
		newErrorResponse(c, status, kind, "internal server error")
		return
	}
	newErrorResponse(c, status, kind, err.Error())
}

func bindError(c *gin.Context, err error) {
	newErrorResponse(c, http.StatusBadRequest, service.KindValidation, err.Error())
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		newErrorResponse(c, http.StatusBadRequest, service.KindValidation, "invalid id")
		return 0, false
	}
	return uint(id), true
}
