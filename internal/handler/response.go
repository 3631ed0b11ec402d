package handler

import (
	"errors"
	"net/http"

	"staybook/internal/apperror"
	"staybook/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// statusFor maps an error kind to its HTTP status. Upstream failures use
// the route's own status since routes disagree on 400 vs 500.
func statusFor(err error, upstreamStatus int) int {
	switch apperror.KindOf(err) {
	case apperror.KindInvalidInput:
		return http.StatusBadRequest
	case apperror.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperror.KindUnauthorized:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindUpstream:
		return upstreamStatus
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes {"error": message}
func respondError(c *gin.Context, err error, upstreamStatus int) {
	status := statusFor(err, upstreamStatus)
	logError(c, err, status)
	c.JSON(status, gin.H{"error": err.Error()})
}

func logError(c *gin.Context, err error, status int) {
	entry := utils.Logger.WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
		"status": status,
		"kind":   apperror.KindOf(err).String(),
	}).WithError(err)

	var appErr *apperror.Error
	if errors.As(err, &appErr) && appErr.Kind == apperror.KindUpstreamParse {
		entry = entry.WithField("raw", utils.Truncate(appErr.Raw, 500))
	}

	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}
}
