package handler

import (
	"net/http"
	"strings"
	"time"

	"staybook/internal/model"
	"staybook/internal/service"
	"staybook/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	ctxUserKey  = "user"
	ctxTokenKey = "access_token"
)

// AuthRequired rejects requests without a valid bearer token and stores the
// caller in the gin context.
func AuthRequired(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing authorization header"})
			return
		}

		user, err := auth.VerifyToken(c.Request.Context(), token)
		if err != nil {
			logError(c, err, http.StatusUnauthorized)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxTokenKey, strings.TrimSpace(token))
		c.Next()
	}
}

// currentUser returns the user placed by AuthRequired
func currentUser(c *gin.Context) *model.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if user, ok := v.(*model.User); ok {
			return user
		}
	}
	return nil
}

func accessToken(c *gin.Context) string {
	return c.GetString(ctxTokenKey)
}

// RequestLogger logs one line per request
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		fields := logrus.Fields{
			"method":     c.Request.Method,
			"path":       path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if user := currentUser(c); user != nil {
			fields["user_id"] = user.ID
		}
		utils.Logger.WithFields(fields).Info("HTTP request")
	}
}
