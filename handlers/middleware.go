package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	RequestIDHeader = "X-Request-ID"
	loggerKey       = "logger"
)

// RequestLogger tags every request with an id, stores a request-scoped log
// entry in the gin context and logs the outcome once the handler returns.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.New().String()
		}
		c.Header(RequestIDHeader, requestID)

		entry := log.WithField("request_id", requestID)
		c.Set(loggerKey, entry)

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			entry.WithFields(fields).Warn("request failed")
			return
		}
		entry.WithFields(fields).Info("request handled")
	}
}

// Logger returns the request-scoped entry set by RequestLogger, falling back
// to the standard logger for contexts that skipped the middleware.
func Logger(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(loggerKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

// RenderError writes the error page. Server errors are logged in full but the
// client only sees a generic message.
func RenderError(c *gin.Context, status int, title string, err error) {
	message := err.Error()
	if status >= http.StatusInternalServerError {
		Logger(c).WithError(err).Error(title)
		message = "Something went wrong. Please try again later."
	} else {
		Logger(c).WithError(err).Debug(title)
	}

	c.HTML(status, "error.html", gin.H{
		"title":   title,
		"message": message,
	})
}
