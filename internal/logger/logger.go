package logger

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDHeader is echoed back on every response.
	RequestIDHeader = "X-Request-ID"

	contextKey = "logger"
)

// New creates a JSON logger tagged with the service name.
func New(serviceName, level string) *logrus.Entry {
	log := logrus.New()

	log.SetFormatter(&logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})
	log.SetOutput(os.Stdout)

	switch level {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "warn":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	return log.WithField("service", serviceName)
}

// Middleware attaches a request scoped entry carrying a request id and logs
// one line per completed request.
func Middleware(base *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(RequestIDHeader, requestID)

		entry := base.WithField("request_id", requestID)
		c.Set(contextKey, entry)

		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		if userID, ok := c.Get("userID"); ok {
			fields["user_id"] = userID
		}
		if len(c.Errors) > 0 {
			entry.WithFields(fields).WithField("errors", c.Errors.String()).Warn("request completed with errors")
			return
		}
		entry.WithFields(fields).Info("request completed")
	}
}

// FromContext returns the request scoped entry, falling back to base.
func FromContext(c *gin.Context, base *logrus.Entry) *logrus.Entry {
	if v, ok := c.Get(contextKey); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return base
}
