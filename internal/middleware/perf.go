package middleware

import (
	"strconv" // Duration formatting
	"time"    // Request timing

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// timedWriter injects the Performance header just before the response status
// is written; headers cannot be added once the body has started.
type timedWriter struct {
	gin.ResponseWriter           // Underlying writer
	start              time.Time // Request start time
}

// WriteHeader sets the Performance header, then delegates
func (w *timedWriter) WriteHeader(code int) {
	w.Header().Set("Performance", strconv.FormatFloat(time.Since(w.start).Seconds(), 'f', -1, 64))
	w.ResponseWriter.WriteHeader(code)
}

// PerformanceMiddleware stamps each response with its handling duration and
// writes an access log line
func PerformanceMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Writer = &timedWriter{ResponseWriter: c.Writer, start: start} // Wrap the writer
		c.Next()                                                       // Run the handler chain
		// Log the completed request
		logrus.WithFields(logrus.Fields{
			"method":   c.Request.Method,              // HTTP method
			"path":     c.Request.URL.Path,            // Request path
			"status":   c.Writer.Status(),             // Response status
			"duration": time.Since(start).String(),    // Handling duration
			"client":   c.ClientIP(),                  // Caller address
		}).Info("Request handled")
	}
}
