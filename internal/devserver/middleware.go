package devserver

import (
	"log/slog"
	"strings"
	"time"

	appErrors "github.com/aaravmahajanofficial/teagram/internal/errors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	loggerKey = "logger"
	userIDKey = "userID"
)

// RequestLogger attaches a request-scoped logger carrying the correlation id
// and logs each request on the way in and out.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {

		start := time.Now()

		// Correlation ID
		correlationID := c.GetHeader("X-Request-ID")
		if correlationID == "" {
			correlationID = uuid.NewString()
		}

		c.Header("X-Request-ID", correlationID)

		requestLogger := logger.With(
			slog.String("correlation_id", correlationID),
			slog.String("http_method", c.Request.Method),
			slog.String("http_path", c.Request.URL.Path),
			slog.String("remote_addr", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		requestLogger.Info("Incoming request")

		c.Set(loggerKey, requestLogger)

		c.Next()

		requestLogger.Info("Request Completed", slog.Int("http_status", c.Writer.Status()), slog.Duration("duration", time.Since(start)))
	}
}

func loggerFrom(c *gin.Context) *slog.Logger {
	if value, exists := c.Get(loggerKey); exists {
		if logger, ok := value.(*slog.Logger); ok {
			return logger
		}
	}

	return slog.Default()
}

// authenticate requires a valid bearer access token and stores its subject
// on the context.
func authenticate(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			writeError(c, appErrors.UnauthorizedError("Missing authorization header"))
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeError(c, appErrors.UnauthorizedError("Invalid authorization header format"))
			return
		}

		userID, err := tokens.Verify(parts[1])
		if err != nil {
			loggerFrom(c).Warn("Rejected access token", slog.String("error", err.Error()))
			writeError(c, appErrors.UnauthorizedError("Invalid or expired token"))
			return
		}

		c.Set(userIDKey, userID)

		c.Next()
	}
}
