package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// schedulerSignatureHeader carries the hex HMAC-SHA256 of the raw request
// body, keyed with the shared scheduler secret.
const schedulerSignatureHeader = "X-Scheduler-Signature"

// SchedulerSignature authenticates the external scheduled trigger. The job
// endpoints carry no user identity; the only credential is the shared-secret
// signature. Any mismatch aborts with 401 before the handler runs, so a bad
// trigger has no side effects.
func SchedulerSignature(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		if secret == "" {
			logger.Error("Scheduler secret not configured, rejecting trigger")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			logger.Warn("Failed to read scheduler trigger body")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		mac := hmac.New(sha256.New, []byte(secret))
		mac.Write(body)
		expected := hex.EncodeToString(mac.Sum(nil))

		provided := c.GetHeader(schedulerSignatureHeader)
		if provided == "" || !hmac.Equal([]byte(expected), []byte(provided)) {
			logger.Warn("Scheduler signature mismatch")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		c.Next()
	}
}
