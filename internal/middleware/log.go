package middleware

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// maxAuditBody bounds how much of a request body goes into an audit action.
const maxAuditBody = 2000

// AuditMiddleware records dashboard operations of authenticated users.
// Path and action are encrypted with encryptKey before storage.
func AuditMiddleware(db *gorm.DB, encryptKey string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var bodyBytes []byte
		if c.Request.Body != nil {
			bodyBytes, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))
		}

		c.Next()

		user := CurrentUser(c)
		if user == nil {
			return
		}

		path := c.Request.URL.Path
		action := c.Request.Method + " " + path
		if len(bodyBytes) > 0 && len(bodyBytes) < maxAuditBody && !bytes.Contains(bodyBytes, []byte(`"password"`)) {
			action += " " + string(bodyBytes)
		}

		encPath, err := util.EncryptField(encryptKey, path)
		if err != nil {
			logger.Error("encrypt audit path", "error", err)
			return
		}
		encAction, err := util.EncryptField(encryptKey, action)
		if err != nil {
			logger.Error("encrypt audit action", "error", err)
			return
		}

		userID := user.ID
		entry := models.AuditLog{
			UserID:    &userID,
			PathEnc:   encPath,
			Method:    c.Request.Method,
			ActionEnc: encAction,
			Status:    c.Writer.Status(),
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		}
		if err := db.Create(&entry).Error; err != nil {
			logger.Error("write audit log", "error", err, "user_id", userID)
		}
	}
}
