package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler lists the dashboard audit trail.
type LogHandler struct {
	DB         *gorm.DB
	EncryptKey string
}

func NewLogHandler(db *gorm.DB, encryptKey string) *LogHandler {
	return &LogHandler{DB: db, EncryptKey: encryptKey}
}

type logResp struct {
	ID        uint      `json:"id"`
	UserID    string    `json:"userId"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Action    string    `json:"action"`
	Status    int       `json:"status"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListLogs pages through audit entries, newest first. Filters: userId,
// method, start and end (YYYY-MM-DD, end inclusive).
func (h *LogHandler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}

	base := h.DB.Model(&models.AuditLog{})
	if userID := c.Query("userId"); userID != "" {
		base = base.Where("user_id = ?", userID)
	}
	if method := strings.ToUpper(c.Query("method")); method != "" {
		base = base.Where("method = ?", method)
	}
	if s := c.Query("start"); s != "" {
		start, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Date de début invalide (AAAA-MM-JJ)")
			return
		}
		base = base.Where("created_at >= ?", start)
	}
	if s := c.Query("end"); s != "" {
		end, err := time.ParseInLocation("2006-01-02", s, time.Local)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Date de fin invalide (AAAA-MM-JJ)")
			return
		}
		base = base.Where("created_at < ?", end.Add(24*time.Hour))
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement du journal")
		return
	}

	var logs []models.AuditLog
	if err := base.
		Order("created_at DESC, id DESC").
		Limit(size).
		Offset((page - 1) * size).
		Find(&logs).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement du journal")
		return
	}

	items := make([]logResp, 0, len(logs))
	for i := range logs {
		l := &logs[i]
		item := logResp{
			ID:        l.ID,
			Method:    l.Method,
			Path:      util.DecryptField(h.EncryptKey, l.PathEnc),
			Action:    util.DecryptField(h.EncryptKey, l.ActionEnc),
			Status:    l.Status,
			IP:        l.IP,
			UserAgent: l.UserAgent,
			CreatedAt: l.CreatedAt,
		}
		if l.UserID != nil {
			item.UserID = *l.UserID
		}
		items = append(items, item)
	}

	util.JSON(c, http.StatusOK, util.Response{
		"items": items,
		"total": total,
		"page":  page,
		"size":  size,
	})
}
