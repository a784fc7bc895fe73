package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/mail"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ContactHandler stores contact form messages and notifies the shop.
type ContactHandler struct {
	DB      *gorm.DB
	Mailer  mail.Mailer
	GuestID string
	Logger  *slog.Logger
}

func NewContactHandler(db *gorm.DB, mailer mail.Mailer, guestID string, logger *slog.Logger) *ContactHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContactHandler{DB: db, Mailer: mailer, GuestID: guestID, Logger: logger}
}

type contactUser struct {
	ID        string `json:"id"`
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Email     string `json:"email"`
	Telephone string `json:"telephone"`
}

type contactReq struct {
	Message string      `json:"message"`
	User    contactUser `json:"user"`
	IsGuest bool        `json:"isGuest"`
}

// guestMessage prefixes the message with the guest's details, since it is
// stored against the shared guest account.
func guestMessage(u contactUser, message string) string {
	var b strings.Builder
	b.WriteString("Message d'un invité :\n")
	fmt.Fprintf(&b, "Nom : %s\n", u.Nom)
	fmt.Fprintf(&b, "Email : %s\n", u.Email)
	if u.Telephone != "" {
		fmt.Fprintf(&b, "Téléphone : %s\n", u.Telephone)
	}
	b.WriteString("\nMessage :\n")
	b.WriteString(message)
	return b.String()
}

// CreateContact saves the message. The notification mail is best effort.
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req contactReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Paramètres invalides")
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Le message est requis")
		return
	}

	contact := models.Contact{Message: req.Message}
	notice := mail.ContactMessage{
		FromEmail: req.User.Email,
		Phone:     req.User.Telephone,
		Message:   req.Message,
		Guest:     req.IsGuest,
	}

	if req.IsGuest {
		if strings.TrimSpace(req.User.Nom) == "" || util.ValidateEmail(util.NormalizeEmail(req.User.Email)) != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Nom et email valides requis")
			return
		}
		contact.UserID = h.GuestID
		contact.Message = guestMessage(req.User, req.Message)
		notice.FromName = strings.TrimSpace(req.User.Nom)
	} else {
		var user models.User
		if err := h.DB.First(&user, "id = ?", req.User.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Utilisateur introuvable")
			} else {
				util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la recherche de l'utilisateur")
			}
			return
		}
		contact.UserID = user.ID
		notice.FromName = user.FullName()
		notice.FromEmail = user.Email
		if notice.Phone == "" {
			notice.Phone = user.Telephone
		}
	}

	if err := h.DB.Create(&contact).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Une erreur est survenue lors de l'envoi du message")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()
	if err := h.Mailer.SendContact(ctx, notice); err != nil {
		h.Logger.Error("contact mail failed", "error", err, "contact_id", contact.ID)
	}

	util.JSON(c, http.StatusOK, util.Response{"success": true, "contact": contact})
}
