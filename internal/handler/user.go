package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/middleware"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserHandler is the admin user management API.
type UserHandler struct {
	DB         *gorm.DB
	BcryptCost int
	GuestID    string
}

func NewUserHandler(db *gorm.DB, bcryptCost int, guestID string) *UserHandler {
	return &UserHandler{DB: db, BcryptCost: bcryptCost, GuestID: guestID}
}

// ListUsers returns every account except the internal guest account.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users := []models.User{}
	if err := h.DB.Where("id <> ?", h.GuestID).
		Order("created_at DESC").
		Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors du chargement des utilisateurs")
		return
	}
	util.JSON(c, http.StatusOK, users)
}

type updateUserReq struct {
	Nom       *string `json:"nom" binding:"omitempty,max=64"`
	Prenom    *string `json:"prenom" binding:"omitempty,max=64"`
	Email     *string `json:"email"`
	Telephone *string `json:"telephone" binding:"omitempty,max=32"`
	Role      *string `json:"role" binding:"omitempty,oneof=ADMIN CLIENT"`
	Password  *string `json:"password"`
}

// UpdateUser changes the fields present in the body. A new password is
// hashed before storage.
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Paramètres invalides")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", c.Param("userId")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Utilisateur introuvable")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la recherche de l'utilisateur")
		}
		return
	}

	updates := map[string]interface{}{}
	if req.Nom != nil {
		updates["nom"] = strings.TrimSpace(*req.Nom)
	}
	if req.Prenom != nil {
		updates["prenom"] = strings.TrimSpace(*req.Prenom)
	}
	if req.Telephone != nil {
		updates["telephone"] = strings.TrimSpace(*req.Telephone)
	}
	if req.Role != nil {
		if self := middleware.CurrentUser(c); self != nil && self.ID == user.ID && *req.Role != models.RoleAdmin {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Vous ne pouvez pas retirer votre propre rôle administrateur")
			return
		}
		updates["role"] = *req.Role
	}
	if req.Email != nil {
		email := util.NormalizeEmail(*req.Email)
		if err := util.ValidateEmail(email); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Adresse email invalide")
			return
		}
		var count int64
		if err := h.DB.Model(&models.User{}).
			Where("LOWER(email) = ? AND id <> ?", email, user.ID).
			Count(&count).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la recherche de l'utilisateur")
			return
		}
		if count > 0 {
			util.Error(c, http.StatusConflict, util.CodeConflict, "Cet email est déjà utilisé")
			return
		}
		updates["email"] = email
	}
	if req.Password != nil && *req.Password != "" {
		if !util.IsStrongPassword(*req.Password) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
				"Le mot de passe doit contenir 8 à 64 caractères dont une majuscule, une minuscule et un chiffre")
			return
		}
		hash, err := util.HashPassword(*req.Password, h.BcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur de chiffrement du mot de passe")
			return
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&user).Updates(updates).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la mise à jour de l'utilisateur")
			return
		}
	}
	if err := h.DB.First(&user, "id = ?", user.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la recherche de l'utilisateur")
		return
	}
	util.JSON(c, http.StatusOK, user)
}

// DeleteUser removes an account with its orders and sessions.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id := c.Param("userId")
	if id == h.GuestID {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Le compte invité ne peut pas être supprimé")
		return
	}
	if self := middleware.CurrentUser(c); self != nil && self.ID == id {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Vous ne pouvez pas supprimer votre propre compte")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		var orderIDs []string
		if err := tx.Model(&models.Order{}).Where("user_id = ?", id).Pluck("id", &orderIDs).Error; err != nil {
			return err
		}
		if len(orderIDs) > 0 {
			if err := tx.Where("order_id IN ?", orderIDs).Delete(&models.OrderItem{}).Error; err != nil {
				return err
			}
		}
		for _, m := range []interface{}{&models.Order{}, &models.Contact{}, &models.Session{}} {
			if err := tx.Where("user_id = ?", id).Delete(m).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "Utilisateur introuvable")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la suppression de l'utilisateur")
		}
		return
	}
	util.JSON(c, http.StatusOK, util.Response{"success": true})
}
