package handler

import (
	"net/http"
	"strings"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/middleware"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateProfileReq changes the current user's contact details.
type UpdateProfileReq struct {
	Nom       string `json:"nom" binding:"required,max=64"`
	Prenom    string `json:"prenom" binding:"max=64"`
	Telephone string `json:"telephone" binding:"max=32"`
}

// ChangePasswordReq changes the current user's password.
type ChangePasswordReq struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// UpdateProfile updates nom, prenom and telephone of the current user.
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Non authentifié")
			return
		}

		var req UpdateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Paramètres invalides")
			return
		}

		updates := map[string]interface{}{
			"nom":       strings.TrimSpace(req.Nom),
			"prenom":    strings.TrimSpace(req.Prenom),
			"telephone": strings.TrimSpace(req.Telephone),
		}
		if err := db.Model(user).Updates(updates).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la mise à jour du profil")
			return
		}
		util.JSON(c, http.StatusOK, util.Response{"user": user})
	}
}

// ChangePassword checks the old password, stores the new one and resets the
// lockout counters.
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Non authentifié")
			return
		}

		var req ChangePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Paramètres invalides")
			return
		}
		if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Ancien mot de passe incorrect")
			return
		}
		if !util.IsStrongPassword(req.NewPassword) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
				"Le mot de passe doit contenir 8 à 64 caractères dont une majuscule, une minuscule et un chiffre")
			return
		}
		if req.NewPassword == req.OldPassword {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Le nouveau mot de passe doit être différent de l'ancien")
			return
		}

		hash, err := util.HashPassword(req.NewPassword, bcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur de chiffrement du mot de passe")
			return
		}
		if err := db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
			"password_hash":         hash,
			"failed_login_attempts": 0,
			"locked_until":          nil,
		}).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la mise à jour du mot de passe")
			return
		}
		util.JSON(c, http.StatusOK, util.Response{"message": "Mot de passe modifié"})
	}
}
