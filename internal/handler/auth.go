package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/middleware"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/revocation"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuthHandler serves login, registration and session checks.
type AuthHandler struct {
	DB       *gorm.DB
	Sessions revocation.Store
	Metrics  *middleware.Metrics
	Logger   *slog.Logger

	JWTSecret       string
	Issuer          string
	TokenTTL        time.Duration
	BcryptCost      int
	MaxFailedLogins int
	LockDuration    time.Duration
}

type AuthOptions struct {
	JWTSecret       string
	Issuer          string
	TTLHours        int
	BcryptCost      int
	MaxFailedLogins int
	LockMinutes     int
}

func NewAuthHandler(db *gorm.DB, sessions revocation.Store, opts AuthOptions, metrics *middleware.Metrics, logger *slog.Logger) *AuthHandler {
	if opts.TTLHours <= 0 {
		opts.TTLHours = 24
	}
	if opts.MaxFailedLogins <= 0 {
		opts.MaxFailedLogins = 5
	}
	if opts.LockMinutes <= 0 {
		opts.LockMinutes = 10
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		DB:              db,
		Sessions:        sessions,
		Metrics:         metrics,
		Logger:          logger,
		JWTSecret:       opts.JWTSecret,
		Issuer:          opts.Issuer,
		TokenTTL:        time.Duration(opts.TTLHours) * time.Hour,
		BcryptCost:      opts.BcryptCost,
		MaxFailedLogins: opts.MaxFailedLogins,
		LockDuration:    time.Duration(opts.LockMinutes) * time.Minute,
	}
}

// ---------- register ----------

type registerReq struct {
	Nom       string `json:"nom" binding:"required,max=64"`
	Prenom    string `json:"prenom" binding:"max=64"`
	Email     string `json:"email" binding:"required"`
	Telephone string `json:"telephone" binding:"max=32"`
	Password  string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Paramètres invalides")
		return
	}

	email := util.NormalizeEmail(req.Email)
	if err := util.ValidateEmail(email); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Adresse email invalide")
		return
	}
	if !util.IsStrongPassword(req.Password) {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam,
			"Le mot de passe doit contenir 8 à 64 caractères dont une majuscule, une minuscule et un chiffre")
		return
	}

	var count int64
	if err := h.DB.Model(&models.User{}).
		Where("LOWER(email) = ?", email).
		Count(&count).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la recherche de l'utilisateur")
		return
	}
	if count > 0 {
		util.Error(c, http.StatusConflict, util.CodeConflict, "Cet email est déjà utilisé")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur de chiffrement du mot de passe")
		return
	}

	user := models.User{
		Nom:          strings.TrimSpace(req.Nom),
		Prenom:       strings.TrimSpace(req.Prenom),
		Email:        email,
		Telephone:    strings.TrimSpace(req.Telephone),
		Role:         models.RoleClient,
		PasswordHash: hash,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la création du compte")
		return
	}

	util.JSON(c, http.StatusCreated, util.Response{"user": user})
}

// ---------- login ----------

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

const invalidCredentials = "Email ou mot de passe incorrect"

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "Email et mot de passe requis")
		return
	}

	var user models.User
	err := h.DB.Where("LOWER(email) = ?", util.NormalizeEmail(req.Email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.Metrics.Login("failure")
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, invalidCredentials)
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la recherche de l'utilisateur")
		}
		return
	}

	now := time.Now()
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		h.Metrics.Login("locked")
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Compte temporairement verrouillé, réessayez plus tard")
		return
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		// lock after MaxFailedLogins consecutive failures
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= h.MaxFailedLogins {
			lockUntil := now.Add(h.LockDuration)
			user.LockedUntil = &lockUntil
			user.FailedLoginAttempts = 0
			h.Logger.Warn("account locked", "user_id", user.ID, "until", lockUntil)
		}
		_ = h.DB.Save(&user).Error
		h.Metrics.Login("failure")
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, invalidCredentials)
		return
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLoginIP = c.ClientIP()
	user.LastLoginAt = &now
	_ = h.DB.Save(&user).Error

	sessionID := uuid.NewString()
	token, expiresAt, err := util.GenerateToken(h.JWTSecret, util.TokenSpec{
		UserID:    user.ID,
		Role:      user.Role,
		SessionID: sessionID,
		Issuer:    h.Issuer,
		TTL:       h.TokenTTL,
	})
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la génération du token")
		return
	}
	if err := h.Sessions.Issue(c.Request.Context(), sessionID, user.ID, expiresAt); err != nil {
		h.Logger.Error("issue session", "error", err, "user_id", user.ID)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la création de la session")
		return
	}

	h.Metrics.Login("success")
	util.JSON(c, http.StatusOK, util.Response{
		"token": token,
		"user":  user,
	})
}

// ---------- verify ----------

// claimedUser is the identity the client says the token belongs to.
type claimedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Verify reports whether the bearer token is still valid. When the
// Authorization-User header is sent, the user it describes must be the
// token's owner.
func (h *AuthHandler) Verify(c *gin.Context) {
	reject := func(msg string) {
		c.JSON(http.StatusUnauthorized, gin.H{"valid": false, "message": msg})
	}

	tokenStr := middleware.BearerToken(c)
	if tokenStr == "" {
		reject("Token manquant")
		return
	}
	claims, err := util.ParseToken(h.JWTSecret, tokenStr)
	if err != nil {
		reject("Token invalide")
		return
	}
	if claims.ID != "" {
		revoked, err := h.Sessions.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur de vérification de session")
			return
		}
		if revoked {
			reject("Session expirée")
			return
		}
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", claims.UserID).Error; err != nil {
		reject("Utilisateur introuvable")
		return
	}

	if header := c.GetHeader("Authorization-User"); header != "" {
		raw, err := url.PathUnescape(header)
		if err != nil {
			reject("En-tête utilisateur invalide")
			return
		}
		var claimed claimedUser
		if err := json.Unmarshal([]byte(raw), &claimed); err != nil {
			reject("En-tête utilisateur invalide")
			return
		}
		if claimed.ID != user.ID || !strings.EqualFold(claimed.Email, user.Email) {
			reject("Utilisateur non correspondant")
			return
		}
	}

	util.JSON(c, http.StatusOK, util.Response{"valid": true, "user": user})
}

// ---------- logout / me ----------

// Logout revokes the session of the presented token.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil || claims.ID == "" {
		util.JSON(c, http.StatusOK, util.Response{"message": "Déconnecté"})
		return
	}
	expiresAt := time.Now().Add(h.TokenTTL)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.Sessions.Revoke(c.Request.Context(), claims.ID, expiresAt); err != nil {
		h.Logger.Error("revoke session", "error", err, "session_id", claims.ID)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la déconnexion")
		return
	}
	util.JSON(c, http.StatusOK, util.Response{"message": "Déconnecté"})
}

// GetMe returns the authenticated user.
func GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "Non authentifié")
		return
	}
	util.JSON(c, http.StatusOK, util.Response{"user": user})
}
