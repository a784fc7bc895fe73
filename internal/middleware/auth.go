package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/revocation"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Context keys set by AuthMiddleware.
const (
	CurrentUserKey = "currentUser"
	ClaimsKey      = "claims"
)

// BearerToken extracts the token from "Authorization: Bearer xxx".
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthMiddleware checks the bearer token and its server-side session, and
// puts the user in the context. ?token= is accepted for file downloads.
func AuthMiddleware(jwtSecret string, db *gorm.DB, sessions revocation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := BearerToken(c)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			util.Abort(c, http.StatusUnauthorized, util.CodeAuth, "Non authentifié")
			return
		}

		claims, err := util.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			util.Abort(c, http.StatusUnauthorized, util.CodeAuth, "Session expirée, veuillez vous reconnecter")
			return
		}

		if claims.ID != "" {
			revoked, err := sessions.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				util.Abort(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur de vérification de session")
				return
			}
			if revoked {
				util.Abort(c, http.StatusUnauthorized, util.CodeAuth, "Session expirée, veuillez vous reconnecter")
				return
			}
		}

		var user models.User
		if err := db.First(&user, "id = ?", claims.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				util.Abort(c, http.StatusUnauthorized, util.CodeAuth, "Utilisateur introuvable")
			} else {
				util.Abort(c, http.StatusInternalServerError, util.CodeServerErr, "Erreur lors de la recherche de l'utilisateur")
			}
			return
		}

		c.Set(CurrentUserKey, &user)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// RequireAdmin rejects users without the ADMIN role. It must run after
// AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			util.Abort(c, http.StatusUnauthorized, util.CodeAuth, "Non authentifié")
			return
		}
		if !user.IsAdmin() {
			util.Abort(c, http.StatusForbidden, util.CodeForbidden, "Accès réservé aux administrateurs")
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// CurrentClaims returns the parsed token claims, or nil.
func CurrentClaims(c *gin.Context) *util.Claims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*util.Claims)
	return claims
}
