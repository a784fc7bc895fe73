package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/config"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/database"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Init(config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.AutoMigrate(db))
	return db
}

func patchUser(h *UserHandler, id, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.PATCH("/users/:userId", h.UpdateUser)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/users/"+id, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestUpdateUser_EmailTaken(t *testing.T) {
	db := setupTestDB(t)
	a := models.User{Email: "a@example.com", PasswordHash: "x"}
	b := models.User{Email: "b@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&a).Error)
	require.NoError(t, db.Create(&b).Error)

	w := patchUser(NewUserHandler(db, 4, "guest"), a.ID, `{"email":"B@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestUpdateUser_EmailCheckFailureKeepsEmail(t *testing.T) {
	db := setupTestDB(t)
	u := models.User{Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, db.Create(&u).Error)

	// fail every COUNT query; the user lookup still works
	require.NoError(t, db.Callback().Query().Before("gorm:query").Register("test:fail_count", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*int64); ok {
			_ = tx.AddError(errors.New("database is locked"))
		}
	}))

	w := patchUser(NewUserHandler(db, 4, "guest"), u.ID, `{"email":"new@example.com"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	require.NoError(t, db.Callback().Query().Remove("test:fail_count"))
	var got models.User
	require.NoError(t, db.First(&got, "id = ?", u.ID).Error)
	assert.Equal(t, "a@example.com", got.Email)
}
