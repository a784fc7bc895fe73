package revocation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"

	"gorm.io/gorm"
)

// DBStore keeps sessions in the sessions table.
type DBStore struct {
	db *gorm.DB
}

func NewDBStore(db *gorm.DB) *DBStore {
	return &DBStore{db: db}
}

func (s *DBStore) Issue(ctx context.Context, sessionID, userID string, expiresAt time.Time) error {
	sess := models.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	if err := s.db.WithContext(ctx).Create(&sess).Error; err != nil {
		return fmt.Errorf("issue session: %w", err)
	}
	return nil
}

func (s *DBStore) Revoke(ctx context.Context, sessionID string, _ time.Time) error {
	err := s.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", sessionID).
		Update("revoked", true).Error
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *DBStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	var sess models.Session
	err := s.db.WithContext(ctx).First(&sess, "id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("load session: %w", err)
	}
	return sess.Revoked || time.Now().After(sess.ExpiresAt), nil
}

// Purge deletes sessions that expired before now.
func (s *DBStore) Purge(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
