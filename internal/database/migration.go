package database

import (
	"errors"
	"fmt"

	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/config"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/models"
	"github.com/taha-yassine-romdhane/elite-m-dicale-store/internal/util"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Media{},
		&models.Order{},
		&models.OrderItem{},
		&models.Contact{},
		&models.Session{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedAccounts makes sure the guest account used for anonymous contact
// messages exists, and creates the first administrator when configured.
func SeedAccounts(db *gorm.DB, sec config.SecurityConfig) error {
	guestID := sec.GuestAccountID
	if guestID == "" {
		guestID = "guest"
	}

	var guest models.User
	err := db.First(&guest, "id = ?", guestID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// random password: the guest account never logs in
		pwd, err := util.RandomString(32)
		if err != nil {
			return err
		}
		hash, err := util.HashPassword(pwd, sec.BcryptCost)
		if err != nil {
			return err
		}
		guest = models.User{
			ID:           guestID,
			Nom:          "Invité",
			Email:        "invite@elite-medicale.local",
			Role:         models.RoleClient,
			PasswordHash: hash,
		}
		if err := db.Create(&guest).Error; err != nil {
			return fmt.Errorf("create guest account: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("query guest account: %w", err)
	}

	if sec.AdminEmail == "" || sec.AdminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("LOWER(email) = LOWER(?)", sec.AdminEmail).
		Count(&count).Error; err != nil {
		return fmt.Errorf("query admin account: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := util.HashPassword(sec.AdminPassword, sec.BcryptCost)
	if err != nil {
		return err
	}
	admin := models.User{
		Nom:          "Administrateur",
		Email:        sec.AdminEmail,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin account: %w", err)
	}
	return nil
}
