package users

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AddressInput struct {
	AddressType string
	Street      string
	City        string
	State       string
	ZipCode     string
	Country     string
	IsDefault   bool
}

func (r *Repo) ListAddresses(ctx context.Context, userID string) ([]Address, error) {
	var out []Address
	err := r.db.WithContext(ctx).
		Order("is_default DESC, updated_at DESC").
		Find(&out, "user_id = ?", userID).Error
	return out, err
}

func (r *Repo) GetAddress(ctx context.Context, userID, addressID string) (Address, error) {
	var a Address
	err := r.db.WithContext(ctx).First(&a, "id = ? AND user_id = ?", addressID, userID).Error
	return a, err
}

// CreateAddress inserts a new address. The first address of a type
// becomes the default; an explicit default unsets the previous one.
func (r *Repo) CreateAddress(ctx context.Context, userID string, in AddressInput) (Address, error) {
	now := time.Now()
	a := Address{
		ID:          uuid.NewString(),
		UserID:      userID,
		AddressType: in.AddressType,
		Street:      strings.TrimSpace(in.Street),
		City:        strings.TrimSpace(in.City),
		State:       strings.TrimSpace(in.State),
		ZipCode:     strings.TrimSpace(in.ZipCode),
		Country:     strings.TrimSpace(in.Country),
		IsDefault:   in.IsDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cnt int64
		if err := tx.Model(&Address{}).
			Where("user_id = ? AND address_type = ?", userID, in.AddressType).
			Count(&cnt).Error; err != nil {
			return err
		}
		if cnt == 0 {
			a.IsDefault = true
		} else if a.IsDefault {
			if err := tx.Model(&Address{}).
				Where("user_id = ? AND address_type = ? AND is_default = ?", userID, in.AddressType, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(&a).Error
	})
	if err != nil {
		return Address{}, err
	}
	return a, nil
}

func (r *Repo) UpdateAddress(ctx context.Context, userID, addressID string, in AddressInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a Address
		if err := tx.First(&a, "id = ? AND user_id = ?", addressID, userID).Error; err != nil {
			return err
		}
		if in.IsDefault && !a.IsDefault {
			if err := tx.Model(&Address{}).
				Where("user_id = ? AND address_type = ? AND is_default = ?", userID, in.AddressType, true).
				Update("is_default", false).Error; err != nil {
				return err
			}
		}
		return tx.Model(&Address{}).
			Where("id = ?", a.ID).
			Updates(map[string]any{
				"address_type": in.AddressType,
				"street":       strings.TrimSpace(in.Street),
				"city":         strings.TrimSpace(in.City),
				"state":        strings.TrimSpace(in.State),
				"zip_code":     strings.TrimSpace(in.ZipCode),
				"country":      strings.TrimSpace(in.Country),
				"is_default":   in.IsDefault,
				"updated_at":   time.Now(),
			}).Error
	})
}

func (r *Repo) DeleteAddress(ctx context.Context, userID, addressID string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", addressID, userID).
		Delete(&Address{}).Error
}
