package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrStallNotFound = errors.New("stall not found")

type Stall struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	Description   string
	EventID       uint  `gorm:"not null;index"`
	Event         Event `gorm:"foreignKey:EventID;constraint:OnDelete:RESTRICT"`
	Token         string
	TokenIssuedAt *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type StallDAO struct {
	db *gorm.DB
}

func NewStallDAO(db *gorm.DB) *StallDAO {
	return &StallDAO{
		db: db,
	}
}

func (d *StallDAO) Insert(ctx context.Context, stall Stall) (Stall, error) {
	if err := d.db.WithContext(ctx).Omit("Event").Create(&stall).Error; err != nil {
		return Stall{}, err
	}
	return stall, nil
}

func (d *StallDAO) FindByID(ctx context.Context, id uint) (Stall, error) {
	var stall Stall
	result := d.db.WithContext(ctx).First(&stall, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Stall{}, ErrStallNotFound
		}
		return Stall{}, result.Error
	}
	return stall, nil
}

func (d *StallDAO) FindByEventAndName(ctx context.Context, eventID uint, name string) (Stall, error) {
	var stall Stall
	result := d.db.WithContext(ctx).Where("event_id = ? AND name = ?", eventID, name).Order("id").Take(&stall)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Stall{}, ErrStallNotFound
		}
		return Stall{}, result.Error
	}
	return stall, nil
}

func (d *StallDAO) UpdateToken(ctx context.Context, id uint, token string, issuedAt time.Time) error {
	result := d.db.WithContext(ctx).Model(&Stall{}).Where("id = ?", id).Updates(map[string]interface{}{
		"token":           token,
		"token_issued_at": issuedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStallNotFound
	}
	return nil
}
