package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// activationLockID keys the transaction-scoped advisory lock that orders
// concurrent activations.
const activationLockID = 7_100_001

var (
	ErrEventNotFound = errors.New("event not found")
	ErrNoActiveEvent = errors.New("no active event")
	ErrEventRetired  = errors.New("event is retired")
)

type Event struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"not null"`
	Active        bool   `gorm:"not null;default:false"`
	AllowFeedback bool   `gorm:"not null;default:false"`
	AllowVoting   bool   `gorm:"not null;default:false"`
	RetiredAt     *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Event{}, err
	}
	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event
	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, result.Error
	}
	return event, nil
}

func (d *EventDAO) FindByName(ctx context.Context, name string) (Event, error) {
	var event Event
	result := d.db.WithContext(ctx).Where("name = ?", name).Order("id").Take(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}
		return Event{}, result.Error
	}
	return event, nil
}

func (d *EventDAO) FindActive(ctx context.Context) (Event, error) {
	var event Event
	result := d.db.WithContext(ctx).Where("active = ?", true).Take(&event)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrNoActiveEvent
		}
		return Event{}, result.Error
	}
	return event, nil
}

// Activate makes id the only active event. Both updates commit together, so
// no reader sees zero or two active events.
func (d *EventDAO) Activate(ctx context.Context, id uint) (Event, error) {
	var event Event

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(?)", activationLockID).Error; err != nil {
			return err
		}

		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&event, id)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrRecordNotFound) {
				return ErrEventNotFound
			}
			return result.Error
		}
		if event.RetiredAt != nil {
			return ErrEventRetired
		}

		if err := tx.Model(&Event{}).Where("active = ? AND id <> ?", true, id).Update("active", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&event).Update("active", true).Error; err != nil {
			return err
		}
		event.Active = true

		return nil
	})
	if err != nil {
		return Event{}, err
	}

	return event, nil
}
