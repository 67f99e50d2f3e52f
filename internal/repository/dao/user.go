package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserEmailExists   = errors.New("user already exists")
	ErrUserNotFound      = errors.New("user not found")
	ErrVolunteerNotFound = errors.New("volunteer not found")
)

type User struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Role   string `gorm:"not null"` // "student", "admin" or "stall_owner"
	Name   string `gorm:"not null"`
	Active bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type Volunteer struct {
	ID uint `gorm:"primaryKey"`

	Email    string `gorm:"unique;not null"`
	Password string `gorm:"not null"`

	Name   string `gorm:"not null"`
	Active bool   `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{
		db: db,
	}
}

func (d *UserDAO) Insert(ctx context.Context, user User) (User, error) {
	result := d.db.WithContext(ctx).Create(&user)
	if result.Error != nil {
		if isUniqueViolation(result.Error, `unique constraint "uni_users_email"`) {
			return User{}, ErrUserEmailExists
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) InsertVolunteer(ctx context.Context, volunteer Volunteer) (Volunteer, error) {
	result := d.db.WithContext(ctx).Create(&volunteer)
	if result.Error != nil {
		if isUniqueViolation(result.Error, `unique constraint "uni_volunteers_email"`) {
			return Volunteer{}, ErrUserEmailExists
		}

		return Volunteer{}, result.Error
	}

	return volunteer, nil
}

func (d *UserDAO) FindByID(ctx context.Context, id uint) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User

	result := d.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return User{}, ErrUserNotFound
		}

		return User{}, result.Error
	}

	return user, nil
}

func (d *UserDAO) FindVolunteerByID(ctx context.Context, id uint) (Volunteer, error) {
	var volunteer Volunteer

	result := d.db.WithContext(ctx).First(&volunteer, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Volunteer{}, ErrVolunteerNotFound
		}

		return Volunteer{}, result.Error
	}

	return volunteer, nil
}

func (d *UserDAO) FindVolunteerByEmail(ctx context.Context, email string) (Volunteer, error) {
	var volunteer Volunteer

	result := d.db.WithContext(ctx).First(&volunteer, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Volunteer{}, ErrVolunteerNotFound
		}

		return Volunteer{}, result.Error
	}

	return volunteer, nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		strings.Contains(pgErr.Message, constraint)
}
