package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrAttendanceNotFound = errors.New("attendance record not found")

// AttendanceRecord rows are only ever inserted. The scanning actor is a
// tagged reference (kind + id) checked before insert, since it points at
// one of two tables.
type AttendanceRecord struct {
	ID            uint      `gorm:"primaryKey"`
	EventID       uint      `gorm:"not null;index:idx_attendance_event_student_scan,priority:1"`
	Event         Event     `gorm:"foreignKey:EventID;constraint:OnDelete:RESTRICT"`
	StudentID     uint      `gorm:"not null;index:idx_attendance_event_student_scan,priority:2"`
	Student       User      `gorm:"foreignKey:StudentID;constraint:OnDelete:RESTRICT"`
	Status        string    `gorm:"not null;check:chk_attendance_status,status IN ('checked-in','checked-out')"`
	CheckInAt     time.Time `gorm:"not null"`
	CheckOutAt    *time.Time
	ScannedAt     time.Time `gorm:"not null;index:idx_attendance_event_student_scan,priority:3"`
	ScannedByID   uint      `gorm:"not null"`
	ScannedByKind string    `gorm:"not null;check:chk_attendance_actor_kind,scanned_by_kind IN ('volunteer','user')"`
	CreatedAt     time.Time
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

func (d *AttendanceDAO) Insert(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error) {
	if err := d.db.WithContext(ctx).Omit("Event", "Student").Create(&record).Error; err != nil {
		return AttendanceRecord{}, err
	}
	return record, nil
}

func (d *AttendanceDAO) FindLatest(ctx context.Context, eventID, studentID uint) (AttendanceRecord, error) {
	var record AttendanceRecord
	result := d.db.WithContext(ctx).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Order("scanned_at DESC").Order("id DESC").
		Take(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return AttendanceRecord{}, ErrAttendanceNotFound
		}
		return AttendanceRecord{}, result.Error
	}
	return record, nil
}

func (d *AttendanceDAO) FindHistory(ctx context.Context, eventID, studentID uint) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	result := d.db.WithContext(ctx).
		Where("event_id = ? AND student_id = ?", eventID, studentID).
		Order("scanned_at ASC").Order("id ASC").
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

func (d *AttendanceDAO) CountByStatus(ctx context.Context, eventID, studentID uint, status string) (int64, error) {
	var count int64
	result := d.db.WithContext(ctx).Model(&AttendanceRecord{}).
		Where("event_id = ? AND student_id = ? AND status = ?", eventID, studentID, status).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}
