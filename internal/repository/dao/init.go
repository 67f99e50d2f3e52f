package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	err := db.AutoMigrate(
		&User{},
		&Volunteer{},
		&Event{},
		&Stall{},
		&AttendanceRecord{},
		&Feedback{},
		&Vote{},
	)
	if err != nil {
		return err
	}

	// Backstop for the registry: the database refuses a second active event.
	return db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS ux_events_single_active ON events (active) WHERE active").Error
}
