package dao

import "gorm.io/gorm"

func InitTables(db *gorm.DB) error {
	return db.AutoMigrate(
		&Ride{},
		&RideMembership{},
		&Event{},
		&Team{},
		&TeamOrganizer{},
		&Ticket{},
		&DiscountBadge{},
	)
}
