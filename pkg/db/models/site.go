package models

// Site is a physical location where ordered work is performed.
type Site struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Code   string `gorm:"column:code;not null;unique"`
	Region string `gorm:"column:region"`
	ZoneID *int64 `gorm:"column:zone_id"`
	Zone   *Zone  `gorm:"foreignKey:ZoneID"`
}
