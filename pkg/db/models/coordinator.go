package models

// Coordinator is the field profile assigned to tracking records by zone.
type Coordinator struct {
	ID     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	UserID int64  `gorm:"column:user_id;not null;unique"`
	User   *User  `gorm:"foreignKey:UserID"`
	ZoneID *int64 `gorm:"column:zone_id"`
	Zone   *Zone  `gorm:"foreignKey:ZoneID"`
}
