package models

// Family groups catalog services for reporting and dashboard rollups.
type Family struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;unique"`
}
