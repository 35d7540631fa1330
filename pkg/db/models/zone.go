package models

// Zone is a geographic operating area used to route coordinator assignments.
type Zone struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null;unique"`
}
