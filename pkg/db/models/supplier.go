package models

// Supplier is an external vendor referenced by name on tracking records.
type Supplier struct {
	ID   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;not null"`
}
