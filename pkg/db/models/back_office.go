package models

// BackOffice is the procurement-desk profile that owns purchase orders.
type BackOffice struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID int64 `gorm:"column:user_id;not null;unique"`
	User   *User `gorm:"foreignKey:UserID"`
}
