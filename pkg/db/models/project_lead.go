package models

// ProjectLead is the project-management profile notified on reception delays.
type ProjectLead struct {
	ID     int64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID int64 `gorm:"column:user_id;not null;unique"`
	User   *User `gorm:"foreignKey:UserID"`
}
