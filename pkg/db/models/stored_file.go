package models

import "time"

// StoredFile keeps uploaded proof documents inline in the database.
type StoredFile struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name             string    `gorm:"column:name;not null"`
	ContentType      string    `gorm:"column:content_type;not null"`
	Content          []byte    `gorm:"column:content;not null"`
	TrackingRecordID *int64    `gorm:"column:tracking_record_id"`
	OrderNumber      *string   `gorm:"column:order_number"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
}
