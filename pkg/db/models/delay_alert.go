package models

import (
	"time"

	"github.com/Ali-desu/Samsic-projet-stage/pkg/enums"
)

// DelayAlert marks that a delay sweep already notified for a tracking
// record. The unique index keeps each sweep to one alert per record.
type DelayAlert struct {
	ID               int64           `gorm:"column:id;primaryKey;autoIncrement"`
	TrackingRecordID int64           `gorm:"column:tracking_record_id;not null;uniqueIndex:uq_delay_alert_record_kind"`
	Kind             enums.AlertKind `gorm:"column:kind;type:text;not null;uniqueIndex:uq_delay_alert_record_kind"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
}
