package mysql

import "time"

// model
type KVRecord struct {
	ID        string    `gorm:"column:id;type:varchar(191);primaryKey;not null;comment:record key" json:"id"`
	Payload   []byte    `gorm:"column:payload;type:mediumblob;not null;comment:json snapshot" json:"payload"`
	Version   uint64    `gorm:"column:version;type:bigint UNSIGNED;not null;default:1;comment:write version" json:"version"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamp;not null;autoUpdateTime" json:"updated_at"`
}

func (r *KVRecord) TableName() string {
	return "grove_kv"
}
