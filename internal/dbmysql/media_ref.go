package dbmysql

import (
	"time"
)

// MediaRef records that a content entry references a media asset. The sweep
// job uses it to find assets no entry points at anymore. Ingestion itself
// never touches this table.
type MediaRef struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AssetHash  string    `gorm:"size:20;uniqueIndex:idx_asset_entry;index" json:"asset_hash"`
	EntryID    string    `gorm:"size:64;uniqueIndex:idx_asset_entry" json:"entry_id"`
	Collection string    `gorm:"size:100" json:"collection"`
	CreatedAt  time.Time `json:"created_at"`
}

func (MediaRef) TableName() string {
	return "media_refs"
}
