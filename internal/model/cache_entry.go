package model

import "time"

// CacheEntry 离线缓存持久化表 — 对应 cache_entries
// 该表由缓存管理器独占读写，不参与业务审计字段体系
type CacheEntry struct {
	Key       string    `gorm:"type:varchar(256);primaryKey" json:"key"`
	Value     []byte    `gorm:"type:bytea;not null"          json:"value"`
	FetchedAt time.Time `gorm:"not null"                     json:"fetched_at"`
	ExpiresAt time.Time `gorm:"not null;index"               json:"expires_at"`
}

// TableName 指定表名
func (CacheEntry) TableName() string { return "cache_entries" }
