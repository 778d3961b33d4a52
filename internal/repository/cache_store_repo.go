package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/cache"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/model"
)

// cacheStoreRepo cache.Store 的 GORM 实现，持久化到 cache_entries 表
// 过期语义由缓存管理器处理，此处只做按 key 粒度的存取
type cacheStoreRepo struct {
	db *gorm.DB
}

// NewCacheStore 创建持久化缓存存储
func NewCacheStore(db *gorm.DB) cache.Store {
	return &cacheStoreRepo{db: db}
}

func (r *cacheStoreRepo) Read(ctx context.Context, key string) (*cache.Entry, error) {
	var row model.CacheEntry
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // 缺失是正常结果
		}
		return nil, err
	}
	return &cache.Entry{
		Key:       row.Key,
		Value:     row.Value,
		FetchedAt: row.FetchedAt,
		ExpiresAt: row.ExpiresAt,
	}, nil
}

func (r *cacheStoreRepo) Write(ctx context.Context, entry *cache.Entry) error {
	row := model.CacheEntry{
		Key:       entry.Key,
		Value:     entry.Value,
		FetchedAt: entry.FetchedAt,
		ExpiresAt: entry.ExpiresAt,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "fetched_at", "expires_at"}),
		}).
		Create(&row).Error
}

func (r *cacheStoreRepo) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", key).
		Delete(&model.CacheEntry{}).Error
}

func (r *cacheStoreRepo) List(ctx context.Context) ([]cache.Entry, error) {
	var rows []model.CacheEntry
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	entries := make([]cache.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, cache.Entry{
			Key:       row.Key,
			Value:     row.Value,
			FetchedAt: row.FetchedAt,
			ExpiresAt: row.ExpiresAt,
		})
	}
	return entries, nil
}
