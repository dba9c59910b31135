package localstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sattrack/backend/internal/domain/shared"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// kvEntry is the GORM model for one key of the namespace
type kvEntry struct {
	Key   string `gorm:"primaryKey;column:key;type:varchar(200)"`
	Value string `gorm:"column:value;type:text"`
}

// TableName returns the table name for GORM
func (kvEntry) TableName() string {
	return "kv_entries"
}

// GormKV is a KeyValueStore backed by a SQLite database through GORM.
type GormKV struct {
	db         *gorm.DB
	quotaBytes int
}

// OpenGormKV opens (or creates) the SQLite database at path and migrates
// the key-value table. quotaBytes <= 0 disables the quota.
func OpenGormKV(path string, quotaBytes int) (*GormKV, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate local store: %w", err)
	}
	return &GormKV{db: db, quotaBytes: quotaBytes}, nil
}

// Get returns the value for key
func (g *GormKV) Get(key string) (string, bool, error) {
	var entry kvEntry
	err := g.db.First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return entry.Value, true, nil
}

// Set stores value under key, enforcing the quota
func (g *GormKV) Set(key, value string) error {
	if g.quotaBytes > 0 && len(value) > g.quotaBytes {
		return fmt.Errorf("%w: value of %d bytes exceeds quota of %d bytes", shared.ErrStorageQuota, len(value), g.quotaBytes)
	}
	err := g.db.Save(&kvEntry{Key: key, Value: value}).Error
	if err != nil && isDiskFull(err) {
		return fmt.Errorf("%w: %v", shared.ErrStorageQuota, err)
	}
	return err
}

// Delete removes key
func (g *GormKV) Delete(key string) error {
	return g.db.Delete(&kvEntry{}, "key = ?", key).Error
}

// Close closes the underlying database connection
func (g *GormKV) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// isDiskFull reports whether a SQLite error indicates exhausted storage.
func isDiskFull(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database or disk is full") || strings.Contains(msg, "disk i/o error")
}
