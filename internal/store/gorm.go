package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Record is one named collection stored as a JSON payload.
type Record struct {
	Key       string `gorm:"column:record_key;primaryKey;size:64"`
	Payload   []byte `gorm:"not null"`
	UpdatedAt time.Time
}

// TableName pins the table name.
func (Record) TableName() string {
	return "records"
}

// GormBackend stores records in a single SQL table through GORM.
// It works with any GORM dialect; production uses MySQL.
type GormBackend struct {
	db *gorm.DB
}

var _ Backend = (*GormBackend)(nil)

// NewGormBackend creates a backend over db. Call Migrate before use.
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

// Migrate creates the records table.
func (b *GormBackend) Migrate(ctx context.Context) error {
	if err := b.db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		return fmt.Errorf("auto-migrate records: %w", err)
	}
	return nil
}

func (b *GormBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var rec Record
	err := b.db.WithContext(ctx).Where("record_key = ?", key).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec.Payload, nil
}

// Put upserts the record; ttl is ignored because SQL rows do not expire.
func (b *GormBackend) Put(ctx context.Context, key string, value []byte, _ time.Duration) error {
	rec := Record{Key: key, Payload: value, UpdatedAt: time.Now()}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "record_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&rec).Error
}

func (b *GormBackend) Delete(ctx context.Context, key string) error {
	return b.db.WithContext(ctx).Where("record_key = ?", key).Delete(&Record{}).Error
}
