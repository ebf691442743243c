package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/rmontanez/shopfront/pkg/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

type blobRecord struct {
	Key   string `gorm:"primaryKey;column:key"`
	Value string `gorm:"not null;column:value"`
}

func (blobRecord) TableName() string {
	return "blobs"
}

// SQLiteStore keeps blobs in a single-file sqlite database, one row per key.
type SQLiteStore struct {
	conn *gorm.DB
	logg *logger.Logger
}

// OpenSQLite boots the blob store at the given path. ":memory:" is accepted
// for ephemeral runs.
func OpenSQLite(ctx context.Context, path string, logg *logger.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	gormLogger := gormlogger.New(
		log.New(io.Discard, "", log.LstdFlags),
		gormlogger.Config{LogLevel: gormlogger.Silent},
	)

	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening blob store: %w", err)
	}

	if err := conn.WithContext(ctx).AutoMigrate(&blobRecord{}); err != nil {
		return nil, fmt.Errorf("migrating blob store: %w", err)
	}

	if logg != nil {
		logg.Debug(ctx, "blob store opened")
	}

	return &SQLiteStore{conn: conn, logg: logg}, nil
}

// Write serializes value and replaces the blob stored under key.
func (s *SQLiteStore) Write(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal blob %q: %w", key, err)
	}
	record := blobRecord{Key: key, Value: string(raw)}
	return s.conn.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value"}),
		}).
		Create(&record).Error
}

// Read deserializes the blob under key into dest. Absent and unparseable
// blobs both report false.
func (s *SQLiteStore) Read(ctx context.Context, key string, dest any) (bool, error) {
	var record blobRecord
	err := s.conn.WithContext(ctx).First(&record, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read blob %q: %w", key, err)
	}
	if err := json.Unmarshal([]byte(record.Value), dest); err != nil {
		if s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("discarding corrupt blob %q", key))
		}
		return false, nil
	}
	return true, nil
}

// Clear removes the blob under key. Clearing an absent key is a no-op.
func (s *SQLiteStore) Clear(ctx context.Context, key string) error {
	return s.conn.WithContext(ctx).Delete(&blobRecord{}, "key = ?", key).Error
}

// Close shuts down the underlying connection.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
