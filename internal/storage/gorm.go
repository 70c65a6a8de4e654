package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Item is one stored value in the SQL backends.
type Item struct {
	Scope     string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"column:item_key;primaryKey;size:128"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (Item) TableName() string { return "storage_items" }

type Gorm struct {
	db *gorm.DB
}

// NewGorm migrates the items table and returns a backend on db.
func NewGorm(ctx context.Context, db *gorm.DB) (*Gorm, error) {
	if err := db.WithContext(ctx).AutoMigrate(&Item{}); err != nil {
		return nil, fmt.Errorf("migrate storage_items: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) Get(ctx context.Context, scope, key string) (string, error) {
	var it Item
	err := g.db.WithContext(ctx).
		Where("scope = ? AND item_key = ?", scope, key).
		Take(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("select item: %w", err)
	}
	return it.Value, nil
}

func (g *Gorm) Set(ctx context.Context, scope, key, value string) error {
	it := Item{Scope: scope, Key: key, Value: value}
	err := g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "scope"}, {Name: "item_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&it).Error
	if err != nil {
		return fmt.Errorf("upsert item: %w", err)
	}
	return nil
}

func (g *Gorm) Delete(ctx context.Context, scope, key string) error {
	err := g.db.WithContext(ctx).
		Where("scope = ? AND item_key = ?", scope, key).
		Delete(&Item{}).Error
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

func (g *Gorm) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
