package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dealsplit/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Developer{},
		&models.Client{},
		&models.Project{},
		&models.CustomFee{},
		&models.Payout{},
		&models.PayoutLineItem{},
		&models.PayoutFeeEntry{},
		&models.PayoutTimelineEntry{},
	); err != nil {
		t.Fatalf("migrate models failed: %v", err)
	}
	return db
}
