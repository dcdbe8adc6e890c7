package db

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oenomel87/agora/entity"
	"github.com/oenomel87/agora/errors"
)

func OpenDB(databaseUrl string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(databaseUrl), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return errors.Wrapf(
		db.AutoMigrate(&entity.Thread{}, &entity.Message{}),
		"failed to migrate database",
	)
}

func CloseDB(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrapf(err, "failed to get db")
	}
	if err := sqlDB.Close(); err != nil {
		return errors.Wrapf(err, "failed to close db")
	}

	return nil
}
