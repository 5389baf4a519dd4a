package main

import (
	"errors"
	"net/http"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/apex/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func dbConnect() error {
	dbname, ok := os.LookupEnv("PGDATABASE")
	if !ok {
		dbname = "test"
	}
	connStr := strings.Join([]string{"dbname", dbname}, "=")

	database, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		Logger:      logger.Default.LogMode(logger.Silent),
		QueryFields: true,
	})
	if err != nil {
		return err
	}

	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.AutoMigrate(&Game{}); err != nil {
		return err
	}

	db = database
	return nil
}

func idleError(message string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	if errors.Is(err, http.ErrServerClosed) {
		return
	}
	e := err
	for errors.Unwrap(e) != nil {
		e = errors.Unwrap(e)
	}
	if e.Error() == "sql: database is closed" {
		time.Sleep(1 * time.Second)
		return
	}
	log.WithField("type", reflect.TypeOf(err)).WithError(err).Error(message)
	panic(err)
}
