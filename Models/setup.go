package Models

import (
	"log"
	"os"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitError holds the connection failure message from startup; empty when the
// database came up fine. Store operations check DB for nil and fail soft.
var InitError string

func Connect() {
	dsn := os.Getenv("DATABASE_URL")

	var connection *gorm.DB
	var err error
	if dsn != "" && !strings.HasPrefix(dsn, "sqlite://") {
		connection, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	} else {
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			path = "okr_local.db"
		}
		connection, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		InitError = err.Error()
		log.Printf("Database connection failed: %v", err)
		return
	}
	DB = connection

	// Users first, then the flat OKR rows and the request audit table
	DB.AutoMigrate(&User{})
	DB.AutoMigrate(
		&OKRRecord{},
		&RequestLog{},
	)
}
