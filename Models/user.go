package Models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username string `json:"username" gorm:"uniqueIndex;size:64"`
	Password []byte `json:"-"`
	Name     string `json:"name"`
	Tenant   string `json:"tenant" gorm:"index"`
}
