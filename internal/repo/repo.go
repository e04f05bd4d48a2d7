package repo

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicate    = errors.New("duplicate record")
	ErrTokenRevoked = errors.New("token expired or revoked")
)

type GormRepo struct {
	DB *gorm.DB
}
