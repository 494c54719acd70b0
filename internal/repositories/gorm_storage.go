package repositories

import (
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// GORMStorage is the relational implementation of Storage.
type GORMStorage struct {
	*BcryptHasher
	db     *gorm.DB
	locale language.Tag
}

// NewGORMStorage creates a new instance of GORMStorage. The database must
// have been opened with TranslateError enabled.
func NewGORMStorage(db *gorm.DB, opts Options) *GORMStorage {
	return &GORMStorage{
		BcryptHasher: NewBcryptHasher(opts.PasswordCost),
		db:           db,
		locale:       opts.Locale,
	}
}

var _ Storage = (*GORMStorage)(nil)
