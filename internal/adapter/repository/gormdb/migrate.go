package gormdb

import (
	"errors"

	"loan-registry/internal/domain/escrow"
	"loan-registry/internal/domain/journal"
	"loan-registry/internal/domain/loan"

	"gorm.io/gorm"
)

// Migrate creates the registry tables and seeds the loan counter at zero.
// Running it again keeps existing state.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&loan.Counter{},
		&loan.Loan{},
		&escrow.Balance{},
		&journal.Entry{},
	); err != nil {
		return err
	}
	var c loan.Counter
	err := db.Where("name = ?", loan.CounterLoans).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return db.Create(&loan.Counter{Name: loan.CounterLoans, Value: 0}).Error
	}
	return err
}
