// internal/database/codes.go
package database

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/javajoker/franchise-backoffice/internal/metrics"
)

// MaxCodeAttempts bounds how many generated codes are tried per insert.
const MaxCodeAttempts = 5

var ErrCodeExhausted = errors.New("could not generate a unique code")

// CreateWithUniqueCode inserts model after assigning it a generated code
// that is not yet used in column. A code taken between the check and the
// insert is retried from a savepoint when db is a transaction.
func CreateWithUniqueCode(db *gorm.DB, model interface{}, column string, generate func() (string, error), assign func(string)) error {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return fmt.Errorf("parse model: %w", err)
	}
	table := stmt.Schema.Table
	inTx := inTransaction(db)

	for attempt := 1; attempt <= MaxCodeAttempts; attempt++ {
		code, err := generate()
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}

		var taken int64
		if err := db.Session(&gorm.Session{NewDB: true}).Table(table).Where(column+" = ?", code).Count(&taken).Error; err != nil {
			return fmt.Errorf("check code: %w", err)
		}
		if taken > 0 {
			metrics.UniqueCodeRetries.WithLabelValues(table).Inc()
			continue
		}

		assign(code)
		savepoint := fmt.Sprintf("unique_code_%d", attempt)
		if inTx {
			if err := db.SavePoint(savepoint).Error; err != nil {
				return err
			}
		}

		err = db.Create(model).Error
		if err == nil {
			return nil
		}
		if !IsUniqueViolation(err) || !inTx {
			return err
		}
		if rbErr := db.RollbackTo(savepoint).Error; rbErr != nil {
			return rbErr
		}
		metrics.UniqueCodeRetries.WithLabelValues(table).Inc()
	}

	return ErrCodeExhausted
}

// IsUniqueViolation reports whether err is a unique constraint failure on
// postgres or sqlite.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 23505") ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func inTransaction(db *gorm.DB) bool {
	_, ok := db.Statement.ConnPool.(gorm.TxCommitter)
	return ok
}
