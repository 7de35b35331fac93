package amount

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// Column limits: DECIMAL(36,18).
const (
	Scale     = 18
	IntDigits = 18
)

var limit = decimal.New(1, IntDigits)

// Amount is a decimal quantity persisted without loss: DECIMAL(36,18) on
// mysql and postgres, TEXT on sqlite where numeric columns hold floats.
type Amount struct {
	decimal.Decimal
}

var Zero = Amount{Decimal: decimal.Zero}

func Of(d decimal.Decimal) Amount { return Amount{Decimal: d} }

func FromInt(v int64) Amount { return Of(decimal.NewFromInt(v)) }

// Fits reports whether d is representable in an Amount column: at most
// Scale fractional digits and at most IntDigits integer digits.
func Fits(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Scale)) && d.Abs().LessThan(limit)
}

func (Amount) GormDataType() string { return "decimal" }

func (Amount) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "sqlite" {
		return "text"
	}
	return "decimal(36,18)"
}

func (a Amount) Value() (driver.Value, error) { return a.Decimal.String(), nil }

func (a *Amount) Scan(v any) error { return a.Decimal.Scan(v) }
