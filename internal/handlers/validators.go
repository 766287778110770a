package handlers

import (
	"errors"
	"reflect"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	tagAccountCode = "account_code"
	tagDecimalGTE0 = "decimal_gte0"
	tagDecimalGT0  = "decimal_gt0"
)

var accountCodePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,31}$`)

// registerValidators installs the ledger's custom binding tags on gin's validator.
// decimal.Decimal fields are validated through their string form.
func registerValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin binding validator is not go-playground/validator")
	}

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation(tagAccountCode, func(fl validator.FieldLevel) bool {
		return accountCodePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation(tagDecimalGTE0, decimalSign(func(d decimal.Decimal) bool { return !d.IsNegative() })); err != nil {
		return err
	}
	return v.RegisterValidation(tagDecimalGT0, decimalSign(decimal.Decimal.IsPositive))
}

func decimalSign(ok func(decimal.Decimal) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		d, err := decimal.NewFromString(fl.Field().String())
		if err != nil {
			return false
		}
		return ok(d)
	}
}
