package distconfig

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validatorInst *validator.Validate
)

func instance() *validator.Validate {
	validateOnce.Do(func() {
		validatorInst = validator.New(validator.WithRequiredStructEnabled())
	})
	return validatorInst
}

// Validate checks a DistConfig's struct tags (spec.md §4.D's enumerated
// option values). It does not check cross-field compatibility; that's the
// Planner's job once it has the Catalog and selected targets available.
func Validate(cfg DistConfig) error {
	return instance().Struct(cfg)
}
