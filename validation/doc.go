// Package validation provides input validation utilities.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// the usual choice for configuration and request types.
//
// # Struct Tag Validation
//
//	type Settings struct {
//	    Provider string `validate:"required,oneof=azure google custom amazon"`
//	    AudioDir string `validate:"required"`
//	}
//	err := validation.Validate(settings)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("provider", cfg.Provider)
//	err := v.Validate()
package validation
