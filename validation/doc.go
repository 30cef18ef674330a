// Package validation checks request and configuration structs.
//
// Struct tags are evaluated by go-playground/validator:
//
//	type encryptRequest struct {
//	    Salt      string `json:"salt"`
//	    Plaintext string `json:"plaintext" validate:"required"`
//	}
//	err := validation.Validate(req)
//
// Conditional rules use a collecting Validator:
//
//	v := validation.New()
//	v.Required("hmac.key", cfg.HMAC.Key)
//	err := v.Validate()
//
// Both return a validation AppError whose "fields" detail lists each
// failing field.
package validation
