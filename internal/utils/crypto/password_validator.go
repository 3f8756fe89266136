package crypto

import (
	"github.com/go-playground/validator/v10"
)

// passwordRule wires IsStrong into the validator package's tag system.
func passwordRule(fl validator.FieldLevel) bool {
	return IsStrong(fl.Field().String())
}

// RegisterPasswordValidator registers the "password" validation tag with the validator.
// Registering twice is treated as a no-op.
func RegisterPasswordValidator(v *validator.Validate) error {
	err := v.RegisterValidation("password", passwordRule)
	if err != nil && err.Error() == "validator: tag 'password' already exists" {
		return nil // Already registered, not an error
	}
	return err
}
