package flashcard

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidatePack checks pack attribute constraints: name between 1 and 50
// characters, description up to 200 characters, color a hex string.
func ValidatePack(p Pack) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		fe := errs[0]
		return fmt.Errorf("invalid pack: field %s failed on %q", fe.Field(), fe.Tag())
	}
	return fmt.Errorf("invalid pack: %w", err)
}
