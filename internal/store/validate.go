package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/estatehub/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateProperty checks a property against the store invariants:
// positive price and area, a known category and furnishing status, valid
// coordinates, and an original price no lower than the current price.
func ValidateProperty(p *models.Property) error {
	if p == nil {
		return fmt.Errorf("%w: property is required", models.ErrValidation)
	}

	fields := models.FieldErrors{}
	collectFieldErrors(validate.Struct(p), fields)

	if !p.Furnishing.Valid() {
		fields["furnishingStatus"] = "must be one of: Unfurnished, Semi-Furnished, Fully Furnished"
	}
	if err := p.Coordinates.Validate(); err != nil {
		fields["coordinates"] = strings.TrimPrefix(err.Error(), models.ErrValidation.Error()+": ")
	}
	if p.OriginalPrice != nil && *p.OriginalPrice < p.Price {
		fields["originalPrice"] = fmt.Sprintf("must be greater than or equal to price (%d)", p.Price)
	}

	if len(fields) > 0 {
		return fields
	}
	return nil
}

// ValidateUser checks a profile before it is stored.
func ValidateUser(u *models.UserProfile) error {
	if u == nil {
		return fmt.Errorf("%w: user is required", models.ErrValidation)
	}
	fields := models.FieldErrors{}
	collectFieldErrors(validate.Struct(u), fields)
	if len(fields) > 0 {
		return fields
	}
	return nil
}

// ValidateReport checks a report before it is stored.
func ValidateReport(r *models.Report) error {
	if r == nil {
		return fmt.Errorf("%w: report is required", models.ErrValidation)
	}
	fields := models.FieldErrors{}
	collectFieldErrors(validate.Struct(r), fields)
	if strings.TrimSpace(r.Reason) == "" {
		fields["reason"] = "must not be blank"
	}
	if len(fields) > 0 {
		return fields
	}
	return nil
}

func collectFieldErrors(err error, fields models.FieldErrors) {
	if err == nil {
		return
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		fields["_"] = err.Error()
		return
	}
	for _, fe := range validationErrors {
		fields[fieldKey(fe)] = describe(fe)
	}
}

// fieldKey lowercases the first rune of the Go field name, which matches
// the JSON names used by the models.
func fieldKey(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return "_"
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed on " + fe.Tag()
	}
}
