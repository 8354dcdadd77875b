package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig validates the entire configuration and returns all validation errors
func (c *Config) ValidateConfig() error {
	var validationErrors ValidationErrors

	if c.ConfigVersion > currentConfigVersion {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "config_version",
			Message:   fmt.Sprintf("unsupported config version %d (this build understands up to %d)", c.ConfigVersion, currentConfigVersion),
		})
		return validationErrors
	}

	if c.General != nil {
		if err := validate.Struct(c.General); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, "general", "")...)
		}
	}

	// Policies must name all three chains; there is no implicit default
	// verdict for a chain.
	if c.Policies == nil {
		validationErrors = append(validationErrors, ValidationError{
			FieldPath: "policies",
			Message:   "configuration must contain a 'policies' section",
		})
	} else if err := validate.Struct(c.Policies); err != nil {
		validationErrors = append(validationErrors, convertValidatorErrors(err, "policies", "")...)
	}

	validationErrors = append(validationErrors, c.validateRules()...)

	if c.API != nil {
		if err := validate.Struct(c.API); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, "api", "")...)
		}
	}

	if len(validationErrors) > 0 {
		return validationErrors
	}

	return nil
}

// validateRules checks every rule's fields and rejects duplicate names.
// An empty rule list is structurally legal; a ruleset without a tcp/22
// accept rule is refused later by the apply flow, not here, so previews of
// partial configs keep working.
func (c *Config) validateRules() ValidationErrors {
	var validationErrors ValidationErrors

	seenNames := make(map[string]bool)

	for i, rule := range c.Rules {
		itemName := rule.Name
		if itemName == "" {
			itemName = fmt.Sprintf("rule[%d]", i)
		}

		if err := validate.Struct(rule); err != nil {
			validationErrors = append(validationErrors, convertValidatorErrors(err, fmt.Sprintf("rule.%d", i), itemName)...)
		}

		if rule.Name != "" && seenNames[rule.Name] {
			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: "name",
				Message:   fmt.Sprintf("duplicate rule name: %s", rule.Name),
			})
		}
		seenNames[rule.Name] = true
	}

	return validationErrors
}

// convertValidatorErrors converts go-playground/validator errors to our ValidationError format
func convertValidatorErrors(err error, fieldPrefix string, itemName string) ValidationErrors {
	var validationErrors ValidationErrors

	var validatorErrs validator.ValidationErrors
	if errors.As(err, &validatorErrs) {
		for _, e := range validatorErrs {
			fieldPath := fieldPrefix
			if e.Field() != "" {
				// e.Field() returns the TOML tag name because of the
				// registered TagNameFunc
				fieldName := e.Field()

				if fieldPrefix != "" {
					fieldPath = fieldPrefix + "." + fieldName
				} else {
					fieldPath = fieldName
				}
			}

			message := getValidationMessage(e)

			validationErrors = append(validationErrors, ValidationError{
				ItemName:  itemName,
				FieldPath: fieldPath,
				Message:   message,
			})
		}
	}

	return validationErrors
}
