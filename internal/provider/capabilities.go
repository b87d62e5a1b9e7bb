package provider

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ValidateCapabilities checks if provider capabilities are valid and consistent
func ValidateCapabilities(caps ProviderCapabilities) error {
	// A backend must at least answer both lookups the locator issues
	if !caps.Supports(FeatureSearch) {
		return fmt.Errorf("provider must support %s", FeatureSearch)
	}
	if !caps.Supports(FeatureFetchByID) {
		return fmt.Errorf("provider must support %s", FeatureFetchByID)
	}

	return nil
}

// ValidateConfig checks a configuration map against the provider schema.
func ValidateConfig(schema ConfigSchema, config map[string]interface{}) error {
	for _, field := range schema.Fields {
		raw, present := config[field.Name]
		if !present || raw == nil {
			if field.Required {
				return fmt.Errorf("%s is required", field.Name)
			}
			continue
		}

		switch field.Type {
		case ConfigFieldTypeString, ConfigFieldTypePassword:
			value, ok := raw.(string)
			if !ok {
				return fmt.Errorf("%s must be a string", field.Name)
			}
			value = strings.TrimSpace(value)
			if value == "" {
				if field.Required {
					return fmt.Errorf("%s is required", field.Name)
				}
				continue
			}
			if err := validateString(field, value); err != nil {
				return err
			}
		case ConfigFieldTypeInt:
			value, ok := raw.(int)
			if !ok {
				return fmt.Errorf("%s must be an integer", field.Name)
			}
			if err := validateInt(field, value); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateString(field ConfigField, value string) error {
	rules := field.Validation
	if rules == nil {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if rules.MinLength > 0 && length < rules.MinLength {
		return fmt.Errorf("%s must be at least %d characters", field.Name, rules.MinLength)
	}
	if rules.MaxLength > 0 && length > rules.MaxLength {
		return fmt.Errorf("%s must be at most %d characters", field.Name, rules.MaxLength)
	}
	if rules.Pattern != "" {
		re, err := regexp.Compile(rules.Pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern for %s: %w", field.Name, err)
		}
		if !re.MatchString(value) {
			return fmt.Errorf("%s has an invalid format", field.Name)
		}
	}
	return nil
}

func validateInt(field ConfigField, value int) error {
	rules := field.Validation
	if rules == nil {
		return nil
	}
	if rules.MinValue != 0 && value < rules.MinValue {
		return fmt.Errorf("%s must be >= %d", field.Name, rules.MinValue)
	}
	if rules.MaxValue != 0 && value > rules.MaxValue {
		return fmt.Errorf("%s must be <= %d", field.Name, rules.MaxValue)
	}
	return nil
}
