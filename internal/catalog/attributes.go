package catalog

import (
	"fmt"
	"regexp"

	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"

	"github.com/velstore/catalog-backend/pkg/db/models"
)

// ValidateAttributeValue checks a submitted value against the schema's
// constraints without constructing anything. Validation order: an enumerated
// option set wins over a regex; a schema with neither accepts any value.
func ValidateAttributeValue(schema models.AttributeSchema, value string) error {
	if len(schema.Options) > 0 {
		for _, option := range schema.Options {
			if option == value {
				return nil
			}
		}
		return pkgerrors.New(pkgerrors.CodeIncorrectValueForAttribute,
			fmt.Sprintf("value %q is not an allowed option for attribute %q", value, schema.Name))
	}

	if schema.Regex != nil && *schema.Regex != "" {
		re, err := regexp.Compile(*schema.Regex)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeIncorrectValueForAttribute, err,
				fmt.Sprintf("attribute %q has an invalid pattern", schema.Name))
		}
		// Prefix-anchored match: the pattern must match starting at the
		// first byte, trailing input is ignored.
		loc := re.FindStringIndex(value)
		if loc == nil || loc[0] != 0 {
			return pkgerrors.New(pkgerrors.CodeIncorrectValueForAttribute,
				fmt.Sprintf("value %q does not match the pattern for attribute %q", value, schema.Name))
		}
	}

	return nil
}

// BindAttribute validates the submitted value and returns the bound attribute
// instance. Construction cannot fail once the value is validated.
func BindAttribute(schema models.AttributeSchema, value string) (models.AttributeValue, error) {
	if err := ValidateAttributeValue(schema, value); err != nil {
		return models.AttributeValue{}, err
	}
	return models.AttributeValue{SchemaID: schema.ID, Value: value}, nil
}

// FilterApplicable binds the submitted attribute values whose schema applies
// to the given categories. Entries referencing unknown or inapplicable schemas
// are dropped silently; applicable entries with invalid values fail with
// IncorrectValueForAttribute.
func FilterApplicable(categories []string, schemas []models.AttributeSchema, submitted []models.AttributeValue) ([]models.AttributeValue, error) {
	applicable := make(map[int64]models.AttributeSchema, len(schemas))
	for _, schema := range schemas {
		if schema.AppliesTo(categories) {
			applicable[schema.ID] = schema
		}
	}

	bound := make([]models.AttributeValue, 0, len(submitted))
	for _, entry := range submitted {
		schema, ok := applicable[entry.SchemaID]
		if !ok {
			continue
		}
		attr, err := BindAttribute(schema, entry.Value)
		if err != nil {
			return nil, err
		}
		bound = append(bound, attr)
	}
	return bound, nil
}
