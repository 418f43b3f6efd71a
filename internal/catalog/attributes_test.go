package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velstore/catalog-backend/pkg/db/models"
	pkgerrors "github.com/velstore/catalog-backend/pkg/errors"
)

func strPtr(s string) *string { return &s }

func TestValidateAttributeValue(t *testing.T) {
	tests := []struct {
		name     string
		schema   models.AttributeSchema
		value    string
		wantCode pkgerrors.Code
	}{
		{
			name:   "no constraints accepts anything",
			schema: models.AttributeSchema{ID: 1, Name: "note"},
			value:  "whatever",
		},
		{
			name:   "option match",
			schema: models.AttributeSchema{ID: 2, Name: "size", Options: []string{"S", "M", "L"}},
			value:  "M",
		},
		{
			name:     "option miss",
			schema:   models.AttributeSchema{ID: 2, Name: "size", Options: []string{"S", "M", "L"}},
			value:    "XL",
			wantCode: pkgerrors.CodeIncorrectValueForAttribute,
		},
		{
			name:   "options win over regex",
			schema: models.AttributeSchema{ID: 3, Name: "size", Options: []string{"S"}, Regex: strPtr("^[0-9]+$")},
			value:  "S",
		},
		{
			name:   "regex matches at the start",
			schema: models.AttributeSchema{ID: 4, Name: "voltage", Regex: strPtr(`[0-9]+V`)},
			value:  "220V household",
		},
		{
			name:     "regex matching mid string is rejected",
			schema:   models.AttributeSchema{ID: 4, Name: "voltage", Regex: strPtr(`[0-9]+V`)},
			value:    "about 220V",
			wantCode: pkgerrors.CodeIncorrectValueForAttribute,
		},
		{
			name:     "regex miss",
			schema:   models.AttributeSchema{ID: 4, Name: "voltage", Regex: strPtr(`[0-9]+V`)},
			value:    "none",
			wantCode: pkgerrors.CodeIncorrectValueForAttribute,
		},
		{
			name:     "invalid pattern",
			schema:   models.AttributeSchema{ID: 5, Name: "broken", Regex: strPtr(`([`)},
			value:    "x",
			wantCode: pkgerrors.CodeIncorrectValueForAttribute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAttributeValue(tt.schema, tt.value)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, pkgerrors.CodeOf(err))
		})
	}
}

func TestBindAttribute(t *testing.T) {
	schema := models.AttributeSchema{ID: 7, Name: "color", Options: []string{"red", "blue"}}

	bound, err := BindAttribute(schema, "red")
	require.NoError(t, err)
	assert.Equal(t, models.AttributeValue{SchemaID: 7, Value: "red"}, bound)

	_, err = BindAttribute(schema, "green")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeIncorrectValueForAttribute, pkgerrors.CodeOf(err))
}

func TestFilterApplicable(t *testing.T) {
	schemas := []models.AttributeSchema{
		{ID: 1, Name: "material"},
		{ID: 2, Name: "size", Categories: []string{"Apparel"}, Options: []string{"S", "M"}},
		{ID: 3, Name: "wattage", Categories: []string{"Electronics"}},
	}

	t.Run("inapplicable and unknown entries are dropped", func(t *testing.T) {
		bound, err := FilterApplicable([]string{"Apparel"}, schemas, []models.AttributeValue{
			{SchemaID: 1, Value: "cotton"},
			{SchemaID: 2, Value: "M"},
			{SchemaID: 3, Value: "60W"},
			{SchemaID: 99, Value: "ghost"},
		})
		require.NoError(t, err)
		assert.Equal(t, []models.AttributeValue{
			{SchemaID: 1, Value: "cotton"},
			{SchemaID: 2, Value: "M"},
		}, bound)
	})

	t.Run("applicable entry with a bad value fails", func(t *testing.T) {
		_, err := FilterApplicable([]string{"Apparel"}, schemas, []models.AttributeValue{
			{SchemaID: 2, Value: "XXL"},
		})
		require.Error(t, err)
		assert.Equal(t, pkgerrors.CodeIncorrectValueForAttribute, pkgerrors.CodeOf(err))
	})

	t.Run("no categories keeps only globally scoped schemas", func(t *testing.T) {
		bound, err := FilterApplicable(nil, schemas, []models.AttributeValue{
			{SchemaID: 1, Value: "steel"},
			{SchemaID: 2, Value: "M"},
		})
		require.NoError(t, err)
		assert.Equal(t, []models.AttributeValue{{SchemaID: 1, Value: "steel"}}, bound)
	})
}
