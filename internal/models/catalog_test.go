package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEffectiveType(t *testing.T) {
	product := Product{Type: ProductTypeSimple}
	assert.Equal(t, ProductTypeSimple, product.EffectiveType())
	assert.False(t, product.IsVariable())

	// Variation rows override the stored type
	product.Variations = []*ProductVariation{{ID: uuid.New()}}
	assert.Equal(t, ProductTypeVariable, product.EffectiveType())
	assert.True(t, product.IsVariable())

	grouped := Product{Type: ProductTypeGrouped}
	assert.Equal(t, ProductTypeGrouped, grouped.EffectiveType())
}

func TestVariationAttributesLabel(t *testing.T) {
	attrs := VariationAttributes{
		{Name: "Color", Value: "Red"},
		{Name: "Size", Value: ""},
		{Name: "Material", Value: "Cotton"},
	}
	assert.Equal(t, "Red, Cotton", attrs.Label())

	assert.Equal(t, "", VariationAttributes{}.Label())
	assert.Equal(t, "", VariationAttributes{{Name: "Size", Value: ""}}.Label())
}

func TestVariationEnabledMapsToStatus(t *testing.T) {
	variation := ProductVariation{Status: ProductStatusPublish}
	assert.True(t, variation.Enabled())

	variation.SetEnabled(false)
	assert.Equal(t, ProductStatusDraft, variation.Status)
	assert.False(t, variation.Enabled())

	variation.SetEnabled(true)
	assert.Equal(t, ProductStatusPublish, variation.Status)
}
