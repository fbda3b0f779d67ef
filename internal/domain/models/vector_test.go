package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Cosine_KnownValues(t *testing.T) {

	assert.InDelta(t, 1, Vector{1, 0}.Cosine(Vector{2, 0}), 1e-9)
	assert.InDelta(t, 0, Vector{1, 0}.Cosine(Vector{0, 1}), 1e-9)
	assert.InDelta(t, -1, Vector{1, 0}.Cosine(Vector{-1, 0}), 1e-9)
}

func Test_Cosine_ZeroVector_IsZero(t *testing.T) {

	assert.Zero(t, Vector{0, 0}.Cosine(Vector{1, 1}))
	assert.Zero(t, Vector{1, 1}.Cosine(Vector{0, 0}))
}

func Test_Normalized_UnitLength(t *testing.T) {

	normalized := Vector{3, 4}.Normalized()

	assert.InDelta(t, 0.6, float64(normalized[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(normalized[1]), 1e-6)
	assert.InDelta(t, 1, normalized.Cosine(Vector{3, 4}), 1e-9)
}
