package datastore_test

import (
	"testing"

	"github.com/clearscan/augforge/pkg/datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var want = []datastore.PointInput{{X: 1, Y: 2}, {X: 3, Y: 4}}

func TestNormalizePolygonShape_MapList(t *testing.T) {
	raw := []map[string]float64{{"x": 1, "y": 2}, {"x": 3, "y": 4}}
	got, err := datastore.NormalizePolygonShape(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNormalizePolygonShape_NestedFlat(t *testing.T) {
	raw := [][]float64{{1, 2, 3, 4}}
	got, err := datastore.NormalizePolygonShape(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNormalizePolygonShape_Flat(t *testing.T) {
	raw := []float64{1, 2, 3, 4}
	got, err := datastore.NormalizePolygonShape(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNormalizePolygonShape_AnySliceOfMaps(t *testing.T) {
	raw := []any{map[string]any{"x": 1.0, "y": 2.0}, map[string]any{"x": 3.0, "y": 4.0}}
	got, err := datastore.NormalizePolygonShape(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNormalizePolygonShape_AnySliceFlatNumbers(t *testing.T) {
	raw := []any{1.0, 2.0, 3.0, 4.0}
	got, err := datastore.NormalizePolygonShape(raw)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNormalizePolygonShape_OddFlatCountErrors(t *testing.T) {
	_, err := datastore.NormalizePolygonShape([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestNormalizePolygonShape_UnrecognizedTypeErrors(t *testing.T) {
	_, err := datastore.NormalizePolygonShape(42)
	assert.Error(t, err)
}
