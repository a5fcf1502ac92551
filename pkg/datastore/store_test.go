package datastore_test

import (
	"context"
	"testing"

	"github.com/clearscan/augforge/pkg/datastore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_ImagesScopedByDataset(t *testing.T) {
	store := datastore.NewMemStore()
	store.AddImage(datastore.Image{ID: "img-1", DatasetID: "ds-a", Split: datastore.SplitTrain})
	store.AddImage(datastore.Image{ID: "img-2", DatasetID: "ds-b", Split: datastore.SplitVal})

	got, err := store.Images(context.Background(), "ds-a")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "img-1", got[0].ID)
}

func TestMemStore_AnnotationsByImageID(t *testing.T) {
	store := datastore.NewMemStore()
	ann := datastore.Annotations{Boxes: []datastore.BoundingBoxInput{{XMin: 1, YMin: 1, XMax: 2, YMax: 2, ClassName: "cat"}}}
	store.SetAnnotations("img-1", ann)

	got, err := store.Annotations(context.Background(), "img-1")
	require.NoError(t, err)
	require.Len(t, got.Boxes, 1)
	assert.Equal(t, "cat", got.Boxes[0].ClassName)
}

func TestMemStore_UnknownImageIDReturnsEmpty(t *testing.T) {
	store := datastore.NewMemStore()
	got, err := store.Annotations(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got.Boxes)
	assert.Empty(t, got.Polygons)
}
