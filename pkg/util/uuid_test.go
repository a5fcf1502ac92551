package util_test

import (
	"testing"

	"github.com/clearscan/augforge/pkg/util"
	"github.com/stretchr/testify/assert"
)

func TestHashUUID_StableForEqualContent(t *testing.T) {
	a := util.HashUUID(map[string]int{"x": 1, "y": 2})
	b := util.HashUUID(map[string]int{"y": 2, "x": 1})
	assert.Equal(t, a, b)
	assert.NotEmpty(t, a)
}

func TestHashUUID_DistinctForDifferentContent(t *testing.T) {
	a := util.HashUUID("release-a")
	b := util.HashUUID("release-b")
	assert.NotEqual(t, a, b)
}

func TestHashUUID_UnmarshalableReturnsEmpty(t *testing.T) {
	assert.Empty(t, util.HashUUID(make(chan int)))
}
