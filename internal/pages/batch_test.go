package pages

import (
	"testing"

	"github.com/akolanti/scanflow/internal/domain/commonModels"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_AddAndGet(t *testing.T) {
	b := NewBatch(Capabilities{Backend: "files", DefaultResolution: 200})
	p1 := b.AddPage("/scans/1.png")
	p2 := b.Add(commonModels.Page{Id: "fixed", ImagePath: "/scans/2.png", Resolution: 600})

	assert.NotEmpty(t, p1.Id)
	assert.Equal(t, 200, p1.Resolution)
	assert.Equal(t, 1, p1.Number)
	assert.Equal(t, 600, p2.Resolution)
	assert.Equal(t, 2, p2.Number)

	got, err := b.GetPage("fixed")
	require.NoError(t, err)
	assert.Equal(t, "/scans/2.png", got.ImagePath)

	_, err = b.GetPage("missing")
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestBatch_RemoveAndReorder(t *testing.T) {
	b := NewBatch(DefaultCapabilities())
	for _, id := range []string{"a", "b", "c"} {
		b.Add(commonModels.Page{Id: id})
	}

	require.NoError(t, b.Reorder([]string{"c", "a", "b"}))
	assert.Equal(t, []string{"c", "a", "b"}, b.IDs())
	c, _ := b.GetPage("c")
	assert.Equal(t, 1, c.Number)

	assert.ErrorIs(t, b.Reorder([]string{"c", "c", "a"}), ErrInvalidOrder)
	assert.ErrorIs(t, b.Reorder([]string{"a"}), ErrInvalidOrder)

	assert.True(t, b.RemovePage("a"))
	assert.False(t, b.RemovePage("a"))
	assert.Equal(t, []string{"c", "b"}, b.IDs())
	bPage, _ := b.GetPage("b")
	assert.Equal(t, 2, bPage.Number)
}

func TestBatch_Rotate(t *testing.T) {
	b := NewBatch(DefaultCapabilities())
	b.Add(commonModels.Page{Id: "a"})

	require.NoError(t, b.Rotate("a", 270))
	require.NoError(t, b.Rotate("a", 180))
	p, _ := b.GetPage("a")
	assert.Equal(t, 90, p.Rotation)

	assert.ErrorIs(t, b.Rotate("a", 45), ErrInvalidRotation)
	assert.ErrorIs(t, b.Rotate("nope", 90), ErrPageNotFound)
}
