package arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocGetFree(t *testing.T) {
	a := New[int]()
	h, box := a.Alloc(42)
	assert.Equal(t, 42, *box)

	got, ok := a.Get(h)
	assert.True(t, ok)
	assert.Equal(t, 42, *got)

	a.Free(h)
	_, ok = a.Get(h)
	assert.False(t, ok)
}

func TestStaleHandleAfterReuse(t *testing.T) {
	a := New[string]()
	h1, _ := a.Alloc("first")
	a.Free(h1)
	h2, box2 := a.Alloc("second")

	assert.Equal(t, h1.Index, h2.Index)
	assert.NotEqual(t, h1.Gen, h2.Gen)

	_, ok := a.Get(h1)
	assert.False(t, ok, "stale handle must not resolve after slot reuse")

	got, ok := a.Get(h2)
	assert.True(t, ok)
	assert.Equal(t, "second", *got)
	assert.Equal(t, box2, got)
}

func TestPointerStableAcrossGrowth(t *testing.T) {
	a := New[int]()
	_, firstBox := a.Alloc(1)
	for i := 0; i < 100; i++ {
		a.Alloc(i)
	}
	assert.Equal(t, 1, *firstBox, "pointer issued before growth must remain valid")
}

func TestEachVisitsLiveOnly(t *testing.T) {
	a := New[int]()
	h1, _ := a.Alloc(1)
	a.Alloc(2)
	a.Free(h1)

	seen := 0
	a.Each(func(h Handle, v *int) { seen++ })
	assert.Equal(t, 1, seen)
}

func TestDebugTagIsStampedAndUnique(t *testing.T) {
	a := New[int]()
	h1, _ := a.Alloc(1)
	h2, _ := a.Alloc(2)

	assert.NotEmpty(t, h1.DebugTag)
	assert.NotEmpty(t, h2.DebugTag)
	assert.NotEqual(t, h1.DebugTag, h2.DebugTag)

	seenTags := map[string]bool{}
	a.Each(func(h Handle, v *int) { seenTags[h.DebugTag] = true })
	assert.True(t, seenTags[h1.DebugTag])
	assert.True(t, seenTags[h2.DebugTag])
}
