package markring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPushPop(t *testing.T) {
	r := New()
	r.Push(10)
	assert.Equal(t, 10, r.Top())
	r.Push(20)
	assert.Equal(t, 20, r.Top())
	assert.Equal(t, 10, r.Pop())
}

func TestPushSamePositionNoop(t *testing.T) {
	r := New()
	r.Push(5)
	r.Push(5)
	r.Push(5)
	// Only one real write happened; popping should return back to 0 (initial).
	assert.Equal(t, 5, r.Top())
	assert.Equal(t, 0, r.Pop())
}

func TestSwap(t *testing.T) {
	r := New()
	r.Push(5)
	old := r.Swap(8)
	assert.Equal(t, 5, old)
	assert.Equal(t, 8, r.Top())
}

func TestSwapEqualPops(t *testing.T) {
	r := New()
	r.Push(5)
	r.Push(8)
	old := r.Swap(8)
	assert.Equal(t, 8, old)
	assert.Equal(t, 5, r.Top())
}

func TestAdjustInsertAndDelete(t *testing.T) {
	r := New()
	r.Push(10)
	r.Push(20)
	r.Push(30)

	r.Adjust(15, 5) // insert 5 bytes at 15
	assert.Equal(t, 35, r.Top())

	r.Adjust(15, -10) // delete 10 bytes at 15; 25->15 clamp? 25 >= 15+10=25 no clamp needed
	// slot that was 35 -> 25 after delete (35 >= 15 so -10 => 25, not below 15)
	assert.Equal(t, 25, r.Top())
}

func TestAdjustClampsBeforePoint(t *testing.T) {
	r := New()
	r.Push(12)
	r.Adjust(10, -5) // 12 >= 10, 12-5=7 < 10 -> clamp to 10
	assert.Equal(t, 10, r.Top())
}

func TestRingWraps(t *testing.T) {
	r := New()
	for i := 1; i <= Slots+3; i++ {
		r.Push(i)
	}
	assert.Equal(t, Slots+3, r.Top())
}
