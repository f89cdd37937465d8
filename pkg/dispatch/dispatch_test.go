package dispatch

import (
	"testing"

	"github.com/shawnamir/sced/pkg/editorerr"
	"github.com/shawnamir/sced/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDispatcher(t *testing.T) (*Dispatcher, *[]registry.Arg) {
	t.Helper()
	var seen []registry.Arg
	reg := registry.New()
	reg.Register(registry.Binding{
		Name: "forward-char",
		Keys: []byte{EncodeCtrl('f')},
		Fn: func(a registry.Arg) error {
			seen = append(seen, a)
			return nil
		},
	})
	reg.Register(registry.Binding{
		Name: "save-buffer",
		Keys: []byte{EncodeCtrl('x'), EncodeCtrl('s')},
		Fn: func(a registry.Arg) error {
			seen = append(seen, a)
			return nil
		},
	})
	return New(reg), &seen
}

func TestSimpleFullMatchInvokes(t *testing.T) {
	d, seen := newTestDispatcher(t)
	invoked, err := d.HandleKey([]byte{EncodeCtrl('f')})
	require.NoError(t, err)
	assert.True(t, invoked)
	assert.Equal(t, "forward-char", d.LastCommand)
	assert.Equal(t, []registry.Arg{{Value: 1, Explicit: false}}, *seen)
}

func TestPartialThenFullChord(t *testing.T) {
	d, seen := newTestDispatcher(t)
	invoked, err := d.HandleKey([]byte{EncodeCtrl('x')})
	require.NoError(t, err)
	assert.False(t, invoked)
	assert.True(t, d.InProgress())

	invoked, err = d.HandleKey([]byte{EncodeCtrl('s')})
	require.NoError(t, err)
	assert.True(t, invoked)
	assert.Equal(t, "save-buffer", d.LastCommand)
	assert.Len(t, *seen, 1)
	assert.False(t, d.InProgress())
}

func TestDeadSequenceReportsUndefined(t *testing.T) {
	d, _ := newTestDispatcher(t)
	invoked, err := d.HandleKey([]byte{EncodeCtrl('z')})
	assert.False(t, invoked)
	assert.ErrorIs(t, err, editorerr.ErrUndefinedCommand)
	assert.False(t, d.InProgress())
}

func TestCtrlUDefaultsToFour(t *testing.T) {
	d, seen := newTestDispatcher(t)
	_, err := d.HandleKey([]byte{EncodeCtrl('u')})
	require.NoError(t, err)
	assert.True(t, d.InProgress())

	_, err = d.HandleKey([]byte{EncodeCtrl('f')})
	require.NoError(t, err)
	assert.Equal(t, registry.Arg{Value: 4, Explicit: true}, (*seen)[0])
}

func TestCtrlUWithDigitsAccumulates(t *testing.T) {
	d, seen := newTestDispatcher(t)
	_, err := d.HandleKey([]byte{EncodeCtrl('u')})
	require.NoError(t, err)
	_, err = d.HandleKey([]byte{'2'})
	require.NoError(t, err)
	_, err = d.HandleKey([]byte{'0'})
	require.NoError(t, err)
	_, err = d.HandleKey([]byte{EncodeCtrl('f')})
	require.NoError(t, err)
	assert.Equal(t, registry.Arg{Value: 20, Explicit: true}, (*seen)[0])
}

func TestMetaMinusNegatesDefault(t *testing.T) {
	d, seen := newTestDispatcher(t)
	_, err := d.HandleKey([]byte{Esc, '-'})
	require.NoError(t, err)
	_, err = d.HandleKey([]byte{EncodeCtrl('f')})
	require.NoError(t, err)
	assert.Equal(t, registry.Arg{Value: -1, Explicit: true}, (*seen)[0])
}

func TestMetaDigitStartsAccumulation(t *testing.T) {
	d, seen := newTestDispatcher(t)
	_, err := d.HandleKey([]byte{Esc, '5'})
	require.NoError(t, err)
	_, err = d.HandleKey([]byte{EncodeCtrl('f')})
	require.NoError(t, err)
	assert.Equal(t, registry.Arg{Value: 5, Explicit: true}, (*seen)[0])
}

func TestPrefixDigitOverflowReportsError(t *testing.T) {
	d, _ := newTestDispatcher(t)
	_, err := d.HandleKey([]byte{Esc, '1'})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err = d.HandleKey([]byte{'1'})
		require.NoError(t, err)
	}
	_, err = d.HandleKey([]byte{'1'})
	assert.ErrorIs(t, err, editorerr.ErrPrefixTooLarge)
	assert.False(t, d.InProgress())
}

func TestResetClearsSequenceAndPrefix(t *testing.T) {
	d, _ := newTestDispatcher(t)
	_, _ = d.HandleKey([]byte{EncodeCtrl('x')})
	assert.True(t, d.InProgress())
	d.Reset()
	assert.False(t, d.InProgress())
}
