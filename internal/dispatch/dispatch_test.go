package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatchInvokesHandler(t *testing.T) {
	d := New(nil)

	var got []string
	d.Register("whitelist.add", func(args []string) { got = args })

	consumed := d.Dispatch("whitelist.add", []string{"steam_0:1:1"})
	assert.True(t, consumed)
	assert.Equal(t, []string{"steam_0:1:1"}, got)
}

func TestUnrecognizedCommandNotConsumed(t *testing.T) {
	d := New(nil)
	d.Register("whitelist.add", func(args []string) {
		t.Fatal("handler must not run for other commands")
	})

	assert.False(t, d.Dispatch("kick", []string{"someone"}))
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	d := New(nil)
	d.Register("whitelist.list", func([]string) {})

	assert.Panics(t, func() {
		d.Register("whitelist.list", func([]string) {})
	})
}

func TestCommandsSorted(t *testing.T) {
	d := New(nil)
	d.Register("whitelist.remove", func([]string) {})
	d.Register("whitelist", func([]string) {})
	d.Register("whitelist.add", func([]string) {})

	assert.Equal(t, []string{"whitelist", "whitelist.add", "whitelist.remove"}, d.Commands())
}
