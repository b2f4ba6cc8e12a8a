package debug

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogf(t *testing.T) {
	var buf bytes.Buffer
	prevOut := SetOutput(&buf)
	prevEnabled := Enabled()
	t.Cleanup(func() {
		SetOutput(prevOut)
		SetEnabled(prevEnabled)
	})

	SetEnabled(false)
	Logf("hidden %d", 1)
	assert.Empty(t, buf.String())

	SetEnabled(true)
	assert.True(t, Enabled())
	Logf("visible %d", 2)
	assert.Contains(t, buf.String(), "[DEBUG ")
	assert.Contains(t, buf.String(), "] visible 2\n")
}
