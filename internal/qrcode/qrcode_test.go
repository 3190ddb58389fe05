package qrcode_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapidxcel/internal/qrcode"
)

func TestTrackerURL(t *testing.T) {
	tr := qrcode.NewTracker("https://rapidxcel.example/", 0, "")
	assert.Equal(t, "https://rapidxcel.example/track_delivery/42", tr.URL(42))
}

func TestTrackerPNG(t *testing.T) {
	for _, level := range []string{"L", "m", "Q", "H", "bogus"} {
		png, err := qrcode.NewTracker("http://localhost:8080", 128, level).PNG(7)
		require.NoError(t, err, level)
		assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")), level)
	}
}
