package timezone_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeserve/shared/timezone"
)

func TestSetLocation(t *testing.T) {
	t.Cleanup(func() { _ = timezone.SetLocation("UTC") })

	require.NoError(t, timezone.SetLocation("Asia/Jakarta"))
	assert.Equal(t, "Asia/Jakarta", timezone.Location().String())
	assert.Equal(t, "Asia/Jakarta", timezone.Now().Location().String())

	noon := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-06-02 19:00", timezone.Format(noon, "2006-01-02 15:04"))
}

func TestSetLocation_Unknown(t *testing.T) {
	before := timezone.Location()

	require.Error(t, timezone.SetLocation("Mars/Olympus"))
	assert.Equal(t, before, timezone.Location())
}
