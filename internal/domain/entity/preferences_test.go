package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestQuietHours_WrapsMidnight(t *testing.T) {
	quiet := QuietHours{Enabled: true, Start: "22:00", End: "08:00"}

	assert.True(t, quiet.Contains(at(23, 30)))
	assert.True(t, quiet.Contains(at(6, 0)))
	assert.True(t, quiet.Contains(at(22, 0)))
	assert.False(t, quiet.Contains(at(12, 0)))
	assert.False(t, quiet.Contains(at(8, 0)))
}

func TestQuietHours_SameDayWindow(t *testing.T) {
	quiet := QuietHours{Enabled: true, Start: "13:00", End: "15:00"}

	assert.True(t, quiet.Contains(at(14, 0)))
	assert.False(t, quiet.Contains(at(15, 0)))
	assert.False(t, quiet.Contains(at(12, 59)))
}

func TestQuietHours_Disabled(t *testing.T) {
	quiet := QuietHours{Enabled: false, Start: "22:00", End: "08:00"}

	assert.False(t, quiet.Contains(at(23, 30)))
}

func TestQuietHours_ZeroLengthWindow(t *testing.T) {
	quiet := QuietHours{Enabled: true, Start: "10:00", End: "10:00"}

	assert.False(t, quiet.Contains(at(10, 0)))
}

func TestQuietHours_MalformedBounds(t *testing.T) {
	quiet := QuietHours{Enabled: true, Start: "25:99", End: "08:00"}

	assert.False(t, quiet.Contains(at(23, 30)))
	assert.Error(t, quiet.Validate())
}

func TestConsumerPreferences_SuppressedAt(t *testing.T) {
	base := func() *ConsumerPreferences {
		return &ConsumerPreferences{
			ConsumerID:   uuid.New(),
			Enabled:      true,
			RadiusMeters: 1000,
			QuietHours:   QuietHours{Enabled: true, Start: "22:00", End: "08:00"},
		}
	}

	t.Run("enabled outside quiet hours", func(t *testing.T) {
		assert.False(t, base().SuppressedAt(at(12, 0), 4.5))
	})

	t.Run("disabled", func(t *testing.T) {
		prefs := base()
		prefs.Enabled = false
		assert.True(t, prefs.SuppressedAt(at(12, 0), 4.5))
	})

	t.Run("do not disturb", func(t *testing.T) {
		prefs := base()
		prefs.DoNotDisturb = true
		assert.True(t, prefs.SuppressedAt(at(12, 0), 4.5))
	})

	t.Run("inside quiet hours", func(t *testing.T) {
		assert.True(t, base().SuppressedAt(at(23, 30), 4.5))
	})

	t.Run("vendor rating below minimum", func(t *testing.T) {
		prefs := base()
		prefs.MinimumRating = 4.5
		assert.True(t, prefs.SuppressedAt(at(12, 0), 4.0))
		assert.False(t, prefs.SuppressedAt(at(12, 0), 4.5))
	})
}

func TestConsumerPreferences_Validate(t *testing.T) {
	prefs := DefaultConsumerPreferences(uuid.New(), 1000)
	require.NoError(t, prefs.Validate())

	prefs.RadiusMeters = 0
	assert.Error(t, prefs.Validate())

	prefs.RadiusMeters = 500
	prefs.MinimumRating = -1
	assert.Error(t, prefs.Validate())
}

func TestDefaultConsumerPreferences(t *testing.T) {
	consumerID := uuid.New()
	prefs := DefaultConsumerPreferences(consumerID, 1000)

	assert.Equal(t, consumerID, prefs.ConsumerID)
	assert.True(t, prefs.Enabled)
	assert.InDelta(t, 1000, prefs.RadiusMeters, 0.001)
	assert.False(t, prefs.QuietHours.Enabled)
	assert.False(t, prefs.SuppressedAt(at(23, 30), 0))
}
