package entity

import (
	"time"

	"farmradar/internal/errors"

	"github.com/google/uuid"
)

// ErrMalformedPreferences is returned when stored preferences fail validation.
// The pipeline treats such consumers as disabled for the current cycle.
var ErrMalformedPreferences = errors.New("malformed consumer preferences")

// QuietHours is a wall-clock time-of-day window during which notifications
// are suppressed. The window may span midnight (start=22:00, end=08:00).
type QuietHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"` // "HH:MM"
	End     string `json:"end"`   // "HH:MM"
}

const quietHoursLayout = "15:04"

// Contains reports whether the given instant falls inside the quiet-hours
// window. The comparison uses minute-of-day arithmetic so windows that wrap
// midnight are handled correctly. Malformed bounds yield false.
func (q QuietHours) Contains(now time.Time) bool {
	if !q.Enabled {
		return false
	}

	start, err := minuteOfDay(q.Start)
	if err != nil {
		return false
	}
	end, err := minuteOfDay(q.End)
	if err != nil {
		return false
	}
	if start == end {
		// Zero-length window.
		return false
	}

	current := now.Hour()*60 + now.Minute()
	if start < end {
		return current >= start && current < end
	}

	// Window wraps midnight.
	return current >= start || current < end
}

// Validate reports whether the window bounds parse as HH:MM.
func (q QuietHours) Validate() error {
	if !q.Enabled {
		return nil
	}
	if _, err := minuteOfDay(q.Start); err != nil {
		return errors.Wrapf(ErrMalformedPreferences, "quiet hours start %q", q.Start)
	}
	if _, err := minuteOfDay(q.End); err != nil {
		return errors.Wrapf(ErrMalformedPreferences, "quiet hours end %q", q.End)
	}

	return nil
}

func minuteOfDay(s string) (int, error) {
	t, err := time.Parse(quietHoursLayout, s)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	return t.Hour()*60 + t.Minute(), nil
}

// ConsumerPreferences controls whether and when a consumer receives
// vendor-nearby notifications. Owned by the consumer profile; the proximity
// pipeline reads it as input only.
type ConsumerPreferences struct {
	ConsumerID    uuid.UUID  `json:"consumer_id"`
	Enabled       bool       `json:"enabled"`
	RadiusMeters  float64    `json:"radius_meters"`
	QuietHours    QuietHours `json:"quiet_hours"`
	MinimumRating float64    `json:"minimum_rating"`
	DoNotDisturb  bool       `json:"do_not_disturb"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Validate rejects preferences that cannot be applied safely. Callers treat a
// failing consumer as disabled for the cycle rather than guessing intent.
func (p *ConsumerPreferences) Validate() error {
	if p.RadiusMeters <= 0 {
		return errors.Wrap(ErrMalformedPreferences, "radius must be positive")
	}
	if p.MinimumRating < 0 {
		return errors.Wrap(ErrMalformedPreferences, "minimum rating must be non-negative")
	}

	return p.QuietHours.Validate()
}

// SuppressedAt evaluates the suppression policy for the given instant and
// vendor rating. Notifications fire only when the consumer has notifications
// enabled, is not in do-not-disturb, is outside quiet hours, and the vendor
// meets the minimum rating.
func (p *ConsumerPreferences) SuppressedAt(now time.Time, vendorRating float64) bool {
	if !p.Enabled || p.DoNotDisturb {
		return true
	}
	if p.QuietHours.Contains(now) {
		return true
	}

	return vendorRating < p.MinimumRating
}

// DefaultConsumerPreferences returns the preferences applied to consumers who
// never configured any.
func DefaultConsumerPreferences(consumerID uuid.UUID, radiusMeters float64) *ConsumerPreferences {
	return &ConsumerPreferences{
		ConsumerID:   consumerID,
		Enabled:      true,
		RadiusMeters: radiusMeters,
		QuietHours: QuietHours{
			Enabled: false,
			Start:   "22:00",
			End:     "08:00",
		},
		MinimumRating: 0,
		DoNotDisturb:  false,
		UpdatedAt:     time.Now(),
	}
}
