package entity

import (
	"time"

	"github.com/google/uuid"
)

// PairStatus is the notification state of a single (vendor, consumer) pair.
type PairStatus string

const (
	// PairInactive means the vendor is out of range and no notification is shown.
	PairInactive PairStatus = "inactive"
	// PairActive means a vendor-nearby notification has been delivered and not
	// yet acknowledged or departed.
	PairActive PairStatus = "active"
	// PairSuppressed means the vendor is in range but a policy filter blocks
	// the notification (quiet hours, rating, do-not-disturb).
	PairSuppressed PairStatus = "suppressed"
	// PairCooldown means the pair recently departed or was dismissed and may
	// not re-activate until the cooldown interval elapses.
	PairCooldown PairStatus = "cooldown"
)

// EventKind names the transition events emitted toward the delivery channel.
type EventKind string

const (
	// EventNone indicates a silent transition.
	EventNone EventKind = ""
	// EventVendorNearby fires on an Inactive/Suppressed/Cooldown -> Active transition.
	EventVendorNearby EventKind = "vendor-nearby"
	// EventVendorDeparted fires on an Active -> Cooldown transition caused by range exit.
	EventVendorDeparted EventKind = "vendor-departed"
	// EventVendorUpdated fires when an Active vendor moves but stays in range.
	EventVendorUpdated EventKind = "vendor-updated"
)

// PairState is the explicit per-pair record of the notification state machine.
// It replaces any hidden per-cycle counters: everything the machine needs to
// decide the next transition lives here.
type PairState struct {
	VendorID   uuid.UUID  `json:"vendor_id"`
	ConsumerID uuid.UUID  `json:"consumer_id"`
	Status     PairStatus `json:"status"`

	// Seq increases by one on every transition, giving consumers a per-pair
	// total order of emitted events.
	Seq uint64 `json:"seq"`

	// CooldownUntil is the earliest instant the pair may re-activate.
	CooldownUntil time.Time `json:"cooldown_until"`

	// ActiveNotificationID is the idempotency key of the currently active
	// notification, if any.
	ActiveNotificationID uuid.UUID `json:"active_notification_id"`

	// LastDistanceMeters is the distance computed on the previous evaluation.
	LastDistanceMeters float64 `json:"last_distance_meters"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewPairState creates the lazily-initialized state for a pair seen for the
// first time.
func NewPairState(vendorID, consumerID uuid.UUID) *PairState {
	return &PairState{
		VendorID:   vendorID,
		ConsumerID: consumerID,
		Status:     PairInactive,
	}
}

// PairInput is one proximity evaluation result fed into the state machine.
type PairInput struct {
	DistanceMeters float64
	WithinRadius   bool
	Suppressed     bool
	Now            time.Time
}

// Transition describes the outcome of advancing the state machine one step.
type Transition struct {
	From PairStatus
	To   PairStatus
	Emit EventKind
	Seq  uint64
	At   time.Time
}

// Changed reports whether the step moved the pair to a different status.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// Advance applies one evaluation result to the pair and returns the resulting
// transition. Cooldown is the configured re-activation delay applied on
// departure or dismissal.
//
// The machine emits events only on the transitions below; repeated identical
// inputs are silent except for in-range movement of an Active vendor, which
// yields a vendor-updated refresh.
func (p *PairState) Advance(in PairInput, cooldown time.Duration) Transition {
	from := p.Status
	emit := EventNone

	switch p.Status {
	case PairInactive:
		switch {
		case in.WithinRadius && !in.Suppressed:
			p.Status = PairActive
			emit = EventVendorNearby
		case in.WithinRadius && in.Suppressed:
			p.Status = PairSuppressed
		}

	case PairActive:
		if !in.WithinRadius {
			p.Status = PairCooldown
			p.CooldownUntil = in.Now.Add(cooldown)
			p.ActiveNotificationID = uuid.Nil
			emit = EventVendorDeparted
		} else if in.DistanceMeters != p.LastDistanceMeters {
			emit = EventVendorUpdated
		}

	case PairSuppressed:
		switch {
		case !in.WithinRadius:
			p.Status = PairInactive
		case !in.Suppressed:
			p.Status = PairActive
			emit = EventVendorNearby
		}

	case PairCooldown:
		if !in.Now.Before(p.CooldownUntil) {
			switch {
			case in.WithinRadius && !in.Suppressed:
				p.Status = PairActive
				p.CooldownUntil = time.Time{}
				emit = EventVendorNearby
			case in.WithinRadius && in.Suppressed:
				p.Status = PairSuppressed
				p.CooldownUntil = time.Time{}
			default:
				p.Status = PairInactive
				p.CooldownUntil = time.Time{}
			}
		}
	}

	p.LastDistanceMeters = in.DistanceMeters

	// UpdatedAt marks the last meaningful transition, not the last
	// evaluation, so settled pairs can age out of the tracking table.
	if p.Status != from || emit != EventNone {
		p.Seq++
		p.UpdatedAt = in.Now
	}

	return Transition{From: from, To: p.Status, Emit: emit, Seq: p.Seq, At: in.Now}
}

// Dismiss handles a consumer acknowledgement of the active notification. It
// moves the pair into cooldown without emitting an event.
func (p *PairState) Dismiss(now time.Time, cooldown time.Duration) Transition {
	from := p.Status
	if p.Status != PairActive {
		return Transition{From: from, To: from, Emit: EventNone, Seq: p.Seq, At: now}
	}

	p.Status = PairCooldown
	p.CooldownUntil = now.Add(cooldown)
	p.ActiveNotificationID = uuid.Nil
	p.UpdatedAt = now
	p.Seq++

	return Transition{From: from, To: p.Status, Emit: EventNone, Seq: p.Seq, At: now}
}

// Depart handles the vendor going absent (stale position or session end) as if
// it had left the radius.
func (p *PairState) Depart(now time.Time, cooldown time.Duration) Transition {
	return p.Advance(PairInput{
		DistanceMeters: p.LastDistanceMeters,
		WithinRadius:   false,
		Suppressed:     false,
		Now:            now,
	}, cooldown)
}
