package bizcard

import (
	"sync"
	"time"
)

// Preview gesture constants.
const (
	FlipDelay       = 600 * time.Millisecond
	DoubleTapWindow = 300 * time.Millisecond
	SwipeThreshold  = 50.0
)

// InteractionState is the preview dialog state. The zero value is a closed
// dialog showing the classic front.
type InteractionState struct {
	Open     bool
	Data     *CardData
	Variant  Variant
	Side     Side
	Flipping bool
	LastTap  time.Time
}

// NewInteractionState returns the closed initial state.
func NewInteractionState() InteractionState {
	return InteractionState{Variant: Classic, Side: Front}
}

// Event is an input to [Reduce].
type Event interface {
	event()
}

type (
	// Open shows the dialog with freshly generated data.
	Open struct{ Data CardData }
	// Close hides the dialog and resets it.
	Close struct{}
	// Toggle flips the card to its other side.
	Toggle struct{}
	// Settle ends a flip. It is delivered by the driver after FlipDelay.
	Settle struct{}
	// ShowSide flips the card if it is not already showing Side.
	ShowSide struct{ Side Side }
	// SelectVariant switches the preview between variants.
	SelectVariant struct{ Variant Variant }
	// Tap is a single tap on the card.
	Tap struct{ At time.Time }
	// Swipe is a completed horizontal touch gesture, in screen units.
	Swipe struct{ Start, End float64 }
)

func (Open) event()          {}
func (Close) event()         {}
func (Toggle) event()        {}
func (Settle) event()        {}
func (ShowSide) event()      {}
func (SelectVariant) event() {}
func (Tap) event()           {}
func (Swipe) event()         {}

// Effect is a side effect requested by [Reduce] for the driver to perform.
type Effect int

const (
	EffectNone Effect = iota
	// EffectScheduleSettle asks for a Settle event after FlipDelay.
	EffectScheduleSettle
	// EffectCancelSettle asks for any pending Settle to be dropped.
	EffectCancelSettle
)

// Reduce applies e to s. It is pure: timing is carried in the events and
// the returned Effect.
func Reduce(s InteractionState, e Event) (InteractionState, Effect) {
	if s.Side == "" {
		s.Side = Front
	}
	if s.Variant == "" {
		s.Variant = Classic
	}

	// Gestures only reach an open dialog.
	switch e.(type) {
	case Toggle, ShowSide, Tap, Swipe:
		if !s.Open {
			return s, EffectNone
		}
	}

	switch e := e.(type) {
	case Open:
		d := e.Data
		s.Open = true
		s.Data = &d
		return s, EffectNone

	case Close:
		cancel := s.Flipping
		s = NewInteractionState()
		if cancel {
			return s, EffectCancelSettle
		}
		return s, EffectNone

	case Toggle:
		return toggle(s)

	case Settle:
		s.Flipping = false
		return s, EffectNone

	case ShowSide:
		if e.Side == s.Side {
			return s, EffectNone
		}
		return toggle(s)

	case SelectVariant:
		if e.Variant == Classic || e.Variant == Modern {
			s.Variant = e.Variant
		}
		return s, EffectNone

	case Tap:
		double := !s.LastTap.IsZero() && e.At.Sub(s.LastTap) < DoubleTapWindow
		s.LastTap = e.At
		if double {
			return toggle(s)
		}
		return s, EffectNone

	case Swipe:
		distance := e.Start - e.End
		switch {
		case distance > SwipeThreshold && s.Side == Front:
			return toggle(s)
		case distance < -SwipeThreshold && s.Side == Back:
			return toggle(s)
		}
		return s, EffectNone
	}
	return s, EffectNone
}

func toggle(s InteractionState) (InteractionState, Effect) {
	if s.Flipping {
		return s, EffectNone
	}
	s.Flipping = true
	s.Side = s.Side.Opposite()
	return s, EffectScheduleSettle
}

// Preview drives [Reduce] for one dialog and owns its settle timer.
// Events are applied one at a time; it is safe for concurrent use.
type Preview struct {
	mu    sync.Mutex
	state InteractionState
	delay time.Duration
	timer *time.Timer
	// gen invalidates a settle timer that fired after being cancelled.
	gen uint64
}

// NewPreview returns a closed preview. A non-positive delay uses FlipDelay.
func NewPreview(delay time.Duration) *Preview {
	if delay <= 0 {
		delay = FlipDelay
	}
	return &Preview{state: NewInteractionState(), delay: delay}
}

// State returns a snapshot of the current state.
func (p *Preview) State() InteractionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Dispatch applies e and performs the resulting effect.
func (p *Preview) Dispatch(e Event) InteractionState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dispatchLocked(e)
}

func (p *Preview) dispatchLocked(e Event) InteractionState {
	next, eff := Reduce(p.state, e)
	p.state = next
	switch eff {
	case EffectScheduleSettle:
		p.stopTimer()
		gen := p.gen
		p.timer = time.AfterFunc(p.delay, func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.gen != gen {
				return
			}
			p.timer = nil
			p.dispatchLocked(Settle{})
		})
	case EffectCancelSettle:
		p.stopTimer()
	}
	return p.state
}

func (p *Preview) stopTimer() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

// Close closes the dialog and stops any pending timer.
func (p *Preview) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dispatchLocked(Close{})
	p.stopTimer()
}
