package bizcard

import (
	"testing"
	"time"
)

func openState() InteractionState {
	s, _ := Reduce(NewInteractionState(), Open{Data: sampleData()})
	return s
}

func TestReduce_Open(t *testing.T) {
	s := openState()
	if !s.Open || s.Data == nil || s.Data.Name != "Jane Doe" {
		t.Errorf("state = %+v", s)
	}
	if s.Side != Front || s.Variant != Classic || s.Flipping {
		t.Errorf("state = %+v, want classic front at rest", s)
	}
}

func TestReduce_Toggle(t *testing.T) {
	s, eff := Reduce(openState(), Toggle{})
	if s.Side != Back || !s.Flipping || eff != EffectScheduleSettle {
		t.Fatalf("toggle = %+v, %v", s, eff)
	}

	// Flips are ignored until the animation settles.
	again, eff := Reduce(s, Toggle{})
	if again.Side != Back || eff != EffectNone {
		t.Errorf("toggle while flipping = %+v, %v", again, eff)
	}

	s, eff = Reduce(s, Settle{})
	if s.Flipping || eff != EffectNone {
		t.Errorf("settle = %+v, %v", s, eff)
	}
	s, _ = Reduce(s, Toggle{})
	if s.Side != Front {
		t.Errorf("second toggle side = %s, want front", s.Side)
	}
}

func TestReduce_ShowSide(t *testing.T) {
	s, eff := Reduce(openState(), ShowSide{Side: Front})
	if s.Flipping || eff != EffectNone {
		t.Errorf("showing the current side flipped: %+v", s)
	}
	s, eff = Reduce(s, ShowSide{Side: Back})
	if s.Side != Back || eff != EffectScheduleSettle {
		t.Errorf("ShowSide(back) = %+v, %v", s, eff)
	}
}

func TestReduce_Swipe(t *testing.T) {
	tests := []struct {
		name       string
		side       Side
		start, end float64
		flips      bool
	}{
		{"left from front", Front, 200, 100, true},
		{"left from back", Back, 200, 100, false},
		{"right from back", Back, 100, 200, true},
		{"right from front", Front, 100, 200, false},
		{"short left", Front, 150, 100, false},
		{"just past threshold", Front, 150.5, 100, true},
		{"short right", Back, 100, 149, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := openState()
			s.Side = tt.side
			next, eff := Reduce(s, Swipe{Start: tt.start, End: tt.end})
			flipped := next.Side != tt.side
			if flipped != tt.flips {
				t.Errorf("flipped = %v, want %v", flipped, tt.flips)
			}
			if flipped != (eff == EffectScheduleSettle) {
				t.Errorf("effect = %v for flipped = %v", eff, flipped)
			}
		})
	}
}

func TestReduce_DoubleTap(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	s, eff := Reduce(openState(), Tap{At: t0})
	if s.Side != Front || eff != EffectNone {
		t.Fatalf("single tap flipped: %+v", s)
	}
	s, eff = Reduce(s, Tap{At: t0.Add(200 * time.Millisecond)})
	if s.Side != Back || eff != EffectScheduleSettle {
		t.Errorf("double tap = %+v, %v", s, eff)
	}

	slow, _ := Reduce(openState(), Tap{At: t0})
	slow, _ = Reduce(slow, Tap{At: t0.Add(DoubleTapWindow)})
	if slow.Side != Front {
		t.Error("taps a full window apart flipped the card")
	}
}

func TestReduce_SelectVariant(t *testing.T) {
	s, _ := Reduce(openState(), SelectVariant{Variant: Modern})
	if s.Variant != Modern {
		t.Errorf("variant = %s, want modern", s.Variant)
	}
	s, _ = Reduce(s, SelectVariant{Variant: "retro"})
	if s.Variant != Modern {
		t.Errorf("unknown variant changed state to %s", s.Variant)
	}
}

func TestReduce_Close(t *testing.T) {
	s, _ := Reduce(openState(), SelectVariant{Variant: Modern})
	s, _ = Reduce(s, Toggle{})
	s, eff := Reduce(s, Close{})
	if s != NewInteractionState() {
		t.Errorf("close = %+v, want initial state", s)
	}
	if eff != EffectCancelSettle {
		t.Errorf("close during a flip effect = %v, want EffectCancelSettle", eff)
	}

	_, eff = Reduce(openState(), Close{})
	if eff != EffectNone {
		t.Errorf("close at rest effect = %v", eff)
	}
}

func TestReduce_ZeroState(t *testing.T) {
	s, _ := Reduce(InteractionState{}, SelectVariant{Variant: Modern})
	if s.Side != Front || s.Variant != Modern {
		t.Errorf("zero state select = %+v", s)
	}
}

func TestReduce_GesturesIgnoredWhileClosed(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	closed, _ := Reduce(openState(), Close{})
	for _, e := range []Event{
		Toggle{},
		ShowSide{Side: Back},
		Swipe{Start: 200, End: 50},
		Tap{At: t0},
	} {
		s, eff := Reduce(closed, e)
		if s != closed || eff != EffectNone {
			t.Errorf("%T on a closed dialog = %+v, %v", e, s, eff)
		}
	}

	s, _ := Reduce(closed, Tap{At: t0})
	s, _ = Reduce(s, Tap{At: t0.Add(100 * time.Millisecond)})
	if s.Flipping || s.Side != Front {
		t.Errorf("double tap on a closed dialog = %+v", s)
	}
}

func TestPreview_Settles(t *testing.T) {
	p := NewPreview(20 * time.Millisecond)
	defer p.Close()

	p.Dispatch(Open{Data: sampleData()})
	s := p.Dispatch(Toggle{})
	if !s.Flipping || s.Side != Back {
		t.Fatalf("state = %+v", s)
	}

	deadline := time.Now().Add(2 * time.Second)
	for p.State().Flipping {
		if time.Now().After(deadline) {
			t.Fatal("flip never settled")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if p.State().Side != Back {
		t.Errorf("side after settle = %s", p.State().Side)
	}
}

func TestPreview_CloseCancelsSettle(t *testing.T) {
	p := NewPreview(30 * time.Millisecond)
	p.Dispatch(Open{Data: sampleData()})
	p.Dispatch(Toggle{})
	p.Close()

	// Reopen and flip again before the cancelled timer would have fired.
	p.Dispatch(Open{Data: sampleData()})
	p.Dispatch(Toggle{})
	time.Sleep(10 * time.Millisecond)
	if !p.State().Flipping {
		t.Error("a stale timer settled the new flip")
	}
	p.Close()
	if s := p.State(); s.Open || s.Flipping {
		t.Errorf("state after Close = %+v", s)
	}
}

func TestNewPreview_DefaultDelay(t *testing.T) {
	if p := NewPreview(0); p.delay != FlipDelay {
		t.Errorf("delay = %v, want %v", p.delay, FlipDelay)
	}
}
