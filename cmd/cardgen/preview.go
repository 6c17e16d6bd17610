package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	bizcard "github.com/porticus-lab/go-bizcard"
)

// swipeDistance is the travel of a scripted swipe, comfortably past
// bizcard.SwipeThreshold.
const swipeDistance = 120.0

// step is one entry of a preview script: an event to dispatch or a pause.
type step struct {
	name  string
	event bizcard.Event
	wait  time.Duration
}

// runPreview implements the "preview" command. Each event is dispatched to
// a live preview and the resulting state is printed, so flips that are
// dropped mid-animation and settle timers can be observed.
func runPreview(args []string, out io.Writer) error {
	delay := bizcard.FlipDelay
	var script []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-delay":
			i++
			if i >= len(args) {
				return fmt.Errorf("-delay requires a value")
			}
			d, err := parseDuration("-delay", args[i])
			if err != nil {
				return err
			}
			delay = d
		default:
			script = append(script, args[i])
		}
	}
	if len(script) == 0 {
		return fmt.Errorf("no events specified")
	}

	steps, err := parseScript(script, time.Now)
	if err != nil {
		return err
	}

	p := bizcard.NewPreview(delay)
	defer p.Close()
	for _, s := range steps {
		if s.event == nil {
			time.Sleep(s.wait)
			fmt.Fprintf(out, "%-12s %s\n", s.name, describe(p.State()))
			continue
		}
		fmt.Fprintf(out, "%-12s %s\n", s.name, describe(p.Dispatch(s.event)))
	}
	return nil
}

// parseScript turns script words into steps. now stamps tap events; taps
// are stamped when parsed, so consecutive taps count as a double tap.
func parseScript(words []string, now func() time.Time) ([]step, error) {
	steps := make([]step, 0, len(words))
	for _, w := range words {
		s := step{name: w}
		switch w {
		case "open":
			s.event = bizcard.Open{Data: sampleCard()}
		case "close":
			s.event = bizcard.Close{}
		case "toggle":
			s.event = bizcard.Toggle{}
		case "front", "back":
			s.event = bizcard.ShowSide{Side: bizcard.Side(w)}
		case "classic", "modern":
			s.event = bizcard.SelectVariant{Variant: bizcard.Variant(w)}
		case "tap":
			s.event = bizcard.Tap{At: now()}
		case "swipe-left":
			s.event = bizcard.Swipe{Start: swipeDistance, End: 0}
		case "swipe-right":
			s.event = bizcard.Swipe{Start: 0, End: swipeDistance}
		default:
			v, ok := strings.CutPrefix(w, "wait:")
			if !ok {
				return nil, fmt.Errorf("unknown event %q", w)
			}
			d, err := parseDuration(w, v)
			if err != nil {
				return nil, err
			}
			s.wait = d
		}
		steps = append(steps, s)
	}
	return steps, nil
}

func describe(s bizcard.InteractionState) string {
	if !s.Open {
		return "closed"
	}
	state := fmt.Sprintf("open variant=%s side=%s", s.Variant, s.Side)
	if s.Flipping {
		state += " flipping"
	}
	return state
}

// sampleCard is the record shown by scripted previews.
func sampleCard() bizcard.CardData {
	return bizcard.Normalize(bizcard.NormalizeInput{UserID: "preview"})
}
