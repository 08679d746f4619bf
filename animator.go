package popsheet

import (
	"fmt"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// AnimatorState is the run state of an Animator.
//
//	Inactive --Start/Pause--> Running/Paused --(reaches an end)--> Finished
//	               ^               |
//	               |             Stop --> Stopped --Finish--> Finished
//	               +--Pause/Continue (toggle between Running and Paused)
type AnimatorState uint8

const (
	AnimatorInactive AnimatorState = iota // created, animations not yet recorded
	AnimatorRunning                       // advancing with the frame clock
	AnimatorPaused                        // frozen; fraction may be scrubbed
	AnimatorStopped                       // halted by Stop, awaiting Finish
	AnimatorFinished                      // completions have fired
)

// String returns a human-readable state name.
func (s AnimatorState) String() string {
	switch s {
	case AnimatorInactive:
		return "inactive"
	case AnimatorRunning:
		return "running"
	case AnimatorPaused:
		return "paused"
	case AnimatorStopped:
		return "stopped"
	case AnimatorFinished:
		return "finished"
	default:
		return fmt.Sprintf("AnimatorState(%d)", int(s))
	}
}

// Position is the anchor an animator finished at.
type Position uint8

const (
	PositionEnd     Position = iota // animated values reached their targets
	PositionStart                   // animated values returned to where they began
	PositionCurrent                 // stopped somewhere in between
)

// String returns a human-readable position name.
func (p Position) String() string {
	switch p {
	case PositionEnd:
		return "end"
	case PositionStart:
		return "start"
	case PositionCurrent:
		return "current"
	default:
		return fmt.Sprintf("Position(%d)", int(p))
	}
}

// Animations records the end values of an Animator. It is handed to the
// closure passed to NewAnimator; the current value of each field becomes the
// start value.
type Animations struct {
	tracks []track
}

// Float animates *field to the given value. node, if non-nil, is marked dirty
// whenever the field changes.
func (a *Animations) Float(node *Node, field *float64, to float64) {
	a.tracks = append(a.tracks, track{node: node, field: field, to: to})
}

// Alpha animates node.Alpha.
func (a *Animations) Alpha(node *Node, to float64) {
	a.Float(node, &node.Alpha, to)
}

// Scale animates node.ScaleX and node.ScaleY.
func (a *Animations) Scale(node *Node, sx, sy float64) {
	a.Float(node, &node.ScaleX, sx)
	a.Float(node, &node.ScaleY, sy)
}

// track animates one float64 field between two values. Both tweens have a
// normalised duration of 1 so that Set takes a fraction.
type track struct {
	node   *Node
	field  *float64
	from   float64
	to     float64
	eased  *gween.Tween
	linear *gween.Tween
}

func (t *track) apply(fraction float64, linear bool) {
	var v float64
	switch {
	case fraction <= 0:
		v = t.from
	case fraction >= 1:
		v = t.to
	case t.from == t.to:
		v = t.from
	default:
		tw := t.eased
		if linear {
			tw = t.linear
		}
		cur, _ := tw.Set(float32(fraction))
		v = float64(cur)
	}
	*t.field = v
	if t.node != nil {
		t.node.MarkDirty()
	}
}

// Animator drives a set of properties from their current values to the
// values recorded by its animations closure. It can be paused, scrubbed by
// setting its fraction, reversed in flight and resumed.
//
// Fraction is the animator's progress toward its current target: from start
// (0) to end (1) values, or from end to start once reversed. While running it
// advances with time; the Curve maps it to property space. Animators do not
// tick themselves: call Update every frame.
type Animator struct {
	// Duration is the full start-to-end time in seconds.
	Duration float32

	// Curve is the timing function. Defaults to Linear when nil.
	Curve Curve

	// ScrubsLinearly maps a manually set fraction straight to property
	// space, bypassing the curve, while paused. Defaults to true.
	ScrubsLinearly bool

	animations  func(*Animations)
	tracks      []track
	completions []func(Position)

	state    AnimatorState
	fraction float64
	// scrubbed is true while fraction is expressed in property space (a
	// linear-scrub animator that has been paused).
	scrubbed bool
	reversed bool
	rate     float64 // fraction per second while running
}

// NewAnimator creates an inactive animator. animations is invoked once, when
// the animator is first started or paused, to record its targets.
func NewAnimator(duration float32, curve Curve, animations func(*Animations)) *Animator {
	return &Animator{
		Duration:       duration,
		Curve:          curve,
		ScrubsLinearly: true,
		animations:     animations,
	}
}

// AddCompletion registers fn to run when the animator finishes. Completions
// run in registration order and receive the anchor the animator reached.
func (a *Animator) AddCompletion(fn func(Position)) {
	a.completions = append(a.completions, fn)
}

// State returns the animator's run state.
func (a *Animator) State() AnimatorState {
	return a.state
}

// IsRunning reports whether the animator advances on Update.
func (a *Animator) IsRunning() bool {
	return a.state == AnimatorRunning
}

// Fraction returns the fraction complete in [0, 1], measured in the current
// direction of play. A reversed animator at its end values reports 0.
func (a *Animator) Fraction() float64 {
	if a.reversed {
		return 1 - a.fraction
	}
	return a.fraction
}

// IsReversed reports whether the animator is playing toward its start values.
func (a *Animator) IsReversed() bool {
	return a.reversed
}

// SetReversed changes the direction of play without restarting.
func (a *Animator) SetReversed(reversed bool) {
	if a.state == AnimatorFinished {
		return
	}
	a.reversed = reversed
}

// Start begins or resumes playback at natural speed.
func (a *Animator) Start() {
	switch a.state {
	case AnimatorInactive:
		a.activate()
		a.run(0)
	case AnimatorPaused:
		a.run(0)
	}
}

// Pause freezes the animator. An inactive animator records its animations
// and pauses at fraction 0.
func (a *Animator) Pause() {
	switch a.state {
	case AnimatorInactive:
		a.activate()
	case AnimatorRunning:
	default:
		return
	}
	a.state = AnimatorPaused
	if a.ScrubsLinearly && !a.scrubbed {
		// Switch to property space so that scrubbing from the current
		// fraction shows no jump.
		a.fraction = evalCurve(a.curve(), a.fraction)
		a.scrubbed = true
	}
	a.applyFraction()
}

// SetFraction scrubs the animator to f, clamped to [0, 1] and measured like
// Fraction. Has an effect only while paused or inactive (which pauses it).
func (a *Animator) SetFraction(f float64) {
	if a.state == AnimatorInactive {
		a.Pause()
	}
	if a.state != AnimatorPaused {
		return
	}
	a.fraction = clamp01(f)
	if a.reversed {
		a.fraction = 1 - a.fraction
	}
	a.applyFraction()
}

// Continue resumes a paused animator toward its current target. A
// durationFactor <= 0 plays the remainder at natural speed; otherwise the
// remainder takes durationFactor * Duration seconds.
func (a *Animator) Continue(durationFactor float64) {
	switch a.state {
	case AnimatorPaused, AnimatorRunning:
		a.run(durationFactor)
	}
}

// Stop halts the animator where it is. Completions do not fire until Finish.
func (a *Animator) Stop() {
	switch a.state {
	case AnimatorRunning, AnimatorPaused:
		a.state = AnimatorStopped
	}
}

// Finish completes a stopped animator at the given anchor, writing the
// matching values and firing completions.
func (a *Animator) Finish(at Position) {
	if a.state != AnimatorStopped {
		return
	}
	switch at {
	case PositionEnd:
		a.fraction = 1
	case PositionStart:
		a.fraction = 0
	}
	a.applyFraction()
	a.finish(at)
}

// Update advances a running animator by dt seconds. Completions fire from
// within Update when the animator reaches either end.
func (a *Animator) Update(dt float32) {
	if a.state != AnimatorRunning {
		return
	}
	step := a.rate * float64(dt)
	if a.reversed {
		a.fraction -= step
	} else {
		a.fraction += step
	}

	switch {
	case !a.reversed && a.fraction >= 1:
		a.fraction = 1
		a.applyFraction()
		a.finish(PositionEnd)
	case a.reversed && a.fraction <= 0:
		a.fraction = 0
		a.applyFraction()
		a.finish(PositionStart)
	default:
		a.applyFraction()
	}
}

func (a *Animator) curve() Curve {
	if a.Curve == nil {
		return ease.Linear
	}
	return a.Curve
}

// activate records the animations, capturing current values as start values.
func (a *Animator) activate() {
	var rec Animations
	if a.animations != nil {
		a.animations(&rec)
	}
	fn := a.curve()
	a.tracks = rec.tracks
	for i := range a.tracks {
		t := &a.tracks[i]
		t.from = *t.field
		t.eased = gween.New(float32(t.from), float32(t.to), 1, fn)
		t.linear = gween.New(float32(t.from), float32(t.to), 1, ease.Linear)
	}
	a.state = AnimatorPaused
}

// run puts the animator in the running state, converting a property-space
// fraction back to time and computing the playback rate.
func (a *Animator) run(durationFactor float64) {
	if a.scrubbed {
		a.fraction = invertCurve(a.curve(), a.fraction)
		a.scrubbed = false
	}

	remaining := 1 - a.fraction
	if a.reversed {
		remaining = a.fraction
	}

	switch {
	case a.Duration <= 0:
		a.rate = 0
	case durationFactor <= 0:
		a.rate = 1 / float64(a.Duration)
	case remaining <= 0:
		a.rate = 1 / float64(a.Duration)
	default:
		a.rate = remaining / (durationFactor * float64(a.Duration))
	}
	a.state = AnimatorRunning

	if a.Duration <= 0 {
		if a.reversed {
			a.fraction = 0
		} else {
			a.fraction = 1
		}
		a.applyFraction()
		if a.reversed {
			a.finish(PositionStart)
		} else {
			a.finish(PositionEnd)
		}
		return
	}
	a.applyFraction()
}

func (a *Animator) applyFraction() {
	for i := range a.tracks {
		a.tracks[i].apply(a.fraction, a.scrubbed)
	}
}

func (a *Animator) finish(at Position) {
	if a.state == AnimatorFinished {
		return
	}
	a.state = AnimatorFinished
	a.scrubbed = false
	for _, fn := range a.completions {
		fn(at)
	}
}
