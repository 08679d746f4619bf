package popsheet

import "fmt"

// PanelState is the committed resting state of a panel.
type PanelState uint8

const (
	PanelClosed PanelState = iota
	PanelOpened
)

// Inverse returns the other state.
func (s PanelState) Inverse() PanelState {
	if s == PanelOpened {
		return PanelClosed
	}
	return PanelOpened
}

// String returns a human-readable state name.
func (s PanelState) String() string {
	switch s {
	case PanelClosed:
		return "closed"
	case PanelOpened:
		return "opened"
	default:
		return fmt.Sprintf("PanelState(%d)", int(s))
	}
}

// Indices into Panel.running. The primary animator is the source of truth for
// direction and carries the state commit.
const (
	runPrimary = iota
	runFadeIn
	runFadeOut
	runSize
)

// Panel is a draggable bottom sheet. Dragging the popup scrubs an open or
// close transition; releasing it flings the transition to either end. A
// transition interrupted by a new drag is paused and picked up from where it
// is, never restarted.
//
// All methods must be called from the game loop goroutine.
type Panel struct {
	// OnStateChange, if set, is called after every state commit.
	OnStateChange func(PanelState)

	layout  *PanelLayout
	scene   *Scene
	gesture *PanGesture
	state   PanelState

	// running is empty or holds [primary, fade-in, fade-out].
	running []*Animator
	// progress is the fraction of each running animator when the current
	// drag started.
	progress []float64
	// ticking holds every animator that still needs Update, including fades
	// that outlive their run.
	ticking []*Animator
	// tickBuf is the per-frame copy of ticking that Update iterates.
	tickBuf []*Animator
}

// NewPanel builds a closed panel, adds it to the scene's root and attaches a
// pan gesture to the popup. The panel also becomes the scene's toggle target.
func NewPanel(scene *Scene, cfg PanelConfig) *Panel {
	p := &Panel{
		layout: NewPanelLayout(cfg),
		scene:  scene,
		state:  PanelClosed,
	}
	scene.Root().AddChild(p.layout.Root)
	p.gesture = NewPanGesture(p.HandlePan)
	p.gesture.Attach(scene, p.layout.Popup)
	scene.SetToggleFunc(func() { p.Toggle() })
	return p
}

// Layout returns the panel's nodes.
func (p *Panel) Layout() *PanelLayout {
	return p.layout
}

// Gesture returns the pan gesture attached to the popup.
func (p *Panel) Gesture() *PanGesture {
	return p.gesture
}

// State returns the last committed state. It does not change until a
// transition completes.
func (p *Panel) State() PanelState {
	return p.state
}

// Offset returns how far the popup sits below its open position.
func (p *Panel) Offset() float64 {
	return p.layout.Offset()
}

// IsAnimating reports whether a transition is in progress.
func (p *Panel) IsAnimating() bool {
	return len(p.running) > 0
}

// RunCount returns the number of active transitions, 0 or 1.
func (p *Panel) RunCount() int {
	return len(p.running) / runSize
}

// Toggle starts a transition to the opposite state at natural speed. Returns
// false when a transition is already running.
func (p *Panel) Toggle() bool {
	if p.IsAnimating() {
		return false
	}
	p.beginTransition(p.state.Inverse(), p.layout.cfg.Duration)
	return true
}

// HandlePan routes a gesture phase to the coordinator.
func (p *Panel) HandlePan(ev PanEvent) {
	switch ev.Phase {
	case GestureBegan:
		p.onGestureStart()
	case GestureChanged:
		p.onGestureChange(ev.TranslationY)
	case GestureEnded:
		p.onGestureEnd(ev.VelocityY)
	case GestureCancelled:
		p.onGestureEnd(0)
	}
}

// Update advances every animator by dt seconds.
func (p *Panel) Update(dt float64) {
	if len(p.ticking) == 0 {
		return
	}
	// A completion may start a new run, which rewrites ticking. The new run
	// is first ticked next frame so its three animators stay in step.
	p.tickBuf = append(p.tickBuf[:0], p.ticking...)
	for _, a := range p.tickBuf {
		a.Update(float32(dt))
	}
	clear(p.tickBuf)
	kept := p.ticking[:0]
	for _, a := range p.ticking {
		if a.State() != AnimatorFinished {
			kept = append(kept, a)
		}
	}
	clear(p.ticking[len(kept):])
	p.ticking = kept
}

// Detach removes the gesture and drops any transition in progress. The
// panel's nodes are left at their current values.
func (p *Panel) Detach() {
	if p.gesture != nil {
		p.gesture.Detach()
	}
	for _, a := range p.ticking {
		a.Stop()
	}
	p.running = nil
	p.progress = nil
	p.ticking = nil
	if p.scene != nil {
		p.scene.SetToggleFunc(nil)
	}
}

// beginTransition starts the three animators of a transition to target. It
// is a no-op while another transition is running.
func (p *Panel) beginTransition(target PanelState, duration float32) {
	if p.IsAnimating() {
		return
	}
	l := p.layout

	// Fades left over from the previous run would fight the new ones. They
	// jump to their destination so the new run starts from settled values.
	p.finishLeftovers()
	clear(p.ticking)
	p.ticking = p.ticking[:0]

	primary := NewAnimator(duration, CriticallyDamped, func(a *Animations) {
		l.animateLayout(a, target)
	})
	primary.AddCompletion(func(at Position) {
		p.completeTransition(target, at)
	})

	fadeIn := NewAnimator(duration, EaseIn, func(a *Animations) {
		l.animateFadeIn(a, target)
	})
	fadeIn.ScrubsLinearly = false

	fadeOut := NewAnimator(duration, EaseOut, func(a *Animations) {
		l.animateFadeOut(a, target)
	})
	fadeOut.ScrubsLinearly = false

	p.running = []*Animator{primary, fadeIn, fadeOut}
	for _, a := range p.running {
		a.Start()
	}
	p.ticking = append(p.ticking, p.running...)
	debugf("transition %s -> %s (%.2fs)", p.state, target, duration)
}

// finishLeftovers drives every animator still ticking to the end it is
// heading for.
func (p *Panel) finishLeftovers() {
	for _, a := range p.ticking {
		at := PositionEnd
		if a.IsReversed() {
			at = PositionStart
		}
		a.Stop()
		a.Finish(at)
	}
}

// completeTransition commits the state the primary animator reached.
func (p *Panel) completeTransition(target PanelState, at Position) {
	switch at {
	case PositionStart:
		p.state = target.Inverse()
	case PositionEnd:
		p.state = target
	}
	p.layout.SetOffset(p.layout.offsetFor(p.state))
	p.running = nil
	p.progress = nil
	debugf("committed %s at %s", p.state, at)
	if p.OnStateChange != nil {
		p.OnStateChange(p.state)
	}
}

func (p *Panel) onGestureStart() {
	if !p.IsAnimating() {
		p.beginTransition(p.state.Inverse(), p.layout.cfg.Duration)
	}
	p.progress = p.progress[:0]
	for _, a := range p.running {
		a.Pause()
		p.progress = append(p.progress, a.Fraction())
	}
}

// gestureFraction converts a vertical drag into progress along the running
// transition. Upward drags open the panel.
func (p *Panel) gestureFraction(translationY float64) float64 {
	fraction := -translationY / p.layout.cfg.Offset
	if p.state == PanelOpened {
		fraction = -fraction
	}
	if p.running[runPrimary].IsReversed() {
		fraction = -fraction
	}
	return fraction
}

func (p *Panel) onGestureChange(translationY float64) {
	if !p.IsAnimating() || len(p.progress) != len(p.running) {
		return
	}
	fraction := p.gestureFraction(translationY)
	for i, a := range p.running {
		a.SetFraction(fraction + p.progress[i])
	}
}

func (p *Panel) onGestureEnd(velocityY float64) {
	if !p.IsAnimating() {
		return
	}
	if velocityY == 0 {
		debugf("release without velocity, resuming toward current target")
		p.continueAll()
		return
	}

	// Reversed means heading back to the committed state.
	shouldClose := velocityY > 0
	reversed := p.running[runPrimary].IsReversed()
	var wantReversed bool
	switch p.state {
	case PanelOpened:
		wantReversed = !shouldClose
	case PanelClosed:
		wantReversed = shouldClose
	}
	if reversed != wantReversed {
		for _, a := range p.running {
			a.SetReversed(!reversed)
		}
	}
	debugf("release vy=%.1f close=%t reversed=%t", velocityY, shouldClose, wantReversed)
	p.continueAll()
}

func (p *Panel) continueAll() {
	// The primary may finish inside Continue and clear p.running.
	run := p.running
	for _, a := range run {
		a.Continue(0)
	}
}
