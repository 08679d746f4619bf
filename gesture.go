package popsheet

import "fmt"

// GesturePhase is the lifecycle phase of a continuous gesture.
type GesturePhase uint8

const (
	GesturePossible  GesturePhase = iota // idle, no pointer tracked
	GestureBegan                         // first contact (immediate) or first movement
	GestureChanged                       // pointer moved while active
	GestureEnded                         // pointer released
	GestureCancelled                     // gesture aborted by Cancel
)

// String returns a human-readable phase name.
func (p GesturePhase) String() string {
	switch p {
	case GesturePossible:
		return "possible"
	case GestureBegan:
		return "began"
	case GestureChanged:
		return "changed"
	case GestureEnded:
		return "ended"
	case GestureCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("GesturePhase(%d)", int(p))
	}
}

// PanEvent is delivered to a PanGesture handler on every phase change.
// Translation is cumulative since the press; velocity is in pixels per second.
type PanEvent struct {
	Phase        GesturePhase
	TranslationX float64
	TranslationY float64
	VelocityX    float64
	VelocityY    float64
	PointerID    int
}

// PanGesture turns the pointer callbacks of a node into Began/Changed/Ended
// phases. With Immediate set (the default), Began fires on first contact
// instead of after the scene's drag dead zone.
type PanGesture struct {
	// Immediate reports Began on pointer down rather than on drag start.
	Immediate bool

	// OnPan receives every phase. It must not be nil once attached.
	OnPan func(PanEvent)

	scene   *Scene
	node    *Node
	phase   GesturePhase
	pointer int
	startX  float64
	startY  float64
	lastX   float64
	lastY   float64
}

// NewPanGesture creates an immediate-start pan gesture reporting to fn.
func NewPanGesture(fn func(PanEvent)) *PanGesture {
	return &PanGesture{Immediate: true, OnPan: fn, pointer: -1}
}

// Attach installs the gesture on node, replacing the node's pointer-down,
// pointer-up and drag callbacks. The node is made interactable.
func (g *PanGesture) Attach(scene *Scene, node *Node) {
	g.scene = scene
	g.node = node
	node.Interactable = true
	node.OnPointerDown = g.pointerDown
	node.OnPointerUp = g.pointerUp
	node.OnDragStart = g.dragStart
	node.OnDrag = g.drag
	node.OnDragEnd = g.dragEnd
}

// Detach removes the gesture's callbacks from its node. An active gesture is
// cancelled first.
func (g *PanGesture) Detach() {
	if g.node == nil {
		return
	}
	g.Cancel()
	g.node.OnPointerDown = nil
	g.node.OnPointerUp = nil
	g.node.OnDragStart = nil
	g.node.OnDrag = nil
	g.node.OnDragEnd = nil
	g.node = nil
	g.scene = nil
}

// Phase returns the phase last reported to OnPan, or GesturePossible when idle.
func (g *PanGesture) Phase() GesturePhase {
	return g.phase
}

// Active reports whether a gesture is in progress.
func (g *PanGesture) Active() bool {
	return g.phase == GestureBegan || g.phase == GestureChanged
}

// Cancel ends an active gesture with GestureCancelled. No-op when idle.
func (g *PanGesture) Cancel() {
	if !g.Active() {
		return
	}
	if g.scene != nil {
		g.scene.ReleasePointer(g.pointer)
	}
	g.emit(GestureCancelled, g.lastX-g.startX, g.lastY-g.startY, 0, 0)
	g.reset()
}

func (g *PanGesture) pointerDown(ctx PointerContext) {
	if g.phase != GesturePossible {
		// Already tracking another pointer; Began fires once per gesture.
		return
	}
	g.pointer = ctx.PointerID
	g.startX, g.startY = ctx.GlobalX, ctx.GlobalY
	g.lastX, g.lastY = ctx.GlobalX, ctx.GlobalY
	if g.scene != nil {
		g.scene.CapturePointer(ctx.PointerID, g.node)
	}
	if g.Immediate {
		g.begin()
	}
}

func (g *PanGesture) dragStart(ctx DragContext) {
	if ctx.PointerID != g.pointer {
		return
	}
	if g.phase == GesturePossible && g.pointer >= 0 {
		g.begin()
	}
}

func (g *PanGesture) drag(ctx DragContext) {
	if ctx.PointerID != g.pointer || !g.Active() {
		return
	}
	g.lastX, g.lastY = ctx.GlobalX, ctx.GlobalY
	g.emit(GestureChanged, ctx.GlobalX-g.startX, ctx.GlobalY-g.startY, ctx.VelocityX, ctx.VelocityY)
}

func (g *PanGesture) dragEnd(ctx DragContext) {
	if ctx.PointerID != g.pointer || !g.Active() {
		return
	}
	g.lastX, g.lastY = ctx.GlobalX, ctx.GlobalY
	g.emit(GestureEnded, ctx.GlobalX-g.startX, ctx.GlobalY-g.startY, ctx.VelocityX, ctx.VelocityY)
	g.reset()
}

// pointerUp ends gestures that never left the dead zone. Those report zero
// velocity.
func (g *PanGesture) pointerUp(ctx PointerContext) {
	if ctx.PointerID != g.pointer {
		return
	}
	if g.Active() {
		g.emit(GestureEnded, ctx.GlobalX-g.startX, ctx.GlobalY-g.startY, 0, 0)
	}
	g.reset()
}

func (g *PanGesture) begin() {
	g.emit(GestureBegan, 0, 0, 0, 0)
}

func (g *PanGesture) emit(phase GesturePhase, tx, ty, vx, vy float64) {
	g.phase = phase
	if g.OnPan == nil {
		return
	}
	g.OnPan(PanEvent{
		Phase:        phase,
		TranslationX: tx,
		TranslationY: ty,
		VelocityX:    vx,
		VelocityY:    vy,
		PointerID:    g.pointer,
	})
}

func (g *PanGesture) reset() {
	g.phase = GesturePossible
	g.pointer = -1
}
