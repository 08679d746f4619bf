package popsheet

import (
	"math"
	"testing"
)

// newInputScene builds a scene with interactable 100x100 rects at the given
// x positions, transforms already applied.
func newInputScene(xs ...float64) (*Scene, []*Node) {
	s := NewScene()
	nodes := make([]*Node, len(xs))
	for i, x := range xs {
		n := NewRect("", 100, 100, ColorWhite)
		n.Interactable = true
		n.X = x
		s.Root().AddChild(n)
		nodes[i] = n
	}
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	return s, nodes
}

// --- HitShape tests ---

func TestHitRectContains(t *testing.T) {
	r := HitRect{X: 10, Y: 20, Width: 100, Height: 50}

	tests := []struct {
		name string
		x, y float64
		want bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"outside left", 5, 40, false},
		{"outside right", 115, 40, false},
		{"outside top", 50, 15, false},
		{"outside bottom", 50, 75, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Contains(tt.x, tt.y); got != tt.want {
				t.Errorf("HitRect.Contains(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestNodeContainsLocal(t *testing.T) {
	rect := NewRect("r", 100, 50, ColorWhite)
	if !nodeContainsLocal(rect, 50, 25) || !nodeContainsLocal(rect, 0, 0) {
		t.Error("rect should contain its interior and corner")
	}
	if nodeContainsLocal(rect, -1, 25) || nodeContainsLocal(rect, 101, 25) {
		t.Error("rect should not contain points outside")
	}

	box := NewContainer("box")
	if nodeContainsLocal(box, 0, 0) {
		t.Error("container without HitShape should not be hit-testable")
	}
	box.HitShape = HitRect{Width: 100, Height: 100}
	if !nodeContainsLocal(box, 50, 50) {
		t.Error("container with HitShape should be hit-testable")
	}
}

// --- Hit test traversal ---

func TestHitTestTopmostNode(t *testing.T) {
	s, nodes := newInputScene(0, 0)
	if hit := s.hitTest(50, 50); hit != nodes[1] {
		t.Errorf("expected topmost node, got %v", hit)
	}
}

func TestHitTestSkipsInvisible(t *testing.T) {
	s, nodes := newInputScene(0, 0)
	nodes[1].Visible = false
	if hit := s.hitTest(50, 50); hit != nodes[0] {
		t.Errorf("expected the visible node, got %v", hit)
	}
}

func TestHitTestSkipsNonInteractableSubtree(t *testing.T) {
	s, nodes := newInputScene(0)
	group := NewContainer("group")
	s.Root().AddChild(group)
	child := NewRect("child", 100, 100, ColorWhite)
	child.Interactable = true
	group.AddChild(child)
	updateWorldTransform(s.root, identityTransform, 1.0, false)

	if hit := s.hitTest(50, 50); hit != nodes[0] {
		t.Errorf("child of a non-interactable group should not be hit, got %v", hit)
	}
	group.Interactable = true
	if hit := s.hitTest(50, 50); hit != child {
		t.Errorf("expected child once group is interactable, got %v", hit)
	}
}

func TestHitTestTransformed(t *testing.T) {
	s, nodes := newInputScene(200)
	if s.hitTest(50, 50) != nil {
		t.Error("expected miss at origin")
	}
	if s.hitTest(250, 50) != nodes[0] {
		t.Error("expected hit at (250, 50)")
	}

	nodes[0].PivotX, nodes[0].PivotY = 50, 50
	nodes[0].X, nodes[0].Y = 50, 50
	nodes[0].Rotation = math.Pi / 4
	nodes[0].MarkDirty()
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	if s.hitTest(50, 50) != nodes[0] {
		t.Error("center of rotated node should hit")
	}
}

// --- Dispatch ---

func TestCallbackOrderSceneThenNode(t *testing.T) {
	s, nodes := newInputScene(0)
	var order []string
	s.OnPointerDown(func(ctx PointerContext) { order = append(order, "scene") })
	nodes[0].OnPointerDown = func(ctx PointerContext) { order = append(order, "node") }

	s.processPointer(0, 50, 50, true, MouseButtonLeft, 0)
	if len(order) != 2 || order[0] != "scene" || order[1] != "node" {
		t.Errorf("order = %v, want [scene node]", order)
	}
}

func TestCallbackHandleRemove(t *testing.T) {
	s, _ := newInputScene(0)
	var count int
	h := s.OnClick(func(ClickContext) { count++ })

	s.processPointer(0, 50, 50, true, MouseButtonLeft, 0)
	s.processPointer(0, 50, 50, false, MouseButtonLeft, 0)
	h.Remove()
	s.processPointer(0, 50, 50, true, MouseButtonLeft, 0)
	s.processPointer(0, 50, 50, false, MouseButtonLeft, 0)

	if count != 1 {
		t.Errorf("click count = %d, want 1", count)
	}
	CallbackHandle{}.Remove() // zero handle is a no-op
}

func TestContextCoordinates(t *testing.T) {
	s, nodes := newInputScene(100)
	nodes[0].UserData = "card"
	var got PointerContext
	nodes[0].OnPointerDown = func(ctx PointerContext) { got = ctx }

	s.processPointer(0, 130, 40, true, MouseButtonRight, ModShift)

	if got.GlobalX != 130 || got.GlobalY != 40 {
		t.Errorf("global = (%v, %v), want (130, 40)", got.GlobalX, got.GlobalY)
	}
	assertNear(t, "LocalX", got.LocalX, 30)
	assertNear(t, "LocalY", got.LocalY, 40)
	if got.Button != MouseButtonRight || got.Modifiers != ModShift || got.UserData != "card" {
		t.Errorf("context = %+v", got)
	}
}

func TestPointerCapture(t *testing.T) {
	s, nodes := newInputScene(0, 200)
	a, b := nodes[0], nodes[1]
	s.CapturePointer(0, b)

	if s.hitTest(50, 50) != a {
		t.Error("hitTest should still return a")
	}
	var received *Node
	s.OnPointerDown(func(ctx PointerContext) { received = ctx.Node })
	s.processPointer(0, 50, 50, true, MouseButtonLeft, 0)
	if received != b {
		t.Errorf("expected captured node b, got %v", received)
	}

	// Release clears the capture automatically.
	s.processPointer(0, 50, 50, false, MouseButtonLeft, 0)
	if s.captured[0] != nil {
		t.Error("capture should be released on pointer up")
	}

	s.CapturePointer(maxPointers, b) // out of range, ignored
	s.ReleasePointer(-1)
}

func TestDragDetection(t *testing.T) {
	s, _ := newInputScene(0)
	var events []string
	s.OnDragStart(func(DragContext) { events = append(events, "dragstart") })
	s.OnDrag(func(DragContext) { events = append(events, "drag") })
	s.OnDragEnd(func(DragContext) { events = append(events, "dragend") })

	s.processPointer(0, 50, 50, true, MouseButtonLeft, 0)
	s.processPointer(0, 52, 52, true, MouseButtonLeft, 0)
	if len(events) != 0 {
		t.Fatalf("expected no events within dead zone, got %v", events)
	}

	s.processPointer(0, 60, 50, true, MouseButtonLeft, 0)
	if len(events) != 2 || events[0] != "dragstart" || events[1] != "drag" {
		t.Fatalf("expected [dragstart drag], got %v", events)
	}

	events = events[:0]
	s.processPointer(0, 60, 50, true, MouseButtonLeft, 0) // stationary
	if len(events) != 0 {
		t.Fatalf("stationary frame fired %v", events)
	}

	s.processPointer(0, 60, 50, false, MouseButtonLeft, 0)
	if len(events) != 1 || events[0] != "dragend" {
		t.Fatalf("expected [dragend], got %v", events)
	}
}

func TestSetDragDeadZone(t *testing.T) {
	s, _ := newInputScene(0)
	s.SetDragDeadZone(0)
	var started bool
	s.OnDragStart(func(DragContext) { started = true })

	s.processPointer(0, 50, 50, true, MouseButtonLeft, 0)
	s.processPointer(0, 51, 50, true, MouseButtonLeft, 0)
	if !started {
		t.Error("a zero dead zone should start a drag on any movement")
	}
}

func TestClickDetection(t *testing.T) {
	s, nodes := newInputScene(0, 200)
	var clicks []*Node
	s.OnClick(func(ctx ClickContext) { clicks = append(clicks, ctx.Node) })

	// Press and release in place.
	s.processPointer(0, 50, 50, true, MouseButtonLeft, 0)
	s.processPointer(0, 50, 50, false, MouseButtonLeft, 0)

	// Dragging suppresses the click.
	s.processPointer(0, 50, 50, true, MouseButtonLeft, 0)
	s.processPointer(0, 80, 50, true, MouseButtonLeft, 0)
	s.processPointer(0, 80, 50, false, MouseButtonLeft, 0)

	// Releasing over a different node is not a click. Dead zone is not
	// crossed because the move happens on the release frame.
	s.processPointer(0, 50, 50, true, MouseButtonLeft, 0)
	s.processPointer(0, 250, 50, false, MouseButtonLeft, 0)

	if len(clicks) != 1 || clicks[0] != nodes[0] {
		t.Errorf("clicks = %v, want one on the first node", clicks)
	}
}

func TestPointerVelocity(t *testing.T) {
	s, _ := newInputScene(0)
	var end DragContext
	s.OnDragEnd(func(ctx DragContext) { end = ctx })

	s.processPointer(0, 50, 10, true, MouseButtonLeft, 0)
	s.processPointer(0, 50, 30, true, MouseButtonLeft, 0)

	// 20px in one 60Hz frame is 1200px/s, smoothed by 0.2.
	_, vy := s.PointerVelocity(0)
	assertNear(t, "vy", vy, 240)

	s.processPointer(0, 50, 30, true, MouseButtonLeft, 0)
	_, vy = s.PointerVelocity(0)
	assertNear(t, "decayed vy", vy, 192)

	s.processPointer(0, 50, 30, false, MouseButtonLeft, 0)
	assertNear(t, "release vy", end.VelocityY, 192)
	assertNear(t, "start y", end.StartY, 10)

	if vx, vy := s.PointerVelocity(-1); vx != 0 || vy != 0 {
		t.Error("unknown pointer should report zero velocity")
	}
}

func TestPressResetsVelocity(t *testing.T) {
	s, _ := newInputScene(0)
	s.processPointer(0, 50, 10, true, MouseButtonLeft, 0)
	s.processPointer(0, 50, 60, true, MouseButtonLeft, 0)
	s.processPointer(0, 50, 60, false, MouseButtonLeft, 0)

	s.processPointer(0, 50, 60, true, MouseButtonLeft, 0)
	if _, vy := s.PointerVelocity(0); vy != 0 {
		t.Errorf("vy after new press = %v, want 0", vy)
	}
}

func BenchmarkHitTestPanel(b *testing.B) {
	s := NewScene()
	NewPanel(s, DefaultPanelConfig())
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	b.ReportAllocs()
	for b.Loop() {
		_ = s.hitTest(175, 780)
	}
}
