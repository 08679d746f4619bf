package popsheet

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// defaultFrameDT is the frame step used before the first Update and in tests.
const defaultFrameDT = 1.0 / 60.0

// Scene is the top-level object that owns the node tree, input state and the
// per-frame update hook.
type Scene struct {
	root  *Node
	debug bool

	// ClearColor fills the screen before drawing. Zero value leaves the
	// screen untouched.
	ClearColor Color

	// ScreenshotDir is where Screenshot writes PNG files.
	ScreenshotDir string

	updateFunc func() error
	toggleFunc func()

	// dt is the duration of the current frame in seconds.
	dt float64

	// Input state
	handlers     handlerRegistry
	captured     [maxPointers]*Node
	pointers     [maxPointers]pointerState
	hitBuf       []*Node
	dragDeadZone float64
	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID

	// Scripted input
	injectQueue     []syntheticPointerEvent
	testRunner      *TestRunner
	screenshotQueue []string

	draw drawBuffers
}

// NewScene creates a new scene with a pre-created root container.
func NewScene() *Scene {
	root := NewContainer("root")
	root.Interactable = true
	return &Scene{
		root:          root,
		dragDeadZone:  defaultDragDeadZone,
		dt:            defaultFrameDT,
		ScreenshotDir: "screenshots",
	}
}

// Root returns the scene's root container node.
func (s *Scene) Root() *Node {
	return s.root
}

// SetUpdateFunc registers a callback invoked once per frame after input has
// been processed. A non-nil error stops the game loop started by Run.
func (s *Scene) SetUpdateFunc(fn func() error) {
	s.updateFunc = fn
}

// SetToggleFunc registers the callback used by the "toggle" test script
// action. Panels register their Toggle method here.
func (s *Scene) SetToggleFunc(fn func()) {
	s.toggleFunc = fn
}

// FrameDT returns the duration of the current frame in seconds.
func (s *Scene) FrameDT() float64 {
	return s.dt
}

// Update advances the scripted runner, processes input and runs the update
// callback.
func (s *Scene) Update() error {
	if tps := ebiten.TPS(); tps > 0 {
		s.dt = 1.0 / float64(tps)
	}
	return s.step(readModifiers(), true)
}

// step is the frame body shared by Update and tests. Real mouse and touch
// devices are only polled when devices is true.
func (s *Scene) step(mods KeyModifiers, devices bool) error {
	if s.testRunner != nil {
		s.testRunner.step(s)
	}

	// Refresh world transforms so hit testing has accurate positions.
	updateWorldTransform(s.root, identityTransform, 1.0, false)

	s.processInput(mods, devices)

	if s.updateFunc != nil {
		return s.updateFunc()
	}
	return nil
}

// Draw clears the screen, renders the node tree and flushes queued
// screenshots.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor != (Color{}) {
		screen.Fill(s.ClearColor.toRGBA())
	}
	updateWorldTransform(s.root, identityTransform, 1.0, false)
	s.drawNode(screen, s.root)
	s.flushScreenshots(screen)
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics and panel transitions are logged to stderr.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that node and
// panel operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool
