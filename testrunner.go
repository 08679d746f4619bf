package popsheet

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a test script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	Steps []scriptStep `json:"steps"`
}

// Script actions. "toggle" calls the scene's toggle hook, normally a panel's
// Toggle method.
const (
	actionScreenshot = "screenshot"
	actionClick      = "click"
	actionDrag       = "drag"
	actionPress      = "press"
	actionMove       = "move"
	actionRelease    = "release"
	actionWait       = "wait"
	actionToggle     = "toggle"
)

// TestRunner sequences injected input, toggles and screenshots across frames
// for automated visual testing. Attach to a Scene via SetTestRunner.
type TestRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached to a Scene via SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("popsheet: parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("popsheet: parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case actionScreenshot, actionClick, actionDrag, actionPress,
			actionMove, actionRelease, actionWait, actionToggle:
		default:
			return nil, fmt.Errorf("popsheet: parse test script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &TestRunner{steps: script.Steps}, nil
}

// SetTestRunner attaches a TestRunner to the scene. The runner's step method
// is called at the start of every frame, before input.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// step advances the test runner by one frame.
func (r *TestRunner) step(s *Scene) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case actionScreenshot:
		s.Screenshot(st.Label)
	case actionClick:
		s.InjectClick(st.X, st.Y)
	case actionDrag:
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, max(st.Frames, 2))
	case actionPress:
		s.InjectPress(st.X, st.Y)
	case actionMove:
		s.InjectMove(st.X, st.Y)
	case actionRelease:
		s.InjectRelease(st.X, st.Y)
	case actionToggle:
		if s.toggleFunc != nil {
			s.toggleFunc()
		}
	case actionWait:
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}
