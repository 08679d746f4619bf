// Package popsheet is a draggable bottom-sheet panel for [Ebitengine].
//
// A [Panel] owns a popup that rests mostly offscreen. Dragging it scrubs an
// open or close transition, and releasing it flings the transition to
// whichever end the release velocity points at. Grabbing the popup while it
// is still moving pauses the running transition and continues from the
// current frame. Nothing restarts.
//
// Each transition is three [Animator] values started together: a
// critically damped primary that moves the popup, rounds its corners, dims
// the overlay and transforms the titles, plus an ease-in fade for the title
// being revealed and an ease-out fade for the one being hidden. The three
// share one scrub position and one direction. Only the primary commits the
// panel's [PanelState], from the end it actually reached.
//
// # Quick start
//
//	scene := popsheet.NewScene()
//	panel := popsheet.NewPanel(scene, popsheet.DefaultPanelConfig())
//	scene.SetUpdateFunc(func() error {
//		panel.Update(scene.FrameDT())
//		return nil
//	})
//	popsheet.Run(scene, popsheet.RunConfig{Title: "Sheet", Width: 350, Height: 812})
//
// # Scene graph and input
//
// Panels live in a small retained node tree ([Node], [Scene]) with rect and
// text nodes, dirty-flagged transforms and per-pointer input. [PanGesture]
// turns a node's pointer callbacks into Began, Changed and Ended phases, and
// by default reports Began on first contact rather than after the drag dead
// zone.
//
// # Scripted input
//
// [Scene.InjectPress], [Scene.InjectDrag] and friends queue synthetic pointer
// events, one per frame. [LoadTestScript] reads a JSON script of clicks,
// drags, waits, toggles and screenshots:
//
//	{"steps": [
//	  {"action": "drag", "fromX": 175, "fromY": 760, "toX": 175, "toY": 300, "frames": 12},
//	  {"action": "wait", "frames": 90},
//	  {"action": "screenshot", "label": "opened"},
//	  {"action": "toggle"}
//	]}
//
// # Debug mode
//
// [Scene.SetDebugMode] logs transitions and release decisions to stderr with
// a "[popsheet]" prefix and panics on use of disposed nodes.
//
// [Ebitengine]: https://ebitengine.org
package popsheet
