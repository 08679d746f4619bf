package popsheet

// PanelConfig sizes and styles a bottom-sheet panel.
type PanelConfig struct {
	// ScreenWidth and ScreenHeight are the size of the hosting view.
	ScreenWidth  float64
	ScreenHeight float64

	// Height is the popup's full height; Offset is how far below its open
	// position it rests when closed.
	Height float64
	Offset float64

	// Duration of a full open or close transition, in seconds. Zero makes
	// every transition commit the moment it starts, so drags cannot scrub.
	Duration float32

	CornerRadius float64
	OverlayAlpha float64

	Title      string
	ClosedFont *TTFFont
	OpenFont   *TTFFont
}

// DefaultPanelConfig returns the stock phone-sized layout.
func DefaultPanelConfig() PanelConfig {
	return PanelConfig{
		ScreenWidth:  350,
		ScreenHeight: 812,
		Height:       510,
		Offset:       440,
		Duration:     1,
		CornerRadius: 20,
		OverlayAlpha: 0.5,
		Title:        "Reviews",
	}
}

// Title label geometry. The open title starts shrunk and raised; the closed
// title grows and drops as the panel opens.
const (
	closedTitleTop   = 10
	openTitleTop     = 20
	closedTitleScale = 1.6
	openTitleScale   = 0.65
	titleShift       = 15
)

var (
	closedTitleColor = Color{R: 0, G: 0.5898, B: 1, A: 1}
	openTitleColor   = Color{R: 0, G: 0, B: 0, A: 1}
	popupColor       = ColorWhite
)

// PanelLayout owns the nodes of a panel and knows their values in each
// PanelState. It does no animation itself.
type PanelLayout struct {
	cfg PanelConfig

	Root        *Node
	Overlay     *Node
	Popup       *Node
	ClosedTitle *Node
	OpenTitle   *Node

	closedTitleY float64
	openTitleY   float64
}

// NewPanelLayout builds the node tree for a panel in the closed state.
func NewPanelLayout(cfg PanelConfig) *PanelLayout {
	l := &PanelLayout{cfg: cfg}

	l.Root = NewContainer("panel")
	l.Root.Interactable = true

	l.Overlay = NewRect("overlay", cfg.ScreenWidth, cfg.ScreenHeight, ColorBlack)
	l.Root.AddChild(l.Overlay)

	l.Popup = NewRect("popup", cfg.ScreenWidth, cfg.Height, popupColor)
	l.Popup.Corners = CornersTop
	l.Popup.Interactable = true
	l.Root.AddChild(l.Popup)

	l.ClosedTitle = NewText("closed-title", cfg.Title, cfg.ClosedFont)
	l.ClosedTitle.TextBlock.Color = closedTitleColor
	l.closedTitleY = l.centerTitle(l.ClosedTitle, closedTitleTop)
	l.Popup.AddChild(l.ClosedTitle)

	l.OpenTitle = NewText("open-title", cfg.Title, cfg.OpenFont)
	l.OpenTitle.TextBlock.Color = openTitleColor
	l.openTitleY = l.centerTitle(l.OpenTitle, openTitleTop)
	l.Popup.AddChild(l.OpenTitle)

	l.ApplyState(PanelClosed)
	return l
}

// centerTitle pivots a title around its own center, horizontally centered in
// the popup with its top edge at top. Returns the untransformed Y.
func (l *PanelLayout) centerTitle(n *Node, top float64) float64 {
	w, h := nodeDimensions(n)
	n.SetPivot(w/2, h/2)
	n.X = l.cfg.ScreenWidth / 2
	n.Y = top + h/2
	return n.Y
}

// Config returns the configuration the layout was built with.
func (l *PanelLayout) Config() PanelConfig {
	return l.cfg
}

// offsetFor returns the persisted popup offset for a state.
func (l *PanelLayout) offsetFor(state PanelState) float64 {
	if state == PanelOpened {
		return 0
	}
	return l.cfg.Offset
}

// popupY converts an offset below the open position into the popup's Y.
func (l *PanelLayout) popupY(offset float64) float64 {
	return l.cfg.ScreenHeight - l.cfg.Height + offset
}

// Offset returns how far the popup currently sits below its open position.
func (l *PanelLayout) Offset() float64 {
	return l.Popup.Y - l.popupY(0)
}

// SetOffset moves the popup to the given offset below its open position.
func (l *PanelLayout) SetOffset(offset float64) {
	l.Popup.Y = l.popupY(offset)
	l.Popup.MarkDirty()
}

// ApplyState sets every animated property to its value for state at once.
func (l *PanelLayout) ApplyState(state PanelState) {
	l.SetOffset(l.offsetFor(state))
	if state == PanelOpened {
		l.Popup.CornerRadius = l.cfg.CornerRadius
		l.Overlay.SetAlpha(l.cfg.OverlayAlpha)
		l.setTitle(l.ClosedTitle, closedTitleScale, l.closedTitleY+titleShift, 0)
		l.setTitle(l.OpenTitle, 1, l.openTitleY, 1)
		return
	}
	l.Popup.CornerRadius = 0
	l.Overlay.SetAlpha(0)
	l.setTitle(l.ClosedTitle, 1, l.closedTitleY, 1)
	l.setTitle(l.OpenTitle, openTitleScale, l.openTitleY-titleShift, 0)
}

func (l *PanelLayout) setTitle(n *Node, scale, y, alpha float64) {
	n.SetScale(scale, scale)
	n.Y = y
	n.SetAlpha(alpha)
}

// animateLayout records the layout-affecting properties for target: offset,
// corner radius, overlay opacity and both title transforms.
func (l *PanelLayout) animateLayout(a *Animations, target PanelState) {
	a.Float(l.Popup, &l.Popup.Y, l.popupY(l.offsetFor(target)))
	a.Float(l.Popup, &l.Popup.CornerRadius, l.cornerFor(target))
	if target == PanelOpened {
		a.Alpha(l.Overlay, l.cfg.OverlayAlpha)
		a.Scale(l.ClosedTitle, closedTitleScale, closedTitleScale)
		a.Float(l.ClosedTitle, &l.ClosedTitle.Y, l.closedTitleY+titleShift)
		a.Scale(l.OpenTitle, 1, 1)
		a.Float(l.OpenTitle, &l.OpenTitle.Y, l.openTitleY)
		return
	}
	a.Alpha(l.Overlay, 0)
	a.Scale(l.ClosedTitle, 1, 1)
	a.Float(l.ClosedTitle, &l.ClosedTitle.Y, l.closedTitleY)
	a.Scale(l.OpenTitle, openTitleScale, openTitleScale)
	a.Float(l.OpenTitle, &l.OpenTitle.Y, l.openTitleY-titleShift)
}

// animateFadeIn records the title belonging to target fading in.
func (l *PanelLayout) animateFadeIn(a *Animations, target PanelState) {
	a.Alpha(l.titleFor(target), 1)
}

// animateFadeOut records the title of the state being left fading out.
func (l *PanelLayout) animateFadeOut(a *Animations, target PanelState) {
	a.Alpha(l.titleFor(target.Inverse()), 0)
}

func (l *PanelLayout) titleFor(state PanelState) *Node {
	if state == PanelOpened {
		return l.OpenTitle
	}
	return l.ClosedTitle
}

func (l *PanelLayout) cornerFor(state PanelState) float64 {
	if state == PanelOpened {
		return l.cfg.CornerRadius
	}
	return 0
}
