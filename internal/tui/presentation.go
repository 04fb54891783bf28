package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/hay-kot/slides/internal/core/styles"
	"github.com/hay-kot/slides/internal/slideshow"
	"github.com/hay-kot/slides/internal/termimage"
)

const footerHeight = 1

var errAlreadyBound = errors.New("presentation already has an input handler")

var footerButtons = []struct {
	target slideshow.Target
	label  string
}{
	{target: slideshow.TargetPrev, label: "‹ prev"},
	{target: slideshow.TargetNext, label: "next ›"},
	{target: slideshow.TargetClose, label: "✕ close"},
}

// hitbox is the clickable column range [x0, x1) of a footer button.
type hitbox struct {
	target slideshow.Target
	x0, x1 int
}

// presentation renders a running slideshow. It is the slideshow.Viewport the
// controller drives; the root model owns it and forwards input.
type presentation struct {
	title   string
	frames  *termimage.FrameCache
	spinner spinner.Model
	help    help.Model
	keys    helpKeys

	handler  slideshow.InputHandler
	image    *slideshow.Image
	counter  string
	loading  bool
	showHelp bool
	exit     string

	width  int
	height int
}

func newPresentation(title string, frames *termimage.FrameCache) *presentation {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.LoadingStyle

	h := help.New()
	h.ShowAll = true
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(styles.CurrentPalette.Primary)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(styles.CurrentPalette.Foreground)
	h.Styles.FullSeparator = styles.MutedStyle

	return &presentation{
		title:   title,
		frames:  frames,
		spinner: sp,
		help:    h,
	}
}

// Bind implements slideshow.Viewport.
func (p *presentation) Bind(h slideshow.InputHandler) error {
	if h == nil {
		return errors.New("nil input handler")
	}
	if p.handler != nil {
		return errAlreadyBound
	}
	p.handler = h
	return nil
}

// ShowImage implements slideshow.Viewport.
func (p *presentation) ShowImage(img slideshow.Image) {
	p.image = &img
}

// SetCounter implements slideshow.Viewport.
func (p *presentation) SetCounter(text string) {
	p.counter = text
}

// SetLoading implements slideshow.Viewport.
func (p *presentation) SetLoading(loading bool) {
	p.loading = loading
}

// SetHelpVisible implements slideshow.Viewport.
func (p *presentation) SetHelpVisible(visible bool) {
	p.showHelp = visible
}

// Navigate implements slideshow.Viewport. The root model picks the target up
// after the current input has been handled.
func (p *presentation) Navigate(target string) {
	p.exit = target
}

// takeExit returns and clears a pending navigation target.
func (p *presentation) takeExit() string {
	exit := p.exit
	p.exit = ""
	return exit
}

func (p *presentation) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.help.Width = width
}

func (p *presentation) updateSpinner(msg spinner.TickMsg) tea.Cmd {
	var cmd tea.Cmd
	p.spinner, cmd = p.spinner.Update(msg)
	return cmd
}

// handleKey forwards a key press to the bound handler.
func (p *presentation) handleKey(msg tea.KeyMsg) (bool, []slideshow.Task) {
	if p.handler == nil {
		return false, nil
	}
	return p.handler.HandleKey(msg.String())
}

// handleMouse routes a left click to the button under the cursor. Clicks that
// no button stops propagate to the image.
func (p *presentation) handleMouse(msg tea.MouseMsg) []slideshow.Task {
	if p.handler == nil || msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	var tasks []slideshow.Task
	if msg.Y == p.height-footerHeight {
		for _, b := range p.buttons() {
			if msg.X < b.x0 || msg.X >= b.x1 {
				continue
			}
			stop, t := p.handler.HandleClick(b.target)
			tasks = append(tasks, t...)
			if stop {
				return tasks
			}
			break
		}
	}

	if p.exit != "" || !p.onImage(msg.X, msg.Y) {
		return tasks
	}
	_, t := p.handler.HandleClick(slideshow.TargetImage)
	return append(tasks, t...)
}

// imageRect returns the cells covered by the displayed image, centered in the
// image area the way renderImage places it.
func (p *presentation) imageRect() (x, y, w, h int) {
	if p.image == nil || p.image.Pixels == nil {
		return 0, 0, 0, 0
	}
	area := p.imageHeight()
	w, h = termimage.Size(p.image.Pixels.Bounds(), p.width, area)
	return (p.width - w) / 2, (area - h) / 2, w, h
}

// onImage reports whether (x, y) is on the image and not under the help box.
func (p *presentation) onImage(x, y int) bool {
	ix, iy, iw, ih := p.imageRect()
	if x < ix || x >= ix+iw || y < iy || y >= iy+ih {
		return false
	}
	if p.showHelp {
		hx, hy, hw, hh := p.helpRect()
		if x >= hx && x < hx+hw && y >= hy && y < hy+hh {
			return false
		}
	}
	return true
}

func (p *presentation) buttons() []hitbox {
	out := make([]hitbox, 0, len(footerButtons))
	x := 0
	for _, b := range footerButtons {
		w := lipgloss.Width(styles.ButtonStyle.Render(b.label))
		out = append(out, hitbox{target: b.target, x0: x, x1: x + w})
		x += w + 1
	}
	return out
}

func (p *presentation) imageHeight() int {
	return max(p.height-footerHeight, 0)
}

func (p *presentation) View() string {
	if p.width <= 0 || p.height <= 0 {
		return ""
	}

	view := p.renderFooter()
	if h := p.imageHeight(); h > 0 {
		view = p.renderImage(h) + "\n" + view
	}
	if p.showHelp {
		view = p.overlayHelp(view)
	}
	return view
}

func (p *presentation) renderImage(height int) string {
	var content string
	switch {
	case p.image != nil:
		content = p.frames.Render(*p.image, p.width, height)
	case p.loading:
		content = styles.MutedStyle.Render("loading…")
	}
	return lipgloss.Place(p.width, height, lipgloss.Center, lipgloss.Center, content)
}

func (p *presentation) renderFooter() string {
	buttons := make([]string, len(footerButtons))
	for i, b := range footerButtons {
		buttons[i] = styles.ButtonStyle.Render(b.label)
	}
	left := strings.Join(buttons, " ")

	right := styles.CounterStyle.Render(p.counter)
	if p.loading {
		right = p.spinner.View() + " " + right
	}

	middle := ""
	gap := p.width - lipgloss.Width(left) - lipgloss.Width(right)
	if title := "  " + p.title; gap-lipgloss.Width(title) > 0 {
		middle = styles.MutedStyle.Render(title)
		gap -= lipgloss.Width(title)
	}

	line := left + middle + strings.Repeat(" ", max(gap, 1)) + right
	return styles.FooterStyle.Render(ansi.Truncate(line, p.width, ""))
}

func (p *presentation) helpBox() string {
	content := styles.HelpTitleStyle.Render("Keys") + "\n\n" + p.help.View(p.keys)
	return styles.HelpOverlayStyle.Render(content)
}

// helpRect returns the cells the help box covers, anchored top-right.
func (p *presentation) helpRect() (x, y, w, h int) {
	box := p.helpBox()
	w, h = lipgloss.Width(box), lipgloss.Height(box)
	return max(p.width-w-1, 0), 1, w, h
}

func (p *presentation) overlayHelp(view string) string {
	x, y, _, _ := p.helpRect()
	return spliceOverlay(view, strings.Split(p.helpBox(), "\n"), x, y)
}
