package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"

	"github.com/hay-kot/slides/internal/core/config"
	"github.com/hay-kot/slides/internal/core/styles"
)

// deckItem is a list entry for a configured deck.
type deckItem struct {
	deck config.Deck
}

func (i deckItem) Title() string {
	return i.deck.DisplayTitle()
}

func (i deckItem) Description() string {
	if line, _, _ := strings.Cut(strings.TrimSpace(i.deck.Description), "\n"); line != "" {
		return strings.TrimLeft(line, "# ")
	}
	return sourceSummary(i.deck)
}

func (i deckItem) FilterValue() string {
	return i.deck.Name + " " + i.deck.Title
}

func sourceSummary(d config.Deck) string {
	var parts []string
	if n := len(d.Images); n > 0 {
		parts = append(parts, fmt.Sprintf("%d images", n))
	}
	if d.Manifest != "" {
		parts = append(parts, "manifest "+d.Manifest)
	}
	if d.Dir != "" {
		parts = append(parts, "dir "+d.Dir)
	}
	return strings.Join(parts, ", ")
}

// deckIndex is the deck picker a closed presentation returns to.
type deckIndex struct {
	list   list.Model
	status string

	width        int
	height       int
	previewWidth int
	previews     map[string]string // rendered markdown by deck name
}

func deckItems(decks []config.Deck) []list.Item {
	items := make([]list.Item, len(decks))
	for i, d := range decks {
		items[i] = deckItem{deck: d}
	}
	return items
}

func newDeckIndex(decks []config.Deck) *deckIndex {
	items := deckItems(decks)

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(styles.CurrentPalette.Primary).
		BorderForeground(styles.CurrentPalette.Primary)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(styles.CurrentPalette.Secondary).
		BorderForeground(styles.CurrentPalette.Primary)

	l := list.New(items, delegate, 0, 0)
	l.Title = "slides"
	l.Styles.Title = styles.IndexTitleStyle
	l.SetStatusBarItemName("deck", "decks")

	return &deckIndex{
		list:     l,
		previews: make(map[string]string),
	}
}

func (d *deckIndex) SetSize(width, height int) {
	d.width = width
	d.height = height

	listWidth := max(width/2, min(width, 32))
	d.list.SetSize(listWidth, max(height-1, 0))

	if pw := width - listWidth - 2; pw != d.previewWidth {
		d.previewWidth = pw
		clear(d.previews)
	}
}

// setDecks replaces the listed decks, keeping the cursor where possible.
func (d *deckIndex) setDecks(decks []config.Deck) tea.Cmd {
	clear(d.previews)
	d.status = ""
	return d.list.SetItems(deckItems(decks))
}

func (d *deckIndex) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	d.list, cmd = d.list.Update(msg)
	return cmd
}

func (d *deckIndex) filtering() bool {
	return d.list.FilterState() == list.Filtering
}

func (d *deckIndex) selected() (config.Deck, bool) {
	item, ok := d.list.SelectedItem().(deckItem)
	if !ok {
		return config.Deck{}, false
	}
	return item.deck, true
}

func (d *deckIndex) setStatus(format string, args ...any) {
	d.status = fmt.Sprintf(format, args...)
}

func (d *deckIndex) View() string {
	body := d.list.View()
	if d.previewWidth > 10 {
		preview := styles.PreviewStyle.
			Width(d.previewWidth).
			Height(max(d.height-1, 0)).
			Render(d.preview())
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, preview)
	}

	status := ""
	if d.status != "" {
		status = styles.IndexStatusStyle.Render(d.status)
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, status)
}

func (d *deckIndex) preview() string {
	deck, ok := d.selected()
	if !ok {
		return ""
	}
	if out, ok := d.previews[deck.Name]; ok {
		return out
	}

	md := "# " + deck.DisplayTitle() + "\n\n"
	if deck.Description != "" {
		md += deck.Description + "\n\n"
	}
	md += "_" + sourceSummary(deck) + "_\n"

	out := md
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styles.CurrentPalette.Glamour),
		glamour.WithWordWrap(max(d.previewWidth-4, 10)),
	)
	if err == nil {
		out, err = r.Render(md)
	}
	if err != nil {
		log.Debug().Err(err).Str("deck", deck.Name).Msg("render deck description")
		out = md
	}

	out = strings.TrimSpace(out)
	d.previews[deck.Name] = out
	return out
}
