package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/ytbox/internal/models"
)

var styles = NewPalette(Colors{
	Title:   "#7D56F4",
	OK:      "#04B575",
	Err:     "#FF0000",
	Warn:    "#FFA500",
	Help:    "#626262",
	YouTube: "#FF4E45",
	Spotify: "#1DB954",
})

// Colors names the foreground of every style in a [Palette].
type Colors struct {
	Title, OK, Err, Warn, Help string
	YouTube, Spotify           string
}

// Palette is the stylesheet for terminal output.
type Palette struct {
	title  lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	badges map[models.Provider]lipgloss.Style
}

func NewPalette(c Colors) *Palette {
	return &Palette{
		title: NewBold(c.Title),
		ok:    NewBold(c.OK),
		err:   NewBold(c.Err),
		warn:  NewStyle(c.Warn),
		help:  NewEm(c.Help),
		badges: map[models.Provider]lipgloss.Style{
			models.ProviderYouTube: NewStyle(c.YouTube),
			models.ProviderSpotify: NewStyle(c.Spotify),
		},
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func Title(s string) string { return styles.title.Render(s) }
func OK(s string) string    { return styles.ok.Render(s) }
func Err(s string) string   { return styles.err.Render(s) }
func Warn(s string) string  { return styles.warn.Render(s) }
func Help(s string) string  { return styles.help.Render(s) }

// Badge renders the provider label in its brand color.
func Badge(p models.Provider) string {
	label := "(" + p.Label() + ")"
	if style, ok := styles.badges[p]; ok {
		return style.Render(label)
	}
	return Help(label)
}
