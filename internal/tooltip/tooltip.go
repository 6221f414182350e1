// Package tooltip tracks the hover detail panel of the commit scatter plot.
package tooltip

import (
	"strconv"

	"github.com/Sumatoshi-tech/locmeta/internal/commits"
	"github.com/Sumatoshi-tech/locmeta/internal/plotpage"
)

// Offset is the distance between the pointer and the panel's top-left corner.
const Offset = 10

// Display layouts for the commit timestamp.
const (
	DateLayout = "Monday, January 2, 2006"
	TimeLayout = "3:04 PM"
)

// Pointer is a pointer position in page coordinates.
type Pointer struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Panel is the rendered state of the detail panel.
type Panel struct {
	Visible  bool    `json:"visible"`
	LinkText string  `json:"linkText,omitempty"`
	Href     string  `json:"href,omitempty"`
	Date     string  `json:"date,omitempty"`
	Time     string  `json:"time,omitempty"`
	Author   string  `json:"author,omitempty"`
	Lines    int     `json:"lines,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// Component converts the panel into a page component with the given id.
func (p Panel) Component(id string) *plotpage.Panel {
	return &plotpage.Panel{
		ID:      id,
		Visible: p.Visible,
		X:       p.X,
		Y:       p.Y,
		Rows: []plotpage.PanelRow{
			{Label: "Commit", Value: p.LinkText, Href: p.Href},
			{Label: "Date", Value: p.Date},
			{Label: "Time", Value: p.Time},
			{Label: "Author", Value: p.Author},
			{Label: "Lines edited", Value: linesLabel(p.Lines)},
		},
	}
}

func linesLabel(n int) string {
	if n == 0 {
		return ""
	}

	return strconv.Itoa(n)
}

// Controller holds one hover session at a time.
type Controller struct {
	panel Panel
}

// New returns a controller with a hidden panel.
func New() *Controller {
	return &Controller{}
}

// Enter starts a hover session over c and fills the panel.
func (t *Controller) Enter(c *commits.Summary, at Pointer) Panel {
	if c == nil {
		return t.Leave()
	}

	t.panel = Panel{
		Visible:  true,
		LinkText: c.ID,
		Href:     c.URL,
		Date:     c.Datetime.Format(DateLayout),
		Time:     c.Datetime.Format(TimeLayout),
		Author:   c.Author,
		Lines:    c.TotalLines,
	}
	t.place(at)

	return t.panel
}

// Move repositions a visible panel. Content is left unchanged.
func (t *Controller) Move(at Pointer) Panel {
	if t.panel.Visible {
		t.place(at)
	}

	return t.panel
}

// Leave ends the hover session and hides the panel.
func (t *Controller) Leave() Panel {
	t.panel = Panel{}

	return t.panel
}

// Panel returns the current panel state.
func (t *Controller) Panel() Panel {
	return t.panel
}

func (t *Controller) place(at Pointer) {
	t.panel.X = at.X + Offset
	t.panel.Y = at.Y + Offset
}
