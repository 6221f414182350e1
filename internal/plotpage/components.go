package plotpage

import (
	"fmt"
	"html/template"
	"io"
	"strconv"
)

// Text renders plain text content.
type Text struct {
	Content string
}

// NewText creates a new text block.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// Render writes the text content.
func (t *Text) Render(w io.Writer) error {
	_, err := w.Write([]byte(template.HTMLEscapeString(t.Content)))
	if err != nil {
		return fmt.Errorf("writing text: %w", err)
	}

	return nil
}

// Raw is a Renderable that writes pre-rendered, trusted HTML.
type Raw template.HTML

// Render writes the raw HTML content.
func (r Raw) Render(w io.Writer) error {
	_, err := w.Write([]byte(r))
	if err != nil {
		return fmt.Errorf("write raw html: %w", err)
	}

	return nil
}

// Stack renders its items one after another.
type Stack []Renderable

// Render writes every item in order, skipping nil entries.
func (s Stack) Render(w io.Writer) error {
	for _, item := range s {
		if item == nil {
			continue
		}

		err := item.Render(w)
		if err != nil {
			return err
		}
	}

	return nil
}

// DefinitionItem is one term/detail pair of a definition list.
type DefinitionItem struct {
	Term   string
	Title  string // Optional; renders the term as an abbreviation.
	Detail string
}

// Definitions renders a <dl> of term/detail pairs.
type Definitions struct {
	ID    string
	Class string
	Items []DefinitionItem
}

// NewDefinitions creates a definition list.
func NewDefinitions(id, class string, items ...DefinitionItem) *Definitions {
	return &Definitions{ID: id, Class: class, Items: items}
}

// Render writes the definition list HTML.
func (d *Definitions) Render(w io.Writer) error {
	html, err := renderTemplate("definitions.html", definitionsData{
		ID:    d.ID,
		Class: d.Class,
		Items: d.Items,
	})
	if err != nil {
		return err
	}

	_, err = w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing definitions: %w", err)
	}

	return nil
}

// PanelRow is one labelled line of a floating panel. A non-empty Href
// renders the value as a link.
type PanelRow struct {
	Label string
	Value string
	Href  string
}

// Panel renders an absolutely positioned detail panel.
type Panel struct {
	ID      string
	Visible bool
	X, Y    float64
	Rows    []PanelRow
}

// Render writes the panel HTML. Hidden panels keep their markup so a
// client script can reveal them.
func (p *Panel) Render(w io.Writer) error {
	html, err := renderTemplate("panel.html", panelData{
		ID:      p.ID,
		Hidden:  !p.Visible,
		Left:    pixels(p.X),
		Top:     pixels(p.Y),
		Rows:    p.Rows,
		Classes: "info tooltip",
	})
	if err != nil {
		return err
	}

	_, err = w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing panel: %w", err)
	}

	return nil
}

func pixels(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64) + "px"
}

// Block wraps content in a <div> so client scripts can address it by id.
type Block struct {
	ID    string
	Class string
	Body  Renderable
}

// Render writes the wrapper and its body.
func (b *Block) Render(w io.Writer) error {
	_, err := fmt.Fprintf(w, `<div id="%s" class="%s">`,
		template.HTMLEscapeString(b.ID), template.HTMLEscapeString(b.Class))
	if err != nil {
		return fmt.Errorf("writing block: %w", err)
	}

	if b.Body != nil {
		err = b.Body.Render(w)
		if err != nil {
			return err
		}
	}

	_, err = io.WriteString(w, "</div>")
	if err != nil {
		return fmt.Errorf("writing block: %w", err)
	}

	return nil
}
