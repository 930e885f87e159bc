package ocr

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/ironsheep/ocr-overlay/internal/geometry"
)

// lineClasses are the hOCR classes Tesseract uses for a line of text.
var lineClasses = map[string]bool{
	"ocr_line":      true,
	"ocr_caption":   true,
	"ocr_header":    true,
	"ocr_textfloat": true,
}

const wordClass = "ocrx_word"

// hocrTitle holds the properties of an hOCR title attribute.
type hocrTitle struct {
	bbox      geometry.Rect
	hasBBox   bool
	wconf     float64
	textangle float64
	hasAngle  bool
}

// parseTitle reads "bbox 36 92 96 132; x_wconf 96; textangle 90".
func parseTitle(title string) hocrTitle {
	var t hocrTitle
	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(prop)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "bbox":
			if len(fields) != 5 {
				continue
			}
			var c [4]float64
			ok := true
			for i := range c {
				v, err := strconv.ParseFloat(fields[i+1], 64)
				if err != nil {
					ok = false
					break
				}
				c[i] = v
			}
			if ok {
				t.bbox = geometry.FromCorners(c[0], c[1], c[2], c[3])
				t.hasBBox = true
			}
		case "x_wconf":
			if len(fields) == 2 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					t.wconf = v / 100.0
				}
			}
		case "textangle":
			if len(fields) == 2 {
				if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
					t.textangle = v
					t.hasAngle = true
				}
			}
		}
	}
	return t
}

// ParseHOCR extracts lines and words from Tesseract hOCR output.
//
// Words outside of any line element are grouped into a line of their own.
// Words without a bbox or with blank text are skipped, as are lines left
// without words. The result's TextAngle is set only when every line that
// reports a textangle reports the same non-zero value.
func ParseHOCR(r io.Reader) (*Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse hOCR: %w", err)
	}

	p := &hocrParser{}
	p.walk(doc)
	p.finishLine()

	result := &Result{Lines: p.lines}
	if p.angle != nil && !p.angleBad && *p.angle != 0 {
		result.TextAngle = p.angle
	}
	result.Text = joinLines(p.lines)
	return result, nil
}

type hocrParser struct {
	lines    []Line
	current  *Line
	angle    *float64
	angleBad bool
}

func (p *hocrParser) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		class, title := attrs(n)
		switch {
		case lineClasses[class]:
			p.finishLine()
			p.current = &Line{}
			p.noteAngle(parseTitle(title))
			p.walkChildren(n)
			p.finishLine()
			return
		case class == wordClass:
			p.addWord(strings.TrimSpace(textContent(n)), parseTitle(title))
			return
		}
	}
	p.walkChildren(n)
}

func (p *hocrParser) walkChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.walk(c)
	}
}

func (p *hocrParser) noteAngle(props hocrTitle) {
	if !props.hasAngle {
		return
	}
	switch {
	case p.angle == nil && !p.angleBad:
		a := props.textangle
		p.angle = &a
	case p.angle == nil || *p.angle != props.textangle:
		p.angleBad = true
	}
}

func (p *hocrParser) addWord(text string, props hocrTitle) {
	if text == "" || !props.hasBBox {
		return
	}
	if p.current == nil {
		p.current = &Line{}
	}
	p.current.Words = append(p.current.Words, Word{
		Text:       text,
		Confidence: props.wconf,
		Bounds:     props.bbox,
	})
}

func (p *hocrParser) finishLine() {
	if p.current != nil && len(p.current.Words) > 0 {
		p.lines = append(p.lines, *p.current)
	}
	p.current = nil
}

// attrs returns the class and title attributes of n.
func attrs(n *html.Node) (class, title string) {
	for _, a := range n.Attr {
		switch a.Key {
		case "class":
			class = a.Val
		case "title":
			title = a.Val
		}
	}
	return class, title
}

// textContent concatenates the text below n, entities already decoded.
func textContent(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return b.String()
}

// joinLines rebuilds plain text from parsed lines, one line per row.
func joinLines(lines []Line) string {
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, w := range l.Words {
			if j > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(w.Text)
		}
	}
	return b.String()
}
