package ir

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// BreakSentinel is the HTML marker the assembler inserts between
// sections. The parser turns it into a PageBreak block.
const BreakSentinel = `<div class="page-break"></div>`

// Parse converts an HTML fragment into an ordered list of IR blocks.
//
// Recognized block tags are h1..h6, p, ul/ol (one ListItem per li) and
// br; b/strong, i/em and a[href] contribute inline formatting that
// accumulates down the tree. Any other tag is flattened: it produces no
// node of its own but its children are parsed in place. Parse never
// fails — malformed markup yields whatever partial IR can be built.
func Parse(fragment string) []Block {
	root, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil
	}
	p := &irParser{}
	if body := findNode(root, atom.Body); body != nil {
		p.walk(body, false, false)
	} else {
		p.walk(root, false, false)
	}
	p.flush()
	return p.blocks
}

type irParser struct {
	blocks  []Block
	pending []Run // loose inline content awaiting a paragraph
}

// flush turns accumulated loose runs into a paragraph.
func (p *irParser) flush() {
	runs := trimRuns(p.pending)
	p.pending = nil
	if len(runs) > 0 {
		p.blocks = append(p.blocks, Paragraph(runs...))
	}
}

func (p *irParser) walk(n *html.Node, bold, italic bool) {
	if n.Type == html.TextNode {
		p.pending = appendText(p.pending, n.Data, bold, italic, "")
		return
	}
	if n.Type != html.ElementNode {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.walk(c, bold, italic)
		}
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript:
		return

	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		p.flush()
		level := int(n.Data[1] - '0')
		runs := trimRuns(collectInline(n, false, false, ""))
		if len(runs) > 0 {
			p.blocks = append(p.blocks, Heading(level, runs...))
		}

	case atom.P:
		p.flush()
		runs := trimRuns(collectInline(n, bold, italic, ""))
		if len(runs) > 0 {
			p.blocks = append(p.blocks, Paragraph(runs...))
		}

	case atom.Ul, atom.Ol:
		p.flush()
		p.list(n, n.DataAtom == atom.Ol, bold, italic)

	case atom.Br:
		p.flush()
		p.blocks = append(p.blocks, Block{Type: BlockLineBreak})

	case atom.B, atom.Strong:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.walk(c, true, italic)
		}

	case atom.I, atom.Em:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.walk(c, bold, true)
		}

	case atom.A:
		if href := attr(n, "href"); href != "" {
			p.pending = append(p.pending, collectInline(n, bold, italic, href)...)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.walk(c, bold, italic)
		}

	case atom.Div:
		if strings.Contains(attr(n, "class"), "page-break") {
			p.flush()
			p.blocks = append(p.blocks, Block{Type: BlockPageBreak})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.walk(c, bold, italic)
		}

	default:
		// Unknown container: no structural node, children parsed in place.
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			p.walk(c, bold, italic)
		}
	}
}

// list emits one ListItem per li. Nested lists inside an item are
// flattened into additional items after it.
func (p *irParser) list(n *html.Node, ordered, bold, italic bool) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Li:
			var runs []Run
			var nested []*html.Node
			for g := c.FirstChild; g != nil; g = g.NextSibling {
				if g.Type == html.ElementNode && (g.DataAtom == atom.Ul || g.DataAtom == atom.Ol) {
					nested = append(nested, g)
					continue
				}
				runs = append(runs, collectInline(g, bold, italic, "")...)
			}
			if runs = trimRuns(runs); len(runs) > 0 {
				p.blocks = append(p.blocks, ListItem(ordered, runs...))
			}
			for _, g := range nested {
				p.list(g, g.DataAtom == atom.Ol, bold, italic)
			}
		case atom.Ul, atom.Ol:
			p.list(c, c.DataAtom == atom.Ol, bold, italic)
		}
	}
}

// collectInline gathers the runs of a subtree, resolving bold/italic
// inheritance once per text node.
func collectInline(n *html.Node, bold, italic bool, href string) []Run {
	var runs []Run
	var walk func(n *html.Node, bold, italic bool, href string)
	walk = func(n *html.Node, bold, italic bool, href string) {
		if n.Type == html.TextNode {
			runs = appendText(runs, n.Data, bold, italic, href)
			return
		}
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
				return
			case atom.Br:
				runs = append(runs, Run{Break: true})
				return
			case atom.B, atom.Strong:
				bold = true
			case atom.I, atom.Em:
				italic = true
			case atom.A:
				if h := attr(n, "href"); h != "" {
					href = h
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c, bold, italic, href)
		}
	}
	// The subtree root itself may carry formatting (e.g. an <a> node).
	walk(n, bold, italic, href)
	return runs
}

// appendText adds a text run with whitespace collapsed. Whitespace-only
// text contributes a single separating space, never a leading one.
func appendText(runs []Run, text string, bold, italic bool, href string) []Run {
	collapsed := collapseSpace(text)
	if collapsed == "" {
		return runs
	}
	if strings.TrimSpace(collapsed) == "" {
		if len(runs) == 0 || runs[len(runs)-1].Break {
			return runs
		}
		collapsed = " "
	}
	return append(runs, Run{Text: collapsed, Bold: bold, Italic: italic, Href: href})
}

// collapseSpace reduces any run of whitespace to a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			space = true
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	out := b.String()
	if space && out != "" {
		out += " "
	}
	if out == "" && s != "" {
		return " "
	}
	return out
}

// trimRuns strips leading/trailing whitespace from the run edges and
// drops runs left empty.
func trimRuns(runs []Run) []Run {
	out := make([]Run, 0, len(runs))
	for _, r := range runs {
		out = append(out, r)
	}
	// Trim the left edge.
	for len(out) > 0 && !out[0].Break {
		out[0].Text = strings.TrimLeft(out[0].Text, " ")
		if out[0].Text != "" {
			break
		}
		out = out[1:]
	}
	// Trim the right edge.
	for len(out) > 0 && !out[len(out)-1].Break {
		last := len(out) - 1
		out[last].Text = strings.TrimRight(out[last].Text, " ")
		if out[last].Text != "" {
			break
		}
		out = out[:last]
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findNode(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, a); found != nil {
			return found
		}
	}
	return nil
}
