package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"hash/crc32"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// OdtMimetype is the exact content of the mimetype entry. It must be
// the first entry of the container and stored without compression, or
// office suites reject the file as corrupt.
const OdtMimetype = "application/vnd.oasis.opendocument.text"

// Odt renders assembled HTML as an OpenDocument text container.
//
// Unlike the other renderers it converts the DOM directly into ODT flat
// XML: the element mapping of the OpenDocument body is closer to HTML
// than to the shared IR, so the walk stays one-to-one.
func Odt(assembledHTML string) ([]byte, error) {
	content, err := odtContent(assembledHTML)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	// mimetype: first entry, stored, written raw so the local header
	// carries the real sizes instead of a data descriptor.
	mime := []byte(OdtMimetype)
	w, err := zw.CreateRaw(&zip.FileHeader{
		Name:               "mimetype",
		Method:             zip.Store,
		CRC32:              crc32.ChecksumIEEE(mime),
		CompressedSize64:   uint64(len(mime)),
		UncompressedSize64: uint64(len(mime)),
	})
	if err != nil {
		return nil, fmt.Errorf("create mimetype: %w", err)
	}
	if _, err := w.Write(mime); err != nil {
		return nil, fmt.Errorf("write mimetype: %w", err)
	}

	parts := []struct {
		name    string
		content string
	}{
		{"META-INF/manifest.xml", odtManifest},
		{"meta.xml", odtMeta},
		{"styles.xml", odtStyles},
		{"content.xml", content},
	}
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:   p.name,
			Method: zip.Deflate,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close package: %w", err)
	}
	return buf.Bytes(), nil
}

// odtContent converts the assembled HTML DOM into content.xml.
func odtContent(assembledHTML string) (string, error) {
	root, err := html.Parse(strings.NewReader(assembledHTML))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<office:document-content xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0" xmlns:xlink="http://www.w3.org/1999/xlink" office:version="1.2">`)
	b.WriteString(`<office:body><office:text>`)

	if body := odtFindBody(root); body != nil {
		for c := body.FirstChild; c != nil; c = c.NextSibling {
			odtBlock(&b, c)
		}
	}

	b.WriteString(`</office:text></office:body></office:document-content>`)
	return b.String(), nil
}

func odtFindBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == atom.Body {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := odtFindBody(c); b != nil {
			return b
		}
	}
	return nil
}

// odtBlock emits block-level ODT elements for one DOM node.
func odtBlock(b *strings.Builder, n *html.Node) {
	if n.Type == html.TextNode {
		if text := strings.TrimSpace(n.Data); text != "" {
			b.WriteString(`<text:p text:style-name="Text_20_body">`)
			b.WriteString(escapeXML(text))
			b.WriteString(`</text:p>`)
		}
		return
	}
	if n.Type != html.ElementNode {
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript:
		return

	case atom.H1:
		odtHeading(b, n, 1, "H1")
	case atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		odtHeading(b, n, int(n.Data[1]-'0'), "H2")

	case atom.P:
		b.WriteString(`<text:p text:style-name="Text_20_body">`)
		odtInline(b, n)
		b.WriteString(`</text:p>`)

	case atom.Ul, atom.Ol:
		b.WriteString(`<text:list>`)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.Li {
				b.WriteString(`<text:list-item><text:p text:style-name="Text_20_body">`)
				odtInline(b, c)
				b.WriteString(`</text:p></text:list-item>`)
			}
		}
		b.WriteString(`</text:list>`)

	case atom.Br:
		b.WriteString(`<text:p text:style-name="Text_20_body"><text:line-break/></text:p>`)

	case atom.Div:
		if strings.Contains(odtAttr(n, "class"), "page-break") {
			// Empty paragraph styled with a page-break-before property.
			b.WriteString(`<text:p text:style-name="PageBreak"/>`)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			odtBlock(b, c)
		}

	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			odtBlock(b, c)
		}
	}
}

func odtHeading(b *strings.Builder, n *html.Node, level int, style string) {
	fmt.Fprintf(b, `<text:h text:outline-level="%d" text:style-name="%s">`, level, style)
	odtInline(b, n)
	b.WriteString(`</text:h>`)
}

// odtInline emits the inline content of a node: spans for bold/italic,
// text:a for links, line breaks for br.
func odtInline(b *strings.Builder, n *html.Node) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(escapeXML(c.Data))

		case c.Type != html.ElementNode:
			continue

		default:
			switch c.DataAtom {
			case atom.Script, atom.Style, atom.Noscript:
			case atom.B, atom.Strong:
				b.WriteString(`<text:span text:style-name="Bold">`)
				odtInline(b, c)
				b.WriteString(`</text:span>`)
			case atom.I, atom.Em:
				b.WriteString(`<text:span text:style-name="Italic">`)
				odtInline(b, c)
				b.WriteString(`</text:span>`)
			case atom.A:
				if href := odtAttr(c, "href"); href != "" {
					fmt.Fprintf(b, `<text:a xlink:type="simple" xlink:href="%s" text:style-name="Link">`, escapeXML(href))
					odtInline(b, c)
					b.WriteString(`</text:a>`)
					continue
				}
				odtInline(b, c)
			case atom.Br:
				b.WriteString(`<text:line-break/>`)
			default:
				odtInline(b, c)
			}
		}
	}
}

func odtAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

const odtManifest = xmlHeader +
	`<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">` +
	`<manifest:file-entry manifest:full-path="/" manifest:media-type="application/vnd.oasis.opendocument.text"/>` +
	`<manifest:file-entry manifest:full-path="content.xml" manifest:media-type="text/xml"/>` +
	`<manifest:file-entry manifest:full-path="styles.xml" manifest:media-type="text/xml"/>` +
	`<manifest:file-entry manifest:full-path="meta.xml" manifest:media-type="text/xml"/>` +
	`</manifest:manifest>`

// odtMeta deliberately carries no timestamps: output must be
// byte-identical across runs.
const odtMeta = xmlHeader +
	`<office:document-meta xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:meta="urn:oasis:names:tc:opendocument:xmlns:meta:1.0" office:version="1.2">` +
	`<office:meta><meta:generator>wikibinder</meta:generator></office:meta>` +
	`</office:document-meta>`

// odtStyles carries the fixed style set: Standard, Heading, H1, H2,
// Text body, Link, Bold, Italic and the page-break paragraph style.
const odtStyles = xmlHeader +
	`<office:document-styles xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0" xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0" xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0" office:version="1.2">` +
	`<office:styles>` +
	`<style:style style:name="Standard" style:family="paragraph" style:class="text"/>` +
	`<style:style style:name="Heading" style:family="paragraph" style:parent-style-name="Standard" style:class="text"><style:paragraph-properties fo:margin-top="0.15in" fo:margin-bottom="0.08in" fo:keep-with-next="always"/><style:text-properties fo:font-weight="bold"/></style:style>` +
	`<style:style style:name="H1" style:family="paragraph" style:parent-style-name="Heading" style:default-outline-level="1"><style:text-properties fo:font-size="24pt" fo:font-weight="bold"/></style:style>` +
	`<style:style style:name="H2" style:family="paragraph" style:parent-style-name="Heading" style:default-outline-level="2"><style:text-properties fo:font-size="18pt" fo:font-weight="bold"/></style:style>` +
	`<style:style style:name="Text_20_body" style:display-name="Text body" style:family="paragraph" style:parent-style-name="Standard" style:class="text"><style:paragraph-properties fo:margin-top="0in" fo:margin-bottom="0.08in"/></style:style>` +
	`<style:style style:name="Link" style:family="text"><style:text-properties fo:color="#0563c1" style:text-underline-style="solid"/></style:style>` +
	`<style:style style:name="Bold" style:family="text"><style:text-properties fo:font-weight="bold"/></style:style>` +
	`<style:style style:name="Italic" style:family="text"><style:text-properties fo:font-style="italic"/></style:style>` +
	`<style:style style:name="PageBreak" style:family="paragraph" style:parent-style-name="Standard"><style:paragraph-properties fo:break-before="page"/></style:style>` +
	`</office:styles>` +
	`</office:document-styles>`
