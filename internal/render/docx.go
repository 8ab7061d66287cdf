package render

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"

	"github.com/dgallion1/wikibinder/internal/ir"
)

// Docx renders assembled HTML as an Open XML word-processing document.
//
// Headings map to the built-in Heading1..6 paragraph styles, hyperlink
// runs use the registered Hyperlink character style with an external
// relationship, list items become bulleted paragraphs at indent level 0
// and page-break blocks become explicit page breaks. Output is
// byte-deterministic: zip entries use the zero timestamp and hyperlink
// relationship ids are counter-based.
func Docx(assembledHTML string) ([]byte, error) {
	blocks := ir.Parse(assembledHTML)

	doc, rels := docxBody(blocks)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRootRels},
		{"word/document.xml", doc},
		{"word/_rels/document.xml.rels", rels},
		{"word/styles.xml", docxStyles},
		{"word/numbering.xml", docxNumbering},
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

// docxBody builds word/document.xml and its relationships part.
func docxBody(blocks []ir.Block) (string, string) {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>`)

	var hyperlinks []string // external targets, index-ordered

	for _, block := range blocks {
		switch block.Type {
		case ir.BlockPageBreak:
			b.WriteString(`<w:p><w:r><w:br w:type="page"/></w:r></w:p>`)

		case ir.BlockLineBreak:
			b.WriteString(`<w:p><w:r><w:br/></w:r></w:p>`)

		case ir.BlockHeading:
			fmt.Fprintf(&b, `<w:p><w:pPr><w:pStyle w:val="Heading%d"/></w:pPr>`, block.Level)
			writeDocxRuns(&b, block.Runs, &hyperlinks)
			b.WriteString(`</w:p>`)

		case ir.BlockListItem:
			// Ordered and unordered items both get the bullet treatment.
			b.WriteString(`<w:p><w:pPr><w:pStyle w:val="ListParagraph"/><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr>`)
			writeDocxRuns(&b, block.Runs, &hyperlinks)
			b.WriteString(`</w:p>`)

		case ir.BlockParagraph:
			b.WriteString(`<w:p>`)
			writeDocxRuns(&b, block.Runs, &hyperlinks)
			b.WriteString(`</w:p>`)
		}
	}

	b.WriteString(`<w:sectPr><w:pgSz w:w="12240" w:h="15840"/><w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="720" w:footer="720"/></w:sectPr>`)
	b.WriteString(`</w:body></w:document>`)

	var rels strings.Builder
	rels.WriteString(xmlHeader)
	rels.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	rels.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	rels.WriteString(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering" Target="numbering.xml"/>`)
	for i, target := range hyperlinks {
		fmt.Fprintf(&rels, `<Relationship Id="%s" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink" Target="%s" TargetMode="External"/>`,
			hyperlinkID(i), escapeXML(target))
	}
	rels.WriteString(`</Relationships>`)

	return b.String(), rels.String()
}

// hyperlinkID returns the deterministic relationship id for the n-th
// hyperlink in document order.
func hyperlinkID(n int) string {
	return fmt.Sprintf("rId%d", 1000+n)
}

func writeDocxRuns(b *strings.Builder, runs []ir.Run, hyperlinks *[]string) {
	for _, r := range runs {
		if r.Break {
			b.WriteString(`<w:r><w:br/></w:r>`)
			continue
		}
		if r.Href != "" {
			id := hyperlinkID(len(*hyperlinks))
			*hyperlinks = append(*hyperlinks, r.Href)
			fmt.Fprintf(b, `<w:hyperlink r:id="%s">`, id)
			writeDocxRun(b, r, true)
			b.WriteString(`</w:hyperlink>`)
			continue
		}
		writeDocxRun(b, r, false)
	}
}

func writeDocxRun(b *strings.Builder, r ir.Run, link bool) {
	b.WriteString(`<w:r>`)
	if link || r.Bold || r.Italic {
		b.WriteString(`<w:rPr>`)
		if link {
			b.WriteString(`<w:rStyle w:val="Hyperlink"/>`)
		}
		if r.Bold {
			b.WriteString(`<w:b/>`)
		}
		if r.Italic {
			b.WriteString(`<w:i/>`)
		}
		b.WriteString(`</w:rPr>`)
	}
	fmt.Fprintf(b, `<w:t xml:space="preserve">%s</w:t>`, escapeXML(r.Text))
	b.WriteString(`</w:r>`)
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const docxContentTypes = xmlHeader +
	`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>` +
	`<Override PartName="/word/numbering.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"/>` +
	`</Types>`

const docxRootRels = xmlHeader +
	`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`

// docxStyles defines Normal, Heading1..6, the Hyperlink character style
// (blue, single underline) and ListParagraph.
var docxStyles = xmlHeader +
	`<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:rPr><w:sz w:val="24"/></w:rPr></w:style>` +
	docxHeadingStyles() +
	`<w:style w:type="character" w:styleId="Hyperlink"><w:name w:val="Hyperlink"/><w:rPr><w:color w:val="0563C1"/><w:u w:val="single"/></w:rPr></w:style>` +
	`<w:style w:type="paragraph" w:styleId="ListParagraph"><w:name w:val="List Paragraph"/><w:basedOn w:val="Normal"/><w:pPr><w:ind w:left="720"/></w:pPr></w:style>` +
	`</w:styles>`

func docxHeadingStyles() string {
	// Sizes in half-points, descending from 32pt for Heading1.
	sizes := []int{64, 52, 40, 32, 28, 24}
	var b strings.Builder
	for i, sz := range sizes {
		level := i + 1
		fmt.Fprintf(&b,
			`<w:style w:type="paragraph" w:styleId="Heading%d"><w:name w:val="heading %d"/><w:basedOn w:val="Normal"/><w:pPr><w:outlineLvl w:val="%d"/><w:spacing w:before="240" w:after="120"/></w:pPr><w:rPr><w:b/><w:sz w:val="%d"/></w:rPr></w:style>`,
			level, level, i, sz)
	}
	return b.String()
}

// docxNumbering defines the single bullet list used for every list
// item, ordered or not.
const docxNumbering = xmlHeader +
	`<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
	`<w:abstractNum w:abstractNumId="0">` +
	`<w:lvl w:ilvl="0"><w:start w:val="1"/><w:numFmt w:val="bullet"/><w:lvlText w:val="&#61623;"/><w:lvlJc w:val="left"/><w:pPr><w:ind w:left="720" w:hanging="360"/></w:pPr><w:rPr><w:rFonts w:ascii="Symbol" w:hAnsi="Symbol" w:hint="default"/></w:rPr></w:lvl>` +
	`</w:abstractNum>` +
	`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num>` +
	`</w:numbering>`

// escapeXML escapes the five XML special characters.
var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&apos;",
	`"`, "&quot;",
)

func escapeXML(s string) string {
	return xmlEscaper.Replace(s)
}
