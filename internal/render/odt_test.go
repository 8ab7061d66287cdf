package render

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/dgallion1/wikibinder/internal/assemble"
)

func odtPart(t *testing.T, data []byte, name string) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open odt zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return string(b)
	}
	t.Fatalf("part %s not found", name)
	return ""
}

func TestOdt_MimetypeFirstStoredByteExact(t *testing.T) {
	data, err := Odt(`<p>hello</p>`)
	if err != nil {
		t.Fatalf("odt: %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(zr.File) == 0 {
		t.Fatal("empty container")
	}
	first := zr.File[0]
	if first.Name != "mimetype" {
		t.Errorf("first entry = %q, want mimetype", first.Name)
	}
	if first.Method != zip.Store {
		t.Errorf("mimetype must be stored uncompressed, method = %d", first.Method)
	}
	rc, err := first.Open()
	if err != nil {
		t.Fatalf("open mimetype: %v", err)
	}
	defer rc.Close()
	content, _ := io.ReadAll(rc)
	if string(content) != "application/vnd.oasis.opendocument.text" {
		t.Errorf("mimetype content = %q", content)
	}

	// The raw bytes of the archive must begin with the local header and
	// literal mimetype content right after the fixed-size header+name:
	// consumers sniff it at a fixed offset.
	if !bytes.Contains(data[:100], []byte("application/vnd.oasis.opendocument.text")) {
		t.Errorf("mimetype content not near start of archive")
	}
}

func TestOdt_RequiredPartsPresent(t *testing.T) {
	data, err := Odt(`<p>x</p>`)
	if err != nil {
		t.Fatalf("odt: %v", err)
	}
	for _, name := range []string{"META-INF/manifest.xml", "meta.xml", "styles.xml", "content.xml"} {
		if odtPart(t, data, name) == "" {
			t.Errorf("part %s is empty", name)
		}
	}
}

func TestOdt_ContentMapping(t *testing.T) {
	data, err := Odt(`<h1>Title</h1><h2>Sub</h2><p>body <b>bold</b> <i>it</i> <a href="https://example.com">ln</a></p><ul><li>item</li></ul><p>a<br>b</p>`)
	if err != nil {
		t.Fatalf("odt: %v", err)
	}
	content := odtPart(t, data, "content.xml")

	checks := []string{
		`<text:h text:outline-level="1" text:style-name="H1">Title</text:h>`,
		`<text:h text:outline-level="2" text:style-name="H2">Sub</text:h>`,
		`<text:p text:style-name="Text_20_body">`,
		`<text:span text:style-name="Bold">bold</text:span>`,
		`<text:span text:style-name="Italic">it</text:span>`,
		`xlink:href="https://example.com"`,
		`<text:list><text:list-item>`,
		`<text:line-break/>`,
	}
	for _, want := range checks {
		if !strings.Contains(content, want) {
			t.Errorf("content.xml missing %q", want)
		}
	}
}

func TestOdt_TextEscaped(t *testing.T) {
	data, err := Odt(`<p>a &amp; b &lt;c&gt; "d" 'e'</p>`)
	if err != nil {
		t.Fatalf("odt: %v", err)
	}
	content := odtPart(t, data, "content.xml")
	for _, want := range []string{"&amp;", "&lt;c&gt;", "&quot;d&quot;", "&apos;e&apos;"} {
		if !strings.Contains(content, want) {
			t.Errorf("missing escaped form %q in %q", want, content)
		}
	}
	if strings.Contains(content, `<c>`) {
		t.Errorf("unescaped angle brackets leaked into XML")
	}
}

func TestOdt_PageBreakBetweenSections(t *testing.T) {
	combined := assemble.CombinedHTML([]assemble.Section{
		{Kind: assemble.KindArticle, Title: "A", Body: "<p>a</p>"},
		{Kind: assemble.KindArticle, Title: "B", Body: "<p>b</p>"},
	})
	data, err := Odt(combined)
	if err != nil {
		t.Fatalf("odt: %v", err)
	}
	content := odtPart(t, data, "content.xml")
	if got := strings.Count(content, `<text:p text:style-name="PageBreak"/>`); got != 1 {
		t.Errorf("expected 1 page-break paragraph, got %d", got)
	}
}

func TestOdt_ByteDeterministic(t *testing.T) {
	in := `<h1>Same</h1><p>every time</p>`
	a, err := Odt(in)
	if err != nil {
		t.Fatalf("odt: %v", err)
	}
	b, err := Odt(in)
	if err != nil {
		t.Fatalf("odt: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("odt output differs between identical renders")
	}
}
