package ir

import (
	"testing"
)

func TestParse_HeadingsAndParagraphs(t *testing.T) {
	blocks := Parse(`<h2>Rome</h2><p>The capital of Italy.</p>`)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Type != BlockHeading || blocks[0].Level != 2 {
		t.Errorf("expected h2 heading, got %+v", blocks[0])
	}
	if got := blocks[0].Text(); got != "Rome" {
		t.Errorf("heading text = %q, want %q", got, "Rome")
	}
	if blocks[1].Type != BlockParagraph {
		t.Errorf("expected paragraph, got %+v", blocks[1])
	}
	if got := blocks[1].Text(); got != "The capital of Italy." {
		t.Errorf("paragraph text = %q", got)
	}
}

func TestParse_NestedFormattingAccumulates(t *testing.T) {
	blocks := Parse(`<p><i>italic <b>both</b></i> plain</p>`)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	runs := blocks[0].Runs
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d: %+v", len(runs), runs)
	}
	if !runs[0].Italic || runs[0].Bold {
		t.Errorf("run 0 should be italic only: %+v", runs[0])
	}
	if !runs[1].Italic || !runs[1].Bold {
		t.Errorf("run 1 should be bold and italic: %+v", runs[1])
	}
	if runs[2].Italic || runs[2].Bold {
		t.Errorf("run 2 should be plain: %+v", runs[2])
	}
}

func TestParse_HyperlinkInheritsFormatting(t *testing.T) {
	blocks := Parse(`<p><b><a href="https://example.com">link</a></b></p>`)
	if len(blocks) != 1 || len(blocks[0].Runs) != 1 {
		t.Fatalf("unexpected blocks: %+v", blocks)
	}
	run := blocks[0].Runs[0]
	if run.Href != "https://example.com" {
		t.Errorf("href = %q", run.Href)
	}
	if !run.Bold {
		t.Errorf("link should inherit bold: %+v", run)
	}
	if run.Text != "link" {
		t.Errorf("link text = %q", run.Text)
	}
}

func TestParse_Lists(t *testing.T) {
	blocks := Parse(`<ul><li>one</li><li>two</li></ul><ol><li>first</li></ol>`)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 list items, got %d: %+v", len(blocks), blocks)
	}
	for i, b := range blocks {
		if b.Type != BlockListItem {
			t.Fatalf("block %d is %s, want list_item", i, b.Type)
		}
	}
	if blocks[0].Ordered || blocks[1].Ordered {
		t.Errorf("ul items must be unordered")
	}
	if !blocks[2].Ordered {
		t.Errorf("ol item must be ordered")
	}
	if got := blocks[2].Text(); got != "first" {
		t.Errorf("item text = %q", got)
	}
}

func TestParse_UnknownTagsFlattened(t *testing.T) {
	blocks := Parse(`<section><article><p>kept</p></article><aside>loose text</aside></section>`)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if got := blocks[0].Text(); got != "kept" {
		t.Errorf("block 0 = %q", got)
	}
	if got := blocks[1].Text(); got != "loose text" {
		t.Errorf("loose text should become a paragraph, got %q", got)
	}
}

func TestParse_BreakSentinelAndBr(t *testing.T) {
	blocks := Parse(`<p>a</p>` + BreakSentinel + `<p>b<br>c</p>`)
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[1].Type != BlockPageBreak {
		t.Errorf("expected page break, got %+v", blocks[1])
	}
	runs := blocks[2].Runs
	if len(runs) != 3 || !runs[1].Break {
		t.Errorf("expected br run inside paragraph: %+v", runs)
	}
}

func TestParse_HeadingLevelClamp(t *testing.T) {
	b := Heading(9, Run{Text: "x"})
	if b.Level != 1 {
		t.Errorf("level 9 should clamp to 1, got %d", b.Level)
	}
	b = Heading(0, Run{Text: "x"})
	if b.Level != 1 {
		t.Errorf("level 0 should clamp to 1, got %d", b.Level)
	}
}

func TestParse_MalformedInputDoesNotPanic(t *testing.T) {
	for _, frag := range []string{
		"",
		"<p>unclosed",
		"<b><i>cross</b></i>",
		"<<<>>>",
		"<ul><p>not an item</p></ul>",
	} {
		_ = Parse(frag) // must not panic, partial IR is fine
	}
}

func TestParse_WhitespaceCollapsed(t *testing.T) {
	blocks := Parse("<p>a\n   b</p>")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if got := blocks[0].Text(); got != "a b" {
		t.Errorf("text = %q, want %q", got, "a b")
	}
}
