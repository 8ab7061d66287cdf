package wiki

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func apiServer(t *testing.T, handler func(action string, q map[string]string) string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := map[string]string{}
		for k, v := range r.URL.Query() {
			q[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(handler(q["action"], q)))
	}))
}

func TestSearch(t *testing.T) {
	srv := apiServer(t, func(action string, q map[string]string) string {
		if action != "query" || q["list"] != "search" {
			t.Errorf("unexpected query: %v", q)
		}
		if q["srsearch"] != "rome" {
			t.Errorf("srsearch = %q", q["srsearch"])
		}
		return `{"query":{"search":[
			{"title":"Rome","pageid":100,"snippet":"the <span class=\"searchmatch\">capital</span>"},
			{"title":"Ancient Rome","pageid":101,"snippet":"city"}
		]}}`
	})
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	results, err := c.Search(context.Background(), "rome", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 2 || results[0].Title != "Rome" || results[0].PageID != 100 {
		t.Errorf("results = %+v", results)
	}
}

func TestArticleHTML_Sanitized(t *testing.T) {
	srv := apiServer(t, func(action string, q map[string]string) string {
		if action != "parse" || q["page"] != "Rome" {
			t.Errorf("unexpected query: %v", q)
		}
		return `{"parse":{"title":"Rome","text":"<p>body</p><script>alert(1)</script>"}}`
	})
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	html, err := c.ArticleHTML(context.Background(), "Rome")
	if err != nil {
		t.Fatalf("article: %v", err)
	}
	if !strings.Contains(html, "<p>body</p>") {
		t.Errorf("body missing: %q", html)
	}
	if strings.Contains(html, "script") {
		t.Errorf("script not sanitized: %q", html)
	}
}

func TestArticleHTML_MissingPage(t *testing.T) {
	srv := apiServer(t, func(action string, q map[string]string) string {
		return `{"error":{"code":"missingtitle","info":"The page you specified doesn't exist."}}`
	})
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	if _, err := c.ArticleHTML(context.Background(), "Atlantis"); err == nil {
		t.Error("expected error for missing page")
	}
}

func TestMetadata_PartialMisses(t *testing.T) {
	srv := apiServer(t, func(action string, q map[string]string) string {
		if q["titles"] != "Rome|Atlantis" {
			t.Errorf("titles = %q", q["titles"])
		}
		return `{"query":{"pages":[
			{"pageid":100,"title":"Rome","lastrevid":123,"touched":"2023-05-04T00:00:00Z"},
			{"title":"Atlantis","missing":true}
		]}}`
	})
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	metas, err := c.Metadata(context.Background(), []string{"Rome", "Atlantis"})
	if err != nil {
		t.Fatalf("metadata: %v", err)
	}
	// Partial misses never fail, they just return fewer entries.
	if len(metas) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(metas))
	}
	m := metas[0]
	if m.PageID != 100 || m.RevisionID != 123 || m.Title != "Rome" {
		t.Errorf("meta = %+v", m)
	}
	if m.Touched.Year() != 2023 || m.Touched.Month() != 5 || m.Touched.Day() != 4 {
		t.Errorf("touched = %v", m.Touched)
	}
}

func TestMetadata_EmptyBatch(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	metas, err := c.Metadata(context.Background(), nil)
	if err != nil || metas != nil {
		t.Errorf("empty batch should be a no-op, got %v, %v", metas, err)
	}
}

func TestAPIErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broken", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	if _, err := c.Search(context.Background(), "x", 1); err == nil {
		t.Error("expected error on non-200 status")
	}
}
