package sources

import "testing"

func TestSplitSelector(t *testing.T) {
	cases := []struct{ rule, sel, attr string }{
		{"h1", "h1", ""},
		{`meta[property="og:title"]@content`, `meta[property="og:title"]`, "content"},
		{"figure img @ src", "figure img", "src"},
		{"@content", "@content", ""},
	}
	for _, tc := range cases {
		sel, attr := splitSelector(tc.rule)
		if sel != tc.sel || attr != tc.attr {
			t.Errorf("splitSelector(%q) = %q, %q", tc.rule, sel, attr)
		}
	}
}

func TestSelectorChains(t *testing.T) {
	doc, err := parseHTML([]byte(`<html><head><meta name="author" content="Redazione"></head><body>
<h2> </h2><h2>Secondo</h2>
<ul><li>a</li><li> </li><li>b</li><li>a</li></ul>
<div class="txt">Riga uno
   riga due</div>
</body></html>`))
	if err != nil {
		t.Fatalf("parseHTML: %v", err)
	}
	root := doc.Selection

	if got := firstValue(root, []string{"h1", "h2"}); got != "Secondo" {
		t.Errorf("firstValue skipped to %q", got)
	}
	if got := firstValue(root, []string{`[itemprop="author"]`, `meta[name="author"]@content`}); got != "Redazione" {
		t.Errorf("attribute fallback = %q", got)
	}
	if got := allValues(root, []string{"ol li", "ul li"}); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("allValues = %#v", got)
	}
	if got := firstBlock(root, []string{"div.txt"}); got != "Riga uno riga due" {
		t.Errorf("firstBlock = %q", got)
	}
	if got := firstValue(root, []string{"p.none"}); got != "" {
		t.Errorf("expected empty value, got %q", got)
	}
}

func TestResolveURL(t *testing.T) {
	if got := resolveURL("/img/a.jpg", "https://www.repubblica.it/cronaca/x/"); got != "https://www.repubblica.it/img/a.jpg" {
		t.Errorf("resolveURL = %q", got)
	}
	if got := resolveURL("  ", "https://www.repubblica.it/"); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
