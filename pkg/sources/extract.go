package sources

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// parseHTML builds a goquery document from a fetched page body.
func parseHTML(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// splitSelector separates a "css@attr" rule into its selector and attribute.
func splitSelector(rule string) (sel, attr string) {
	if i := strings.LastIndex(rule, "@"); i > 0 {
		return strings.TrimSpace(rule[:i]), strings.TrimSpace(rule[i+1:])
	}
	return strings.TrimSpace(rule), ""
}

// nodeValue reads the attribute or the normalized text of a single node.
func nodeValue(node *goquery.Selection, attr string) string {
	if attr != "" {
		val, _ := node.Attr(attr)
		return cleanText(val)
	}
	return cleanText(node.Text())
}

// firstValue walks the chain and returns the first non-empty match.
func firstValue(root *goquery.Selection, chain []string) string {
	for _, rule := range chain {
		sel, attr := splitSelector(rule)
		if sel == "" {
			continue
		}
		var found string
		root.Find(sel).EachWithBreak(func(_ int, node *goquery.Selection) bool {
			found = nodeValue(node, attr)
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

// allValues returns every non-empty match of the first rule in chain that matches anything.
func allValues(root *goquery.Selection, chain []string) []string {
	for _, rule := range chain {
		sel, attr := splitSelector(rule)
		if sel == "" {
			continue
		}
		var out []string
		seen := make(map[string]struct{})
		root.Find(sel).Each(func(_ int, node *goquery.Selection) {
			v := nodeValue(node, attr)
			if v == "" {
				return
			}
			if _, dup := seen[v]; dup {
				return
			}
			seen[v] = struct{}{}
			out = append(out, v)
		})
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// firstBlock is firstValue for body text: paragraphs are kept apart by blank lines.
func firstBlock(root *goquery.Selection, chain []string) string {
	for _, rule := range chain {
		sel, _ := splitSelector(rule)
		if sel == "" {
			continue
		}
		var found string
		root.Find(sel).EachWithBreak(func(_ int, node *goquery.Selection) bool {
			found = blockText(node)
			return found == ""
		})
		if found != "" {
			return found
		}
	}
	return ""
}

func blockText(node *goquery.Selection) string {
	paras := node.Find("p")
	if paras.Length() == 0 {
		return cleanText(node.Text())
	}
	parts := make([]string, 0, paras.Length())
	paras.Each(func(_ int, p *goquery.Selection) {
		if t := cleanText(p.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	if len(parts) == 0 {
		return cleanText(node.Text())
	}
	return strings.Join(parts, "\n\n")
}

// cleanText collapses all runs of whitespace into single spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// resolveURL makes ref absolute against base; it returns "" when either is unusable.
func resolveURL(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(refURL).String()
}
