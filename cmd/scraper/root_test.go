package main

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/samvad-hq/samvad-archive-scraper/internal/crawler"
	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
)

func TestParseJobForms(t *testing.T) {
	day, err := parseJob([]string{"out.csv", "LaRepubblica", "8", "3", "2019"})
	if err != nil {
		t.Fatalf("day form: %v", err)
	}
	if day.OutputPath != "out.csv" || day.SourceName != "LaRepubblica" || day.Range.Len() != 1 || day.Range.Page != 0 {
		t.Fatalf("unexpected day job %+v", day)
	}
	if got := day.Range.Start; !got.Equal(time.Date(2019, 3, 8, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("start = %v", got)
	}

	page, err := parseJob([]string{"out.csv", "LaRepubblica", "8", "3", "2019", "2"})
	if err != nil || page.Range.Page != 2 {
		t.Fatalf("page form: %+v, %v", page, err)
	}

	span, err := parseJob([]string{"out.csv", "LaRepubblica", "1", "3", "2019", "4", "3", "2019"})
	if err != nil || span.Range.Len() != 4 {
		t.Fatalf("range form: %+v, %v", span, err)
	}
}

func TestParseJobRejectsBadInput(t *testing.T) {
	cases := map[string]struct {
		args  []string
		usage bool
	}{
		"too few":        {[]string{"out.csv", "LaRepubblica", "8", "3"}, true},
		"seven args":     {[]string{"out.csv", "LaRepubblica", "8", "3", "2019", "9", "3"}, true},
		"not a number":   {[]string{"out.csv", "LaRepubblica", "otto", "3", "2019"}, true},
		"empty output":   {[]string{" ", "LaRepubblica", "8", "3", "2019"}, true},
		"impossible day": {[]string{"out.csv", "LaRepubblica", "31", "2", "2019"}, false},
		"page zero":      {[]string{"out.csv", "LaRepubblica", "8", "3", "2019", "0"}, false},
		"inverted range": {[]string{"out.csv", "LaRepubblica", "4", "3", "2019", "1", "3", "2019"}, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parseJob(tc.args)
			if err == nil {
				t.Fatalf("expected error")
			}
			if got := errors.Is(err, errUsage); got != tc.usage {
				t.Fatalf("usage error = %v, want %v (%v)", got, tc.usage, err)
			}
			if !tc.usage {
				var rangeErr *domain.InvalidRangeError
				if !errors.As(err, &rangeErr) {
					t.Fatalf("expected InvalidRangeError, got %v", err)
				}
			}
		})
	}
}

func TestRootCommandPrintsUsageOnBadArgs(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"out.csv"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(stderr.String(), "Supported newspapers:") || !strings.Contains(stderr.String(), "LaRepubblica") {
		t.Fatalf("usage not printed: %q", stderr.String())
	}
	if stdout.Len() != 0 {
		t.Fatalf("nothing should reach stdout, got %q", stdout.String())
	}
}

func TestRootCommandRejectsInvertedRangeWithoutUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{"out.csv", "LaRepubblica", "4", "3", "2019", "1", "3", "2019"})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(stderr.String(), "invalid date range") || strings.Contains(stderr.String(), "Usage:") {
		t.Fatalf("unexpected stderr %q", stderr.String())
	}
}

func TestRootCommandCompletesWhenArchiveIsMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	dir := t.TempDir()
	sourcesFile := filepath.Join(dir, "sources.yaml")
	content := fmt.Sprintf(`sources:
  - id: larepubblica
    archive_url: %s/archivio/{year}/{month}/{day}?page={page}
    hosts: ["127.0.0.1"]
    request_delay_ms: 0
`, srv.URL)
	if err := os.WriteFile(sourcesFile, []byte(content), 0o644); err != nil {
		t.Fatalf("write sources file: %v", err)
	}
	t.Setenv("SOURCES_FILE", sourcesFile)
	t.Setenv("PUBLISHERS_FILE", "")
	t.Setenv("STORAGE_TYPE", "none")
	t.Setenv("PROGRESS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")

	out := filepath.Join(dir, "out.csv")
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs([]string{out, "LaRepubblica", "8", "3", "2019"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected success, got %v (stderr %q)", err, stderr.String())
	}
	if !strings.Contains(stdout.String(), completedMessage) {
		t.Fatalf("completion message missing: %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "listing") || !strings.Contains(stderr.String(), "/archivio/2019/3/8?page=1") {
		t.Fatalf("listing failure not reported: %q", stderr.String())
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "title,author,date,body,tags,url\n" {
		t.Fatalf("expected header-only csv, got %q", data)
	}
}

func TestPrintFailures(t *testing.T) {
	var buf bytes.Buffer
	printFailures(&buf, []crawler.Failure{{
		Stage: crawler.StageArticle,
		Day:   time.Date(2019, 3, 8, 0, 0, 0, 0, time.UTC),
		URL:   "https://www.repubblica.it/a/",
		Err:   &domain.ExtractionError{URL: "https://www.repubblica.it/a/", Field: "body"},
	}})
	out := buf.String()
	if !strings.Contains(out, "https://www.repubblica.it/a/") || !strings.Contains(out, "2019-03-08") {
		t.Fatalf("unexpected table %q", out)
	}

	buf.Reset()
	printFailures(&buf, nil)
	if buf.Len() != 0 {
		t.Fatalf("expected no output without failures")
	}
}
