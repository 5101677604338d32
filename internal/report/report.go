package report

import (
	"encoding/csv"
	"os"
	"strings"
	"time"

	"github.com/samvad-hq/samvad-archive-scraper/internal/domain"
)

// TagSeparator joins article tags inside the tags column.
const TagSeparator = "|"

// Header is the fixed column order of the output file.
var Header = []string{"title", "author", "date", "body", "tags", "url"}

// Writer streams article rows into a CSV file. It is not safe for concurrent use.
type Writer struct {
	path string
	file *os.File
	csv  *csv.Writer
	rows int
}

// Create opens path for writing (truncating it) and writes the header row.
// Missing parent directories are not created.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, &domain.WriteError{Path: path, Err: err}
	}
	w := &Writer{path: path, file: f, csv: csv.NewWriter(f)}
	if err := w.writeRow(Header); err != nil {
		_ = f.Close()
		return nil, err
	}
	return w, nil
}

// Write appends one article row and flushes it to disk.
func (w *Writer) Write(art domain.Article) error {
	if err := w.writeRow(Row(art)); err != nil {
		return err
	}
	w.rows++
	return nil
}

func (w *Writer) writeRow(rec []string) error {
	if err := w.csv.Write(rec); err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}
	return nil
}

// Rows returns the number of data rows written so far.
func (w *Writer) Rows() int { return w.rows }

// Path returns the output file path.
func (w *Writer) Path() string { return w.path }

// Close flushes and closes the file.
func (w *Writer) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	w.csv.Flush()
	err := w.csv.Error()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	w.file = nil
	if err != nil {
		return &domain.WriteError{Path: w.path, Err: err}
	}
	return nil
}

// WriteAll writes the header and every record to path in one go.
func WriteAll(path string, records []domain.Article) error {
	w, err := Create(path)
	if err != nil {
		return err
	}
	for _, art := range records {
		if err := w.Write(art); err != nil {
			_ = w.Close()
			return err
		}
	}
	return w.Close()
}

// Row maps an article onto the Header columns.
func Row(art domain.Article) []string {
	date := ""
	if !art.PublishedAt.IsZero() {
		date = art.PublishedAt.Format(time.DateOnly)
	}
	return []string{
		art.Title,
		art.Author,
		date,
		art.Body,
		strings.Join(art.Tags, TagSeparator),
		art.URL,
	}
}
