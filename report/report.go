package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pevans/adwatch/apperr"
	"github.com/pevans/adwatch/posting"
)

// TimestampFormat is the layout of the report header timestamp.
const TimestampFormat = "2006-01-02 15:04:05"

var separator = strings.Repeat("-", 50)

// Writer writes the new-postings report to a fixed file. Every write
// replaces the previous report.
type Writer struct {
	path string
	now  func() time.Time
}

// NewWriter creates a writer for the file at path.
func NewWriter(path string) *Writer {
	return &Writer{
		path: path,
		now:  time.Now,
	}
}

// Path returns the report file path.
func (w *Writer) Path() string {
	return w.path
}

// Write overwrites the report file with postings, numbered from 1.
func (w *Writer) Write(postings []posting.Posting) error {
	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return apperr.New(apperr.KindWrite, "open report", w.path, err)
	}

	if err := Render(f, w.now(), postings); err != nil {
		f.Close()
		return apperr.New(apperr.KindWrite, "write report", w.path, err)
	}

	if err := f.Close(); err != nil {
		return apperr.New(apperr.KindWrite, "close report", w.path, err)
	}

	return nil
}

// Render writes the report for postings to out. Missing titles and
// descriptions are shown as placeholder text.
func Render(out io.Writer, ts time.Time, postings []posting.Posting) error {
	bw := bufio.NewWriter(out)

	fmt.Fprintf(bw, "=== آگهی‌های جدید (%s) ===\n\n", ts.Format(TimestampFormat))
	for i, p := range postings {
		fmt.Fprintf(bw, "آگهی #%d\n", i+1)
		fmt.Fprintf(bw, "عنوان: %s\n", p.DisplayTitle())
		fmt.Fprintf(bw, "توضیحات:\n%s\n", p.DisplayDescription())
		fmt.Fprintf(bw, "لینک: %s\n", p.Link)
		fmt.Fprintf(bw, "%s\n\n", separator)
	}

	return bw.Flush()
}
