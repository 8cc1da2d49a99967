package posting

import "strings"

// Placeholder text shown in reports when a field could not be extracted.
const (
	TitleNotFound       = "عنوان یافت نشد"
	DescriptionNotFound = "توضیحات یافت نشد"
)

// Posting is a single job ad discovered on the listing site. Title and
// Description are nil when the detail page did not contain them.
type Posting struct {
	ID          string  `json:"id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Link        string  `json:"link"`
}

// New creates a posting for link with its id derived from the URL.
func New(link string, title, description *string) Posting {
	return Posting{
		ID:          IDFromURL(link),
		Title:       title,
		Description: description,
		Link:        link,
	}
}

// DisplayTitle returns the title, or TitleNotFound if there is none.
func (p Posting) DisplayTitle() string {
	if p.Title == nil {
		return TitleNotFound
	}
	return *p.Title
}

// DisplayDescription returns the description, or DescriptionNotFound if
// there is none.
func (p Posting) DisplayDescription() string {
	if p.Description == nil {
		return DescriptionNotFound
	}
	return *p.Description
}

// IDFromURL returns the last path segment of link, ignoring any query string,
// fragment and trailing slashes. The segment is taken verbatim (no
// percent-decoding) so ids stay stable across runs. If no segment remains,
// the whole link is returned so the id is never empty.
func IDFromURL(link string) string {
	p := link
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}

	if p == "" || strings.HasSuffix(p, ":") {
		return link
	}
	return p
}
