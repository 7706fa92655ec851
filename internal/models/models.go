// package models defines the data model for the vidhi updates client
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Session carries the API key issued by the backend at login.
//
// The zero value is the logged-out state.
type Session struct {
	APIKey string
}

// Valid reports whether the session holds a key.
func (s Session) Valid() bool {
	return strings.TrimSpace(s.APIKey) != ""
}

// Category selects which subset of updates the dashboard shows.
type Category string

const (
	CategoryHiring Category = "hiring"
	CategoryNotice Category = "notice"
	CategoryBlog   Category = "blog"
)

// DefaultCategory is the tab shown when the dashboard opens.
const DefaultCategory = CategoryHiring

// Categories returns the enumeration in tab order.
func Categories() []Category {
	return []Category{CategoryHiring, CategoryNotice, CategoryBlog}
}

// ParseCategory converts user input into a [Category], ignoring case and surrounding space.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories() {
		if c == known {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want hiring, notice or blog)", s)
}

func (c Category) String() string { return string(c) }

// Title returns the capitalized tab label.
func (c Category) Title() string {
	if c == "" {
		return ""
	}
	return strings.ToUpper(string(c[:1])) + string(c[1:])
}

// Next returns the tab to the right, wrapping around.
func (c Category) Next() Category {
	return c.offset(1)
}

// Prev returns the tab to the left, wrapping around.
func (c Category) Prev() Category {
	return c.offset(-1)
}

func (c Category) offset(n int) Category {
	all := Categories()
	for i, known := range all {
		if known == c {
			return all[(i+n+len(all))%len(all)]
		}
	}
	return DefaultCategory
}

// UpdateID identifies an update record. The backend may encode it as a JSON number or string.
type UpdateID string

func (id UpdateID) String() string { return string(id) }

// UnmarshalJSON accepts both numeric and string identifiers.
func (id *UpdateID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = UpdateID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid update id %s: %w", string(data), err)
	}
	*id = UpdateID(n.String())
	return nil
}

// MarshalJSON writes canonical integer identifiers back as numbers and everything else as strings.
func (id UpdateID) MarshalJSON() ([]byte, error) {
	if n, err := strconv.ParseInt(string(id), 10, 64); err == nil && strconv.FormatInt(n, 10) == string(id) {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// timestampLayouts are tried in order when decoding published dates.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	time.DateOnly,
}

// Timestamp decodes the several date formats the backend emits.
//
// A value that matches no layout keeps the zero time and the original text in Raw.
type Timestamp struct {
	time.Time
	Raw string
}

// ParseTimestamp parses s with each known layout.
func ParseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// UnmarshalJSON accepts RFC 3339, naive ISO 8601, RFC 1123 and date-only strings.
// Null and "" yield the zero time. Unrecognized strings are kept in Raw.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	*t = Timestamp{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if s == "" {
		return nil
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		t.Raw = s
		return nil
	}
	*t = parsed
	return nil
}

// MarshalJSON writes the timestamp as RFC 3339, the raw text when it was unrecognized, or null.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		if t.Raw != "" {
			return json.Marshal(t.Raw)
		}
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Date formats the timestamp for table cells.
func (t Timestamp) Date() string {
	if t.IsZero() {
		if t.Raw != "" {
			return t.Raw
		}
		return "-"
	}
	return t.Format("02 Jan 2006")
}

// Update is a single record from the updates service.
type Update struct {
	ID             UpdateID  `json:"id"`
	Title          string    `json:"title"`
	ContentSummary string    `json:"content_summary"`
	CourtName      string    `json:"court_name"`
	Category       string    `json:"category"`
	PublishedDate  Timestamp `json:"published_date"`
	SourceURL      string    `json:"source_url"`
}

// RemoveUpdate returns updates without the entry whose ID matches id.
//
// The input slice is not modified.
func RemoveUpdate(updates []Update, id UpdateID) []Update {
	out := make([]Update, 0, len(updates))
	for _, u := range updates {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

// ActivityKind names an action recorded in the local audit trail.
type ActivityKind string

const (
	ActivityLogin  ActivityKind = "login"
	ActivityLogout ActivityKind = "logout"
	ActivityScrape ActivityKind = "scrape"
	ActivityClear  ActivityKind = "clear"
	ActivityDelete ActivityKind = "delete"
	ActivityExpire ActivityKind = "expire"
)

// Activity is one row of the local audit trail.
type Activity struct {
	ID        string       `db:"id" json:"id"`
	Sequence  int          `db:"sequence" json:"-"`
	Kind      ActivityKind `db:"kind" json:"kind"`
	Detail    string       `db:"detail" json:"detail"`
	Success   bool         `db:"success" json:"success"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}
