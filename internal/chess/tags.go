package chess

import (
	"fmt"
	"strings"
	"time"
)

// Names of the seven required tags.
const (
	EventTag  = "Event"
	SiteTag   = "Site"
	DateTag   = "Date"
	RoundTag  = "Round"
	WhiteTag  = "White"
	BlackTag  = "Black"
	ResultTag = "Result"
)

// SevenTagRoster contains the seven required PGN tags in canonical order.
// The order is used for defaults, validation and display only; lookups are
// always by key.
var SevenTagRoster = []string{
	EventTag,
	SiteTag,
	DateTag,
	RoundTag,
	WhiteTag,
	BlackTag,
	ResultTag,
}

// DateFormat is the layout of the Date tag value.
const DateFormat = "2006.01.02"

// TagPair is a single metadata entry of a record.
type TagPair struct {
	Key   string
	Value string
}

// String renders the tag pair as a PGN tag line.
func (tp TagPair) String() string {
	return fmt.Sprintf("[%s \"%s\"]", tp.Key, EscapeTagValue(tp.Value))
}

// EscapeTagValue escapes special characters in tag values.
func EscapeTagValue(s string) string {
	// Fast path: if no escaping needed, return original string
	if !strings.ContainsAny(s, "\\\"") {
		return s
	}
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}

// UnescapeTagValue reverses EscapeTagValue.
func UnescapeTagValue(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '\\' || s[i+1] == '"') {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// TagPairs is an ordered list of tag pairs. Keys are matched
// case-insensitively but stored as given.
type TagPairs []TagPair

// DefaultTagPairs returns the seven required tags with the values used for a
// fresh record, dated now.
func DefaultTagPairs(now time.Time) TagPairs {
	return TagPairs{
		{Key: EventTag, Value: "casual game"},
		{Key: SiteTag, Value: "?"},
		{Key: DateTag, Value: now.Format(DateFormat)},
		{Key: RoundTag, Value: "?"},
		{Key: WhiteTag, Value: "?"},
		{Key: BlackTag, Value: "?"},
		{Key: ResultTag, Value: Unfinished},
	}
}

func (tags TagPairs) index(key string) int {
	for i, tp := range tags {
		if strings.EqualFold(tp.Key, key) {
			return i
		}
	}
	return -1
}

// Lookup returns the value of the first tag matching key.
func (tags TagPairs) Lookup(key string) (string, bool) {
	if i := tags.index(key); i >= 0 {
		return tags[i].Value, true
	}
	return "", false
}

// Get returns a tag value, or empty string if not present.
func (tags TagPairs) Get(key string) string {
	v, _ := tags.Lookup(key)
	return v
}

// Has returns true if the tag is present.
func (tags TagPairs) Has(key string) bool {
	return tags.index(key) >= 0
}

// Set replaces the value of an existing tag or appends a new one.
func (tags *TagPairs) Set(key, value string) {
	if i := tags.index(key); i >= 0 {
		(*tags)[i].Value = value
		return
	}
	*tags = append(*tags, TagPair{Key: key, Value: value})
}

// Missing returns the required keys that are absent, in the order given.
func (tags TagPairs) Missing(required []string) []string {
	var missing []string
	for _, key := range required {
		if !tags.Has(key) {
			missing = append(missing, key)
		}
	}
	return missing
}

// Map returns the tags as a key/value map.
func (tags TagPairs) Map() map[string]string {
	m := make(map[string]string, len(tags))
	for _, tp := range tags {
		m[tp.Key] = tp.Value
	}
	return m
}

// Clone returns a copy that shares no storage with tags.
func (tags TagPairs) Clone() TagPairs {
	if tags == nil {
		return nil
	}
	return append(TagPairs(nil), tags...)
}

// String renders each tag pair on its own line.
func (tags TagPairs) String() string {
	lines := make([]string, len(tags))
	for i, tp := range tags {
		lines[i] = tp.String()
	}
	return strings.Join(lines, "\n")
}
