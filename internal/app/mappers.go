package app

import (
	"strconv"
	"strings"
	"time"

	"bank_reviews/internal/domain"
)

/********** alias registry (single source of truth) **********/

var feedAliases = map[string][]string{
	"text":   {"content", "text", "review", "body", "comment"},
	"rating": {"score", "rating", "stars"},
	"date":   {"at", "date", "updated", "timestamp", "created_at"},
	"id":     {"reviewId", "review_id", "id"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// getFloatFlexible: number from several paths (float64/int/string like "4,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// feedDate: calendar day from RFC3339 / date strings or epoch seconds/millis.
func feedDate(m map[string]any) *string {
	for _, k := range feedAliases["date"] {
		var t time.Time
		switch v := lookupAny(m, k).(type) {
		case string:
			d, ok := ParseDate(v)
			if !ok {
				continue
			}
			t = d
		case float64:
			sec := int64(v)
			if sec > 1e12 {
				sec /= 1000
			}
			t = time.Unix(sec, 0).UTC()
		default:
			continue
		}
		s := t.Format(domain.DateLayout)
		return &s
	}
	return nil
}

/********** review mapper **********/

// mapFeedReviews turns feed payloads into raw rows for bank. Reviews with
// empty content are skipped.
func mapFeedReviews(bank string, in []map[string]any) []domain.RawReview {
	source := domain.DefaultSource
	out := make([]domain.RawReview, 0, len(in))
	for _, r := range in {
		txt := firstNonEmptyAlias(r, feedAliases, "text")
		if txt == nil || strings.TrimSpace(*txt) == "" {
			continue
		}
		rv := domain.RawReview{Text: txt, Date: feedDate(r), Bank: &bank, Source: &source}
		if f := getFloatFlexible(r, feedAliases["rating"]...); f != nil {
			n := int(*f)
			rv.Rating = &n
		}
		out = append(out, rv)
	}
	return out
}
