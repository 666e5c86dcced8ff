// ABOUTME: Tag set encoding for the icons.tags column
// ABOUTME: Writes JSON arrays, reads JSON arrays or the legacy comma-joined form

package store

import (
	"encoding/json"
	"strings"
)

// NormalizeTags trims each tag and drops empties and duplicates, keeping the
// first occurrence's position. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// encodeTags stores an empty set as "" so that databases shared with older
// builds read it back as empty.
func encodeTags(tags []string) (string, error) {
	tags = NormalizeTags(tags)
	if len(tags) == 0 {
		return "", nil
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeTags never fails: a value that is not a JSON array is treated as the
// legacy comma-joined encoding, which cannot represent tags containing commas.
func decodeTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	if strings.HasPrefix(raw, "[") {
		var tags []string
		if err := json.Unmarshal([]byte(raw), &tags); err == nil {
			return NormalizeTags(tags)
		}
	}
	return NormalizeTags(strings.Split(raw, ","))
}
