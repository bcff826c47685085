package agmarknet

import "strings"

// similarity returns a ratio in [0,1] based on the longest common
// subsequence of the two lowercased strings.
func similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	lcs := prev[len(b)]
	return 2 * float64(lcs) / float64(len(a)+len(b))
}

// closestMatch returns the name from choices most similar to query, or ""
// when nothing scores at or above cutoff.
func closestMatch(query string, choices []string, cutoff float64) string {
	best := ""
	bestScore := cutoff
	for _, c := range choices {
		if s := similarity(query, c); s >= bestScore {
			best = c
			bestScore = s
		}
	}
	return best
}

// MatchMapping fuzzy-matches query against the Text field of choices.
// Returns nil when no candidate is close enough.
func MatchMapping(query string, choices []Mapping) *Mapping {
	names := make([]string, len(choices))
	for i, c := range choices {
		names[i] = c.Text
	}
	match := closestMatch(query, names, 0.6)
	if match == "" {
		return nil
	}
	for i := range choices {
		if choices[i].Text == match {
			return &choices[i]
		}
	}
	return nil
}

// FilterRecords keeps the records whose value under key fuzzy-matches query.
// An empty query keeps everything; no match at all returns an empty list.
func FilterRecords(query string, records []map[string]string, key string) []map[string]string {
	if query == "" {
		return records
	}
	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r[key]
	}
	match := closestMatch(query, names, 0.6)
	if match == "" {
		return []map[string]string{}
	}
	out := make([]map[string]string, 0, len(records))
	for _, r := range records {
		if r[key] == match {
			out = append(out, r)
		}
	}
	return out
}
