package feed

// ExcludeKnown drops candidates whose URL is already present in the known
// set, preserving order. The known set is a snapshot taken once per run:
// two subscriptions yielding the same URL within a single run both pass,
// and dedup against them happens only on the next run.
func ExcludeKnown(candidates []Record, known map[string]struct{}) []Record {
	fresh := make([]Record, 0, len(candidates))
	for _, candidate := range candidates {
		if _, exists := known[candidate.URL]; exists {
			continue
		}
		fresh = append(fresh, candidate)
	}

	return fresh
}
