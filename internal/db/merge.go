package db

import "sort"

// MergeEntries concatenates per-index entries and orders them by descending
// score. Equal scores keep index order, then backend order.
func MergeEntries(parts [][]SearchEntry) []SearchEntry {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]SearchEntry, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	if len(parts) > 1 {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	}
	return out
}

// Page returns entries[from:from+size], clamped to the slice bounds.
func Page(entries []SearchEntry, from, size int) []SearchEntry {
	if from >= len(entries) || size <= 0 {
		return []SearchEntry{}
	}
	end := from + size
	if end > len(entries) {
		end = len(entries)
	}
	return entries[from:end]
}
