package service

import "github.com/stemsi/qbank-manager/internal/model"

// SyncEntries appends a blank entry for every image path not referenced by
// an existing entry, in the order of paths. Existing entries keep their
// positions. added is the number of appended entries.
func SyncEntries(entries []model.Entry, paths []string) (out []model.Entry, added int) {
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.Image] = true
	}

	out = entries
	for _, p := range paths {
		if known[p] {
			continue
		}
		known[p] = true
		out = append(out, model.NewBlankEntry(p))
		added++
	}
	return out, added
}
