package wiring

// Link is one directed sync instruction: make the source panel exchange
// view changes with the target panel. Both directions of a pair are always
// emitted, so links are bidirectional in effect.
//
// Booleans stay typed all the way to the single serialization boundary in
// the view renderer; nothing here stringifies them.
type Link struct {
	SourceID      string `json:"source"`
	TargetID      string `json:"target"`
	SyncCursor    bool   `json:"sync_cursor"`
	NoInitialSync bool   `json:"no_initial_sync"`
}

// LinkOptions carries the per-command flags applied to every generated link.
type LinkOptions struct {
	// SyncCursor propagates the pointer position across linked panels.
	SyncCursor bool

	// NoInitialSync suppresses the immediate view alignment at link time.
	NoInitialSync bool
}

// Generate expands resolved groups into link commands over the panel ids.
//
// For each group it walks the full Cartesian product of the group with
// itself and emits one command per ordered pair (a, b) with a != b. A group
// of k distinct indices yields exactly k*(k-1) commands and never a
// self-link. Groups are processed independently: overlapping groups emit
// their commands without cross-group deduplication, and duplicate indices
// within a group only add pairs that the a != b filter drops.
//
// ids maps panel index to panel id; indices must already be validated by
// [Spec.Resolve]. Output order is deterministic for reproducible artifacts.
func Generate(ids []string, groups []Group, opts LinkOptions) []Link {
	var links []Link
	for _, g := range groups {
		for _, a := range g {
			for _, b := range g {
				if a == b {
					continue
				}
				links = append(links, Link{
					SourceID:      ids[a],
					TargetID:      ids[b],
					SyncCursor:    opts.SyncCursor,
					NoInitialSync: opts.NoInitialSync,
				})
			}
		}
	}
	return links
}
