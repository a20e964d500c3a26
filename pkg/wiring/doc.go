// Package wiring resolves a declarative synchronization spec into the exact
// set of pairwise link commands between panels.
//
// # Model
//
// A [Spec] names which panels move together: "all" (one group of every
// panel), "none" (no groups), or an explicit list of groups of 0-based panel
// indices. Groups are independent of each other - a panel may appear in more
// than one group, and each group contributes its own commands without
// cross-group deduplication. Duplicate commands are harmless: re-linking an
// already linked pair is a no-op at runtime.
//
// Resolution validates indices against the normalized panel count, then each
// group expands to all ordered pairs (a, b) with a != b. A group of k
// distinct panels therefore yields exactly k*(k-1) directed [Link] commands
// and no self-links; emitting both directions is what makes the link
// bidirectional in effect.
//
// # Usage
//
//	spec := wiring.Groups([]int{0, 1}, []int{2, 3})
//	groups, err := spec.Resolve(4)
//	if err != nil {
//	    return err
//	}
//	links := wiring.Generate(ids, groups, wiring.LinkOptions{SyncCursor: true})
package wiring
