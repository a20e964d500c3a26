package wiring

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Spec modes. The zero Spec behaves like None.
const (
	modeNone   = "none"
	modeAll    = "all"
	modeGroups = "groups"
)

// ErrIndexOutOfRange reports a sync group referencing a panel index that
// does not exist in the normalized panel set.
var ErrIndexOutOfRange = errors.New("sync group index out of range")

// Group is a set of panel indices that should be mutually linked.
// Indices may repeat; repeats only produce redundant pairs that the
// generator filters as self-links.
type Group []int

// Spec is a declarative synchronization specification. Construct one with
// [All], [None], or [Groups]; parse one from text with [Parse].
type Spec struct {
	mode   string
	groups []Group
}

// None returns the spec linking nothing.
func None() Spec { return Spec{mode: modeNone} }

// All returns the spec linking every panel to every other panel.
func All() Spec { return Spec{mode: modeAll} }

// Groups returns the spec linking each given group of panel indices
// independently. Groups may overlap.
func Groups(groups ...[]int) Spec {
	gs := make([]Group, len(groups))
	for i, g := range groups {
		gs[i] = Group(g)
	}
	return Spec{mode: modeGroups, groups: gs}
}

// IsZero reports whether the spec was never set. A zero spec resolves like
// None, but entry points use IsZero to apply their own default.
func (s Spec) IsZero() bool { return s.mode == "" }

// String renders the spec in the textual form accepted by [Parse].
func (s Spec) String() string {
	switch s.mode {
	case modeAll:
		return "all"
	case modeGroups:
		parts := make([]string, len(s.groups))
		for i, g := range s.groups {
			nums := make([]string, len(g))
			for j, idx := range g {
				nums[j] = strconv.Itoa(idx)
			}
			parts[i] = strings.Join(nums, ",")
		}
		return strings.Join(parts, ";")
	default:
		return "none"
	}
}

// Parse reads a spec from its textual form: "all", "none", or semicolon
// separated groups of comma separated 0-based indices ("0,1;2,3").
func Parse(s string) (Spec, error) {
	switch strings.TrimSpace(s) {
	case "all":
		return All(), nil
	case "none", "":
		return None(), nil
	}

	var groups []Group
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var g Group
		for _, field := range strings.Split(part, ",") {
			idx, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil {
				return Spec{}, fmt.Errorf("invalid sync spec %q: %q is not a panel index", s, field)
			}
			g = append(g, idx)
		}
		groups = append(groups, g)
	}
	if len(groups) == 0 {
		return Spec{}, fmt.Errorf("invalid sync spec %q", s)
	}
	return Spec{mode: modeGroups, groups: groups}, nil
}

// Resolve expands the spec against a panel set of the given size.
//
// "all" yields one group {0..panelCount-1}, "none" yields zero groups, and
// explicit groups are returned as given after validating that every index is
// in [0, panelCount). Out-of-range indices are a configuration error; they
// are never silently dropped. No normalization or deduplication is applied.
func (s Spec) Resolve(panelCount int) ([]Group, error) {
	if panelCount < 0 {
		return nil, fmt.Errorf("panel count cannot be negative, got %d", panelCount)
	}

	switch s.mode {
	case modeNone, "":
		return nil, nil
	case modeAll:
		if panelCount == 0 {
			return nil, nil
		}
		g := make(Group, panelCount)
		for i := range g {
			g[i] = i
		}
		return []Group{g}, nil
	case modeGroups:
		out := make([]Group, len(s.groups))
		for gi, g := range s.groups {
			for _, idx := range g {
				if idx < 0 || idx >= panelCount {
					return nil, fmt.Errorf("%w: group %d references panel %d, have %d panels",
						ErrIndexOutOfRange, gi, idx, panelCount)
				}
			}
			out[gi] = append(Group(nil), g...)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("invalid sync spec mode %q", s.mode)
	}
}

// MarshalJSON encodes the spec as "all", "none", or an array of index arrays.
func (s Spec) MarshalJSON() ([]byte, error) {
	switch s.mode {
	case modeGroups:
		return json.Marshal(s.groups)
	default:
		return json.Marshal(s.String())
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *Spec) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		parsed, err := Parse(str)
		if err != nil {
			return err
		}
		*s = parsed
		return nil
	}

	var groups [][]int
	if err := json.Unmarshal(data, &groups); err != nil {
		return fmt.Errorf("sync spec must be \"all\", \"none\", or an array of index groups")
	}
	*s = Groups(groups...)
	return nil
}
