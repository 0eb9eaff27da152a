package epg

import (
	"sort"
	"strings"
)

// Merge collapses consecutive duplicate program entries for one channel into
// single spans. Programs are stable-sorted by start time, then walked with a
// single open accumulator: an entry fuses into the accumulator when its
// trimmed title, description, and category all match (empty and absent compare
// equal) and its start does not fall after the accumulator's end (overlap or
// exact touch, not a gap). Fusing extends the accumulator's end to the later
// of the two ends; it never shrinks. Returns the reduced sequence and the
// number of entries fused away.
//
// Feeds repeat a program across consecutive slots with micro-adjusted
// boundaries; the connectivity predicate keeps a later rerun of the same title
// separate, since the gap breaks the chain.
func Merge(programs []Program) ([]Program, int) {
	if len(programs) == 0 {
		return nil, 0
	}

	sorted := make([]Program, len(programs))
	copy(sorted, programs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := make([]Program, 0, len(sorted))
	fused := 0

	for _, prog := range sorted {
		if len(merged) > 0 {
			last := &merged[len(merged)-1]
			if canFuse(last, &prog) {
				if prog.End.After(last.End) {
					last.End = prog.End
				}
				fused++
				continue
			}
		}
		merged = append(merged, prog)
	}

	return merged, fused
}

func canFuse(last, next *Program) bool {
	if strings.TrimSpace(last.Title) != strings.TrimSpace(next.Title) {
		return false
	}
	if strings.TrimSpace(last.Description) != strings.TrimSpace(next.Description) {
		return false
	}
	if strings.TrimSpace(last.Category) != strings.TrimSpace(next.Category) {
		return false
	}
	return !next.Start.After(last.End)
}
