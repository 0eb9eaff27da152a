package epg

import (
	"testing"
	"time"
)

func prog(title, category string, start, end time.Time) Program {
	return Program{
		ChannelID: "ch",
		Title:     title,
		Category:  category,
		Start:     start,
		End:       end,
	}
}

func at(hour, min int) time.Time {
	return time.Date(2025, 11, 4, hour, min, 0, 0, time.UTC)
}

func TestMergeConsecutiveIdentical(t *testing.T) {
	programs := []Program{
		prog("Morning Show", "News", at(10, 0), at(10, 30)),
		prog("Morning Show", "News", at(10, 30), at(11, 0)),
		prog("Morning Show", "News", at(13, 0), at(13, 30)),
	}

	merged, fused := Merge(programs)

	if len(merged) != 2 {
		t.Fatalf("Expected 2 merged programs, got: %d", len(merged))
	}
	if fused != 1 {
		t.Errorf("Expected 1 fused entry, got: %d", fused)
	}

	if !merged[0].Start.Equal(at(10, 0)) || !merged[0].End.Equal(at(11, 0)) {
		t.Errorf("Expected fused span 10:00-11:00, got: %v-%v", merged[0].Start, merged[0].End)
	}
	// The 13:00 entry has a gap before it, so it stays separate.
	if !merged[1].Start.Equal(at(13, 0)) || !merged[1].End.Equal(at(13, 30)) {
		t.Errorf("Expected separate span 13:00-13:30, got: %v-%v", merged[1].Start, merged[1].End)
	}
}

func TestMergeGapKeepsSeparate(t *testing.T) {
	programs := []Program{
		prog("Rerun", "", at(10, 0), at(10, 30)),
		prog("Rerun", "", at(10, 31), at(11, 0)),
	}

	merged, fused := Merge(programs)

	if len(merged) != 2 {
		t.Fatalf("Expected 2 programs for gapped entries, got: %d", len(merged))
	}
	if fused != 0 {
		t.Errorf("Expected 0 fused entries, got: %d", fused)
	}
}

func TestMergeExactTouchFuses(t *testing.T) {
	programs := []Program{
		prog("Show", "", at(10, 0), at(10, 30)),
		prog("Show", "", at(10, 30), at(11, 0)),
	}

	merged, fused := Merge(programs)

	if len(merged) != 1 || fused != 1 {
		t.Fatalf("Expected exact touch to fuse, got %d programs, %d fused", len(merged), fused)
	}
}

func TestMergeDifferingCategoryNotFused(t *testing.T) {
	programs := []Program{
		prog("Show", "News", at(10, 0), at(10, 30)),
		prog("Show", "Sports", at(10, 30), at(11, 0)),
	}

	merged, fused := Merge(programs)

	if len(merged) != 2 {
		t.Fatalf("Expected differing category to prevent fusion, got: %d", len(merged))
	}
	if fused != 0 {
		t.Errorf("Expected 0 fused entries, got: %d", fused)
	}
}

func TestMergeTrimmedAndAbsentFieldsCompareEqual(t *testing.T) {
	a := prog("Show", "", at(10, 0), at(10, 30))
	a.Description = "  same desc "
	b := prog("Show  ", "", at(10, 30), at(11, 0))
	b.Description = "same desc"

	merged, fused := Merge([]Program{a, b})

	if len(merged) != 1 || fused != 1 {
		t.Fatalf("Expected trimmed fields to compare equal, got %d programs, %d fused", len(merged), fused)
	}
}

func TestMergeEndNeverShrinks(t *testing.T) {
	programs := []Program{
		prog("Show", "", at(10, 0), at(12, 0)),
		prog("Show", "", at(10, 30), at(11, 0)),
	}

	merged, _ := Merge(programs)

	if len(merged) != 1 {
		t.Fatalf("Expected 1 program, got: %d", len(merged))
	}
	if !merged[0].End.Equal(at(12, 0)) {
		t.Errorf("Expected end to stay at 12:00, got: %v", merged[0].End)
	}
}

func TestMergeSortsByStart(t *testing.T) {
	programs := []Program{
		prog("Show", "", at(10, 30), at(11, 0)),
		prog("Show", "", at(10, 0), at(10, 30)),
	}

	merged, fused := Merge(programs)

	if len(merged) != 1 || fused != 1 {
		t.Fatalf("Expected out-of-order input to be sorted and fused, got %d programs, %d fused", len(merged), fused)
	}
	if !merged[0].Start.Equal(at(10, 0)) {
		t.Errorf("Expected merged span to start at 10:00, got: %v", merged[0].Start)
	}
}

func TestMergeEmpty(t *testing.T) {
	merged, fused := Merge(nil)
	if len(merged) != 0 || fused != 0 {
		t.Errorf("Expected empty result for empty input, got %d programs, %d fused", len(merged), fused)
	}
}
