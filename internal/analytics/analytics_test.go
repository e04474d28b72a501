package analytics

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/studenttracker/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func entry(id string, p domain.Productivity, daysAfter int) domain.LogEntry {
	return domain.LogEntry{
		ID:           id,
		Timestamp:    base.AddDate(0, 0, daysAfter),
		Productivity: p,
		Feedback:     "fb " + id,
	}
}

func randomEntries(rng *rand.Rand, n int) []domain.LogEntry {
	levels := domain.AllProductivities()
	entries := make([]domain.LogEntry, n)
	for i := range entries {
		entries[i] = domain.LogEntry{
			ID:           string(rune('a' + i%26)),
			Timestamp:    base.Add(time.Duration(rng.Intn(60*24)) * time.Hour),
			Productivity: levels[rng.Intn(len(levels))],
		}
	}
	return entries
}

func TestSortByTimestamp_OldestFirstAndStable(t *testing.T) {
	in := []domain.LogEntry{
		entry("c", domain.ProductivityLow, 2),
		entry("a", domain.ProductivityHigh, 0),
		entry("b1", domain.ProductivityMedium, 1),
		entry("b2", domain.ProductivityLow, 1),
	}

	out := SortByTimestamp(in)

	ids := make([]string, len(out))
	for i, e := range out {
		ids[i] = e.ID
	}
	assert.Equal(t, []string{"a", "b1", "b2", "c"}, ids)
	assert.Equal(t, "c", in[0].ID, "input must not be reordered")
}

func TestSortByTimestamp_Property_NonDecreasing(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		out := SortByTimestamp(randomEntries(rng, rng.Intn(40)))
		for i := 1; i < len(out); i++ {
			assert.False(t, out[i].Timestamp.Before(out[i-1].Timestamp),
				"trial %d: entry %d precedes entry %d", trial, i, i-1)
		}
	}
}

func TestDistribute_CountsSumToLength(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		entries := randomEntries(rng, rng.Intn(40))
		d := Distribute(entries)
		assert.Equal(t, len(entries), d.Total(), "trial %d", trial)
		assert.Zero(t, d.Unrecognized)
	}
}

func TestDistribute_FixedOrderAndColors(t *testing.T) {
	d := Distribute([]domain.LogEntry{
		entry("1", domain.ProductivityLow, 0),
		entry("2", domain.ProductivityLow, 1),
		entry("3", domain.ProductivityHigh, 2),
	})

	want := []Slice{
		{Productivity: domain.ProductivityHigh, Count: 1, Color: ColorHigh},
		{Productivity: domain.ProductivityMedium, Count: 0, Color: ColorMedium},
		{Productivity: domain.ProductivityLow, Count: 2, Color: ColorLow},
	}
	if diff := cmp.Diff(want, d.Slices); diff != "" {
		t.Errorf("slices mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "rgba(75, 192, 192, 0.6)", ColorHigh.RGBA(0.6))
	assert.Equal(t, "#ff6384", ColorLow.Hex())
}

func TestDistribute_UnrecognizedKeptOutOfSlices(t *testing.T) {
	d := Distribute([]domain.LogEntry{
		entry("1", domain.ProductivityHigh, 0),
		entry("2", "Extreme", 1),
		entry("3", "", 2),
	})

	assert.Equal(t, 1, d.Total())
	assert.Equal(t, 2, d.Unrecognized)
	assert.Equal(t, 1, d.Count(domain.ProductivityHigh))
	assert.Equal(t, 0, d.Count("Extreme"))
}

func TestDistribute_Empty(t *testing.T) {
	d := Distribute(nil)
	require.Len(t, d.Slices, 3)
	assert.Equal(t, 0, d.Total())
	assert.Equal(t, 0.0, d.Slices[0].Share(d.Total()))
}

func TestBuildTrend_ScoresInTimestampOrder(t *testing.T) {
	loc := Localizer{Location: time.UTC, Layout: DefaultDateLayout}
	sorted := SortByTimestamp([]domain.LogEntry{
		entry("b", domain.ProductivityLow, 1),
		entry("a", domain.ProductivityHigh, 0),
		entry("c", domain.ProductivityMedium, 2),
	})

	tr := BuildTrend(sorted, loc)

	want := []Point{
		{Timestamp: base, Label: "3/10/2025", Score: 3},
		{Timestamp: base.AddDate(0, 0, 1), Label: "3/11/2025", Score: 1},
		{Timestamp: base.AddDate(0, 0, 2), Label: "3/12/2025", Score: 2},
	}
	if diff := cmp.Diff(want, tr.Points); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildTrend_SkipsUnrecognized(t *testing.T) {
	tr := BuildTrend([]domain.LogEntry{entry("x", "Extreme", 0)}, DefaultLocalizer())
	assert.Empty(t, tr.Points)
	assert.Equal(t, 1, tr.Skipped)
}

func TestLocalizer_UsesLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, "3/10/2025", Localizer{Location: time.UTC}.Date(late))
	assert.Equal(t, "3/11/2025", Localizer{Location: tokyo}.Date(late))
}

func TestTickLabel(t *testing.T) {
	assert.Equal(t, "", TickLabel(AxisMin))
	assert.Equal(t, "Low", TickLabel(1))
	assert.Equal(t, "Medium", TickLabel(2))
	assert.Equal(t, "High", TickLabel(3))
	assert.Equal(t, "", TickLabel(AxisMax))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize([]domain.LogEntry{}, DefaultLocalizer())
	assert.True(t, s.Empty())
	assert.Len(t, s.Distribution.Slices, 3)
	assert.Empty(t, s.Trend.Points)
}
