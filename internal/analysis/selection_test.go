package analysis

import (
	"testing"

	"github.com/decades-app/decades/internal/models"
)

func TestSelection(t *testing.T) {
	t.Run("Click Sequence", func(t *testing.T) {
		var sel Selection

		sel.Click(2000)
		lo, hi, ok := sel.Bounds()
		if !ok || lo != 2000 || hi != 2000 {
			t.Fatalf("after first click expected single 2000, got lo=%d hi=%d ok=%v", lo, hi, ok)
		}

		sel.Click(2005)
		lo, hi, ok = sel.Bounds()
		if !ok || lo != 2000 || hi != 2005 {
			t.Fatalf("after second click expected range [2000,2005], got lo=%d hi=%d ok=%v", lo, hi, ok)
		}

		// A completed range is replaced by a fresh single pick.
		sel.Click(2010)
		lo, hi, ok = sel.Bounds()
		if !ok || lo != 2010 || hi != 2010 {
			t.Fatalf("click on completed range expected single 2010, got lo=%d hi=%d ok=%v", lo, hi, ok)
		}

		// Same year again toggles off.
		sel.Click(2010)
		if !sel.Empty() {
			t.Fatal("expected empty selection after toggling the same year")
		}
	})

	t.Run("Reverse Order Range", func(t *testing.T) {
		var sel Selection
		sel.Click(2005)
		sel.Click(2000)

		lo, hi, ok := sel.Bounds()
		if !ok || lo != 2000 || hi != 2005 {
			t.Errorf("expected normalized range [2000,2005], got lo=%d hi=%d ok=%v", lo, hi, ok)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		var sel Selection
		sel.Click(1999)
		sel.Click(2003)
		sel.Clear()

		if !sel.Empty() {
			t.Error("expected empty selection after Clear")
		}
	})

	t.Run("SelectedYears", func(t *testing.T) {
		var sel Selection
		sel.Click(2000)
		sel.Click(2003)

		years := sel.SelectedYears()
		if len(years) != 4 {
			t.Fatalf("expected 4 selected years, got %d", len(years))
		}
		for y := 2000; y <= 2003; y++ {
			if !years[y] {
				t.Errorf("expected %d to be selected", y)
			}
		}
	})

	t.Run("Filter", func(t *testing.T) {
		tracks := []models.Track{
			trackWithYear("a", 1999, 1),
			trackWithYear("b", 2001, 1),
			trackWithYear("c", 2003, 1),
			trackWithYear("d", 2001, 1),
		}

		var sel Selection

		t.Run("Empty Selection Returns Full List", func(t *testing.T) {
			got := sel.Filter(tracks)
			if len(got) != len(tracks) {
				t.Errorf("expected full list, got %d tracks", len(got))
			}
		})

		t.Run("Range Keeps Order", func(t *testing.T) {
			sel.Click(2000)
			sel.Click(2002)

			got := sel.Filter(tracks)
			if len(got) != 2 {
				t.Fatalf("expected 2 tracks, got %d", len(got))
			}
			if got[0].ID != "b" || got[1].ID != "d" {
				t.Errorf("expected tracks b,d in order, got %s,%s", got[0].ID, got[1].ID)
			}
		})

		t.Run("Single Year", func(t *testing.T) {
			sel.Clear()
			sel.Click(2003)

			got := sel.Filter(tracks)
			if len(got) != 1 || got[0].ID != "c" {
				t.Errorf("expected only track c, got %d tracks", len(got))
			}
		})
	})
}
