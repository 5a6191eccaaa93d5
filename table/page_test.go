package table

import (
	"errors"
	"testing"
)

func TestSetPageSizeAlwaysResetsPage(t *testing.T) {
	for _, from := range PageSizes {
		for _, to := range PageSizes {
			p := NewPageController(from)
			p.SetTotalPages(9)
			p.GoTo(7)
			if _, err := p.SetPageSize(to); err != nil {
				t.Fatalf("SetPageSize(%d): %v", to, err)
			}
			if got := p.State().Page; got != 1 {
				t.Errorf("from %d to %d: page = %d, want 1", from, to, got)
			}
			if got := p.State().PageSize; got != to {
				t.Errorf("page size = %d, want %d", got, to)
			}
		}
	}
}

func TestSetPageSizeRejectsUnknownSize(t *testing.T) {
	p := NewPageController(10)
	p.SetTotalPages(4)
	p.GoTo(3)
	_, err := p.SetPageSize(15)
	if !errors.Is(err, ErrInvalidPageSize) {
		t.Fatalf("expected ErrInvalidPageSize, got %v", err)
	}
	if s := p.State(); s.Page != 3 || s.PageSize != 10 {
		t.Errorf("state changed on rejected size: %+v", s)
	}
}

func TestNewPageControllerDefaults(t *testing.T) {
	p := NewPageController(7)
	want := PageState{Page: 1, PageSize: DefaultPageSize, TotalPages: 1}
	if got := p.State(); got != want {
		t.Errorf("State() = %+v, want %+v", got, want)
	}
}

func TestPrevNextStayInRange(t *testing.T) {
	for total := 1; total <= 6; total++ {
		for start := 1; start <= total; start++ {
			p := NewPageController(5)
			p.SetTotalPages(total)
			p.GoTo(start)
			for i := 0; i < total+2; i++ {
				p.Prev()
				if p.State().Page < 1 {
					t.Fatalf("total %d start %d: Prev produced page %d", total, start, p.State().Page)
				}
			}
			for i := 0; i < total+2; i++ {
				p.Next()
				if p.State().Page > total {
					t.Fatalf("total %d start %d: Next produced page %d", total, start, p.State().Page)
				}
			}
			if p.State().Page != total {
				t.Errorf("repeated Next should land on %d, got %d", total, p.State().Page)
			}
		}
	}
}

func TestBoundaryControlsAreNoOps(t *testing.T) {
	p := NewPageController(10)
	p.SetTotalPages(3)
	if p.First() || p.Prev() {
		t.Error("First/Prev should be disabled on page 1")
	}
	if p.CanPrev() {
		t.Error("CanPrev should be false on page 1")
	}
	if !p.Last() {
		t.Fatal("Last should move from page 1 of 3")
	}
	if p.Next() || p.Last() {
		t.Error("Next/Last should be disabled on the last page")
	}
	if p.CanNext() {
		t.Error("CanNext should be false on the last page")
	}
	if !p.First() || p.State().Page != 1 {
		t.Errorf("First should jump to 1, got %d", p.State().Page)
	}
}

func TestGoToClamps(t *testing.T) {
	tests := []struct {
		target int
		want   int
	}{
		{-4, 1},
		{0, 1},
		{2, 2},
		{5, 5},
		{99, 5},
	}
	for _, tt := range tests {
		p := NewPageController(10)
		p.SetTotalPages(5)
		p.GoTo(tt.target)
		if got := p.State().Page; got != tt.want {
			t.Errorf("GoTo(%d) = %d, want %d", tt.target, got, tt.want)
		}
	}
}

func TestSetTotalPagesPullsPageBack(t *testing.T) {
	p := NewPageController(10)
	p.SetTotalPages(8)
	p.GoTo(6)
	if moved := p.SetTotalPages(2); !moved {
		t.Fatal("expected page to be pulled back")
	}
	if got := p.State().Page; got != 2 {
		t.Errorf("page = %d, want 2", got)
	}
	if moved := p.SetTotalPages(0); !moved {
		t.Fatal("expected page to be pulled back to 1")
	}
	if got := p.State().TotalPages; got != 1 {
		t.Errorf("total pages = %d, want 1 for a zero report", got)
	}
}

func TestLabel(t *testing.T) {
	p := NewPageController(10)
	p.SetTotalPages(3)
	if got := p.Label(); got != "Page 1 of 3" {
		t.Errorf("Label() = %q", got)
	}
}
