package table

import (
	"errors"
	"fmt"
	"slices"
)

// PageSizes lists the selectable page sizes in display order.
var PageSizes = []int{5, 10, 20}

// DefaultPageSize is used when no valid size is configured.
const DefaultPageSize = 10

// ErrInvalidPageSize is returned for sizes outside PageSizes.
var ErrInvalidPageSize = errors.New("table: page size must be one of 5, 10 or 20")

// PageState is the pagination state of a mounted table.
type PageState struct {
	Page       int
	PageSize   int
	TotalPages int
}

// ValidPageSize reports whether n is one of PageSizes.
func ValidPageSize(n int) bool {
	return slices.Contains(PageSizes, n)
}

// PageController tracks the current page and page size.
// It is not safe for concurrent use; Table serialises access to it.
type PageController struct {
	state PageState
}

// NewPageController starts at page 1 of 1. An invalid size falls back to
// DefaultPageSize.
func NewPageController(pageSize int) *PageController {
	if !ValidPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	return &PageController{state: PageState{Page: 1, PageSize: pageSize, TotalPages: 1}}
}

// State returns the current pagination state.
func (p *PageController) State() PageState { return p.state }

// GoTo moves to page n clamped to [1, TotalPages] and reports whether
// the page changed.
func (p *PageController) GoTo(n int) bool {
	n = max(1, min(n, p.state.TotalPages))
	if n == p.state.Page {
		return false
	}
	p.state.Page = n
	return true
}

// CanPrev reports whether Previous and First are enabled.
func (p *PageController) CanPrev() bool { return p.state.Page > 1 }

// CanNext reports whether Next and Last are enabled.
func (p *PageController) CanNext() bool { return p.state.Page < p.state.TotalPages }

// First jumps to page 1.
func (p *PageController) First() bool {
	if !p.CanPrev() {
		return false
	}
	return p.GoTo(1)
}

// Prev decrements the page with a floor of 1.
func (p *PageController) Prev() bool {
	if !p.CanPrev() {
		return false
	}
	return p.GoTo(p.state.Page - 1)
}

// Next increments the page with a ceiling of TotalPages.
func (p *PageController) Next() bool {
	if !p.CanNext() {
		return false
	}
	return p.GoTo(p.state.Page + 1)
}

// Last jumps to TotalPages.
func (p *PageController) Last() bool {
	if !p.CanNext() {
		return false
	}
	return p.GoTo(p.state.TotalPages)
}

// SetPageSize applies n and always resets the page to 1, even when the
// old page would still fit. It reports whether the state changed.
func (p *PageController) SetPageSize(n int) (bool, error) {
	if !ValidPageSize(n) {
		return false, fmt.Errorf("%w: got %d", ErrInvalidPageSize, n)
	}
	changed := n != p.state.PageSize || p.state.Page != 1
	p.state.PageSize = n
	p.state.Page = 1
	return changed, nil
}

// SetTotalPages records the server-reported page count. Values below 1
// are treated as 1. The current page is pulled back inside the range;
// the return value reports whether that moved the page.
func (p *PageController) SetTotalPages(n int) bool {
	p.state.TotalPages = max(1, n)
	if p.state.Page > p.state.TotalPages {
		p.state.Page = p.state.TotalPages
		return true
	}
	return false
}

// Label is the footer text, e.g. "Page 1 of 3".
func (p *PageController) Label() string {
	return fmt.Sprintf("Page %d of %d", p.state.Page, p.state.TotalPages)
}
