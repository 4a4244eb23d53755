package listing

import "sync"

const (
	// PageSize is the number of grid cards per page (and per incremental
	// reveal step in compact mode).
	PageSize = 3

	// CompactMaxWidth is the viewport width, in pixels, at or below which
	// the grid switches from paging to incremental reveal.
	CompactMaxWidth = 768
)

// CompactForWidth reports whether a viewport width selects compact mode.
func CompactForWidth(width int) bool {
	return width <= CompactMaxWidth
}

// Pager owns the grid's derived view state over a list of a given length.
// In normal mode the list is cut into 1-based pages of PageSize items; in
// compact mode items are revealed cumulatively, PageSize at a time.
// Switching modes resets to the first page / first reveal step.
type Pager struct {
	mu       sync.Mutex
	total    int
	compact  bool
	page     int
	revealed int
}

func NewPager(total int) *Pager {
	p := &Pager{}
	p.Reset(total)
	return p
}

// Reset replaces the backing length, for example after a fresh fetch, and
// returns the view to its initial state in the current mode.
func (p *Pager) Reset(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if total < 0 {
		total = 0
	}
	p.total = total
	p.page = 1
	p.revealed = min(PageSize, total)
}

// SetCompact switches between paged and incremental layouts. Changing mode
// resets the view; setting the current mode again is a no-op.
func (p *Pager) SetCompact(compact bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.compact == compact {
		return
	}
	p.compact = compact
	p.page = 1
	p.revealed = min(PageSize, p.total)
}

func (p *Pager) Compact() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.compact
}

// PageCount returns the number of pages in non-compact mode.
func (p *Pager) PageCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return (p.total + PageSize - 1) / PageSize
}

// Page returns the current 1-based page.
func (p *Pager) Page() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page
}

// Goto moves to the given page, clamped to the valid range.
func (p *Pager) Goto(page int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	last := (p.total + PageSize - 1) / PageSize
	if last == 0 {
		p.page = 1
		return p.page
	}
	if page < 1 {
		page = 1
	}
	if page > last {
		page = last
	}
	p.page = page
	return p.page
}

// Bounds returns the half-open [start, end) slice window for the current
// view: the current page in normal mode, the revealed prefix in compact
// mode.
func (p *Pager) Bounds() (start, end int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.compact {
		return 0, p.revealed
	}
	start = (p.page - 1) * PageSize
	if start > p.total {
		start = p.total
	}
	end = min(start+PageSize, p.total)
	return start, end
}

// PageBounds returns the slice window of an arbitrary 1-based page,
// independent of the current state.
func (p *Pager) PageBounds(page int) (start, end int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if page < 1 {
		page = 1
	}
	start = (page - 1) * PageSize
	if start > p.total {
		start = p.total
	}
	end = min(start+PageSize, p.total)
	return start, end
}

// Reveal grows the compact-mode prefix by one step (the sentinel became
// visible). The revealed count never shrinks and never exceeds the total.
func (p *Pager) Reveal() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.compact {
		return p.revealed
	}
	p.revealed = min(p.revealed+PageSize, p.total)
	return p.revealed
}

// Revealed returns the compact-mode prefix length.
func (p *Pager) Revealed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revealed
}

// AtEnd reports whether the end-of-list indicator should replace the
// sentinel: everything is revealed and there was more than one step.
func (p *Pager) AtEnd() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.revealed == p.total && p.total > PageSize
}
