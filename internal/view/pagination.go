package view

// PageCount returns the number of pages for n items, never less than 1 so
// an empty result still renders one empty-state page.
func PageCount(n, pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	count := (n + pageSize - 1) / pageSize
	if count < 1 {
		count = 1
	}
	return count
}

// PageWindow returns the page numbers a pager control shows, at most five.
// The window slides with the current page and pins to the ends of the
// range so it always holds five entries when five exist.
func PageWindow(current, count int) []int {
	if count < 1 {
		count = 1
	}
	if current < 1 {
		current = 1
	} else if current > count {
		current = count
	}

	var first, last int
	switch {
	case count <= 5:
		first, last = 1, count
	case current <= 3:
		first, last = 1, 5
	case current >= count-2:
		first, last = count-4, count
	default:
		first, last = current-2, current+2
	}

	window := make([]int, 0, last-first+1)
	for p := first; p <= last; p++ {
		window = append(window, p)
	}
	return window
}
