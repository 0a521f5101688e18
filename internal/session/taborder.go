package session

// Reconcile brings a tab order in line with the set of open chat ids:
// ids still open keep their relative order, newly-opened ids are
// appended in the given discovery order, stale ids are dropped.
func Reconcile(order []int, openIDs []int) []int {
	open := make(map[int]bool, len(openIDs))
	for _, id := range openIDs {
		open[id] = true
	}
	next := make([]int, 0, len(openIDs))
	seen := make(map[int]bool, len(openIDs))
	for _, id := range order {
		if open[id] && !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	for _, id := range openIDs {
		if !seen[id] {
			next = append(next, id)
			seen[id] = true
		}
	}
	return next
}

// Reorder moves the element at from to the position to, shifting the
// elements between them. Out-of-bounds or equal indices leave the order
// unchanged.
func Reorder(order []int, from, to int) []int {
	if from == to || from < 0 || to < 0 || from >= len(order) || to >= len(order) {
		return order
	}
	next := make([]int, 0, len(order))
	next = append(next, order[:from]...)
	next = append(next, order[from+1:]...)
	moved := order[from]
	next = append(next[:to], append([]int{moved}, next[to:]...)...)
	return next
}
