package ui

// FocusManager tracks and rotates focus across an ordered set of element IDs.
// A Current that is not in Order counts as index -1, so Next lands on the
// first element and Prev on the last.
type FocusManager struct {
	Current  string   // ID of the currently focused element
	Order    []string // Tab order for focus rotation
	OnChange func(from, to string)
}

// Reset replaces the order and clears the current focus.
func (f *FocusManager) Reset(order []string) {
	f.Order = order
	f.Current = ""
}

// Index returns the position of Current in Order, or -1.
func (f *FocusManager) Index() int {
	for i, id := range f.Order {
		if id == f.Current {
			return i
		}
	}
	return -1
}

// Next advances focus to the next element in order, wrapping past the end to 0.
// Returns the new current focus ID.
func (f *FocusManager) Next() string {
	if len(f.Order) == 0 {
		return ""
	}
	nextIdx := (f.Index() + 1) % len(f.Order)
	f.move(f.Order[nextIdx])
	return f.Current
}

// Prev moves focus to the previous element, wrapping past 0 to the last index.
func (f *FocusManager) Prev() string {
	if len(f.Order) == 0 {
		return ""
	}
	nextIdx := f.Index() - 1
	if nextIdx < 0 {
		nextIdx = len(f.Order) - 1
	}
	f.move(f.Order[nextIdx])
	return f.Current
}

// SetFocus sets focus to the given ID.
// Returns true if the ID exists in order.
func (f *FocusManager) SetFocus(id string) bool {
	for _, o := range f.Order {
		if o == id {
			f.move(id)
			return true
		}
	}
	return false
}

func (f *FocusManager) move(to string) {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
}
