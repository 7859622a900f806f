// Package view models which logical storefront page is active, plus the one
// previously active page for single-step back navigation.
package view

// View names a logical storefront page.
type View string

const (
	Home    View = "home"
	Shop    View = "shop"
	Details View = "details"
	Cart    View = "cart"
)

// Valid reports whether v is one of the known pages.
func (v View) Valid() bool {
	switch v {
	case Home, Shop, Details, Cart:
		return true
	}
	return false
}

// State tracks the current and previous view. The zero value is not useful;
// use NewState, which starts on the home page like a fresh visit.
type State struct {
	current  View
	previous View
}

func NewState() *State {
	return &State{current: Home}
}

// Set makes v the current view and remembers the old one for Back.
// Unknown views are ignored.
func (s *State) Set(v View) {
	if !v.Valid() {
		return
	}
	s.previous = s.current
	s.current = v
}

// Current returns the active view.
func (s *State) Current() View {
	return s.current
}

// Previous returns the view Back would return to.
func (s *State) Previous() View {
	return s.previous
}

// Back restores the previous view and returns it. Only a single step of
// history is kept: after Back the previous slot falls back to home.
func (s *State) Back() View {
	target := s.previous
	if target == "" {
		target = Home
	}
	s.current = target
	s.previous = Home
	return target
}
