package history

// GroupScope provides a convenient way to group commands using defer.
// Usage:
//
//	func runScript(h *History) {
//	    defer h.GroupScope("script").End()
//	    // ... several transactions ...
//	}
type GroupScope struct {
	history *History
	active  bool
}

// GroupScope starts a new group scope.
// Call End() or use with defer to properly close the group.
func (h *History) GroupScope(name string) *GroupScope {
	h.BeginGroup(name)
	return &GroupScope{
		history: h,
		active:  true,
	}
}

// End ends the group scope.
// Safe to call multiple times; only the first call has effect.
func (g *GroupScope) End() {
	if g.active {
		g.history.EndGroup()
		g.active = false
	}
}

// Cancel cancels the group scope without recording a history entry.
// Note: Commands already executed still affect the buffer.
func (g *GroupScope) Cancel() {
	if g.active {
		g.history.CancelGroup()
		g.active = false
	}
}
