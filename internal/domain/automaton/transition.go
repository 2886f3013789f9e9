package automaton

// NextState returns the state reached from state on ch. It uses the
// deterministic table when one was built and the lazy walk otherwise; both
// give the same answer. Unknown states behave like the root, and any
// character that cannot extend a keyword prefix leads to the root.
func (m *Matcher) NextState(state int, ch rune) int {
	if m.deterministic {
		return m.tableNext(state, ch)
	}
	return m.LazyNextState(state, ch)
}

// LazyNextState follows failure links from state until some state has a
// success transition on ch, or the root is reached.
func (m *Matcher) LazyNextState(state int, ch rune) int {
	if !m.valid(state) {
		state = root
	}
	s := int32(state)
	for {
		if nxt, ok := m.states[s].next[ch]; ok {
			return int(nxt)
		}
		if s == root {
			return root
		}
		s = m.states[s].fail
	}
}
