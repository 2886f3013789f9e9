package automaton

// buildTable fills one row per state, in breadth-first order, using
//
//	next(r, c) = goto(r, c)          if r has a success edge on c
//	next(r, c) = next(fail(r), c)    otherwise
//
// The failure target is shallower than r, so its row is already complete.
func (m *Matcher) buildTable() {
	width := len(m.alphabet)
	m.columns = make(map[rune]int32, width)
	for i, ch := range m.alphabet {
		m.columns[ch] = int32(i)
	}
	m.table = make([]int32, len(m.states)*width)

	for i, ch := range m.alphabet {
		if nxt, ok := m.states[root].next[ch]; ok {
			m.table[i] = nxt
		}
	}
	for _, s := range m.order {
		row := m.row(int(s))
		failRow := m.row(int(m.states[s].fail))
		for i, ch := range m.alphabet {
			if nxt, ok := m.states[s].next[ch]; ok {
				row[i] = nxt
			} else {
				row[i] = failRow[i]
			}
		}
	}
	m.deterministic = true
}

func (m *Matcher) row(state int) []int32 {
	width := len(m.alphabet)
	return m.table[state*width : (state+1)*width]
}

func (m *Matcher) tableNext(state int, ch rune) int {
	col, ok := m.columns[ch]
	if !ok {
		return root
	}
	if !m.valid(state) {
		state = root
	}
	return int(m.table[state*len(m.alphabet)+int(col)])
}
