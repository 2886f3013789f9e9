package automaton

import "slices"

// buildTrie inserts every keyword along success transitions, allocating
// state ids in insertion order, and records the alphabet.
func (m *Matcher) buildTrie() {
	seen := make(map[rune]struct{})
	m.lens = make([]int, len(m.keywords))

	for id, kw := range m.keywords {
		cur := int32(root)
		n := 0
		for _, ch := range kw {
			n++
			if _, ok := seen[ch]; !ok {
				seen[ch] = struct{}{}
				m.alphabet = append(m.alphabet, ch)
			}
			nxt, ok := m.states[cur].next[ch]
			if !ok {
				nxt = int32(len(m.states))
				m.states = append(m.states, state{})
				if m.states[cur].next == nil {
					m.states[cur].next = make(map[rune]int32)
				}
				m.states[cur].next[ch] = nxt
			}
			cur = nxt
		}
		m.lens[id] = n
		m.states[cur].out = append(m.states[cur].out, int32(id))
	}
}

// buildFailure computes failure links breadth-first and closes each state's
// outputs over its failure target. A state's failure target is always
// shallower, so its outputs are final by the time they are inherited.
func (m *Matcher) buildFailure() {
	queue := make([]int32, 0, len(m.states)-1)
	for _, ch := range edges(m.states[root].next) {
		child := m.states[root].next[ch]
		m.states[child].fail = root
		queue = append(queue, child)
	}

	for head := 0; head < len(queue); head++ {
		r := queue[head]
		for _, ch := range edges(m.states[r].next) {
			child := m.states[r].next[ch]
			queue = append(queue, child)

			f := m.states[r].fail
			for f != root {
				if _, ok := m.states[f].next[ch]; ok {
					break
				}
				f = m.states[f].fail
			}
			target := int32(root)
			if nxt, ok := m.states[f].next[ch]; ok {
				target = nxt
			}
			m.states[child].fail = target
			m.inherit(child, target)
		}
	}
	m.order = queue
}

// inherit appends the failure target's outputs after s's own. A state with
// no output of its own shares the target's slice; nothing appends to an
// output list once construction moves past it.
func (m *Matcher) inherit(s, target int32) {
	inherited := m.states[target].out
	if len(inherited) == 0 {
		return
	}
	own := m.states[s].out
	if len(own) == 0 {
		m.states[s].out = inherited
		return
	}
	merged := make([]int32, 0, len(own)+len(inherited))
	merged = append(merged, own...)
	m.states[s].out = append(merged, inherited...)
}

// edges returns the transition characters of a state in ascending order so
// that state numbering and BFS order do not depend on map iteration.
func edges(next map[rune]int32) []rune {
	chars := make([]rune, 0, len(next))
	for ch := range next {
		chars = append(chars, ch)
	}
	slices.Sort(chars)
	return chars
}
