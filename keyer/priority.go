package keyer

// PriorityMemory is the SuperKeyer controller: it remembers when each paddle
// was first seen pressed during a squeeze and holds a one-element memory.
type PriorityMemory struct {
	ditAt, dahAt   Instant
	ditSet, dahSet bool

	memory    Element
	hasMemory bool
}

// RecordPress stamps now for a side the first time it is seen pressed and
// forgets it as soon as it is seen released, so a held paddle keeps the time
// of its original press.
func (m *PriorityMemory) RecordPress(ditPressed, dahPressed bool, now Instant) {
	if ditPressed && !m.ditSet {
		m.ditAt, m.ditSet = now, true
	}
	if dahPressed && !m.dahSet {
		m.dahAt, m.dahSet = now, true
	}
	if !ditPressed {
		m.ditAt, m.ditSet = 0, false
	}
	if !dahPressed {
		m.dahAt, m.dahSet = 0, false
	}
}

// DeterminePriority picks the element with priority right now. Dah wins when
// it was pressed first or at the same instant as Dit.
func (m *PriorityMemory) DeterminePriority() (Element, bool) {
	switch {
	case m.ditSet && m.dahSet:
		if m.dahAt <= m.ditAt {
			return Dah, true
		}
		return Dit, true
	case m.ditSet:
		return Dit, true
	case m.dahSet:
		return Dah, true
	}
	return CharSpace, false
}

// PressTimes exposes the recorded press instants.
func (m *PriorityMemory) PressTimes() (dit Instant, ditOK bool, dah Instant, dahOK bool) {
	return m.ditAt, m.ditSet, m.dahAt, m.dahSet
}

// SetMemory overwrites any unsent memory element.
func (m *PriorityMemory) SetMemory(e Element) {
	m.memory, m.hasMemory = e, true
}

// TakeMemory returns and clears the memory slot.
func (m *PriorityMemory) TakeMemory() (Element, bool) {
	if !m.hasMemory {
		return CharSpace, false
	}
	e := m.memory
	m.memory, m.hasMemory = CharSpace, false
	return e, true
}

func (m *PriorityMemory) PeekMemory() (Element, bool) { return m.memory, m.hasMemory }

func (m *PriorityMemory) ShouldSendMemory() bool { return m.hasMemory }

// HandleSqueezeRelease memorises the opposite of the last element sent.
// CharSpace never enters memory.
func (m *PriorityMemory) HandleSqueezeRelease(lastSent Element) {
	if opp := lastSent.Opposite(); opp != CharSpace {
		m.SetMemory(opp)
	}
}

// ClearHistory forgets press times and memory.
func (m *PriorityMemory) ClearHistory() { *m = PriorityMemory{} }
