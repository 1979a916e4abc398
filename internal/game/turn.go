package game

// needsToAct reports whether seat i still owes a decision this round.
func (h *HandState) needsToAct(i int) bool {
	s := &h.Seats[i]
	if h.Phase == Terminated || s.Lifecycle != Active || s.AllIn() {
		return false
	}
	matched := h.ToCall(i) == 0
	if s.HasActed && matched {
		return false
	}
	// Nobody left to bet against.
	if matched && h.withChips() <= 1 {
		return false
	}
	return true
}

// firstActorFrom returns the first seat at or clockwise after start that
// needs to act, or -1.
func (h *HandState) firstActorFrom(start int) int {
	n := len(h.Seats)
	for step := 0; step < n; step++ {
		i := ((start+step)%n + n) % n
		if h.needsToAct(i) {
			return i
		}
	}
	return -1
}

// advanceTurn passes the turn clockwise from the current holder. The turn
// becomes -1 when nobody needs to act, which closes the round.
func (h *HandState) advanceTurn() {
	h.TurnIndex = h.firstActorFrom(h.TurnIndex + 1)
}
