package game

// Positions are the dealer and blind seats for a hand.
type Positions struct {
	Dealer     int
	SmallBlind int
	BigBlind   int
}

// AssignRoles rotates the dealer one seat clockwise from prevDealer and
// places the blinds. Heads-up the dealer posts the small blind.
func AssignRoles(n, prevDealer int) Positions {
	dealer := ((prevDealer+1)%n + n) % n
	if n == 2 {
		return Positions{
			Dealer:     dealer,
			SmallBlind: dealer,
			BigBlind:   (dealer + 1) % n,
		}
	}
	return Positions{
		Dealer:     dealer,
		SmallBlind: (dealer + 1) % n,
		BigBlind:   (dealer + 2) % n,
	}
}

// preflopStart is where the preflop search for the first actor begins.
func (p Positions) preflopStart(n int) int {
	if n == 2 {
		return p.SmallBlind
	}
	return (p.Dealer + 3) % n
}

// postBlind commits up to amount from the seat. A short stack posts what it
// has and stays in the hand all-in.
func (h *HandState) postBlind(i int, amount float64) {
	h.commit(i, amount)
	if h.Seats[i].AllIn() {
		h.Seats[i].LastAction = "all-in"
	}
}
