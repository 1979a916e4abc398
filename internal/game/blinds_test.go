package game

import "testing"

func TestAssignRoles(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		prevDealer int
		want       Positions
	}{
		{"first hand three handed", 3, -1, Positions{Dealer: 0, SmallBlind: 1, BigBlind: 2}},
		{"rotation three handed", 3, 0, Positions{Dealer: 1, SmallBlind: 2, BigBlind: 0}},
		{"wraps around", 4, 3, Positions{Dealer: 0, SmallBlind: 1, BigBlind: 2}},
		{"heads-up dealer posts small blind", 2, -1, Positions{Dealer: 0, SmallBlind: 0, BigBlind: 1}},
		{"heads-up rotation", 2, 0, Positions{Dealer: 1, SmallBlind: 1, BigBlind: 0}},
		{"previous dealer beyond shrunk table", 3, 5, Positions{Dealer: 0, SmallBlind: 1, BigBlind: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AssignRoles(tt.n, tt.prevDealer); got != tt.want {
				t.Errorf("AssignRoles(%d, %d) = %+v, want %+v", tt.n, tt.prevDealer, got, tt.want)
			}
		})
	}
}

func TestPreflopStart(t *testing.T) {
	if got := AssignRoles(2, -1).preflopStart(2); got != 0 {
		t.Errorf("heads-up small blind should act first, got seat %d", got)
	}
	if got := AssignRoles(5, 1).preflopStart(5); got != 0 {
		t.Errorf("five handed with dealer 2 should start at seat 0, got %d", got)
	}
}
