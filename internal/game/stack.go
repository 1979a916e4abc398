package game

import "math"

// Join adds accountID to the table with an empty stack. Joining again only
// refreshes the display name.
func Join(t *Table, accountID, displayName string) *Table {
	next := t.Clone()
	if !next.IsMember(accountID) {
		next.Stacks[accountID] = 0
	}
	next.Names[accountID] = displayName
	return next
}

// SetStack sets the table stack of accountID and returns the change from
// the previous stack. A positive delta is a buy-in, a negative one a cash-out.
// Seats still contesting a live hand cannot change their stack.
func SetStack(t *Table, accountID string, stack float64) (*Table, float64, error) {
	if !t.IsMember(accountID) {
		return nil, 0, &NotInTableError{AccountID: accountID, TableID: t.ID}
	}
	if math.IsNaN(stack) || math.IsInf(stack, 0) || stack < 0 {
		return nil, 0, validationf("invalid stack %v", stack)
	}
	if err := checkNotContesting(t, accountID); err != nil {
		return nil, 0, err
	}

	next := t.Clone()
	delta := stack - next.StackOf(accountID)
	next.setStack(accountID, stack)
	return next, delta, nil
}

// Leave removes accountID from the table and returns the stack to cash out.
func Leave(t *Table, accountID string) (*Table, float64, error) {
	if !t.IsMember(accountID) {
		return nil, 0, &NotInTableError{AccountID: accountID, TableID: t.ID}
	}
	if err := checkNotContesting(t, accountID); err != nil {
		return nil, 0, err
	}

	next := t.Clone()
	cashOut := next.StackOf(accountID)
	next.setStack(accountID, 0)
	delete(next.Stacks, accountID)
	delete(next.Names, accountID)
	return next, cashOut, nil
}

func checkNotContesting(t *Table, accountID string) error {
	if !t.Hand.Live() {
		return nil
	}
	if i := t.Hand.SeatIndex(accountID); i >= 0 && t.Hand.Seats[i].Lifecycle == Active {
		return validationf("account %s is still in hand %d", accountID, t.Hand.Number)
	}
	return nil
}
