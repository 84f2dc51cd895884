package volume

import "fmt"

type errInsufficient struct {
	balance, amount uint64
}

func (e errInsufficient) Error() string {
	return fmt.Sprintf("balance %d below amount %d plus reserve", e.balance, e.amount)
}
