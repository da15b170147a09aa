package flow

import (
	"fmt"

	"flowetl/internal/errors"
)

// SignedSize converts an execution into its signed quantity: positive for a
// buy, negative for a sell. Any other side value makes the net-flow semantics
// undefined and is reported as a malformed record.
func SignedSize(e Execution) (float64, error) {
	switch e.Side {
	case SideBuy:
		return e.Size, nil
	case SideSell:
		return -e.Size, nil
	default:
		return 0, errors.NewMalformedRecord(
			fmt.Sprintf("unexpected trade side %q (want BUY or SELL)", string(e.Side)), nil)
	}
}
