package routing

import (
	"errors"
	"fmt"
)

// TourStrategy selects how the initial global order is built
type TourStrategy string

const (
	TourAuto      TourStrategy = "auto"      // build stripe and insertion orders, keep the shorter
	TourStripe    TourStrategy = "stripe"    // boustrophedon stripe order only
	TourInsertion TourStrategy = "insertion" // greedy cheapest insertion only
)

// ParseTourStrategy maps a flag value to a TourStrategy
func ParseTourStrategy(s string) (TourStrategy, error) {
	switch TourStrategy(s) {
	case TourAuto, TourStripe, TourInsertion:
		return TourStrategy(s), nil
	case "":
		return TourAuto, nil
	default:
		return "", fmt.Errorf("unknown tour strategy %q", s)
	}
}

// ErrCapacityMismatch is returned when group sizes do not cover the cities exactly
var ErrCapacityMismatch = errors.New("group sizes do not match city count")

// ErrPartitionBroken is returned when a tour does not partition the city ids
type ErrPartitionBroken struct {
	Reason string
	CityID int
}

func (e *ErrPartitionBroken) Error() string {
	return fmt.Sprintf("partition broken: %s (city %d)", e.Reason, e.CityID)
}
