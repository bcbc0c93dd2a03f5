package game

import (
	"fmt"
	"math"

	"github.com/rocketscienceinc/numbers-backend/internal/apperror"
	"github.com/rocketscienceinc/numbers-backend/internal/entity"
)

const (
	MinTeamPlayerLimit = 1
	MaxTeamPlayerLimit = 2

	// UnlimitedSeats removes the per-side seat limit. Only the debug room
	// is ever created with it.
	UnlimitedSeats = math.MaxInt
)

// Config is a validated room configuration.
type Config struct {
	TeamPlayerLimit int
	FirstSide       entity.Side
}

// ConfigFromRequest - builds a Config from the optional fields of a room
// creation request, applying defaults and rejecting out-of-range values.
func ConfigFromRequest(teamPlayerLimit *int, firstSide *entity.Side) (Config, error) {
	config := Config{
		TeamPlayerLimit: MinTeamPlayerLimit,
		FirstSide:       entity.SideA,
	}

	if teamPlayerLimit != nil {
		if *teamPlayerLimit < MinTeamPlayerLimit || *teamPlayerLimit > MaxTeamPlayerLimit {
			return Config{}, fmt.Errorf("%w: %d", apperror.ErrInvalidPlayerLimit, *teamPlayerLimit)
		}

		config.TeamPlayerLimit = *teamPlayerLimit
	}

	if firstSide != nil {
		if !firstSide.Valid() {
			return Config{}, fmt.Errorf("%w: %q", apperror.ErrInvalidFirstSide, *firstSide)
		}

		config.FirstSide = *firstSide
	}

	return config, nil
}
