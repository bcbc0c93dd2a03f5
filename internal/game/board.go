package game

import (
	"sort"

	"github.com/google/uuid"

	"github.com/rocketscienceinc/numbers-backend/internal/apperror"
	"github.com/rocketscienceinc/numbers-backend/internal/entity"
)

// Publisher receives the events a board emits on successful operations.
// Nothing is ever published on a failed one.
type Publisher interface {
	Publish(event entity.RoomEvent)
}

// Board owns the grid, the player roster and the current-turn marker of one
// room. It is not safe for concurrent use by itself; all access goes
// through the registry's scoped lock helpers.
type Board struct {
	config      Config
	publisher   Publisher
	players     map[uuid.UUID]entity.Player
	pieces      entity.Pieces
	currentTurn entity.Side
}

// NewBoard - lays out each side's starting pieces in three triangular
// checkerboard rows (side B on top, side A on the bottom) and sets the
// configured side to move first.
func NewBoard(config Config, publisher Publisher) *Board {
	board := &Board{
		config:      config,
		publisher:   publisher,
		players:     make(map[uuid.UUID]entity.Player),
		currentTurn: config.FirstSide,
	}

	for i := 0; i < 3; i++ {
		for j := 0; j < entity.BoardSize/2; j++ {
			topSquare := j*2 + (i+1)%2
			bottomSquare := j*2 + (entity.BoardSize-i)%2

			if topSquare < entity.BoardSize {
				board.pieces[i][topSquare] = &entity.Piece{Side: entity.SideB, Number: entity.InitialNumber}
			}
			if bottomSquare < entity.BoardSize {
				board.pieces[entity.BoardSize-(i+1)][bottomSquare] = &entity.Piece{Side: entity.SideA, Number: entity.InitialNumber}
			}
		}
	}

	return board
}

// CreatePlayer - claims a seat on the given side. Both ids are freshly
// allocated; the private one is the caller's capability token, the public
// one is what every observer of the room gets to see.
func (that *Board) CreatePlayer(side entity.Side, name string) (privateID, publicID uuid.UUID, err error) {
	seated := 0
	for _, player := range that.players {
		if player.Side == side {
			seated++
		}
	}

	if seated >= that.config.TeamPlayerLimit {
		return uuid.Nil, uuid.Nil, apperror.ErrPlayerLimitExceeded
	}

	privateID = uuid.New()
	publicID = uuid.New()

	that.players[privateID] = entity.Player{
		PublicID: publicID,
		Name:     name,
		Side:     side,
	}

	that.publisher.Publish(entity.PlayerJoinEvent{
		PublicID: publicID,
		Side:     side,
		Name:     name,
	})

	return privateID, publicID, nil
}

// RemovePlayer - vacates the seat held by privateID. Reports false when the
// seat was already gone.
func (that *Board) RemovePlayer(privateID uuid.UUID) (uuid.UUID, bool) {
	player, ok := that.players[privateID]
	if !ok {
		return uuid.Nil, false
	}

	delete(that.players, privateID)

	that.publisher.Publish(entity.PlayerLeaveEvent{PublicID: player.PublicID})

	return player.PublicID, true
}

func (that *Board) ContainsPlayer(privateID uuid.UUID) bool {
	_, ok := that.players[privateID]
	return ok
}

// Players - returns the roster sorted by name, without private ids.
func (that *Board) Players() []entity.Player {
	players := make([]entity.Player, 0, len(that.players))
	for _, player := range that.players {
		players = append(players, player)
	}

	sort.Slice(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})

	return players
}

// Pieces - returns a snapshot copy of the grid.
func (that *Board) Pieces() entity.Pieces {
	var snapshot entity.Pieces
	for y := range that.pieces {
		for x, piece := range that.pieces[y] {
			if piece != nil {
				copied := *piece
				snapshot[y][x] = &copied
			}
		}
	}

	return snapshot
}

func (that *Board) CurrentTurn() entity.Side {
	return that.currentTurn
}

// MovePiece - validates and applies one move for the player holding
// privateID. On any failure the board is left untouched and no event is
// emitted.
func (that *Board) MovePiece(privateID uuid.UUID, from, to entity.Position) error {
	if !from.InBounds() || !to.InBounds() {
		return apperror.ErrInvalidPosition
	}

	player, ok := that.players[privateID]
	if !ok {
		// The seat can be vacated between authorization and the move,
		// e.g. by leave_team from a second connection resumed on the
		// same private id.
		return apperror.ErrPlayerNotFound
	}

	if player.Side != that.currentTurn {
		return apperror.ErrInvalidTurn
	}

	moving := that.pieces[from.Y][from.X]
	if moving == nil || moving.Side != player.Side {
		return apperror.ErrInvalidPiece
	}

	destination := that.pieces[to.Y][to.X]
	xDiff := absDiff(from.X, to.X)
	yDiff := absDiff(from.Y, to.Y)

	var turnToggled bool

	switch {
	case xDiff == 2 && yDiff == 2: // capture
		if destination != nil {
			return apperror.ErrInvalidMove
		}

		between := entity.Position{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
		jumped := that.pieces[between.Y][between.X]
		if jumped == nil || jumped.Side == player.Side || jumped.Number >= moving.Number {
			return apperror.ErrInvalidMove
		}

		that.pieces[to.Y][to.X] = &entity.Piece{
			Side:   player.Side,
			Number: uint8(int(moving.Number) * 2 / 3),
		}
		that.pieces[between.Y][between.X] = nil
		that.pieces[from.Y][from.X] = nil

		// The turn only passes once the whole side has run out of
		// captures, not just the piece that moved.
		turnToggled = len(that.capturablePieces(player.Side)) == 0
		if turnToggled {
			that.toggleTurn()
		}

	case xDiff == 1 && yDiff == 1: // simple move or merge
		if len(that.capturablePieces(player.Side)) != 0 {
			return apperror.ErrInvalidMove // forced capture
		}

		switch {
		case destination == nil:
			that.pieces[to.Y][to.X] = moving
			that.pieces[from.Y][from.X] = nil
		case destination.Side == player.Side && moving.Number >= 2:
			destination.Number += uint8((int(moving.Number) + 1) / 2)
			moving.Number = uint8(int(moving.Number) / 2)
		default:
			return apperror.ErrInvalidMove
		}

		that.toggleTurn()
		turnToggled = true

	default:
		return apperror.ErrInvalidMove
	}

	that.publisher.Publish(entity.MovePieceEvent{
		PublicID:    player.PublicID,
		TurnToggled: turnToggled,
		From:        from,
		To:          to,
	})

	return nil
}

func (that *Board) toggleTurn() {
	that.currentTurn = that.currentTurn.Reverse()
}

// capturablePieces - positions of every piece of the given side that has
// at least one legal capture: a strictly weaker enemy piece on an adjacent
// diagonal with an empty in-range square right behind it.
func (that *Board) capturablePieces(side entity.Side) []entity.Position {
	var positions []entity.Position

	for y := range that.pieces {
		for x, piece := range that.pieces[y] {
			if piece == nil || piece.Side != side {
				continue
			}

			if that.hasCaptureFrom(entity.Position{X: x, Y: y}, *piece) {
				positions = append(positions, entity.Position{X: x, Y: y})
			}
		}
	}

	return positions
}

func (that *Board) hasCaptureFrom(from entity.Position, piece entity.Piece) bool {
	for _, dy := range [2]int{-1, 1} {
		for _, dx := range [2]int{-1, 1} {
			adjacent := entity.Position{X: from.X + dx, Y: from.Y + dy}
			landing := entity.Position{X: from.X + 2*dx, Y: from.Y + 2*dy}
			if !landing.InBounds() {
				continue
			}

			jumped := that.pieces[adjacent.Y][adjacent.X]
			if jumped == nil || jumped.Side == piece.Side || jumped.Number >= piece.Number {
				continue
			}

			if that.pieces[landing.Y][landing.X] == nil {
				return true
			}
		}
	}

	return false
}

func absDiff(a, b int) int {
	if a > b {
		return a - b
	}

	return b - a
}
