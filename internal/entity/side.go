package entity

// Side is one of the two teams in a room.
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

func (that Side) Reverse() Side {
	if that == SideA {
		return SideB
	}

	return SideA
}

func (that Side) Valid() bool {
	return that == SideA || that == SideB
}
