package message

// Register and Unregister advertise local devices to the server; they
// are fire-and-forget and carry no cookie.
type Register struct {
	Type string `json:"type"`
	Tile
	What string `json:"what"`
}

func NewRegister(x, y int, what string) *Register {
	return &Register{
		Type: KindRegister,
		Tile: Tile{X: x, Y: y},
		What: what,
	}
}

func (m *Register) Kind() string {
	return KindRegister
}

type Unregister struct {
	Type string `json:"type"`
	Tile
	What string `json:"what"`
}

func NewUnregister(x, y int, what string) *Unregister {
	return &Unregister{
		Type: KindUnregister,
		Tile: Tile{X: x, Y: y},
		What: what,
	}
}

func (m *Unregister) Kind() string {
	return KindUnregister
}

// Registered and Unregistered are server-originated notices about the
// remote registry.
type Registered struct {
	Type string `json:"type"`
	Tile
	What string `json:"what"`
}

func NewRegistered(x, y int, what string) *Registered {
	return &Registered{
		Type: KindRegistered,
		Tile: Tile{X: x, Y: y},
		What: what,
	}
}

func (m *Registered) Kind() string {
	return KindRegistered
}

type Unregistered struct {
	Type string `json:"type"`
	Tile
	What string `json:"what"`
}

func NewUnregistered(x, y int, what string) *Unregistered {
	return &Unregistered{
		Type: KindUnregistered,
		Tile: Tile{X: x, Y: y},
		What: what,
	}
}

func (m *Unregistered) Kind() string {
	return KindUnregistered
}
