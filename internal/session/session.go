package session

// State is where a user's guided dialogue currently stands.
type State int

const (
	StateIdle State = iota
	StateAwaitingCity
	StateAwaitingProductName
	StateAwaitingQuantity
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCity:
		return "awaiting_city"
	case StateAwaitingProductName:
		return "awaiting_product_name"
	case StateAwaitingQuantity:
		return "awaiting_quantity"
	}
	return "unknown"
}

// FieldProductName is the scratch key holding the product name collected in
// the first order-dialogue step. It is only meaningful while the state is
// StateAwaitingQuantity.
const FieldProductName = "product_name"

// Session is the per-user dialogue record. One session per owner.
type Session struct {
	OwnerID int64             `json:"owner_id"`
	State   State             `json:"state"`
	Scratch map[string]string `json:"scratch,omitempty"`
}

func newIdle(ownerID int64) Session {
	return Session{OwnerID: ownerID, State: StateIdle}
}
