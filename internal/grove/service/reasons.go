package service

// Reason is a machine readable validation failure.
type Reason struct {
	Code    string
	Message string
}

func (r Reason) ReasonCode() string {
	return r.Code
}

func NewReason(c, m string) Reason {
	return Reason{Code: c, Message: m}
}

var (
	ReasonPlayerNotFound    = NewReason("PLAYER_NOT_FOUND", "player not found")
	ReasonTreeNotFound      = NewReason("TREE_NOT_FOUND", "tree not found")
	ReasonUnknownSpecies    = NewReason("UNKNOWN_SPECIES", "unknown tree species")
	ReasonNoSeeds           = NewReason("NO_SEEDS", "no seeds of that species")
	ReasonInsufficientCoins = NewReason("INSUFFICIENT_COINS", "not enough coins")
	ReasonNoWater           = NewReason("NO_WATER", "not enough water")
	ReasonNoFertilizer      = NewReason("NO_FERTILIZER", "no fertilizer left")
	ReasonPlotNotOwned      = NewReason("PLOT_NOT_OWNED", "you do not own land here")
	ReasonPlotFull          = NewReason("PLOT_FULL", "this plot has no room for another tree")
	ReasonLandClaimed       = NewReason("LAND_CLAIMED", "this land is already owned")
	ReasonOutsideWorld      = NewReason("OUTSIDE_WORLD", "that position is outside the world")
	ReasonLandCapacity      = NewReason("LAND_CAPACITY", "no more land can be claimed")
	ReasonNotMature         = NewReason("NOT_MATURE", "tree is not fully grown yet")
	ReasonBadQuantity       = NewReason("BAD_QUANTITY", "quantity out of range")
	ReasonBadSupply         = NewReason("BAD_SUPPLY", "unknown supply kind")
	ReasonBadPosition       = NewReason("BAD_POSITION", "position is not a finite number")
	ReasonBadRadius         = NewReason("BAD_RADIUS", "radius must be a finite number of zero or more")
	ReasonChatEmpty         = NewReason("CHAT_EMPTY", "message is empty")
	ReasonChatTooLong       = NewReason("CHAT_TOO_LONG", "message is too long")
)
