package service

import "GroveWorld/internal/grove/entity"

// Action names, shared by every transport.
const (
	ActionInit        = "init"
	ActionMove        = "move"
	ActionPlant       = "plant"
	ActionWater       = "water"
	ActionFertilize   = "fertilize"
	ActionHarvest     = "harvest"
	ActionBuySeeds    = "buy_seeds"
	ActionBuyLand     = "buy_land"
	ActionBuySupplies = "buy_supplies"
	ActionNearby      = "nearby"
	ActionChatSend    = "chat_send"
	ActionChatRecent  = "chat_recent"
)

// Action is the closed set of player requests. Each variant carries its
// own typed payload; Coordinator.Dispatch switches over all of them.
type Action interface {
	Name() string
	isAction()
}

type Init struct {
	Username    string `json:"username" mapstructure:"username"`
	DisplayName string `json:"displayName" mapstructure:"displayName"`
}

type Move struct {
	X float64 `json:"x" mapstructure:"x"`
	Y float64 `json:"y" mapstructure:"y"`
	Z float64 `json:"z" mapstructure:"z"`
}

type Plant struct {
	Species entity.Species `json:"species" mapstructure:"species"`
	X       float64        `json:"x" mapstructure:"x"`
	Z       float64        `json:"z" mapstructure:"z"`
}

type Water struct {
	TreeID entity.TreeID `json:"treeId" mapstructure:"treeId"`
}

type Fertilize struct {
	TreeID entity.TreeID `json:"treeId" mapstructure:"treeId"`
}

type Harvest struct {
	TreeID entity.TreeID `json:"treeId" mapstructure:"treeId"`
}

type BuySeeds struct {
	Species  entity.Species `json:"species" mapstructure:"species"`
	Quantity int            `json:"quantity" mapstructure:"quantity"`
}

type BuyLand struct {
	X float64 `json:"x" mapstructure:"x"`
	Z float64 `json:"z" mapstructure:"z"`
}

type SupplyKind string

const (
	SupplyWater      SupplyKind = "water"
	SupplyFertilizer SupplyKind = "fertilizer"
)

type BuySupplies struct {
	Kind     SupplyKind `json:"kind" mapstructure:"kind"`
	Quantity int        `json:"quantity" mapstructure:"quantity"`
}

// Nearby uses the configured default radius when Radius is absent.
type Nearby struct {
	Radius *float64 `json:"radius,omitempty" mapstructure:"radius"`
}

type ChatSend struct {
	Text string `json:"text" mapstructure:"text"`
}

type ChatRecent struct {
	Limit int `json:"limit" mapstructure:"limit"`
}

func (Init) Name() string        { return ActionInit }
func (Move) Name() string        { return ActionMove }
func (Plant) Name() string       { return ActionPlant }
func (Water) Name() string       { return ActionWater }
func (Fertilize) Name() string   { return ActionFertilize }
func (Harvest) Name() string     { return ActionHarvest }
func (BuySeeds) Name() string    { return ActionBuySeeds }
func (BuyLand) Name() string     { return ActionBuyLand }
func (BuySupplies) Name() string { return ActionBuySupplies }
func (Nearby) Name() string      { return ActionNearby }
func (ChatSend) Name() string    { return ActionChatSend }
func (ChatRecent) Name() string  { return ActionChatRecent }

func (Init) isAction()        {}
func (Move) isAction()        {}
func (Plant) isAction()       {}
func (Water) isAction()       {}
func (Fertilize) isAction()   {}
func (Harvest) isAction()     {}
func (BuySeeds) isAction()    {}
func (BuyLand) isAction()     {}
func (BuySupplies) isAction() {}
func (Nearby) isAction()      {}
func (ChatSend) isAction()    {}
func (ChatRecent) isAction()  {}
