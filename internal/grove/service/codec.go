package service

import (
	"github.com/go-viper/mapstructure/v2"
)

// ActionNames lists every action a transport may carry.
var ActionNames = []string{
	ActionInit, ActionMove, ActionPlant, ActionWater, ActionFertilize, ActionHarvest,
	ActionBuySeeds, ActionBuyLand, ActionBuySupplies, ActionNearby, ActionChatSend, ActionChatRecent,
}

// DecodeAction builds the typed action called name from a loosely typed
// payload (a decoded JSON object, query values, a protobuf struct).
func DecodeAction(name string, payload any) (Action, error) {
	switch name {
	case ActionInit:
		return decodeAs[Init](name, payload)
	case ActionMove:
		return decodeAs[Move](name, payload)
	case ActionPlant:
		return decodeAs[Plant](name, payload)
	case ActionWater:
		return decodeAs[Water](name, payload)
	case ActionFertilize:
		return decodeAs[Fertilize](name, payload)
	case ActionHarvest:
		return decodeAs[Harvest](name, payload)
	case ActionBuySeeds:
		return decodeAs[BuySeeds](name, payload)
	case ActionBuyLand:
		return decodeAs[BuyLand](name, payload)
	case ActionBuySupplies:
		return decodeAs[BuySupplies](name, payload)
	case ActionNearby:
		return decodeAs[Nearby](name, payload)
	case ActionChatSend:
		return decodeAs[ChatSend](name, payload)
	case ActionChatRecent:
		return decodeAs[ChatRecent](name, payload)
	default:
		return nil, ErrBadAction.WithData("action", name)
	}
}

func decodeAs[T Action](name string, payload any) (Action, error) {
	var out T
	if payload == nil {
		return out, nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, ErrBadAction.WithData("action", name).WithCause(err)
	}
	if err := dec.Decode(payload); err != nil {
		return nil, ErrBadAction.WithData("action", name).WithCause(err)
	}
	return out, nil
}
