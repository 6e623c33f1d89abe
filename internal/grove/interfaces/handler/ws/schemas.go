package ws

import (
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"GroveWorld/internal/grove/service"
)

// Structural checks only: types and required fields. Business limits such
// as quantities stay with the coordinator so every transport rejects them
// the same way.
const (
	schemaNumber = `{"type":"number"}`
	schemaTreeID = `{"type":"object","required":["treeId"],"properties":{"treeId":{"type":"string","minLength":1}}}`
)

var actionSchemas = map[string]string{
	service.ActionInit: `{"type":"object","properties":{"displayName":{"type":"string","maxLength":64}}}`,
	service.ActionMove: `{"type":"object","required":["x","z"],"properties":{"x":` + schemaNumber +
		`,"y":` + schemaNumber + `,"z":` + schemaNumber + `}}`,
	service.ActionPlant: `{"type":"object","required":["species","x","z"],"properties":{"species":{"type":"string","minLength":1},"x":` +
		schemaNumber + `,"z":` + schemaNumber + `}}`,
	service.ActionWater:     schemaTreeID,
	service.ActionFertilize: schemaTreeID,
	service.ActionHarvest:   schemaTreeID,
	service.ActionBuySeeds: `{"type":"object","required":["species","quantity"],"properties":{"species":{"type":"string","minLength":1},` +
		`"quantity":{"type":"integer"}}}`,
	service.ActionBuyLand: `{"type":"object","required":["x","z"],"properties":{"x":` + schemaNumber + `,"z":` + schemaNumber + `}}`,
	service.ActionBuySupplies: `{"type":"object","required":["kind","quantity"],"properties":{"kind":{"type":"string"},` +
		`"quantity":{"type":"integer"}}}`,
	service.ActionNearby:     `{"type":"object","properties":{"radius":` + schemaNumber + `}}`,
	service.ActionChatSend:   `{"type":"object","required":["text"],"properties":{"text":{"type":"string"}}}`,
	service.ActionChatRecent: `{"type":"object","properties":{"limit":{"type":"integer"}}}`,
}

func compileSchemas() (map[string]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	for name, src := range actionSchemas {
		if err := c.AddResource(schemaURL(name), strings.NewReader(src)); err != nil {
			return nil, fmt.Errorf("schema %s: %w", name, err)
		}
	}
	out := make(map[string]*jsonschema.Schema, len(actionSchemas))
	for name := range actionSchemas {
		s, err := c.Compile(schemaURL(name))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}

func schemaURL(action string) string {
	return "grove://actions/" + action + ".json"
}
