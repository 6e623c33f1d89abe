package entity

type PlayerID string
type PlotID string
type TreeID string
type BiomeID string
type MessageID string
type Species string

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}
