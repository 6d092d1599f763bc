package ws

import (
	"encoding/json"
	"time"
)

// MessageType discriminates websocket messages.
type MessageType string

// Server to client.
const (
	TypeTotals  MessageType = "totals"
	TypeShares  MessageType = "shares"
	TypeRegions MessageType = "regions"
	TypeUpdated MessageType = "updated"
	TypeStatus  MessageType = "status"
)

// Client to server.
const (
	// TypeMapRendered is sent by a dashboard once its map can take colors.
	TypeMapRendered MessageType = "map_rendered"
)

// Message is the envelope for every frame in both directions.
type Message struct {
	Type MessageType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type totalsData struct {
	DemLabel string `json:"dem_label"`
	RepLabel string `json:"rep_label"`
	DemUnits int    `json:"dem_units"`
	RepUnits int    `json:"rep_units"`
}

type sharesData struct {
	DemPct float64 `json:"dem_pct"`
	RepPct float64 `json:"rep_pct"`
}

type regionsData struct {
	Regions map[string]string `json:"regions"`
}

type updatedData struct {
	At time.Time `json:"at"`
}

func encode(t MessageType, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Message{Type: t, Data: raw})
}
