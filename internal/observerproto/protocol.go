package observerproto

import (
	"encoding/json"
	"fmt"
)

// Version is the stage observer protocol version.
const Version = "0.1"

// Client -> Server. First message on the observer WS connection, and can be
// re-sent to change the pipeline filter.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	// Pipelines restricts the stream to these pipelines; empty means all.
	Pipelines []string `json:"pipelines,omitempty"`
	// Replay asks for the buffered frames before live ones.
	Replay    bool `json:"replay,omitempty"`
	MaxFrames int  `json:"max_frames"`
}

// HTTP response for GET /v1/observer/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string    `json:"protocol_version"`
	RunID           string    `json:"run_id"`
	RunParams       RunParams `json:"run_params"`
	BiomePalette    []string  `json:"biome_palette"`
	ForestPalette   []string  `json:"forest_palette"`
	PlatePalette    []string  `json:"plate_palette"`
	RockPalette     []string  `json:"rock_palette"`
}

type RunParams struct {
	Seed           int64    `json:"seed"`
	OceanPercent   float64  `json:"ocean_percent"`
	RockLayerScale int      `json:"rock_layer_scale"`
	RockCount      int      `json:"rock_count"`
	Pipelines      []string `json:"pipelines"`
	Window         [4]int64 `json:"window"` // x, z, w, h
}

// Server -> Client. One sampled window of one pipeline stage.
// Encoding "RLE_ZIGZAG_B64" means base64 of (zigzag varint id, uvarint run)
// pairs over the row-major window.
type FrameMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	RunID           string         `json:"run_id"`
	Pipeline        string         `json:"pipeline"`
	Label           string         `json:"label"`
	Index           int            `json:"index"`
	Seq             int            `json:"seq"`
	X               int64          `json:"x"`
	Z               int64          `json:"z"`
	W               int            `json:"w"`
	H               int            `json:"h"`
	Encoding        string         `json:"encoding"`
	Data            string         `json:"data"`
	Digest          string         `json:"digest"`
	Histogram       map[string]int `json:"histogram,omitempty"`
}

// Server -> Client. Sent once a pipeline has been fully assembled.
type DoneMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	RunID           string `json:"run_id"`
	Pipeline        string `json:"pipeline"`
	Stages          int    `json:"stages"`
}

const FrameEncoding = "RLE_ZIGZAG_B64"

// BaseMessage holds the fields every message carries.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return m, err
	}
	if m.Type == "" {
		return m, fmt.Errorf("observerproto: message without type")
	}
	return m, nil
}
