package save

import (
	"encoding/json"
	"fmt"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

// blobVersion guards against loading saves written by an incompatible
// build.
const blobVersion = 1

type envelope struct {
	Version int        `json:"version"`
	Run     *run.State `json:"run"`
}

// Encode serializes a run into an opaque blob. The blob carries the
// whole simulation state: stats, inventory, deck order, and every room
// projection, nothing rendering-owned.
func Encode(s *run.State) ([]byte, error) {
	return json.Marshal(envelope{Version: blobVersion, Run: s})
}

// Decode restores a run from a blob and rewires its non-serialized
// internals.
func Decode(blob []byte) (*run.State, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("decode save blob: %w", err)
	}
	if env.Version != blobVersion {
		return nil, fmt.Errorf("save blob version %d not supported", env.Version)
	}
	if env.Run == nil {
		return nil, fmt.Errorf("save blob holds no run")
	}
	env.Run.Rewire()
	return env.Run, nil
}
