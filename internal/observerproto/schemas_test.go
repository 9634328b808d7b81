package observerproto_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"layergen.ai/internal/observerproto"
	"layergen.ai/internal/sim/world/terrain/inspect"
)

func compile(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	p := filepath.Join("..", "..", "schemas", name)
	s, err := jsonschema.Compile(p)
	if err != nil {
		t.Fatalf("compile %s: %v", name, err)
	}
	return s
}

// asJSON round-trips v so the validator sees plain JSON values.
func asJSON(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}

func TestSchemas_ValidateFrames(t *testing.T) {
	frameSchema := compile(t, "stage_frame.schema.json")

	f := inspect.Frame{RunID: "run-1", Pipeline: "biome", Label: "biomes", Index: 10, Seq: 21, X: -64, Z: 32, W: 3, H: 2, Values: []int{0, 0, 5, 5, 5, -1}}
	if err := frameSchema.Validate(asJSON(t, f.Message())); err != nil {
		t.Fatalf("validate frame: %v", err)
	}

	bad := f.Message()
	bad.Encoding = "RLE"
	if err := frameSchema.Validate(asJSON(t, bad)); err == nil {
		t.Fatalf("expected unknown encoding to be rejected")
	}
	bad = f.Message()
	bad.Pipeline = "voxels"
	if err := frameSchema.Validate(asJSON(t, bad)); err == nil {
		t.Fatalf("expected unknown pipeline to be rejected")
	}
}

func TestSchemas_ValidateSubscribe(t *testing.T) {
	subSchema := compile(t, "subscribe.schema.json")

	var sub any
	_ = json.Unmarshal([]byte(`{
	  "type":"SUBSCRIBE",
	  "protocol_version":"0.1",
	  "pipelines":["rock","plates"],
	  "replay":true,
	  "max_frames":64
	}`), &sub)
	if err := subSchema.Validate(sub); err != nil {
		t.Fatalf("validate subscribe: %v", err)
	}

	msg := observerproto.SubscribeMsg{Type: "SUBSCRIBE", ProtocolVersion: observerproto.Version}
	if err := subSchema.Validate(asJSON(t, msg)); err != nil {
		t.Fatalf("validate minimal subscribe: %v", err)
	}
}
