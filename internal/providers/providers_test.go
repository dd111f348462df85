package providers

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestSchemaJSON(t *testing.T) {
	s := &Schema{
		Type: TypeArray,
		Items: &Schema{
			Type:       TypeObject,
			Properties: map[string]*Schema{"title": {Type: TypeString}},
			Required:   []string{"title"},
		},
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	expected := `{"type":"array","items":{"type":"object","properties":{"title":{"type":"string"}},"required":["title"]}}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}
