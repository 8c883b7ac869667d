package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

const ActionAddToCart = "add_to_cart"

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// ModelOutput is the structured reply the model is asked for.
type ModelOutput struct {
	Reply     string `json:"reply"`
	Action    string `json:"action,omitempty"`
	ItemName  string `json:"item_name,omitempty"`
	StoreName string `json:"store_name,omitempty"`
	// Structured is false when the model answered in plain prose.
	Structured bool `json:"-"`
}

func (o ModelOutput) AddsToCart() bool {
	return o.Action == ActionAddToCart
}

// ParseModelOutput reads the object from a fenced block or a bare {...} span.
// Text without any object is plain prose and is returned as the reply. An object
// that does not satisfy the schema yields ErrMalformedModelOutput.
func ParseModelOutput(raw string) (ModelOutput, error) {
	text := strings.TrimSpace(raw)
	block, found := extractObject(text)
	if !found {
		return ModelOutput{Reply: text}, nil
	}

	var out ModelOutput
	decoder := json.NewDecoder(strings.NewReader(block))
	if err := decoder.Decode(&out); err != nil {
		return ModelOutput{}, fmt.Errorf("%w: %v", ErrMalformedModelOutput, err)
	}
	out.Reply = strings.TrimSpace(out.Reply)
	out.Action = strings.TrimSpace(out.Action)
	out.ItemName = strings.TrimSpace(out.ItemName)
	out.StoreName = strings.TrimSpace(out.StoreName)
	out.Structured = true

	switch {
	case out.Action != "" && out.Action != ActionAddToCart:
		return ModelOutput{}, fmt.Errorf("%w: unknown action %q", ErrMalformedModelOutput, out.Action)
	case out.AddsToCart() && out.ItemName == "":
		return ModelOutput{}, fmt.Errorf("%w: add_to_cart without item_name", ErrMalformedModelOutput)
	case out.Reply == "":
		return ModelOutput{}, fmt.Errorf("%w: missing reply", ErrMalformedModelOutput)
	}
	return out, nil
}

func extractObject(text string) (string, bool) {
	if match := fencedBlock.FindStringSubmatch(text); match != nil {
		return match[1], true
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
