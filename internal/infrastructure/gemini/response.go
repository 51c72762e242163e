package gemini

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/stylesphere/backend/internal/domain"
)

const fence = "```"

// ExtractJSON pulls the JSON document out of a model answer. Models often wrap
// it in a ```json fence; a bare fence or unfenced text is accepted too.
func ExtractJSON(text string) ([]byte, error) {
	var candidate string
	switch {
	case strings.Contains(text, fence+"json"):
		_, after, _ := strings.Cut(text, fence+"json")
		candidate, _, _ = strings.Cut(after, fence)
	case strings.Contains(text, fence):
		_, after, _ := strings.Cut(text, fence)
		candidate, _, _ = strings.Cut(after, fence)
	default:
		candidate = text
	}

	candidate = strings.TrimSpace(candidate)
	if !json.Valid([]byte(candidate)) {
		return nil, fmt.Errorf("%w: no valid JSON in model answer", domain.ErrMalformedModelResponse)
	}
	return []byte(candidate), nil
}

// DecodeAnswer extracts the JSON document from text and decodes it into v.
func DecodeAnswer(text string, v interface{}) error {
	raw, err := ExtractJSON(text)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedModelResponse, err)
	}
	return nil
}
