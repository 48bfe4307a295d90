package subtitle

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes records as an indented JSON array.
func WriteJSON(w io.Writer, subs []Subtitle) error {
	if subs == nil {
		subs = []Subtitle{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(subs)
}

// ReadJSON reads a JSON array written by WriteJSON.
func ReadJSON(r io.Reader) ([]Subtitle, error) {
	var subs []Subtitle
	if err := json.NewDecoder(r).Decode(&subs); err != nil {
		return nil, fmt.Errorf("decode subtitles: %w", err)
	}
	return subs, nil
}
