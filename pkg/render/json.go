package render

import (
	"encoding/json"

	"github.com/matzehuels/figfit/pkg/errors"
)

// RenderJSON serializes the scene as indented JSON.
func RenderJSON(s *Scene) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "marshal scene")
	}
	return append(data, '\n'), nil
}
