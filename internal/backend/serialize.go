package backend

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// WriteJSON renders p as the canonical machine-readable IDL format (spec
// 4.8/6): indented for diffability, since this is a build artifact meant
// to be checked into or diffed across compiler runs, not a wire payload.
func (p Package) WriteJSON() ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// WriteYAML renders p as a human-inspection dump, the teacher's own
// yaml.v3 library used in the opposite direction from cmd/cli/devnet.go's
// yaml.Unmarshal.
func (p Package) WriteYAML() ([]byte, error) {
	return yaml.Marshal(p)
}
