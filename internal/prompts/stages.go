package prompts

import (
	"encoding/json"
	"slices"
)

// Stage represents an extraction stage that a prompt override targets.
type Stage string

// Valid extraction stages.
const (
	StageExtract Stage = "extract"
	StageVision  Stage = "vision"
)

var stages = []Stage{
	StageExtract,
	StageVision,
}

// Stages returns the list of valid extraction stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known extraction stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
