package prompts

const extractSpec = `Respond with a JSON object matching this exact structure:

{
  "entities": [
    {
      "entity_type": "<type>",
      "fields": {
        "<label>": "<value>"
      }
    }
  ]
}

Field constraints:
- entity_type: One of the entity types listed in the prompt, lowercase.
- fields: One entry per field value found for this entity. Keys are the
  labels as they appear in the source; values are the raw values exactly
  as written. Values may be strings, numbers, or booleans; never nested
  objects or arrays.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Emit one entity block per distinct entity
- Omit fields you did not find rather than guessing or using placeholders
- An empty entities array is a valid response when nothing matches`

const visionSpec = `Respond with a JSON object matching this exact structure:

{
  "entities": [
    {
      "entity_type": "<type>",
      "fields": {
        "<label>": "<value>"
      }
    }
  ]
}

Field constraints:
- entity_type: One of the entity types listed in the prompt, lowercase.
- fields: One entry per field value printed on this page. Keys are the
  labels exactly as printed; values are the printed values verbatim.
  Values may be strings, numbers, or booleans; never nested objects
  or arrays.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Process exactly one page per response
- Report only values visible on the current page
- Omit fields you cannot read rather than guessing
- An empty entities array is a valid response for a page with no matches`

var specs = map[Stage]string{
	StageExtract: extractSpec,
	StageVision:  visionSpec,
}

// Spec returns the hardcoded response specification for an extraction stage.
// Specifications define the expected output format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
