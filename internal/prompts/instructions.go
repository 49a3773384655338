package prompts

const extractInstructions = `You are a data extraction analyst reviewing unstructured source text.

Identify every distinct real-world entity mentioned in the text and emit
one entity block per entity. For each entity:
- Classify it as one of the entity types listed in the prompt
- Collect every field value the text states or clearly implies
- Use the field labels exactly as they appear in the text as keys; do not
  invent keys for values the text does not contain
- Keep values verbatim; do not normalize, reformat, or summarize them

Do not merge entities that the text treats as separate, and do not split
one entity across multiple blocks. If the text mentions nothing that
matches any listed entity type, emit an empty entity list.`

const visionInstructions = `You are a data extraction analyst reviewing one rendered page of a document.

Identify every distinct real-world entity visible on this page and emit
one entity block per entity. For each entity:
- Classify it as one of the entity types listed in the prompt
- Collect every field value the page states, including values in tables,
  headers, footers, and form fields
- Use the field labels exactly as printed as keys
- Keep values verbatim as printed; do not normalize or reformat them

Report only what is visible on this page. If the page carries partial
information about an entity that likely continues on other pages, emit
the partial block anyway; downstream folding reconciles pages.`

var instructions = map[Stage]string{
	StageExtract: extractInstructions,
	StageVision:  visionInstructions,
}

// Instructions returns the hardcoded default instructions for an extraction stage.
// Returns ErrInvalidStage if the stage is not recognized.
func Instructions(stage Stage) (string, error) {
	text, ok := instructions[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
