package prompt

import "strings"

var grammarModes = map[string]string{
	"correct":   "Return the corrected text only. Do not comment on the changes.",
	"explain":   "Return the corrected text, then a short list explaining each correction in language suited to the reader.",
	"highlight": "Return the original text with every error wrapped as [[error -> correction]]. Leave correct text untouched.",
}

func buildGrammar(in Input) (Prompt, error) {
	lvl, err := requireLevel(in.Params)
	if err != nil {
		return Prompt{}, err
	}
	mode, err := oneOf(in.Params, "mode", "", "correct", "explain", "highlight")
	if err != nil {
		return Prompt{}, err
	}

	var sys strings.Builder
	writeTag(&sys, "task", "You check spelling, grammar and punctuation for a writer at the "+lvl.label+" level. Keep the writer's voice and wording wherever it is already correct.")
	writeTag(&sys, "output", grammarModes[mode])

	var user strings.Builder
	writeTag(&user, "text", in.Text)

	return Prompt{System: finish(&sys), User: finish(&user), Temperature: 0.2}, nil
}
