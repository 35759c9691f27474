package prompt

import "strings"

var levelerLengths = map[string]string{
	"shorter": "Make the rewrite noticeably shorter than the original while keeping the key points.",
	"same":    "Keep the rewrite about the same length as the original.",
	"longer":  "Expand the rewrite with brief explanations or examples where they help understanding.",
}

func buildLeveler(in Input) (Prompt, error) {
	lvl, err := requireLevel(in.Params)
	if err != nil {
		return Prompt{}, err
	}
	length, err := oneOf(in.Params, "length", "same", "shorter", "same", "longer")
	if err != nil {
		return Prompt{}, err
	}

	var sys strings.Builder
	writeTag(&sys, "task", "You rewrite text so a reader at the "+lvl.label+" reading level can understand it. Preserve the meaning and every fact of the original.")
	writeTag(&sys, "guidelines", lvl.guidance+"\n"+levelerLengths[length]+"\nReturn only the rewritten text, with no preamble.")

	var user strings.Builder
	writeTag(&user, "text", in.Text)

	return Prompt{System: finish(&sys), User: finish(&user), Temperature: 0.4}, nil
}
