package prompt

import (
	"strconv"
	"strings"
)

var quizTypes = map[string]string{
	"multiple_choice": "Each question has four options labelled A-D with exactly one correct option.",
	"true_false":      "Each question is a statement to be marked True or False.",
	"short_answer":    "Each question expects an answer of one or two sentences.",
	"mixed":           "Mix multiple-choice, true/false and short-answer questions.",
}

func buildQuiz(in Input) (Prompt, error) {
	lvl, err := requireLevel(in.Params)
	if err != nil {
		return Prompt{}, err
	}
	count, err := intParam(in.Params, "count", 0, 1, 20)
	if err != nil {
		return Prompt{}, err
	}
	kind, err := oneOf(in.Params, "type", "", "multiple_choice", "true_false", "short_answer", "mixed")
	if err != nil {
		return Prompt{}, err
	}

	var sys strings.Builder
	writeTag(&sys, "task", "You write quizzes for learners at the "+lvl.label+" level. Write exactly "+strconv.Itoa(count)+" numbered questions based only on the source material.")
	writeTag(&sys, "format", quizTypes[kind]+"\nFinish with an answer key listing the number and answer of every question.")

	var user strings.Builder
	writeTag(&user, "source_material", in.Text)

	return Prompt{System: finish(&sys), User: finish(&user), Temperature: 0.5}, nil
}
