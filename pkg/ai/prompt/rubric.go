package prompt

import (
	"strconv"
	"strings"
)

func buildRubric(in Input) (Prompt, error) {
	lvl, err := requireLevel(in.Params)
	if err != nil {
		return Prompt{}, err
	}
	points, err := intParam(in.Params, "points", 0, 3, 5)
	if err != nil {
		return Prompt{}, err
	}
	criteria, err := intParam(in.Params, "criteria", 4, 1, 10)
	if err != nil {
		return Prompt{}, err
	}

	assignment := strings.TrimSpace(in.Params.Text("assignment"))
	if assignment == "" {
		assignment = truncate(strings.TrimSpace(in.Text), summaryLimit)
	}

	var sys strings.Builder
	writeTag(&sys, "task", "You design grading rubrics for the "+lvl.label+" level. Produce a table with "+strconv.Itoa(criteria)+" criteria as rows and a "+strconv.Itoa(points)+"-point scale as columns, highest score first.")
	writeTag(&sys, "guidelines", "Describe observable performance in every cell. Keep each cell under 30 words.")

	var user strings.Builder
	writeTag(&user, "assignment", assignment)
	if assignment != strings.TrimSpace(in.Text) && strings.TrimSpace(in.Text) != "" {
		writeTag(&user, "details", in.Text)
	}

	return Prompt{System: finish(&sys), User: finish(&user), Temperature: 0.3}, nil
}
