// Package prompt turns the input of each AI tool into the system and user
// prompts sent to the generation provider. Builders are pure.
package prompt

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gymflow-be/internal/entity"
)

var ErrInvalidParams = errors.New("invalid tool parameters")

// Input is the normalized request handed to a builder.
type Input struct {
	Text   string
	Params entity.ParamBag
}

// Prompt is what the generation provider receives.
type Prompt struct {
	System      string
	User        string
	Temperature float64
}

// Build dispatches to the builder of tool.
func Build(tool entity.AiTool, in Input) (Prompt, error) {
	switch tool {
	case entity.AiToolTextLeveler:
		return buildLeveler(in)
	case entity.AiToolLetterWriter:
		return buildLetter(in)
	case entity.AiToolGrammar:
		return buildGrammar(in)
	case entity.AiToolNewsletter:
		return buildNewsletter(in)
	case entity.AiToolQuiz:
		return buildQuiz(in)
	case entity.AiToolRubric:
		return buildRubric(in)
	}
	return Prompt{}, fmt.Errorf("%w: unknown tool %q", ErrInvalidParams, tool)
}

// Query is the text recorded as the query of a recent entry.
func Query(tool entity.AiTool, in Input) string {
	if tool == entity.AiToolNewsletter {
		return SummaryQuery(SectionsFrom(in.Params))
	}
	return strings.TrimSpace(in.Text)
}

// Title is the display label of a recent entry, empty when the tool has none.
func Title(tool entity.AiTool, in Input) string {
	switch tool {
	case entity.AiToolNewsletter:
		for _, s := range SectionsFrom(in.Params) {
			if s.Enabled && strings.TrimSpace(s.Title) != "" {
				return truncate(strings.TrimSpace(s.Title), 255)
			}
		}
	case entity.AiToolRubric:
		return truncate(strings.TrimSpace(in.Params.Text("assignment")), 255)
	case entity.AiToolLetterWriter:
		return truncate(strings.TrimSpace(in.Params.Text("purpose")), 255)
	}
	return ""
}

type gradeLevel struct {
	label    string
	guidance string
}

var gradeLevels = map[string]gradeLevel{
	"kindergarten": {"kindergarten", "Use very short sentences and only the most common everyday words."},
	"1st":          {"1st grade", "Use short sentences and simple, familiar words."},
	"2nd":          {"2nd grade", "Use short sentences and simple, familiar words."},
	"3rd":          {"3rd grade", "Use simple sentences and common words; explain any new word."},
	"4th":          {"4th grade", "Use clear sentences and common words; explain any new word."},
	"5th":          {"5th grade", "Use clear sentences with some variety; define uncommon terms."},
	"6th":          {"6th grade", "Use clear sentences with some variety; define uncommon terms."},
	"7th":          {"7th grade", "Use moderately complex sentences and grade-appropriate vocabulary."},
	"8th":          {"8th grade", "Use moderately complex sentences and grade-appropriate vocabulary."},
	"9th":          {"9th grade", "Use varied sentence structure and subject vocabulary."},
	"10th":         {"10th grade", "Use varied sentence structure and subject vocabulary."},
	"11th":         {"11th grade", "Use mature sentence structure and precise vocabulary."},
	"12th":         {"12th grade", "Use mature sentence structure and precise vocabulary."},
	"university":   {"university level", "Use academic register and discipline-specific terminology."},
	"adult":        {"adult plain-language", "Use plain language a busy club member can skim; avoid jargon."},
}

func requireLevel(params entity.ParamBag) (gradeLevel, error) {
	raw := strings.ToLower(strings.TrimSpace(params.Text("level")))
	if raw == "" {
		return gradeLevel{}, fmt.Errorf("%w: level is required", ErrInvalidParams)
	}
	lvl, ok := gradeLevels[raw]
	if !ok {
		return gradeLevel{}, fmt.Errorf("%w: unknown level %q", ErrInvalidParams, raw)
	}
	return lvl, nil
}

// oneOf reads an enumerated parameter. An absent value yields def; def == ""
// makes the parameter required.
func oneOf(params entity.ParamBag, key, def string, allowed ...string) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(params.Text(key)))
	if raw == "" {
		if def == "" {
			return "", fmt.Errorf("%w: %s is required", ErrInvalidParams, key)
		}
		return def, nil
	}
	for _, a := range allowed {
		if raw == a {
			return raw, nil
		}
	}
	return "", fmt.Errorf("%w: %s must be one of %s", ErrInvalidParams, key, strings.Join(allowed, ", "))
}

// intParam reads an integral parameter given as a number or a numeric string.
// An absent value yields def; def == 0 makes the parameter required.
func intParam(params entity.ParamBag, key string, def, min, max int) (int, error) {
	v, ok := params.Get(key)
	if !ok {
		if def == 0 {
			return 0, fmt.Errorf("%w: %s is required", ErrInvalidParams, key)
		}
		return def, nil
	}

	var n float64
	switch {
	case v.IsNumber():
		n = v.Num
	case v.IsString():
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidParams, key)
		}
		n = f
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidParams, key)
	}

	if n != math.Trunc(n) || n < float64(min) || n > float64(max) {
		return 0, fmt.Errorf("%w: %s must be a whole number between %d and %d", ErrInvalidParams, key, min, max)
	}
	return int(n), nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidParams, msg)
}

func writeTag(b *strings.Builder, tag, body string) {
	b.WriteString("<" + tag + ">\n")
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n</" + tag + ">\n\n")
}

func finish(b *strings.Builder) string {
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}
