package prompt

import (
	"strings"
	"testing"

	"gymflow-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(kv ...interface{}) entity.ParamBag {
	bag := entity.ParamBag{}
	for i := 0; i+1 < len(kv); i += 2 {
		pv, err := entity.ParamValueOf(kv[i+1])
		if err != nil {
			panic(err)
		}
		bag[kv[i].(string)] = pv
	}
	return bag
}

func TestBuild_ValidInputs(t *testing.T) {
	tests := []struct {
		name     string
		tool     entity.AiTool
		in       Input
		wantTemp float64
		system   []string
		user     []string
	}{
		{
			name:     "leveler",
			tool:     entity.AiToolTextLeveler,
			in:       Input{Text: "Hypertrophy requires progressive overload.", Params: params("level", "3rd", "length", "shorter")},
			wantTemp: 0.4,
			system:   []string{"3rd grade", "noticeably shorter"},
			user:     []string{"Hypertrophy requires progressive overload."},
		},
		{
			name:     "leveler defaults length",
			tool:     entity.AiToolTextLeveler,
			in:       Input{Text: "x", Params: params("level", "Adult")},
			wantTemp: 0.4,
			system:   []string{"adult plain-language", "same length"},
		},
		{
			name:     "grammar",
			tool:     entity.AiToolGrammar,
			in:       Input{Text: "i has went", Params: params("level", "3rd", "mode", "correct")},
			wantTemp: 0.2,
			system:   []string{"3rd grade", "corrected text only"},
			user:     []string{"i has went"},
		},
		{
			name:     "letter tone sets temperature",
			tool:     entity.AiToolLetterWriter,
			in:       Input{Text: "renewal discount", Params: params("recipient", "Ana", "tone", "motivational", "sender", "Coach Bo")},
			wantTemp: 0.9,
			system:   []string{"Energetic"},
			user:     []string{"Recipient: Ana", "Sender: Coach Bo", "renewal discount"},
		},
		{
			name: "newsletter",
			tool: entity.AiToolNewsletter,
			in: Input{Params: FlattenSections(params("tone", "calm"), []Section{
				{Title: "Closed", Text: "Pool closed Monday", Enabled: false},
				{Title: "New class", Text: "Spin at 7am", Enabled: true},
			})},
			wantTemp: 0.7,
			system:   []string{"Tone: calm", "Audience: club members"},
			user:     []string{"section_1", "Spin at 7am"},
		},
		{
			name:     "quiz with numeric string count",
			tool:     entity.AiToolQuiz,
			in:       Input{Text: "Warm-up routines", Params: params("level", "5th", "count", "5", "type", "true_false")},
			wantTemp: 0.5,
			system:   []string{"exactly 5 numbered", "True or False"},
		},
		{
			name:     "rubric default criteria",
			tool:     entity.AiToolRubric,
			in:       Input{Text: "Design a weekly plan", Params: params("level", "university", "points", 4.0)},
			wantTemp: 0.3,
			system:   []string{"4 criteria", "4-point scale"},
			user:     []string{"Design a weekly plan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(tt.tool, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTemp, p.Temperature)
			for _, s := range tt.system {
				assert.Contains(t, p.System, s)
			}
			for _, s := range tt.user {
				assert.Contains(t, p.User, s)
			}
		})
	}
}

func TestBuild_InvalidParams(t *testing.T) {
	tests := []struct {
		name string
		tool entity.AiTool
		in   Input
	}{
		{"leveler missing level", entity.AiToolTextLeveler, Input{Text: "x"}},
		{"leveler unknown level", entity.AiToolTextLeveler, Input{Params: params("level", "13th")}},
		{"leveler bad length", entity.AiToolTextLeveler, Input{Params: params("level", "3rd", "length", "huge")}},
		{"grammar missing mode", entity.AiToolGrammar, Input{Params: params("level", "3rd")}},
		{"grammar bad mode", entity.AiToolGrammar, Input{Params: params("level", "3rd", "mode", "rewrite")}},
		{"letter missing recipient", entity.AiToolLetterWriter, Input{Params: params("tone", "formal")}},
		{"letter bad tone", entity.AiToolLetterWriter, Input{Params: params("recipient", "Ana", "tone", "angry")}},
		{"newsletter no sections", entity.AiToolNewsletter, Input{Text: "hello"}},
		{"newsletter only disabled", entity.AiToolNewsletter, Input{Params: FlattenSections(nil, []Section{{Title: "a", Text: "b"}})}},
		{"quiz count too high", entity.AiToolQuiz, Input{Params: params("level", "3rd", "count", 21.0, "type", "mixed")}},
		{"quiz fractional count", entity.AiToolQuiz, Input{Params: params("level", "3rd", "count", 2.5, "type", "mixed")}},
		{"quiz count not a number", entity.AiToolQuiz, Input{Params: params("level", "3rd", "count", true, "type", "mixed")}},
		{"rubric bad points", entity.AiToolRubric, Input{Params: params("level", "3rd", "points", 6.0)}},
		{"rubric criteria out of range", entity.AiToolRubric, Input{Params: params("level", "3rd", "points", 3.0, "criteria", 11.0)}},
		{"unknown tool", entity.AiTool("poem"), Input{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.tool, tt.in)
			assert.ErrorIs(t, err, ErrInvalidParams)
		})
	}
}

func TestBuild_EveryToolHasABuilder(t *testing.T) {
	valid := map[entity.AiTool]entity.ParamBag{
		entity.AiToolTextLeveler:  params("level", "1st"),
		entity.AiToolLetterWriter: params("recipient", "x", "tone", "formal"),
		entity.AiToolGrammar:      params("level", "1st", "mode", "explain"),
		entity.AiToolNewsletter:   FlattenSections(nil, []Section{{Title: "t", Text: "b", Enabled: true}}),
		entity.AiToolQuiz:         params("level", "1st", "count", 1.0, "type", "mixed"),
		entity.AiToolRubric:       params("level", "1st", "points", 5.0),
	}
	for _, tool := range entity.AllAiTools {
		p, err := Build(tool, Input{Params: valid[tool]})
		require.NoError(t, err, tool)
		assert.NotEmpty(t, p.System)
	}
}

func TestSummaryQuery(t *testing.T) {
	assert.Equal(t, "", SummaryQuery(nil))
	assert.Equal(t, "", SummaryQuery([]Section{{Title: "a", Text: "b"}}))
	assert.Equal(t, "Hours: Open 6am to 10pm",
		SummaryQuery([]Section{{Title: "Hours", Text: "Open 6am\nto   10pm", Enabled: true}}))

	long := strings.Repeat("é", 300)
	got := SummaryQuery([]Section{{Text: long, Enabled: true}})
	assert.Equal(t, 200, len([]rune(got)))
}

func TestSectionsRoundTrip(t *testing.T) {
	in := []Section{
		{Title: "A", Text: "a", Enabled: true},
		{Title: "B", Text: "b", Enabled: false},
	}
	bag := FlattenSections(nil, in)
	assert.Equal(t, in, SectionsFrom(bag))

	bag[sectionKey(2, "title")] = entity.StringParam("C")
	got := SectionsFrom(bag)
	require.Len(t, got, 3)
	assert.True(t, got[2].Enabled)
}

func TestQueryAndTitle(t *testing.T) {
	in := Input{Text: "  fix me  ", Params: params("level", "3rd")}
	assert.Equal(t, "fix me", Query(entity.AiToolGrammar, in))
	assert.Equal(t, "", Title(entity.AiToolGrammar, in))

	news := Input{Params: FlattenSections(nil, []Section{{Title: "Spin", Text: "7am", Enabled: true}})}
	assert.Equal(t, "Spin: 7am", Query(entity.AiToolNewsletter, news))
	assert.Equal(t, "Spin", Title(entity.AiToolNewsletter, news))
}

func TestNewsletter_BlankSectionIsSkippedEverywhere(t *testing.T) {
	in := Input{Params: FlattenSections(nil, []Section{
		{Title: "  ", Text: "", Enabled: true},
		{Title: "New class", Text: "Spin at 7am", Enabled: true},
	})}

	_, err := Build(entity.AiToolNewsletter, in)
	require.NoError(t, err)
	assert.Equal(t, "New class: Spin at 7am", Query(entity.AiToolNewsletter, in))
	assert.Equal(t, "New class", Title(entity.AiToolNewsletter, in))
}
