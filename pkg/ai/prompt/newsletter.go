package prompt

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gymflow-be/internal/entity"
)

// summaryLimit bounds the query recorded for a newsletter, in runes.
const summaryLimit = 200

// Section is one block of a newsletter draft.
type Section struct {
	Title   string
	Text    string
	Enabled bool
}

func sectionKey(i int, field string) string {
	return "section." + strconv.Itoa(i) + "." + field
}

// FlattenSections writes sections into bag as section.<i>.title|text|enabled.
func FlattenSections(bag entity.ParamBag, sections []Section) entity.ParamBag {
	if bag == nil {
		bag = entity.ParamBag{}
	}
	for i, s := range sections {
		bag[sectionKey(i, "title")] = entity.StringParam(s.Title)
		bag[sectionKey(i, "text")] = entity.StringParam(s.Text)
		bag[sectionKey(i, "enabled")] = entity.BoolParam(s.Enabled)
	}
	return bag
}

// SectionsFrom reads the flattened sections back in index order. A section
// without an enabled flag counts as enabled.
func SectionsFrom(bag entity.ParamBag) []Section {
	byIndex := map[int]*Section{}
	for key, v := range bag {
		rest, ok := strings.CutPrefix(key, "section.")
		if !ok {
			continue
		}
		idx, field, ok := strings.Cut(rest, ".")
		if !ok {
			continue
		}
		i, err := strconv.Atoi(idx)
		if err != nil || i < 0 {
			continue
		}
		s, ok := byIndex[i]
		if !ok {
			s = &Section{Enabled: true}
			byIndex[i] = s
		}
		switch field {
		case "title":
			s.Title = v.String()
		case "text":
			s.Text = v.String()
		case "enabled":
			s.Enabled = !(v.IsBool() && !v.Bool) && v.String() != "false"
		}
	}

	indexes := make([]int, 0, len(byIndex))
	for i := range byIndex {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)

	out := make([]Section, 0, len(indexes))
	for _, i := range indexes {
		out = append(out, *byIndex[i])
	}
	return out
}

// usable reports whether a section takes part in the newsletter.
func (s Section) usable() bool {
	return s.Enabled && (strings.TrimSpace(s.Title) != "" || strings.TrimSpace(s.Text) != "")
}

// SummaryQuery renders the first usable section as a single "title: text"
// line of at most 200 runes.
func SummaryQuery(sections []Section) string {
	for _, s := range sections {
		if !s.usable() {
			continue
		}
		title := strings.TrimSpace(s.Title)
		text := strings.Join(strings.Fields(s.Text), " ")
		line := text
		if title != "" {
			line = title + ": " + text
		}
		return truncate(strings.TrimSpace(line), summaryLimit)
	}
	return ""
}

func buildNewsletter(in Input) (Prompt, error) {
	var enabled []Section
	for _, s := range SectionsFrom(in.Params) {
		if s.usable() {
			enabled = append(enabled, s)
		}
	}
	if len(enabled) == 0 {
		return Prompt{}, invalid("at least one enabled section is required")
	}

	tone := strings.TrimSpace(in.Params.Text("tone"))
	if tone == "" {
		tone = "upbeat and welcoming"
	}
	audience := strings.TrimSpace(in.Params.Text("audience"))
	if audience == "" {
		audience = "club members"
	}

	var sys strings.Builder
	writeTag(&sys, "task", "You write the member newsletter of a fitness club. Turn the section notes into polished newsletter copy, one heading per section, in the order given.")
	writeTag(&sys, "style", "Tone: "+tone+"\nAudience: "+audience+"\nKeep every date, time and price exactly as written.")

	var user strings.Builder
	if strings.TrimSpace(in.Text) != "" {
		writeTag(&user, "intro_notes", in.Text)
	}
	for i, s := range enabled {
		writeTag(&user, fmt.Sprintf("section_%d", i+1), "Title: "+strings.TrimSpace(s.Title)+"\n"+strings.TrimSpace(s.Text))
	}

	return Prompt{System: finish(&sys), User: finish(&user), Temperature: 0.7}, nil
}
