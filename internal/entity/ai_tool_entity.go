package entity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// AiTool identifies one of the fixed AI content-generation tools.
type AiTool string

const (
	AiToolTextLeveler  AiTool = "text_leveler"
	AiToolLetterWriter AiTool = "letter_writer"
	AiToolGrammar      AiTool = "grammar"
	AiToolNewsletter   AiTool = "newsletter"
	AiToolQuiz         AiTool = "quiz"
	AiToolRubric       AiTool = "rubric"
)

// AllAiTools lists every tool in display order.
var AllAiTools = []AiTool{
	AiToolTextLeveler,
	AiToolLetterWriter,
	AiToolGrammar,
	AiToolNewsletter,
	AiToolQuiz,
	AiToolRubric,
}

func (t AiTool) IsValid() bool {
	switch t {
	case AiToolTextLeveler, AiToolLetterWriter, AiToolGrammar, AiToolNewsletter, AiToolQuiz, AiToolRubric:
		return true
	}
	return false
}

// ParseAiTool accepts the canonical identifier only.
func ParseAiTool(s string) (AiTool, error) {
	t := AiTool(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown ai tool %q", s)
	}
	return t, nil
}

type RecentKind string

const (
	RecentKindRecent RecentKind = "recent"
	RecentKindSaved  RecentKind = "saved"
)

// ParamKind is the closed set of scalar kinds a ParamValue may hold.
type ParamKind uint8

const (
	ParamKindString ParamKind = iota + 1
	ParamKindNumber
	ParamKindBool
)

// ParamValue is a scalar parameter value: string, number or boolean.
// It marshals to the bare JSON scalar.
type ParamValue struct {
	Kind ParamKind
	Str  string
	Num  float64
	Bool bool
}

func StringParam(s string) ParamValue {
	return ParamValue{Kind: ParamKindString, Str: s}
}

func NumberParam(n float64) ParamValue {
	return ParamValue{Kind: ParamKindNumber, Num: n}
}

func BoolParam(b bool) ParamValue {
	return ParamValue{Kind: ParamKindBool, Bool: b}
}

func (v ParamValue) IsZero() bool {
	return v.Kind == 0
}

func (v ParamValue) IsString() bool {
	return v.Kind == ParamKindString
}

func (v ParamValue) IsNumber() bool {
	return v.Kind == ParamKindNumber
}

func (v ParamValue) IsBool() bool {
	return v.Kind == ParamKindBool
}

// String renders the value as text, whatever its kind.
func (v ParamValue) String() string {
	switch v.Kind {
	case ParamKindString:
		return v.Str
	case ParamKindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ParamKindBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

func (v ParamValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ParamKindString:
		return json.Marshal(v.Str)
	case ParamKindNumber:
		return json.Marshal(v.Num)
	case ParamKindBool:
		return json.Marshal(v.Bool)
	}
	return []byte("null"), nil
}

func (v *ParamValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*v = ParamValue{}
		return nil
	}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	pv, err := ParamValueOf(raw)
	if err != nil {
		return err
	}
	*v = pv
	return nil
}

// ParamValueOf converts a decoded JSON scalar into a ParamValue.
// Arrays and objects are rejected.
func ParamValueOf(raw interface{}) (ParamValue, error) {
	switch x := raw.(type) {
	case string:
		return StringParam(x), nil
	case float64:
		return NumberParam(x), nil
	case float32:
		return NumberParam(float64(x)), nil
	case int:
		return NumberParam(float64(x)), nil
	case int64:
		return NumberParam(float64(x)), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return ParamValue{}, err
		}
		return NumberParam(f), nil
	case bool:
		return BoolParam(x), nil
	case nil:
		return ParamValue{}, nil
	}
	return ParamValue{}, fmt.Errorf("unsupported parameter value of type %T", raw)
}

// ParamBag is an opaque mapping of tool parameters or invocation context.
type ParamBag map[string]ParamValue

// ParamBagFrom converts a decoded JSON object, dropping null values.
func ParamBagFrom(raw map[string]interface{}) (ParamBag, error) {
	bag := make(ParamBag, len(raw))
	for k, v := range raw {
		pv, err := ParamValueOf(v)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		if pv.IsZero() {
			continue
		}
		bag[k] = pv
	}
	return bag, nil
}

func (b ParamBag) Get(key string) (ParamValue, bool) {
	v, ok := b[key]
	return v, ok && !v.IsZero()
}

// Text returns the value for key rendered as text, or "" when absent.
func (b ParamBag) Text(key string) string {
	v, ok := b.Get(key)
	if !ok {
		return ""
	}
	return v.String()
}

// Keys returns the keys in sorted order.
func (b ParamBag) Keys() []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b ParamBag) Clone() ParamBag {
	if b == nil {
		return nil
	}
	out := make(ParamBag, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}
