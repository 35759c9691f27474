package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAiTool(t *testing.T) {
	for _, tool := range AllAiTools {
		got, err := ParseAiTool(string(tool))
		require.NoError(t, err)
		assert.Equal(t, tool, got)
	}

	for _, bad := range []string{"", "Grammar", "letter-writer", "poem"} {
		_, err := ParseAiTool(bad)
		assert.Error(t, err, bad)
	}
}

func TestParamBag_DecodesScalars(t *testing.T) {
	var bag ParamBag
	require.NoError(t, json.Unmarshal([]byte(`{"level":"3rd","count":5,"strict":true,"none":null}`), &bag))

	assert.Equal(t, StringParam("3rd"), bag["level"])
	assert.Equal(t, NumberParam(5), bag["count"])
	assert.Equal(t, BoolParam(true), bag["strict"])

	_, ok := bag.Get("none")
	assert.False(t, ok)
	assert.Equal(t, "5", bag.Text("count"))
	assert.Equal(t, "true", bag.Text("strict"))
	assert.Equal(t, "", bag.Text("missing"))
}

func TestParamBag_RejectsNestedValues(t *testing.T) {
	var bag ParamBag
	assert.Error(t, json.Unmarshal([]byte(`{"level":["3rd"]}`), &bag))
	assert.Error(t, json.Unmarshal([]byte(`{"level":{"grade":3}}`), &bag))

	_, err := ParamBagFrom(map[string]interface{}{"level": []interface{}{"3rd"}})
	assert.Error(t, err)
}

func TestParamBagFrom_DropsNulls(t *testing.T) {
	bag, err := ParamBagFrom(map[string]interface{}{"tone": "formal", "sender": nil, "points": 4})
	require.NoError(t, err)
	assert.Equal(t, []string{"points", "tone"}, bag.Keys())
}

func TestParamBag_MarshalsBareScalars(t *testing.T) {
	out, err := json.Marshal(ParamBag{"mode": StringParam("correct"), "points": NumberParam(4.5), "on": BoolParam(false)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"mode":"correct","points":4.5,"on":false}`, string(out))
}

func TestParamBag_CloneIsIndependent(t *testing.T) {
	bag := ParamBag{"mode": StringParam("explain")}
	clone := bag.Clone()
	clone["mode"] = StringParam("highlight")

	assert.Equal(t, "explain", bag.Text("mode"))
	assert.Nil(t, ParamBag(nil).Clone())
}
