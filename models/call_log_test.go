package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestAttemptNumberUnmarshalJSON(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  AttemptNumber
	}{
		{"数字", `{"attemptNumber": 1}`, 1},
		{"数字字符串", `{"attemptNumber": "1"}`, 1},
		{"带空格的字符串", `{"attemptNumber": " 2 "}`, 2},
		{"浮点写法", `{"attemptNumber": "3.0"}`, 3},
		{"null", `{"attemptNumber": null}`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var log CallLog
			require.NoError(t, json.Unmarshal([]byte(tc.input), &log))
			assert.Equal(t, tc.want, log.AttemptNumber)
		})
	}
}

func TestAttemptNumberUnmarshalJSONInvalid(t *testing.T) {
	var log CallLog
	err := json.Unmarshal([]byte(`{"attemptNumber": "abc"}`), &log)
	assert.Error(t, err)
}

// 数字与数字字符串归一化后视为同一个拨打次数
func TestAttemptNumberNormalization(t *testing.T) {
	var a, b CallLog
	require.NoError(t, json.Unmarshal([]byte(`{"attemptNumber": 1}`), &a))
	require.NoError(t, json.Unmarshal([]byte(`{"attemptNumber": "1"}`), &b))
	assert.Equal(t, a.AttemptNumber, b.AttemptNumber)
}

func TestAttemptNumberUnmarshalBSON(t *testing.T) {
	cases := []struct {
		name  string
		value interface{}
		want  AttemptNumber
	}{
		{"int32", int32(4), 4},
		{"int64", int64(5), 5},
		{"double", float64(6), 6},
		{"字符串", "7", 7},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := bson.Marshal(bson.M{"attemptNumber": tc.value})
			require.NoError(t, err)

			var log CallLog
			require.NoError(t, bson.Unmarshal(raw, &log))
			assert.Equal(t, tc.want, log.AttemptNumber)
		})
	}
}

func TestAttemptNumberMarshalBSONRoundTrip(t *testing.T) {
	original := CallLog{
		ID:            "cl1",
		CustomerID:    "c1",
		UserID:        "u1",
		AttemptNumber: 3,
		Status:        CallStatusInfoSent,
	}

	raw, err := bson.Marshal(original)
	require.NoError(t, err)

	var decoded CallLog
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, original.AttemptNumber, decoded.AttemptNumber)
	assert.Equal(t, original.Status, decoded.Status)
}

func TestCallStatusIsValid(t *testing.T) {
	for _, status := range CallStatuses {
		assert.True(t, status.IsValid(), "status=%s", status)
	}
	assert.False(t, CallStatus("Wrong Number").IsValid())
	assert.False(t, CallStatus("").IsValid())
}

// 枚举序列化必须保持字面量字符串，与存量数据互操作
func TestEnumLiteralSerialization(t *testing.T) {
	log := CallLog{Status: CallStatusPostDemoFollowup, AttemptNumber: 1}
	data, err := json.Marshal(log)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status":"Post Demo Followup"`)

	customer := Customer{Stage: StageClosedLost, Industry: IndustryHealthcare}
	data, err = json.Marshal(customer)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"stage":"Closed Lost"`)
	assert.Contains(t, string(data), `"industry":"Healthcare"`)
}
