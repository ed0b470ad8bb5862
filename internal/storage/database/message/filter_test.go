package message

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestBuildFilter(t *testing.T) {
	testCases := []struct {
		name   string
		filter QueryFilter
		want   bson.M
	}{
		{
			"No filters",
			QueryFilter{},
			bson.M{},
		},
		{
			"From only",
			QueryFilter{From: "+14155550100"},
			bson.M{"from_msisdn": "+14155550100"},
		},
		{
			"Since only",
			QueryFilter{Since: "2025-01-01T00:00:00Z"},
			bson.M{"ts": bson.M{"$gte": "2025-01-01T00:00:00Z"}},
		},
		{
			"Contains only",
			QueryFilter{Contains: "hello"},
			bson.M{"text": bson.M{"$regex": "hello"}},
		},
		{
			// 條件為 AND 組合
			"All filters compose",
			QueryFilter{From: "+14155550100", Since: "2025-01-01T00:00:00Z", Contains: "hi"},
			bson.M{
				"from_msisdn": "+14155550100",
				"ts":          bson.M{"$gte": "2025-01-01T00:00:00Z"},
				"text":        bson.M{"$regex": "hi"},
			},
		},
		{
			// 使用者輸入的 regex 元字符必須被跳脫成字面子字串
			"Contains with regex metacharacters",
			QueryFilter{Contains: "50% off (today)"},
			bson.M{"text": bson.M{"$regex": `50% off \(today\)`}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := buildFilter(tc.filter)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("buildFilter() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClampLimit(t *testing.T) {
	testCases := []struct {
		name  string
		limit int
		want  int
	}{
		{"Unset uses default", 0, 50},
		{"Negative uses default", -5, 50},
		{"Minimum", 1, 1},
		{"In range", 42, 42},
		{"Maximum", 100, 100},
		{"Above maximum clamps", 500, 100},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := clampLimit(tc.limit); got != tc.want {
				t.Errorf("clampLimit(%d) = %d, want %d", tc.limit, got, tc.want)
			}
		})
	}
}
