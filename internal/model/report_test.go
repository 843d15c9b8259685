package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportMarshalJSON_UserField(t *testing.T) {
	r := Report{ID: "r1", Title: "Broken bin", Type: ReportTypeReport, UserID: "u1", MediaURLs: StringList{"/uploads/1-a.jpg"}}

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	var bare map[string]any
	require.NoError(t, json.Unmarshal(raw, &bare))
	assert.Equal(t, "u1", bare["user"])
	assert.Equal(t, "r1", bare["_id"])

	r.Owner = &Owner{ID: "u1", Name: "Alice", Email: "alice@example.com"}
	raw, err = json.Marshal(r)
	require.NoError(t, err)
	var resolved map[string]any
	require.NoError(t, json.Unmarshal(raw, &resolved))
	assert.Equal(t, map[string]any{"id": "u1", "name": "Alice", "email": "alice@example.com"}, resolved["user"])
}

func TestSeverityFor(t *testing.T) {
	assert.Equal(t, SeverityHigh, SeverityFor(ReportTypeReport))
	assert.Equal(t, SeverityNotSpecified, SeverityFor(ReportTypeCleanup))
}

func TestReportTypeMaxMedia(t *testing.T) {
	assert.Equal(t, 1, ReportTypeReport.MaxMedia())
	assert.Equal(t, 2, ReportTypeCleanup.MaxMedia())
	assert.False(t, ReportType("litter").Valid())
}

func TestStringListScan(t *testing.T) {
	var l StringList
	require.NoError(t, l.Scan([]byte(`["/uploads/a.png","/uploads/b.mp4"]`)))
	assert.Equal(t, StringList{"/uploads/a.png", "/uploads/b.mp4"}, l)

	v, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	assert.Error(t, l.Scan(42))
}

func TestFindReward(t *testing.T) {
	r, ok := FindReward("5 Saplings")
	assert.True(t, ok)
	assert.Equal(t, 1500, r.Points)

	_, ok = FindReward("Yacht")
	assert.False(t, ok)
}
