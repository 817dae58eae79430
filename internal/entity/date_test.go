package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	dubai := time.FixedZone("GST", 4*60*60)
	// 22:30 UTC on the 17th is already the 18th in Dubai.
	instant := time.Date(2026, 10, 17, 22, 30, 0, 0, time.UTC)

	assert.Equal(t, Date{2026, 10, 17}, DateOf(instant))
	assert.Equal(t, Date{2026, 10, 18}, DateOf(instant.In(dubai)))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2026-02-03")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-03", d.String())

	d, err = ParseDate("2026-02-03T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, Date{2026, 2, 3}, d)

	_, err = ParseDate("03/02/2026")
	assert.Error(t, err)
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Day *Date `json:"day"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"day":"1990-05-15"}`), &payload))
	require.NotNil(t, payload.Day)
	assert.Equal(t, Date{1990, 5, 15}, *payload.Day)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"day":"1990-05-15"}`, string(out))
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, Date{2026, 10, 18}, d)

	require.NoError(t, d.Scan([]byte("2025-01-31")))
	assert.Equal(t, Date{2025, 1, 31}, d)

	assert.Error(t, d.Scan(42))
}
