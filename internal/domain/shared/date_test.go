package shared

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "2024-03-15", want: "2024-03-15"},
		{in: "2024-03-15T23:10:00Z", want: "2024-03-15"},
		{in: "2024-03-15 08:00:00", want: "2024-03-15"},
		{in: "15/03/2024", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Due  Date `json:"due"`
		Paid Date `json:"paid"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2024-12-31","paid":null}`), &payload))
	assert.Equal(t, "2024-12-31", payload.Due.String())
	assert.True(t, payload.Paid.IsZero())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2024-12-31","paid":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"due":"tomorrow"}`), &payload))
}

func TestDate_Scan(t *testing.T) {
	var d Date

	require.NoError(t, d.Scan(time.Date(2024, 1, 2, 15, 4, 5, 0, time.FixedZone("CET", 3600))))
	assert.Equal(t, "2024-01-02", d.String())

	require.NoError(t, d.Scan("2023-07-01"))
	assert.Equal(t, "2023-07-01", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))
}

func TestDate_AddDays(t *testing.T) {
	d := NewDate(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	assert.Equal(t, "2024-02-29", d.AddDays(-1).String())
	assert.Equal(t, "2024-03-31", d.AddDays(30).String())

	v, err := Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
