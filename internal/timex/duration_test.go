package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	var s struct {
		D Duration `json:"d"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"d":"30s"}`), &s))
	require.Equal(t, 30*time.Second, s.D.Duration)

	require.NoError(t, json.Unmarshal([]byte(`{"d":5000000000}`), &s))
	require.Equal(t, 5*time.Second, s.D.Duration)

	require.Error(t, json.Unmarshal([]byte(`{"d":"bogus"}`), &s))
	require.Error(t, json.Unmarshal([]byte(`{"d":true}`), &s))
}
