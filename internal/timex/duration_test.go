package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalString(t *testing.T) {
	var v struct {
		TTL Duration `json:"ttl"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"ttl":"24h"}`), &v))
	require.Equal(t, 24*time.Hour, v.TTL.Std())
}

func TestDuration_UnmarshalNanoseconds(t *testing.T) {
	var v struct {
		TTL Duration `json:"ttl"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"ttl":300000000000}`), &v))
	require.Equal(t, 5*time.Minute, v.TTL.Std())
}

func TestDuration_UnmarshalInvalid(t *testing.T) {
	var d Duration
	require.Error(t, json.Unmarshal([]byte(`"not-a-duration"`), &d))
	require.Error(t, json.Unmarshal([]byte(`true`), &d))
}

func TestDuration_MarshalRoundTrip(t *testing.T) {
	b, err := json.Marshal(Duration(30 * 24 * time.Hour))
	require.NoError(t, err)
	require.Equal(t, `"720h0m0s"`, string(b))
}
