package live

import (
	"testing"

	"github.com/stretchr/testify/require"

	"classpoll/internal/models"
)

func TestEncodeEvent(t *testing.T) {
	data, err := EncodeEvent(models.Event{Name: models.EventKicked})
	require.NoError(t, err)
	require.Equal(t, `{"event":"kicked"}`, string(data))

	data, err = EncodeEvent(models.Event{Name: models.EventParticipantList, Payload: []string{}})
	require.NoError(t, err)
	require.Equal(t, `{"event":"participant-list","data":[]}`, string(data))
}

func TestDecodeName(t *testing.T) {
	for raw, want := range map[string]string{
		``:               "",
		`null`:           "",
		`"Ann"`:          "Ann",
		`{"name":"Ann"}`: "Ann",
		`{}`:             "",
	} {
		name, err := decodeName([]byte(raw))
		require.NoError(t, err, raw)
		require.Equal(t, want, name, raw)
	}

	_, err := decodeName([]byte(`42`))
	require.Error(t, err)
}

func TestDecodeFrame(t *testing.T) {
	frame, err := DecodeFrame([]byte(`{"event":"join","data":{"name":"A"}}`))
	require.NoError(t, err)
	require.Equal(t, models.EventJoin, frame.Event)
	require.JSONEq(t, `{"name":"A"}`, string(frame.Data))

	_, err = DecodeFrame([]byte(`{}`))
	require.Error(t, err)
}
