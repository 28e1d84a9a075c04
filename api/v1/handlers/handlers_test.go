package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"classpoll/internal/session"
	"classpoll/pkg/live"
	"classpoll/pkg/metrics"
)

func startHub(t *testing.T) *live.Hub {
	t.Helper()

	m, err := metrics.New("test", nil)
	require.NoError(t, err)
	hub := live.NewHub(session.New(), m, 16)

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- hub.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-errc
	})
	return hub
}

func get(t *testing.T, app *fiber.App, target string) (int, []byte) {
	t.Helper()

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, body
}

func receive(t *testing.T, hub *live.Hub, id, frame string) {
	t.Helper()
	require.NoError(t, hub.Receive(context.Background(), id, []byte(frame)))
}

func TestLiveResultsWithoutPoll(t *testing.T) {
	hub := startHub(t)
	app := fiber.New()
	RegisterPoll(app, hub)

	code, body := get(t, app, "/live-results")
	require.Equal(t, fiber.StatusNotFound, code)
	require.JSONEq(t, `{"message":"No active poll"}`, string(body))
}

func TestLiveResultsAndHistory(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	hub := startHub(t)
	app := fiber.New(fiber.Config{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal})
	RegisterPoll(app, hub)

	code, body := get(t, app, "/poll-history")
	require.Equal(fiber.StatusOK, code)
	require.JSONEq(`[]`, string(body))

	for _, id := range []string{"a", "b"} {
		_, err := hub.Connect(ctx, id)
		require.NoError(err)
	}
	receive(t, hub, "a", `{"event":"join","data":{"name":"A"}}`)
	receive(t, hub, "b", `{"event":"join","data":{"name":"B"}}`)
	receive(t, hub, "a", `{"event":"publish-poll","data":{"question":"Q","options":["x","y"],"duration":30}}`)
	receive(t, hub, "a", `{"event":"submit-answer","data":{"answerIndex":0}}`)

	code, body = get(t, app, "/live-results")
	require.Equal(fiber.StatusOK, code)
	require.JSONEq(`{
		"poll": {"question":"Q","options":["x","y"],"duration":30},
		"results": {"x":1,"y":0},
		"totalStudents": 2,
		"responsesReceived": 1
	}`, string(body))

	receive(t, hub, "b", `{"event":"submit-answer","data":{"answerIndex":1}}`)

	code, body = get(t, app, "/poll-history")
	require.Equal(fiber.StatusOK, code)

	var history []struct {
		Poll      json.RawMessage `json:"poll"`
		Results   map[string]int  `json:"results"`
		Timestamp string          `json:"timestamp"`
	}
	require.NoError(json.Unmarshal(body, &history))
	require.Len(history, 1)
	require.Equal(map[string]int{"x": 1, "y": 1}, history[0].Results)
	require.NotEmpty(history[0].Timestamp)
}

func TestSystemVerify(t *testing.T) {
	hub := startHub(t)

	tests := []struct {
		name       string
		key        string
		target     string
		expectCode int
	}{
		{name: "key not configured", key: "", target: "/system/info?key=x", expectCode: fiber.StatusInternalServerError},
		{name: "missing key", key: "secret", target: "/system/info", expectCode: fiber.StatusUnauthorized},
		{name: "wrong key", key: "secret", target: "/system/info?key=nope", expectCode: fiber.StatusUnauthorized},
		{name: "valid key", key: "secret", target: "/system/info?key=secret", expectCode: fiber.StatusOK},
		{name: "stack", key: "secret", target: "/system/stack?key=secret", expectCode: fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			RegisterSystem(app.Group("/system"), hub, tt.key)

			code, _ := get(t, app, tt.target)
			require.Equal(t, tt.expectCode, code)
		})
	}
}

func TestSystemInfoIncludesSession(t *testing.T) {
	require := require.New(t)

	hub := startHub(t)
	_, err := hub.Connect(context.Background(), "a")
	require.NoError(err)
	receive(t, hub, "a", `{"event":"join","data":"A"}`)

	app := fiber.New()
	RegisterSystem(app.Group("/system"), hub, "secret")

	code, body := get(t, app, "/system/info?key=secret")
	require.Equal(fiber.StatusOK, code)

	var resp struct {
		Data struct {
			Session struct {
				Connections  int  `json:"connections"`
				Participants int  `json:"participants"`
				PollActive   bool `json:"poll_active"`
			} `json:"session"`
		} `json:"data"`
	}
	require.NoError(json.Unmarshal(body, &resp))
	require.Equal(1, resp.Data.Session.Connections)
	require.Equal(1, resp.Data.Session.Participants)
	require.False(resp.Data.Session.PollActive)
}

func TestLiveRequiresUpgrade(t *testing.T) {
	hub := startHub(t)
	app := fiber.New()
	RegisterLive(app, hub)

	code, _ := get(t, app, "/live")
	require.Equal(t, fiber.StatusUpgradeRequired, code)
}
