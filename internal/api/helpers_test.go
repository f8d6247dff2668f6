package api_test

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"article-agent/backend/internal/model"
	"article-agent/backend/internal/session"
)

// addChiURLParams simulates how the chi router injects URL parameters into
// the request's context.
func addChiURLParams(req *http.Request, params map[string]string) *http.Request {
	chiCtx := chi.NewRouteContext()
	for key, value := range params {
		chiCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))
}

// withSession attaches a session ID the way session.Middleware would.
func withSession(req *http.Request, id string) *http.Request {
	return req.WithContext(session.WithID(req.Context(), id))
}

// parseFrames decodes an SSE body. Every event must be a single data line
// followed by a blank line.
func parseFrames(t *testing.T, body string) []model.Frame {
	t.Helper()
	var frames []model.Frame
	scanner := bufio.NewScanner(strings.NewReader(body))
	expectBlank := false
	for scanner.Scan() {
		line := scanner.Text()
		if expectBlank {
			require.Empty(t, line, "frames must be separated by a blank line")
			expectBlank = false
			continue
		}
		require.True(t, strings.HasPrefix(line, "data: "), "unexpected line %q", line)
		var f model.Frame
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &f))
		frames = append(frames, f)
		expectBlank = true
	}
	require.NoError(t, scanner.Err())
	return frames
}

// sendFrames returns a mock Run function that pushes frames into the channel
// found at argument index chanArg and then closes it.
func sendFrames(chanArg int, frames ...model.Frame) func(args mock.Arguments) {
	return func(args mock.Arguments) {
		ch := args.Get(chanArg).(chan<- model.Frame)
		for _, f := range frames {
			ch <- f
		}
		close(ch)
	}
}
