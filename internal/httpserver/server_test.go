package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidanlsb/raven-actions/internal/dispatch"
	"github.com/aidanlsb/raven-actions/internal/outcome"
	"github.com/aidanlsb/raven-actions/internal/routes"
	"github.com/aidanlsb/raven-actions/internal/schema"
)

type echoParams struct {
	schema.Base `param:",squash"`

	Name string `param:"name" validate:"required"`
}

func newServer(t *testing.T, addr string) *Server {
	t.Helper()

	reg, err := routes.New(routes.Tree{
		"/note": {
			routes.Hello(),
			{
				Path: "/echo",
				Bind: routes.Plain(func(_ context.Context, p *echoParams) outcome.Outcome {
					return outcome.OK(outcome.TextResult{Message: p.Name + " via " + p.Action})
				}),
				RequiresCallbacks: true,
			},
		},
	}, routes.WithPrefix("actions-uri"))
	require.NoError(t, err)

	return New(dispatch.New(reg, nil), addr)
}

func get(t *testing.T, h http.Handler, target string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	res := rec.Result()
	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res, string(body)
}

func TestRegisteredActionReturnsJSON(t *testing.T) {
	s := newServer(t, "")

	res, body := get(t, s.Handler(), "/actions-uri/note/echo?name=a&name=Foo")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"isSuccess":true,"result":{"message":"Foo via /actions-uri/note/echo"}}`, body)
}

func TestValidationFailureIs200(t *testing.T) {
	s := newServer(t, "")

	res, body := get(t, s.Handler(), "/actions-uri/note/echo")
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var payload struct {
		IsSuccess bool   `json:"isSuccess"`
		ErrorCode int    `json:"errorCode"`
		Error     string `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &payload))
	assert.False(t, payload.IsSuccess)
	assert.Equal(t, 400, payload.ErrorCode)
	assert.Equal(t, "invalid parameters: name: is required", payload.Error)
}

func TestUnregisteredPathIs404WithEmptyBody(t *testing.T) {
	s := newServer(t, "")

	for _, target := range []string{"/", "/actions-uri/note/nope", "/note/echo", "/actions-uri"} {
		res, body := get(t, s.Handler(), target)
		assert.Equal(t, http.StatusNotFound, res.StatusCode, target)
		assert.Empty(t, body, target)
	}
}

func TestHelloAndTrailingSlash(t *testing.T) {
	s := newServer(t, "")

	res, body := get(t, s.Handler(), "/actions-uri/note/")
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"isSuccess":true,"result":{"message":"Hello from /actions-uri/note","actions":["/actions-uri/note/echo"]}}`, body)
}

func TestOnlyGet(t *testing.T) {
	s := newServer(t, "")

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/actions-uri/note/echo?name=x", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestStartStop(t *testing.T) {
	s := newServer(t, "127.0.0.1:0")
	ctx := context.Background()

	assert.Empty(t, s.Addr())
	require.NoError(t, s.Start())
	addr := s.Addr()
	require.NotEmpty(t, addr)

	// A second Start reuses the live listener.
	require.NoError(t, s.Start())
	assert.Equal(t, addr, s.Addr())

	res, err := http.Get("http://" + addr + "/actions-uri/note/echo?name=Foo")
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	require.NoError(t, s.Stop(ctx))
	assert.Empty(t, s.Addr())
	require.NoError(t, s.Stop(ctx))

	require.NoError(t, s.Start())
	assert.NotEmpty(t, s.Addr())
	require.NoError(t, s.Stop(ctx))
}
