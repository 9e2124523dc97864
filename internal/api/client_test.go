package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(baseURL string, timeout time.Duration) *Client {
	return NewClient(Config{BaseURL: baseURL, Timeout: timeout}, zap.NewNop(), nil)
}

func TestClientGet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/profile", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success": true, "data": {"id": "c1", "email": "a@b.co"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)
	c.SetAuthToken("tok-123")

	body, apiErr := c.Get(context.Background(), "/api/v1/auth/profile", nil)
	require.Nil(t, apiErr)
	assert.True(t, IsSuccess(body))
}

func TestClientGet_QueryParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		w.Write([]byte(`{"success": true, "data": {}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)
	_, apiErr := c.Get(context.Background(), "/api/v1/classes", url.Values{"page": []string{"2"}})
	require.Nil(t, apiErr)
}

func TestClientPostNoAuth_OmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"success": true, "data": {}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)
	c.SetAuthToken("should-not-be-sent")

	_, apiErr := c.PostNoAuth(context.Background(), "/api/v1/auth/login", map[string]string{"email": "a@b.co"})
	require.Nil(t, apiErr)
}

func TestClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success": false, "error": {"message": "token invalid", "code": "INVALID_TOKEN"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)
	_, apiErr := c.Get(context.Background(), "/api/v1/auth/profile", nil)

	require.NotNil(t, apiErr)
	assert.Equal(t, AuthenticationError, apiErr.Kind)
	assert.Equal(t, "token invalid", apiErr.Message)
	assert.Equal(t, "INVALID_TOKEN", apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.False(t, apiErr.Retryable())
}

func TestClient_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`oops, not json`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)
	_, apiErr := c.Get(context.Background(), "/api/v1/classes", nil)

	require.NotNil(t, apiErr)
	assert.Equal(t, ServerError, apiErr.Kind)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.True(t, apiErr.Retryable())
}

func TestClient_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"success": false, "error": {"message": "slow down"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)
	_, apiErr := c.Get(context.Background(), "/api/v1/classes", nil)

	require.NotNil(t, apiErr)
	assert.Equal(t, ServerError, apiErr.Kind)
	assert.Equal(t, CodeRateLimited, apiErr.Code)
	assert.Equal(t, RateLimitedDelay, apiErr.RetryDelay(1))
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success": true, "data": {}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 20*time.Millisecond)
	_, apiErr := c.Get(context.Background(), "/api/v1/classes", nil)

	require.NotNil(t, apiErr)
	assert.Equal(t, TimeoutError, apiErr.Kind)
	assert.True(t, apiErr.Retryable())
}

func TestClient_NetworkError(t *testing.T) {
	// Nothing listens here
	c := newTestClient("http://127.0.0.1:1", time.Second)
	_, apiErr := c.Get(context.Background(), "/api/v1/classes", nil)

	require.NotNil(t, apiErr)
	assert.Equal(t, NetworkError, apiErr.Kind)
	assert.True(t, apiErr.Retryable())
}

func TestClient_MalformedSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{truncated`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)
	_, apiErr := c.Get(context.Background(), "/api/v1/classes", nil)

	require.NotNil(t, apiErr)
	assert.Equal(t, ValidationError, apiErr.Kind)
}

type staticTokenSource struct{ token string }

func (s staticTokenSource) AccessToken(ctx context.Context) (string, error) {
	return s.token, nil
}

func TestClient_TokenSourcePrecedence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer from-source", r.Header.Get("Authorization"))
		w.Write([]byte(`{"success": true, "data": {}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)
	c.SetAuthToken("static-token")
	c.SetTokenSource(staticTokenSource{token: "from-source"})

	_, apiErr := c.Get(context.Background(), "/api/v1/auth/profile", nil)
	require.Nil(t, apiErr)
}

func TestClient_EmptyTokenSourceFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer static-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{"success": true, "data": {}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, time.Second)
	c.SetAuthToken("static-token")
	c.SetTokenSource(staticTokenSource{token: ""})

	_, apiErr := c.Get(context.Background(), "/api/v1/auth/profile", nil)
	require.Nil(t, apiErr)
}
