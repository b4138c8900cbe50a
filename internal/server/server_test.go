package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sentiment-web/internal/handler"
	"sentiment-web/internal/ml_client"
	"sentiment-web/internal/repository"
	"sentiment-web/internal/service"
	"sentiment-web/internal/session"
)

func TestNewRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)
	client := ml_client.NewClient("http://127.0.0.1:1", ml_client.Options{Timeout: 100 * time.Millisecond}, logger)
	storage := repository.NewMemoryStorage()

	h := handler.NewHandler(handler.Deps{
		Predictor: service.NewPredictor(client, storage, logger),
		Home:      service.NewHome(client, logger),
		Batch:     service.NewBatch(client, logger),
		Dashboard: service.NewDashboard(client, logger),
		Storage:   storage,
	}, logger)
	sessions, err := session.NewManager(session.SigningKey("secret"), time.Hour, false, logger)
	require.NoError(t, err)

	router, err := NewRouter(h, sessions, logger)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/about", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	listener.Close()

	s := New(addr, http.NotFoundHandler(), time.Second, zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool {
		conn, err := net.Dial("tcp", addr)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
