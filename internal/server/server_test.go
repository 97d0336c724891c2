package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intelliview/intelliview-api/internal/config"
)

func TestServe_GracefulShutdown(t *testing.T) {
	logger, hook := test.NewNullLogger()

	release := make(chan struct{})
	started := make(chan struct{})
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		_, _ = w.Write([]byte("done"))
	})

	srv := New(config.ServerConfig{Port: "0", ShutdownTimeout: 5 * time.Second}, handler, logger)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	serveErr := make(chan error, 1)
	go func() { serveErr <- srv.Serve(ctx, ln) }()

	bodyCh := make(chan string, 1)
	go func() {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			bodyCh <- err.Error()
			return
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		bodyCh <- string(body)
	}()

	<-started
	cancel()
	// kapanış devam eden isteği bekler
	time.Sleep(50 * time.Millisecond)
	close(release)

	assert.Equal(t, "done", <-bodyCh)
	require.NoError(t, <-serveErr)

	var messages []string
	for _, e := range hook.AllEntries() {
		messages = append(messages, e.Message)
	}
	assert.Contains(t, messages, "HTTP server stopped")
}

func TestRun_InvalidAddress(t *testing.T) {
	logger, _ := test.NewNullLogger()
	srv := New(config.ServerConfig{Port: "not-a-port"}, http.NotFoundHandler(), logger)

	err := srv.Run(context.Background())
	assert.Error(t, err)
}
