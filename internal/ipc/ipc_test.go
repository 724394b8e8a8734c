package ipc

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndReceive(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "ctl.sock")

	got := make(chan ControlMessage, 1)
	srv, err := StartServer(sock, func(msg ControlMessage) {
		got <- msg
	})
	require.NoError(t, err)
	defer srv.Close()

	require.NoError(t, Send(sock, ControlMessage{Cmd: "say", Text: "hello"}))

	select {
	case msg := <-got:
		assert.Equal(t, "say", msg.Cmd)
		assert.Equal(t, "hello", msg.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("no control message received")
	}
}

func TestSendWithoutServer(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "nobody.sock")
	assert.Error(t, Send(sock, ControlMessage{Cmd: "listen"}))
}

func TestServerReplacesStaleSocket(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "ctl.sock")

	srv, err := StartServer(sock, func(ControlMessage) {})
	require.NoError(t, err)
	srv.Close()

	srv2, err := StartServer(sock, func(ControlMessage) {})
	require.NoError(t, err)
	srv2.Close()
}
