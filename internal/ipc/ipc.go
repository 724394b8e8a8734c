// Package ipc exposes a local control socket so hotkey daemons and
// scripts can poke the assistant without touching the GUI.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"

	log "log/slog"
)

const SocketPath = "/tmp/voicekit.sock"

// ControlMessage is one command sent over the socket. Known commands:
// "listen" triggers a voice capture, "say" speaks Text.
type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

// Server accepts control messages until closed.
type Server struct {
	ln net.Listener
}

func StartServer(path string, handler func(ControlMessage)) (*Server, error) {
	if path == "" {
		path = SocketPath
	}
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return // listener closed
			}
			go handleConn(conn, handler)
		}
	}()

	return &Server{ln: ln}, nil
}

func (s *Server) Close() error {
	return s.ln.Close()
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		log.Warn("Malformed control message", "err", err)
		return
	}
	handler(msg)
}

// Send delivers one control message to a running assistant.
func Send(path string, msg ControlMessage) error {
	if path == "" {
		path = SocketPath
	}
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(msg)
}
