// Package ipc carries control messages between talkie-ctl and the daemon
// over a unix socket, standing in for the physical button when the daemon
// runs without GPIO.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

const DefaultSocketPath = "/tmp/talkie.sock"

// Button commands understood by the daemon.
const (
	CmdPress   = "press"
	CmdRelease = "release"
)

type ControlMessage struct {
	Cmd string `json:"cmd"`
}

// StartServer listens on path and invokes handler for every decoded message.
// The returned closer shuts the listener down.
func StartServer(path string, handler func(ControlMessage)) (func() error, error) {
	os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go handleConn(conn, handler)
		}
	}()

	return ln.Close, nil
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		return
	}
	handler(msg)
}

// SendCommand delivers one command to a running daemon.
func SendCommand(path, cmd string) error {
	conn, err := net.Dial("unix", path)
	if err != nil {
		return err
	}
	defer conn.Close()

	return json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd})
}
