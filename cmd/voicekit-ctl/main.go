package main

import (
	"fmt"
	"os"
	"strings"

	"voicekit/internal/ipc"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: voicekit-ctl listen | say <text>")
		os.Exit(2)
	}

	msg := ipc.ControlMessage{Cmd: os.Args[1]}
	if len(os.Args) > 2 {
		msg.Text = strings.Join(os.Args[2:], " ")
	}

	if err := ipc.Send("", msg); err != nil {
		fmt.Println("voicekit not running:", err)
		os.Exit(1)
	}
}
