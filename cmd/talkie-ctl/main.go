package main

import (
	"fmt"
	"os"
	"time"

	cli "github.com/spf13/pflag"

	"talkie/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Daemon control socket")
	hold := cli.DurationP("hold", "d", 2*time.Second, "Hold duration for tap")
	cli.Parse()

	cmd := "tap"
	if args := cli.Args(); len(args) > 0 {
		cmd = args[0]
	}

	var err error
	switch cmd {
	case ipc.CmdPress, ipc.CmdRelease:
		err = ipc.SendCommand(*socket, cmd)
	case "tap":
		// press, hold, release — one full push-to-talk gesture
		if err = ipc.SendCommand(*socket, ipc.CmdPress); err == nil {
			time.Sleep(*hold)
			err = ipc.SendCommand(*socket, ipc.CmdRelease)
		}
	default:
		fmt.Fprintf(os.Stderr, "usage: talkie-ctl [press|release|tap]\n")
		os.Exit(2)
	}

	if err != nil {
		fmt.Println("talkie-daemon not running:", err)
		os.Exit(1)
	}
}
