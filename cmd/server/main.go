package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/qnkhuat/chessdesk/pkg/config"
	"github.com/qnkhuat/chessdesk/pkg/netplay"
)

func main() {
	addr := flag.String("addr", ":5555", "tcp address for game connections")
	sshAddr := flag.String("ssh", "", "ssh address for the terminal front door, empty disables it")
	clientBin := flag.String("client", "chessdesk", "client binary spawned for ssh sessions")
	hostKey := flag.String("hostkey", "", "ssh host key file, defaults to ~/.ssh/id_rsa")
	logPath := flag.String("log", "./chessdesk-server.log", "path to log file")
	flag.Parse()

	if err := config.InitLog(*logPath, "SERVER: "); err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
		os.Exit(1)
	}

	s := netplay.NewServer()
	go s.CleanIdleMatches(time.Minute)

	if *sshAddr != "" {
		go serveSSH(*sshAddr, *clientBin, *hostKey)
	}

	ln, err := net.Listen("tcp", *addr)
	if err != nil {
		log.Fatalf("listen %s: %v", *addr, err)
	}
	defer ln.Close()

	color.Green("chessdesk server listening on %s", *addr)
	if *sshAddr != "" {
		color.Green("ssh front door on %s", *sshAddr)
	}
	log.Printf("listening on %s", *addr)

	go func() {
		tick := time.NewTicker(time.Minute)
		defer tick.Stop()
		for range tick.C {
			players, matches := s.Counts()
			color.Cyan("%d players online, %d matches running", players, matches)
		}
	}()

	if err := s.Serve(ln); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
