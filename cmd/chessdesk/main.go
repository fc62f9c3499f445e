package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/qnkhuat/chessdesk/pkg/config"
	"github.com/qnkhuat/chessdesk/pkg/gui"
)

func main() {
	configPath := flag.String("config", "", "path to config file (JSON)")
	enginePath := flag.String("engine", "", "path to UCI engine binary, overrides config")
	serverAddr := flag.String("server", "", "address of online play server, overrides config")
	logPath := flag.String("log", "./chessdesk.log", "path to log file")
	flag.Parse()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "chessdesk needs an interactive terminal")
		os.Exit(1)
	}

	if err := config.InitLog(*logPath, "CLIENT: "); err != nil {
		fmt.Fprintf(os.Stderr, "cannot open log file: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bad config: %v\n", err)
		os.Exit(1)
	}
	if *enginePath != "" {
		cfg.EnginePath = *enginePath
	}
	if *serverAddr != "" {
		cfg.ServerAddr = *serverAddr
	}

	log.Println("New client")
	cl := gui.New(cfg)
	if err := cl.Run(); err != nil {
		log.Printf("client exited: %v", err)
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
