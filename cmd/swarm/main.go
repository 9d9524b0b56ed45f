// Package main runs the swarm node: serve a master/member process or join
// an existing swarm.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	joincmd "github.com/webmentordev/swarm/internal/cmd/join"
	servecmd "github.com/webmentordev/swarm/internal/cmd/serve"
)

func main() {
	// Local .env files are a convenience for development; absence is fine.
	_ = godotenv.Load()
	log.SetPrefix("[SWARM] ")

	args := os.Args[1:]
	command := ""
	if len(args) > 0 {
		command = args[0]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "serve":
		cfg, err := servecmd.ParseConfig(flag.NewFlagSet("serve", flag.ExitOnError), args[1:])
		if err != nil {
			log.Fatalf("parse flags: %v", err)
		}
		if err := servecmd.Run(ctx, cfg); err != nil {
			log.Fatalf("failed to serve: %v", err)
		}
	case "join":
		fs := flag.NewFlagSet("join", flag.ExitOnError)
		cfg, err := joincmd.ParseConfig(fs, args[1:])
		if err != nil {
			log.Fatalf("parse flags: %v", err)
		}
		if fs.NArg() != 1 {
			fmt.Println("Not enough arguments!")
			printUsage()
			os.Exit(1)
		}
		if err := joincmd.Run(ctx, cfg, fs.Arg(0)); err != nil {
			log.Fatalf("failed to join: %v", err)
		}
	case "help", "--help", "":
		printUsage()
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("\n||=======================================================================")
	fmt.Println("|| Usage:")
	fmt.Println("||=======================================================================")
	fmt.Println("||  * serve                                  - Start the server")
	fmt.Println("||  * join <ip_address:port>                 - Join the running network")
	fmt.Println("||  * leave                                  - Leave the network")
	fmt.Println("||  * list                                   - List all active servers")
	fmt.Println("||  * status <ip_address>                    - Check server status")
	fmt.Println("||  * help                                   - Show this message")
	fmt.Println("=========================================================================")
}
