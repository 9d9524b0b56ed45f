// Package client implements the one-shot outbound join flow against a
// running master.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"github.com/webmentordev/swarm/internal/services/membership/role"
)

// Config carries the join client's inputs.
type Config struct {
	// MasterKey is the shared secret presented with the JOIN request.
	MasterKey string
	// ConfigPath locates the local role file written on success.
	ConfigPath string
}

// Join connects to the master at target, sends an authenticated JOIN, and
// prints the server's single response line for the operator.
//
// When the local role file already exists the process is already part of a
// swarm and Join returns without dialing, leaving all local state untouched.
// On a response indicating success it records the connection's local address
// in the role file; by protocol convention that address is where the member
// is considered reachable from then on.
func Join(ctx context.Context, cfg Config, target string) error {
	if strings.TrimSpace(cfg.MasterKey) == "" {
		return errors.New("master key is required")
	}
	if strings.TrimSpace(target) == "" {
		return errors.New("target address is required")
	}

	resolved, err := role.Resolve(cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("resolve role: %w", err)
	}
	if resolved.Kind == role.Member {
		fmt.Println("You are already part of a swarm. Type help for more.")
		return nil
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", target)
	if err != nil {
		return fmt.Errorf("dial master: %w", err)
	}
	defer conn.Close()
	localAddr := conn.LocalAddr().String()

	if _, err := fmt.Fprintf(conn, "JOIN %s\n", cfg.MasterKey); err != nil {
		return fmt.Errorf("send join request: %w", err)
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	response := strings.TrimSpace(line)
	fmt.Printf("Server: %s\n", response)

	if !strings.Contains(response, "joined") {
		return nil
	}

	host, port, err := net.SplitHostPort(localAddr)
	if err != nil {
		return fmt.Errorf("split local address %s: %w", localAddr, err)
	}
	created, err := role.WriteConfig(cfg.ConfigPath, host, port)
	if err != nil {
		return fmt.Errorf("persist role config: %w", err)
	}
	if created {
		fmt.Println("Config file has been created!")
	} else {
		fmt.Println("Config file already exist!")
	}
	return nil
}
