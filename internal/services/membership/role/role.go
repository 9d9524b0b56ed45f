// Package role resolves whether a process starts as the swarm master or as
// an already-joined member, based on a local key=value config file.
package role

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// DefaultSlavePort is used when the config file carries no parseable port.
const DefaultSlavePort = 8777

// Kind distinguishes master from member startup behavior.
type Kind int

const (
	// Master owns the registry and accepts JOIN requests.
	Master Kind = iota
	// Member has joined a swarm and points at a master.
	Member
)

// Role is the resolved startup role, loaded once at process start.
type Role struct {
	Kind            Kind
	MasterIPAddress string
	SlavePort       int
}

// Resolve reads the config file at path and decides the startup role.
//
// An absent file means the process becomes master. A present file selects
// the member role with whatever fields parse: slave_port falls back to
// DefaultSlavePort, master_ip_address stays empty if missing, and unknown
// keys are ignored. A file that exists but cannot be read is an error.
func Resolve(path string) (Role, error) {
	if strings.TrimSpace(path) == "" {
		return Role{}, fmt.Errorf("config path is required")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Role{Kind: Master}, nil
		}
		return Role{}, fmt.Errorf("read config file: %w", err)
	}

	role := Role{Kind: Member, SlavePort: DefaultSlavePort}
	for _, line := range strings.Split(string(content), "\n") {
		key, value, ok := strings.Cut(strings.TrimRight(line, "\r"), "=")
		if !ok {
			continue
		}
		switch key {
		case "master_ip_address":
			role.MasterIPAddress = value
		case "slave_port":
			if port, err := strconv.ParseUint(value, 10, 32); err == nil {
				role.SlavePort = int(port)
			}
		}
	}
	return role, nil
}

// WriteConfig persists the member role config when no file exists yet.
// It reports whether the file was created; an existing file is left
// untouched so a join retry cannot flip an established role.
func WriteConfig(path, ip, port string) (bool, error) {
	if strings.TrimSpace(path) == "" {
		return false, fmt.Errorf("config path is required")
	}

	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	data := fmt.Sprintf("master_ip_address=%s\nslave_port=%s", ip, port)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		return false, fmt.Errorf("write config file: %w", err)
	}
	return true, nil
}
