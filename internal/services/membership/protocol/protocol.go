// Package protocol handles the line-based membership commands a node
// accepts: one newline-terminated command per connection, tokenized on
// single spaces.
package protocol

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/webmentordev/swarm/internal/services/membership/storage"
)

// Response lines are a fixed wire contract; compatible peers match on these
// exact bytes ("Swam" included).
const (
	ResponseAlreadyExists  = "Server already exists!"
	ResponseJoined         = "Swam has been joined!"
	ResponseUnknownCommand = "Unknown command!"
)

const tracerName = "github.com/webmentordev/swarm/internal/services/membership/protocol"

// Handler authenticates and executes one command per connection against the
// shared member registry.
type Handler struct {
	key      string
	registry storage.Registry

	// mu serializes the existence-check-then-insert sequence; the registry
	// itself carries no concurrency control.
	mu sync.Mutex
}

// NewHandler creates a handler sharing one registry across connections.
func NewHandler(key string, registry storage.Registry) *Handler {
	return &Handler{key: key, registry: registry}
}

// Handle reads exactly one command line from conn and executes it.
// remoteAddr is the peer's observed socket address and doubles as the
// registry key for JOIN. Errors are per-connection: the caller logs them and
// drops the connection without a response line.
func (h *Handler) Handle(ctx context.Context, conn net.Conn, remoteAddr string) error {
	if h == nil || h.registry == nil {
		return fmt.Errorf("handler is not configured")
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return fmt.Errorf("read command: %w", err)
	}
	command := strings.TrimSpace(line)
	log.Printf("%s", command)

	ctx, span := otel.Tracer(tracerName).Start(ctx, "membership.handle",
		trace.WithAttributes(attribute.String("peer.address", remoteAddr)),
	)
	defer span.End()

	tokens := strings.Split(command, " ")
	span.SetAttributes(attribute.String("membership.verb", tokens[0]))

	switch tokens[0] {
	case "JOIN":
		if len(tokens) < 2 {
			span.SetAttributes(attribute.String("membership.outcome", "malformed"))
			return fmt.Errorf("join command from %s is missing a key", remoteAddr)
		}
		if tokens[1] != h.key {
			// Auth mismatch closes the connection without a response line.
			span.SetAttributes(attribute.String("membership.outcome", "rejected"))
			log.Printf("rejected join from %s: key mismatch", remoteAddr)
			return nil
		}
		return h.register(ctx, span, conn, remoteAddr)
	default:
		span.SetAttributes(attribute.String("membership.outcome", "unknown"))
		return writeLine(conn, ResponseUnknownCommand)
	}
}

func (h *Handler) register(ctx context.Context, span trace.Span, conn net.Conn, remoteAddr string) error {
	// The lock bounds exactly the existence-check-then-insert sequence so
	// concurrent joins from one address cannot both insert.
	h.mu.Lock()
	exists, err := h.registry.MemberExists(ctx, remoteAddr)
	if err != nil {
		h.mu.Unlock()
		span.SetAttributes(attribute.String("membership.outcome", "error"))
		return fmt.Errorf("check member %s: %w", remoteAddr, err)
	}
	if !exists {
		if err := h.registry.AddMember(ctx, remoteAddr); err != nil {
			h.mu.Unlock()
			span.SetAttributes(attribute.String("membership.outcome", "error"))
			return fmt.Errorf("register member %s: %w", remoteAddr, err)
		}
	}
	h.mu.Unlock()

	if exists {
		span.SetAttributes(attribute.String("membership.outcome", "duplicate"))
		return writeLine(conn, ResponseAlreadyExists)
	}
	span.SetAttributes(attribute.String("membership.outcome", "joined"))
	return writeLine(conn, ResponseJoined)
}

func writeLine(conn net.Conn, response string) error {
	if _, err := fmt.Fprintf(conn, "%s\n", response); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
