// Package ingest runs a TCP Lumberjack-protocol server that receives
// batches of encoded uint32 keys (and optional values) for live sorting,
// so a producer can stream workloads to a running onesweep process instead
// of only reading them from a pre-generated file.
package ingest

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	srv2 "github.com/elastic/go-lumber/server/v2"
)

// Batch is one decoded unit of work: a set of keys and, if the producer
// sent them, their matching values.
type Batch struct {
	Keys   []uint32
	Values []uint32
}

// Server accepts Lumberjack-framed TCP connections and decodes each
// event's "message" field as a comma-separated list of "key" or "key:value"
// tokens.
type Server struct {
	listener    net.Listener
	readTimeout time.Duration
	batches     chan Batch
	srv         *srv2.Server
}

// NewServer binds a TCP listener at addr. Call Accept to start serving.
func NewServer(addr string, readTimeout time.Duration) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("ingest: listening on %s: %w", addr, err)
	}
	return &Server{
		listener:    ln,
		readTimeout: readTimeout,
		batches:     make(chan Batch, 256),
	}, nil
}

// Accept starts the underlying Lumberjack v2 server and begins decoding
// incoming batches into s.Batches() in the background.
func (s *Server) Accept() error {
	srv, err := srv2.NewWithListener(s.listener, srv2.Timeout(s.readTimeout))
	if err != nil {
		return fmt.Errorf("ingest: starting lumberjack server: %w", err)
	}
	s.srv = srv

	go func() {
		for raw := range s.srv.ReceiveChan() {
			for _, evt := range raw.Events {
				m, ok := evt.(map[string]interface{})
				if !ok {
					continue
				}
				batch, err := decodeEvent(m)
				if err != nil {
					continue
				}
				s.batches <- batch
			}
			raw.ACK()
		}
		close(s.batches)
	}()

	return nil
}

// Batches returns the channel new decoded batches arrive on. It closes
// once the underlying connection has been torn down and every buffered
// batch drained.
func (s *Server) Batches() <-chan Batch {
	return s.batches
}

// Close shuts down the lumberjack server and the listener.
func (s *Server) Close() error {
	if s.srv != nil {
		s.srv.Close()
	}
	return s.listener.Close()
}

func decodeEvent(evt map[string]interface{}) (Batch, error) {
	msg, ok := evt["message"].(string)
	if !ok {
		return Batch{}, fmt.Errorf("ingest: event missing string \"message\" field")
	}

	tokens := strings.Split(msg, ",")
	var b Batch
	haveValues := false
	for _, tok := range tokens {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		parts := strings.SplitN(tok, ":", 2)
		key, err := strconv.ParseUint(parts[0], 10, 32)
		if err != nil {
			return Batch{}, fmt.Errorf("ingest: invalid key %q: %w", parts[0], err)
		}
		b.Keys = append(b.Keys, uint32(key))
		if len(parts) == 2 {
			val, err := strconv.ParseUint(parts[1], 10, 32)
			if err != nil {
				return Batch{}, fmt.Errorf("ingest: invalid value %q: %w", parts[1], err)
			}
			b.Values = append(b.Values, uint32(val))
			haveValues = true
		}
	}
	if haveValues && len(b.Values) != len(b.Keys) {
		return Batch{}, fmt.Errorf("ingest: message %q mixes keys with and without values", msg)
	}
	return b, nil
}
