// Package chaintest provides an in-process subtensor API for tests.
package chaintest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/yndnr/subtrack-go/internal/chain"
)

// Server is a fake chain API backed by in-memory metagraphs.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	network    string
	metagraphs map[int]*chain.SubnetMetagraph
	infos      map[int]*chain.SubnetInfo
	failing    map[int]bool
	down       bool
}

// NewServer starts a fake API that serves network. Call Close when done.
func NewServer(network string) *Server {
	return newServer(network, httptest.NewServer)
}

// NewTLSServer is like NewServer but serves HTTPS with a self-signed
// certificate, available from Certificate.
func NewTLSServer(network string) *Server {
	return newServer(network, httptest.NewTLSServer)
}

func newServer(network string, start func(http.Handler) *httptest.Server) *Server {
	s := &Server{
		network:    network,
		metagraphs: make(map[int]*chain.SubnetMetagraph),
		infos:      make(map[int]*chain.SubnetInfo),
		failing:    make(map[int]bool),
	}
	s.Server = start(http.HandlerFunc(s.serve))
	return s
}

// SetSubnet installs the ownership table of netuid, indexed by UID.
func (s *Server) SetSubnet(netuid int, block int64, hotkeys ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metagraphs[netuid] = &chain.SubnetMetagraph{
		Netuid:     netuid,
		Block:      block,
		NumUids:    len(hotkeys),
		HotkeyList: append([]string(nil), hotkeys...),
	}
}

// SetInfo installs the registration parameters of a subnet.
func (s *Server) SetInfo(info chain.SubnetInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos[info.Netuid] = &info
	if _, ok := s.metagraphs[info.Netuid]; !ok {
		s.metagraphs[info.Netuid] = &chain.SubnetMetagraph{Netuid: info.Netuid}
	}
}

// Fail makes every request for netuid return a 500.
func (s *Server) Fail(netuid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[netuid] = true
}

// SetDown makes every request return a 503.
func (s *Server) SetDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.down = down
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.down {
		writeError(w, http.StatusServiceUnavailable, "node unavailable")
		return
	}
	if got := r.URL.Query().Get("network"); got != s.network {
		writeError(w, http.StatusNotFound, "unknown network "+got)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 1 && parts[0] == "subnets" {
		ids := make([]int, 0, len(s.metagraphs))
		for id := range s.metagraphs {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		writeData(w, ids)
		return
	}
	if len(parts) != 3 || parts[0] != "subnets" {
		writeError(w, http.StatusNotFound, "no route")
		return
	}

	netuid, err := strconv.Atoi(parts[1])
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad netuid")
		return
	}
	if s.failing[netuid] {
		writeError(w, http.StatusInternalServerError, "metagraph query failed")
		return
	}

	switch parts[2] {
	case "metagraph":
		mg, ok := s.metagraphs[netuid]
		if !ok {
			writeError(w, http.StatusNotFound, "subnet does not exist")
			return
		}
		writeData(w, mg)
	case "info":
		info, ok := s.infos[netuid]
		if !ok {
			writeError(w, http.StatusNotFound, "subnet does not exist")
			return
		}
		writeData(w, info)
	default:
		writeError(w, http.StatusNotFound, "no route")
	}
}

func writeData(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"statusCode": http.StatusOK,
		"success":    true,
		"data":       data,
		"error":      nil,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"statusCode": status,
		"success":    false,
		"data":       nil,
		"error":      map[string]any{"message": msg},
	})
}
