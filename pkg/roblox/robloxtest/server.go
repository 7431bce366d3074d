// Package robloxtest runs an in-memory stand-in for the Open Cloud Messaging,
// DataStore and Users endpoints, with per-operation fault injection.
package robloxtest

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/PancyStudios/TaurusBotGo/pkg/roblox"
)

const DefaultAPIKey = "test-api-key"

// Published is one message received on a topic.
type Published struct {
	Universe string
	Topic    string
	Message  string
}

// Fault makes every request of one operation answer with Status and Body.
type Fault struct {
	Status int
	Body   string
}

// Server is a fake Open Cloud + Users API.
type Server struct {
	*httptest.Server

	APIKey string
	// PageSize bounds each key listing page. Zero means unbounded.
	PageSize int

	mu        sync.Mutex
	entries   map[string][]byte
	orphans   map[string]bool
	users     map[int64]string
	published []Published
	faults    map[roblox.Op]Fault
	keyFaults map[string]Fault
	calls     []string
}

// NewServer starts a fake server. Close it when done.
func NewServer() *Server {
	s := &Server{
		APIKey:    DefaultAPIKey,
		entries:   make(map[string][]byte),
		orphans:   make(map[string]bool),
		users:     make(map[int64]string),
		faults:    make(map[roblox.Op]Fault),
		keyFaults: make(map[string]Fault),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /messaging-service/v1/universes/{universe}/topics/{topic}", s.handlePublish)
	mux.HandleFunc("POST /datastores/v1/universes/{universe}/standard-datastores/datastore/entries/entry", s.handleWrite)
	mux.HandleFunc("GET /datastores/v1/universes/{universe}/standard-datastores/datastore/entries/entry", s.handleRead)
	mux.HandleFunc("DELETE /datastores/v1/universes/{universe}/standard-datastores/datastore/entries/entry", s.handleDelete)
	mux.HandleFunc("GET /datastores/v1/universes/{universe}/standard-datastores/datastore/entries", s.handleList)
	mux.HandleFunc("POST /v1/users", s.handleUsersByID)
	mux.HandleFunc("POST /v1/usernames/users", s.handleUsersByName)

	s.Server = httptest.NewServer(mux)
	return s
}

// Client returns a roblox.Client pointed at this server for universe.
func (s *Server) Client(universe string) *roblox.Client {
	return roblox.NewClient(roblox.Options{
		APIKey:       s.APIKey,
		UniverseID:   universe,
		APIBaseURL:   s.URL,
		UsersBaseURL: s.URL,
		HTTPClient:   s.Server.Client(),
	})
}

// Fail injects a fault for every subsequent call of op.
func (s *Server) Fail(op roblox.Op, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[op] = Fault{Status: status, Body: body}
}

// FailKey injects a fault for reads of one entry key.
func (s *Server) FailKey(key string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyFaults[key] = Fault{Status: status, Body: body}
}

// Heal removes every injected fault.
func (s *Server) Heal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[roblox.Op]Fault)
	s.keyFaults = make(map[string]Fault)
}

// AddUser registers an account in the Users directory.
func (s *Server) AddUser(id int64, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = name
}

// PutRaw stores body verbatim under key.
func (s *Server) PutRaw(key string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = body
}

// AddOrphanKey lists key without any data behind it.
func (s *Server) AddOrphanKey(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orphans[key] = true
}

// Entry returns the stored body for key.
func (s *Server) Entry(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.entries[key]
	return body, ok
}

// Messages returns every message received so far.
func (s *Server) Messages() []Published {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Published, len(s.published))
	copy(out, s.published)
	return out
}

// Calls returns the operation log, e.g. "list:", "list:2", "read:42".
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.calls))
	copy(out, s.calls)
	return out
}

func (s *Server) record(call string) {
	s.calls = append(s.calls, call)
}

// guard checks auth and injected faults; it reports whether the handler may
// continue. Callers hold s.mu.
func (s *Server) guard(w http.ResponseWriter, r *http.Request, op roblox.Op, authed bool) bool {
	if authed && r.Header.Get("x-api-key") != s.APIKey {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid API Key"})
		return false
	}
	if f, ok := s.faults[op]; ok {
		writeRaw(w, f.Status, f.Body)
		return false
	}
	return true
}

func (s *Server) handlePublish(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("publish:" + r.PathValue("topic"))
	if !s.guard(w, r, roblox.OpPublish, true) {
		return
	}

	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	s.published = append(s.published, Published{
		Universe: r.PathValue("universe"),
		Topic:    r.PathValue("topic"),
		Message:  body.Message,
	})
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleWrite(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.URL.Query().Get("entryKey")
	s.record("write:" + key)
	if !s.guard(w, r, roblox.OpWrite, true) {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || !json.Valid(body) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid entry"})
		return
	}
	s.entries[key] = body
	delete(s.orphans, key)
	writeJSON(w, http.StatusOK, map[string]interface{}{"version": "1", "deleted": false})
}

func (s *Server) handleRead(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.URL.Query().Get("entryKey")
	s.record("read:" + key)
	if !s.guard(w, r, roblox.OpRead, true) {
		return
	}
	if f, ok := s.keyFaults[key]; ok {
		writeRaw(w, f.Status, f.Body)
		return
	}

	body, ok := s.entries[key]
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND", "message": "Entry not found in the datastore."})
		return
	}
	writeRaw(w, http.StatusOK, string(body))
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := r.URL.Query().Get("entryKey")
	s.record("delete:" + key)
	if !s.guard(w, r, roblox.OpDelete, true) {
		return
	}

	if _, ok := s.entries[key]; !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "NOT_FOUND", "message": "Entry not found in the datastore."})
		return
	}
	delete(s.entries, key)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cursor := r.URL.Query().Get("cursor")
	s.record("list:" + cursor)
	if !s.guard(w, r, roblox.OpListKeys, true) {
		return
	}

	keys := make([]string, 0, len(s.entries)+len(s.orphans))
	for k := range s.entries {
		keys = append(keys, k)
	}
	for k := range s.orphans {
		if _, ok := s.entries[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 || n > len(keys) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid cursor"})
			return
		}
		start = n
	}
	end := len(keys)
	if s.PageSize > 0 && start+s.PageSize < end {
		end = start + s.PageSize
	}

	type keyObj struct {
		Key string `json:"key"`
	}
	resp := struct {
		Keys           []keyObj `json:"keys"`
		NextPageCursor string   `json:"nextPageCursor"`
	}{Keys: []keyObj{}}
	for _, k := range keys[start:end] {
		resp.Keys = append(resp.Keys, keyObj{Key: k})
	}
	if end < len(keys) {
		resp.NextPageCursor = strconv.Itoa(end)
	}
	writeJSON(w, http.StatusOK, resp)
}

type directoryUser struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

func (s *Server) handleUsersByID(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("users:ids")
	if !s.guard(w, r, roblox.OpUsers, false) {
		return
	}

	var body struct {
		UserIDs []int64 `json:"userIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	data := []directoryUser{}
	for _, id := range body.UserIDs {
		if name, ok := s.users[id]; ok {
			data = append(data, directoryUser{ID: id, Name: name, DisplayName: name})
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

func (s *Server) handleUsersByName(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record("users:names")
	if !s.guard(w, r, roblox.OpUsers, false) {
		return
	}

	var body struct {
		Usernames []string `json:"usernames"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid body"})
		return
	}
	data := []directoryUser{}
	for _, want := range body.Usernames {
		for id, name := range s.users {
			if strings.EqualFold(name, want) {
				data = append(data, directoryUser{ID: id, Name: name, DisplayName: name})
				break
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": data})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("encode: %v", err), http.StatusInternalServerError)
		return
	}
	writeRaw(w, status, string(data))
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
