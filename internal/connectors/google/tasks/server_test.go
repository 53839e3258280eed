package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	tasksapi "google.golang.org/api/tasks/v1"
)

// fakeTasksServer is a minimal in-memory Google Tasks API.
type fakeTasksServer struct {
	t *testing.T

	mu       sync.Mutex
	lists    []*tasksapi.TaskList
	tasks    map[string][]*tasksapi.Task
	nextID   int
	failures map[string][]int // "METHOD path" -> statuses to return, in order
	requests []*http.Request
	patches  []map[string]any
}

func newFakeTasksServer(t *testing.T) *fakeTasksServer {
	return &fakeTasksServer{
		t:        t,
		tasks:    make(map[string][]*tasksapi.Task),
		failures: make(map[string][]int),
	}
}

// start serves the fake and returns a client bound to it.
func (f *fakeTasksServer) start(cfg *Config) *Client {
	srv := httptest.NewServer(http.HandlerFunc(f.serveHTTP))
	f.t.Cleanup(srv.Close)

	svc, err := tasksapi.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(f.t, err)
	return New(svc, cfg)
}

func (f *fakeTasksServer) addList(id, title string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists = append(f.lists, &tasksapi.TaskList{Id: id, Title: title, Kind: "tasks#taskList"})
	if _, ok := f.tasks[id]; !ok {
		f.tasks[id] = nil
	}
}

func (f *fakeTasksServer) addTask(listID string, task *tasksapi.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[listID] = append(f.tasks[listID], task)
}

func (f *fakeTasksServer) fail(method, path string, statuses ...int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+" "+path] = append(f.failures[method+" "+path], statuses...)
}

func (f *fakeTasksServer) requestCount(method, path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method == method && r.URL.Path == path {
			n++
		}
	}
	return n
}

func (f *fakeTasksServer) lastQuery(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].URL.Path == path {
			return f.requests[i].URL.Query()
		}
	}
	return nil
}

func (f *fakeTasksServer) serveHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Clone(context.Background()))

	key := r.Method + " " + r.URL.Path
	if statuses := f.failures[key]; len(statuses) > 0 {
		f.failures[key] = statuses[1:]
		writeError(w, statuses[0])
		return
	}

	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/tasks/v1/"), "/")
	switch {
	case len(parts) == 3 && parts[0] == "users" && parts[2] == "lists":
		f.handleLists(w, r)
	case len(parts) == 4 && parts[0] == "users" && parts[2] == "lists":
		f.handleList(w, r, parts[3])
	case len(parts) == 3 && parts[0] == "lists" && parts[2] == "tasks":
		f.handleTasks(w, r, parts[1])
	case len(parts) == 4 && parts[0] == "lists" && parts[2] == "tasks":
		f.handleTask(w, r, parts[1], parts[3])
	default:
		writeError(w, http.StatusNotFound)
	}
}

func (f *fakeTasksServer) handleLists(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		items, next := paginate(f.lists, r.URL.Query())
		writeJSON(w, &tasksapi.TaskLists{Items: items, NextPageToken: next})
	case http.MethodPost:
		var list tasksapi.TaskList
		if err := json.NewDecoder(r.Body).Decode(&list); err != nil {
			writeError(w, http.StatusBadRequest)
			return
		}
		f.nextID++
		list.Id = fmt.Sprintf("list-%d", f.nextID)
		list.Kind = "tasks#taskList"
		f.lists = append(f.lists, &list)
		f.tasks[list.Id] = nil
		writeJSON(w, &list)
	default:
		writeError(w, http.StatusMethodNotAllowed)
	}
}

func (f *fakeTasksServer) handleList(w http.ResponseWriter, r *http.Request, id string) {
	for i, list := range f.lists {
		if list.Id != id {
			continue
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, list)
		case http.MethodDelete:
			f.lists = append(f.lists[:i], f.lists[i+1:]...)
			delete(f.tasks, id)
			w.WriteHeader(http.StatusNoContent)
		default:
			writeError(w, http.StatusMethodNotAllowed)
		}
		return
	}
	writeError(w, http.StatusNotFound)
}

func (f *fakeTasksServer) handleTasks(w http.ResponseWriter, r *http.Request, listID string) {
	tasks, ok := f.tasks[listID]
	if !ok {
		writeError(w, http.StatusNotFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		items, next := paginate(tasks, r.URL.Query())
		writeJSON(w, &tasksapi.Tasks{Items: items, NextPageToken: next})
	case http.MethodPost:
		var task tasksapi.Task
		if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
			writeError(w, http.StatusBadRequest)
			return
		}
		f.nextID++
		task.Id = fmt.Sprintf("task-%d", f.nextID)
		task.Status = "needsAction"
		task.Parent = r.URL.Query().Get("parent")
		f.tasks[listID] = append(f.tasks[listID], &task)
		writeJSON(w, &task)
	default:
		writeError(w, http.StatusMethodNotAllowed)
	}
}

func (f *fakeTasksServer) handleTask(w http.ResponseWriter, r *http.Request, listID, taskID string) {
	for _, task := range f.tasks[listID] {
		if task.Id != taskID {
			continue
		}
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, task)
		case http.MethodPatch:
			var patch map[string]any
			if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
				writeError(w, http.StatusBadRequest)
				return
			}
			f.patches = append(f.patches, patch)
			applyPatch(task, patch)
			writeJSON(w, task)
		default:
			writeError(w, http.StatusMethodNotAllowed)
		}
		return
	}
	writeError(w, http.StatusNotFound)
}

func applyPatch(task *tasksapi.Task, patch map[string]any) {
	for k, v := range patch {
		s, _ := v.(string)
		switch k {
		case "title":
			task.Title = s
		case "notes":
			task.Notes = s
		case "due":
			task.Due = s
		case "status":
			task.Status = s
		case "completed":
			if v == nil {
				task.Completed = nil
			} else {
				task.Completed = &s
			}
		}
	}
}

func paginate[T any](items []T, q url.Values) ([]T, string) {
	start, _ := strconv.Atoi(q.Get("pageToken"))
	size, _ := strconv.Atoi(q.Get("maxResults"))
	if size <= 0 {
		size = len(items)
	}
	if start > len(items) {
		start = len(items)
	}
	end := min(start+size, len(items))
	next := ""
	if end < len(items) {
		next = strconv.Itoa(end)
	}
	return items[start:end], next
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int) {
	reason := "backendError"
	switch status {
	case http.StatusNotFound:
		reason = "notFound"
	case http.StatusTooManyRequests:
		reason = "rateLimitExceeded"
		w.Header().Set("Retry-After", "1")
	case http.StatusUnauthorized:
		reason = "authError"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    status,
			"message": http.StatusText(status),
			"errors":  []map[string]any{{"reason": reason, "message": http.StatusText(status)}},
		},
	})
}
