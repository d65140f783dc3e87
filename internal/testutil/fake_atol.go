package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gofrs/uuid/v5"
)

// Fake service credentials.
const (
	FakeLogin     = "v4-online-atol-ru"
	FakePassword  = "iGFFuihss"
	FakeGroupCode = "v4-online-atol-ru_4179"
)

// SubmitHook replaces the default submit answer. It receives the operation
// path segment and the raw body and returns a status and a JSON value.
type SubmitHook func(operation string, body []byte) (int, any)

// Submission is one document received by FakeAtol.
type Submission struct {
	Operation string
	Body      json.RawMessage
	Header    http.Header
	Query     string
}

// FakeAtol is an in-process ATOL Online lookalike. Both v3 and v4 style
// token passing are accepted; Protocol picks which answers it gives.
type FakeAtol struct {
	*httptest.Server

	tokenCalls  atomic.Int64
	submitCalls atomic.Int64
	reportCalls atomic.Int64

	mu          sync.Mutex
	token       string
	submissions []Submission
	reports     map[string]json.RawMessage
	submitHook  SubmitHook
}

// NewFakeAtol starts the fake. Close it with t.Cleanup(fake.Close).
func NewFakeAtol() *FakeAtol {
	f := &FakeAtol{
		token:   newToken(),
		reports: make(map[string]json.RawMessage),
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)

	r.Post("/possystem/{version}/getToken", f.handleToken)
	r.Get("/possystem/{version}/{group}/report/{uuid}", f.handleReport)
	r.Post("/possystem/{version}/{group}/{operation}", f.handleSubmit)

	f.Server = httptest.NewServer(r)
	return f
}

// Token returns the currently valid token.
func (f *FakeAtol) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

// RotateToken invalidates the issued token, as an expiry on the service
// side would.
func (f *FakeAtol) RotateToken() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = newToken()
}

// SetSubmitHook overrides submit answers. Nil restores the default.
func (f *FakeAtol) SetSubmitHook(h SubmitHook) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitHook = h
}

// SetReport stores the body returned for GET report/{uuid}.
func (f *FakeAtol) SetReport(uuid string, body []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports[uuid] = body
}

// Submissions returns the documents received so far.
func (f *FakeAtol) Submissions() []Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Submission(nil), f.submissions...)
}

func (f *FakeAtol) TokenCalls() int64  { return f.tokenCalls.Load() }
func (f *FakeAtol) SubmitCalls() int64 { return f.submitCalls.Load() }
func (f *FakeAtol) ReportCalls() int64 { return f.reportCalls.Load() }

func (f *FakeAtol) handleToken(w http.ResponseWriter, r *http.Request) {
	f.tokenCalls.Add(1)

	var req struct {
		Login string `json:"login"`
		Pass  string `json:"pass"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("2", 2, "Некорректный запрос", ""))
		return
	}

	if chi.URLParam(r, "version") == "v3" {
		if req.Login != FakeLogin || req.Pass != FakePassword {
			writeJSON(w, http.StatusOK, map[string]any{"code": 12, "text": "Неверный логин или пароль", "token": ""})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"code": 0, "text": nil, "token": f.Token()})
		return
	}

	if req.Login != FakeLogin || req.Pass != FakePassword {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":     errorObject("12", 12, "Неверный логин или пароль", "system"),
			"token":     "",
			"timestamp": "30.11.2017 17:58:53",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"error":     nil,
		"token":     f.Token(),
		"timestamp": "30.11.2017 17:58:53",
	})
}

func (f *FakeAtol) handleSubmit(w http.ResponseWriter, r *http.Request) {
	f.submitCalls.Add(1)
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, errorBody("11", 11, "Передан некорректный токен", ""))
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("32", 32, "Ошибка чтения запроса", ""))
		return
	}

	operation := chi.URLParam(r, "operation")
	f.mu.Lock()
	f.submissions = append(f.submissions, Submission{
		Operation: operation,
		Body:      body,
		Header:    r.Header.Clone(),
		Query:     r.URL.RawQuery,
	})
	hook := f.submitHook
	f.mu.Unlock()

	if hook != nil {
		status, resp := hook(operation, body)
		writeJSON(w, status, resp)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"uuid":      uuid.Must(uuid.NewV4()).String(),
		"status":    "wait",
		"error":     nil,
		"timestamp": "12.04.2017 06:15:06",
	})
}

func (f *FakeAtol) handleReport(w http.ResponseWriter, r *http.Request) {
	f.reportCalls.Add(1)
	if !f.authorized(r) {
		writeJSON(w, http.StatusUnauthorized, errorBody("11", 11, "Передан некорректный токен", ""))
		return
	}

	id := chi.URLParam(r, "uuid")
	f.mu.Lock()
	body, ok := f.reports[id]
	f.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, errorBody("16", 16, "Не найдена информация по документу", ""))
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (f *FakeAtol) authorized(r *http.Request) bool {
	token := r.Header.Get("Token")
	if token == "" {
		token = r.URL.Query().Get("tokenid")
	}
	return token != "" && token == f.Token()
}

func errorObject(id string, code int, text, typ string) map[string]any {
	return map[string]any{"error_id": id, "code": code, "text": text, "type": typ}
}

func errorBody(id string, code int, text, uuid string) map[string]any {
	var u any
	if uuid != "" {
		u = uuid
	}
	return map[string]any{
		"uuid":      u,
		"error":     errorObject(id, code, text, "system"),
		"timestamp": "12.04.2017 06:15:06",
	}
}

// ErrorResponse builds a submit answer carrying an error envelope, with
// uuid set when uuid is non-empty.
func ErrorResponse(id string, code int, text, uuid string) map[string]any {
	return errorBody(id, code, text, uuid)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newToken() string {
	return uuid.Must(uuid.NewV4()).String()
}
