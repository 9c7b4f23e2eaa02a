package integrationtests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	model "request-logger/internal/models"
	"request-logger/internal/notify"
	"request-logger/internal/repository"
	"request-logger/internal/requestlog"
	"request-logger/internal/server"
	users "request-logger/internal/userService"

	"github.com/gin-gonic/gin"
)

// recordSink keeps every request record for assertions.
type recordSink struct {
	mu      sync.Mutex
	records []requestlog.Record
}

func (s *recordSink) Log(_ context.Context, rec requestlog.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, rec)
}

func (s *recordSink) Records() []requestlog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]requestlog.Record(nil), s.records...)
}

// Last returns the most recent record, failing the test if there is none.
func (s *recordSink) Last(t *testing.T) requestlog.Record {
	t.Helper()
	records := s.Records()
	if len(records) == 0 {
		t.Fatalf("no request records logged")
	}
	return records[len(records)-1]
}

// slowRepo delays every store call so db timings are measurable.
type slowRepo struct {
	repository.UserDB
	delay time.Duration
}

func (r slowRepo) CreateUser(ctx context.Context, u model.User) error {
	time.Sleep(r.delay)
	return r.UserDB.CreateUser(ctx, u)
}

func (r slowRepo) GetUser(ctx context.Context, id string) (model.User, error) {
	time.Sleep(r.delay)
	return r.UserDB.GetUser(ctx, id)
}

func (r slowRepo) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	time.Sleep(r.delay)
	return r.UserDB.GetUserByEmail(ctx, email)
}

func (r slowRepo) ListUsers(ctx context.Context) ([]model.User, error) {
	time.Sleep(r.delay)
	return r.UserDB.ListUsers(ctx)
}

func (r slowRepo) DeleteUser(ctx context.Context, id string) error {
	time.Sleep(r.delay)
	return r.UserDB.DeleteUser(ctx, id)
}

// testApp bundles a router with the sink its request logger writes to.
type testApp struct {
	router *gin.Engine
	sink   *recordSink
}

// SetupTestApp wires the full stack: instrumented in-memory store, bus,
// request logger and router.
func SetupTestApp(cfg requestlog.Options, storeDelay time.Duration) *testApp {
	gin.SetMode(gin.TestMode)

	bus := notify.NewBus()
	var store repository.UserDB = repository.NewMemoryRepo()
	if storeDelay > 0 {
		store = slowRepo{UserDB: store, delay: storeDelay}
	}
	repo := repository.NewInstrumentedRepo(store, bus)

	sink := &recordSink{}
	cfg.Sink = sink
	cfg.Notifications = bus
	rl := requestlog.New(cfg)

	return &testApp{
		router: server.SetupRouter(users.NewUserService(repo), rl),
		sink:   sink,
	}
}

// ExecuteRequestAndParse executes an HTTP request on the app and parses the response
func ExecuteRequestAndParse(t *testing.T, app *testApp, method, url string, body any) (map[string]any, *httptest.ResponseRecorder) {
	var reqBody []byte
	var err error

	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	app.router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}

	return resp, w
}
