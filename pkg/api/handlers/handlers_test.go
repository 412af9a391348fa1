package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/assiaelattar/microbit-app/pkg/gesture"
	"github.com/assiaelattar/microbit-app/pkg/rover"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeController struct {
	status     rover.Status
	connectErr error
	driveErr   error
	powerErr   error

	driven  []rover.Command
	powered []bool
}

func (f *fakeController) Connect(ctx context.Context) error { return f.connectErr }

func (f *fakeController) Disconnect(ctx context.Context) error { return nil }

func (f *fakeController) SetPower(ctx context.Context, on bool, source string) error {
	if f.powerErr != nil {
		return f.powerErr
	}
	f.powered = append(f.powered, on)
	return nil
}

func (f *fakeController) Drive(ctx context.Context, cmd rover.Command, source string) error {
	if f.driveErr != nil {
		return f.driveErr
	}
	f.driven = append(f.driven, cmd)
	return nil
}

func (f *fakeController) Status() rover.Status { return f.status }

func doRequest(handler gin.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")

	handler(c)
	return w
}

func TestHealth_Degraded(t *testing.T) {
	h := NewHealthHandler(&fakeController{})

	w := doRequest(h.Health, http.MethodGet, "/health", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 for disconnected link, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["status"] != "degraded" {
		t.Errorf("expected degraded status, got %v", resp["status"])
	}
}

func TestHealth_Connected(t *testing.T) {
	h := NewHealthHandler(&fakeController{status: rover.Status{Connected: true}})

	w := doRequest(h.Health, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestConnect_NotFound(t *testing.T) {
	h := NewLinkHandler(&fakeController{connectErr: rover.ErrNotFound})

	w := doRequest(h.Connect, http.MethodPost, "/link/connect", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestConnect_Timeout(t *testing.T) {
	h := NewLinkHandler(&fakeController{connectErr: rover.ErrTimeout})

	w := doRequest(h.Connect, http.MethodPost, "/link/connect", "")
	if w.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", w.Code)
	}
}

func TestDrive_ValidCommand(t *testing.T) {
	fake := &fakeController{}
	h := NewRoverHandler(fake, nil)

	w := doRequest(h.Drive, http.MethodPost, "/rover/drive", `{"command":"forward"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(fake.driven) != 1 || fake.driven[0] != rover.CommandForward {
		t.Errorf("expected one forward command, got %v", fake.driven)
	}
}

func TestDrive_AliasCommand(t *testing.T) {
	fake := &fakeController{}
	h := NewRoverHandler(fake, nil)

	// "up" is the wire alias for forward
	w := doRequest(h.Drive, http.MethodPost, "/rover/drive", `{"command":"up"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(fake.driven) != 1 || fake.driven[0] != rover.CommandForward {
		t.Errorf("expected forward, got %v", fake.driven)
	}
}

func TestDrive_UnknownCommand(t *testing.T) {
	fake := &fakeController{}
	h := NewRoverHandler(fake, nil)

	w := doRequest(h.Drive, http.MethodPost, "/rover/drive", `{"command":"sideways"}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown command, got %d", w.Code)
	}
	if len(fake.driven) != 0 {
		t.Errorf("unknown command should not reach the controller, got %v", fake.driven)
	}
}

func TestDrive_ExtraProperty(t *testing.T) {
	h := NewRoverHandler(&fakeController{}, nil)

	w := doRequest(h.Drive, http.MethodPost, "/rover/drive", `{"command":"stop","speed":3}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for extra property, got %d", w.Code)
	}
}

func TestDrive_PoweredOff(t *testing.T) {
	h := NewRoverHandler(&fakeController{driveErr: rover.ErrPoweredOff}, nil)

	w := doRequest(h.Drive, http.MethodPost, "/rover/drive", `{"command":"forward"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["error"] != "powered_off" {
		t.Errorf("expected powered_off error, got %v", resp["error"])
	}
}

func TestStop_AlwaysSendsStop(t *testing.T) {
	fake := &fakeController{}
	h := NewRoverHandler(fake, nil)

	w := doRequest(h.Stop, http.MethodPost, "/rover/stop", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(fake.driven) != 1 || fake.driven[0] != rover.CommandStop {
		t.Errorf("expected stop command, got %v", fake.driven)
	}
}

func TestPower_MissingBody(t *testing.T) {
	h := NewRoverHandler(&fakeController{}, nil)

	w := doRequest(h.Power, http.MethodPost, "/rover/power", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing on field, got %d", w.Code)
	}
}

func TestPower_SetsPower(t *testing.T) {
	fake := &fakeController{}
	h := NewRoverHandler(fake, nil)

	w := doRequest(h.Power, http.MethodPost, "/rover/power", `{"on":true}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if len(fake.powered) != 1 || !fake.powered[0] {
		t.Errorf("expected power on, got %v", fake.powered)
	}
}

type fakePilot struct {
	running  bool
	startErr error
}

func (f *fakePilot) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakePilot) Stop() { f.running = false }

func (f *fakePilot) Status() gesture.Status {
	return gesture.Status{Running: f.running}
}

func TestGesture_Unconfigured(t *testing.T) {
	h := NewGestureHandler(nil)

	for _, tc := range []struct {
		name    string
		handler gin.HandlerFunc
	}{
		{"start", h.Start},
		{"stop", h.Stop},
		{"status", h.Status},
	} {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(tc.handler, http.MethodPost, "/gesture", "")
			if w.Code != http.StatusServiceUnavailable {
				t.Errorf("expected 503, got %d", w.Code)
			}
		})
	}
}

func TestGesture_StartStop(t *testing.T) {
	pilot := &fakePilot{}
	h := NewGestureHandler(pilot)

	w := doRequest(h.Start, http.MethodPost, "/gesture/start", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !pilot.running {
		t.Error("expected pilot to be running")
	}

	w = doRequest(h.Stop, http.MethodPost, "/gesture/stop", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if pilot.running {
		t.Error("expected pilot to be stopped")
	}
}
