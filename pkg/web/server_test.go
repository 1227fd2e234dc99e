package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/botforge/go-botforge/pkg/botforge"
	"github.com/botforge/go-botforge/pkg/geom"
	"github.com/botforge/go-botforge/pkg/sensory"
	"github.com/botforge/go-botforge/pkg/sound"
	"github.com/botforge/go-botforge/pkg/world"
)

type fakeHost struct {
	mu       sync.Mutex
	controls map[string]bool
	attacks  []uuid.UUID
	looks    [][2]float64
	chat     []string
}

func (h *fakeHost) SetControlState(control string, state bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.controls[control] = state
}

func (h *fakeHost) Attack(target uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.attacks = append(h.attacks, target)
	return nil
}

func (h *fakeHost) Look(yaw, pitch float64) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.looks = append(h.looks, [2]float64{yaw, pitch})
	return nil
}

func (h *fakeHost) Chat(message string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.chat = append(h.chat, message)
	return nil
}

var enemyID = uuid.MustParse("00000000-0000-0000-0000-0000000000e1")

func newTestServer(t *testing.T) (*Server, *fakeHost) {
	t.Helper()
	host := &fakeHost{controls: make(map[string]bool)}
	bot := botforge.New(botforge.DefaultConfig(), host, botforge.WithSoundOptions(sound.WithSeed(1)))
	bot.Tick(world.Snapshot{
		Self: world.Pose{Name: "bot", Height: 1.62, HeldItem: &world.Item{Name: "iron_sword"}},
		Players: []world.Player{
			{ID: enemyID, Name: "enemy", Position: geom.V(0, 0, -2)},
		},
	})
	return NewServer(DefaultConfig(), bot), host
}

func do(t *testing.T, s *Server, method, target, body string) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Port != "8090" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.BroadcastInterval != 250*time.Millisecond {
		t.Errorf("BroadcastInterval = %v", cfg.BroadcastInterval)
	}
}

func TestServer_Players(t *testing.T) {
	s, _ := newTestServer(t)

	code, body := do(t, s, http.MethodGet, "/api/players", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var players []map[string]any
	if err := json.Unmarshal(body, &players); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(players) != 1 || players[0]["name"] != "enemy" || players[0]["visibility"] != "DirectSight" {
		t.Errorf("players = %v", players)
	}
}

func TestServer_GetPlayer(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		id   string
		want int
	}{
		{"tracked", enemyID.String(), http.StatusOK},
		{"unknown", uuid.NewString(), http.StatusNotFound},
		{"malformed", "not-a-uuid", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _ := do(t, s, http.MethodGet, "/api/players/"+tt.id, ""); code != tt.want {
				t.Errorf("status = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestServer_Nearest(t *testing.T) {
	s, _ := newTestServer(t)

	code, body := do(t, s, http.MethodGet, "/api/nearest", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var p map[string]any
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p["id"] != enemyID.String() || p["health"] != sensory.HealthUnknown.String() {
		t.Errorf("nearest = %v", p)
	}

	empty := NewServer(DefaultConfig(), botforge.New(botforge.DefaultConfig(), nil))
	if code, _ := do(t, empty, http.MethodGet, "/api/nearest", ""); code != http.StatusNotFound {
		t.Errorf("no players: status = %d", code)
	}
}

func TestServer_Sounds(t *testing.T) {
	host := &fakeHost{controls: make(map[string]bool)}
	bot := botforge.New(botforge.DefaultConfig(), host)
	bot.HearSound(sound.RawSound{ID: 1, CategoryIndex: 6, Name: "entity.player.hurt"})
	bot.HearSound(sound.RawSound{ID: 2, CategoryIndex: 4, Name: "block.stone.break"})
	s := NewServer(DefaultConfig(), bot)

	tests := []struct {
		target string
		want   int
	}{
		{"/api/sounds", 2},
		{"/api/sounds?category=player", 1},
		{"/api/sounds?category=music", 0},
	}
	for _, tt := range tests {
		code, body := do(t, s, http.MethodGet, tt.target, "")
		if code != http.StatusOK {
			t.Fatalf("%s: status = %d", tt.target, code)
		}
		var events []map[string]any
		if err := json.Unmarshal(body, &events); err != nil {
			t.Fatalf("%s: decode: %v", tt.target, err)
		}
		if len(events) != tt.want {
			t.Errorf("%s: %d events, want %d", tt.target, len(events), tt.want)
		}
	}
}

func TestServer_StatusAndCombat(t *testing.T) {
	s, _ := newTestServer(t)

	code, body := do(t, s, http.MethodGet, "/api/status", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var st botforge.Status
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Ticks != 1 || st.TrackedPlayers != 1 {
		t.Errorf("status = %+v", st)
	}

	code, body = do(t, s, http.MethodGet, "/api/combat", "")
	if code != http.StatusOK {
		t.Fatalf("combat status = %d", code)
	}
	var cs botforge.CombatStatus
	if err := json.Unmarshal(body, &cs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cs.HeldItem != "iron_sword" || !cs.Charged {
		t.Errorf("combat = %+v", cs)
	}
}

func TestServer_Attack(t *testing.T) {
	s, host := newTestServer(t)

	code, body := do(t, s, http.MethodPost, "/api/attack/"+enemyID.String(), "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	var resp struct {
		Dispatched bool `json:"dispatched"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Dispatched || len(host.attacks) != 1 {
		t.Errorf("dispatched = %v, host attacks = %d", resp.Dispatched, len(host.attacks))
	}

	if code, _ := do(t, s, http.MethodPost, "/api/attack/nope", ""); code != http.StatusBadRequest {
		t.Errorf("malformed id: status = %d", code)
	}
}

func TestServer_Controls(t *testing.T) {
	tests := []struct {
		name    string
		control string
		body    string
		want    int
		pressed string
	}{
		{"forward", "forward", `{"duration_ms":500}`, http.StatusOK, "forward"},
		{"jump", "jump", `{"duration_ms":100}`, http.StatusOK, "jump"},
		{"unknown control", "fly", `{"duration_ms":100}`, http.StatusBadRequest, ""},
		{"zero duration", "left", `{"duration_ms":0}`, http.StatusBadRequest, ""},
		{"bad body", "right", `{`, http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, host := newTestServer(t)
			if code, _ := do(t, s, http.MethodPost, "/api/controls/"+tt.control, tt.body); code != tt.want {
				t.Fatalf("status = %d, want %d", code, tt.want)
			}
			if tt.pressed != "" && !host.controls[tt.pressed] {
				t.Errorf("%s not pressed", tt.pressed)
			}
		})
	}
}

func TestServer_Look(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"yaw and pitch", `{"yaw":1.5,"pitch":-0.2}`, http.StatusOK},
		{"zero is a direction", `{"yaw":0,"pitch":0}`, http.StatusOK},
		{"missing pitch", `{"yaw":1.5}`, http.StatusBadRequest},
		{"bad body", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, host := newTestServer(t)
			if code, _ := do(t, s, http.MethodPost, "/api/look", tt.body); code != tt.want {
				t.Fatalf("status = %d, want %d", code, tt.want)
			}
			if sent := len(host.looks) == 1; sent != (tt.want == http.StatusOK) {
				t.Errorf("host looks = %v", host.looks)
			}
		})
	}
}

func TestServer_LookAtPlayer(t *testing.T) {
	s, host := newTestServer(t)

	code, _ := do(t, s, http.MethodPost, "/api/look/"+enemyID.String(), "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(host.looks) != 1 || host.looks[0][0] != 0 || host.looks[0][1] <= 0 {
		t.Errorf("host looks = %v, want straight ahead and slightly down", host.looks)
	}
	if code, _ := do(t, s, http.MethodPost, "/api/look/"+uuid.NewString(), ""); code != http.StatusNotFound {
		t.Errorf("unknown player: status = %d", code)
	}
	if code, _ := do(t, s, http.MethodPost, "/api/look/nope", ""); code != http.StatusBadRequest {
		t.Errorf("malformed id: status = %d", code)
	}
}

func TestServer_Chat(t *testing.T) {
	s, host := newTestServer(t)

	if code, _ := do(t, s, http.MethodPost, "/api/chat", `{"message":"gg"}`); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if len(host.chat) != 1 || host.chat[0] != "gg" {
		t.Errorf("host chat = %q", host.chat)
	}
	if code, _ := do(t, s, http.MethodPost, "/api/chat", `{"message":"  "}`); code != http.StatusBadRequest {
		t.Errorf("blank message: status = %d", code)
	}
}

func TestServer_Health(t *testing.T) {
	s, _ := newTestServer(t)
	code, body := do(t, s, http.MethodGet, "/health", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestServer_WebSocketRequiresUpgrade(t *testing.T) {
	s, _ := newTestServer(t)
	if code, _ := do(t, s, http.MethodGet, "/ws/state", ""); code != http.StatusUpgradeRequired {
		t.Errorf("status = %d, want %d", code, http.StatusUpgradeRequired)
	}
}
