package command

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"golang.org/x/crypto/ssh"

	"github.com/pburglin/adventure2/internal/game"
	"github.com/pburglin/adventure2/internal/storage"
)

const assetsDir = "../../../assets"

func validConfig() *Config {
	chance := 0.25
	return &Config{
		TickInterval: "16ms",
		Listeners:    []ListenerConfig{{Protocol: ListenerTypeTelnet, Port: 4000}},
		Storage: StorageConfig{
			Rooms: AssetConfig[*game.Room]{Path: assetsDir + "/rooms"},
			Items: AssetConfig[*game.ItemDef]{Path: assetsDir + "/items"},
		},
		Game: GameConfig{
			StartRoom:       "gold-castle-entrance",
			DeathPolicy:     "reset",
			BirdSpawnChance: &chance,
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Config)
		expErr string
	}{
		"valid": {
			mutate: func(*Config) {},
		},
		"default tick": {
			mutate: func(c *Config) { c.TickInterval = "" },
		},
		"bad tick": {
			mutate: func(c *Config) { c.TickInterval = "soon" },
			expErr: "parsing tick_interval",
		},
		"slow tick": {
			mutate: func(c *Config) { c.TickInterval = "2s" },
			expErr: "tick_interval must be between 1ms and 1s",
		},
		"no listeners": {
			mutate: func(c *Config) { c.Listeners = nil },
			expErr: "at least one listener is required",
		},
		"listener without port": {
			mutate: func(c *Config) { c.Listeners[0].Port = 0 },
			expErr: "listener 0: port must be set",
		},
		"host key on telnet": {
			mutate: func(c *Config) { c.Listeners[0].HostKeyPath = "key" },
			expErr: "host_key_path only applies to ssh listeners",
		},
		"listener host name": {
			mutate: func(c *Config) { c.Listeners[0].Host = "castle.example" },
			expErr: `host "castle.example" must be an IP address or localhost`,
		},
		"loopback listener": {
			mutate: func(c *Config) { c.Listeners[0].Host = "127.0.0.1" },
		},
		"negative max players": {
			mutate: func(c *Config) { c.MaxPlayers = -1 },
			expErr: "max_players must not be negative",
		},
		"missing rooms path": {
			mutate: func(c *Config) { c.Storage.Rooms.Path = "" },
			expErr: "rooms: path is required",
		},
		"missing items dir": {
			mutate: func(c *Config) { c.Storage.Items.Path = "/does/not/exist" },
			expErr: `items: invalid path "/does/not/exist"`,
		},
		"bad nats timeout": {
			mutate: func(c *Config) { c.Nats.StartTimeout = "later" },
			expErr: "parsing start_timeout",
		},
		"nats port without listen": {
			mutate: func(c *Config) { c.Nats.Port = 4222 },
			expErr: "nats host and port require listen",
		},
		"nats listening": {
			mutate: func(c *Config) { c.Nats = NatsConfig{Listen: true, Port: -1} },
		},
		"no start room": {
			mutate: func(c *Config) { c.Game.StartRoom = "" },
			expErr: "start_room is required",
		},
		"unknown death policy": {
			mutate: func(c *Config) { c.Game.DeathPolicy = "haunt" },
			expErr: "death_policy: unknown death policy",
		},
		"bird chance out of range": {
			mutate: func(c *Config) { *c.Game.BirdSpawnChance = 2 },
			expErr: "bird_spawn_chance must be between 0 and 1",
		},
		"two run logs": {
			mutate: func(c *Config) { c.RunLog = RunLogConfig{Path: "runs", RedisURL: "redis://localhost:6379"} },
			expErr: "set path or redis_url, not both",
		},
		"non redis url": {
			mutate: func(c *Config) { c.RunLog.RedisURL = "http://localhost" },
			expErr: "redis_url scheme must be redis or rediss",
		},
		"bad log level": {
			mutate: func(c *Config) { c.Log.Level = "loud" },
			expErr: "parsing log level",
		},
		"bad log format": {
			mutate: func(c *Config) { c.Log.Format = "xml" },
			expErr: `log format must be text or json, got "xml"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_UnmarshalJSON(t *testing.T) {
	raw := `{
		"tick_interval": "20ms",
		"listeners": [{"protocol": "ssh", "port": 4022}],
		"game": {"start_room": "main-hall", "keep_defeated_on_death": true, "seed": 7},
		"runlog": {"redis_url": "redis://localhost:6379/0"},
		"log": {"level": "debug", "format": "json"}
	}`

	var c Config
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "tick", c.tickInterval(), 20*time.Millisecond)
	testutil.AssertEqual(t, "protocol", c.Listeners[0].Protocol, ListenerTypeSSH)
	testutil.AssertEqual(t, "seed", c.Game.Seed, uint64(7))
	testutil.AssertEqual(t, "redis", c.RunLog.RedisURL, "redis://localhost:6379/0")

	err := json.Unmarshal([]byte(`{"listeners": [{"protocol": "gopher"}]}`), &c)
	testutil.AssertErrorContains(t, err, "unknown listener type: gopher")
}

func TestGameConfig_Policy(t *testing.T) {
	chance := 0.5
	tests := map[string]struct {
		cfg       GameConfig
		expDeath  game.DeathPolicy
		expKeep   bool
		expChance float64
	}{
		"defaults": {
			cfg:       GameConfig{StartRoom: "x"},
			expDeath:  game.DeathFreeze,
			expChance: game.BirdSpawnChance,
		},
		"overrides": {
			cfg:       GameConfig{StartRoom: "x", DeathPolicy: "Reset", KeepDefeatedOnDeath: true, BirdSpawnChance: &chance},
			expDeath:  game.DeathReset,
			expKeep:   true,
			expChance: 0.5,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			p, err := tt.cfg.policy()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			testutil.AssertEqual(t, "death", p.Death, tt.expDeath)
			testutil.AssertEqual(t, "keep", p.KeepDefeatedOnDeath, tt.expKeep)
			testutil.AssertEqual(t, "chance", p.BirdSpawnChance, tt.expChance)
		})
	}
}

func TestStorageConfig_BuildWorld(t *testing.T) {
	c := validConfig()

	w, err := c.Storage.buildWorld(c.Game.startRoom())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "rooms", len(w.RoomIds()), 6)
	testutil.AssertEqual(t, "items", len(w.ItemIds()), 6)
	testutil.AssertEqual(t, "start", w.StartRoom(), storage.Identifier("gold-castle-entrance"))
	testutil.AssertEqual(t, "spear room", w.SpearSpawn().Room, storage.Identifier("west-wing"))
	testutil.AssertEqual(t, "elite", w.Item("dragon_rhindle").Elite, true)
	testutil.AssertEqual(t, "locked", w.Room("main-hall").Connections.North.Locked(), true)

	_, err = c.Storage.buildWorld("attic")
	testutil.AssertErrorContains(t, err, `start room "attic"`)
}

func TestLogConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	c := LogConfig{Level: "warn", Format: "json"}
	l := c.newLogger(&buf)

	l.Info("hidden")
	l.Warn("shown", "room", "main-hall")

	out := strings.TrimSpace(buf.String())
	testutil.AssertEqual(t, "lines", strings.Count(out, "\n"), 0)

	var rec map[string]any
	if err := json.Unmarshal([]byte(out), &rec); err != nil {
		t.Fatalf("expected json log line, got %q", out)
	}
	testutil.AssertEqual(t, "msg", rec["msg"], any("shown"))
	testutil.AssertEqual(t, "room", rec["room"], any("main-hall"))

	lvl, err := (&LogConfig{}).level()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "default level", lvl, slog.LevelInfo)
}

type blockingWorker struct {
	started chan struct{}
}

func (w *blockingWorker) Start(ctx context.Context) error {
	close(w.started)
	<-ctx.Done()
	return nil
}

func TestAfterReady(t *testing.T) {
	ready := make(chan struct{})
	w := &blockingWorker{started: make(chan struct{})}
	a := &afterReady{ready: ready, w: w}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Start(ctx) }()

	select {
	case <-w.started:
		t.Fatal("worker started before ready")
	case <-time.After(20 * time.Millisecond):
	}

	close(ready)
	select {
	case <-w.started:
	case <-time.After(2 * time.Second):
		t.Fatal("worker never started")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAfterReady_Cancelled(t *testing.T) {
	a := &afterReady{ready: make(chan struct{}), w: &blockingWorker{started: make(chan struct{})}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := a.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLocalConfig_Validate(t *testing.T) {
	tests := map[string]struct {
		mutate func(*LocalConfig)
		expErr string
	}{
		"valid": {
			mutate: func(*LocalConfig) {},
		},
		"fast tick": {
			mutate: func(c *LocalConfig) { c.TickInterval = "10us" },
			expErr: "tick_interval must be between",
		},
		"missing assets": {
			mutate: func(c *LocalConfig) { c.Storage = StorageConfig{} },
			expErr: "rooms: path is required",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			base := validConfig()
			c := &LocalConfig{TickInterval: "16ms", Storage: base.Storage, Game: base.Game}
			tt.mutate(c)

			err := c.Validate()
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestListenerConfig_Addr(t *testing.T) {
	tests := map[string]struct {
		cfg ListenerConfig
		exp string
	}{
		"all interfaces": {cfg: ListenerConfig{Port: 4000}, exp: ":4000"},
		"ipv4":           {cfg: ListenerConfig{Host: "127.0.0.1", Port: 4000}, exp: "127.0.0.1:4000"},
		"ipv6":           {cfg: ListenerConfig{Host: "::1", Port: 4022}, exp: "[::1]:4022"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, "addr", tt.cfg.addr(), tt.exp)
		})
	}
}

func TestListenerConfig_HostKeyPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys", "host_ed25519")
	cl := &ListenerConfig{Protocol: ListenerTypeSSH, Port: 4022, HostKeyPath: path}

	first, err := cl.hostKey()
	if err != nil {
		t.Fatalf("generating: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("key not written: %v", err)
	}
	testutil.AssertEqual(t, "mode", info.Mode().Perm(), os.FileMode(0o600))

	second, err := cl.hostKey()
	if err != nil {
		t.Fatalf("reloading: %v", err)
	}
	testutil.AssertEqual(t, "same key", ssh.FingerprintSHA256(second.PublicKey()), ssh.FingerprintSHA256(first.PublicKey()))
}

func TestListenerConfig_HostKeyCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "host_ed25519")
	if err := os.WriteFile(path, []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}
	cl := &ListenerConfig{Protocol: ListenerTypeSSH, Port: 4022, HostKeyPath: path}

	_, err := cl.hostKey()
	testutil.AssertErrorContains(t, err, "parsing host key")
}
