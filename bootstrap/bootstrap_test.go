package bootstrap

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/shhhinnovations/cryptokit/component"
	"github.com/shhhinnovations/cryptokit/config"
	"github.com/shhhinnovations/cryptokit/encryption"
	"github.com/shhhinnovations/cryptokit/logger"
)

type mockComponent struct {
	name     string
	startErr error
	started  bool
	stopped  bool
}

func (m *mockComponent) Name() string { return m.name }
func (m *mockComponent) Start(context.Context) error {
	m.started = true
	return m.startErr
}
func (m *mockComponent) Stop(context.Context) error {
	m.stopped = true
	return nil
}
func (m *mockComponent) Health(context.Context) component.Health {
	return component.Health{Name: m.name, Status: component.StatusHealthy}
}

func rijndaelConfig() *config.Config {
	return &config.Config{
		ServiceConfig: config.ServiceConfig{Name: "cryptokit-test", Version: "1.0.0"},
		Encryption: encryption.Config{
			Algorithm:  encryption.AlgorithmRijndael,
			PassPhrase: "passPhrase",
			InitVector: "1234567890123456",
		},
		HMAC: config.HMACConfig{Key: "secret"},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	app, err := NewApp(context.Background(), cfg,
		WithLogger(logger.Nop()),
		WithRegistry(encryption.NewRegistry(nil)),
		WithGracefulTimeout(2*time.Second),
	)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return app
}

func TestNewApp_Rijndael(t *testing.T) {
	app := newTestApp(t, rijndaelConfig())

	if app.Name != "cryptokit-test" || app.Version != "1.0.0" {
		t.Errorf("name/version = %q/%q", app.Name, app.Version)
	}
	if got := encryption.Name(app.Crypto); got != "rijndael" {
		t.Errorf("algorithm = %s", got)
	}
	ct, err := app.Crypto.Encrypt("my-salt", "This is my string")
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if ct != "Y73wEClZpRPyki1H6akbtxQ7q87SZZG3HwVjWY9UDqg=" {
		t.Errorf("ciphertext = %s", ct)
	}
	if app.Tokens == nil {
		t.Error("expected token service with HMAC key set")
	}
	if app.Server != nil {
		t.Error("server built while disabled")
	}
	if app.Components.Get("cryptographer") == nil {
		t.Error("cryptographer component not registered")
	}
}

func TestNewApp_PassthroughWithoutKey(t *testing.T) {
	app := newTestApp(t, &config.Config{})

	if got := encryption.Name(app.Crypto); got != "passthrough" {
		t.Errorf("algorithm = %s", got)
	}
	if app.Tokens != nil {
		t.Error("token service built without a key")
	}
	if app.Cfg.Name != config.DefaultServiceName {
		t.Errorf("defaults not applied: name = %q", app.Cfg.Name)
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	cfg := rijndaelConfig()
	cfg.Encryption.InitVector = "short"

	_, err := NewApp(context.Background(), cfg, WithLogger(logger.Nop()), WithRegistry(encryption.NewRegistry(nil)))
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestRunTask_Lifecycle(t *testing.T) {
	app := newTestApp(t, rijndaelConfig())
	extra := &mockComponent{name: "extra"}
	if err := app.RegisterComponent(extra); err != nil {
		t.Fatalf("RegisterComponent: %v", err)
	}

	var order []string
	app.OnStart(func(context.Context) error { order = append(order, "start"); return nil })
	app.OnReady(func(context.Context) error { order = append(order, "ready"); return nil })
	app.OnStop(func(context.Context) error { order = append(order, "stop"); return nil })

	err := app.RunTask(context.Background(), func(ctx context.Context) error {
		order = append(order, "task")
		if !extra.started {
			t.Error("component not started before task")
		}
		return app.ReadyCheck(ctx)
	})
	if err != nil {
		t.Fatalf("RunTask: %v", err)
	}

	want := []string{"start", "ready", "task", "stop"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("order = %v, want %v", order, want)
			break
		}
	}
	if !extra.stopped {
		t.Error("component not stopped")
	}
}

func TestRunTask_Errors(t *testing.T) {
	taskErr := errors.New("task failed")

	t.Run("task error returned", func(t *testing.T) {
		app := newTestApp(t, rijndaelConfig())
		err := app.RunTask(context.Background(), func(context.Context) error { return taskErr })
		if !errors.Is(err, taskErr) {
			t.Errorf("err = %v", err)
		}
	})

	t.Run("start hook failure skips task", func(t *testing.T) {
		app := newTestApp(t, rijndaelConfig())
		app.OnStart(func(context.Context) error { return errors.New("hook") })
		ran := false
		err := app.RunTask(context.Background(), func(context.Context) error { ran = true; return nil })
		if err == nil || ran {
			t.Errorf("err = %v, ran = %v", err, ran)
		}
	})

	t.Run("component start failure", func(t *testing.T) {
		app := newTestApp(t, rijndaelConfig())
		_ = app.RegisterComponent(&mockComponent{name: "broken", startErr: errors.New("boom")})
		err := app.RunTask(context.Background(), func(context.Context) error { return nil })
		if err == nil {
			t.Error("expected start error")
		}
	})
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRun_ServesHTTP(t *testing.T) {
	cfg := rijndaelConfig()
	cfg.Server.Enabled = true
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = freePort(t)
	app := newTestApp(t, cfg)
	if app.Server == nil {
		t.Fatal("server not built")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var status int
	app.OnReady(func(context.Context) error {
		defer cancel()
		resp, err := http.Get("http://" + app.Server.Addr() + "/health")
		if err != nil {
			return err
		}
		resp.Body.Close()
		status = resp.StatusCode
		return nil
	})

	if err := app.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("health status = %d", status)
	}
}
