package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/giygas/bulario-chat/config"
)

// setupEnv points logs at a temp dir and sets the given variables
func setupEnv(t *testing.T, vars map[string]string) {
	t.Helper()

	for _, key := range config.GetEnvVars() {
		t.Setenv(key, "")
	}
	t.Setenv("ENV", "test")
	t.Setenv("LOG_DIR", t.TempDir())
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func runCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestAskEchoMode(t *testing.T) {
	setupEnv(t, nil)

	out, _, err := runCommand(t, "ask", "--mode", "echo", "oi")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if out != "Oi! Como posso ajudar você hoje?\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestAskJoinsArguments(t *testing.T) {
	setupEnv(t, map[string]string{"CHAT_MODE": "echo"})

	out, _, err := runCommand(t, "ask", "que", "legal")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if !strings.Contains(out, "Você disse: 'que legal'") {
		t.Errorf("expected the whole message echoed, got %q", out)
	}
}

func TestMissingAPIKeyRefusesToStart(t *testing.T) {
	for _, args := range [][]string{
		{"ask", "oi"},
		{"serve"},
		{"--mode", "simple"},
	} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			setupEnv(t, nil)

			_, stderr, err := runCommand(t, args...)
			if !errors.Is(err, config.ErrMissingAPIKey) {
				t.Fatalf("expected ErrMissingAPIKey, got %v", err)
			}
			if !strings.Contains(stderr, config.APIKeySetupInstructions) {
				t.Errorf("expected setup instructions on stderr, got %q", stderr)
			}
		})
	}
}

func TestInvalidModeFlag(t *testing.T) {
	setupEnv(t, nil)

	if _, _, err := runCommand(t, "ask", "--mode", "chainlit", "oi"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestLookupCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"query":"xarope","total":0,"results":[]}`))
	}))
	defer srv.Close()

	setupEnv(t, map[string]string{"BULA_API_URL": srv.URL})

	out, _, err := runCommand(t, "lookup", "xarope")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if !strings.Contains(out, "**Medicamento 'xarope' não encontrado**") {
		t.Errorf("expected not-found text, got %q", out)
	}
}

func TestLookupCommandUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	setupEnv(t, map[string]string{"BULA_API_URL": url})

	out, _, err := runCommand(t, "lookup", "dipirona")
	if err == nil {
		t.Error("expected error when the bula API is down")
	}
	if !strings.Contains(out, "Erro de Conexão") {
		t.Errorf("expected connection error text, got %q", out)
	}
}

func TestNewTurnHandler(t *testing.T) {
	tests := []struct {
		mode config.ChatMode
		key  string
		want string
	}{
		{config.ModeEcho, "", "echo"},
		{config.ModeSimple, "sk-test", "simple"},
		{config.ModeBulario, "sk-test", "bulario"},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			cfg := &config.Config{
				ChatMode:     tt.mode,
				OpenAIAPIKey: tt.key,
				OpenAIModel:  "gpt-4o-mini",
				BulaAPIURL:   "http://localhost:3001",
			}

			h, err := newTurnHandler(cfg, newLookupClient(cfg))
			if err != nil {
				t.Fatalf("newTurnHandler failed: %v", err)
			}
			if h.Name() != tt.want {
				t.Errorf("expected %s handler, got %s", tt.want, h.Name())
			}
		})
	}
}

func TestWriterSink(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	sink := &writerSink{out: &out}

	_ = sink.Created(ctx, "id")
	_ = sink.Append(ctx, "Olá")
	_ = sink.Append(ctx, ", mundo")
	_ = sink.Fail(ctx, "Desculpe, ocorreu um erro")

	if out.String() != "Olá, mundo\nDesculpe, ocorreu um erro\n" {
		t.Errorf("unexpected output %q", out.String())
	}
	if !sink.failed {
		t.Error("expected sink to record the failure")
	}
}
