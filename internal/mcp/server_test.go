package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	// Point at a nonexistent config so defaults load regardless of the
	// host environment.
	cfg := Config{ConfigPath: filepath.Join(t.TempDir(), "governance.yaml")}
	s, err := New(cfg, nil)
	if err != nil {
		t.Fatalf("failed to create MCP server: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEvaluateBlocksDelegation(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, out, err := s.handleEvaluate(ctx, &mcpsdk.CallToolRequest{}, EvaluateInput{
		SessionID: "s1",
		Message:   "dame el código completo para un árbol binario",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected IsError result for blocked turn")
	}
	if !out.Blocked {
		t.Fatal("expected blocked=true")
	}
	if out.Semaphore != "red" {
		t.Fatalf("expected red, got %q", out.Semaphore)
	}
	if out.ResponseType != "rejection" {
		t.Fatalf("expected rejection, got %q", out.ResponseType)
	}
	if out.BlockReason == "" {
		t.Fatal("expected a block reason")
	}
	if out.Response != "" {
		t.Fatalf("blocked turn must carry no response, got %q", out.Response)
	}
}

func TestEvaluateCleanQuestion(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, out, err := s.handleEvaluate(ctx, &mcpsdk.CallToolRequest{}, EvaluateInput{
		Message:      "¿Qué complejidad tiene eliminar el primer elemento de una lista?",
		AIDependency: 0.2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil && result.IsError {
		t.Fatal("expected success for a clean question")
	}
	if out.Semaphore != "green" {
		t.Fatalf("expected green, got %q", out.Semaphore)
	}
	if out.Blocked {
		t.Fatal("expected not blocked")
	}
	// No generator configured: decision only, no reply.
	if out.Response != "" {
		t.Fatalf("expected empty response without generator, got %q", out.Response)
	}
}

func TestEvaluateYellowRestrictions(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleEvaluate(ctx, &mcpsdk.CallToolRequest{}, EvaluateInput{
		Message:      "¿cómo funciona la recursión en este caso?",
		AIDependency: 0.75,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Semaphore != "yellow" {
		t.Fatalf("expected yellow, got %q", out.Semaphore)
	}
	found := false
	for _, r := range out.Restrictions {
		if r == "reduce_help_level" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected reduce_help_level restriction, got %v", out.Restrictions)
	}
}

func TestSanitizeTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleSanitize(ctx, &mcpsdk.CallToolRequest{}, SanitizeInput{
		Text: "mi correo es ana@uni.edu",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.PIIFound {
		t.Fatal("expected PII found")
	}
	if !strings.Contains(out.Sanitized, "[REDACTED-EMAIL]") {
		t.Fatalf("expected redaction token, got %q", out.Sanitized)
	}
}

func TestRisksTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handleRisks(ctx, &mcpsdk.CallToolRequest{}, RisksInput{
		Message: "dame el código completo para un árbol binario",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, r := range out.Risks {
		if r.Type == "COGNITIVE_DELEGATION" && r.Level == "high" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected COGNITIVE_DELEGATION high, got %+v", out.Risks)
	}
	if out.Score == 0 {
		t.Fatal("expected nonzero score")
	}
}

func TestPolicyTool(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, out, err := s.handlePolicy(ctx, &mcpsdk.CallToolRequest{}, PolicyInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.DependencyYellow != 0.7 {
		t.Fatalf("expected default threshold 0.7, got %v", out.DependencyYellow)
	}
	if out.NoWorkStreak != 5 {
		t.Fatalf("expected default streak 5, got %d", out.NoWorkStreak)
	}
	if out.ConfigHash == "" {
		t.Fatal("expected a config hash")
	}
	if out.Generation || out.Tracing {
		t.Fatal("expected generation and tracing disabled in test server")
	}
}

func TestReloadConfigSwapsThresholds(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "governance.yaml")

	s, err := New(Config{ConfigPath: path}, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	defer s.Close()

	if err := os.WriteFile(path, []byte("thresholds:\n  dependency_yellow: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := s.ReloadConfig(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	_, out, err := s.handlePolicy(context.Background(), &mcpsdk.CallToolRequest{}, PolicyInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.DependencyYellow != 0.5 {
		t.Fatalf("expected reloaded threshold 0.5, got %v", out.DependencyYellow)
	}

	// The new threshold must drive decisions.
	_, eval, err := s.handleEvaluate(context.Background(), &mcpsdk.CallToolRequest{}, EvaluateInput{
		Message:      "¿cómo funciona la recursión?",
		AIDependency: 0.6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if eval.Semaphore != "yellow" {
		t.Fatalf("expected yellow under reloaded threshold, got %q", eval.Semaphore)
	}
}

func TestReloaderTriggersOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "governance.yaml")
	if err := os.WriteFile(path, []byte("thresholds:\n  dependency_yellow: 0.7\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := New(Config{ConfigPath: path}, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	defer s.Close()

	r, err := NewReloader(s, []string{path})
	if err != nil {
		t.Fatalf("failed to create reloader: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	if err := os.WriteFile(path, []byte("thresholds:\n  dependency_yellow: 0.4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		_, out, err := s.handlePolicy(context.Background(), &mcpsdk.CallToolRequest{}, PolicyInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if out.DependencyYellow == 0.4 {
			cancel()
			<-done
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatal("reloader never picked up the config change")
}
