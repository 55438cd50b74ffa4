package llm

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

type scriptedCaller struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (c *scriptedCaller) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	i := c.calls
	c.calls++
	c.prompts = append(c.prompts, prompt)
	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	resp := ""
	if i < len(c.responses) {
		resp = c.responses[i]
	}
	return resp, err
}

func TestExecutorReturnsFirstGoodResponse(t *testing.T) {
	c := &scriptedCaller{responses: []string{`{"overallScore": 80}`}}
	got, err := NewExecutor(c).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"overallScore": 80}` {
		t.Fatalf("unexpected response %q", got)
	}
	if c.calls != 1 {
		t.Fatalf("calls = %d, want 1", c.calls)
	}
}

func TestExecutorRetriesEmptyWithFeedback(t *testing.T) {
	c := &scriptedCaller{responses: []string{"", `{"ok": true}`}}
	got, err := NewExecutor(c).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if got != `{"ok": true}` {
		t.Fatalf("unexpected response %q", got)
	}
	if c.calls != 2 {
		t.Fatalf("calls = %d, want 2", c.calls)
	}
	if !strings.Contains(c.prompts[1], "previous response was empty") {
		t.Fatalf("second prompt missing feedback: %q", c.prompts[1])
	}
}

func TestExecutorRetriesNonJSONThenFails(t *testing.T) {
	c := &scriptedCaller{responses: []string{"not json", "still not json", "nope"}}
	_, err := NewExecutor(c).Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error for persistently non-JSON output")
	}
	if c.calls != 3 {
		t.Fatalf("calls = %d, want 3", c.calls)
	}
}

func TestExecutorAcceptsFencedJSON(t *testing.T) {
	c := &scriptedCaller{responses: []string{"```json\n{\"a\": 1}\n```"}}
	got, err := NewExecutor(c).Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `"a": 1`) {
		t.Fatalf("unexpected response %q", got)
	}
}

func TestExecutorClientErrorDoesNotRetry(t *testing.T) {
	c := &scriptedCaller{errs: []error{errors.New("status code: 400 bad request")}}
	_, err := NewExecutor(c).Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected transport error")
	}
	if c.calls != 1 {
		t.Fatalf("calls = %d, want 1 (client errors are terminal)", c.calls)
	}
}

func TestClassifyTransportErrorAvoidsBroadNumericMatch(t *testing.T) {
	if got := classifyTransportError(assertErr("failed after 5 retries while waiting 4 seconds")); got != failureServer {
		t.Fatalf("expected default server classification, got %v", got)
	}
	if got := classifyTransportError(assertErr("status code: 400 bad request")); got != failureClient {
		t.Fatalf("expected client failure classification, got %v", got)
	}
	if got := classifyTransportError(assertErr("status=500 upstream error")); got != failureServer {
		t.Fatalf("expected server failure classification, got %v", got)
	}
	if got := classifyTransportError(assertErr("429 too many requests")); got != failureRateLimit {
		t.Fatalf("expected rate-limit classification, got %v", got)
	}
}

func TestBackoffDelay(t *testing.T) {
	if backoffDelay(1).Seconds() != 1 {
		t.Fatal("attempt 1 should be 1s")
	}
	if backoffDelay(2).Seconds() != 2 {
		t.Fatal("attempt 2 should be 2s")
	}
}

func TestNewAnthropicCallerFromEnvDisabled(t *testing.T) {
	t.Setenv("SAASCAN_NO_LLM", "1")
	t.Setenv("ANTHROPIC_API_KEY", "ignored")
	if _, err := NewAnthropicCallerFromEnv(); err == nil {
		t.Fatal("expected error when SAASCAN_NO_LLM is enabled")
	}
}

func TestNewAnthropicCallerFromEnvMissingKey(t *testing.T) {
	_ = os.Unsetenv("SAASCAN_NO_LLM")
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := NewAnthropicCallerFromEnv(); err == nil {
		t.Fatal("expected error without api key")
	}
}

func TestEnvEnabled(t *testing.T) {
	for _, tc := range []struct {
		value string
		want  bool
	}{
		{value: "", want: false},
		{value: "0", want: false},
		{value: "false", want: false},
		{value: "1", want: true},
		{value: "TRUE", want: true},
		{value: "yes", want: true},
		{value: "on", want: true},
	} {
		if tc.value == "" {
			_ = os.Unsetenv("X_FLAG")
		} else {
			t.Setenv("X_FLAG", tc.value)
		}
		if got := envEnabled("X_FLAG"); got != tc.want {
			t.Fatalf("envEnabled(%q) got %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestPromptSubstitution(t *testing.T) {
	p := HorizontalPrompt("an idea about dental scheduling")
	if !strings.Contains(p, "an idea about dental scheduling") {
		t.Fatal("idea not substituted into prompt")
	}
	if strings.Contains(p, conceptMarker) {
		t.Fatal("marker left in prompt")
	}
	p = LegacyPrompt("another idea")
	if !strings.Contains(p, "another idea") || strings.Contains(p, conceptMarker) {
		t.Fatal("legacy prompt substitution failed")
	}
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
