package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"careerdash/internal/commands"
	"careerdash/internal/config"
	"careerdash/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func writeConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cmd := &commands.LoginCmd{}
	cfg := &config.Config{Dir: t.TempDir()}

	var outBuf, errBuf bytes.Buffer
	code := cmd.Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	if !strings.HasPrefix(errBuf.String(), "error: oauth_client.json not found in ") {
		t.Errorf("unexpected stderr %q", errBuf.String())
	}
	if !strings.Contains(errBuf.String(), "Then run 'careerdash login' again.") {
		t.Error("expected setup instructions to mention careerdash login")
	}
}

// Login must not report "already logged in" for a token it cannot use.
func TestLoginCommand_UnusableToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"no refresh token", `{"access_token":"expired","token_type":"Bearer"}`},
		{"expired without refresh", `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`},
		{"corrupt", `{not json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfigFile(t, dir, config.OAuthClientFile, testOAuthClient)
			writeConfigFile(t, dir, config.TokenFile, tt.token)

			// Cancelled up front so the command does not wait for a callback.
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			var outBuf, errBuf bytes.Buffer
			code := (&commands.LoginCmd{}).Run(ctx, &config.Config{Dir: dir}, nil, nil, &outBuf, &errBuf)

			if outBuf.String() == "already logged in\n" {
				t.Error("should not say 'already logged in'")
			}
			if code != exitcode.AuthError {
				t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
			}
		})
	}
}

func TestLogoutCommand_OnlyRemovesToken(t *testing.T) {
	dir := t.TempDir()
	oauthPath := writeConfigFile(t, dir, config.OAuthClientFile, `{"installed":{"client_id":"test","client_secret":"test"}}`)
	tokenPath := writeConfigFile(t, dir, config.TokenFile, `{"access_token":"test","refresh_token":"test"}`)
	settingsPath := writeConfigFile(t, dir, config.SettingsFile, "backend: googletasks\n")

	var outBuf, errBuf bytes.Buffer
	code := (&commands.LogoutCmd{}).Run(context.Background(), &config.Config{Dir: dir}, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}

	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Error("token.json should have been deleted")
	}
	for _, path := range []string{oauthPath, settingsPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s should NOT have been deleted", filepath.Base(path))
		}
	}
}

func TestLogoutCommand_NotLoggedIn(t *testing.T) {
	tests := []struct {
		name     string
		quiet    bool
		expected string
	}{
		{"normal", false, "not logged in\n"},
		{"quiet", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{Dir: t.TempDir(), Quiet: tt.quiet}

			var outBuf, errBuf bytes.Buffer
			code := (&commands.LogoutCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if errBuf.String() != "" {
				t.Errorf("expected no stderr, got %q", errBuf.String())
			}
			if outBuf.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, outBuf.String())
			}
		})
	}
}
