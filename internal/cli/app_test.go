package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dmitrijs2005/equilibri/internal/app"
	"github.com/dmitrijs2005/equilibri/internal/config"
	"github.com/dmitrijs2005/equilibri/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCore(t *testing.T, localPath string) *app.App {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.DatabaseDSN = "memory"
	cfg.LocalDBPath = localPath
	cfg.SessionSecret = "test-secret"

	core, err := app.New(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = core.Close() })
	return core
}

func runScript(t *testing.T, core Core, lines ...string) string {
	t.Helper()
	silencePrintln(t)
	stubTerminal(t, false, nil, nil)

	var out bytes.Buffer
	a := NewApp(core, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	a.Run(context.Background())
	return out.String()
}

func TestApp_FullSession(t *testing.T) {
	core := newCore(t, filepath.Join(t.TempDir(), "local.db"))

	out := runScript(t, core,
		"register", "alice", "secret123",
		"register", "alice", "other",
		"register", "", "",
		"login", "alice", "wrong",
		"login", "", "",
		"login", "alice", "secret123",
		"new",
		"hello",
		"show",
		"select abc",
		"select 999",
		"clear",
		"show",
		"delete 1",
		"list",
		"send are you there?",
		"exit",
	)

	for _, want := range []string{
		"Please log in or register.",
		"Registration successful!",
		"Registration failed!",
		"Please fill in all the fields!",
		"Error: Incorrect login or password!",
		"Error: Login and password fields cannot be empty!",
		"Welcome, alice!",
		"No chats yet.",
		`Started chat #1 "Chat 1"`,
		"[assistant]: I hear you: hello",
		"[user]: hello",
		"invalid conversation id",
		"Error: chat not found",
		"Chat cleared.",
		"(no messages yet)",
		"Chat #1 deleted.",
		"No chat selected.",
	} {
		assert.Contains(t, out, want)
	}
}

func TestApp_ResumesSavedSession(t *testing.T) {
	core := newCore(t, filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, core.Register(context.Background(), "alice", []byte("secret123")))
	_, err := core.Login(context.Background(), "alice", []byte("secret123"))
	require.NoError(t, err)
	require.NoError(t, core.Logout(context.Background()))
	_, err = core.Login(context.Background(), "alice", []byte("secret123"))
	require.NoError(t, err)

	out := runScript(t, core, "new Plans", "exit")
	assert.Contains(t, out, "Welcome back, alice!")
	assert.Contains(t, out, `Started chat #1 "Plans"`)
}

func TestApp_LogoutForgetsSession(t *testing.T) {
	core := newCore(t, filepath.Join(t.TempDir(), "local.db"))
	require.NoError(t, core.Register(context.Background(), "alice", []byte("secret123")))

	out := runScript(t, core, "login", "alice", "secret123", "logout", "list", "exit")
	assert.Contains(t, out, "Logged out.")

	_, ok := core.Restore(context.Background())
	assert.False(t, ok)
}
