package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/sqlguard/internal/ui"
)

const testPolicy = `
ranking: [manager, viewer]
roles:
  manager:
    - combinator: OR
      conditions:
        - field: department
          value: currentUser.department
        - field: priority
          value: high
          exposed: true
  viewer:
    - conditions:
        - field: published
          value: true
`

func setup(t *testing.T) (dir string, out *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rls.yaml"), []byte(testPolicy), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sqlguard.yaml"), []byte(`
config_version: "1"
dialect: postgres
tenancy:
  strategy: column
policy:
  file: `+filepath.Join(dir, "rls.yaml")+`
`), 0o644))

	out = &bytes.Buffer{}
	prev := ui.Out
	ui.Out = out
	t.Cleanup(func() { ui.Out = prev })
	return dir, out
}

func run(args ...string) error {
	root := NewRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func TestCompileSelect(t *testing.T) {
	dir, out := setup(t)

	err := run("compile", "select", "--config", filepath.Join(dir, "sqlguard.yaml"),
		"--table", "tickets", "--where", `status = "open"`, "--tenant", "acme",
		"--role", "viewer", "--role", "manager", "--department", "ops",
		"--input", "priority=low", "--order", "id:desc", "--limit", "5")
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, `SELECT * FROM "tickets" WHERE "status" = $1 AND ("department" = $2 OR "priority" = $3) AND "tenant_id" = $4 ORDER BY "id" DESC LIMIT $5`)
	assert.Contains(t, s, `"ops"`)
	assert.Contains(t, s, `"low"`)
	assert.Contains(t, s, `"acme"`)
}

func TestCompileUpdate(t *testing.T) {
	dir, out := setup(t)

	err := run("compile", "update", "--config", filepath.Join(dir, "sqlguard.yaml"), "--dialect", "sqlite",
		"--table", "tickets", "--id", "7", "--data", `{"title":"x","tenant_id":"evil"}`,
		"--tenant", "acme", "--role", "viewer")
	require.NoError(t, err)
	assert.Contains(t, out.String(), `UPDATE "tickets" SET "title" = ?, "tenant_id" = ? WHERE "id" = ? AND "published" = ? AND "tenant_id" = ?`)
}

func TestCompileRejectsBadInput(t *testing.T) {
	dir, _ := setup(t)
	cfg := filepath.Join(dir, "sqlguard.yaml")

	assert.Error(t, run("compile", "merge", "--config", cfg, "--table", "t"))
	assert.Error(t, run("compile", "select", "--config", cfg, "--table", "t", "--where", "a between 1"))
	assert.Error(t, run("compile", "select", "--config", cfg, "--table", "bad;table"))
}

func TestExposed(t *testing.T) {
	dir, out := setup(t)

	require.NoError(t, run("exposed", "--config", filepath.Join(dir, "sqlguard.yaml"), "--role", "manager"))
	assert.Contains(t, out.String(), "role manager")
	assert.Contains(t, out.String(), "priority")

	out.Reset()
	require.NoError(t, run("exposed", "--config", filepath.Join(dir, "sqlguard.yaml"), "--role", "guest"))
	assert.Contains(t, out.String(), "match no restriction")
}

func TestWatchFailsOnMissingPolicy(t *testing.T) {
	dir, _ := setup(t)
	err := run("watch", "--config", filepath.Join(dir, "sqlguard.yaml"),
		"--policy", filepath.Join(dir, "missing.yaml"), "--debounce", "10ms")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initial callback failed")
}

func TestScalar(t *testing.T) {
	assert.Equal(t, int64(12), scalar("12"))
	assert.Equal(t, 1.5, scalar("1.5"))
	assert.Equal(t, true, scalar("true"))
	assert.Nil(t, scalar("null"))
	assert.Equal(t, "ops", scalar("ops"))
}
