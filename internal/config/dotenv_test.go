package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotEnvFiles(t *testing.T) {
	assert.Equal(t, []string{".env.prod.local", ".env.local", ".env.prod", ".env"}, DotEnvFiles("prod"))
	assert.Equal(t, []string{".env.local", ".env"}, DotEnvFiles(""))
}

func TestLoadDotEnv_Precedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("RI_TEST_A=base\nRI_TEST_B=base\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("RI_TEST_A=local\n"), 0o600))

	t.Setenv("RI_TEST_A", "")
	t.Setenv("RI_TEST_B", "")
	os.Unsetenv("RI_TEST_A")
	os.Unsetenv("RI_TEST_B")

	loaded := LoadDotEnv(dir, "test")
	assert.Equal(t, []string{filepath.Join(dir, ".env.local"), filepath.Join(dir, ".env")}, loaded)
	assert.Equal(t, "local", os.Getenv("RI_TEST_A"))
	assert.Equal(t, "base", os.Getenv("RI_TEST_B"))
}
