package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
LocalNode:
  hostname: node1
  Cluster IP: 10.203.1.1
  iSCSI IP: 10.203.2.1
ClusterNode:
  - hostname: node2
    Cluster IP: 10.203.1.2
    iSCSI IP: 10.203.2.2
  - hostname: node3
    Cluster IP: 10.203.1.3
    iSCSI IP: 10.203.2.3
Bond:
  - name: bond0
    speed: 20000Mb/s
    mode: 802.3ad
  - name: bond1
    speed: 10000
CoSAN Manager controller: true
CoSAN Manager console IP: 10.203.1.100
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "node1", cfg.LocalNode.Hostname)
	assert.Equal(t, "10.203.2.1", cfg.LocalNode.ISCSIIP)
	require.Len(t, cfg.ClusterNodes, 2)
	assert.Equal(t, "10.203.1.3", cfg.ClusterNodes[1].ClusterIP)
	require.Len(t, cfg.Bonds, 2)
	assert.Equal(t, "20000Mb/s", cfg.Bonds[0].Speed)
	assert.Equal(t, "10000", cfg.Bonds[1].Speed)
	assert.Empty(t, cfg.Bonds[1].Mode)
	assert.True(t, cfg.IsManagerController())
	assert.Equal(t, "10.203.1.100", cfg.ManagerConsoleIP)

	assert.Equal(t, []string{"node2", "node3", "node1"}, cfg.AllHostnames())
	assert.Equal(t, 3, cfg.NodeCount())
	assert.Len(t, cfg.AllNodes(), 3)
}

func TestParseWithoutManager(t *testing.T) {
	cfg, err := Parse([]byte("LocalNode:\n  hostname: solo\n"))
	require.NoError(t, err)

	assert.Nil(t, cfg.ManagerController)
	assert.False(t, cfg.IsManagerController())
	assert.Equal(t, 1, cfg.NodeCount())
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte("LocalNode: [unclosed"))
	assert.Error(t, err)

	_, err = Parse([]byte("ClusterNode:\n  - hostname: node2\n"))
	assert.ErrorContains(t, err, "LocalNode.hostname")
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), DefaultConfigFile))
	require.Error(t, err)

	var cfgErr *ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Error(), DefaultConfigFile)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(sampleConfig), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "node1", cfg.LocalNode.Hostname)
}

func TestLoadFromFileExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, DefaultConfigFile), []byte(sampleConfig), 0644))

	cfg, err := LoadFromFile("~/" + DefaultConfigFile)
	require.NoError(t, err)
	assert.Equal(t, 2, len(cfg.ClusterNodes))
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("INSPECT_REPORT_PASSWORD=secret\n"), 0644))

	t.Setenv("INSPECT_COMPRESS_REPORT", "true")
	t.Setenv("INSPECT_REPORT_PASSWORD", "")
	os.Unsetenv("INSPECT_REPORT_PASSWORD")

	s, err := LoadSettings(envFile)
	require.NoError(t, err)
	assert.True(t, s.CompressReport)
	assert.Equal(t, "secret", s.ReportPassword)
	assert.Equal(t, "logs", s.LogDir)
	assert.Equal(t, "reports", s.ReportDir)
}
