// pkg/config/cluster_config.go

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the descriptor name looked up next to the executable
const DefaultConfigFile = "vsdscsminspect_config.yaml"

// Node describes one cluster member
type Node struct {
	Hostname  string `yaml:"hostname" json:"hostname"`
	ClusterIP string `yaml:"Cluster IP" json:"clusterIP"`
	ISCSIIP   string `yaml:"iSCSI IP" json:"iscsiIP"`
}

// Bond describes an expected link aggregation interface
type Bond struct {
	Name  string `yaml:"name" json:"name"`
	Speed string `yaml:"speed" json:"speed"`
	Mode  string `yaml:"mode" json:"mode"`
}

// ClusterConfig is the expected topology of the inspected cluster.
// It is loaded once per run and never modified afterwards.
type ClusterConfig struct {
	LocalNode         Node   `yaml:"LocalNode"`
	ClusterNodes      []Node `yaml:"ClusterNode"`
	Bonds             []Bond `yaml:"Bond"`
	ManagerController *bool  `yaml:"CoSAN Manager controller"`
	ManagerConsoleIP  string `yaml:"CoSAN Manager console IP"`
}

// ConfigurationError reports a missing or unusable configuration descriptor.
// It is the only error that stops an inspection before any check runs.
type ConfigurationError struct {
	Path string
	Err  error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %v", e.Path, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// DefaultConfigPath returns the descriptor path next to the running executable
func DefaultConfigPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultConfigFile
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultConfigFile)
}

// LoadFromFile reads and validates the YAML cluster descriptor
func LoadFromFile(path string) (*ClusterConfig, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &ConfigurationError{Path: path, Err: fmt.Errorf("file not found, please check that %s exists", filepath.Base(path))}
		}
		return nil, &ConfigurationError{Path: path, Err: err}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, &ConfigurationError{Path: path, Err: err}
	}
	return cfg, nil
}

// Parse decodes a cluster descriptor from raw YAML
func Parse(data []byte) (*ClusterConfig, error) {
	var cfg ClusterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the fields every inspection relies on
func (c *ClusterConfig) Validate() error {
	if strings.TrimSpace(c.LocalNode.Hostname) == "" {
		return errors.New("LocalNode.hostname is required")
	}
	for i, node := range c.ClusterNodes {
		if strings.TrimSpace(node.Hostname) == "" {
			return fmt.Errorf("ClusterNode[%d].hostname is required", i)
		}
	}
	return nil
}

// AllHostnames returns the hostnames of every peer followed by the local node
func (c *ClusterConfig) AllHostnames() []string {
	names := make([]string, 0, len(c.ClusterNodes)+1)
	for _, node := range c.ClusterNodes {
		names = append(names, node.Hostname)
	}
	return append(names, c.LocalNode.Hostname)
}

// AllNodes returns every peer followed by the local node
func (c *ClusterConfig) AllNodes() []Node {
	nodes := make([]Node, 0, len(c.ClusterNodes)+1)
	nodes = append(nodes, c.ClusterNodes...)
	return append(nodes, c.LocalNode)
}

// NodeCount is the total number of configured nodes, local node included
func (c *ClusterConfig) NodeCount() int {
	return len(c.ClusterNodes) + 1
}

// IsManagerController reports whether this node hosts the CoSAN Manager
func (c *ClusterConfig) IsManagerController() bool {
	return c.ManagerController != nil && *c.ManagerController
}

// ExpandPath expands ~ and environment variables in file paths
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}

	// Expand ~ to home directory
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	}

	return os.ExpandEnv(path)
}
