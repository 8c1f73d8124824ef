// pkg/utils/command_executor.go

package utils

import (
	"fmt"
	"strings"
)

// FailurePrefix starts the text returned in place of output when a command
// could not be run at all
const FailurePrefix = "命令执行失败: "

// CommandResult is the captured combined output of one command
type CommandResult struct {
	Stdout    string
	Succeeded bool
}

// CommandExecutor runs shell command strings on the inspected node.
// Execute never panics; execution problems come back as a failed result.
type CommandExecutor interface {
	Execute(command string) CommandResult
	GetHostname() string
	IsLocal() bool
}

// LocalExecutor executes commands on this machine through bash
type LocalExecutor struct {
	hostname string
	timeout  int
}

// RemoteExecutor executes commands via SSH
type RemoteExecutor struct {
	hostname   string
	timeout    int
	connection *SSHConnection
}

// NewLocalExecutor creates a new local executor. A timeout of zero waits
// for every command indefinitely.
func NewLocalExecutor(timeout int) *LocalExecutor {
	hostname, err := RunCommand("hostname")
	if err != nil || strings.TrimSpace(hostname) == "" {
		hostname = "localhost"
	}
	return &LocalExecutor{hostname: strings.TrimSpace(hostname), timeout: timeout}
}

// NewRemoteExecutor creates a new remote executor
func NewRemoteExecutor(config *SSHConfig, timeout int) (*RemoteExecutor, error) {
	conn, err := NewSSHConnection(config)
	if err != nil {
		return nil, err
	}

	if err := conn.Connect(); err != nil {
		return nil, err
	}

	// Get remote hostname
	hostname, err := conn.RunCommand("hostname")
	if err != nil || strings.TrimSpace(hostname) == "" {
		hostname = config.Host
	}

	return &RemoteExecutor{
		hostname:   strings.TrimSpace(hostname),
		timeout:    timeout,
		connection: conn,
	}, nil
}

// Execute runs a command locally
func (e *LocalExecutor) Execute(command string) CommandResult {
	output, err := RunShellCommand(command, e.timeout)
	return toResult(output, err)
}

// GetHostname returns the hostname
func (e *LocalExecutor) GetHostname() string {
	return e.hostname
}

// IsLocal returns true for local executor
func (e *LocalExecutor) IsLocal() bool {
	return true
}

// Execute runs a command remotely
func (e *RemoteExecutor) Execute(command string) CommandResult {
	// Ensure connection is still alive
	if e.connection == nil {
		return toResult("", fmt.Errorf("remote connection is not established"))
	}

	if e.timeout > 0 {
		command = fmt.Sprintf("timeout %d bash -c %s", e.timeout, shellQuote(command))
	}
	output, err := e.connection.RunCommand(command)
	return toResult(output, err)
}

// GetHostname returns the remote hostname
func (e *RemoteExecutor) GetHostname() string {
	return e.hostname
}

// IsLocal returns false for remote executor
func (e *RemoteExecutor) IsLocal() bool {
	return false
}

// Close closes the remote connection
func (e *RemoteExecutor) Close() error {
	if e.connection != nil {
		return e.connection.Close()
	}
	return nil
}

// toResult turns captured output and an execution error into a result.
// A command that ran and exited non-zero keeps its own output; a command
// that never produced output is replaced by the failure text.
func toResult(output string, err error) CommandResult {
	if err == nil {
		return CommandResult{Stdout: output, Succeeded: true}
	}
	if output == "" {
		output = FailurePrefix + err.Error()
	}
	return CommandResult{Stdout: output, Succeeded: false}
}

// shellQuote wraps s in single quotes for bash
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
