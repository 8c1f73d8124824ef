// pkg/utils/mock_executor.go

package utils

// MockExecutor is a scripted CommandExecutor for tests. Commands missing from
// Outputs fail the way a missing binary would.
type MockExecutor struct {
	Hostname string
	Outputs  map[string]string
	Failed   map[string]bool
	Calls    []string
}

// Execute returns the scripted output for command
func (m *MockExecutor) Execute(command string) CommandResult {
	m.Calls = append(m.Calls, command)
	out, ok := m.Outputs[command]
	if !ok {
		return CommandResult{Stdout: FailurePrefix + "exit status 127"}
	}
	return CommandResult{Stdout: out, Succeeded: !m.Failed[command]}
}

// GetHostname returns the scripted hostname
func (m *MockExecutor) GetHostname() string {
	if m.Hostname == "" {
		return "localhost"
	}
	return m.Hostname
}

// IsLocal always reports true
func (m *MockExecutor) IsLocal() bool {
	return true
}

// Ran reports whether command was executed
func (m *MockExecutor) Ran(command string) bool {
	for _, c := range m.Calls {
		if c == command {
			return true
		}
	}
	return false
}
