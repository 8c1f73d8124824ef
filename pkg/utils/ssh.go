// pkg/utils/ssh.go

package utils

import (
	"bytes"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// SSHConfig holds SSH connection configuration
type SSHConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	KeyFile        string
	KnownHostsFile string
	Timeout        time.Duration
}

// SSHConnection represents an SSH connection to a remote host
type SSHConnection struct {
	Config *SSHConfig
	Client *ssh.Client
}

// NewSSHConnection creates a new SSH connection
func NewSSHConnection(config *SSHConfig) (*SSHConnection, error) {
	if config == nil || config.Host == "" {
		return nil, fmt.Errorf("ssh host is required")
	}
	if config.Port == "" {
		config.Port = "22"
	}
	if config.User == "" {
		config.User = "root"
	}
	return &SSHConnection{
		Config: config,
	}, nil
}

// Connect establishes the SSH connection
func (s *SSHConnection) Connect() error {
	var authMethods []ssh.AuthMethod

	// Determine authentication method
	if s.Config.Password != "" {
		authMethods = append(authMethods, ssh.Password(s.Config.Password))
	} else if s.Config.KeyFile != "" {
		keyAuth, err := s.getKeyAuth()
		if err != nil {
			return fmt.Errorf("failed to load SSH key from %s: %v", s.Config.KeyFile, err)
		}
		authMethods = append(authMethods, keyAuth)
	} else {
		// Try default key
		defaultKeyPath := filepath.Join(os.Getenv("HOME"), ".ssh", "id_rsa")
		if !fileExists(defaultKeyPath) {
			return fmt.Errorf("no authentication method available - no password provided and no SSH key found")
		}
		s.Config.KeyFile = defaultKeyPath
		keyAuth, err := s.getKeyAuth()
		if err != nil {
			return fmt.Errorf("no authentication method available - please provide either SSH key or password")
		}
		authMethods = append(authMethods, keyAuth)
	}

	hostKeyCallback, err := s.hostKeyCallback()
	if err != nil {
		return err
	}

	sshConfig := &ssh.ClientConfig{
		User:            s.Config.User,
		Auth:            authMethods,
		HostKeyCallback: hostKeyCallback,
		Timeout:         s.Config.Timeout,
	}

	// Close existing connection if any
	if s.Client != nil {
		s.Client.Close()
		s.Client = nil
	}

	address := net.JoinHostPort(s.Config.Host, s.Config.Port)

	client, err := ssh.Dial("tcp", address, sshConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %v", address, err)
	}

	s.Client = client
	return nil
}

// hostKeyCallback verifies against a known_hosts file when one is configured
func (s *SSHConnection) hostKeyCallback() (ssh.HostKeyCallback, error) {
	if s.Config.KnownHostsFile == "" {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	callback, err := knownhosts.New(s.Config.KnownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read known hosts %s: %v", s.Config.KnownHostsFile, err)
	}
	return callback, nil
}

// getKeyAuth returns SSH key authentication method
func (s *SSHConnection) getKeyAuth() (ssh.AuthMethod, error) {
	key, err := os.ReadFile(s.Config.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read private key: %v", err)
	}

	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("unable to parse private key (it may be passphrase-protected): %v", err)
	}

	return ssh.PublicKeys(signer), nil
}

// RunCommand executes a shell command string on the remote host and returns
// stdout followed by stderr. A non-zero exit is returned as an error
// together with the output.
func (s *SSHConnection) RunCommand(command string) (string, error) {
	if s.Client == nil {
		if err := s.Connect(); err != nil {
			return "", fmt.Errorf("SSH client not connected and reconnection failed: %v", err)
		}
	}

	session, err := s.Client.NewSession()
	if err != nil {
		// The connection may have died, try once more
		if err := s.Connect(); err != nil {
			return "", fmt.Errorf("failed to create session and reconnection failed: %v", err)
		}

		session, err = s.Client.NewSession()
		if err != nil {
			return "", fmt.Errorf("failed to create session after reconnection: %v", err)
		}
	}
	defer session.Close()

	var stdoutBuf, stderrBuf bytes.Buffer
	session.Stdout = &stdoutBuf
	session.Stderr = &stderrBuf

	err = session.Run(command)

	output := stdoutBuf.String() + stderrBuf.String()
	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return output, fmt.Errorf("remote command '%s' returned non-zero exit status %d", command, exitErr.ExitStatus())
		}
		return output, fmt.Errorf("remote command '%s' failed: %v", command, err)
	}

	return output, nil
}

// Close closes the SSH connection
func (s *SSHConnection) Close() error {
	if s.Client != nil {
		return s.Client.Close()
	}
	return nil
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
