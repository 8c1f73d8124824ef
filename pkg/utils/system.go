// pkg/utils/system.go

package utils

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/alexmullins/zip"
)

// RunningAsRoot checks if the tool is running with root/sudo privileges
func RunningAsRoot() bool {
	return os.Geteuid() == 0
}

// RunCommand executes a command and returns its output
func RunCommand(name string, args ...string) (string, error) {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), fmt.Errorf("command '%s %s' failed: %v", name, strings.Join(args, " "), err)
	}
	return string(output), nil
}

// RunShellCommand executes a shell command string through bash and returns
// the combined output. A timeout of zero means no deadline.
func RunShellCommand(command string, timeout int) (string, error) {
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, "bash", "-c", command)
	// Pipelines leave children holding the output pipe, so the whole
	// process group is killed on timeout
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
	cmd.WaitDelay = time.Second
	output, err := cmd.CombinedOutput()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return string(output), fmt.Errorf("command timed out after %d seconds", timeout)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(output), fmt.Errorf("command '%s' returned non-zero exit status %d", command, exitErr.ExitCode())
		}
		return string(output), fmt.Errorf("command '%s' failed: %v", command, err)
	}
	return string(output), nil
}

// CompressWithPassword packs files into one password protected zip archive
// and returns the archive path
func CompressWithPassword(zipPath string, password string, sourcePaths ...string) (string, error) {
	if len(sourcePaths) == 0 {
		return "", fmt.Errorf("nothing to compress")
	}

	// Check if sources exist
	for _, sourcePath := range sourcePaths {
		if _, err := os.Stat(sourcePath); os.IsNotExist(err) {
			return "", fmt.Errorf("source file not found: %s", sourcePath)
		}
	}

	// Create the zip file
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return "", fmt.Errorf("failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	// Create zip writer
	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	for _, sourcePath := range sourcePaths {
		if err := addEncrypted(zipWriter, sourcePath, password); err != nil {
			return "", err
		}
	}

	return zipPath, nil
}

func addEncrypted(zipWriter *zip.Writer, sourcePath, password string) error {
	sourceFile, err := os.Open(sourcePath)
	if err != nil {
		return fmt.Errorf("failed to open source file: %v", err)
	}
	defer sourceFile.Close()

	// Create encrypted entry
	writer, err := zipWriter.Encrypt(filepath.Base(sourcePath), password)
	if err != nil {
		return fmt.Errorf("failed to create encrypted entry: %v", err)
	}

	// Copy file content
	if _, err := io.Copy(writer, sourceFile); err != nil {
		return fmt.Errorf("failed to write to zip: %v", err)
	}
	return nil
}
