// cmd/root.go

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cosan-storage/vsdscsm-inspect/pkg/checks"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/config"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/inspect"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/report"
	"github.com/cosan-storage/vsdscsm-inspect/pkg/utils"
)

var (
	configFile    string
	envFile       string
	outputFile    string
	verboseOutput bool
	noProgress    bool
	skipGroups    []string
	includeGroups []string
	timeout       int

	sshHost        string
	sshPort        string
	sshUser        string
	sshKeyFile     string
	sshPassword    string
	knownHostsFile string

	rootCmd = &cobra.Command{
		Use:   "vsdscsminspect",
		Short: "CoSAN storage cluster inspection tool",
		Long: `Inspects a DRBD / LINSTOR / Pacemaker / Corosync storage cluster node and
the optional CoSAN Manager against the expected topology in
vsdscsminspect_config.yaml, and reports pass or fail per subsystem.
Nothing on the cluster is changed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runInspection,
	}
)

// Execute executes the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Cluster descriptor (default is vsdscsminspect_config.yaml next to the executable)")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional file with INSPECT_* settings")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default is automatically generated)")
	rootCmd.Flags().BoolVarP(&verboseOutput, "verbose", "v", false, "Echo the trace log to stderr")
	rootCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Hide the progress bar")
	rootCmd.Flags().StringSliceVarP(&skipGroups, "skip", "s", nil, "Groups to skip ("+strings.Join(checks.GroupNames, ", ")+")")
	rootCmd.Flags().StringSliceVarP(&includeGroups, "include", "i", nil, "Only include specified groups")
	rootCmd.Flags().IntVarP(&timeout, "timeout", "t", 0, "Timeout in seconds for each command, 0 waits indefinitely")

	rootCmd.Flags().StringVarP(&sshHost, "host", "H", "", "Inspect a remote node over SSH instead of this machine")
	rootCmd.Flags().StringVar(&sshPort, "ssh-port", "22", "SSH port")
	rootCmd.Flags().StringVar(&sshUser, "ssh-user", "root", "SSH user")
	rootCmd.Flags().StringVar(&sshKeyFile, "ssh-key", "", "SSH private key file")
	rootCmd.Flags().StringVar(&sshPassword, "ssh-password", "", "SSH password")
	rootCmd.Flags().StringVar(&knownHostsFile, "known-hosts", "", "known_hosts file used to verify the remote host key")

	// Add subcommands
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newShowCmd())
}

// runInspection performs the full inspection sweep
func runInspection(cmd *cobra.Command, args []string) error {
	settings, err := config.LoadSettings(envFile)
	if err != nil {
		return err
	}

	path := configFile
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return err
	}

	selection := inspect.Selection{Include: includeGroups, Skip: skipGroups}
	if err := selection.Validate(); err != nil {
		return err
	}

	executor, closeExecutor, err := newExecutor()
	if err != nil {
		return err
	}
	defer closeExecutor()

	if executor.IsLocal() && !utils.RunningAsRoot() {
		fmt.Println("WARNING: This tool should be run with root/sudo privileges for complete results.")
		fmt.Println("Some checks may fail or provide incomplete information.")
	}

	traceLog, err := utils.NewTraceLog(settings.LogDir, verboseOutput)
	if err != nil {
		return err
	}
	defer traceLog.Close()
	traceLog.WithField("host", executor.GetHostname()).Infof("inspection started with configuration %s", path)

	orchestrator := inspect.NewOrchestrator(checks.NewInspector(executor, cfg, traceLog), traceLog)
	result := runGroups(orchestrator, selection)
	result.LogName = filepath.Join(settings.LogDir, traceLog.Name())

	report.NewConsolePrinter(os.Stdout).Print(result)

	// If outputFile is not set, generate a default one
	outputPath := outputFile
	if outputPath == "" {
		outputPath = generateDefaultOutputFilename(settings.ReportDir, result.Hostname)
	}

	written, err := report.NewAsciiDocReport(outputPath).Generate(result)
	if err != nil {
		return fmt.Errorf("failed to generate report: %v", err)
	}
	if _, err := report.SaveCheckResults(written, result); err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	traceLog.Info("inspection complete")
	traceLog.Close()

	// Compress the report with password protection when requested
	finalPath, err := compressReportIfNeeded(settings, written, traceLog.Path())
	if err != nil {
		fmt.Printf("Warning: %v\n", err)
	}

	fmt.Printf("Report saved to: %s\n", finalPath)
	return inspect.Verdict(result)
}

// newExecutor returns the local executor, or an SSH executor when --host is set
func newExecutor() (utils.CommandExecutor, func(), error) {
	if sshHost == "" {
		return utils.NewLocalExecutor(timeout), func() {}, nil
	}

	sshConfig := &utils.SSHConfig{
		Host:           sshHost,
		Port:           sshPort,
		User:           sshUser,
		Password:       sshPassword,
		KeyFile:        config.ExpandPath(sshKeyFile),
		KnownHostsFile: config.ExpandPath(knownHostsFile),
		Timeout:        10 * time.Second,
	}

	remoteExec, err := utils.NewRemoteExecutor(sshConfig, timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create remote executor: %v", err)
	}
	return remoteExec, func() { remoteExec.Close() }, nil
}

// runGroups runs the orchestrator with progress reporting on stderr
func runGroups(o *inspect.Orchestrator, selection inspect.Selection) report.InspectionReport {
	startTime := time.Now()
	total := len(o.SelectedGroups(selection))

	// Initialize progress bar
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetVisibility(!noProgress),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(50),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]Inspecting %s[reset]", o.Inspector.Hostname())),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)

	o.Progress = func(g report.GroupOutcome) {
		bar.Describe(fmt.Sprintf("[cyan]Inspected[reset] %s", g.Title))
		bar.Add(1)
	}

	result := o.Run(selection)

	bar.Clear()
	if !noProgress {
		fmt.Fprintf(os.Stderr, "Inspection completed in %s\n", time.Since(startTime).Round(time.Millisecond))
	}
	return result
}

// generateDefaultOutputFilename generates a default output filename based on hostname
func generateDefaultOutputFilename(outputDir, hostname string) string {
	if hostname == "" {
		hostname = "unknown-host"
	}

	timestamp := time.Now().Format("20060102-150405")

	// Create output directory if it doesn't exist
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		outputDir = "."
	}

	return filepath.Join(outputDir, fmt.Sprintf("%s-inspection-%s.adoc",
		sanitizeFilename(hostname), timestamp))
}

// sanitizeFilename removes or replaces characters that are problematic in filenames
func sanitizeFilename(filename string) string {
	replacer := strings.NewReplacer(
		"/", "-",
		"\\", "-",
		":", "-",
		"*", "",
		"?", "",
		"\"", "",
		"<", "",
		">", "",
		"|", "-",
		" ", "_",
	)
	return replacer.Replace(filename)
}

// compressReportIfNeeded packs the report and trace log into an encrypted zip
// when INSPECT_COMPRESS_REPORT is set
func compressReportIfNeeded(settings config.Settings, reportPath string, extra ...string) (string, error) {
	if !settings.CompressReport {
		return reportPath, nil
	}

	sources := append([]string{reportPath}, extra...)
	zipPath := strings.TrimSuffix(reportPath, filepath.Ext(reportPath)) + ".zip"

	compressedPath, err := utils.CompressWithPassword(zipPath, settings.ReportPassword, sources...)
	if err != nil {
		return reportPath, fmt.Errorf("failed to compress report: %v", err)
	}

	// Optionally remove the original files
	if settings.RemoveUncompressed {
		for _, source := range sources {
			os.Remove(source)
		}
	}

	fmt.Printf("Report compressed with password: %s\n", settings.ReportPassword)
	return compressedPath, nil
}
