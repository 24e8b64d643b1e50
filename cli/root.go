// Package cli implements the imagereader command line.
package cli

import (
	"fmt"
	"io"
	"os"

	"imagereader/config"
	"imagereader/imagereader"
	"imagereader/logging"
	"imagereader/registry"
	"imagereader/utils"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess     = 0
	ExitReadError   = 1
	ExitUsageError  = 2
	ExitConfigError = 3
)

var (
	flagDebug         bool
	flagLogFile       string
	flagPersistShapes bool
)

var rootCmd = &cobra.Command{
	Use:           "imagereader",
	Short:         "Read images through a key-value cache",
	Long:          "imagereader decodes images from configured directories with OpenCV or a pure-Go backend, caching JPEG copies in memcached or bitcask.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !flagDebug {
			return nil
		}
		if err := logging.SetupLogger(flagLogFile); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to setup logging: %v\n", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "logfile", "imagereader.log", "Log file used with --debug")
	rootCmd.PersistentFlags().BoolVar(&flagPersistShapes, "persist-shapes", false,
		fmt.Sprintf("Keep the shape table in %s when the config sets no shape_db", utils.GetDefaultShapeDatabasePath()))

	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(fakeCmd)
	rootCmd.AddCommand(prefetchCmd)
	rootCmd.AddCommand(versionCmd)
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// Run executes the root command and returns an exit code.
func Run() int {
	return execute(os.Args[1:], os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	exitCode = ExitSuccess
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}
	return exitCode
}

// buildReader loads the config at path and builds its reader
func buildReader(path string) (imagereader.Reader, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if flagPersistShapes && cfg.Kwargs.ShapeDB == "" {
		cfg.Kwargs.ShapeDB = utils.GetDefaultShapeDatabasePath()
	}
	return registry.Build(cfg)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print imagereader version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "imagereader version %s\n", version)
	},
}
