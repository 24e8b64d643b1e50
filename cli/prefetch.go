package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"imagereader/logging"
	"imagereader/prefetch"
	"imagereader/signalhandler"

	"github.com/spf13/cobra"
)

var (
	flagPrefetchConfig   string
	flagPrefetchDirIndex int
	flagPrefetchFrom     string
	flagWorkers          int
	flagQuiet            bool
)

var prefetchCmd = &cobra.Command{
	Use:   "prefetch [NAME...]",
	Short: "Read images concurrently to populate the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagPrefetchConfig == "" {
			return fmt.Errorf("--config is required")
		}

		names := append([]string(nil), args...)
		if flagPrefetchFrom != "" {
			listed, err := readNameList(cmd.InOrStdin(), flagPrefetchFrom)
			if err != nil {
				return err
			}
			names = append(names, listed...)
		}
		if len(names) == 0 {
			return fmt.Errorf("no image names given")
		}

		r, err := buildReader(flagPrefetchConfig)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitConfigError
			return nil
		}

		stop := signalhandler.SetupHandler(func() {
			if err := r.Close(); err != nil {
				logging.LogWarning("closing reader: %v", err)
			}
		})
		defer stop()

		options := prefetch.Options{DirIndex: flagPrefetchDirIndex, MaxWorkers: flagWorkers}
		if !flagQuiet {
			options.Progress = cmd.ErrOrStderr()
		}
		stats := prefetch.Run(r, names, options)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Prefetched %d/%d images in %v\n",
			stats.Processed-stats.Errors, stats.Total, stats.Elapsed.Round(time.Millisecond))
		if stats.Errors > 0 {
			fmt.Fprintf(out, "Failed: %s\n", strings.Join(stats.Failed, ", "))
			exitCode = ExitReadError
		}
		return nil
	},
}

func init() {
	prefetchCmd.Flags().StringVar(&flagPrefetchConfig, "config", "", "Reader config file (YAML)")
	prefetchCmd.Flags().IntVar(&flagPrefetchDirIndex, "dir-index", 0, "Index into a list of image directories")
	prefetchCmd.Flags().StringVar(&flagPrefetchFrom, "from", "", "File with one image name per line (- for stdin)")
	prefetchCmd.Flags().IntVar(&flagWorkers, "workers", 0, "Concurrent reads (default: number of CPUs)")
	prefetchCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Suppress progress output")
}

// readNameList reads one name per line, skipping blanks and # comments
func readNameList(stdin io.Reader, path string) ([]string, error) {
	in := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("cannot open name list %s: %v", path, err)
		}
		defer f.Close()
		in = f
	}

	var names []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading name list %s: %v", path, err)
	}
	return names, nil
}
