package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"imagereader/imagereader"
	"imagereader/logging"
	"imagereader/registry"
	"imagereader/signalhandler"
	"imagereader/types"

	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagDirIndex int
	flagJSON     bool
)

var readCmd = &cobra.Command{
	Use:   "read NAME...",
	Short: "Read images through the configured reader",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagConfig == "" {
			return fmt.Errorf("--config is required")
		}

		r, err := buildReader(flagConfig)
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

		for _, name := range args {
			info, err := readOne(r, name, flagDirIndex)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
				exitCode = ExitReadError
				continue
			}
			if err := printInfo(cmd.OutOrStdout(), info, flagJSON); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	readCmd.Flags().StringVar(&flagConfig, "config", "", "Reader config file (YAML)")
	readCmd.Flags().IntVar(&flagDirIndex, "dir-index", 0, "Index into a list of image directories")
	readCmd.Flags().BoolVar(&flagJSON, "json", false, "Print one JSON object per image")
}

// readOne resolves name and reads it through r
func readOne(r imagereader.Reader, name string, idx int) (types.ImageInfo, error) {
	path, err := r.ResolvePath(name, idx)
	if err != nil {
		return types.ImageInfo{Path: name}, err
	}
	return registry.ReadInfo(r, path)
}

func printInfo(w io.Writer, info types.ImageInfo, asJSON bool) error {
	if asJSON {
		return json.NewEncoder(w).Encode(info)
	}
	_, err := fmt.Fprintf(w, "%s\t%s\t%s\n", info.Path, info.Shape, info.CacheKey)
	return err
}
