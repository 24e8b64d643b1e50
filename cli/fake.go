package cli

import (
	"fmt"

	"imagereader/imagelib"
	"imagereader/imagereader"
	"imagereader/opencv"
	"imagereader/types"
	"imagereader/utils"

	"github.com/spf13/cobra"
)

var (
	flagBackend   string
	flagColorMode string
	flagSize      string
)

var fakeCmd = &cobra.Command{
	Use:   "fake",
	Short: "Print the shape of a placeholder image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := utils.ParseSize(flagSize)
		if err != nil {
			return err
		}

		shape, err := fakeShape(imagereader.Kind(flagBackend), imagereader.ParseColorMode(flagColorMode), size)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			exitCode = ExitConfigError
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), shape)
		return nil
	},
}

func init() {
	fakeCmd.Flags().StringVar(&flagBackend, "backend", string(imagereader.KindOpenCV), "Reader backend (fs_opencv or fs_pillow)")
	fakeCmd.Flags().StringVar(&flagColorMode, "color-mode", string(imagereader.RGB), "Colour mode")
	fakeCmd.Flags().StringVar(&flagSize, "size", "", "Size as HxW or HxWxC")
}

// fakeShape builds a placeholder with a throwaway reader. imagelib sizes are
// width first, so the height and width are swapped for it.
func fakeShape(kind imagereader.Kind, mode imagereader.ColorMode, size []int) (types.Shape, error) {
	cfg := imagereader.Config{ImageDir: imagereader.SingleDir("."), ColorMode: mode}

	switch kind {
	case imagereader.KindOpenCV:
		r, err := opencv.New(cfg)
		if err != nil {
			return types.Shape{}, err
		}
		img, err := r.FakeImage(size...)
		if err != nil {
			return types.Shape{}, err
		}
		defer img.Close()
		return r.ShapeOf(img), nil
	case imagereader.KindImaging:
		r, err := imagelib.New(cfg)
		if err != nil {
			return types.Shape{}, err
		}
		if len(size) >= 2 {
			size = append([]int{size[1], size[0]}, size[2:]...)
		}
		img, err := r.FakeImage(size...)
		if err != nil {
			return types.Shape{}, err
		}
		return r.ShapeOf(img), nil
	}
	return types.Shape{}, fmt.Errorf("unknown image reader type %q", kind)
}
