package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-overlay/internal/imaging"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Recognize one image and draw the overlay",
	Long: `Recognize the text in one image, optionally box the faces, and write the
picture with the overlay drawn at the requested size.

The recognized text is printed to stdout.`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var (
	renderImage    string
	renderSample   bool
	renderWidth    float64
	renderHeight   float64
	renderOutput   string
	renderFaces    bool
	renderLabels   bool
	renderLanguage string
	renderProfile  bool
)

func init() {
	RootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderImage, "image", "", "Path to input image file")
	renderCmd.Flags().BoolVar(&renderSample, "sample", false, "Use the built-in sample picture instead of --image")
	renderCmd.Flags().Float64Var(&renderWidth, "width", 0, "Display surface width (image width if not set)")
	renderCmd.Flags().Float64Var(&renderHeight, "height", 0, "Display surface height (image height if not set)")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output path for the rendering; the extension picks the format (required)")
	renderCmd.Flags().BoolVar(&renderFaces, "faces", false, "Box detected faces too")
	renderCmd.Flags().BoolVar(&renderLabels, "labels", false, "Draw the recognized word above each box")
	renderCmd.Flags().StringVarP(&renderLanguage, "language", "l", "", "OCR language code or tag (first installed if not set)")
	renderCmd.Flags().BoolVar(&renderProfile, "profile-languages", false, "Use the first installed profile language")

	renderCmd.MarkFlagsMutuallyExclusive("image", "sample")
	renderCmd.MarkFlagsOneRequired("image", "sample")
	renderCmd.MarkFlagsMutuallyExclusive("language", "profile-languages")
	err := renderCmd.MarkFlagRequired("output")
	if err != nil {
		slog.Error("Unable to mark output as required", "err", err)
		os.Exit(1)
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	if (renderWidth > 0) != (renderHeight > 0) {
		return fmt.Errorf("--width and --height must be given together")
	}

	c := *cfg
	if renderProfile {
		c.OCR.UseProfileLanguages = true
	}

	p, err := NewPage(&c)
	if err != nil {
		return err
	}
	defer p.Close()

	if renderSample {
		err = p.LoadSample()
	} else {
		err = p.LoadImage(renderImage)
	}
	if err != nil {
		return err
	}

	if renderLanguage != "" {
		if err := p.SelectLanguage(renderLanguage); err != nil {
			return err
		}
	}
	if renderWidth > 0 {
		if err := p.Resize(renderWidth, renderHeight); err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	rec, err := p.Recognize(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", p.View().Status.Message, err)
	}
	slog.Info("recognized", "language", rec.Language, "engine", rec.Engine, "words", rec.Words, "lines", rec.Lines)
	if rec.SpeechError != "" {
		slog.Warn("speech failed", "message", rec.SpeechError)
	}

	if renderFaces {
		faces, err := p.DetectFaces(ctx)
		if err != nil {
			return err
		}
		slog.Info("faces detected", "count", len(faces))
	}

	img, err := p.Render(renderLabels)
	if err != nil {
		return err
	}
	if err := imaging.Save(img, renderOutput); err != nil {
		return err
	}
	slog.Info("overlay written", "output", renderOutput, "width", img.Bounds().Dx(), "height", img.Bounds().Dy())

	fmt.Fprintln(cmd.OutOrStdout(), rec.Text)
	return nil
}
