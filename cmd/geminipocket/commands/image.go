package commands

import (
	"encoding/base64"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"geminipocket/internal/cli"
	"geminipocket/internal/relayclient"
)

const defaultImageName = "gemini_image"

type imageFlags struct {
	name string
	save bool
}

func (f *imageFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.name, "name", "n", "", "custom filename (timestamp will be added)")
	cmd.Flags().BoolVarP(&f.save, "save", "s", false, "save to current directory (overrides config)")
}

func (a *app) generateCmd() *cobra.Command {
	var flags imageFlags
	cmd := &cobra.Command{
		Use:     "generate PROMPT",
		Aliases: []string{"gen"},
		Short:   "Generate a new image from a text description",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := args[0]
			a.printer.Info("Generating image: %s", prompt)

			resp, err := a.client().GenerateImage(cmd.Context(), prompt)
			if err != nil {
				return fmt.Errorf("image generation failed: %w", err)
			}
			return a.saveImage(cmd, resp, flags)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var flags imageFlags
	cmd := &cobra.Command{
		Use:   "edit IMAGE PROMPT",
		Short: "Transform an existing image (PNG, JPG, GIF, WebP)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, prompt := args[0], args[1]
			encoded, mime, err := readImage(path)
			if err != nil {
				return err
			}
			a.printer.Info("Editing image: %s", path)
			a.logger.Debug().Str("mime_type", mime).Int("bytes", base64.StdEncoding.DecodedLen(len(encoded))).Msg("source image")

			resp, err := a.client().EditImage(cmd.Context(), prompt, encoded, mime)
			if err != nil {
				return fmt.Errorf("image edit failed: %w", err)
			}
			return a.saveImage(cmd, resp, flags)
		},
	}
	flags.bind(cmd)
	return cmd
}

func (a *app) saveImage(cmd *cobra.Command, resp *relayclient.ImageResponse, flags imageFlags) error {
	data, err := base64.StdEncoding.DecodeString(resp.Image)
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	store, err := a.store(cli.ArtifactImage, flags.save)
	if err != nil {
		return err
	}
	name := flags.name
	if name == "" {
		name = defaultImageName
	}
	path, err := store.SaveTimestamped(cmd.Context(), name, relayclient.ExtFromMime(resp.MimeType), data)
	if err != nil {
		return err
	}
	a.printer.Success("Image saved to: %s", a.printer.Bold(path))
	return nil
}

// readImage loads a local image as base64 with its MIME type from the
// file extension.
func readImage(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 {
		return "", "", fmt.Errorf("read image: %s is empty", path)
	}
	return base64.StdEncoding.EncodeToString(data), relayclient.MimeFromPath(path), nil
}
