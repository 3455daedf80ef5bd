package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"geminipocket/internal/cli"
	"geminipocket/internal/relayclient"
)

const defaultVideoName = "gemini_video"

type videoFlags struct {
	imageFlags
	negativePrompt  string
	aspectRatio     string
	resolution      string
	pollTimeout     time.Duration
	pollMaxAttempts int
}

func (f *videoFlags) bind(cmd *cobra.Command) {
	f.imageFlags.bind(cmd)
	cmd.Flags().StringVar(&f.negativePrompt, "negative-prompt", "", "elements to keep out of the video")
	cmd.Flags().StringVar(&f.aspectRatio, "aspect-ratio", "16:9", "aspect ratio (16:9 or 9:16)")
	cmd.Flags().StringVar(&f.resolution, "resolution", "720p", "resolution (720p or 1080p)")
	cmd.Flags().DurationVar(&f.pollTimeout, "poll-timeout", 0, "give up waiting after this long (0 waits indefinitely)")
	cmd.Flags().IntVar(&f.pollMaxAttempts, "poll-max-attempts", 0, "give up after this many status checks (0 means no limit)")
}

func (f *videoFlags) validate() error {
	switch f.aspectRatio {
	case "16:9", "9:16":
	default:
		return fmt.Errorf("invalid aspect ratio %q: use 16:9 or 9:16", f.aspectRatio)
	}
	switch f.resolution {
	case "720p", "1080p":
	default:
		return fmt.Errorf("invalid resolution %q: use 720p or 1080p", f.resolution)
	}
	if f.pollTimeout < 0 || f.pollMaxAttempts < 0 {
		return fmt.Errorf("poll limits must not be negative")
	}
	return nil
}

func (a *app) generateVideoCmd() *cobra.Command {
	var flags videoFlags
	cmd := &cobra.Command{
		Use:     "generate-video PROMPT",
		Aliases: []string{"gen-video"},
		Short:   "Generate a video from a text description",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			req := flags.request(args[0])
			a.printer.Info("Generating video: %s", req.Prompt)
			return a.runVideo(cmd.Context(), flags, func(ctx context.Context, c *relayclient.Client) (string, error) {
				return c.GenerateVideo(ctx, req)
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func (a *app) editVideoCmd() *cobra.Command {
	var flags videoFlags
	cmd := &cobra.Command{
		Use:   "edit-video IMAGE PROMPT",
		Short: "Animate an existing image into a video",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			encoded, mime, err := readImage(args[0])
			if err != nil {
				return err
			}
			req := flags.request(args[1])
			req.Image, req.MimeType = encoded, mime
			a.printer.Info("Animating image: %s", args[0])
			return a.runVideo(cmd.Context(), flags, func(ctx context.Context, c *relayclient.Client) (string, error) {
				return c.EditVideo(ctx, req)
			})
		},
	}
	flags.bind(cmd)
	return cmd
}

func (f *videoFlags) request(prompt string) relayclient.VideoRequest {
	return relayclient.VideoRequest{
		Prompt:         prompt,
		NegativePrompt: f.negativePrompt,
		AspectRatio:    f.aspectRatio,
		Resolution:     f.resolution,
	}
}

// runVideo submits a job, waits for it to settle and stores the result.
func (a *app) runVideo(ctx context.Context, flags videoFlags, submit func(context.Context, *relayclient.Client) (string, error)) error {
	client := a.client()
	op, err := submit(ctx, client)
	if err != nil {
		return fmt.Errorf("error starting video generation: %w", err)
	}
	a.printer.Success("Started video generation (operation: %s)", op)

	poller := a.newPoller(client, a.cfg.PollInterval())
	poller.Timeout = a.cfg.PollTimeout()
	if flags.pollTimeout > 0 {
		poller.Timeout = flags.pollTimeout
	}
	poller.MaxAttempts = a.cfg.PollMaxAttempts
	if flags.pollMaxAttempts > 0 {
		poller.MaxAttempts = flags.pollMaxAttempts
	}

	spinner := cli.NewSpinner(a.printer.Err, a.printer.Styles)
	spinner.Start("Generating video, this usually takes a few minutes")
	poller.OnPoll = func(attempt int, status *relayclient.VideoStatus) {
		a.logger.Debug().Int("attempt", attempt).Bool("done", status.Done).Msg("video status")
		if !status.Done {
			spinner.Update(fmt.Sprintf("Still generating (check %d)", attempt))
		}
	}
	res, err := poller.Wait(ctx, op)
	elapsed := spinner.Elapsed()
	spinner.Stop()
	if err != nil {
		return fmt.Errorf("video generation failed: %w", err)
	}
	a.logger.Debug().Int("attempts", res.Attempts).Dur("elapsed", elapsed).Msg("video ready")

	data := res.VideoData
	if data == nil {
		dl := &relayclient.Downloader{ProviderKey: a.cfg.ProviderAPIKey}
		if data, err = dl.Fetch(ctx, res.VideoURI); err != nil {
			return fmt.Errorf("video download failed: %w", err)
		}
	}

	store, err := a.store(cli.ArtifactVideo, flags.save)
	if err != nil {
		return err
	}
	name := flags.name
	if name == "" {
		name = defaultVideoName
	}
	path, err := store.SaveTimestamped(ctx, name, "mp4", data)
	if err != nil {
		return err
	}
	a.printer.Success("Video saved to: %s", a.printer.Bold(path))
	return nil
}
