package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"geminipocket/internal/cli"
	"geminipocket/internal/infra"
	"geminipocket/internal/relayclient"
	"geminipocket/internal/storage"
)

// app carries everything a command needs. It is built once by the root
// command before any subcommand runs.
type app struct {
	cfgFile   string
	apiURL    string
	outputDir string
	verbose   bool

	cfg     *cli.Config
	printer *cli.Printer
	logger  infra.Logger
	stdin   io.Reader

	// newPoller builds the poll loop for an operation.
	newPoller func(client relayclient.StatusChecker, interval time.Duration) *relayclient.Poller
}

// NewRootCmd assembles the geminipocket command tree.
func NewRootCmd(version string) *cobra.Command {
	return newApp().rootCmd(version)
}

func newApp() *app {
	return &app{
		printer:   cli.NewPrinter(),
		logger:    infra.NopLogger(),
		stdin:     os.Stdin,
		newPoller: relayclient.NewPoller,
	}
}

func (a *app) rootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "geminipocket",
		Short:   "Generate and edit AI images and videos with Google Gemini",
		Version: version,
		Long: `GeminiPocket - AI Image & Video Generation CLI

Generate images and videos from text prompts or edit existing images through
the GeminiPocket relay. Videos are produced asynchronously: the CLI submits the
job, checks on it every few seconds and downloads the result when it is done.

Examples:
  # Generate an image
  geminipocket generate "a sunset over mountains"

  # Edit an existing image
  geminipocket edit photo.png "add a rainbow"

  # Generate a video
  geminipocket generate-video "drone shot following a car along a coastal road"

  # Animate an image
  geminipocket edit-video photo.png "make it dance and spin" --aspect-ratio 9:16

  # Configure the default output directory
  geminipocket config set output_dir ~/Videos/AI
`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ~/.geminipocket/config.yaml)")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "relay URL (can also set "+cli.EnvAPIURL+")")
	root.PersistentFlags().StringVarP(&a.outputDir, "output", "o", "", "output directory for generated files")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		a.generateCmd(),
		a.editCmd(),
		a.generateVideoCmd(),
		a.editVideoCmd(),
		a.configCmd(),
		a.healthCmd(),
		a.infoCmd(),
		a.authCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	a.printer.Out = cmd.OutOrStdout()
	a.printer.Err = cmd.ErrOrStderr()
	a.logger = infra.NewConsoleLogger(cmd.ErrOrStderr(), a.verbose)

	cfg, err := cli.LoadConfig(a.cfgFile)
	if err != nil {
		return fmt.Errorf("error initializing config: %w", err)
	}
	a.cfg = cfg
	a.logger.Debug().Str("config", cfg.Path()).Msg("config loaded")
	return nil
}

// client builds a relay client from the resolved URL and stored API key.
func (a *app) client() *relayclient.Client {
	url := a.cfg.ResolveAPIURL(a.apiURL, relayclient.DefaultBaseURL)
	a.logger.Debug().Str("api_url", url).Bool("authenticated", a.cfg.APIKey != "").Msg("relay client")
	return relayclient.New(url,
		relayclient.WithAPIKey(a.cfg.APIKey),
		relayclient.WithLogger(a.logger),
	)
}

// store opens the directory an artifact of kind should be written to.
func (a *app) store(kind cli.ArtifactKind, save bool) (*storage.FileStore, error) {
	dir := a.cfg.ResolveOutputDir(kind, save, a.outputDir)
	s, err := storage.NewFileStore(dir)
	if err != nil {
		return nil, fmt.Errorf("prepare output directory: %w", err)
	}
	return s, nil
}
