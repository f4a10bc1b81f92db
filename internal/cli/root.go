// Package cli wires the fitsview commands.
package cli

import (
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/noamichael/fitsview/internal/config"
	"github.com/noamichael/fitsview/internal/logging"
	"github.com/noamichael/fitsview/render"
	"github.com/noamichael/fitsview/viewer"
)

// Version is set at build time with -ldflags
var Version = "dev"

// Flag variables
var (
	dpi           int
	showHeaders   bool
	debayer       bool
	origin        string
	summaryFormat string
	logLevel      string
	logFormat     string
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "fitsview [path]",
	Short: "Summarize a FITS file and render its primary image as a PNG",
	Long: `fitsview prints the header/data unit structure of a FITS file. When the
primary unit holds a 2-D image it is drawn in grayscale with a color bar and
saved next to the input, with the first ".fits" in the path replaced by ".png".`,
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := newViewer(cmd)
		if err != nil {
			return err
		}

		path := inputPath(args)
		res, err := v.Run(path)
		if err != nil {
			return err
		}

		log.Debug().Str("path", path).Stringer("outcome", res.Outcome).Msg("done")
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info [path]",
	Short: "Print the header/data unit summary only",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := newViewer(cmd)
		if err != nil {
			return err
		}
		return v.Inspect(inputPath(args))
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "fitsview version %s\n", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&dpi, "dpi", config.DefaultDPI, "Output resolution in dots per inch")
	rootCmd.PersistentFlags().BoolVar(&showHeaders, "headers", false, "Print the primary header cards after the summary")
	rootCmd.PersistentFlags().StringVar(&summaryFormat, "summary-format", "text", "Summary format (text, yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (console, json)")

	rootCmd.Flags().BoolVar(&debayer, "debayer", false, "Demosaic using the BAYERPAT header when present")
	rootCmd.Flags().StringVar(&origin, "origin", "lower", "Where row 0 of the image is drawn (lower, upper)")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

// setup loads the configuration, lets flags override it and configures
// logging.
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("dpi") {
		loaded.DPI = dpi
	}
	if flags.Changed("log-level") {
		loaded.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		loaded.LogFormat = logFormat
	}

	if err := loaded.Validate(); err != nil {
		return err
	}

	logging.Setup(loaded.LogLevel, loaded.LogFormat)
	cfg = loaded

	return nil
}

func newViewer(cmd *cobra.Command) (*viewer.Viewer, error) {
	vc, err := viewerConfig()
	if err != nil {
		return nil, err
	}

	return viewer.New(vc,
		viewer.WithOutput(cmd.OutOrStdout()),
		viewer.WithLogger(logging.WithComponent("viewer")),
	), nil
}

func viewerConfig() (viewer.Config, error) {
	vc := viewer.DefaultConfig()

	o, err := render.ParseOrigin(origin)
	if err != nil {
		return vc, err
	}
	format, err := viewer.ParseSummaryFormat(summaryFormat)
	if err != nil {
		return vc, err
	}

	vc.DPI = cfg.DPI
	vc.Origin = o
	vc.Debayer = debayer
	vc.ShowHeaders = showHeaders
	vc.SummaryFormat = format

	return vc, nil
}

func inputPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return cfg.Path
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteArgs runs the root command with args, writing command output to out.
func ExecuteArgs(args []string, out io.Writer) error {
	if args == nil {
		args = []string{}
	}
	rootCmd.SetArgs(args)
	rootCmd.SetOut(out)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
	}()
	return rootCmd.Execute()
}

// GetConfig returns the configuration loaded by the last command run.
func GetConfig() *config.Config {
	return cfg
}
