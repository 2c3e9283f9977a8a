package main

import (
	"context"
	"fmt"
	"os"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/joho/godotenv"
	"github.com/rm-hull/image-enhancer/cmd"
	"github.com/rm-hull/image-enhancer/internal"
	"github.com/rm-hull/image-enhancer/internal/enhance"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	var port int
	var debug bool
	var opts cmd.EnhanceOptions

	envErr := godotenv.Load()

	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	rootCmd := &cobra.Command{
		Use:          "image-enhancer",
		Long:         `Adjust brightness, contrast, saturation and sharpness of raster images`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			format := cfg.LogFormat
			if debug {
				format = "console"
			}
			if err := internal.SetupLogger(cfg.LogLevel, format); err != nil {
				return err
			}
			if envErr != nil {
				log.Debug().Msg("No .env file found")
			}
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debugging (console logs, pprof) - WARNING: do not enable in production")

	apiServerCmd := &cobra.Command{
		Use:   "api-server [--port <port>] [--debug]",
		Short: "Start HTTP API server",
		RunE: func(_ *cobra.Command, _ []string) error {
			internal.ShowVersion()
			internal.UserInfo()
			internal.EnvironmentVars()
			return cmd.ApiServer(cfg, port, debug)
		},
	}
	apiServerCmd.Flags().IntVar(&port, "port", 8080, "Port to run HTTP server on")

	enhanceCmd := &cobra.Command{
		Use:   "enhance <input file or url> <output file>",
		Short: "Enhance a single image",
		Args:  cobra.ExactArgs(2),
		RunE: func(c *cobra.Command, args []string) error {
			opts.Input, opts.Output = args[0], args[1]
			if opts.CompareDelay == 0 {
				opts.CompareDelay = cfg.CompareDelay
			}
			opts.MaxBytes = cfg.MaxUploadBytes
			opts.MaxPixels = cfg.MaxPixels
			return cmd.Enhance(c.Context(), opts)
		},
	}
	identity := enhance.Reset()
	flags := enhanceCmd.Flags()
	flags.Float64VarP(&opts.Params.Brightness, "brightness", "b", identity.Brightness, "Brightness percent [0-200]")
	flags.Float64VarP(&opts.Params.Contrast, "contrast", "c", identity.Contrast, "Contrast percent [0-200]")
	flags.Float64VarP(&opts.Params.Saturation, "saturation", "s", identity.Saturation, "Saturation percent [0-200]")
	flags.Float64VarP(&opts.Params.Sharpness, "sharpness", "k", identity.Sharpness, "Sharpness percent [0-200], 0 disables")
	flags.BoolVar(&opts.Reset, "reset", false, "Ignore the adjustment flags and write the original image")
	flags.StringVarP(&opts.Format, "format", "f", "png", "Output format: png, jpeg, bmp or tiff")
	flags.IntVar(&opts.PreviewMax, "preview-max", 0, "Shrink the output to fit within this many pixels")
	flags.Float64Var(&opts.Smooth, "smooth", 0, "Gaussian blur sigma applied after enhancing, 0 disables")
	flags.BoolVar(&opts.Compare, "compare", false, "Write an animated PNG alternating original and enhanced")
	flags.Float64Var(&opts.CompareDelay, "compare-delay", 0, "Seconds per frame for --compare (default from ENHANCER_COMPARE_DELAY)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(versioninfo.Short())
		},
	}

	rootCmd.AddCommand(apiServerCmd, enhanceCmd, versionCmd)
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
