package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/turtletowerz/hlssort"
	"github.com/turtletowerz/hlssort/config"
	"github.com/turtletowerz/hlssort/logger"
	"github.com/turtletowerz/hlssort/m3u8"
	"github.com/turtletowerz/hlssort/storage"
)

var version = "dev"

var errNoLocation = errors.New("expected exactly one playlist location")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:      "hlssort",
		Usage:     "sort the entries of an HLS master playlist",
		Version:   version,
		ArgsUsage: "<playlist-location>",
		Description: "Reads a master playlist from a file, -, http(s), s3://, gs:// or azblob:// location,\n" +
			"sorts its stream, media and I-frame stream entries, and writes it to --output.\n\n" +
			"stream fields:  " + fieldList(m3u8.StreamFields()) + "\n" +
			"media fields:   " + fieldList(m3u8.MediaFields()) + "\n" +
			"I-frame fields: " + fieldList(m3u8.IFrameFields()),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "sort-stream-by",
				Aliases: []string{"s"},
				Usage:   "sort EXT-X-STREAM-INF entries by `primary[,secondary]` (default bandwidth)",
			},
			&cli.StringFlag{
				Name:    "sort-media-by",
				Aliases: []string{"m"},
				Usage:   "sort EXT-X-MEDIA entries by `primary[,secondary]` (default group-id)",
			},
			&cli.StringFlag{
				Name:    "sort-iframe-by",
				Aliases: []string{"i"},
				Usage:   "sort EXT-X-I-FRAME-STREAM-INF entries by `primary[,secondary]` (default bandwidth)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write the sorted playlist to `location`",
				Value:   "-",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "hlssort yaml config file",
				Sources: cli.EnvVars("HLSSORT_CONFIG_FILE"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Sources: cli.EnvVars("HLSSORT_LOG_LEVEL"),
			},
		},
		Action: run,
	}
}

func run(ctx context.Context, c *cli.Command) error {
	if c.NArg() != 1 {
		return errNoLocation
	}

	conf, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	if l := c.String("log-level"); l != "" {
		conf.Logging.Level = l
	}
	if err = logger.Init(conf.Logging); err != nil {
		return fmt.Errorf("invalid log level %q: %w", conf.Logging.Level, err)
	}

	// flags win over the config file
	for flag, key := range map[string]*string{
		"sort-stream-by": &conf.Sort.Stream,
		"sort-media-by":  &conf.Sort.Media,
		"sort-iframe-by": &conf.Sort.IFrame,
	} {
		if v := c.String(flag); v != "" {
			*key = v
		}
	}

	sorter := hlssort.New(storage.New(conf))
	if err = sorter.ApplyConfig(conf.Sort); err != nil {
		return err
	}

	input, output := c.Args().First(), c.String("output")
	logger.Debugw("running", "input", input, "output", output, "version", version)
	return sorter.Run(ctx, input, output)
}

func fieldList[F ~string](fields []F) string {
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}
