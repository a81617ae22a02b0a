package main

import (
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	err := newApp().Run(os.Args)
	if err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "codectool",
		Usage: "Compress, decompress and compare files with RLE, Huffman and LZW",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Usage: "log debug messages"},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			{
				Name:      "compress",
				Usage:     "Compress a file",
				Action:    compressFile,
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					algorithmFlag(),
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output `PATH` (default FILE.<ext>)"},
				},
			},
			{
				Name:      "decompress",
				Usage:     "Decompress a file produced by compress",
				Action:    decompressFile,
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					algorithmFlag(),
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output `PATH`"},
				},
			},
			{
				Name:      "compare",
				Usage:     "Run every algorithm on each file and verify the round trip",
				Action:    compareFiles,
				ArgsUsage: "FILE...",
				Flags: append(sourceFlags(),
					&cli.StringSliceFlag{Name: "algorithm", Aliases: []string{"a"}, Usage: "restrict to these algorithms"},
					&cli.BoolFlag{Name: "baseline", Usage: "add zstd and xz rows"},
					&cli.StringFlag{Name: "csv", Usage: "write all rows as CSV to `PATH`"},
					&cli.StringFlag{Name: "json", Usage: "write all rows as JSON to `PATH`"},
					&cli.StringFlag{Name: "pdf", Usage: "write a PDF report to `PATH`"},
				),
			},
			{
				Name:      "preview",
				Usage:     "Write the image or text a file turns into before compression",
				Action:    previewFile,
				ArgsUsage: "FILE",
				Flags: append(sourceFlags(),
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output `PATH`", Required: true},
				),
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "port", Usage: "listen port (default $PORT or 8080)"},
				},
			},
			{
				Name:   "info",
				Usage:  "List the supported algorithms",
				Action: printInfo,
			},
		},
	}
}

func algorithmFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "algorithm",
		Aliases:  []string{"a"},
		Usage:    "rle, huffman or lzw",
		Required: true,
	}
}

func sourceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "grayscale", Aliases: []string{"g"}, Usage: "reduce images to one luma byte per pixel"},
		&cli.BoolFlag{Name: "delta", Usage: "delta-encode image bytes"},
		&cli.IntFlag{Name: "resize", Usage: "scale images to `PERCENT` of their size"},
	}
}

func setupLogging(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return nil
}
