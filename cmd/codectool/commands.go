package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/adilg123/rle-huffman-lzw/internal/api"
	"github.com/adilg123/rle-huffman-lzw/internal/compression"
	"github.com/adilg123/rle-huffman-lzw/internal/config"
	"github.com/adilg123/rle-huffman-lzw/internal/history"
	"github.com/adilg123/rle-huffman-lzw/internal/report"
	"github.com/adilg123/rle-huffman-lzw/internal/source"
	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli/v2"
)

// compareRow is one exported comparison row, tagged with its input file.
type compareRow struct {
	File string `json:"file" csv:"file"`
	compression.Result
}

func singleFile(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", cli.Exit(fmt.Sprintf("%s needs exactly one FILE", c.Command.Name), 2)
	}
	return c.Args().First(), nil
}

func compressFile(c *cli.Context) error {
	path, err := singleFile(c)
	if err != nil {
		return err
	}
	algorithm := c.String("algorithm")
	factory, err := compression.Factory(algorithm)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	compressed, stats, err := compression.Compress(data, compression.Options{Algorithm: algorithm})
	if err != nil {
		return err
	}

	output := c.String("output")
	if output == "" {
		output = path + "." + factory.Extension()
	}
	if err := os.WriteFile(output, compressed, 0o644); err != nil {
		return err
	}
	slog.Debug("compressed", "algorithm", algorithm, "input", path, "output", output, "duration", stats.Duration)

	fmt.Fprintf(c.App.Writer, "%s -> %s: %s -> %s (ratio %.4f, %.2f%% saved)\n",
		path, output,
		report.FormatSize(stats.OriginalSize), report.FormatSize(stats.ProcessedSize),
		stats.CompressionRatio, stats.SpaceSavings)
	return nil
}

func decompressFile(c *cli.Context) error {
	path, err := singleFile(c)
	if err != nil {
		return err
	}
	algorithm := c.String("algorithm")
	factory, err := compression.Factory(algorithm)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	restored, stats, err := compression.Decompress(data, compression.Options{Algorithm: algorithm})
	if err != nil {
		return err
	}

	output := c.String("output")
	if output == "" {
		output = restoredPath(path, factory.Extension())
	}
	if err := os.WriteFile(output, restored, 0o644); err != nil {
		return err
	}
	slog.Debug("decompressed", "algorithm", algorithm, "input", path, "output", output, "duration", stats.Duration)

	fmt.Fprintf(c.App.Writer, "%s -> %s: %s restored\n", path, output, report.FormatSize(stats.OriginalSize))
	return nil
}

// restoredPath drops the extension compress added, or appends ".out".
func restoredPath(path, extension string) string {
	if trimmed := strings.TrimSuffix(path, "."+extension); trimmed != path && trimmed != "" {
		return trimmed
	}
	return path + ".out"
}

func compareFiles(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.Exit("compare needs at least one FILE", 2)
	}
	cfg := config.Load()

	options := compression.CompareOptions{
		Algorithms: c.StringSlice("algorithm"),
		Baselines:  c.Bool("baseline") || cfg.CompareBaselines,
	}
	for _, algorithm := range options.Algorithms {
		if !compression.IsValidAlgorithm(algorithm) {
			return cli.Exit(fmt.Sprintf("unsupported algorithm: %s", algorithm), 2)
		}
	}
	rowsPerFile := len(options.Algorithms)
	if rowsPerFile == 0 {
		rowsPerFile = len(compression.SupportedAlgorithms)
	}
	if options.Baselines {
		rowsPerFile += len(compression.GetBaselines())
	}
	sourceOptions := sourceOptions(c)

	bar := pb.New(rowsPerFile * c.NArg())
	bar.SetWriter(c.App.ErrWriter)
	bar.Start()
	options.Progress = func(compression.Result) { bar.Increment() }

	type fileResults struct {
		path    string
		data    *source.Data
		results []compression.Result
	}
	var (
		done []fileResults
		rows []compareRow
		errs *multierror.Error
	)
	for _, path := range c.Args().Slice() {
		data, err := source.Load(path, sourceOptions)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
			bar.Add(rowsPerFile)
			continue
		}
		results, err := compression.Compare(c.Context, data.Symbols, options)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", path, err))
		}
		done = append(done, fileResults{path: path, data: data, results: results})
		for _, result := range results {
			rows = append(rows, compareRow{File: path, Result: result})
		}
	}
	bar.Finish()

	heading := color.New(color.Bold)
	best := color.New(color.FgCyan)
	for _, f := range done {
		heading.Fprintf(c.App.Writer, "\n%s (%s, %d symbols)\n", f.path, f.data.FileType, len(f.data.Symbols))
		if err := report.Table(c.App.Writer, f.results); err != nil {
			return err
		}
		if winner, ok := report.Best(f.results); ok {
			best.Fprintf(c.App.Writer, "best: %s (%.2f%% saved)\n", winner.Algorithm, winner.SpaceSavingPercent)
		}
	}

	if path := c.String("csv"); path != "" {
		if err := writeFile(path, func(f *os.File) error { return report.WriteCSV(f, rows) }); err != nil {
			return err
		}
	}
	if path := c.String("json"); path != "" {
		if err := writeFile(path, func(f *os.File) error { return report.WriteJSON(f, rows) }); err != nil {
			return err
		}
	}
	if path := c.String("pdf"); path != "" {
		sections := make([]report.PDFSection, 0, len(done))
		for _, f := range done {
			sections = append(sections, report.PDFSection{
				Title:   fmt.Sprintf("%s (%s, %d symbols)", filepath.Base(f.path), f.data.FileType, len(f.data.Symbols)),
				Results: f.results,
			})
		}
		write := func(f *os.File) error {
			return report.WriteComparisonPDF(f, "Algorithm Comparison Report", sections)
		}
		if err := writeFile(path, write); err != nil {
			return err
		}
	}
	return errs.ErrorOrNil()
}

func sourceOptions(c *cli.Context) source.Options {
	return source.Options{
		Grayscale:     c.Bool("grayscale"),
		Delta:         c.Bool("delta"),
		ResizePercent: c.Int("resize"),
	}
}

// previewFile writes back what the codecs would see for FILE.
func previewFile(c *cli.Context) error {
	path, err := singleFile(c)
	if err != nil {
		return err
	}
	data, err := source.Load(path, sourceOptions(c))
	if err != nil {
		return err
	}
	output := c.String("output")
	if err := writeFile(output, func(f *os.File) error { return data.Reconstruct(f) }); err != nil {
		return err
	}
	if data.FileType == source.Image {
		fmt.Fprintf(c.App.Writer, "%s -> %s: %dx%d, %d channels, %d symbols\n",
			path, output, data.Width, data.Height, data.Channels, len(data.Symbols))
		return nil
	}
	fmt.Fprintf(c.App.Writer, "%s -> %s: %s, %d symbols\n", path, output, data.FileType, len(data.Symbols))
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func serve(c *cli.Context) error {
	cfg := config.Load()
	if port := c.String("port"); port != "" {
		cfg.Port = port
	}
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	store := history.NewMemoryStore()
	router := gin.Default()
	api.SetupRoutes(router, api.NewHandlers(cfg, store))

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go pruneHistory(ctx, store, cfg.HistoryRetention)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()
	slog.Info("listening", "addr", server.Addr, "environment", cfg.Environment)

	select {
	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// pruneHistory drops records past the retention period once an hour.
func pruneHistory(ctx context.Context, store history.Store, retention time.Duration) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := store.ClearOlderThan(retention)
			if err != nil {
				slog.Warn("history cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("history cleanup", "removed", removed)
			}
		}
	}
}

func printInfo(c *cli.Context) error {
	name := color.New(color.Bold).SprintFunc()
	for _, algorithm := range compression.GetSupportedAlgorithms() {
		factory, _ := compression.Factory(algorithm)
		fmt.Fprintf(c.App.Writer, "%-8s .%-5s %s\n", name(algorithm), factory.Extension(), factory.Description())
	}
	fmt.Fprintf(c.App.Writer, "baselines: %s\n", strings.Join(compression.GetBaselines(), ", "))
	return nil
}
