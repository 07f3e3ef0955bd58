package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"maps"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/futig/qagen/internal/builder"
	"github.com/futig/qagen/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

func main() {
	input := flag.String("input", "", "Path to the document to process (required)")
	isPDF := flag.Bool("pdf", false, "Treat the input as PDF regardless of its extension")
	chunkSize := flag.Int("chunk-size", 0, "Characters per chunk (500-4000, default from CHUNK_SIZE)")
	overlap := flag.Int("overlap", -1, "Characters shared by adjacent chunks (50-500, default from CHUNK_OVERLAP)")
	formats := flag.String("formats", "", "Comma separated output formats, e.g. csv,json (default from OUTPUT_FORMATS)")
	apiKey := flag.String("api-key", "", "Backend API key overriding the configured one")

	cli, err := builder.BuildCLI()
	if err != nil {
		log.Fatal("Failed to build application:", err)
	}
	defer cli.Close()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "-input is required")
		flag.Usage()
		os.Exit(2)
	}

	opts := entity.ProcessOptions{
		ChunkSize: *chunkSize,
		IsPDF:     *isPDF,
		APIKey:    *apiKey,
	}
	if *overlap >= 0 {
		opts = opts.WithOverlap(*overlap)
	}

	if err := run(cli, *input, *formats, opts); err != nil {
		cli.Logger().Error("processing failed", zap.Error(err))
		cli.Close()
		os.Exit(1)
	}
}

func run(cli *builder.CLI, input, formatList string, opts entity.ProcessOptions) error {
	if err := opts.ValidateRange(); err != nil {
		return err
	}

	var formats []entity.OutputFormat
	if formatList != "" {
		var err error
		formats, err = entity.ParseOutputFormats(strings.Split(formatList, ","))
		if err != nil {
			return err
		}
	}

	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("%w: %w", entity.ErrInvalidFile, err)
	}

	if _, err := cli.Validator().ValidateDocument(filepath.Base(input), info.Size(), opts.IsPDF); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = ctxzap.ToContext(ctx, cli.Logger())

	runInfo, ds, err := cli.Usecase().ProcessDocument(ctx, entity.Document{
		Filename: filepath.Base(input),
		Path:     input,
	}, opts, formats)

	if runInfo != nil {
		fmt.Println(runInfo.Message)
	}
	if err != nil {
		return err
	}

	if ds != nil && ds.Digest != "" {
		fmt.Printf("Digest: %s\n", ds.Digest)
	}
	for _, f := range slices.Sorted(maps.Keys(runInfo.Artifacts)) {
		fmt.Printf("%s: %s\n", strings.ToUpper(string(f)), runInfo.Artifacts[f])
	}

	return nil
}
