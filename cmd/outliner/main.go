package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/dgallion1/outliner/internal/classify"
	"github.com/dgallion1/outliner/internal/pipeline"
	"github.com/dgallion1/outliner/internal/score"
	"github.com/dgallion1/outliner/internal/source"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

func main() {
	app := &cli.App{
		Name:  "outliner",
		Usage: "extract document outlines (title plus H1-H3 headings) as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "weights",
				Usage: "YAML file overriding the scoring weights",
			},
			&cli.Float64Flag{
				Name:  "cutoff",
				Usage: "minimum heading confidence",
				Value: 0.45,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log progress to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "file",
				Usage:     "extract one document's outline to stdout",
				ArgsUsage: "<path>",
				Action:    runFile,
			},
			{
				Name:  "process",
				Usage: "extract outlines for every document in a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Usage:    "directory of input documents",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "output",
						Usage:    "directory for the JSON outlines",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "concurrent documents",
						Value: 4,
					},
				},
				Action: runProcess,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func buildEngine(c *cli.Context) (*classify.Engine, error) {
	weights := score.DefaultWeights()
	if path := c.String("weights"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read weights file: %w", err)
		}
		if err := yaml.Unmarshal(data, &weights); err != nil {
			return nil, fmt.Errorf("parse weights file: %w", err)
		}
		if err := weights.Validate(); err != nil {
			return nil, fmt.Errorf("weights file %s: %w", path, err)
		}
	}
	return classify.NewEngine(classify.Options{
		Weights: weights,
		Cutoff:  c.Float64("cutoff"),
	}), nil
}

func logger(c *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func runFile(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one input path")
	}
	path := c.Args().First()

	engine, err := buildEngine(c)
	if err != nil {
		return err
	}

	ext, err := source.ForFile(path, engine)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	res, err := ext.Extract(f, path)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Outline)
}

func runProcess(c *cli.Context) error {
	engine, err := buildEngine(c)
	if err != nil {
		return err
	}
	log := logger(c)

	runner := &pipeline.Runner{
		Engine:  engine,
		Log:     log,
		Workers: c.Int("workers"),
	}
	summary, err := runner.Run(c.Context, c.String("input"), c.String("output"))
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "processed %d files (%d ok, %d degraded) in %s\n",
		summary.Processed, summary.Succeeded, summary.Failed, summary.Elapsed.Round(time.Millisecond))
	return nil
}
