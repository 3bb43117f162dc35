package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"course-synergy/internal/config"
	"course-synergy/internal/dictionary"
	"course-synergy/internal/domain"
	"course-synergy/internal/export"
	"course-synergy/internal/keywords"
	"course-synergy/internal/logger"
	"course-synergy/internal/providers"
	"course-synergy/internal/providers/csvfile"
	"course-synergy/internal/similarity"
)

func main() {
	var (
		pathA   = flag.String("a", "", "source A export (default SOURCE_A_PATH)")
		pathB   = flag.String("b", "", "source B export (default SOURCE_B_PATH)")
		rules   = flag.String("rules", "", "keyword rules YAML (default KEYWORD_RULES_PATH)")
		outPath = flag.String("out", "out/dictionary.csv", "dictionary path (.br = brotli)")
		timeout = flag.Duration("timeout", 5*time.Minute, "overall timeout")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log = log.With(zap.String("run_id", uuid.NewString()), zap.String("cmd", "dictionary"))
	defer log.Sync()

	if *pathA != "" {
		cfg.SourceA.Path = *pathA
	}
	if *pathB != "" {
		cfg.SourceB.Path = *pathB
	}
	if *rules != "" {
		cfg.KeywordRulesPath = *rules
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	n, err := buildDictionary(ctx, cfg, *outPath)
	if err != nil {
		log.Fatal("dictionary failed", zap.Error(err))
	}
	log.Info("dictionary written",
		zap.String("path", *outPath),
		zap.Int("pairs", n.pairs),
		zap.Int("orphans", n.orphans),
	)
}

type counts struct {
	pairs, orphans int
}

func buildDictionary(ctx context.Context, cfg config.Config, outPath string) (counts, error) {
	extractor := keywords.NewDefault()
	if cfg.KeywordRulesPath != "" {
		r, err := keywords.LoadRules(cfg.KeywordRulesPath)
		if err != nil {
			return counts{}, err
		}
		extractor = keywords.New(r)
	}

	a := csvfile.Loader{Provider: cfg.SourceA.Name, Source: domain.SourceA, Path: cfg.SourceA.Path}
	b := csvfile.Loader{Provider: cfg.SourceB.Name, Source: domain.SourceB, Path: cfg.SourceB.Path}
	coursesA, coursesB, err := providers.LoadPair(ctx, a, b)
	if err != nil {
		return counts{}, err
	}

	rows := dictionary.Build(dictionary.TitlesOf(coursesA), dictionary.TitlesOf(coursesB), similarity.New(extractor))

	var n counts
	for _, r := range rows {
		if r.Paired() {
			n.pairs++
		} else {
			n.orphans++
		}
	}

	err = export.WriteFile(outPath, func(w io.Writer) error {
		return export.WriteDictionaryCSV(w, rows)
	})
	return n, err
}
