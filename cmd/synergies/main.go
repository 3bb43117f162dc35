package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"course-synergy/internal/config"
	"course-synergy/internal/domain"
	"course-synergy/internal/export"
	"course-synergy/internal/keywords"
	"course-synergy/internal/logger"
	"course-synergy/internal/matcher"
	"course-synergy/internal/providers"
	"course-synergy/internal/providers/csvfile"
	"course-synergy/internal/sftpclient"
	"course-synergy/internal/similarity"
	"course-synergy/internal/synergy"
)

type options struct {
	pathA, pathB string
	mode         string
	rules        string
	out          string
	from         time.Time
	upload       bool
	timeout      time.Duration
}

func parseFlags(args []string, cfg config.Config, now time.Time) (options, error) {
	fs := flag.NewFlagSet("synergies", flag.ContinueOnError)
	var (
		pathA   = fs.String("a", cfg.SourceA.Path, "source A export (path or URL)")
		pathB   = fs.String("b", cfg.SourceB.Path, "source B export (path or URL)")
		mode    = fs.String("mode", string(cfg.MatchMode), "matching mode: greedy | global")
		rules   = fs.String("rules", cfg.KeywordRulesPath, "keyword rules YAML (empty = built-in table)")
		out     = fs.String("out", "out/synergies.csv", "report path (.br = brotli)")
		from    = fs.String("from", "", "keep courses starting on/after YYYY-MM-DD, or \"today\"")
		upload  = fs.Bool("sftp", false, "upload the report via SFTP")
		timeout = fs.Duration("timeout", 10*time.Minute, "overall timeout")
	)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	o := options{
		pathA:   *pathA,
		pathB:   *pathB,
		mode:    *mode,
		rules:   *rules,
		out:     *out,
		upload:  *upload,
		timeout: *timeout,
	}
	switch *from {
	case "":
	case "today":
		o.from = now
	default:
		t, err := time.Parse("2006-01-02", *from)
		if err != nil {
			return options{}, fmt.Errorf("invalid -from %q: %w", *from, err)
		}
		o.from = t
	}
	if o.pathA == "" || o.pathB == "" {
		return options{}, fmt.Errorf("both sources are required (-a/-b or SOURCE_A_PATH/SOURCE_B_PATH)")
	}
	return o, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := newRunLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	opts, err := parseFlags(os.Args[1:], cfg, time.Now())
	if err != nil {
		log.Fatal("bad arguments", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.timeout)
	defer cancel()

	if err := run(ctx, cfg, opts, log); err != nil {
		log.Fatal("run failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, opts options, log *zap.Logger) error {
	mode, err := matcher.ParseMode(opts.mode)
	if err != nil {
		return err
	}
	judge, err := newJudge(opts.rules)
	if err != nil {
		return err
	}

	a := csvfile.Loader{Provider: cfg.SourceA.Name, Source: domain.SourceA, Path: opts.pathA, From: opts.from}
	b := csvfile.Loader{Provider: cfg.SourceB.Name, Source: domain.SourceB, Path: opts.pathB, From: opts.from}

	coursesA, coursesB, err := providers.LoadPair(ctx, a, b)
	if err != nil {
		return err
	}
	log.Info("sources loaded",
		zap.String("source_a", a.Name()), zap.Int("courses_a", len(coursesA)),
		zap.String("source_b", b.Name()), zap.Int("courses_b", len(coursesB)),
	)

	engine := synergy.New(judge, cfg.MatchOptions())
	entries := engine.Assemble(slices.Concat(coursesA, coursesB), mode)

	sum := synergy.Summarize(entries)
	fields := []zap.Field{
		zap.String("mode", string(mode)),
		zap.Int("entries", sum.Entries),
		zap.Int("groups", sum.Groups),
		zap.Int("singletons", sum.Singletons),
	}
	for _, c := range synergy.Categories {
		st := sum.Categories[c]
		fields = append(fields, zap.Int(string(c), st.Groups), zap.Int(string(c)+"_students_to_move", st.StudentsToMove))
	}
	log.Info("synergies resolved", fields...)

	if err := export.WriteFile(opts.out, func(w io.Writer) error {
		return export.WriteSynergyCSV(w, entries)
	}); err != nil {
		return err
	}
	log.Info("report written", zap.String("path", opts.out))

	if !opts.upload {
		return nil
	}
	return upload(ctx, cfg, opts.out, log)
}

func newJudge(rulesPath string) (*similarity.Judge, error) {
	if rulesPath == "" {
		return similarity.New(keywords.NewDefault()), nil
	}
	rules, err := keywords.LoadRules(rulesPath)
	if err != nil {
		return nil, err
	}
	return similarity.New(keywords.New(rules)), nil
}

func upload(ctx context.Context, cfg config.Config, path string, log *zap.Logger) error {
	upCfg := sftpclient.Config{
		Host:                  cfg.SFTPHost,
		Port:                  cfg.SFTPPort,
		User:                  cfg.SFTPUser,
		Pass:                  cfg.SFTPPass,
		RemoteDir:             cfg.SFTPDir,
		KnownHostsPath:        cfg.SFTPKnownHosts,
		InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
	}

	upCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	remoteName := filepath.Base(path)
	if err := sftpclient.UploadFile(upCtx, upCfg, path, remoteName); err != nil {
		return err
	}
	log.Info("report uploaded", zap.String("host", upCfg.Host), zap.String("dir", upCfg.RemoteDir), zap.String("file", remoteName))
	return nil
}

func newRunLogger(cfg config.Config) (*zap.Logger, error) {
	l, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}
	return l.With(zap.String("run_id", uuid.NewString()), zap.String("cmd", "synergies")), nil
}
