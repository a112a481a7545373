package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/uvalib/dspace-util-sub000/internal/batch"
	"github.com/uvalib/dspace-util-sub000/pkg/config"
	"github.com/uvalib/dspace-util-sub000/pkg/logging"
)

func main() {
	var (
		importDir = flag.String("import-dir", "", "import root containing the item directories")
		outDir    = flag.String("out", "", "directory for the archives (default: alongside the import root)")
		base      = flag.String("base", "", "archive base name (default: import root name)")
		parts     = flag.Int("parts", 0, "split into this many archives")
		partSize  = flag.Int("part-size", 0, "maximum items per archive")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logging.New("zip-saf", *verbose)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	if *importDir != "" {
		cfg.ImportDir = *importDir
	}
	if *parts > 0 && *partSize > 0 {
		log.Fatal().Msg("-parts and -part-size are mutually exclusive")
	}

	items, err := batch.ListItems(cfg.ImportDir)
	if err != nil {
		log.Fatal().Err(err).Msg("list items failed")
	}
	if len(items) == 0 {
		log.Warn().Str("root", cfg.ImportDir).Msg("no item directories found, nothing to do")
		return
	}

	plan, err := batch.Partition(items, *parts, *partSize, cfg.MaxBatch)
	if err != nil {
		log.Fatal().Err(err).Msg("partition failed")
	}

	od := *outDir
	if od == "" {
		od = filepath.Dir(cfg.ImportDir)
	}
	bs := *base
	if bs == "" {
		bs = filepath.Base(cfg.ImportDir)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	arch := batch.NewArchiver(cfg.ImportDir, od, bs, cfg.Verifier, log)
	results, err := arch.Run(ctx, plan)
	if err != nil {
		log.Fatal().Err(err).Msg("archive failed")
	}

	ok := true
	for _, r := range results {
		if !r.Verified {
			ok = false
			log.Error().Str("archive", r.Archive).Str("output", r.VerifyOutput).Msg("verification failed")
		}
	}
	if !ok {
		os.Exit(1)
	}
	log.Info().Int("items", len(items)).Int("archives", len(results)).Msg("✅ batch zipped")
}
