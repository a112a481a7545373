package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/uvalib/dspace-util-sub000/internal/export"
	"github.com/uvalib/dspace-util-sub000/internal/importitem"
	"github.com/uvalib/dspace-util-sub000/internal/orgunit"
	"github.com/uvalib/dspace-util-sub000/internal/pipeline"
	"github.com/uvalib/dspace-util-sub000/internal/render"
	"github.com/uvalib/dspace-util-sub000/internal/repoquery"
	"github.com/uvalib/dspace-util-sub000/pkg/config"
	"github.com/uvalib/dspace-util-sub000/pkg/database"
	"github.com/uvalib/dspace-util-sub000/pkg/logging"
)

func main() {
	var (
		phaseNum  = flag.Int("phase", 0, "execution phase: 0=all, 1=org-units, 2=persons, 3=publications")
		include   = flag.String("include", "", "external ids to include: comma-separated list or @file (mapfile lines accepted)")
		exclude   = flag.String("exclude", "", "external ids to exclude: comma-separated list or @file (mapfile lines accepted)")
		maxRecs   = flag.Int("max", 0, "cap on scanned records, 0 = unlimited")
		parts     = flag.Int("parts", 0, "split the batch into this many archives")
		partSize  = flag.Int("part-size", 0, "maximum items per archive")
		cached    = flag.Bool("cached", false, "use the local lookup cache instead of querying the destination")
		force     = flag.Bool("force", false, "re-queue entities already at the destination and clear stale output")
		dryRun    = flag.Bool("dry-run", false, "resolve and report, write nothing")
		strict    = flag.Bool("strict", false, "exit nonzero when the phase has nothing pending")
		sourceDir = flag.String("source", "", "export tree override")
		importDir = flag.String("import-dir", "", "import root override")
		lookups   = flag.String("lookups", "", "lookup table directory override")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logging.New("build-saf", *verbose).
		With().Str("run", uuid.NewString()).Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	if *sourceDir != "" {
		cfg.SourceDir = *sourceDir
	}
	if *importDir != "" {
		cfg.ImportDir = *importDir
	}
	if *lookups != "" {
		cfg.LookupDir = *lookups
	}

	phase, err := pipeline.ParsePhase(*phaseNum)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -phase")
	}
	if *parts > 0 && *partSize > 0 {
		log.Fatal().Msg("-parts and -part-size are mutually exclusive")
	}

	includeF, err := export.ParseFilter(*include)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -include list")
	}
	excludeF, err := export.ParseFilter(*exclude)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -exclude list")
	}

	tables, err := orgunit.LoadTables(cfg.LookupDir)
	if err != nil {
		log.Fatal().Err(err).Msg("load lookup tables failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	var source repoquery.Source
	if *cached {
		db := database.MustOpen(cfg.CachePath)
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatal().Err(err).Msg("migrate lookup cache failed")
		}
		source = repoquery.NewCache(db, log)
	} else {
		source = repoquery.NewClient(cfg.RepoBaseURL, cfg.RepoToken, cfg.PageSize, cfg.HTTPTimeout, log)
	}

	scanner := export.NewScanner(cfg.SourceDir, log)
	writer := importitem.NewWriter(cfg.ImportDir, log)
	p := pipeline.New(cfg, scanner, source, render.NewDC(), writer, tables, log)

	res, err := p.Run(ctx, pipeline.Options{
		Phase:    phase,
		Include:  includeF,
		Exclude:  excludeF,
		Max:      *maxRecs,
		Parts:    *parts,
		PartSize: *partSize,
		Force:    *force,
		DryRun:   *dryRun,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}

	report(res, log)
	os.Exit(exitCode(res, *strict))
}

func report(res *pipeline.Result, log zerolog.Logger) {
	log.Info().
		Str("phase", res.Phase.String()).
		Int("records", res.Records).
		Int("pending_org_units", res.PendingOrgUnits).
		Int("pending_persons", res.PendingPersons).
		Int("pending_publications", res.PendingPublications).
		Msg("resolution summary")

	for _, p := range res.Problems {
		log.Warn().Msg(p)
	}

	if len(res.PendingDump) > 0 {
		fmt.Fprintln(os.Stderr, "pending entities:")
		for _, line := range res.PendingDump {
			fmt.Fprintln(os.Stderr, "  "+line)
		}
	}

	if !res.OK() {
		log.Error().Str("reason", string(res.Reason)).Msg(res.Message)
		return
	}
	for _, a := range res.Archives {
		log.Info().
			Str("archive", a.Archive).
			Int("items", a.Items).
			Bool("verified", a.Verified).
			Msg("archive")
	}
	log.Info().Msgf("✅ %s", res.Message)
}

func exitCode(res *pipeline.Result, strict bool) int {
	switch res.Reason {
	case pipeline.ReasonDone:
		return 0
	case pipeline.ReasonNothingPending:
		if strict {
			return 1
		}
		return 0
	default:
		return 1
	}
}
