package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/uvalib/dspace-util-sub000/internal/entity"
	"github.com/uvalib/dspace-util-sub000/internal/export"
	"github.com/uvalib/dspace-util-sub000/internal/orgunit"
	"github.com/uvalib/dspace-util-sub000/internal/person"
	"github.com/uvalib/dspace-util-sub000/internal/publication"
	"github.com/uvalib/dspace-util-sub000/pkg/config"
	"github.com/uvalib/dspace-util-sub000/pkg/logging"
)

// report is the JSON summary written for operator inspection before a
// real build run.
type report struct {
	Source              string         `json:"source"`
	ScannedAt           time.Time      `json:"scanned_at"`
	Records             int            `json:"records"`
	PendingOrgUnits     int            `json:"pending_org_units"`
	PendingPersons      int            `json:"pending_persons"`
	PendingPublications int            `json:"pending_publications"`
	ContentFiles        int            `json:"content_files"`
	OrgUnits            []reportEntity `json:"org_units"`
	Persons             []reportEntity `json:"persons"`
	Problems            []string       `json:"problems,omitempty"`
}

type reportEntity struct {
	Key     string `json:"key"`
	Display string `json:"display"`
}

func main() {
	var (
		sourceDir = flag.String("source", "", "export tree override")
		include   = flag.String("include", "", "external ids to include: comma-separated list or @file")
		exclude   = flag.String("exclude", "", "external ids to exclude: comma-separated list or @file")
		maxRecs   = flag.Int("max", 0, "cap on scanned records, 0 = unlimited")
		lookups   = flag.String("lookups", "", "lookup table directory override")
		out       = flag.String("out", "", "report file (default: stdout)")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logging.New("inspect-export", *verbose)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}
	if *sourceDir != "" {
		cfg.SourceDir = *sourceDir
	}
	if *lookups != "" {
		cfg.LookupDir = *lookups
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

	scanner := export.NewScanner(cfg.SourceDir, log)
	records, scanProblems, err := scanner.Scan(export.ScanOptions{Include: includeF, Exclude: excludeF, Max: *maxRecs})
	if err != nil {
		log.Fatal().Err(err).Msg("scan failed")
	}

	rep := buildReport(cfg, records, tables, log)
	rep.Problems = append(scanProblems, rep.Problems...)
	rep.Source = cfg.SourceDir
	rep.ScannedAt = time.Now().UTC()

	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("encode report failed")
	}
	data = append(data, '\n')

	if *out == "" {
		os.Stdout.Write(data)
	} else if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal().Err(err).Msg("write report failed")
	} else {
		log.Info().Str("report", *out).Msg("report written")
	}
}

// buildReport runs the resolution pass without destination gating, then
// dry-assembles every publication to surface content problems.
func buildReport(cfg config.Config, records []*export.Record, tables orgunit.Tables, log zerolog.Logger) *report {
	orgRes := orgunit.NewResolver(cfg.HomeInstitution, tables, log)
	perRes := person.NewResolver(orgRes, log)
	orgTable := entity.NewTable[*orgunit.Import]("org-unit", orgunit.Merge, log)
	perTable := entity.NewTable[*person.Import]("person", person.Merge, log)

	rep := &report{Records: len(records), PendingPublications: len(records)}

	groups := publication.Groups{Campus: cfg.CampusGroup, Restricted: cfg.RestrictedGroup}
	asm := publication.NewAssembler(perRes, entity.Current{}, entity.Current{}, groups, "", log)

	for _, rec := range records {
		authors, err := rec.LoadAuthors()
		if err != nil {
			rep.Problems = append(rep.Problems, fmt.Sprintf("%s: %v", rec.ID, err))
		}
		contributors, err := rec.LoadContributors()
		if err != nil {
			rep.Problems = append(rep.Problems, fmt.Sprintf("%s: %v", rec.ID, err))
		}
		for _, d := range append(authors, contributors...) {
			imp := perRes.Resolve(d)
			if imp == nil {
				continue
			}
			for _, org := range imp.Orgs {
				orgTable.Add(org)
			}
			perTable.Add(imp)
			rec.AttachOrgs(imp.Key(), imp.Orgs)
		}

		it, err := asm.Assemble(rec)
		if err != nil {
			rep.Problems = append(rep.Problems, fmt.Sprintf("%s: %v", rec.ID, err))
			continue
		}
		rep.Problems = append(rep.Problems, it.Problems...)
		rep.ContentFiles += len(it.Manifest)
	}

	rep.PendingOrgUnits = orgTable.Len()
	rep.PendingPersons = perTable.Len()
	for _, o := range orgTable.Items() {
		rep.OrgUnits = append(rep.OrgUnits, reportEntity{Key: o.Key(), Display: o.Display()})
	}
	for _, p := range perTable.Items() {
		rep.Persons = append(rep.Persons, reportEntity{Key: p.Key(), Display: p.Display()})
	}
	return rep
}
