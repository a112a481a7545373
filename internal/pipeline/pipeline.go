// Package pipeline sequences a build run: scan the export tree, resolve
// entities into import tables, gate by phase against the destination's
// current state, materialize import items and partition them into
// archives.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"

	"github.com/uvalib/dspace-util-sub000/internal/batch"
	"github.com/uvalib/dspace-util-sub000/internal/entity"
	"github.com/uvalib/dspace-util-sub000/internal/export"
	"github.com/uvalib/dspace-util-sub000/internal/importitem"
	"github.com/uvalib/dspace-util-sub000/internal/orgunit"
	"github.com/uvalib/dspace-util-sub000/internal/person"
	"github.com/uvalib/dspace-util-sub000/internal/publication"
	"github.com/uvalib/dspace-util-sub000/internal/render"
	"github.com/uvalib/dspace-util-sub000/internal/repoquery"
	"github.com/uvalib/dspace-util-sub000/pkg/config"
	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

// Options narrows one run.
type Options struct {
	Phase    Phase
	Include  *export.Filter
	Exclude  *export.Filter
	Max      int
	Parts    int
	PartSize int
	Force    bool
	DryRun   bool
}

// Pipeline wires the run-scoped collaborators. Construct one per run;
// nothing here is safe for concurrent use.
type Pipeline struct {
	cfg      config.Config
	scanner  *export.Scanner
	source   repoquery.Source
	renderer render.Renderer
	writer   *importitem.Writer
	tables   orgunit.Tables
	log      zerolog.Logger
}

func New(cfg config.Config, scanner *export.Scanner, source repoquery.Source, renderer render.Renderer, writer *importitem.Writer, tables orgunit.Tables, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		scanner:  scanner,
		source:   source,
		renderer: renderer,
		writer:   writer,
		tables:   tables,
		log:      log.With().Str("component", "pipeline").Logger(),
	}
}

// Run executes one phase. The returned Result reports informational
// stops (nothing pending, blocked dependency, over limit); errors are
// reserved for the fatal class: destination fetch, filesystem and
// archive failures.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{Phase: opts.Phase, DryRun: opts.DryRun, Reason: ReasonDone}

	records, scanProblems, err := p.scanner.Scan(export.ScanOptions{
		Include: opts.Include,
		Exclude: opts.Exclude,
		Max:     opts.Max,
	})
	if err != nil {
		return nil, err
	}
	res.Records = len(records)
	res.Problems = append(res.Problems, scanProblems...)

	// Prefetch destination snapshots up front: primes the membership
	// gates and surfaces destination-availability problems before any
	// work happens.
	collections, err := p.fetchCollections(ctx)
	if err != nil {
		return nil, err
	}
	orgsCur, err := p.fetchCurrent(ctx, models.KindOrgUnit)
	if err != nil {
		return nil, err
	}
	personsCur := entity.Current{}
	if opts.Phase.buildsPersons() {
		if personsCur, err = p.fetchCurrent(ctx, models.KindPerson); err != nil {
			return nil, err
		}
	}

	orgRes := orgunit.NewResolver(p.cfg.HomeInstitution, p.tables, p.log)
	perRes := person.NewResolver(orgRes, p.log)
	orgTable := entity.NewTable[*orgunit.Import]("org-unit", orgunit.Merge, p.log)
	perTable := entity.NewTable[*person.Import]("person", person.Merge, p.log)

	p.resolve(records, opts, perRes, orgTable, perTable, orgsCur, personsCur, res)

	res.PendingOrgUnits = orgTable.Len()
	res.PendingPersons = perTable.Len()
	res.PendingPublications = len(records)

	if stop := p.gate(opts.Phase, res, orgTable, perTable); stop {
		return res, nil
	}

	for _, name := range p.neededCollections(opts.Phase) {
		if _, ok := collections[name]; !ok {
			res.Reason = ReasonNoCollection
			res.Message = fmt.Sprintf("collection %q not found at the destination", name)
			return res, nil
		}
	}

	if opts.DryRun {
		res.Message = fmt.Sprintf("dry run: %d org-units, %d persons, %d publications pending",
			res.PendingOrgUnits, res.PendingPersons, res.PendingPublications)
		return res, nil
	}

	if opts.Force {
		if err := p.writer.ClearRoot(); err != nil {
			return res, err
		}
	} else if err := p.writer.EnsureRoot(); err != nil {
		return res, err
	}

	var written []string
	if opts.Phase == PhaseAll || opts.Phase == PhaseOrgUnit {
		dirs, err := p.materializeOrgUnits(orgTable, p.colRef(collections, p.cfg.OrgUnitCollection))
		if err != nil {
			return res, err
		}
		written = append(written, dirs...)
	}
	if opts.Phase == PhaseAll || opts.Phase == PhasePerson {
		dirs, err := p.materializePersons(perTable, orgsCur, p.colRef(collections, p.cfg.PersonCollection))
		if err != nil {
			return res, err
		}
		written = append(written, dirs...)
	}
	if opts.Phase.buildsPublications() {
		dirs, err := p.materializePublications(records, perRes, orgsCur, personsCur,
			p.colRef(collections, p.cfg.PublicationCollection), res)
		if err != nil {
			return res, err
		}
		written = append(written, dirs...)
	}
	res.Written = len(written)

	sort.Strings(written)
	plan, err := batch.Partition(written, opts.Parts, opts.PartSize, p.cfg.MaxBatch)
	if err != nil {
		return res, err
	}
	if len(plan) > 0 {
		root := p.writer.Root()
		arch := batch.NewArchiver(root, filepath.Dir(root), filepath.Base(root), p.cfg.Verifier, p.log)
		if res.Archives, err = arch.Run(ctx, plan); err != nil {
			return res, err
		}
	}

	res.Message = fmt.Sprintf("materialized %d items into %d archives", res.Written, len(res.Archives))
	return res, nil
}

// resolve runs the single resolution pass over every record's author
// and contributor descriptors.
func (p *Pipeline) resolve(records []*export.Record, opts Options, perRes *person.Resolver,
	orgTable *entity.Table[*orgunit.Import], perTable *entity.Table[*person.Import],
	orgsCur, personsCur entity.Current, res *Result) {

	for _, rec := range records {
		authors, err := rec.LoadAuthors()
		if err != nil {
			p.log.Warn().Str("id", rec.ID).Err(err).Msg("cannot read author descriptors")
			res.Problems = append(res.Problems, fmt.Sprintf("%s: %v", rec.ID, err))
		}
		contributors, err := rec.LoadContributors()
		if err != nil {
			p.log.Warn().Str("id", rec.ID).Err(err).Msg("cannot read contributor descriptors")
			res.Problems = append(res.Problems, fmt.Sprintf("%s: %v", rec.ID, err))
		}

		for _, d := range authors {
			imp := p.register(d, opts, perRes, orgTable, perTable, orgsCur, personsCur, rec)
			if imp != nil && imp.ComputingID != "" && imp.ORCID != "" {
				rec.SetAuthorIdentity(imp.ComputingID, imp.ORCID)
			}
		}
		for _, d := range contributors {
			p.register(d, opts, perRes, orgTable, perTable, orgsCur, personsCur, rec)
		}
	}
}

// register resolves one descriptor into org and person candidates,
// honoring the destination membership gate, and attaches the
// descriptor's orgs to the record when publications will be built.
func (p *Pipeline) register(d models.PersonDescriptor, opts Options, perRes *person.Resolver,
	orgTable *entity.Table[*orgunit.Import], perTable *entity.Table[*person.Import],
	orgsCur, personsCur entity.Current, rec *export.Record) *person.Import {

	imp := perRes.Resolve(d)
	if imp == nil {
		return nil
	}
	for _, org := range imp.Orgs {
		addImport(orgTable, orgsCur, org, opts.Force, p.log)
	}
	if opts.Phase.buildsPersons() {
		addImport(perTable, personsCur, imp, opts.Force, p.log)
	}
	if opts.Phase.buildsPublications() {
		rec.AttachOrgs(imp.Key(), imp.Orgs)
	}
	return imp
}

// addImport is the idempotency gate: candidates already confirmed at
// the destination are never re-queued unless forced.
func addImport[T entity.Import](table *entity.Table[T], cur entity.Current, imp T, force bool, log zerolog.Logger) bool {
	if key := imp.Key(); key != "" && cur.Has(key) && !force {
		log.Info().Str("key", key).Str("entity", imp.Display()).Msg("already at destination, skipping")
		return false
	}
	return table.Add(imp)
}

// gate applies the informational stops: nothing pending, the phase-ALL
// batch cap, and the dependency guards with their pending dumps.
func (p *Pipeline) gate(ph Phase, res *Result,
	orgTable *entity.Table[*orgunit.Import], perTable *entity.Table[*person.Import]) bool {

	switch ph {
	case PhaseAll:
		total := res.PendingOrgUnits + res.PendingPersons + res.PendingPublications
		if total == 0 {
			res.Reason = ReasonNothingPending
			res.Message = "nothing pending at any phase"
			return true
		}
		if total > p.cfg.MaxBatch {
			hint := "run phase 1 (org-units) first"
			if res.PendingOrgUnits == 0 {
				hint = "run phase 2 (persons) first"
			}
			res.Reason = ReasonOverLimit
			res.Message = fmt.Sprintf("%d pending entities exceed the batch limit of %d; %s",
				total, p.cfg.MaxBatch, hint)
			return true
		}
	case PhaseOrgUnit:
		if res.PendingOrgUnits == 0 {
			res.Reason = ReasonNothingPending
			res.Message = "no org-units pending"
			return true
		}
	case PhasePerson:
		if res.PendingPersons == 0 {
			res.Reason = ReasonNothingPending
			res.Message = "no persons pending"
			return true
		}
	case PhasePublication:
		if res.PendingPublications == 0 {
			res.Reason = ReasonNothingPending
			res.Message = "no publications pending"
			return true
		}
	}

	if ph > PhaseOrgUnit && res.PendingOrgUnits > 0 {
		res.Reason = ReasonBlocked
		res.Message = fmt.Sprintf("%d org-units are not yet confirmed at the destination; run phase 1 first",
			res.PendingOrgUnits)
		res.PendingDump = dumpTable(orgTable)
		return true
	}
	if ph > PhasePerson && res.PendingPersons > 0 {
		res.Reason = ReasonBlocked
		res.Message = fmt.Sprintf("%d persons are not yet confirmed at the destination; run phase 2 first",
			res.PendingPersons)
		res.PendingDump = dumpTable(perTable)
		return true
	}
	return false
}

func (p *Pipeline) materializeOrgUnits(table *entity.Table[*orgunit.Import], colRef string) ([]string, error) {
	var dirs []string
	for _, org := range table.Items() {
		doc, err := p.renderer.OrgUnit(org)
		if err != nil {
			return dirs, err
		}
		files := importitem.Files{Metadata: doc}
		if colRef != "" {
			files.Collections = []string{colRef}
		}
		if err := p.writer.Write(org.Key(), files); err != nil {
			return dirs, err
		}
		dirs = append(dirs, org.Key())
	}
	p.log.Info().Int("count", len(dirs)).Msg("org-unit items written")
	return dirs, nil
}

func (p *Pipeline) materializePersons(table *entity.Table[*person.Import], orgsCur entity.Current, colRef string) ([]string, error) {
	var dirs []string
	for _, imp := range table.Items() {
		doc, err := p.renderer.Person(imp)
		if err != nil {
			return dirs, err
		}
		var rels []string
		for _, ref := range publication.OrgRefs(imp.Orgs, orgsCur) {
			rels = append(rels, "relation.isOrgUnitOfPerson "+ref.Target)
		}
		files := importitem.Files{Metadata: doc, Relationships: rels}
		if colRef != "" {
			files.Collections = []string{colRef}
		}
		if err := p.writer.Write(imp.Key(), files); err != nil {
			return dirs, err
		}
		dirs = append(dirs, imp.Key())
	}
	p.log.Info().Int("count", len(dirs)).Msg("person items written")
	return dirs, nil
}

func (p *Pipeline) materializePublications(records []*export.Record, perRes *person.Resolver,
	orgsCur, personsCur entity.Current, colRef string, res *Result) ([]string, error) {

	groups := publication.Groups{Campus: p.cfg.CampusGroup, Restricted: p.cfg.RestrictedGroup}
	asm := publication.NewAssembler(perRes, orgsCur, personsCur, groups, colRef, p.log)

	var dirs []string
	for _, rec := range records {
		it, err := asm.Assemble(rec)
		if err != nil {
			p.log.Error().Str("id", rec.ID).Err(err).Msg("cannot assemble publication, skipping record")
			res.Problems = append(res.Problems, fmt.Sprintf("%s: %v", rec.ID, err))
			continue
		}
		res.Problems = append(res.Problems, it.Problems...)

		doc, err := p.renderer.Publication(it)
		if err != nil {
			return dirs, err
		}
		files := importitem.Files{
			Metadata:      doc,
			Relationships: it.Relationships,
			Collections:   it.Collections,
		}
		for _, m := range it.Manifest {
			files.Contents = append(files.Contents, m.ContentsLine())
			files.Copies = append(files.Copies, importitem.Copy{Source: m.Source, Name: m.Name})
		}
		if err := p.writer.Write(rec.ID, files); err != nil {
			return dirs, err
		}
		dirs = append(dirs, rec.ID)
	}
	p.log.Info().Int("count", len(dirs)).Msg("publication items written")
	return dirs, nil
}

func (p *Pipeline) fetchCollections(ctx context.Context) (map[string]models.RepoEntity, error) {
	items, err := p.source.Entities(ctx, models.KindCollection)
	if err != nil {
		return nil, fmt.Errorf("fetch collections: %w", err)
	}
	return repoquery.Collections(items), nil
}

func (p *Pipeline) fetchCurrent(ctx context.Context, kind string) (entity.Current, error) {
	items, err := p.source.Entities(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("fetch %s entities: %w", kind, err)
	}
	return repoquery.BuildCurrent(kind, items, p.log), nil
}

func (p *Pipeline) neededCollections(ph Phase) []string {
	switch ph {
	case PhaseOrgUnit:
		return []string{p.cfg.OrgUnitCollection}
	case PhasePerson:
		return []string{p.cfg.PersonCollection}
	case PhasePublication:
		return []string{p.cfg.PublicationCollection}
	default:
		return []string{p.cfg.OrgUnitCollection, p.cfg.PersonCollection, p.cfg.PublicationCollection}
	}
}

// colRef resolves a collection display name to the line written into
// item collections files, preferring the persistent handle.
func (p *Pipeline) colRef(cols map[string]models.RepoEntity, name string) string {
	e, ok := cols[name]
	if !ok {
		return ""
	}
	if e.Handle != "" {
		return e.Handle
	}
	return e.UUID
}

func dumpTable[T entity.Import](t *entity.Table[T]) []string {
	items := t.Items()
	lines := make([]string, 0, len(items))
	for _, imp := range items {
		lines = append(lines, imp.Key()+"\t"+imp.Display())
	}
	return lines
}
