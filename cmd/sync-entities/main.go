package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/uvalib/dspace-util-sub000/internal/repoquery"
	"github.com/uvalib/dspace-util-sub000/pkg/config"
	"github.com/uvalib/dspace-util-sub000/pkg/database"
	"github.com/uvalib/dspace-util-sub000/pkg/logging"
	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

func main() {
	var (
		kinds   = flag.String("kinds", "Collection,OrgUnit,Person", "comma-separated entity kinds to refresh")
		list    = flag.Bool("list", false, "print the cached entities instead of refreshing")
		verbose = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	log := logging.New("sync-entities", *verbose)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load config failed")
	}

	wanted, err := parseKinds(*kinds)
	if err != nil {
		log.Fatal().Err(err).Msg("bad -kinds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db := database.MustOpen(cfg.CachePath)
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migrate lookup cache failed")
	}
	cache := repoquery.NewCache(db, log)

	if *list {
		for _, kind := range wanted {
			entries, err := cache.Dump(ctx, kind)
			if err != nil {
				log.Fatal().Err(err).Msg("read cache failed")
			}
			last, err := cache.LastSync(ctx, kind)
			if err != nil {
				log.Fatal().Err(err).Msg("read cache failed")
			}
			log.Info().Str("kind", kind).Int("entities", len(entries)).Time("fetched", last).Msg("cached")
			for _, ce := range entries {
				fmt.Printf("%s\t%s\t%s\t%s\n", ce.Kind, ce.Key, ce.Entity.UUID, ce.Entity.Name)
			}
		}
		return
	}

	client := repoquery.NewClient(cfg.RepoBaseURL, cfg.RepoToken, cfg.PageSize, cfg.HTTPTimeout, log)
	for _, kind := range wanted {
		items, err := client.Entities(ctx, kind)
		if err != nil {
			log.Fatal().Err(err).Msgf("fetch %s failed", kind)
		}
		if err := cache.Save(ctx, kind, items); err != nil {
			log.Fatal().Err(err).Msgf("cache %s failed", kind)
		}
	}
	log.Info().Str("cache", cfg.CachePath).Msg("✅ lookup cache refreshed")
}

// parseKinds validates the kind list against the kinds the destination
// models.
func parseKinds(raw string) ([]string, error) {
	canonical := map[string]string{
		"collection":  models.KindCollection,
		"orgunit":     models.KindOrgUnit,
		"person":      models.KindPerson,
		"publication": models.KindPublication,
	}
	var out []string
	for _, k := range strings.Split(raw, ",") {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		kind, ok := canonical[strings.ToLower(k)]
		if !ok {
			return nil, fmt.Errorf("unknown entity kind %q", k)
		}
		out = append(out, kind)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no entity kinds given")
	}
	return out, nil
}
