package sqlemit

import (
	"strings"

	"github.com/JonMunkholm/bookingsql/internal/core"
	"github.com/JonMunkholm/bookingsql/internal/schema"
)

func writeBrands(sw *sqlWriter, brands []string, opts Options) {
	if len(brands) == 0 {
		return
	}

	sw.line("-- Brands")
	batches(len(brands), opts.BatchSize, func(_, start, end int) {
		rows := make([]string, 0, end-start)
		for _, b := range brands[start:end] {
			rows = append(rows, "("+Quote(b)+")")
		}
		sw.printf("INSERT INTO %s (%s) VALUES\n  %s\nON CONFLICT (name) DO NOTHING;\n",
			schema.TableBrands, strings.Join(schema.BrandColumns, ", "), strings.Join(rows, ",\n  "))
	})
	sw.line("")
}

func writeInfluencers(sw *sqlWriter, influencers []core.Influencer, opts Options) {
	if len(influencers) == 0 {
		return
	}

	onConflict := "ON CONFLICT (instagram_handle) DO NOTHING;"
	if opts.Conflict == ConflictUpsert {
		onConflict = "ON CONFLICT (instagram_handle) DO UPDATE SET name = EXCLUDED.name;"
	}

	sw.line("-- Influencers")
	batches(len(influencers), opts.BatchSize, func(_, start, end int) {
		rows := make([]string, 0, end-start)
		for _, inf := range influencers[start:end] {
			rows = append(rows, "("+Quote(inf.Name)+", "+Quote(inf.Handle)+", "+Quote(schema.DefaultInfluencerStatus)+")")
		}
		sw.printf("INSERT INTO %s (%s) VALUES\n  %s\n%s\n",
			schema.TableInfluencers, strings.Join(schema.InfluencerColumns, ", "), strings.Join(rows, ",\n  "), onConflict)
	})
	sw.line("")
}
