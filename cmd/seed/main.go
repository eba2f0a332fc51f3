package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"museumdash/internal/collection"
	"museumdash/internal/config"
	"museumdash/internal/identity"
	"museumdash/internal/platform/logger"
)

type sampleArtist struct {
	name     string
	gender   identity.Gender // empty draws from the weighted distribution
	heritage string
}

var artists = []sampleArtist{
	{"Mary Cassatt", identity.GenderFemale, identity.RegionNorthAmerican},
	{"Pablo Picasso", "", identity.RegionEuropean},
	{"Frida Kahlo", identity.GenderFemale, identity.RegionLatinAmerican},
	{"Vincent van Gogh", "", identity.RegionEuropean},
	{"Georgia O'Keeffe", identity.GenderFemale, identity.RegionNorthAmerican},
	{"Claude Monet", "", identity.RegionEuropean},
	{"Yayoi Kusama", identity.GenderFemale, identity.RegionEastAsian},
	{"Jean-Michel Basquiat", "", identity.RegionAfrican},
	{"Louise Bourgeois", identity.GenderFemale, identity.RegionEuropean},
	{"Jackson Pollock", "", identity.RegionNorthAmerican},
	{"Kara Walker", identity.GenderFemale, identity.RegionAfrican},
	{"Kehinde Wiley", "", identity.RegionAfrican},
	{"Amy Tan", "", identity.RegionEastAsian},
	{"Ai Weiwei", "", identity.RegionEastAsian},
	{"Banksy", identity.GenderUnknown, identity.RegionEuropean},
	{"Kaws", "", identity.RegionNorthAmerican},
	{"Takashi Murakami", "", identity.RegionEastAsian},
	{"Kerry James Marshall", "", identity.RegionAfrican},
	{"Cindy Sherman", identity.GenderFemale, identity.RegionNorthAmerican},
	{"Jeff Koons", "", identity.RegionNorthAmerican},
	{"Jaune Quick-to-See Smith", identity.GenderFemale, identity.RegionIndigenous},
	{"Kent Monkman", "", identity.RegionIndigenous},
}

var (
	departments = []string{"Painting", "Sculpture", "Photography", "Prints & Drawings", "Contemporary Art", "Decorative Arts"}
	mediums     = []string{"Oil on canvas", "Watercolor", "Bronze", "Photography", "Mixed media", "Lithograph"}
)

const (
	firstAcqYear = 1950
	lastAcqYear  = 2024
)

func main() {
	var (
		output   = flag.String("output", "", "Output CSV path (default ENRICH_INPUT_PATH, or ENRICH_OUTPUT_PATH with -enriched)")
		count    = flag.Int("count", 500, "Number of artworks to generate")
		seed     = flag.Uint64("seed", 42, "Random seed")
		enriched = flag.Bool("enriched", false, "Write gender and heritage columns so the dashboard can load the file directly")
	)
	flag.Parse()

	config.LoadEnvFiles()
	log, err := logger.New(config.String("APP_ENV", "dev"))
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	path := *output
	if path == "" {
		if *enriched {
			path = config.String("ENRICH_OUTPUT_PATH", "data/collection_enriched.csv")
		} else {
			path = config.String("ENRICH_INPUT_PATH", "data/collection.csv")
		}
	}

	records := generate(rand.New(rand.NewPCG(*seed, 0)), *count)
	if *enriched {
		err = collection.WriteFile(path, nil, records)
	} else {
		err = writePlain(path, records)
	}
	if err != nil {
		log.Fatal("failed to write sample collection", "path", path, "error", err)
	}
	log.Info("sample collection written", "path", path, "artworks", len(records), "enriched", *enriched)
}

// generate builds n artworks whose acquisitions grow exponentially
// toward recent years.
func generate(r *rand.Rand, n int) []collection.EnrichedRecord {
	weights := make([]float64, 0, lastAcqYear-firstAcqYear+1)
	var total float64
	for y := firstAcqYear; y <= lastAcqYear; y++ {
		w := math.Exp(float64(y-firstAcqYear) * 0.02)
		weights = append(weights, w)
		total += w
	}

	out := make([]collection.EnrichedRecord, n)
	for i := range out {
		a := artists[r.IntN(len(artists))]
		gender := a.gender
		if gender == "" {
			switch p := r.Float64(); {
			case p < 0.70:
				gender = identity.GenderMale
			case p < 0.95:
				gender = identity.GenderFemale
			default:
				gender = identity.GenderNonBinary
			}
		}

		year := firstAcqYear + pick(r, weights, total)
		acquired := time.Date(year, time.Month(1+r.IntN(12)), 1+r.IntN(28), 0, 0, 0, 0, time.UTC)

		out[i] = collection.EnrichedRecord{
			Record: collection.Record{
				Line:            i + 2,
				ArtworkID:       fmt.Sprintf("MA%04d", i+1),
				Title:           fmt.Sprintf("Artwork %d", i+1),
				ArtistName:      a.name,
				YearCreated:     1850 + r.IntN(174),
				AcquisitionDate: acquired,
				Department:      departments[r.IntN(len(departments))],
				Medium:          mediums[r.IntN(len(mediums))],
			},
			Identity: identity.Identity{
				Name:     a.name,
				Gender:   gender,
				Heritage: []string{a.heritage},
			},
		}
	}
	return out
}

func pick(r *rand.Rand, weights []float64, total float64) int {
	x := r.Float64() * total
	for i, w := range weights {
		if x < w {
			return i
		}
		x -= w
	}
	return len(weights) - 1
}

// writePlain writes the raw collection columns only, the shape the
// enrichment job expects as input.
func writePlain(path string, records []collection.EnrichedRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(collection.DefaultColumns); err != nil {
		return err
	}
	for _, rec := range records {
		err := cw.Write([]string{
			rec.ArtworkID,
			rec.Title,
			rec.ArtistName,
			strconv.Itoa(rec.YearCreated),
			rec.AcquisitionDate.Format("2006-01-02"),
			rec.Department,
			rec.Medium,
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}
