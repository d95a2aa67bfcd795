package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/scmmishra/inorder/internal/config"
	"github.com/scmmishra/inorder/internal/db"
	"github.com/scmmishra/inorder/internal/logging"
	"github.com/scmmishra/inorder/internal/models"
	"github.com/scmmishra/inorder/internal/store"
	"github.com/scmmishra/inorder/internal/tracking"
)

type seedSeries struct {
	name  string
	books []seedBook
}

type seedBook struct {
	title string
	year  int
}

type seedAuthor struct {
	name   string
	slug   string // empty leaves the slug for the backfill
	series []seedSeries
	// weekly clicks written by -stats
	weekly int64
}

var catalog = []seedAuthor{
	{"J.K. Rowling", "j-k-rowling", []seedSeries{
		{"Harry Potter", []seedBook{
			{"Harry Potter and the Philosopher's Stone", 1997},
			{"Harry Potter and the Chamber of Secrets", 1998},
			{"Harry Potter and the Prisoner of Azkaban", 1999},
			{"Harry Potter and the Goblet of Fire", 2000},
		}},
	}, 48},
	{"Robert Jordan", "robert-jordan", []seedSeries{
		{"The Wheel of Time", []seedBook{
			{"New Spring", 2004},
			{"The Eye of the World", 1990},
			{"The Great Hunt", 1990},
			{"The Dragon Reborn", 1991},
		}},
	}, 31},
	{"Agatha Christie", "agatha-christie", []seedSeries{
		{"Hercule Poirot", []seedBook{
			{"The Mysterious Affair at Styles", 1920},
			{"The Murder on the Links", 1923},
			{"The Murder of Roger Ackroyd", 1926},
		}},
		{"Miss Marple", []seedBook{
			{"The Murder at the Vicarage", 1930},
			{"The Body in the Library", 1942},
		}},
	}, 22},
	{"Terry Pratchett", "", []seedSeries{
		{"Discworld", []seedBook{
			{"The Colour of Magic", 1983},
			{"The Light Fantastic", 1986},
			{"Equal Rites", 1987},
		}},
	}, 17},
	{"Ursula K. Le Guin", "", []seedSeries{
		{"Earthsea", []seedBook{
			{"A Wizard of Earthsea", 1968},
			{"The Tombs of Atuan", 1971},
			{"The Farthest Shore", 0},
		}},
	}, 9},
	{"Frank Herbert", "frank-herbert", []seedSeries{
		{"Dune", []seedBook{
			{"Dune", 1965},
			{"Dune Messiah", 1969},
			{"Children of Dune", 1976},
		}},
	}, 5},
	{"Brontë Sisters", "", []seedSeries{
		{"Brontë Novels", []seedBook{
			{"Jane Eyre", 1847},
			{"Wuthering Heights", 1847},
		}},
	}, 0},
}

func main() {
	withStats := flag.Bool("stats", false, "overwrite author weekly counters and replay series clicks")
	clicks := flag.Int("clicks", 200, "series clicks to replay with -stats")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("config")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

	database, err := db.Open(cfg.DBPath, db.Options{MaxOpenConns: 1})
	if err != nil {
		logging.Fatal().Err(err).Msg("open db")
	}
	defer database.Close()

	ctx := context.Background()
	st := store.New(database)

	fmt.Println("Seeding catalog...")

	authorIDs := make([]int64, 0, len(catalog))
	var seriesIDs []int64
	for _, sa := range catalog {
		a := &models.Author{Name: sa.name, Slug: sa.slug}
		if err := st.CreateAuthor(ctx, a); err != nil {
			logging.Fatal().Err(err).Str("author", sa.name).Msg("create author")
		}
		authorIDs = append(authorIDs, a.ID)
		fmt.Printf("  [%2d] %s -> %s\n", a.ID, a.Name, a.URL)

		for _, ss := range sa.series {
			sr := &models.Series{AuthorID: a.ID, Name: ss.name}
			if err := st.CreateSeries(ctx, sr); err != nil {
				logging.Fatal().Err(err).Str("series", ss.name).Msg("create series")
			}
			seriesIDs = append(seriesIDs, sr.ID)

			for _, sb := range ss.books {
				b := &models.Book{SeriesID: sr.ID, Title: sb.title, PublicationYear: sb.year}
				if err := st.CreateBook(ctx, b); err != nil {
					logging.Fatal().Err(err).Str("book", sb.title).Msg("create book")
				}
			}
			fmt.Printf("       %s (%d books)\n", sr.Name, len(ss.books))
		}
	}

	if !*withStats {
		fmt.Println("\nDone. Run with -stats to populate trending data.")
		return
	}

	fmt.Println("\nWriting author stats...")
	now := time.Now().UTC()
	for i, sa := range catalog {
		if sa.weekly == 0 {
			continue
		}
		if err := st.SetAuthorWeeklyClicks(ctx, authorIDs[i], sa.weekly, now); err != nil {
			logging.Fatal().Err(err).Str("author", sa.name).Msg("set author stats")
		}
		fmt.Printf("  %s: %d\n", sa.name, sa.weekly)
	}

	fmt.Println("\nReplaying series clicks...")
	engine := tracking.NewEngine(st, cfg.QueryTimeout)
	rng := rand.New(rand.NewSource(42)) // deterministic
	recorded := 0
	for range *clicks {
		// skew toward the first series so popular-today has a clear leader
		idx := int(float64(len(seriesIDs)) * rng.Float64() * rng.Float64())
		ev := tracking.Event{
			Kind:      tracking.KindSeries,
			ID:        seriesIDs[idx],
			ClickedAt: now.Add(-time.Duration(rng.Intn(3*24)) * time.Hour),
		}
		if engine.Record(ctx, ev) {
			recorded++
		}
	}
	fmt.Printf("  %d of %d clicks recorded over the last 3 days\n", recorded, *clicks)
	fmt.Println("\nDone!")
}
