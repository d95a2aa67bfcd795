package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/scmmishra/inorder/internal/db"
	"github.com/scmmishra/inorder/internal/models"
	"github.com/scmmishra/inorder/internal/store"
)

type fakeStore struct {
	calls   int
	authors []models.AuthorHit
	series  []models.SeriesHit
	books   []models.BookHit
	err     error
	errOn   string
}

func (f *fakeStore) SearchAuthors(_ context.Context, _ models.SearchQuery, _ int) ([]models.AuthorHit, error) {
	f.calls++
	if f.errOn == "authors" {
		return nil, f.err
	}
	return f.authors, nil
}

func (f *fakeStore) SearchSeries(_ context.Context, _ models.SearchQuery, _ int) ([]models.SeriesHit, error) {
	f.calls++
	if f.errOn == "series" {
		return nil, f.err
	}
	return f.series, nil
}

func (f *fakeStore) SearchBooks(_ context.Context, _ models.SearchQuery, _ int) ([]models.BookHit, error) {
	f.calls++
	if f.errOn == "books" {
		return nil, f.err
	}
	return f.books, nil
}

func assertEmpty(t *testing.T, r Results) {
	t.Helper()
	if r.Authors == nil || r.Series == nil || r.Books == nil {
		t.Fatalf("nil list in %+v", r)
	}
	if r.Len() != 0 {
		t.Errorf("expected empty results, got %+v", r)
	}
}

func TestSearch_ShortQuerySkipsStore(t *testing.T) {
	f := &fakeStore{authors: []models.AuthorHit{{Name: "X", Slug: "x"}}}
	e := NewEngine(f, 0)

	for _, q := range []string{"", "a", "é"} {
		assertEmpty(t, e.Search(context.Background(), q))
	}
	if f.calls != 0 {
		t.Errorf("store called %d times, want 0", f.calls)
	}
}

func TestSearch_TwoRunesReachStore(t *testing.T) {
	f := &fakeStore{}
	NewEngine(f, 0).Search(context.Background(), "éa")
	if f.calls != 3 {
		t.Errorf("store called %d times, want 3", f.calls)
	}
}

func TestSearch_DedupeFirstSeen(t *testing.T) {
	f := &fakeStore{
		authors: []models.AuthorHit{
			{Name: "First", Slug: "dup"},
			{Name: "Other", Slug: "other"},
			{Name: "Second", Slug: "dup"},
		},
		books: []models.BookHit{
			{Title: "Book", Slug: "book"},
			{Title: "Book", Slug: "book"},
		},
	}
	r := NewEngine(f, 0).Search(context.Background(), "query")

	if len(r.Authors) != 2 || r.Authors[0].Name != "First" || r.Authors[1].Slug != "other" {
		t.Errorf("authors = %+v", r.Authors)
	}
	if len(r.Books) != 1 {
		t.Errorf("books = %+v", r.Books)
	}
	if r.Series == nil || len(r.Series) != 0 {
		t.Errorf("series = %#v, want empty non-nil", r.Series)
	}
}

func TestSearch_CapsHoldAfterDedupe(t *testing.T) {
	f := &fakeStore{}
	for i := 0; i < 30; i++ {
		f.authors = append(f.authors, models.AuthorHit{Slug: fmt.Sprintf("a%d", i)})
		f.series = append(f.series, models.SeriesHit{Slug: fmt.Sprintf("s%d", i)})
		f.books = append(f.books, models.BookHit{Slug: fmt.Sprintf("b%d", i)})
	}
	r := NewEngine(f, 0).Search(context.Background(), "query")

	if len(r.Authors) != MaxAuthors || len(r.Series) != MaxSeries || len(r.Books) != MaxBooks {
		t.Errorf("lens = %d/%d/%d", len(r.Authors), len(r.Series), len(r.Books))
	}
}

func TestSearch_StoreErrorDegrades(t *testing.T) {
	for _, op := range []string{"authors", "series", "books"} {
		f := &fakeStore{
			authors: []models.AuthorHit{{Slug: "a"}},
			err:     errors.New("database is locked"),
			errOn:   op,
		}
		assertEmpty(t, NewEngine(f, 0).Search(context.Background(), "query"))
	}
}

func TestSearch_Sqlite(t *testing.T) {
	database, err := db.Open(":memory:", db.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	s := store.New(database)
	ctx := context.Background()

	a := &models.Author{Name: "J.K. Rowling"}
	if err := s.CreateAuthor(ctx, a); err != nil {
		t.Fatal(err)
	}
	hp := &models.Series{AuthorID: a.ID, Name: "Harry Potter"}
	if err := s.CreateSeries(ctx, hp); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 25; i++ {
		b := &models.Book{SeriesID: hp.ID, Title: fmt.Sprintf("Harry Potter Companion %d", i)}
		if err := s.CreateBook(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	e := NewEngine(s, time.Second)

	for _, q := range []string{"jkrowling", "jk rowling", "Rowling"} {
		r := e.Search(ctx, q)
		if len(r.Authors) != 1 || r.Authors[0].URL != "/authors/j-k-rowling" {
			t.Errorf("query %q: authors = %+v", q, r.Authors)
		}
	}

	r := e.Search(ctx, "harry potter")
	if len(r.Series) != 1 || r.Series[0].URL != "/series/harry-potter" {
		t.Errorf("series = %+v", r.Series)
	}
	if len(r.Books) != MaxBooks {
		t.Errorf("books = %d, want %d", len(r.Books), MaxBooks)
	}
}

func TestSearch_NonLatinNamesNotMerged(t *testing.T) {
	database, err := db.Open(":memory:", db.Options{})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { database.Close() })
	s := store.New(database)
	ctx := context.Background()

	for _, name := range []string{"村上春樹", "村上龍", "Émile Zola"} {
		if err := s.CreateAuthor(ctx, &models.Author{Name: name}); err != nil {
			t.Fatal(err)
		}
	}

	e := NewEngine(s, time.Second)
	r := e.Search(ctx, "村上")
	if len(r.Authors) != 2 || r.Authors[0].Slug == r.Authors[1].Slug {
		t.Errorf("authors = %+v, want two distinct hits", r.Authors)
	}

	r = e.Search(ctx, "émile zola")
	if len(r.Authors) != 1 || r.Authors[0].URL != "/authors/emile-zola" {
		t.Errorf("authors = %+v", r.Authors)
	}
}

func TestSearch_ClosedDatabaseDegrades(t *testing.T) {
	database, err := db.Open(":memory:", db.Options{})
	if err != nil {
		t.Fatal(err)
	}
	database.Close()

	assertEmpty(t, NewEngine(store.New(database), time.Second).Search(context.Background(), "anything"))
}
