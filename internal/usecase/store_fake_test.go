package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"
	"time"

	"movie-catalog/internal/data/entity"
	"movie-catalog/internal/data/repository"
)

// memState mirrors the catalog tables
type memState struct {
	nextID    int64
	movies    map[int64]entity.Movie
	countries map[int64]entity.Country
	lookups   map[string]map[int64]entity.Lookup // table -> rows
	links     map[string]map[int64][]int64       // join table -> movie -> ids
}

func newMemState() *memState {
	return &memState{
		movies:    map[int64]entity.Movie{},
		countries: map[int64]entity.Country{},
		lookups: map[string]map[int64]entity.Lookup{
			"genres": {}, "actors": {}, "languages": {},
		},
		links: map[string]map[int64][]int64{
			"genres": {}, "actors": {}, "languages": {},
		},
	}
}

func (s *memState) clone() *memState {
	c := &memState{
		nextID:    s.nextID,
		movies:    map[int64]entity.Movie{},
		countries: map[int64]entity.Country{},
		lookups:   map[string]map[int64]entity.Lookup{},
		links:     map[string]map[int64][]int64{},
	}
	for k, v := range s.movies {
		c.movies[k] = v
	}
	for k, v := range s.countries {
		c.countries[k] = v
	}
	for table, rows := range s.lookups {
		c.lookups[table] = map[int64]entity.Lookup{}
		for k, v := range rows {
			c.lookups[table][k] = v
		}
	}
	for table, rows := range s.links {
		c.links[table] = map[int64][]int64{}
		for k, v := range rows {
			c.links[table][k] = append([]int64(nil), v...)
		}
	}
	return c
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

// memStore commits a cloned state only when fn succeeds
type memStore struct {
	mu    sync.Mutex
	state *memState

	// failure injection
	failLink   string
	failUpdate error
	txCount    int
}

func newMemStore() *memStore {
	return &memStore{state: newMemState()}
}

func (m *memStore) WithTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txCount++
	work := m.state.clone()
	if err := fn(m.repos(work)); err != nil {
		return err
	}
	m.state = work
	return nil
}

func (m *memStore) ReadTx(ctx context.Context, fn func(repo *repository.Repository) error) error {
	return m.WithTx(ctx, fn)
}

func (m *memStore) Ping(ctx context.Context) error {
	return nil
}

func (m *memStore) repos(state *memState) *repository.Repository {
	return &repository.Repository{
		Movie:    &memMovieRepo{state: state, failUpdate: m.failUpdate},
		Country:  &memCountryRepo{state: state},
		Genre:    &memLookupRepo{state: state, table: "genres", fail: m.failLink == "genres"},
		Actor:    &memLookupRepo{state: state, table: "actors", fail: m.failLink == "actors"},
		Language: &memLookupRepo{state: state, table: "languages", fail: m.failLink == "languages"},
	}
}

func (m *memStore) seedMovie(movie entity.Movie, country string, genres ...string) int64 {
	var id int64
	err := m.WithTx(context.Background(), func(repo *repository.Repository) error {
		c, err := repo.Country.CreateIfNotExists(context.Background(), country)
		if err != nil {
			return err
		}
		movie.CountryID = c.ID
		if err := repo.Movie.Create(context.Background(), &movie); err != nil {
			return err
		}
		var ids []int64
		for _, name := range genres {
			g, err := repo.Genre.CreateIfNotExists(context.Background(), name)
			if err != nil {
				return err
			}
			ids = append(ids, g.ID)
		}
		id = movie.ID
		return repo.Genre.LinkMovie(context.Background(), movie.ID, ids)
	})
	if err != nil {
		panic(err)
	}
	return id
}

type memMovieRepo struct {
	state      *memState
	failUpdate error
}

func (r *memMovieRepo) Create(ctx context.Context, movie *entity.Movie) error {
	for _, existing := range r.state.movies {
		if existing.Name == movie.Name && existing.Date.Equal(movie.Date) {
			return fmt.Errorf("create movie: %w", repository.ErrDuplicate)
		}
	}
	movie.ID = r.state.id()
	r.state.movies[movie.ID] = *movie
	return nil
}

func (r *memMovieRepo) FindByID(ctx context.Context, id int64) (*entity.Movie, error) {
	movie, ok := r.state.movies[id]
	if !ok {
		return nil, nil
	}
	return &movie, nil
}

func (r *memMovieRepo) FindByNameAndDate(ctx context.Context, name string, date time.Time) (*entity.Movie, error) {
	for _, movie := range r.state.movies {
		if movie.Name == name && movie.Date.Equal(date) {
			m := movie
			return &m, nil
		}
	}
	return nil, nil
}

func (r *memMovieRepo) Update(ctx context.Context, id int64, changes repository.MovieChanges) error {
	if r.failUpdate != nil {
		return r.failUpdate
	}
	movie, ok := r.state.movies[id]
	if !ok {
		return repository.ErrNotFound
	}

	var applyErr error
	changes.Each(func(column string, value any) {
		if applyErr != nil {
			return
		}
		if isNull(value) {
			applyErr = fmt.Errorf("null value in column %q violates not-null constraint", column)
			return
		}
		switch column {
		case repository.ColumnName:
			movie.Name = *value.(*string)
		case repository.ColumnDate:
			movie.Date = value.(time.Time)
		case repository.ColumnScore:
			movie.Score = *value.(*float64)
		case repository.ColumnOverview:
			movie.Overview = *value.(*string)
		case repository.ColumnStatus:
			movie.Status = entity.MovieStatus(*value.(*string))
		case repository.ColumnBudget:
			movie.Budget = *value.(*float64)
		case repository.ColumnRevenue:
			movie.Revenue = *value.(*float64)
		default:
			applyErr = fmt.Errorf("unknown column %s", column)
		}
	})
	if applyErr != nil {
		return applyErr
	}
	r.state.movies[id] = movie
	return nil
}

func (r *memMovieRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.state.movies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.state.movies, id)
	for _, rows := range r.state.links {
		delete(rows, id)
	}
	return nil
}

func (r *memMovieRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.Movie, error) {
	ids := make([]int64, 0, len(r.state.movies))
	for id := range r.state.movies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })

	var movies []*entity.Movie
	for i := offset; i < len(ids) && len(movies) < limit; i++ {
		movie := r.state.movies[ids[i]]
		movies = append(movies, &movie)
	}
	return movies, nil
}

func (r *memMovieRepo) CountAll(ctx context.Context) (int64, error) {
	return int64(len(r.state.movies)), nil
}

type memCountryRepo struct {
	state *memState
}

func (r *memCountryRepo) FindByID(ctx context.Context, id int64) (*entity.Country, error) {
	country, ok := r.state.countries[id]
	if !ok {
		return nil, nil
	}
	return &country, nil
}

func (r *memCountryRepo) FindByCode(ctx context.Context, code string) (*entity.Country, error) {
	for _, country := range r.state.countries {
		if country.Code == code {
			c := country
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memCountryRepo) CreateIfNotExists(ctx context.Context, code string) (*entity.Country, error) {
	if existing, _ := r.FindByCode(ctx, code); existing != nil {
		return existing, nil
	}
	country := entity.Country{ID: r.state.id(), Code: code}
	r.state.countries[country.ID] = country
	return &country, nil
}

type memLookupRepo struct {
	state *memState
	table string
	fail  bool
}

func (r *memLookupRepo) FindByName(ctx context.Context, name string) (*entity.Lookup, error) {
	for _, lookup := range r.state.lookups[r.table] {
		if lookup.Name == name {
			l := lookup
			return &l, nil
		}
	}
	return nil, nil
}

func (r *memLookupRepo) CreateIfNotExists(ctx context.Context, name string) (*entity.Lookup, error) {
	if existing, _ := r.FindByName(ctx, name); existing != nil {
		return existing, nil
	}
	lookup := entity.Lookup{ID: r.state.id(), Name: name}
	r.state.lookups[r.table][lookup.ID] = lookup
	return &lookup, nil
}

func (r *memLookupRepo) FindByMovieID(ctx context.Context, movieID int64) ([]entity.Lookup, error) {
	lookups := []entity.Lookup{}
	for _, id := range r.state.links[r.table][movieID] {
		lookups = append(lookups, r.state.lookups[r.table][id])
	}
	sort.Slice(lookups, func(i, j int) bool { return lookups[i].Name < lookups[j].Name })
	return lookups, nil
}

func (r *memLookupRepo) LinkMovie(ctx context.Context, movieID int64, ids []int64) error {
	if r.fail {
		return errors.New("link failed")
	}
	existing := r.state.links[r.table][movieID]
	for _, id := range ids {
		dup := false
		for _, e := range existing {
			if e == id {
				dup = true
				break
			}
		}
		if !dup {
			existing = append(existing, id)
		}
	}
	r.state.links[r.table][movieID] = existing
	return nil
}

func isNull(value any) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
