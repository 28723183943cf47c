package wire

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"movies-api/internal/data/entity"
	"movies-api/internal/data/repository"
	"movies-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type envelope struct {
	Status  bool              `json:"status"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Errors  map[string]string `json:"errors"`
}

type movieJSON struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Director string   `json:"director"`
	Duration int      `json:"duration"`
	Poster   string   `json:"poster"`
	Genre    []string `json:"genre"`
	Rate     float64  `json:"rate"`
}

const newMovieBody = `{
	"title": "Spirited Away",
	"year": 2001,
	"director": "Hayao Miyazaki",
	"duration": 125,
	"poster": "https://img.example.com/spirited.jpg",
	"genre": ["Fantasy", "Adventure"],
	"extra": "ignored"
}`

func newTestApp(t *testing.T) *App {
	t.Helper()

	seed := []*entity.Movie{
		{ID: "m1", Title: "Jaws", Year: 1975, Director: "Steven Spielberg", Duration: 124, Poster: "https://p/jaws.jpg", Genre: []string{"Adventure", "Horror"}, Rate: 8.1},
		{ID: "m2", Title: "Grease", Year: 1978, Director: "Randal Kleiser", Duration: 110, Poster: "https://p/grease.jpg", Genre: []string{"Musical", "Romance"}, Rate: 7.2},
	}

	config := &utils.Config{
		CORS: utils.CORSConfig{AllowedOrigins: []string{"https://movies.com"}},
	}

	return Wiring(repository.NewRepository(seed, zap.NewNop()), config, zap.NewNop())
}

func do(t *testing.T, app *App, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestListMovies(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodGet, "/movies", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Status)

	var movies []movieJSON
	require.NoError(t, json.Unmarshal(env.Data, &movies))
	require.Len(t, movies, 2)
	assert.Equal(t, "m1", movies[0].ID)
	assert.Equal(t, "m2", movies[1].ID)
}

func TestListMovies_GenreFilter(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodGet, "/movies?genre=musical", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var movies []movieJSON
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &movies))
	require.Len(t, movies, 1)
	assert.Equal(t, "Grease", movies[0].Title)

	rec = do(t, app, http.MethodGet, "/movies?genre=Western", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(decodeEnvelope(t, rec).Data))
}

func TestGetMovie(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodGet, "/movies/m1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var movie movieJSON
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &movie))
	assert.Equal(t, "Jaws", movie.Title)

	rec = do(t, app, http.MethodGet, "/movies/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Status)
	assert.Equal(t, "Movie not found", env.Message)
}

func TestCreateMovie(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodPost, "/movies", newMovieBody, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created movieJSON
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	_, err := uuid.Parse(created.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Spirited Away", created.Title)
	assert.Equal(t, 0.0, created.Rate)
	assert.Equal(t, []string{"Fantasy", "Adventure"}, created.Genre)
	assert.NotContains(t, string(decodeEnvelope(t, rec).Data), "extra")

	rec = do(t, app, http.MethodGet, "/movies/"+created.ID, "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, app, http.MethodGet, "/movies", "", nil)
	var movies []movieJSON
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &movies))
	require.Len(t, movies, 3)
	assert.Equal(t, created.ID, movies[2].ID)
}

func TestCreateMovie_ValidationFailure(t *testing.T) {
	app := newTestApp(t)

	body := `{"title": 7, "year": 1850, "director": "X", "duration": -1, "poster": "nope", "genre": ["Western"], "rate": 11}`
	rec := do(t, app, http.MethodPost, "/movies", body, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	env := decodeEnvelope(t, rec)
	assert.False(t, env.Status)
	assert.Equal(t, "Validation failed", env.Message)
	for _, field := range []string{"title", "year", "duration", "poster", "genre[0]", "rate"} {
		assert.Contains(t, env.Errors, field)
	}
	assert.NotContains(t, env.Errors, "director")

	rec = do(t, app, http.MethodGet, "/movies", "", nil)
	var movies []movieJSON
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &movies))
	assert.Len(t, movies, 2, "rejected movie must not be stored")
}

func TestCreateMovie_MalformedBody(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodPost, "/movies", `{"title":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeEnvelope(t, rec).Message)
}

func TestUpdateMovie(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodPatch, "/movies/m2", `{"rate": 7.5, "year": 1979}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var movie movieJSON
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &movie))
	assert.Equal(t, "m2", movie.ID)
	assert.Equal(t, 7.5, movie.Rate)
	assert.Equal(t, 1979, movie.Year)
	assert.Equal(t, "Grease", movie.Title)
	assert.Equal(t, []string{"Musical", "Romance"}, movie.Genre)
}

func TestUpdateMovie_IDCannotBeChanged(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodPatch, "/movies/m1", `{"id": "other"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var movie movieJSON
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &movie))
	assert.Equal(t, "m1", movie.ID)
}

func TestUpdateMovie_Failures(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodPatch, "/movies/m1", `{"year": "1975"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Errors, "year")

	rec = do(t, app, http.MethodPatch, "/movies/m1", `[1, 2]`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, app, http.MethodPatch, "/movies/missing", `{"rate": 5}`, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, app, http.MethodPatch, "/movies/m1", `{"rate": 5}]`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request body", decodeEnvelope(t, rec).Message)

	rec = do(t, app, http.MethodPatch, "/movies/m1", `{"year": 3000000000}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	errs := decodeEnvelope(t, rec).Errors
	require.Contains(t, errs, "year")
	assert.NotEqual(t, "Movie year must be an integer", errs["year"])

	rec = do(t, app, http.MethodGet, "/movies/m1", "", nil)
	var movie movieJSON
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &movie))
	assert.Equal(t, 8.1, movie.Rate, "rejected patches leave the record untouched")
	assert.Equal(t, 1975, movie.Year)
}

func TestUpdateMovie_ConcurrentPatches(t *testing.T) {
	app := newTestApp(t)

	bodies := []string{
		`{"title": "Jaws 2"}`,
		`{"rate": 6.2}`,
		`{"duration": 116}`,
		`{"director": "Jeannot Szwarc"}`,
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		for _, body := range bodies {
			wg.Add(1)
			go func(body string) {
				defer wg.Done()
				rec := do(t, app, http.MethodPatch, "/movies/m1", body, nil)
				assert.Equal(t, http.StatusOK, rec.Code)
			}(body)
		}
	}
	wg.Wait()

	rec := do(t, app, http.MethodGet, "/movies/m1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var movie movieJSON
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &movie))
	assert.Equal(t, "Jaws 2", movie.Title)
	assert.Equal(t, 6.2, movie.Rate)
	assert.Equal(t, 116, movie.Duration)
	assert.Equal(t, "Jeannot Szwarc", movie.Director)
}

func TestDeleteMovie(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodDelete, "/movies/m1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Movie deleted", decodeEnvelope(t, rec).Message)

	rec = do(t, app, http.MethodGet, "/movies/m1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, app, http.MethodDelete, "/movies/m1", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreflight(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodOptions, "/movies/m1", "", map[string]string{
		"Origin":                        "https://movies.com",
		"Access-Control-Request-Method": "DELETE",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://movies.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, PUT, POST, PATCH, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))

	rec = do(t, app, http.MethodOptions, "/movies/m1", "", map[string]string{"Origin": "https://evil.example"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}

func TestCORSOnRegularRequests(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodGet, "/movies", "", map[string]string{"Origin": "https://movies.com"})
	assert.Equal(t, "https://movies.com", rec.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, "Origin", rec.Header().Get("Vary"))

	rec = do(t, app, http.MethodGet, "/movies", "", nil)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", rec.Header().Get("Vary"), "wildcard responses must not be cached for other origins")

	rec = do(t, app, http.MethodDelete, "/movies/m2", "", map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(t)

	rec := do(t, app, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	_, err := uuid.Parse(rec.Header().Get("X-Request-Id"))
	assert.NoError(t, err)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, http.StatusNotFound, do(t, app, http.MethodGet, "/series", "", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, app, http.MethodPut, "/movies/m1", `{}`, nil).Code)
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(t)

	do(t, app, http.MethodGet, "/movies", "", nil)
	do(t, app, http.MethodDelete, "/movies/m1", "", nil)

	rec := do(t, app, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "movies_api_movies_stored 1")
	assert.Contains(t, body, `movies_api_http_requests_total{method="DELETE",route="/movies/{id}",status="200"}`)
}
