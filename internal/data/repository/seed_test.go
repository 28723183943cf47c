package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSeed_Embedded(t *testing.T) {
	movies, err := LoadSeed("")
	require.NoError(t, err)
	require.NotEmpty(t, movies)

	assert.Equal(t, "dcdd0fad-a94c-4810-8acc-5f108d3b18c3", movies[0].ID)
	assert.Equal(t, "The Shawshank Redemption", movies[0].Title)
	for _, m := range movies {
		assert.NotEmpty(t, m.ID)
		assert.NotEmpty(t, m.Genre)
	}
}

func TestLoadSeed_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.json")
	data := `[{"id":"x","title":"Solaris","year":1972,"director":"Andrei Tarkovsky","duration":167,"poster":"https://p/s.jpg","genre":["Drama","Sci-Fi"],"rate":8}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	movies, err := LoadSeed(path)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Solaris", movies[0].Title)
	assert.Equal(t, []string{"Drama", "Sci-Fi"}, movies[0].Genre)
}

func TestLoadSeed_Errors(t *testing.T) {
	_, err := LoadSeed(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"}`), 0o600))
	_, err = LoadSeed(path)
	assert.Error(t, err)
}
