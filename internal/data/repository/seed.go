package repository

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"movies-api/internal/data/entity"
)

//go:embed seed/movies.json
var defaultSeed []byte

// LoadSeed reads the initial movie list from path, or from the bundled
// dataset when path is empty.
func LoadSeed(path string) ([]*entity.Movie, error) {
	data := defaultSeed
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		data = b
	}

	var movies []*entity.Movie
	if err := json.Unmarshal(data, &movies); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	return movies, nil
}
