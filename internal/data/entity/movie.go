package entity

import "strings"

type Genre string

const (
	GenreAction    Genre = "Action"
	GenreAdventure Genre = "Adventure"
	GenreComedy    Genre = "Comedy"
	GenreDrama     Genre = "Drama"
	GenreFantasy   Genre = "Fantasy"
	GenreHorror    Genre = "Horror"
	GenreMusical   Genre = "Musical"
	GenreRomance   Genre = "Romance"
	GenreSciFi     Genre = "Sci-Fi"
)

// Genres lists every genre accepted on input, in display order.
var Genres = []Genre{
	GenreAction,
	GenreAdventure,
	GenreComedy,
	GenreDrama,
	GenreFantasy,
	GenreHorror,
	GenreMusical,
	GenreRomance,
	GenreSciFi,
}

type Movie struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Year     int      `json:"year"`
	Director string   `json:"director"`
	Duration int      `json:"duration"`
	Poster   string   `json:"poster"`
	Genre    []string `json:"genre"`
	Rate     float64  `json:"rate"`
}

// Clone returns a deep copy so the genre slice is never shared.
func (m *Movie) Clone() *Movie {
	if m == nil {
		return nil
	}
	c := *m
	if m.Genre != nil {
		c.Genre = append([]string(nil), m.Genre...)
	}
	return &c
}

// HasGenre reports whether the movie is tagged with genre, ignoring case.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genre {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}
