package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"movies-api/pkg/utils"
)

// ErrMalformedBody means the body is not a single JSON object.
var ErrMalformedBody = errors.New("request body must be a JSON object")

type MovieRequest struct {
	Title    *string  `json:"title" validate:"required"`
	Year     *int     `json:"year" validate:"required,gte=1900,notfuture"`
	Director *string  `json:"director" validate:"required"`
	Duration *int     `json:"duration" validate:"required,gt=0"`
	Poster   *string  `json:"poster" validate:"required,url"`
	Genre    []string `json:"genre" validate:"required,dive,oneof=Action Adventure Comedy Drama Fantasy Horror Musical Romance Sci-Fi"`
	Rate     *float64 `json:"rate,omitempty" validate:"omitempty,gte=0,lte=10"`
}

type MovieUpdateRequest struct {
	Title    *string  `json:"title,omitempty" validate:"omitempty"`
	Year     *int     `json:"year,omitempty" validate:"omitempty,gte=1900,notfuture"`
	Director *string  `json:"director,omitempty" validate:"omitempty"`
	Duration *int     `json:"duration,omitempty" validate:"omitempty,gt=0"`
	Poster   *string  `json:"poster,omitempty" validate:"omitempty,url"`
	Genre    []string `json:"genre,omitempty" validate:"omitempty,dive,oneof=Action Adventure Comedy Drama Fantasy Horror Musical Romance Sci-Fi"`
	Rate     *float64 `json:"rate,omitempty" validate:"omitempty,gte=0,lte=10"`
}

// DecodeMovie parses and validates a full movie submission. A non-nil
// error means the body could not be read as a JSON object; otherwise a
// non-empty map holds per-field validation messages.
func DecodeMovie(r io.Reader) (*MovieRequest, map[string]string, error) {
	raw, err := decodeObject(r)
	if err != nil {
		return nil, nil, err
	}

	var req MovieRequest
	fieldErrs := decodeFields(raw, movieFields(
		&req.Title, &req.Year, &req.Director, &req.Duration, &req.Poster, &req.Genre, &req.Rate,
	))

	if errs := merge(fieldErrs, utils.ValidateStruct(req)); len(errs) > 0 {
		return nil, errs, nil
	}

	return &req, nil, nil
}

// DecodeMoviePatch is DecodeMovie for partial updates: every field is
// optional, present fields obey the same rules.
func DecodeMoviePatch(r io.Reader) (*MovieUpdateRequest, map[string]string, error) {
	raw, err := decodeObject(r)
	if err != nil {
		return nil, nil, err
	}

	var req MovieUpdateRequest
	fieldErrs := decodeFields(raw, movieFields(
		&req.Title, &req.Year, &req.Director, &req.Duration, &req.Poster, &req.Genre, &req.Rate,
	))

	if errs := merge(fieldErrs, utils.ValidateStruct(req)); len(errs) > 0 {
		return nil, errs, nil
	}

	return &req, nil, nil
}

// IsEmpty reports whether the patch carries no field at all.
func (r *MovieUpdateRequest) IsEmpty() bool {
	return r.Title == nil && r.Year == nil && r.Director == nil && r.Duration == nil &&
		r.Poster == nil && r.Genre == nil && r.Rate == nil
}

type fieldDecoder struct {
	name    string
	decode  func(json.RawMessage) bool
	typeMsg string
}

func movieFields(title **string, year **int, director **string, duration **int, poster **string, genre *[]string, rate **float64) []fieldDecoder {
	return []fieldDecoder{
		{"title", stringField(title), "Movie title must be a string"},
		{"year", intField(year), "Movie year must be an integer"},
		{"director", stringField(director), "Movie director must be a string"},
		{"duration", intField(duration), "Movie duration must be an integer"},
		{"poster", stringField(poster), "Movie poster must be a string"},
		{"genre", stringsField(genre), "Movie genre must be an array of enum genre"},
		{"rate", floatField(rate), "Movie rate must be a number"},
	}
}

func decodeObject(r io.Reader) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage

	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if raw == nil {
		return nil, ErrMalformedBody
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after object", ErrMalformedBody)
	}

	return raw, nil
}

// decodeFields type-checks every known field present in raw. Unknown
// fields are dropped.
func decodeFields(raw map[string]json.RawMessage, fields []fieldDecoder) map[string]string {
	errs := make(map[string]string)
	for _, f := range fields {
		val, ok := raw[f.name]
		if !ok {
			continue
		}
		if isNull(val) || !f.decode(val) {
			errs[f.name] = f.typeMsg
		}
	}
	return errs
}

// merge keeps type errors and adds tag errors for fields that passed the
// type check.
func merge(typeErrs, tagErrs map[string]string) map[string]string {
	for key, msg := range tagErrs {
		if _, failed := typeErrs[baseField(key)]; failed {
			continue
		}
		typeErrs[key] = msg
	}
	return typeErrs
}

// baseField turns "genre[2]" into "genre".
func baseField(key string) string {
	if i := strings.IndexByte(key, '['); i >= 0 {
		return key[:i]
	}
	return key
}

func isNull(val json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(val), []byte("null"))
}

func stringField(dst **string) func(json.RawMessage) bool {
	return func(val json.RawMessage) bool {
		var s string
		if err := json.Unmarshal(val, &s); err != nil {
			return false
		}
		*dst = &s
		return true
	}
}

func stringsField(dst *[]string) func(json.RawMessage) bool {
	return func(val json.RawMessage) bool {
		var ss []string
		if err := json.Unmarshal(val, &ss); err != nil {
			return false
		}
		if ss == nil {
			ss = []string{}
		}
		*dst = ss
		return true
	}
}

func floatField(dst **float64) func(json.RawMessage) bool {
	return func(val json.RawMessage) bool {
		var f float64
		if err := json.Unmarshal(val, &f); err != nil {
			return false
		}
		*dst = &f
		return true
	}
}

// intField accepts any JSON number with no fractional part, so 1999.0 is
// a valid year. Integers outside int32 are clamped so the range rules
// report them instead of the type check.
func intField(dst **int) func(json.RawMessage) bool {
	return func(val json.RawMessage) bool {
		var f float64
		if err := json.Unmarshal(val, &f); err != nil {
			return false
		}
		if f != math.Trunc(f) {
			return false
		}
		f = math.Max(math.MinInt32, math.Min(math.MaxInt32, f))
		n := int(f)
		*dst = &n
		return true
	}
}
