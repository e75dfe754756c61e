package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"skyrelief/dispatch/internal/constants"
	"skyrelief/dispatch/internal/db/repositories"

	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// decodeJSON reads exactly one JSON object into dst. Unknown fields are
// rejected so derived values such as distance_km cannot be supplied.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if dec.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}

// pathID parses a positive integer URL parameter.
func pathID(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return uint(id), nil
}

// parsePage reads skip and limit. limit defaults to 100 and is capped.
func parsePage(r *http.Request) (repositories.Page, error) {
	page := repositories.Page{Limit: constants.DefaultListLimit}
	q := r.URL.Query()

	if raw := q.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return page, errors.New("skip must be a non-negative integer")
		}
		page.Offset = skip
	}

	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > constants.MaxListLimit {
			return page, fmt.Errorf("limit must be between 1 and %d", constants.MaxListLimit)
		}
		page.Limit = limit
	}

	return page, nil
}

func queryInt(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}

func queryRiskLevel(r *http.Request, name string) (*int, error) {
	v, err := queryInt(r, name)
	if err != nil || v == nil {
		return v, err
	}
	if !constants.ValidRiskLevel(*v) {
		return nil, fmt.Errorf("%s must be between %d and %d", name, constants.MinRiskLevel, constants.MaxRiskLevel)
	}
	return v, nil
}

func queryID(r *http.Request, name string) (*uint, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return nil, fmt.Errorf("%s must be a positive integer", name)
	}
	id := uint(v)
	return &id, nil
}

type enumValue interface {
	~string
	Valid() bool
}

// parseEnum validates raw against a closed string type.
func parseEnum[T enumValue](name, raw string) (T, error) {
	v := T(raw)
	if !v.Valid() {
		return v, fmt.Errorf("unknown %s %q", name, raw)
	}
	return v, nil
}

func queryEnum[T enumValue](r *http.Request, name string) (*T, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := parseEnum[T](name, raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
