package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/artempelyovin/rashodomer-be/internal/storage"
)

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parsePage reads limit and offset query parameters. Absent limit means
// uncapped.
func parsePage(r *http.Request) (storage.Page, error) {
	var page storage.Page
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return page, fmt.Errorf("invalid limit %q", v)
		}
		page.Limit = &limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return page, fmt.Errorf("invalid offset %q", v)
		}
		page.Offset = offset
	}
	return page, nil
}

func parseBoolParam(r *http.Request, name string) (bool, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", name, v)
	}
	return b, nil
}
