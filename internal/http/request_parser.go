package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"nassets/internal/core"
)

// maxBodyBytes caps request bodies; item payloads are tiny.
const maxBodyBytes = 1 << 20

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v any) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)

	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// parseID extracts the {id} path value as a positive integer.
func parseID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// parseYearMonth extracts the mandatory year and month query parameters.
// Anything that does not name a real month maps to core.ErrInvalidWindow.
func parseYearMonth(r *http.Request) (year, month int, err error) {
	yearStr := strings.TrimSpace(r.URL.Query().Get("year"))
	monthStr := strings.TrimSpace(r.URL.Query().Get("month"))
	if yearStr == "" || monthStr == "" {
		return 0, 0, core.ErrInvalidWindow
	}

	year, err = strconv.Atoi(yearStr)
	if err != nil || year < 1 {
		return 0, 0, core.ErrInvalidWindow
	}
	month, err = strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, core.ErrInvalidWindow
	}
	return year, month, nil
}
