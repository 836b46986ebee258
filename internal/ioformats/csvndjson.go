package ioformats

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"meetctx/internal/models"
)

// ReadPages reads page references from a CSV (expects a "url" header and an
// optional "file" column holding a saved HTML snapshot) or an NDJSON file.
// If ext cannot be determined, tries CSV first then NDJSON.
func ReadPages(path string) ([]models.PageRef, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv":
		return readCSV(path)
	case ".ndjson", ".jsonl":
		return readNDJSON(path)
	default:
		// try csv then ndjson
		if refs, err := readCSV(path); err == nil && len(refs) > 0 {
			return refs, nil
		}
		return readNDJSON(path)
	}
}

func readCSV(path string) ([]models.PageRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty csv")
	}
	urlCol, fileCol := -1, -1
	for i, h := range rows[0] {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "url":
			urlCol = i
		case "file":
			fileCol = i
		}
	}
	if urlCol == -1 {
		return nil, errors.New("csv must contain a 'url' header column")
	}
	var out []models.PageRef
	for _, row := range rows[1:] {
		if urlCol >= len(row) {
			continue
		}
		ref := models.PageRef{URL: strings.TrimSpace(row[urlCol])}
		if fileCol != -1 && fileCol < len(row) {
			ref.File = strings.TrimSpace(row[fileCol])
		}
		if ref.URL != "" {
			out = append(out, ref)
		}
	}
	return out, nil
}

func readNDJSON(path string) ([]models.PageRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []models.PageRef
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		// allow raw string or {"url": "...", "file": "..."}
		if strings.HasPrefix(line, "{") {
			var ref models.PageRef
			if err := json.Unmarshal([]byte(line), &ref); err == nil && ref.URL != "" {
				out = append(out, ref)
				continue
			}
		}
		// fallback: treat whole line as url
		out = append(out, models.PageRef{URL: line})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.New("no pages found in ndjson")
	}
	return out, nil
}

// WriteNDJSON writes any JSON-marshalable items as NDJSON to w.
func WriteNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, it := range items {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}
