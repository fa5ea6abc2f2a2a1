package internal

import (
	"bytes"
	"fmt"
	"io/fs"
	"path"
	"sort"

	"github.com/tidwall/gjson"
)

const (
	detailTypePath = "detail.metadata.type"
	statusPath     = "detail.metadata.status"
)

// utf8BOM is dropped from the start of a file; the rest is sent as read.
var utf8BOM = []byte("\xef\xbb\xbf")

// ListEvents reads every file directly under dir, sorted by path.
// Either the whole batch is returned or an error; never a partial batch.
func ListEvents(fsys fs.FS, dir string) ([]EventFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s': %v", ErrDirectoryUnavailable, dir, err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		paths = append(paths, path.Join(dir, e.Name()))
	}
	sort.Strings(paths)

	events := make([]EventFile, 0, len(paths))
	for _, p := range paths {
		b, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, &FileReadError{Path: p, Err: err}
		}
		events = append(events, EventFile{Path: p, Raw: string(bytes.TrimPrefix(b, utf8BOM))})
	}
	return events, nil
}

// DecodeEvent extracts the detail type and status of an event document.
// The raw text is kept as-is; nothing is re-encoded.
func DecodeEvent(path, raw string) (EventRecord, error) {
	if !gjson.Valid(raw) {
		return EventRecord{}, &MalformedEventError{Path: path, Reason: "not valid JSON"}
	}

	detailType, err := stringField(raw, detailTypePath)
	if err != nil {
		return EventRecord{}, &MalformedEventError{Path: path, Reason: err.Error()}
	}
	status, err := stringField(raw, statusPath)
	if err != nil {
		return EventRecord{}, &MalformedEventError{Path: path, Reason: err.Error()}
	}

	return EventRecord{
		Path:       path,
		DetailType: detailType,
		Status:     status,
		Raw:        raw,
	}, nil
}

func stringField(raw, field string) (string, error) {
	res := gjson.Get(raw, field)
	if !res.Exists() {
		return "", fmt.Errorf("missing '%s'", field)
	}
	if res.Type != gjson.String {
		return "", fmt.Errorf("'%s' is %s, not a string", field, res.Type)
	}
	return res.Str, nil
}
