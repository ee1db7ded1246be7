package journal

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// corruptSuffix is appended to a journal that could not be parsed before a
// fresh one replaces it.
const corruptSuffix = ".corrupt"

// read parses the journal at path. corrupt is set when the file exists but
// holds no valid journal; the returned journal is then empty.
func read(path string) (j *Journal, corrupt bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Journal{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read journal: %w", err)
	}

	j = &Journal{}
	if err := json.Unmarshal(data, j); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			return &Journal{}, true, nil
		}
		return nil, false, fmt.Errorf("parse journal: %w", err)
	}
	return j, false, nil
}

// write replaces the journal at path atomically. The temp file lives next
// to path so the rename never crosses filesystems; its name is unique so
// two curator processes never share it.
func write(path string, j *Journal) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}

	data, err := json.MarshalIndent(j, "", "  ")
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write journal: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write journal: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write journal: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("write journal: %w", err)
	}
	return nil
}
