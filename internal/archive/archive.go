// Package archive selects the single most plausible data file from a
// downloaded zip, excluding documentation and metadata members.
package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

var (
	// ErrCorruptArchive means the bytes could not be opened as a zip.
	ErrCorruptArchive = errors.New("corrupt archive")
	// ErrNoDataFile means no csv/txt member survived both selection passes.
	ErrNoDataFile = errors.New("no data file found in archive")
)

var (
	dataExt     = regexp.MustCompile(`(?i)\.(csv|txt)$`)
	skipPattern = regexp.MustCompile(`(?i)(read_?me|__macosx|\.ds_store)`)
	preferred   = regexp.MustCompile(`(?i)(scc|enrollment|enroll|ma_|plan_dir|directory)`)
)

// IsZip reports whether the bytes look like a zip archive (PK magic).
func IsZip(data []byte) bool {
	return len(data) >= 2 && data[0] == 'P' && data[1] == 'K'
}

// ExtractDataFile picks the most plausible data member and returns its
// bytes. Selection: restrict to csv/txt members that are not readmes,
// macOS metadata, or directory entries; if that leaves nothing, relax to
// csv/txt members whose name merely avoids "read"; prefer members whose
// name looks like the data file, else take the first in archive order.
func ExtractDataFile(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}

	var candidates []*zip.File
	for _, f := range zr.File {
		if isDir(f.Name) || !dataExt.MatchString(f.Name) {
			continue
		}
		if skipPattern.MatchString(f.Name) {
			continue
		}
		candidates = append(candidates, f)
	}

	if len(candidates) == 0 {
		// The primary filter may be too strict for unusually named
		// files; relax to anything that doesn't look like a readme.
		for _, f := range zr.File {
			if isDir(f.Name) || !dataExt.MatchString(f.Name) {
				continue
			}
			if strings.Contains(strings.ToLower(f.Name), "read") {
				continue
			}
			candidates = append(candidates, f)
		}
	}

	if len(candidates) == 0 {
		return nil, ErrNoDataFile
	}

	selected := candidates[0]
	for _, f := range candidates {
		if preferred.MatchString(f.Name) {
			selected = f
			break
		}
	}

	rc, err := selected.Open()
	if err != nil {
		return nil, fmt.Errorf("open member %s: %w", selected.Name, err)
	}
	defer rc.Close()

	out, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read member %s: %w", selected.Name, err)
	}
	return out, nil
}

func isDir(name string) bool {
	return strings.HasSuffix(name, "/")
}
