package discovery

import (
	"bufio"
	"fmt"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"

	"deptree/pkg/pkggraph"
)

// ScanPaths enumerates distributions by reading *.dist-info/METADATA files
// under the given directories, without involving an interpreter. This is the
// backend for explicit --path restrictions. Directories that cannot be read
// fail the scan; individual unreadable METADATA files are skipped silently
// (an environment may contain half-removed installs).
func ScanPaths(paths []string) ([]pkggraph.DistRecord, error) {
	var records []pkggraph.DistRecord
	for _, dir := range paths {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		for _, entry := range entries {
			if !entry.IsDir() || !strings.HasSuffix(entry.Name(), ".dist-info") {
				continue
			}
			rec, err := readMetadata(filepath.Join(dir, entry.Name(), "METADATA"))
			if err != nil {
				continue
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

// readMetadata parses the RFC 822 style header block of a METADATA file.
// The body (the long description) is ignored.
func readMetadata(path string) (pkggraph.DistRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return pkggraph.DistRecord{}, err
	}
	defer f.Close()

	tp := textproto.NewReader(bufio.NewReader(f))
	header, err := tp.ReadMIMEHeader()
	// io.EOF before the blank line is normal for files without a body.
	if err != nil && len(header) == 0 {
		return pkggraph.DistRecord{}, err
	}

	name := header.Get("Name")
	if name == "" {
		return pkggraph.DistRecord{}, fmt.Errorf("metadata %s: missing Name", path)
	}

	return pkggraph.DistRecord{
		Name:     name,
		Version:  header.Get("Version"),
		Requires: header.Values("Requires-Dist"),
		License:  licenseFrom(header),
	}, nil
}

// licenseFrom prefers the License header, falling back to trove classifiers
// of the form "License :: OSI Approved :: MIT License".
func licenseFrom(header textproto.MIMEHeader) string {
	if lic := header.Get("License"); lic != "" && strings.ToUpper(lic) != "UNKNOWN" {
		return lic
	}
	for _, c := range header.Values("Classifier") {
		if strings.HasPrefix(c, "License") {
			parts := strings.Split(c, ":: ")
			return parts[len(parts)-1]
		}
	}
	return ""
}
