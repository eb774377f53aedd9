package catalog

import (
	"archive/tar"
	"bufio"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/pkgsel/pkgsel/utils"
)

// sectionAttributes maps %SECTION% headers of desc files to record attributes
var sectionAttributes = map[string]string{
	"NAME":       AttrName,
	"PROVIDES":   AttrProvide,
	"DEPENDS":    AttrDepend,
	"OPTDEPENDS": AttrOptDepend,
	"GROUPS":     AttrGroup,
	"REPLACES":   AttrReplace,
	"CONFLICTS":  AttrConflict,
	"LICENSE":    AttrLicense,
	"PACKAGER":   AttrPackager,
	"URL":        AttrURL,
	"DESC":       AttrDesc,
}

// parseSections splits %SECTION% formatted stream into section name to values
//
// Section values are the non-empty lines following the header up to the next blank line.
func parseSections(r io.Reader) (map[string][]string, error) {
	result := map[string][]string{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	section := ""
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			section = ""
			continue
		}
		if section == "" {
			if len(line) > 2 && strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") {
				section = line[1 : len(line)-1]
				if _, exists := result[section]; !exists {
					result[section] = nil
				}
				continue
			}
			return nil, errors.Errorf("expected section header, got %q", line)
		}
		result[section] = append(result[section], line)
	}

	return result, scanner.Err()
}

type syncEntry struct {
	desc  map[string][]string
	files []string
}

// ReadSyncDB parses sync database (tar archive, optionally compressed) of repo
//
// Every package directory in the archive has desc file and optionally files file.
// Records are returned sorted by name, file index holds contents of files entries.
func ReadSyncDB(r io.Reader, repo string) ([]Record, FileIndex, error) {
	stream, kind, err := utils.Decompress(r)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "unable to read %s database", repo)
	}
	defer stream.Close()

	log.Debug().Str("repo", repo).Str("compression", kind).Msg("reading sync database")

	entries := map[string]*syncEntry{}
	tr := tar.NewReader(stream)

	for {
		var hdr *tar.Header
		hdr, err = tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "unable to read %s database", repo)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}

		dir, base := path.Split(strings.TrimPrefix(hdr.Name, "./"))
		dir = strings.TrimSuffix(dir, "/")
		if dir == "" || (base != "desc" && base != "files") {
			continue
		}

		entry := entries[dir]
		if entry == nil {
			entry = &syncEntry{}
			entries[dir] = entry
		}

		var sections map[string][]string
		sections, err = parseSections(tr)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "error parsing %s in %s database", hdr.Name, repo)
		}

		if base == "desc" {
			entry.desc = sections
		} else {
			entry.files = sections["FILES"]
		}
	}

	records := make([]Record, 0, len(entries))
	files := FileIndex{}

	for dir, entry := range entries {
		if entry.desc == nil {
			return nil, nil, errors.Errorf("package %s in %s database has no desc entry", dir, repo)
		}

		record := Record{}
		for section, values := range entry.desc {
			if attr, ok := sectionAttributes[section]; ok && len(values) > 0 {
				record.Add(attr, values...)
			}
		}
		record.Set(AttrRepo, []string{repo})

		if err = record.Validate(); err != nil {
			return nil, nil, errors.Wrapf(err, "package %s in %s database", dir, repo)
		}

		if len(entry.files) > 0 {
			files[record.Name()] = entry.files
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool { return records[i].Name() < records[j].Name() })

	return records, files, nil
}
