package recon

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

var (
	unsafeChars  = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
	reportHeader = regexp.MustCompile(`(?m)^Reconnaissance Report for\s+(.+)$`)
	sectionLine  = regexp.MustCompile(`^===\s*(\w+)\s*===$`)
)

// SafeStem turns a target into something usable as a file name.
func SafeStem(target string) string {
	s := strings.Trim(unsafeChars.ReplaceAllString(target, "_"), "_")
	if s == "" {
		return "target"
	}
	return s
}

// FormatText renders raw as the plain text report.
func FormatText(raw Raw) string {
	return strings.Join([]string{
		"Reconnaissance Report for " + raw.Target,
		"=== Scan ===", raw.Scan,
		"=== DNS ===", raw.DNS,
		"=== Subdomains ===", raw.Subdomains,
		"=== Web ===", raw.Web,
		"=== SSL ===", raw.SSL,
	}, "\n")
}

// ParseText reads a report produced by FormatText. Unknown sections are
// ignored.
func ParseText(text string) Raw {
	var raw Raw
	if m := reportHeader.FindStringSubmatch(text); m != nil {
		raw.Target = strings.TrimSpace(m[1])
	}
	sections := map[string]*string{
		"scan":       &raw.Scan,
		"dns":        &raw.DNS,
		"subdomains": &raw.Subdomains,
		"web":        &raw.Web,
		"ssl":        &raw.SSL,
	}

	var cur *string
	var buf strings.Builder
	flush := func() {
		if cur != nil {
			*cur = strings.TrimSpace(buf.String())
		}
		buf.Reset()
	}
	for _, line := range strings.Split(text, "\n") {
		if m := sectionLine.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			flush()
			cur = sections[strings.ToLower(m[1])]
			continue
		}
		if cur != nil {
			buf.WriteString(line)
			buf.WriteByte('\n')
		}
	}
	flush()
	return raw
}

// LoadRaw reads a report from a .json or text file. A missing target is
// taken from the file name.
func LoadRaw(path string) (Raw, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Raw{}, errors.Wrap(err, "could not read report")
	}
	var raw Raw
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return Raw{}, errors.Wrapf(err, "could not parse %s", path)
		}
	} else {
		raw = ParseText(string(data))
	}
	if raw.Target == "" {
		raw.Target = strings.TrimPrefix(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), "recon_")
	}
	return raw, nil
}

// Save writes recon_<stem>.json and recon_<stem>.txt into dir and returns
// both paths.
func Save(dir string, raw Raw) (jsonPath, textPath string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", errors.Wrap(err, "could not create output dir")
	}
	stem := "recon_" + SafeStem(raw.Target)
	jsonPath = filepath.Join(dir, stem+".json")
	textPath = filepath.Join(dir, stem+".txt")

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", "", errors.Wrap(err, "could not encode report")
	}
	if err := os.WriteFile(jsonPath, data, 0o644); err != nil {
		return "", "", errors.Wrap(err, "could not write report")
	}
	if err := os.WriteFile(textPath, []byte(FormatText(raw)), 0o644); err != nil {
		return "", "", errors.Wrap(err, "could not write report")
	}
	return jsonPath, textPath, nil
}

// ReportFiles expands paths: directories contribute their recon_*.json
// files in name order, files are passed through.
func ReportFiles(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrap(err, "could not stat input")
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(p, "recon_*.json"))
		if err != nil {
			return nil, errors.Wrap(err, "could not list reports")
		}
		out = append(out, matches...)
	}
	return out, nil
}
