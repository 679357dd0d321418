package native

import (
	"regexp"
	"strings"

	"wingman/pkg/command"
	"wingman/pkg/manager"
)

// minLineLength skips fragments that cannot hold a name, id and version.
const minLineLength = 10

var (
	columnSplitPattern = regexp.MustCompile(`\s{2,}`)
	ansiPattern        = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)
	storeIDPattern     = regexp.MustCompile(`^[A-Z0-9]{9,14}$`)
	versionPattern     = regexp.MustCompile(`^[vV]?\d+(\.\d+)*([-+][0-9A-Za-z.]+)?$|^[vV]?\d+\.\d`)
	sourceTagPattern   = regexp.MustCompile(`^[A-Za-z]{1,14}$`)
	separatorPattern   = regexp.MustCompile(`^[-─=\s]+$`)
	spinnerPattern     = regexp.MustCompile(`^[-\\|/]+$`)
	progressPattern    = regexp.MustCompile(`[█▒░]`)

	// Footers and status messages winget and Chocolatey print around the
	// data rows, in the languages winget ships with.
	noisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bupgrades? available\b`),
		regexp.MustCompile(`(?i)\bmises? à jour disponibles?\b`),
		regexp.MustCompile(`(?i)\baktualisierungen? verfügbar\b`),
		regexp.MustCompile(`(?i)\bactualizaci(ón|ones) disponibles?\b`),
		regexp.MustCompile(`(?i)\bno (installed )?package found\b`),
		regexp.MustCompile(`(?i)\bno (applicable|available) (upgrade|update)s? found\b`),
		regexp.MustCompile(`(?i)version numbers that cannot be determined`),
		regexp.MustCompile(`(?i)--include-unknown`),
		regexp.MustCompile(`(?i)source agreements`),
		regexp.MustCompile(`(?i)^(failed|error|warning)\s*:`),
		regexp.MustCompile(`(?i)^failed (when|to)\b`),
		regexp.MustCompile(`(?i)^an unexpected error occurred\b`),
		regexp.MustCompile(`(?i)^chocolatey v\d`),
		regexp.MustCompile(`(?i)^\d+ packages? (installed|found)\b`),
		regexp.MustCompile(`(?i)^did you know`),
	}

	// Rows after this line in upgrade output are pinned packages that a
	// plain upgrade will not touch.
	explicitTargetPattern = regexp.MustCompile(`(?i)require explicit targeting`)

	nameHeaders = map[string]bool{"name": true, "nom": true, "nombre": true, "nome": true, "naam": true, "ad": true, "名称": true, "名前": true, "이름": true, "имя": true, "nazwa": true}
	idHeaders   = map[string]bool{"id": true, "kimlik": true, "ид": true, "identyfikator": true}
)

// visible returns what a terminal would show for a raw output line: the
// text after the last carriage return, without escape sequences.
func visible(raw string) string {
	raw = strings.TrimRight(raw, "\r")
	if i := strings.LastIndexByte(raw, '\r'); i >= 0 {
		raw = raw[i+1:]
	}
	return ansiPattern.ReplaceAllString(raw, "")
}

// cleanLine is visible with surrounding whitespace removed.
func cleanLine(raw string) string {
	return strings.TrimSpace(visible(raw))
}

// isNoise reports whether a cleaned line carries no package data.
func isNoise(line string) bool {
	if len(line) < minLineLength {
		return true
	}
	if separatorPattern.MatchString(line) || spinnerPattern.MatchString(line) || progressPattern.MatchString(line) {
		return true
	}
	if isHeader(columnSplitPattern.Split(line, -1)) {
		return true
	}
	for _, p := range noisePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

func isHeader(fields []string) bool {
	if len(fields) < 2 {
		return false
	}
	return nameHeaders[strings.ToLower(fields[0])] && idHeaders[strings.ToLower(fields[1])]
}

// looksLikeID is the loose test used to locate the id token when columns
// cannot be split on wide gaps.
func looksLikeID(tok string) bool {
	if strings.Contains(tok, ".") || storeIDPattern.MatchString(tok) {
		return true
	}
	var upper, lower int
	for _, r := range tok {
		switch {
		case r >= 'A' && r <= 'Z':
			upper++
		case r >= 'a' && r <= 'z':
			lower++
		}
	}
	return len(tok) >= 9 && upper >= 2 && lower > 0
}

// fallbackIDIndex locates the id among whitespace tokens. Names often
// contain dotted words or version numbers, so the right-most id-like token
// that is not itself a version and is not followed by another id wins.
func fallbackIDIndex(tokens []string) int {
	for i := len(tokens) - 2; i >= 1; i-- {
		tok := tokens[i]
		if !looksLikeID(tok) || looksLikeVersion(tok) {
			continue
		}
		if next := tokens[i+1]; looksLikeID(next) && !looksLikeVersion(next) {
			continue
		}
		return i
	}
	return -1
}

// looksLikeVersion matches plain versions and anything starting with one,
// such as 1.2.beta.
func looksLikeVersion(tok string) bool {
	return versionPattern.MatchString(tok)
}

func isLetter(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// acceptWingetID is the identifier gate: a winget id contains a dot or has
// the shape of a Store product id, and must be usable in a command.
func acceptWingetID(id string) bool {
	if !strings.Contains(id, ".") && !storeIDPattern.MatchString(id) {
		return false
	}
	return command.ValidateIdentifier(id, true)
}

func wingetSource(id, tag string) manager.Source {
	if strings.EqualFold(tag, string(manager.SourceMSStore)) || storeIDPattern.MatchString(id) {
		return manager.SourceMSStore
	}
	return manager.SourceWinget
}

// guard runs parse and treats a panic as a rejected line so one malformed
// row cannot abort the whole listing.
func guard(parse func() (manager.Package, bool)) (p manager.Package, ok bool) {
	defer func() {
		if recover() != nil {
			p, ok = manager.Package{}, false
		}
	}()
	return parse()
}

type tableKind int

const (
	tableList tableKind = iota
	tableUpgrade
	tableSearch
)

// parseWingetTable extracts packages from winget's column-aligned output.
func parseWingetTable(output string, kind tableKind) []manager.Package {
	var pkgs []manager.Package
	for _, raw := range strings.Split(output, "\n") {
		line := cleanLine(raw)
		if kind == tableUpgrade && explicitTargetPattern.MatchString(line) {
			break
		}
		if isNoise(line) {
			continue
		}
		p, ok := guard(func() (manager.Package, bool) {
			return parseWingetRow(line, kind)
		})
		if ok {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs
}

func parseWingetRow(line string, kind tableKind) (manager.Package, bool) {
	var name, id string
	var cols []string

	if fields := columnSplitPattern.Split(line, -1); len(fields) >= 3 {
		name, id, cols = fields[0], fields[1], fields[2:]
	} else {
		tokens := strings.Fields(line)
		idx := fallbackIDIndex(tokens)
		if idx < 0 {
			return manager.Package{}, false
		}
		name, id, cols = strings.Join(tokens[:idx], " "), tokens[idx], tokens[idx+1:]
		// An id where the version should be means the split guessed wrong.
		if v := cols[0]; !looksLikeVersion(v) && acceptWingetID(v) && strings.ContainsFunc(v, isLetter) {
			return manager.Package{}, false
		}
	}

	if name == "" || !acceptWingetID(id) {
		return manager.Package{}, false
	}
	return buildWingetPackage(name, id, cols, kind)
}

func buildWingetPackage(name, id string, cols []string, kind tableKind) (manager.Package, bool) {
	if len(cols) == 0 || cols[0] == "" {
		return manager.Package{}, false
	}
	version := cols[0]
	if kind != tableSearch && strings.EqualFold(version, "unknown") {
		return manager.Package{}, false
	}

	p := manager.Package{
		ID:               id,
		Name:             name,
		CurrentVersion:   version,
		AvailableVersion: version,
	}

	rest := cols[1:]
	if kind == tableUpgrade {
		if len(rest) == 0 || rest[0] == "" {
			return manager.Package{}, false
		}
		p.AvailableVersion = rest[0]
		p.HasUpdate = true
		rest = rest[1:]
	}

	var tag string
	if n := len(rest); n > 0 && sourceTagPattern.MatchString(rest[n-1]) {
		tag = rest[n-1]
	}
	p.Source = wingetSource(id, tag)
	p.Category = manager.DetectCategory(name, id)
	return p, true
}

var (
	foundPattern = regexp.MustCompile(`^Found (.+?) \[(.+)\]$`)
	fieldPattern = regexp.MustCompile(`^([A-Za-z][A-Za-z ]*):\s*(.*)$`)
)

// parseWingetShow extracts details from "winget show" output.
func parseWingetShow(output, id string) *manager.PackageInfo {
	info := &manager.PackageInfo{Package: manager.Package{ID: id}}
	inTags := false

	for _, raw := range strings.Split(output, "\n") {
		shown := visible(raw)
		indented := strings.HasPrefix(shown, " ")
		line := strings.TrimSpace(shown)
		if line == "" {
			continue
		}

		if m := foundPattern.FindStringSubmatch(line); m != nil {
			info.Name, info.ID = m[1], m[2]
			continue
		}

		if inTags && indented {
			info.Tags = append(info.Tags, line)
			continue
		}
		inTags = false

		m := fieldPattern.FindStringSubmatch(line)
		if m == nil || indented {
			continue
		}
		key, value := m[1], strings.TrimSpace(m[2])
		switch key {
		case "Version":
			info.CurrentVersion = value
			info.AvailableVersion = value
		case "Publisher":
			info.Publisher = value
		case "Description":
			info.Description = value
		case "Homepage":
			info.Homepage = value
		case "License":
			info.License = value
		case "Tags":
			inTags = true
		}
	}

	info.Source = wingetSource(info.ID, "")
	info.Category = manager.DetectCategory(info.Name, info.ID)
	return info
}

// parseWingetVersions extracts the version column printed below the
// separator by "winget show --versions".
func parseWingetVersions(output string) []string {
	var versions []string
	started := false
	for _, raw := range strings.Split(output, "\n") {
		line := cleanLine(raw)
		if line == "" {
			continue
		}
		if separatorPattern.MatchString(line) {
			started = true
			continue
		}
		if !started || spinnerPattern.MatchString(line) || progressPattern.MatchString(line) {
			continue
		}
		versions = append(versions, strings.Fields(line)[0])
	}
	return versions
}
