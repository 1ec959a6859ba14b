/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

var unitFilePattern = regexp.MustCompile(`^unit_(\d{3})_.*\.go$`)

// Generate writes a skeleton migration unit into dir and returns its
// path. The version is one past the highest version found in the
// registry or in existing unit files; the name is lowercased with
// spaces and hyphens turned into underscores.
func Generate(dir, name string) (string, error) {
	safe := safeName(name)
	if safe == "" {
		return "", fmt.Errorf("migration name %q is empty after sanitizing", name)
	}

	next, err := nextVersion(dir)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("unit_%s_%s.go", next, safe))
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("migration file already exists: %s", path)
	}

	content := fmt.Sprintf(unitSkeleton, next, safe, varName(safe))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("write migration skeleton: %w", err)
	}
	return path, nil
}

// nextVersion returns max(registry, unit files in dir)+1, zero padded.
func nextVersion(dir string) (string, error) {
	max := 0
	for _, m := range All() {
		if v, err := strconv.Atoi(m.Version); err == nil && v > max {
			max = v
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("read migration dir: %w", err)
	}
	for _, e := range entries {
		match := unitFilePattern.FindStringSubmatch(e.Name())
		if match == nil {
			continue
		}
		if v, err := strconv.Atoi(match[1]); err == nil && v > max {
			max = v
		}
	}

	return fmt.Sprintf("%03d", max+1), nil
}

func safeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	var b strings.Builder
	for _, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "_")
}

// varName turns safe_name into safeName for the generated var.
func varName(safe string) string {
	parts := strings.Split(safe, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}

const unitSkeleton = `/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package migrate

import (
	"gorm.io/gorm"
)

// %[2]s is registered in registry.go; append it there after filling
// in Apply and Revert.
var %[3]s = Migration{
	Version: "%[1]s",
	Name:    "%[2]s",
	Apply: func(tx *gorm.DB) error {
		return nil
	},
	Revert: func(tx *gorm.DB) error {
		return nil
	},
}
`
