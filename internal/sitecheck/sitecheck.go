// Package sitecheck inspects a local site directory before it is deployed
// to GitHub Pages: file inventory, detected technologies, entry points, and
// actionable recommendations.
package sitecheck

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

var typeByExtension = map[string]string{
	".html": "HTML",
	".htm":  "HTML",
	".css":  "CSS",
	".js":   "JavaScript",
	".jsx":  "React JSX",
	".ts":   "TypeScript",
	".tsx":  "React TypeScript",
	".json": "JSON",
	".md":   "Markdown",
	".py":   "Python",
	".yml":  "YAML",
	".yaml": "YAML",
}

// File is one inventoried file.
type File struct {
	Path      string
	Name      string
	Extension string
	Type      string
	Size      int64
}

// PagesFiles reports the files GitHub Pages cares about.
type PagesFiles struct {
	HasIndex       bool
	IndexFile      string
	HasReadme      bool
	ReadmeFile     string
	ConfigFiles    []string
	PotentialPages []string
}

// Report is the full result of analyzing a site directory.
type Report struct {
	Files           []File
	Directories     []string
	Depth           int
	TotalFiles      int
	CountByExt      map[string]int
	Technologies    []string
	Pages           PagesFiles
	Recommendations []string
}

// Analyze walks dir (skipping .git) and builds a deploy-readiness report.
func Analyze(dir string) (Report, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return Report{}, fmt.Errorf("analyze site: %w", err)
	}
	if !info.IsDir() {
		return Report{}, fmt.Errorf("analyze site: %s is not a directory", dir)
	}

	report := Report{CountByExt: make(map[string]int)}
	technologies := make(map[string]bool)

	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			report.Directories = append(report.Directories, rel)
			if depth := strings.Count(rel, "/") + 1; depth > report.Depth {
				report.Depth = depth
			}
			return nil
		}

		ext := strings.ToLower(filepath.Ext(entry.Name()))
		var size int64
		if fileInfo, err := entry.Info(); err == nil {
			size = fileInfo.Size()
		}
		report.Files = append(report.Files, File{
			Path:      rel,
			Name:      entry.Name(),
			Extension: ext,
			Type:      fileType(ext),
			Size:      size,
		})

		report.TotalFiles++
		countKey := ext
		if countKey == "" {
			countKey = "no_extension"
		}
		report.CountByExt[countKey]++

		if tech, ok := typeByExtension[ext]; ok {
			technologies[tech] = true
		}
		detectByFilename(path, entry.Name(), technologies)
		classifyPagesFile(&report.Pages, rel, entry.Name(), ext)
		return nil
	})
	if err != nil {
		return Report{}, fmt.Errorf("analyze site: %w", err)
	}

	for tech := range technologies {
		report.Technologies = append(report.Technologies, tech)
	}
	sort.Strings(report.Technologies)
	report.Recommendations = recommend(report)
	return report, nil
}

func fileType(ext string) string {
	if t, ok := typeByExtension[ext]; ok {
		return t
	}
	return "Unknown"
}

// detectByFilename adds technologies signaled by well-known file names. A
// package.json is opened to spot the framework actually in use.
func detectByFilename(path, name string, technologies map[string]bool) {
	switch strings.ToLower(name) {
	case "package.json":
		technologies["Node.js"] = true
		for _, framework := range packageFrameworks(path) {
			technologies[framework] = true
		}
	case "_config.yml", "_config.yaml":
		technologies["Jekyll"] = true
	case "requirements.txt":
		technologies["Python"] = true
	case "gemfile":
		technologies["Ruby"] = true
	case "dockerfile":
		technologies["Docker"] = true
	}
}

var frameworkDeps = map[string]string{
	"react":   "React",
	"vue":     "Vue.js",
	"angular": "Angular",
	"next":    "Next.js",
	"gatsby":  "Gatsby",
}

func packageFrameworks(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var manifest struct {
		Dependencies    map[string]string `json:"dependencies"`
		DevDependencies map[string]string `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}
	var found []string
	for dep, framework := range frameworkDeps {
		if _, ok := manifest.Dependencies[dep]; ok {
			found = append(found, framework)
			continue
		}
		if _, ok := manifest.DevDependencies[dep]; ok {
			found = append(found, framework)
		}
	}
	return found
}

func classifyPagesFile(pages *PagesFiles, rel, name, ext string) {
	lower := strings.ToLower(name)
	atRoot := !strings.Contains(rel, "/")
	switch {
	case atRoot && (lower == "index.html" || lower == "index.htm"):
		pages.HasIndex = true
		pages.IndexFile = rel
	case strings.HasPrefix(lower, "readme"):
		pages.HasReadme = true
		pages.ReadmeFile = rel
	case lower == "_config.yml" || lower == "_config.yaml":
		pages.ConfigFiles = append(pages.ConfigFiles, rel)
	case ext == ".html" || ext == ".htm" || ext == ".md":
		pages.PotentialPages = append(pages.PotentialPages, rel)
	}
}

func recommend(report Report) []string {
	var recs []string
	if !report.Pages.HasIndex {
		recs = append(recs, "Add an index.html file for the main page")
	}
	if report.CountByExt[".css"] == 0 {
		recs = append(recs, "Add CSS files for styling")
	}
	has := func(tech string) bool { return slices.Contains(report.Technologies, tech) }
	if has("JavaScript") {
		recs = append(recs, "Consider optimizing JavaScript for faster loading")
	}
	if has("React") {
		recs = append(recs, "Build and deploy the React app to a 'docs' or 'gh-pages' branch")
	}
	if has("Jekyll") && len(report.Pages.ConfigFiles) == 0 {
		recs = append(recs, "Add _config.yml for Jekyll configuration")
	}
	recs = append(recs,
		"Ensure all paths use relative URLs for GitHub Pages compatibility",
		"Test the site locally before deploying")
	return recs
}
