package module

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// SourceExtension is the file suffix every Inko source file carries.
const SourceExtension = ".inko"

// Resolver maps a QualifiedName to a candidate source file path, with the
// platform-specific path normalization a multi-OS toolchain needs (spec
// §4.1 step 2 "resolve an import path to a file path").
type Resolver struct {
	projectRoot   string
	stdlibPath    string
	searchPaths   []string
	caseSensitive bool
}

// NewResolver creates a resolver seeded from the environment and the
// current working directory, with no project-configured include paths;
// NewResolverWithConfig is preferred once a compilestate.Config is
// available.
func NewResolver() *Resolver {
	return &Resolver{
		projectRoot:   findProjectRoot(),
		stdlibPath:    findStdlibPath(nil),
		searchPaths:   getSearchPaths(nil),
		caseSensitive: isFileSystemCaseSensitive(),
	}
}

// NewResolverWithPaths builds a Resolver from an explicit project root,
// stdlib path, and search paths, with no additional include paths (spec
// §4.1 step 2 applied with a Config's SearchPaths rather than environment
// discovery).
func NewResolverWithPaths(projectRoot, stdlibPath string, searchPaths []string) *Resolver {
	return NewResolverWithConfig(projectRoot, stdlibPath, searchPaths, nil)
}

// NewResolverWithConfig builds a Resolver the way NewResolverWithPaths
// does, additionally folding in a project's configured include paths
// (spec §6 "Compiler configuration... include paths"): they are searched
// for ordinary imports ahead of searchPaths. (getSearchPaths, by contrast,
// places them after INKO_PATH.)
func NewResolverWithConfig(projectRoot, stdlibPath string, searchPaths, includePaths []string) *Resolver {
	merged := append(append([]string{}, includePaths...), searchPaths...)
	return &Resolver{
		projectRoot:   projectRoot,
		stdlibPath:    stdlibPath,
		searchPaths:   merged,
		caseSensitive: isFileSystemCaseSensitive(),
	}
}

// NormalizePath expands "~", cleans "." / "..", makes the path absolute,
// and resolves symlinks (tolerating a not-yet-existing target).
func (r *Resolver) NormalizePath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	path = filepath.Clean(path)

	if !filepath.IsAbs(path) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to make path absolute: %w", err)
		}
		path = abs
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		if os.IsNotExist(err) {
			return path, nil
		}
		return "", fmt.Errorf("failed to resolve symlinks: %w", err)
	}
	return resolved, nil
}

// ResolveImport resolves a QualifiedName to a source file path (spec §4.1
// step 2). A std.* name is looked up only under the standard library path;
// any other name is tried under the project root, then every additional
// search path, in that order.
func (r *Resolver) ResolveImport(name QualifiedName) (string, error) {
	if name.IsStdlib() {
		path := filepath.Join(r.stdlibPath, filepath.Join(name.Segments[1:]...)) + SourceExtension
		if normalized, err := r.NormalizePath(path); err == nil {
			if _, err := os.Stat(normalized); err == nil {
				return normalized, nil
			}
		}
		return "", fmt.Errorf("stdlib module not found: %s", name.String())
	}

	rel := filepath.Join(name.Segments...) + SourceExtension
	candidates := append([]string{r.projectRoot}, r.searchPaths...)
	for _, dir := range candidates {
		path := filepath.Join(dir, rel)
		normalized, err := r.NormalizePath(path)
		if err != nil {
			continue
		}
		if _, err := os.Stat(normalized); err == nil {
			return normalized, nil
		}
	}
	return "", fmt.Errorf("module not found in search paths: %s", name.String())
}

// GetModuleIdentity derives a QualifiedName from a source file path,
// relative to the stdlib path (preferred) or the project root.
func (r *Resolver) GetModuleIdentity(filePath string) (QualifiedName, error) {
	normalized, err := r.NormalizePath(filePath)
	if err != nil {
		return QualifiedName{}, err
	}
	trimmed := strings.TrimSuffix(normalized, SourceExtension)

	if r.stdlibPath != "" && strings.HasPrefix(normalized, r.stdlibPath) {
		rel, err := filepath.Rel(r.stdlibPath, trimmed)
		if err == nil {
			return NewQualifiedName(append([]string{"std"}, splitPath(rel)...)...), nil
		}
	}
	if r.projectRoot != "" && strings.HasPrefix(normalized, r.projectRoot) {
		rel, err := filepath.Rel(r.projectRoot, trimmed)
		if err == nil {
			return NewQualifiedName(splitPath(rel)...), nil
		}
	}
	return NewQualifiedName(filepath.Base(trimmed)), nil
}

func splitPath(rel string) []string {
	rel = strings.ReplaceAll(rel, string(filepath.Separator), "/")
	var out []string
	for _, part := range strings.Split(rel, "/") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// projectRootMarkers are the entries whose presence in a directory marks
// it as a project root, checked at each level while walking upward from
// the working directory.
var projectRootMarkers = []string{"go.mod", ".git", "inko.toml"}

// findProjectRoot walks upward from the working directory looking for the
// first directory containing any of projectRootMarkers, falling back to
// the working directory itself if none is found.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	if root, ok := nearestMarkedAncestor(dir, projectRootMarkers); ok {
		return root
	}
	return dir
}

// nearestMarkedAncestor walks from dir upward through its parents,
// returning the first directory containing any entry named by markers.
func nearestMarkedAncestor(dir string, markers []string) (string, bool) {
	for {
		for _, marker := range markers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// findStdlibPath locates the standard library directory: INKO_STDLIB,
// then the first existing candidate from stdlibCandidates, then a bare
// relative fallback.
func findStdlibPath(includePaths []string) string {
	if stdlib := os.Getenv("INKO_STDLIB"); stdlib != "" {
		return stdlib
	}
	for _, candidate := range stdlibCandidates(includePaths) {
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return candidate
		}
	}
	return filepath.Join(".", "stdlib")
}

// stdlibCandidates builds the ordered list of directories findStdlibPath
// probes: a "stdlib" subdirectory of each configured include path (spec
// §6 "include paths"), then two locations relative to the running
// executable, then one under the project root.
func stdlibCandidates(includePaths []string) []string {
	var candidates []string
	for _, p := range includePaths {
		candidates = append(candidates, filepath.Join(p, "stdlib"))
	}
	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates,
			filepath.Join(filepath.Dir(exe), "..", "stdlib"),
			filepath.Join(filepath.Dir(exe), "stdlib"),
		)
	}
	candidates = append(candidates, filepath.Join(findProjectRoot(), "stdlib"))
	return candidates
}

// getSearchPaths reads INKO_PATH (a PATH-separator-delimited list), then
// appends the project's configured include paths, then a user module
// directory under the home directory, in that order of precedence.
func getSearchPaths(includePaths []string) []string {
	var paths []string
	if inkoPath := os.Getenv("INKO_PATH"); inkoPath != "" {
		for _, p := range strings.Split(inkoPath, string(os.PathListSeparator)) {
			if p != "" {
				paths = append(paths, p)
			}
		}
	}
	paths = append(paths, includePaths...)
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".inko", "modules"))
	}
	return paths
}

// isFileSystemCaseSensitive reports whether the host OS's default
// filesystem treats "Foo" and "foo" as distinct paths.
func isFileSystemCaseSensitive() bool {
	switch runtime.GOOS {
	case "windows", "darwin":
		return false
	default:
		return true
	}
}
