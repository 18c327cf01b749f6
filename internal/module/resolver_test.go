package module

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestNewResolver(t *testing.T) {
	r := NewResolver()

	if r.projectRoot == "" {
		t.Error("projectRoot should not be empty")
	}
	if r.stdlibPath == "" {
		t.Error("stdlibPath should not be empty")
	}
	if r.searchPaths == nil {
		t.Error("searchPaths should not be nil")
	}
}

func TestNormalizePath(t *testing.T) {
	r := NewResolver()

	home, _ := os.UserHomeDir()
	path, err := r.NormalizePath("~/test.inko")
	if err != nil {
		t.Errorf("NormalizePath failed: %v", err)
	}
	if !strings.HasPrefix(path, home) {
		t.Errorf("Path should start with home directory: %s", path)
	}

	path, err = r.NormalizePath("./test.inko")
	if err != nil {
		t.Errorf("NormalizePath failed: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("Path should be absolute: %s", path)
	}

	path, err = r.NormalizePath("../test.inko")
	if err != nil {
		t.Errorf("NormalizePath failed: %v", err)
	}
	if strings.Contains(path, "..") {
		t.Errorf("Path should not contain ..: %s", path)
	}
}

func TestResolveImportStdlibAndProjectMiss(t *testing.T) {
	r := NewResolver()

	tests := []struct {
		name string
		path QualifiedName
	}{
		{"stdlib import", FromDotted("std.list")},
		{"project import", FromDotted("data.structures")},
		{"single segment", FromDotted("utils")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// None of these files exist on disk, so resolution must fail
			// rather than panic or silently succeed.
			if _, err := r.ResolveImport(tt.path); err == nil {
				t.Errorf("expected ResolveImport(%s) to fail for a nonexistent module", tt.path.String())
			}
		})
	}
}

func TestResolveImportFindsProjectFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "resolver_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	if err := os.MkdirAll(filepath.Join(tmpDir, "data"), 0755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(tmpDir, "data", "structures.inko")
	if err := os.WriteFile(target, []byte("object Tree {}"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewResolverWithPaths(tmpDir, filepath.Join(tmpDir, "stdlib"), nil)
	resolved, err := r.ResolveImport(FromDotted("data.structures"))
	if err != nil {
		t.Fatalf("ResolveImport failed: %v", err)
	}
	if filepath.Base(resolved) != "structures.inko" {
		t.Errorf("resolved = %s, want it to end with structures.inko", resolved)
	}
}

func TestResolveImportFindsStdlibFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "resolver_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	stdlib := filepath.Join(tmpDir, "stdlib")
	if err := os.MkdirAll(stdlib, 0755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(stdlib, "list.inko")
	if err := os.WriteFile(target, []byte("object List {}"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewResolverWithPaths(tmpDir, stdlib, nil)
	resolved, err := r.ResolveImport(FromDotted("std.list"))
	if err != nil {
		t.Fatalf("ResolveImport failed: %v", err)
	}
	if filepath.Base(resolved) != "list.inko" {
		t.Errorf("resolved = %s, want it to end with list.inko", resolved)
	}
}

func TestGetModuleIdentity(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "resolver_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	stdlib := filepath.Join(tmpDir, "stdlib")
	r := NewResolverWithPaths(tmpDir, stdlib, nil)

	identity, err := r.GetModuleIdentity(filepath.Join(tmpDir, "utils.inko"))
	if err != nil {
		t.Fatalf("GetModuleIdentity failed: %v", err)
	}
	if identity.String() != "utils" {
		t.Errorf("identity = %s, want utils", identity.String())
	}

	identity, err = r.GetModuleIdentity(filepath.Join(stdlib, "string.inko"))
	if err != nil {
		t.Fatalf("GetModuleIdentity failed: %v", err)
	}
	if identity.String() != "std.string" {
		t.Errorf("identity = %s, want std.string", identity.String())
	}
}

func TestIsFileSystemCaseSensitive(t *testing.T) {
	result := isFileSystemCaseSensitive()

	switch runtime.GOOS {
	case "windows", "darwin":
		if result {
			t.Errorf("Expected case-insensitive on %s", runtime.GOOS)
		}
	case "linux":
		if !result {
			t.Errorf("Expected case-sensitive on %s", runtime.GOOS)
		}
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := findProjectRoot()

	if root == "" {
		t.Error("Project root should not be empty")
	}
	if !filepath.IsAbs(root) {
		t.Errorf("Project root should be absolute: %s", root)
	}
	if _, err := os.Stat(root); err != nil {
		t.Errorf("Project root should exist: %s", root)
	}
}

func TestFindStdlibPath(t *testing.T) {
	path := findStdlibPath(nil)
	if path == "" {
		t.Error("Stdlib path should not be empty")
	}

	testPath := "/test/stdlib"
	os.Setenv("INKO_STDLIB", testPath)
	defer os.Unsetenv("INKO_STDLIB")

	path = findStdlibPath(nil)
	if path != testPath {
		t.Errorf("Stdlib path = %s, want %s", path, testPath)
	}
}

// An include path whose "stdlib" subdirectory actually exists is picked
// up even with INKO_STDLIB unset (spec §6 "include paths" feeding stdlib
// discovery, not just ordinary module search).
func TestFindStdlibPathFromIncludePath(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "resolver_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	stdlib := filepath.Join(tmpDir, "stdlib")
	if err := os.MkdirAll(stdlib, 0755); err != nil {
		t.Fatal(err)
	}

	path := findStdlibPath([]string{tmpDir})
	if path != stdlib {
		t.Errorf("Stdlib path = %s, want %s", path, stdlib)
	}
}

func TestGetSearchPaths(t *testing.T) {
	testPaths := "/path1" + string(os.PathListSeparator) + "/path2"
	os.Setenv("INKO_PATH", testPaths)
	defer os.Unsetenv("INKO_PATH")

	paths := getSearchPaths([]string{"/included"})

	found1, found2, foundIncluded := false, false, false
	for _, p := range paths {
		if p == "/path1" {
			found1 = true
		}
		if p == "/path2" {
			found2 = true
		}
		if p == "/included" {
			foundIncluded = true
		}
	}
	if !found1 || !found2 {
		t.Errorf("Search paths should include environment paths: %v", paths)
	}
	if !foundIncluded {
		t.Errorf("Search paths should include configured include paths: %v", paths)
	}
}

// Resolving an import against a configured include path (rather than the
// project root or INKO_PATH) must succeed, proving IncludePaths actually
// participates in module resolution (spec §6).
func TestResolveImportFindsIncludePathFile(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "resolver_test")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	includeDir := filepath.Join(tmpDir, "vendor")
	if err := os.MkdirAll(filepath.Join(includeDir, "data"), 0755); err != nil {
		t.Fatal(err)
	}
	target := filepath.Join(includeDir, "data", "structures.inko")
	if err := os.WriteFile(target, []byte("object Tree {}"), 0644); err != nil {
		t.Fatal(err)
	}

	projectRoot := filepath.Join(tmpDir, "project")
	if err := os.MkdirAll(projectRoot, 0755); err != nil {
		t.Fatal(err)
	}

	r := NewResolverWithConfig(projectRoot, filepath.Join(tmpDir, "stdlib"), nil, []string{includeDir})
	resolved, err := r.ResolveImport(FromDotted("data.structures"))
	if err != nil {
		t.Fatalf("ResolveImport failed: %v", err)
	}
	if filepath.Base(resolved) != "structures.inko" {
		t.Errorf("resolved = %s, want it to end with structures.inko", resolved)
	}
}
