package codegen

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/tools/go/packages"
)

// ResolvePackage determines the Go import path and package name for the
// given directory. It first asks the go command, which works when the
// directory already contains Go sources. Otherwise, it finds the enclosing
// go.mod file and derives the import path from the module path and the
// directory's location within the module.
func ResolvePackage(dir string) (importPath, name string, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}
	cfg := &packages.Config{Mode: packages.NeedName, Dir: absDir}
	pkgs, err := packages.Load(cfg, ".")
	if err == nil && len(pkgs) == 1 && len(pkgs[0].Errors) == 0 && pkgs[0].PkgPath != "" {
		name := pkgs[0].Name
		if name == "" {
			name = packageNameFor(pkgs[0].PkgPath)
		}
		return pkgs[0].PkgPath, name, nil
	}

	modDir, modPath, err := findModule(absDir)
	if err != nil {
		return "", "", fmt.Errorf("could not determine package for %s: %w", dir, err)
	}
	rel, err := filepath.Rel(modDir, absDir)
	if err != nil {
		return "", "", err
	}
	importPath = path.Join(modPath, filepath.ToSlash(rel))
	return importPath, packageNameFor(importPath), nil
}

var errNoModule = errors.New("no go.mod file found")

func findModule(dir string) (modDir, modPath string, err error) {
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			modPath := modfile.ModulePath(data)
			if modPath == "" {
				return "", "", fmt.Errorf("%s has no module directive", filepath.Join(dir, "go.mod"))
			}
			return dir, modPath, nil
		} else if !os.IsNotExist(err) {
			return "", "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", errNoModule
		}
		dir = parent
	}
}
