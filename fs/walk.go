package fs

import (
	iofs "io/fs"
	"path/filepath"
)

// SourceExt is the extension of Solidity source files.
const SourceExt = ".sol"

// skipDirs are directory names never searched for sources.
var skipDirs = map[string]bool{
	"node_modules": true,
	"build":        true,
	"cache":        true,
	".git":         true,
}

// FindSolidityFiles walks root and returns a file:// URI for every .sol
// file, in lexical walk order. Dependency, build output and VCS directories
// are skipped.
func FindSolidityFiles(root string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	var uris []string
	err = filepath.WalkDir(abs, func(path string, d iofs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != abs && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == SourceExt {
			uris = append(uris, PathToURI(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uris, nil
}
