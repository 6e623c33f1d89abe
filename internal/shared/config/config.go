package config

import (
	"os"
	"path/filepath"
)

// Load resolves the config file and decodes it into out.
//
// Resolution order:
//  1. cfgName (relative to cwd or absolute) when given;
//  2. otherwise walk up from cwd looking for defaultRelPath.
func Load(cfgName string, defaultRelPath string, out any) error {
	curDir, err := os.Getwd()
	if err != nil {
		return err
	}

	if cfgName != "" {
		if filepath.IsAbs(cfgName) {
			return load(cfgName, out)
		}
		return load(filepath.Join(curDir, cfgName), out)
	}

	path, err := findConfigUpward(curDir, defaultRelPath)
	if err != nil {
		return err
	}
	return load(path, out)
}

func findConfigUpward(startDir, relPath string) (string, error) {
	dir := startDir
	for {
		candidate := filepath.Join(dir, relPath)
		if fileExist(candidate) {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &NotFoundError{RelPath: relPath, StartDir: startDir}
		}
		dir = parent
	}
}

type NotFoundError struct {
	RelPath  string
	StartDir string
}

func (e *NotFoundError) Error() string {
	return "config file not exist, searched " + e.RelPath + " from: " + e.StartDir
}
