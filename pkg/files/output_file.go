// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/k14s/difflib"
)

const (
	collisionTimestampLayout = "06-01-02-15-04-05"

	ownerWritable = 0200
	allWritable   = 0222
)

type OutputFile struct {
	path string
	data []byte
}

type WriteOpts struct {
	// Diff prints the difference to previous contents of an overwritten output
	Diff bool
	// Now names outputs written next to hand-edited ones; defaults to time.Now
	Now func() time.Time
}

func NewOutputFile(path string, data []byte) OutputFile {
	return OutputFile{path, data}
}

func (f OutputFile) Path() string  { return f.path }
func (f OutputFile) Bytes() []byte { return f.data }

// Write creates or replaces the output of tpl and returns the path actually
// written. Outputs that are read-only and newer than tpl are not replaced.
func (f OutputFile) Write(tpl *TemplateFile, opts WriteOpts, ui ui.UI) (string, error) {
	resultPath := f.path

	info, err := os.Stat(resultPath)
	switch {
	case err == nil:
		if info.Mode().Perm()&ownerWritable == 0 {
			if info.ModTime().Unix() <= tpl.ModTime().Unix() {
				err := os.Chmod(resultPath, info.Mode().Perm()|ownerWritable)
				if err != nil {
					return "", fmt.Errorf("Making output '%s' writable: %s", resultPath, err)
				}
			} else {
				now := time.Now
				if opts.Now != nil {
					now = opts.Now
				}
				resultPath += now().Format(collisionTimestampLayout)
				ui.Warnf("Warning: Output '%s' exists and is newer than template '%s', writing to '%s'\n",
					f.path, tpl.Path(), resultPath)
			}
		}

		if opts.Diff && resultPath == f.path {
			err := f.printDiff(ui)
			if err != nil {
				return "", err
			}
		}

	case os.IsNotExist(err):
		err := os.MkdirAll(filepath.Dir(resultPath), 0755)
		if err != nil {
			return "", fmt.Errorf("Creating output directory: %s", err)
		}

	default:
		return "", fmt.Errorf("Checking output '%s': %s", resultPath, err)
	}

	err = os.WriteFile(resultPath, f.data, 0644)
	if err != nil {
		return "", fmt.Errorf("Writing output '%s': %s", resultPath, err)
	}

	err = os.Chtimes(resultPath, tpl.AccessTime(), tpl.ModTime())
	if err != nil {
		return "", fmt.Errorf("Setting timestamps of output '%s': %s", resultPath, err)
	}

	info, err = os.Stat(resultPath)
	if err != nil {
		return "", fmt.Errorf("Checking output '%s': %s", resultPath, err)
	}

	err = os.Chmod(resultPath, info.Mode().Perm()&^allWritable)
	if err != nil {
		return "", fmt.Errorf("Making output '%s' read-only: %s", resultPath, err)
	}

	return resultPath, nil
}

func (f OutputFile) printDiff(ui ui.UI) error {
	prevData, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("Reading previous output '%s': %s", f.path, err)
	}

	if string(prevData) == string(f.data) {
		ui.Printf("--- %s: unchanged\n", f.path)
		return nil
	}

	ui.Printf("--- %s\n%s\n", f.path,
		difflib.PPDiff(strings.Split(string(prevData), "\n"), strings.Split(string(f.data), "\n")))
	return nil
}
