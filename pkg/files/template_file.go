// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// TemplateFile is a template read from disk once, together with its
// timestamps (second precision).
type TemplateFile struct {
	path       string
	data       []byte
	modTime    time.Time
	accessTime time.Time
}

func NewTemplateFile(path string) (*TemplateFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("Checking template '%s': %s", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("Expected template '%s' to not be a directory", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("Reading template '%s': %s", path, err)
	}

	return &TemplateFile{
		path:       path,
		data:       data,
		modTime:    info.ModTime().Truncate(time.Second),
		accessTime: accessTime(info).Truncate(time.Second),
	}, nil
}

func (f *TemplateFile) Path() string          { return f.path }
func (f *TemplateFile) Bytes() []byte         { return f.data }
func (f *TemplateFile) ModTime() time.Time    { return f.modTime }
func (f *TemplateFile) AccessTime() time.Time { return f.accessTime }

// OutputPath names the output of a variant: "model.serp" with suffix "_1_2"
// becomes "model._1_2.serp". If dir is not empty the output is placed there.
func (f *TemplateFile) OutputPath(suffix, dir string) string {
	fileDir, base := filepath.Split(f.path)

	ext := filepath.Ext(base)
	if ext == base {
		// dotfiles such as ".inp" have no extension
		ext = ""
	}
	name := strings.TrimSuffix(base, ext) + "." + suffix + ext

	if len(dir) > 0 {
		return filepath.Join(dir, name)
	}
	return filepath.Join(fileDir, name)
}
