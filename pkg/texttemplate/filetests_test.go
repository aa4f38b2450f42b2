// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate_test

import (
	"os"
	"strings"
	"testing"

	"github.com/inr-kit/twps/test/filetests"
)

// TestFileTests evaluates each template under filetests/ and compares
// output and warnings.
//
// Print snippets of each template:
//
//	go test ./pkg/texttemplate/ -run TestFileTests/filetests/alignment.tpltest TestFileTests.nodes=true
func TestFileTests(t *testing.T) {
	ft := filetests.FileTests{}
	ft.PathToTests = "filetests"
	ft.ShowNodes = strings.HasPrefix(strings.ToLower(kvArg("TestFileTests.nodes")), "t")

	ft.Run(t)
}

func kvArg(name string) string {
	name += "="
	for _, arg := range os.Args {
		if strings.HasPrefix(arg, name) {
			return strings.TrimPrefix(arg, name)
		}
	}
	return ""
}
