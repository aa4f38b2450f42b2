// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package ui_test

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/stretchr/testify/assert"
)

func TestTTYSeparatesStreams(t *testing.T) {
	stdout := bytes.NewBufferString("")
	stderr := bytes.NewBufferString("")

	tty := ui.NewCustomWriterTTY(false, stdout, stderr)
	tty.Printf("written %s\n", "model.res.serp")
	tty.Warnf("Warning: %s\n", "tpl:3")
	tty.Debugf("hidden\n")
	fmt.Fprintf(tty.DebugWriter(), "also hidden\n")

	assert.Equal(t, "written model.res.serp\n", stdout.String())
	assert.Equal(t, "Warning: tpl:3\n", stderr.String())
}

func TestTTYDebug(t *testing.T) {
	stdout := bytes.NewBufferString("")
	stderr := bytes.NewBufferString("")

	tty := ui.NewCustomWriterTTY(true, stdout, stderr)
	tty.Debugf("shown %d\n", 1)
	fmt.Fprintf(tty.DebugWriter(), "shown 2\n")

	assert.Equal(t, "", stdout.String())
	assert.Equal(t, "shown 1\nshown 2\n", stderr.String())
}
