// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"github.com/cppforlife/cobrautil"
	"github.com/inr-kit/twps/pkg/cmd/render"
	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/inr-kit/twps/pkg/version"
	"github.com/spf13/cobra"
)

type TwpsOptions struct {
	render *render.RenderOptions
	ui     ui.UI
}

func NewDefaultTwpsOptions() *TwpsOptions {
	return &TwpsOptions{render: render.NewOptions(), ui: ui.NewTTY(false)}
}

func NewDefaultTwpsCmd() *cobra.Command {
	return NewTwpsCmd(NewDefaultTwpsOptions())
}

func NewTwpsCmd(o *TwpsOptions) *cobra.Command {
	cmd := render.NewCmd(o.render)

	cmd.Use = "twps TEMPLATE..."
	cmd.Version = version.Version
	cmd.Short = "twps renders text templates with Starlark snippets"
	cmd.Long = `twps renders text templates with Starlark snippets.

The first line of a template is its header: comment string, default
directive and snippet delimiters, e.g.

  c -r {}

Each template is rendered once per combination of --param values.`

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	// Disable docs header
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewVersionCmd(NewVersionOptions(o.ui)))

	// Templates are positional, so only leaf commands disallow args
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.ReconfigureLeafCmds(cobrautil.DisallowExtraArgs),
		cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}
