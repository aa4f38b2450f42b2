// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/inr-kit/twps/pkg/cmd/ui"
	"github.com/inr-kit/twps/pkg/config"
	"github.com/inr-kit/twps/pkg/template"
	"github.com/inr-kit/twps/pkg/twpslibrary"
	"github.com/inr-kit/twps/pkg/variants"
	"github.com/inr-kit/twps/pkg/workspace"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type RenderOptions struct {
	Templates []string

	Snippet    string
	ParamFlags []string
	OutputDir  string
	Diff       bool
	Debug      bool
	Watch      bool
	ConfigPath string

	stdout io.Writer
	stderr io.Writer
}

func NewOptions() *RenderOptions {
	return NewOptionsWithWriters(os.Stdout, os.Stderr)
}

func NewOptionsWithWriters(stdout, stderr io.Writer) *RenderOptions {
	return &RenderOptions{stdout: stdout, stderr: stderr}
}

func NewCmd(o *RenderOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render TEMPLATE...",
		Short: "Render templates with snippets",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Templates = args
			return o.Run(cmd.Flags())
		},
	}
	cmd.Flags().StringVarP(&o.Snippet, "snippet", "e", "", "Snippet to run before snippets of each template (its text is never part of the output)")
	cmd.Flags().StringArrayVarP(&o.ParamFlags, "param", "p", nil, "Render once per value of parameter (format: 'name[-start] value1 value2 ...') (can be specified multiple times)")
	cmd.Flags().StringVar(&o.OutputDir, "output-dir", "", "Write outputs into directory instead of next to templates")
	cmd.Flags().BoolVar(&o.Diff, "diff", false, "Print differences to previous contents of overwritten outputs")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	cmd.Flags().BoolVar(&o.Watch, "watch", false, "Render templates again when they change")
	cmd.Flags().StringVar(&o.ConfigPath, "config", "", fmt.Sprintf("Path to config file (default %s)", config.DefaultPath()))
	return cmd
}

func (o *RenderOptions) Run(flags *pflag.FlagSet) error {
	conf, err := config.Load(o.ConfigPath)
	if err != nil {
		return err
	}

	params, err := o.applyConfig(conf, flags)
	if err != nil {
		return err
	}

	ui := ui.NewCustomWriterTTY(o.Debug, o.stdout, o.stderr)
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Now().Sub(t1))
	}()

	interp := template.NewInterpreter(twpslibrary.NewAPI())

	renderer, err := workspace.NewRenderer(interp, ui, workspace.RendererOpts{
		OutputDir: o.OutputDir,
		Diff:      o.Diff,
	})
	if err != nil {
		return err
	}

	renderOpts := workspace.RenderOpts{Preamble: o.Snippet, Params: params}

	renderFunc := func(path string) error {
		_, err := renderer.RenderFile(path, renderOpts)
		if err != nil {
			return fmt.Errorf("Rendering template '%s': %s", path, err)
		}
		return nil
	}

	for _, path := range o.Templates {
		err := renderFunc(path)
		if err != nil {
			return err
		}
	}

	if !o.Watch {
		return nil
	}

	watcher, err := NewWatcher(o.Templates, ui)
	if err != nil {
		return err
	}

	defer watcher.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ui.Printf("Watching %d template(s) for changes (interrupt to stop)\n", len(o.Templates))

	return watcher.Run(ctx, renderFunc)
}

// applyConfig fills options not set by flags from conf. Params from conf
// come before params given as flags.
func (o *RenderOptions) applyConfig(conf config.Config, flags *pflag.FlagSet) (variants.ParameterSet, error) {
	if !flags.Changed("debug") {
		o.Debug = conf.Debug
	}
	if !flags.Changed("diff") {
		o.Diff = conf.Diff
	}
	if !flags.Changed("output-dir") {
		o.OutputDir = conf.OutputDir
	}
	if !flags.Changed("snippet") {
		o.Snippet = conf.Snippet
	}

	params, err := conf.ParameterSet()
	if err != nil {
		return nil, err
	}

	for _, paramFlag := range o.ParamFlags {
		param, err := variants.ParseParam(paramFlag)
		if err != nil {
			return nil, fmt.Errorf("Parsing --param '%s': %s", paramFlag, err)
		}
		params = append(params, param)
	}

	return params, nil
}
