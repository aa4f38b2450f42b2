// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package twpslibrary

import (
	"fmt"

	"github.com/hashicorp/go-version"
	"github.com/inr-kit/twps/pkg/template/core"
	twpsversion "github.com/inr-kit/twps/pkg/version"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
)

var (
	VersionAPI = starlark.StringDict{
		"version": &starlarkstruct.Module{
			Name: "version",
			Members: starlark.StringDict{
				"require_at_least": starlark.NewBuiltin("version.require_at_least", core.ErrWrapper(versionModule{}.RequireAtLeast)),
			},
		},
	}
)

type versionModule struct{}

func (b versionModule) RequireAtLeast(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}

	val, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	userVersion, err := version.NewVersion(val)
	if err != nil {
		return starlark.None, err
	}

	twpsVersion, err := version.NewVersion(twpsversion.Version)
	if err != nil {
		return starlark.None, err
	}

	if twpsVersion.LessThan(userVersion) {
		return starlark.None, fmt.Errorf("twps version %s does not meet the minimum required version %s", twpsversion.Version, val)
	}

	return starlark.None, nil
}
