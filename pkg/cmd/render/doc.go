// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

// Package render implements the command that renders templates to files.
package render
