// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package cmd is home to twps's "commands" -- instances of cobra.Command
(not to be confused with ./cmd which contains the bootstrapping for executing twps).

The root command renders templates given as arguments:

	$ twps -p 'r 0.5 1.0' model.inp

Subcommands:

	$ twps version
*/
package cmd
