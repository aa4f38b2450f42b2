// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package files reads templates and writes rendered outputs.

Outputs are marked read-only and get the timestamps of their template. When
an existing output is read-only but newer than its template it is assumed to
have been edited by hand: it is left alone and the new result is written next
to it under a timestamped name.
*/
package files
