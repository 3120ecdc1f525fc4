/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/

package serializer

const (
	// StdoutURI is the special output path meaning standard output.
	StdoutURI = "-"

	// emptyMarker is printed by the table format when there is nothing to show.
	emptyMarker = "<empty>"

	// maxColWidth caps table cell width; longer values wrap.
	maxColWidth = 60
)
