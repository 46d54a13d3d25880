// Package wrap splits logical lines into visual sub-lines under a width
// budget and translates between logical lines and visual rows.
//
// Widths come from a Measurer, so the same engine serves a pixel-based
// front end and a terminal (cells) front end. Layouts are cached per
// logical line and only for lines that were actually asked for, which keeps
// the cost proportional to what is on screen rather than to document size.
package wrap
