// Package search finds and replaces literal patterns in editor content.
//
// There is no index: every query rescans the content line by line. Matches
// never span lines and come back in document order. Navigation is cyclic
// over the match list, and replace-all only ever moves forward (or only
// backward) through the document so a replacement that contains its own
// pattern cannot make it loop.
package search
