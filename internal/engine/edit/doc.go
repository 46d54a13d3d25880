// Package edit turns editing intents (typing, deleting, indenting, joining
// and commenting lines) into content mutations.
//
// Every operation checks for read-only content before it builds anything,
// submits exactly one mutation, and then puts the caret and selection back
// where the user expects them relative to the changed text.
package edit
