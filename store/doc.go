// Package store keeps finished transcripts as JSON files on an afero.Fs.
//
// Each audio source maps to transcript_<basename>.json in the store
// directory; saving the same source twice overwrites the earlier file.
package store
