// Package dataset parses dataset keys into their structured parts.
//
// A key such as "opus_CCAligned/v1" names the importer that provides
// the corpus ("opus") and the corpus name within that importer
// ("CCAligned/v1"). Keys double as shuffle seeds, so their exact
// spelling is significant.
package dataset

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoImporter is returned when a key has no importer segment.
	ErrNoImporter = errors.New("could not find the importer in the dataset key")

	// ErrNoName is returned when a key has no name segment.
	ErrNoName = errors.New("could not find the name in the dataset key")
)

// Dataset is the structured form of a dataset key.
//
//	Key:            "opus_CCAligned/v1"
//	Importer:       "opus"
//	Name:           "CCAligned/v1"
//	FileSafeKey():  "opus_CCAligned_v1"
//	FileSafeName(): "CCAligned_v1"
type Dataset struct {
	Key      string
	Importer string
	Name     string
}

// Parse splits a dataset key at its first underscore into importer and
// name.
func Parse(key string) (Dataset, error) {
	importer, name, _ := strings.Cut(key, "_")

	if importer == "" {
		return Dataset{}, fmt.Errorf("%w %q", ErrNoImporter, key)
	}
	if name == "" {
		return Dataset{}, fmt.Errorf("%w %q", ErrNoName, key)
	}

	return Dataset{Key: key, Importer: importer, Name: name}, nil
}

// escaper rewrites characters that are unsafe in file names. Kept in
// sync with the task-graph side, which derives artifact names the same
// way.
var escaper = strings.NewReplacer(
	"://", "_",
	"/", "_",
	".", "_",
	":", "_",
	"[", "_",
	"]", "_",
)

// FileSafeKey returns the key with path-unsafe characters replaced.
func (d Dataset) FileSafeKey() string {
	return escaper.Replace(d.Key)
}

// FileSafeName returns the name with path-unsafe characters replaced.
func (d Dataset) FileSafeName() string {
	return escaper.Replace(d.Name)
}
