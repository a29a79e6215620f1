package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gregtatum/firefox-translations-training/internal/dataset"
)

// ErrBadJob is returned when a job file fails validation.
var ErrBadJob = errors.New("invalid shuffle job")

// Job modes.
const (
	ModeExternal  = "external"
	ModeReservoir = "reservoir"
)

// Job describes one dataset to prepare. The dataset key doubles as the
// shuffle seed so repeated runs over the same corpus stay reproducible.
type Job struct {
	Dataset string `yaml:"dataset"`
	URL     string `yaml:"url"`
	Output  string `yaml:"output"`

	// Mode picks the shuffler: "external" (disk-backed, default) or
	// "reservoir" (in-memory sample).
	Mode string `yaml:"mode"`

	// Reservoir mode.
	MaxLines           int   `yaml:"max_lines"`
	MaxWordsInSentence int   `yaml:"max_words_in_sentence"`
	TotalByteSize      int64 `yaml:"total_byte_size"`

	// External mode.
	ChunkBytes  int64 `yaml:"chunk_bytes"`
	BucketBytes int64 `yaml:"bucket_bytes"`
}

// JobFile is the YAML document listing datasets to prepare.
type JobFile struct {
	Datasets []Job `yaml:"datasets"`
}

// LoadJobs reads and validates a YAML job file. Validation fails fast,
// before any corpus data is touched.
func LoadJobs(path string) (*JobFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job file %s: %w", path, err)
	}

	var file JobFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse job file %s: %w", path, err)
	}
	if len(file.Datasets) == 0 {
		return nil, fmt.Errorf("%w: job file %s lists no datasets", ErrBadJob, path)
	}

	for i := range file.Datasets {
		if err := file.Datasets[i].validate(); err != nil {
			return nil, err
		}
	}
	return &file, nil
}

func (j *Job) validate() error {
	if _, err := dataset.Parse(j.Dataset); err != nil {
		return fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	if j.Output == "" {
		return fmt.Errorf("%w: dataset %s has no output", ErrBadJob, j.Dataset)
	}

	if j.Mode == "" {
		j.Mode = ModeExternal
	}
	switch j.Mode {
	case ModeExternal:
		if j.ChunkBytes <= 0 {
			return fmt.Errorf("%w: dataset %s chunk_bytes %d must be positive", ErrBadJob, j.Dataset, j.ChunkBytes)
		}
		if j.BucketBytes <= 0 {
			return fmt.Errorf("%w: dataset %s bucket_bytes %d must be positive", ErrBadJob, j.Dataset, j.BucketBytes)
		}
	case ModeReservoir:
		if j.MaxLines <= 0 {
			return fmt.Errorf("%w: dataset %s max_lines %d must be positive", ErrBadJob, j.Dataset, j.MaxLines)
		}
		if j.MaxWordsInSentence == 0 {
			j.MaxWordsInSentence = 100
		}
		if j.MaxWordsInSentence < 0 {
			return fmt.Errorf("%w: dataset %s max_words_in_sentence %d is negative", ErrBadJob, j.Dataset, j.MaxWordsInSentence)
		}
		if j.TotalByteSize < 0 {
			return fmt.Errorf("%w: dataset %s total_byte_size %d is negative", ErrBadJob, j.Dataset, j.TotalByteSize)
		}
	default:
		return fmt.Errorf("%w: dataset %s has unknown mode %q", ErrBadJob, j.Dataset, j.Mode)
	}
	return nil
}
