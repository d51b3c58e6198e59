package archive

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPageSize = 200
	MaxPageSize     = 1000
)

// Job describes which channels an archive run covers.
type Job struct {
	Channels []string `toml:"channels"`
	PageSize int      `toml:"pageSize"`
	// MaxPages caps the pages fetched per channel per run; 0 means no cap.
	MaxPages int `toml:"maxPages"`
}

// LoadJob reads a TOML job file. Unknown keys are rejected.
func LoadJob(path string) (*Job, error) {
	var job Job
	md, err := toml.DecodeFile(path, &job)
	if err != nil {
		return nil, fmt.Errorf("archive: load job %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("archive: job %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := job.validate(); err != nil {
		return nil, fmt.Errorf("archive: job %s: %w", path, err)
	}
	return &job, nil
}

func (j *Job) validate() error {
	if len(j.Channels) == 0 {
		return fmt.Errorf("channels required")
	}
	seen := make(map[string]bool, len(j.Channels))
	for _, ch := range j.Channels {
		if strings.TrimSpace(ch) == "" {
			return fmt.Errorf("empty channel id")
		}
		if seen[ch] {
			return fmt.Errorf("channel %s listed twice", ch)
		}
		seen[ch] = true
	}
	if j.PageSize == 0 {
		j.PageSize = DefaultPageSize
	}
	if j.PageSize < 1 || j.PageSize > MaxPageSize {
		return fmt.Errorf("pageSize must be between 1 and %d", MaxPageSize)
	}
	if j.MaxPages < 0 {
		return fmt.Errorf("maxPages must not be negative")
	}
	return nil
}
