package config

import (
	"crypto/md5" //nolint:gosec // MD5 is acceptable for non-cryptographic file change detection
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"leadflow/pkg/leaderrors"
)

// Question is one ordered unit of the qualification script.
// The key doubles as the storage key for the lead's answer.
type Question struct {
	Key    string `json:"key"`
	Prompt string `json:"prompt"`
}

// Script is the per-industry dialog script: a greeting template with a {name}
// placeholder followed by an ordered question sequence. Immutable after load.
type Script struct {
	Greeting  string     `json:"greeting"`
	Questions []Question `json:"questions"`
}

// DefaultGreeting is used when a script omits its greeting template.
const DefaultGreeting = "Hello {name}, welcome!"

// Validate checks the script once at the load boundary. An empty question list
// is allowed here: the dialog driver reports it on the turn that would ask the
// first question, keeping the greeting turn usable.
func (s *Script) Validate() error {
	seen := make(map[string]bool, len(s.Questions))
	for i := range s.Questions {
		q := &s.Questions[i]
		if q.Key == "" {
			return leaderrors.Newf(leaderrors.KindConfiguration, "question %d has an empty key", i)
		}
		if q.Prompt == "" {
			return leaderrors.Newf(leaderrors.KindConfiguration, "question %q has an empty prompt", q.Key)
		}
		if seen[q.Key] {
			return leaderrors.Newf(leaderrors.KindConfiguration, "duplicate question key %q", q.Key)
		}
		seen[q.Key] = true
	}
	return nil
}

// QuestionKeys returns the question keys in script order.
func (s *Script) QuestionKeys() []string {
	keys := make([]string, len(s.Questions))
	for i := range s.Questions {
		keys[i] = s.Questions[i].Key
	}
	return keys
}

type cachedScript struct {
	script *Script
	hash   [md5.Size]byte
}

// ScriptLoader loads industry scripts from JSON files with a process-wide cache.
// Cached entries are refreshed when the file content hash changes and can be
// dropped explicitly via Invalidate.
type ScriptLoader struct {
	dir   string
	mu    sync.RWMutex
	cache map[string]*cachedScript
}

// NewScriptLoader creates a loader rooted at the given script directory.
func NewScriptLoader(dir string) *ScriptLoader {
	return &ScriptLoader{
		dir:   dir,
		cache: make(map[string]*cachedScript),
	}
}

// Load returns the validated script for an industry.
// Results are cached until the underlying file changes or Invalidate is called.
func (l *ScriptLoader) Load(industry string) (*Script, error) {
	path := filepath.Join(l.dir, fmt.Sprintf("%s.json", industry))

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, leaderrors.Newf(leaderrors.KindConfiguration,
				"configuration file not found for industry %q (%s)", industry, path)
		}
		return nil, leaderrors.WithCause(leaderrors.KindConfiguration, err,
			fmt.Sprintf("error reading configuration file for industry %q", industry))
	}

	hash := md5.Sum(data) //nolint:gosec // Change detection only

	l.mu.RLock()
	cached, ok := l.cache[industry]
	l.mu.RUnlock()
	if ok && cached.hash == hash {
		return cached.script, nil
	}

	script := &Script{}
	if err := json.Unmarshal(data, script); err != nil {
		return nil, leaderrors.WithCause(leaderrors.KindConfiguration, err,
			fmt.Sprintf("invalid JSON in configuration file for industry %q", industry))
	}
	if script.Greeting == "" {
		script.Greeting = DefaultGreeting
	}
	if err := script.Validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[industry] = &cachedScript{script: script, hash: hash}
	l.mu.Unlock()

	return script, nil
}

// Invalidate drops the cached script for an industry, forcing a reload.
func (l *ScriptLoader) Invalidate(industry string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.cache, industry)
}
