package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/docqa/internal/core/domain"
	"github.com/custodia-labs/docqa/internal/core/ports/driven"
	"github.com/custodia-labs/docqa/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// builtin describes a prompt that ships with the binary.
type builtin struct {
	template string
	// verbs is the number of %s the caller formats into the template.
	verbs int
}

var builtins = map[string]builtin{
	driven.PromptAnswer: {template: domain.AnswerPromptTemplate, verbs: 2},
}

// PromptStore serves prompt templates from <dir>/<name>.txt so users can
// tune how answers are phrased. A missing or malformed file falls back to
// the built-in template.
//
// Nothing touches the disk until the first Load, which seeds the directory
// with the built-in templates and a README.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.RWMutex
	cache map[string]string
}

// NewPromptStore creates a prompt store rooted at dir, or at prompts/
// under DefaultDir when dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		home, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]string)}, nil
}

// Load returns the template for name.
func (s *PromptStore) Load(name string) (string, error) {
	def, known := builtins[name]

	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		if known {
			return def.template, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.seedErr)
	}

	s.mu.RLock()
	prompt, ok := s.cache[name]
	s.mu.RUnlock()
	if ok {
		return prompt, nil
	}

	prompt, err := s.read(name)
	switch {
	case err != nil && !known:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	case err != nil:
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Prompt %s unreadable, using built-in: %v", name, err)
		}
		prompt = def.template
	case known && strings.Count(prompt, "%s") != def.verbs:
		logger.Warn("Prompt %s.txt must contain %d %%s placeholders, using built-in", name, def.verbs)
		prompt = def.template
	}

	s.mu.Lock()
	if cached, ok := s.cache[name]; ok {
		prompt = cached
	} else {
		s.cache[name] = prompt
	}
	s.mu.Unlock()
	return prompt, nil
}

// Reload drops cached templates so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.dir
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// seed writes the built-in templates and README without overwriting edits.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	files := map[string]string{"README.md": promptReadme}
	for name, def := range builtins {
		files[name+".txt"] = def.template
	}
	for file, content := range files {
		if err := writeIfMissing(filepath.Join(s.dir, file), content); err != nil {
			s.seedErr = fmt.Errorf("create %s: %w", file, err)
			return
		}
	}
}

func writeIfMissing(path, content string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if errors.Is(err, os.ErrExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

const promptReadme = `# docqa prompts

answer.txt is the prompt used to answer questions about the ingested
document. Edit it to change tone, length or refusal wording.

It must contain exactly two %s placeholders: the retrieved context first,
then the question. A file without them is ignored and the built-in prompt
is used instead.

'docqa chat' picks up edits immediately. Other commands read the file
when they start.
`
