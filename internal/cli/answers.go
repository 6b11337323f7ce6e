package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"selfeval/internal/evaluation"
	"selfeval/internal/scoring"
	"selfeval/internal/template"
)

// answersFile is a prepared evaluation read by submit and score.
type answersFile struct {
	LocationID int64             `yaml:"location_id"`
	Answers    map[string]string `yaml:"answers"`
	// Photos maps question ids to image files.
	Photos    map[string]string `yaml:"photos"`
	Signature string            `yaml:"signature"`
	SignedBy  string            `yaml:"signed_by"`
}

// loadAnswersFile parses path and resolves file references against its
// directory.
func loadAnswersFile(path string) (answersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return answersFile{}, fmt.Errorf("read answers: %w", err)
	}
	var file answersFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return answersFile{}, fmt.Errorf("parse answers: empty file")
		}
		return answersFile{}, fmt.Errorf("parse answers: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return answersFile{}, fmt.Errorf("parse answers: multiple YAML documents are not supported")
	}
	base := filepath.Dir(path)
	for id, photo := range file.Photos {
		file.Photos[id] = resolveRelative(base, photo)
	}
	if file.Signature != "" {
		file.Signature = resolveRelative(base, file.Signature)
	}
	return file, nil
}

func resolveRelative(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// values parses every answer and checks it against tmpl.
func (f answersFile) values(tmpl template.Template) (scoring.Map, error) {
	out := scoring.Map{}
	var problems []string
	for _, id := range sortedKeys(f.Answers) {
		question, ok := tmpl.Question(id)
		if !ok {
			problems = append(problems, fmt.Sprintf("%s: unknown question", id))
			continue
		}
		value, err := evaluation.ParseValue(f.Answers[id])
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", id, err))
			continue
		}
		if value == evaluation.NA && !question.AllowsNA() {
			problems = append(problems, fmt.Sprintf("%s: not applicable is not allowed", id))
			continue
		}
		out[id] = value
	}
	for _, id := range sortedKeys(f.Photos) {
		if _, ok := tmpl.Question(id); !ok {
			problems = append(problems, fmt.Sprintf("photos.%s: unknown question", id))
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("invalid answers:\n%s", strings.Join(problems, "\n"))
	}
	return out, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
