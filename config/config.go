// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads syllabus settings from a YAML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/poiesic/syllabus/ai"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "syllabus.yaml"

// API key variables, in order of precedence.
var apiKeyEnv = []string{"SYLLABUS_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY"}

// AIConfig configures the embedding and completion services.
type AIConfig struct {
	EmbeddingHost     string  `yaml:"embedding_host"`
	CompletionHost    string  `yaml:"completion_host"`
	EmbeddingModel    string  `yaml:"embedding_model"`
	CompletionModel   string  `yaml:"completion_model"`
	APIKey            string  `yaml:"api_key,omitempty"`
	Temperature       float64 `yaml:"temperature"`
	MaxTokens         int     `yaml:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
}

// File is the root configuration structure. MaxCourseDistance is the cosine
// distance at or above which a course name does not resolve.
type File struct {
	DocsDir           string   `yaml:"docs_dir"`
	DBPath            string   `yaml:"db_path"`
	ChunkSize         int      `yaml:"chunk_size"`
	ChunkOverlap      int      `yaml:"chunk_overlap"`
	MaxResults        int      `yaml:"max_results"`
	MaxHistory        int      `yaml:"max_history"`
	MaxCourseDistance float64  `yaml:"max_course_distance"`
	AI                AIConfig `yaml:"ai"`
}

// Default returns the built-in configuration.
func Default() *File {
	aiDefaults := ai.DefaultConfig()
	return &File{
		DocsDir:           "../docs",
		DBPath:            "./syllabus-db",
		ChunkSize:         800,
		ChunkOverlap:      100,
		MaxResults:        5,
		MaxHistory:        2,
		MaxCourseDistance: 1.0,
		AI: AIConfig{
			EmbeddingHost:   aiDefaults.EmbeddingHost,
			CompletionHost:  aiDefaults.CompletionHost,
			EmbeddingModel:  aiDefaults.EmbeddingModel,
			CompletionModel: aiDefaults.CompletionModel,
			Temperature:     aiDefaults.Temperature,
			MaxTokens:       aiDefaults.MaxTokens,
		},
	}
}

// Load reads a config from path. If the file does not exist, returns
// defaults. Environment variables override values from the file.
func Load(path string) (*File, error) {
	if path == "" {
		path = DefaultPath
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	applyDefaults(cfg)
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnv loads variables from .env files into the process environment.
// Variables that are already set are kept. Missing files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// Save writes the config to path, creating directories as needed.
// The API key is never written.
func Save(path string, cfg *File) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out := *cfg
	out.AI.APIKey = ""
	data, err := yaml.Marshal(&out)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// AIConfig converts the file settings into an ai.Config.
func (f *File) AIConfig() *ai.Config {
	return ai.NewConfig(
		ai.WithEmbeddingHost(f.AI.EmbeddingHost),
		ai.WithCompletionHost(f.AI.CompletionHost),
		ai.WithEmbeddingModel(f.AI.EmbeddingModel),
		ai.WithCompletionModel(f.AI.CompletionModel),
		ai.WithAPIKey(f.AI.APIKey),
		ai.WithTemperature(f.AI.Temperature),
		ai.WithMaxTokens(f.AI.MaxTokens),
		ai.WithRequestsPerSecond(f.AI.RequestsPerSecond),
	)
}

// Validate checks the non-AI settings. AI settings are checked by
// ai.Config.Validate.
func (f *File) Validate() error {
	if f.DBPath == "" {
		return errors.New("config: db_path is required")
	}
	if f.ChunkSize <= 0 {
		return errors.New("config: chunk_size must be positive")
	}
	if f.ChunkOverlap < 0 || f.ChunkOverlap >= f.ChunkSize {
		return errors.New("config: chunk_overlap must be in [0, chunk_size)")
	}
	if f.MaxResults <= 0 {
		return errors.New("config: max_results must be positive")
	}
	if f.MaxHistory <= 0 {
		return errors.New("config: max_history must be positive")
	}
	if f.MaxCourseDistance <= 0 || f.MaxCourseDistance > 2 {
		return errors.New("config: max_course_distance must be in (0, 2]")
	}
	return nil
}

func applyDefaults(cfg *File) {
	d := Default()
	if cfg.DocsDir == "" {
		cfg.DocsDir = d.DocsDir
	}
	if cfg.DBPath == "" {
		cfg.DBPath = d.DBPath
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = d.ChunkSize
	}
	if cfg.MaxResults == 0 {
		cfg.MaxResults = d.MaxResults
	}
	if cfg.MaxHistory == 0 {
		cfg.MaxHistory = d.MaxHistory
	}
	if cfg.MaxCourseDistance == 0 {
		cfg.MaxCourseDistance = d.MaxCourseDistance
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = d.AI.EmbeddingHost
	}
	if cfg.AI.CompletionHost == "" {
		cfg.AI.CompletionHost = d.AI.CompletionHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = d.AI.EmbeddingModel
	}
	if cfg.AI.CompletionModel == "" {
		cfg.AI.CompletionModel = d.AI.CompletionModel
	}
	if cfg.AI.MaxTokens == 0 {
		cfg.AI.MaxTokens = d.AI.MaxTokens
	}
}

func applyEnv(cfg *File) error {
	for _, name := range apiKeyEnv {
		if v := os.Getenv(name); v != "" {
			cfg.AI.APIKey = v
			break
		}
	}
	strs := map[string]*string{
		"SYLLABUS_DOCS_DIR":         &cfg.DocsDir,
		"SYLLABUS_DB_PATH":          &cfg.DBPath,
		"SYLLABUS_EMBEDDING_HOST":   &cfg.AI.EmbeddingHost,
		"SYLLABUS_COMPLETION_HOST":  &cfg.AI.CompletionHost,
		"SYLLABUS_EMBEDDING_MODEL":  &cfg.AI.EmbeddingModel,
		"SYLLABUS_COMPLETION_MODEL": &cfg.AI.CompletionModel,
	}
	for name, dst := range strs {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	ints := map[string]*int{
		"SYLLABUS_CHUNK_SIZE":    &cfg.ChunkSize,
		"SYLLABUS_CHUNK_OVERLAP": &cfg.ChunkOverlap,
		"SYLLABUS_MAX_RESULTS":   &cfg.MaxResults,
		"SYLLABUS_MAX_HISTORY":   &cfg.MaxHistory,
	}
	for name, dst := range ints {
		v := os.Getenv(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", name, err)
		}
		*dst = n
	}
	return nil
}
