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


// Package syllabus answers questions about a folder of course materials.
//
// Course documents are parsed into a catalog of courses and a collection of
// embedded content chunks. Questions go to a tool-calling language model that
// can search the content or fetch a course outline before answering. Each
// session keeps a short conversation history.
//
// # Usage
//
//	sys, err := syllabus.Open("./syllabus-db", syllabus.WithAIConfig(cfg))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer sys.Close()
//
//	report, err := sys.IngestFolder(ctx, "../docs", false)
//	result, err := sys.Query(ctx, "What does lesson 2 of the MCP course cover?", "")
package syllabus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/poiesic/syllabus/ai"
	"github.com/poiesic/syllabus/ai/openai"
	"github.com/poiesic/syllabus/config"
	"github.com/poiesic/syllabus/core"
	"github.com/poiesic/syllabus/document"
	"github.com/poiesic/syllabus/ingestion"
	"github.com/poiesic/syllabus/orchestrator"
	"github.com/poiesic/syllabus/reembed"
	"github.com/poiesic/syllabus/search"
	"github.com/poiesic/syllabus/session"
	"github.com/poiesic/syllabus/storage"
	"github.com/poiesic/syllabus/storage/badger"
	"github.com/poiesic/syllabus/tools"
)

// System wires storage, the AI provider, the index, the tools, the
// orchestrator and the session store into one question-answering engine.
type System struct {
	backend      *badger.Backend
	catalog      storage.CatalogRepository
	content      storage.ContentRepository
	metadata     storage.MetadataRepository
	provider     ai.AIProvider
	index        *search.Index
	tools        *tools.Manager
	orchestrator *orchestrator.Orchestrator
	sessions     *session.Store
	pipeline     *ingestion.Pipeline
	options      *options
	logger       *slog.Logger
}

// QueryResult is the answer to one question.
type QueryResult struct {
	Answer    string
	Sources   []core.Source
	SessionID string
}

// CourseAnalytics summarizes the course catalog.
type CourseAnalytics struct {
	TotalCourses int
	Titles       []string
}

// Option configures a System.
type Option func(*options) error

type options struct {
	aiConfig          *ai.Config
	provider          ai.AIProvider
	inMemory          bool
	chunkSize         int
	chunkOverlap      int
	maxResults        int
	maxHistory        int
	maxCourseDistance float32
	poolSize          int
	systemPrompt      string
	logger            *slog.Logger
}

// WithAIConfig sets the configuration used to build the OpenAI-compatible
// provider. Default is ai.DefaultConfig().
func WithAIConfig(cfg *ai.Config) Option {
	return func(o *options) error {
		if cfg == nil {
			return errors.New("ai config cannot be nil")
		}
		o.aiConfig = cfg
		return nil
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The System takes ownership and closes it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) error {
		o.provider = provider
		return nil
	}
}

// WithInMemory keeps the index in memory. The path passed to Open is ignored.
func WithInMemory() Option {
	return func(o *options) error {
		o.inMemory = true
		return nil
	}
}

// WithChunking sets the chunk size and overlap in characters.
func WithChunking(size, overlap int) Option {
	return func(o *options) error {
		o.chunkSize = size
		o.chunkOverlap = overlap
		return nil
	}
}

// WithMaxResults sets how many chunks a search returns.
func WithMaxResults(n int) Option {
	return func(o *options) error {
		o.maxResults = n
		return nil
	}
}

// WithMaxHistory sets how many exchanges each session keeps.
func WithMaxHistory(n int) Option {
	return func(o *options) error {
		o.maxHistory = n
		return nil
	}
}

// WithMaxCourseDistance sets the distance at which course names stop
// resolving.
func WithMaxCourseDistance(d float32) Option {
	return func(o *options) error {
		o.maxCourseDistance = d
		return nil
	}
}

// WithPoolSize sets the number of files ingested concurrently.
func WithPoolSize(n int) Option {
	return func(o *options) error {
		o.poolSize = n
		return nil
	}
}

// WithSystemPrompt replaces the assistant's system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(o *options) error {
		o.systemPrompt = prompt
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// FromConfig applies the settings of a loaded config file.
func FromConfig(cfg *config.File) Option {
	return func(o *options) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		o.aiConfig = cfg.AIConfig()
		o.chunkSize = cfg.ChunkSize
		o.chunkOverlap = cfg.ChunkOverlap
		o.maxResults = cfg.MaxResults
		o.maxHistory = cfg.MaxHistory
		o.maxCourseDistance = float32(cfg.MaxCourseDistance)
		return nil
	}
}

// Open opens (or creates) the index at path and builds the engine.
func Open(path string, opts ...Option) (*System, error) {
	o := &options{
		aiConfig:          ai.DefaultConfig(),
		chunkSize:         document.DefaultChunkSize,
		chunkOverlap:      document.DefaultChunkOverlap,
		maxResults:        search.DefaultMaxResults,
		maxHistory:        session.DefaultMaxHistory,
		maxCourseDistance: search.DefaultMaxCourseDistance,
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	s := &System{options: o, logger: o.logger.With("component", "syllabus")}
	if err := s.open(path); err != nil {
		s.Close()
		return nil, err
	}
	s.checkEmbeddingModel(context.Background())
	return s, nil
}

func (s *System) open(path string) error {
	o := s.options

	backend, err := badger.OpenBackend(path, o.inMemory)
	if err != nil {
		return err
	}
	s.backend = backend

	catalog, err := badger.NewCatalogRepository(backend)
	if err != nil {
		return err
	}
	s.catalog = catalog
	content, err := badger.NewContentRepository(backend)
	if err != nil {
		return err
	}
	s.content = content
	s.metadata = badger.NewMetadataRepository(backend)

	s.provider = o.provider
	if s.provider == nil {
		provider, err := openai.NewProvider(o.aiConfig)
		if err != nil {
			return err
		}
		s.provider = provider
	}

	s.index, err = search.NewIndex(s.catalog, s.content, s.provider.Embedder(),
		search.WithLogger(o.logger),
		search.WithMaxResults(o.maxResults),
		search.WithMaxCourseDistance(o.maxCourseDistance),
	)
	if err != nil {
		return err
	}

	searchTool, err := tools.NewCourseSearchTool(s.index)
	if err != nil {
		return err
	}
	outlineTool, err := tools.NewCourseOutlineTool(s.index)
	if err != nil {
		return err
	}
	if s.tools, err = tools.NewManager(searchTool, outlineTool); err != nil {
		return err
	}

	orchOpts := []orchestrator.Option{orchestrator.WithLogger(o.logger)}
	if o.systemPrompt != "" {
		orchOpts = append(orchOpts, orchestrator.WithSystemPrompt(o.systemPrompt))
	}
	if s.orchestrator, err = orchestrator.New(s.provider.Completer(), s.tools, orchOpts...); err != nil {
		return err
	}

	if s.sessions, err = session.NewStore(session.WithMaxHistory(o.maxHistory), session.WithLogger(o.logger)); err != nil {
		return err
	}

	processor, err := document.NewProcessor(
		document.WithChunkSize(o.chunkSize),
		document.WithChunkOverlap(o.chunkOverlap),
		document.WithLogger(o.logger),
	)
	if err != nil {
		return err
	}
	pipelineOpts := []ingestion.Option{ingestion.WithProcessor(processor), ingestion.WithLogger(o.logger)}
	if o.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(o.poolSize))
	}
	s.pipeline, err = ingestion.NewPipeline(s.index, pipelineOpts...)
	return err
}

// Close releases the worker pool, the AI provider and the storage backend.
func (s *System) Close() error {
	if s.pipeline != nil {
		s.pipeline.Release()
	}
	if s.provider != nil {
		if err := s.provider.Close(); err != nil {
			s.logger.Error("error closing AI provider", "err", err)
		}
	}
	var errs []error
	for _, c := range []io.Closer{s.catalog, s.content} {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			s.logger.Error("error closing repository", "err", err)
			errs = append(errs, err)
		}
	}
	if s.backend != nil {
		if err := s.backend.Close(); err != nil {
			s.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Query answers a question within a session. An empty sessionID starts a
// new session. The exchange is only recorded when an answer was produced.
func (s *System) Query(ctx context.Context, query, sessionID string) (*QueryResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, orchestrator.ErrEmptyQuery
	}
	if sessionID == "" {
		sessionID = s.sessions.Create()
	}

	history := s.sessions.History(sessionID, s.options.maxHistory)
	answer, err := s.orchestrator.Answer(ctx, query, history)
	if err != nil {
		return nil, err
	}
	s.sessions.AddExchange(sessionID, query, answer.Text)

	return &QueryResult{
		Answer:    answer.Text,
		Sources:   answer.Sources,
		SessionID: sessionID,
	}, nil
}

// IngestFolder indexes the course documents in dir. See
// ingestion.Pipeline.IngestFolder.
func (s *System) IngestFolder(ctx context.Context, dir string, clear bool) (*ingestion.Report, error) {
	report, err := s.pipeline.IngestFolder(ctx, dir, clear)
	if err != nil {
		return report, err
	}
	if len(report.Loaded) > 0 {
		s.recordEmbeddingModel(ctx)
	}
	return report, nil
}

// NewWatcher returns a watcher that keeps dir and the index in step.
func (s *System) NewWatcher(dir string, opts ...ingestion.WatcherOption) (*ingestion.Watcher, error) {
	opts = append([]ingestion.WatcherOption{ingestion.WithWatcherLogger(s.options.logger)}, opts...)
	return ingestion.NewWatcher(s.pipeline, dir, opts...)
}

// Courses returns the number of indexed courses and their titles.
func (s *System) Courses(ctx context.Context) (*CourseAnalytics, error) {
	courses, err := s.index.Courses(ctx)
	if err != nil {
		return nil, err
	}
	out := &CourseAnalytics{TotalCourses: len(courses), Titles: make([]string, len(courses))}
	for i, c := range courses {
		out.Titles[i] = c.Title
	}
	return out, nil
}

// Search runs a retrieval query without involving the language model.
func (s *System) Search(ctx context.Context, q search.Query) (*search.Outcome, error) {
	return s.index.Search(ctx, q)
}

// Reembed recomputes every stored embedding with the current embedder and
// records the embedding model.
func (s *System) Reembed(ctx context.Context, cfg *reembed.Config, progress io.Writer) (*reembed.Result, error) {
	result, err := reembed.NewReembedder(s.catalog, s.content, s.provider.Embedder(), cfg, progress).Run(ctx)
	if err != nil {
		return result, err
	}
	s.recordEmbeddingModel(ctx)
	return result, nil
}

// ClearSession forgets a session's history.
func (s *System) ClearSession(id string) {
	s.sessions.Clear(id)
}

// Index returns the search index.
func (s *System) Index() *search.Index {
	return s.index
}

// Tools returns the registered course tools.
func (s *System) Tools() *tools.Manager {
	return s.tools
}

// embeddingModel names the model behind the embedder. Injected providers
// without an AI config are recorded as "custom".
func (s *System) embeddingModel() string {
	if s.options.provider != nil || s.options.aiConfig == nil {
		return "custom"
	}
	return s.options.aiConfig.EmbeddingModel
}

func (s *System) recordEmbeddingModel(ctx context.Context) {
	if err := s.metadata.Put(ctx, storage.MetaEmbeddingModel, s.embeddingModel()); err != nil {
		s.logger.Warn("failed to record embedding model", "err", err)
	}
}

// checkEmbeddingModel warns when stored vectors came from another model.
// Distances between vectors of different models are meaningless.
func (s *System) checkEmbeddingModel(ctx context.Context) {
	stored, err := s.metadata.Get(ctx, storage.MetaEmbeddingModel)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("failed to read embedding model", "err", err)
		return
	}
	if current := s.embeddingModel(); stored != current {
		s.logger.Warn("index was built with a different embedding model; run reembed",
			"stored", stored, "configured", current)
	}
}

// EmbeddingModel returns the model recorded for the stored vectors, if any.
func (s *System) EmbeddingModel(ctx context.Context) (string, error) {
	return s.metadata.Get(ctx, storage.MetaEmbeddingModel)
}
