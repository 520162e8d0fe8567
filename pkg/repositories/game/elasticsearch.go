package game

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/fadedpez/uno/internal/logging"
	"github.com/fadedpez/uno/pkg/entities"
)

const (
	summaryMapping = `{
		"mappings": {
			"properties": {
				"game_id": { "type": "keyword" },
				"winner": { "type": "keyword" },
				"winner_name": { "type": "keyword" },
				"duration_ms": { "type": "long" },
				"total_turns": { "type": "integer" },
				"completed_at": { "type": "date" },
				"players": {
					"type": "nested",
					"properties": {
						"player_id": { "type": "keyword" },
						"player_name": { "type": "keyword" },
						"cards_left": { "type": "integer" },
						"is_computer": { "type": "boolean" },
						"difficulty": { "type": "keyword" },
						"favorite_color": { "type": "keyword" },
						"won": { "type": "boolean" }
					}
				}
			}
		}
	}`

	moveMapping = `{
		"mappings": {
			"properties": {
				"game_id": { "type": "keyword" },
				"player_id": { "type": "keyword" },
				"player_name": { "type": "keyword" },
				"color": { "type": "keyword" },
				"kind": { "type": "keyword" },
				"value": { "type": "integer" },
				"color_chosen": { "type": "keyword" },
				"cards_in_hand": { "type": "integer" },
				"turn_duration_ms": { "type": "long" },
				"timestamp": { "type": "date" }
			}
		},
		"settings": {
			"number_of_shards": 1,
			"refresh_interval": "1s"
		}
	}`

	// Moves go to one index per month, e.g. uno_moves_2025-06
	moveIndexLayout = "2006-01"
)

// ElasticsearchConfig holds configuration options for the Elasticsearch repository
type ElasticsearchConfig struct {
	URL             string
	Username        string
	Password        string
	IndexPrefix     string
	RetentionPeriod time.Duration // How long monthly move indices are kept
	// Transport overrides the HTTP transport of the client. Nil uses the default.
	Transport http.RoundTripper
	Clock     quartz.Clock
}

// DefaultElasticsearchConfig returns a default configuration for Elasticsearch
func DefaultElasticsearchConfig() *ElasticsearchConfig {
	return &ElasticsearchConfig{
		URL:             "http://localhost:9200",
		IndexPrefix:     "uno",
		RetentionPeriod: 90 * 24 * time.Hour,
	}
}

// ElasticsearchRepository wraps a base repository and mirrors moves and
// summaries into Elasticsearch. Summary queries are served from Elasticsearch;
// everything else reads from the base repository.
type ElasticsearchRepository struct {
	baseRepo    Repository
	client      *elasticsearch.Client
	config      *ElasticsearchConfig
	indexPrefix string
	clock       quartz.Clock
	logger      *logging.Logger

	mu               sync.Mutex
	currentMoveIndex string
}

// NewElasticsearchRepository creates a new Elasticsearch repository
func NewElasticsearchRepository(ctx context.Context, baseRepo Repository, config *ElasticsearchConfig) (*ElasticsearchRepository, error) {
	cfg := elasticsearch.Config{
		Addresses: []string{config.URL},
		Transport: config.Transport,
	}

	// Add authentication if provided
	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("error creating Elasticsearch client: %w", err)
	}

	if config.IndexPrefix == "" {
		config.IndexPrefix = "uno"
	}
	if config.RetentionPeriod == 0 {
		config.RetentionPeriod = 90 * 24 * time.Hour
	}
	clock := config.Clock
	if clock == nil {
		clock = quartz.NewReal()
	}

	repo := &ElasticsearchRepository{
		baseRepo:    baseRepo,
		client:      client,
		config:      config,
		indexPrefix: config.IndexPrefix,
		clock:       clock,
		logger:      logging.Default.With("elasticsearch"),
	}

	if err := repo.initIndices(ctx); err != nil {
		return nil, fmt.Errorf("error initializing indices: %w", err)
	}

	return repo, nil
}

func (r *ElasticsearchRepository) summaryIndex() string {
	return r.indexPrefix + "_summaries"
}

func (r *ElasticsearchRepository) moveIndexFor(t time.Time) string {
	return r.indexPrefix + "_moves_" + t.UTC().Format(moveIndexLayout)
}

// initIndices creates the summary index and the current move index if they don't exist
func (r *ElasticsearchRepository) initIndices(ctx context.Context) error {
	if err := r.ensureIndex(ctx, r.summaryIndex(), summaryMapping); err != nil {
		return err
	}
	return r.RotateIndices(ctx)
}

func (r *ElasticsearchRepository) ensureIndex(ctx context.Context, name, mapping string) error {
	res, err := r.client.Indices.Exists([]string{name}, r.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("error checking if index %s exists: %w", name, err)
	}
	res.Body.Close()

	if res.StatusCode != http.StatusNotFound {
		return nil
	}

	res, err = r.client.Indices.Create(
		name,
		r.client.Indices.Create.WithContext(ctx),
		r.client.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		return fmt.Errorf("error creating index %s: %w", name, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error creating index %s: %s", name, res.String())
	}

	r.logger.Info("Created index %s", name)
	return nil
}

// RotateIndices makes sure the move index for the current month exists
func (r *ElasticsearchRepository) RotateIndices(ctx context.Context) error {
	name := r.moveIndexFor(r.clock.Now())

	r.mu.Lock()
	defer r.mu.Unlock()

	if name == r.currentMoveIndex {
		return nil
	}
	if err := r.ensureIndex(ctx, name, moveMapping); err != nil {
		return fmt.Errorf("error rotating indices: %w", err)
	}
	r.currentMoveIndex = name
	return nil
}

// PruneOldIndices deletes monthly move indices whose month ended before the retention period
func (r *ElasticsearchRepository) PruneOldIndices(ctx context.Context) ([]string, error) {
	indices, err := r.GetIndices(ctx, r.indexPrefix+"_moves_*")
	if err != nil {
		return nil, err
	}

	cutoff := r.clock.Now().Add(-r.config.RetentionPeriod)
	prefix := r.indexPrefix + "_moves_"
	var pruned []string
	for _, name := range indices {
		month, err := time.Parse(moveIndexLayout, strings.TrimPrefix(name, prefix))
		if err != nil {
			r.logger.Warn("Skipping index with unexpected name %s", name)
			continue
		}
		if !month.AddDate(0, 1, 0).Before(cutoff) {
			continue
		}

		res, err := r.client.Indices.Delete([]string{name}, r.client.Indices.Delete.WithContext(ctx))
		if err != nil {
			r.logger.Error("Error deleting index %s: %v", name, err)
			continue
		}
		if res.IsError() {
			r.logger.Error("Error deleting index %s: %s", name, res.String())
			res.Body.Close()
			continue
		}
		res.Body.Close()

		r.logger.Info("Deleted index %s (older than retention period of %v)", name, r.config.RetentionPeriod)
		pruned = append(pruned, name)
	}

	return pruned, nil
}

// GetIndices returns the sorted names of indices that match the given pattern
func (r *ElasticsearchRepository) GetIndices(ctx context.Context, pattern string) ([]string, error) {
	res, err := r.client.Indices.Get(
		[]string{pattern},
		r.client.Indices.Get.WithContext(ctx),
		r.client.Indices.Get.WithExpandWildcards("open"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get indices: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error getting indices: %s", res.String())
	}

	var indices map[string]json.RawMessage
	if err := json.NewDecoder(res.Body).Decode(&indices); err != nil {
		return nil, fmt.Errorf("error parsing indices response: %w", err)
	}

	names := make([]string, 0, len(indices))
	for name := range indices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (r *ElasticsearchRepository) index(ctx context.Context, index, id string, doc interface{}) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("error marshaling document: %w", err)
	}

	opts := []func(*esapi.IndexRequest){
		r.client.Index.WithContext(ctx),
		r.client.Index.WithRefresh("true"),
	}
	if id != "" {
		opts = append(opts, r.client.Index.WithDocumentID(id))
	}

	res, err := r.client.Index(index, bytes.NewReader(body), opts...)
	if err != nil {
		return fmt.Errorf("error indexing document: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error indexing document: %s", res.String())
	}
	return nil
}

// SaveMove saves a move to the base repository and indexes it in the monthly move index
func (r *ElasticsearchRepository) SaveMove(ctx context.Context, move *entities.MoveRecord) error {
	if err := r.baseRepo.SaveMove(ctx, move); err != nil {
		return fmt.Errorf("error saving move to base repository: %w", err)
	}

	if err := r.RotateIndices(ctx); err != nil {
		return err
	}
	r.mu.Lock()
	index := r.currentMoveIndex
	r.mu.Unlock()

	return r.index(ctx, index, "", newESMove(move))
}

// GetMoves retrieves moves from the base repository
func (r *ElasticsearchRepository) GetMoves(ctx context.Context, sessionID string) ([]*entities.MoveRecord, error) {
	return r.baseRepo.GetMoves(ctx, sessionID)
}

// SaveLearningRecord saves a learning record to the base repository
func (r *ElasticsearchRepository) SaveLearningRecord(ctx context.Context, record *entities.LearningRecord) error {
	return r.baseRepo.SaveLearningRecord(ctx, record)
}

// GetLearningRecords retrieves learning records from the base repository
func (r *ElasticsearchRepository) GetLearningRecords(ctx context.Context, difficulty entities.Difficulty, limit int) ([]*entities.LearningRecord, error) {
	return r.baseRepo.GetLearningRecords(ctx, difficulty, limit)
}

// ResolveOutcomes resolves outcomes in the base repository
func (r *ElasticsearchRepository) ResolveOutcomes(ctx context.Context, sessionID string, outcomes map[string]entities.Outcome) error {
	return r.baseRepo.ResolveOutcomes(ctx, sessionID, outcomes)
}

// PruneLearningRecords prunes learning records in the base repository
func (r *ElasticsearchRepository) PruneLearningRecords(ctx context.Context, keep int) (int, error) {
	return r.baseRepo.PruneLearningRecords(ctx, keep)
}

// SaveGameSummary saves a summary to the base repository and indexes it in Elasticsearch
func (r *ElasticsearchRepository) SaveGameSummary(ctx context.Context, summary *entities.GameSummary) error {
	if err := r.baseRepo.SaveGameSummary(ctx, summary); err != nil {
		return fmt.Errorf("error saving game summary to base repository: %w", err)
	}

	return r.index(ctx, r.summaryIndex(), summary.SessionID, newESGameSummary(summary))
}

// GetGameSummaries retrieves the most recent summaries from Elasticsearch
func (r *ElasticsearchRepository) GetGameSummaries(ctx context.Context, limit int) ([]*entities.GameSummary, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `{
		"query": { "match_all": {} },
		"sort": [
			{ "completed_at": { "order": "desc" } }
		]
	}`

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.summaryIndex()),
		r.client.Search.WithBody(strings.NewReader(query)),
		r.client.Search.WithSize(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("error searching for game summaries: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching for game summaries: %s", res.String())
	}

	var result struct {
		Hits struct {
			Hits []struct {
				Source ESGameSummary `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("error parsing game summaries: %w", err)
	}

	summaries := make([]*entities.GameSummary, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		summaries = append(summaries, hit.Source.toEntity())
	}
	return summaries, nil
}

// GetPlayerStatistics retrieves statistics from the base repository
func (r *ElasticsearchRepository) GetPlayerStatistics(ctx context.Context, name string) (*entities.PlayerStatistics, error) {
	return r.baseRepo.GetPlayerStatistics(ctx, name)
}

// GetAllPlayerStatistics retrieves all statistics from the base repository
func (r *ElasticsearchRepository) GetAllPlayerStatistics(ctx context.Context) ([]*entities.PlayerStatistics, error) {
	return r.baseRepo.GetAllPlayerStatistics(ctx)
}

// SavePlayerStatistics saves statistics to the base repository
func (r *ElasticsearchRepository) SavePlayerStatistics(ctx context.Context, stats *entities.PlayerStatistics) error {
	return r.baseRepo.SavePlayerStatistics(ctx, stats)
}

// Close closes the base repository
func (r *ElasticsearchRepository) Close() error {
	return r.baseRepo.Close()
}

// GetConfig returns the repository configuration
func (r *ElasticsearchRepository) GetConfig() ElasticsearchConfig {
	return *r.config
}

// GetIndexPrefix returns the index prefix used by the repository
func (r *ElasticsearchRepository) GetIndexPrefix() string {
	return r.indexPrefix
}
