package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/parkwise/rainier-guide/internal/config"
	"github.com/parkwise/rainier-guide/internal/core/ports"
	"github.com/parkwise/rainier-guide/internal/core/usecase"
	"github.com/parkwise/rainier-guide/internal/infrastructure/chunking"
	"github.com/parkwise/rainier-guide/internal/infrastructure/extractor"
	"github.com/parkwise/rainier-guide/internal/infrastructure/extractor/pdfdoc"
	"github.com/parkwise/rainier-guide/internal/infrastructure/extractor/plaintext"
	"github.com/parkwise/rainier-guide/internal/infrastructure/livedata"
	"github.com/parkwise/rainier-guide/internal/infrastructure/llm/ollama"
	natsqueue "github.com/parkwise/rainier-guide/internal/infrastructure/queue/nats"
	"github.com/parkwise/rainier-guide/internal/infrastructure/repository/postgres"
	"github.com/parkwise/rainier-guide/internal/infrastructure/resilience"
	"github.com/parkwise/rainier-guide/internal/infrastructure/storage/localfs"
	chromemstore "github.com/parkwise/rainier-guide/internal/infrastructure/vector/chromem"
	"github.com/parkwise/rainier-guide/internal/infrastructure/vector/qdrant"
	"github.com/parkwise/rainier-guide/internal/prompt"
)

type App struct {
	Config config.Config

	Queue     ports.MessageQueue
	Repo      ports.DocumentRepository
	GuideUC   ports.GuideService
	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor
	SeedUC    ports.KnowledgeSeeder

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())
	queue, err := natsqueue.NewWithOptions(cfg.NATSURL, cfg.NATSUploadSubject, cfg.NATSReindexSubject, natsqueue.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	llmTimeout := time.Duration(cfg.LLMTimeoutSecs) * time.Second
	ollamaClient := ollama.New(cfg.OllamaURL, cfg.OllamaGenModel, cfg.OllamaEmbedModel, llmTimeout, executor)
	embedder := ollama.NewEmbedder(ollamaClient)
	generator := ollama.NewGenerator(ollamaClient)

	vectorDB, err := newVectorStore(cfg)
	if err != nil {
		return nil, err
	}

	chunker := chunking.NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	textExtractor := extractor.NewRouter(
		plaintext.NewExtractor(storage),
		pdfdoc.NewExtractor(storage),
	)

	classifier, err := usecase.NewClassifier()
	if err != nil {
		return nil, fmt.Errorf("load topic keywords: %w", err)
	}
	templates, err := prompt.LoadSet()
	if err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}

	live := usecase.LiveData{
		Weather:         livedata.NewWeatherProvider("", cfg.WeatherAPIKey, cfg.ParkLatitude, cfg.ParkLongitude),
		TrailConditions: livedata.NewTrailConditionsProvider("", cfg.NPSAPIKey, cfg.NPSParkCode),
		Seasonal:        livedata.NewSeasonalProvider(),
	}

	guideUC := usecase.NewGuideUseCase(
		classifier,
		usecase.NewEnhancer(generator),
		embedder,
		vectorDB,
		generator,
		templates,
		live,
		usecase.GuidePolicy{
			TopK:               cfg.RetrievalTopK,
			EnhancementEnabled: cfg.EnhancementEnabled,
			OffTopicDecline:    cfg.OffTopicMode == "decline",
		},
	)
	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue)
	processUC := usecase.NewProcessDocumentUseCase(repo, textExtractor, chunker, embedder, vectorDB)
	seedUC := usecase.NewSeedKnowledgeUseCase(chunker, embedder, vectorDB)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,

		GuideUC:   guideUC,
		IngestUC:  ingestUC,
		ProcessUC: processUC,
		SeedUC:    seedUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func newVectorStore(cfg config.Config) (ports.VectorStore, error) {
	switch cfg.VectorBackend {
	case "chromem":
		store, err := chromemstore.New(cfg.ChromemPath, cfg.QdrantCollection)
		if err != nil {
			return nil, fmt.Errorf("init chromem store: %w", err)
		}
		return store, nil
	case "", "qdrant":
		return qdrant.New(cfg.QdrantURL, cfg.QdrantCollection), nil
	default:
		return nil, fmt.Errorf("unknown vector backend %q", cfg.VectorBackend)
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
