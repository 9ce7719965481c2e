package catalog

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"cinematch/internal/artifact"
	"cinematch/internal/config"
	"cinematch/internal/dataset"
	"cinematch/internal/fileutil"
	"cinematch/internal/ledger"
	"cinematch/internal/logging"
	"cinematch/internal/similarity"
	"cinematch/internal/textutil"
)

const lockRetryDelay = 250 * time.Millisecond

// Builder produces catalogs from configured paths.
type Builder struct {
	cfg    *config.Config
	logger *slog.Logger
	ledger *ledger.Store
	now    func() time.Time
}

// NewBuilder returns a builder for cfg. A nil logger discards output.
func NewBuilder(cfg *config.Config, logger *slog.Logger) *Builder {
	return &Builder{
		cfg:    cfg,
		logger: logging.NewComponentLoggerWithLevels(logger, "catalog", cfg.Logging.ComponentLevels),
		now:    time.Now,
	}
}

// WithLedger records every run in store.
func (b *Builder) WithLedger(store *ledger.Store) *Builder {
	b.ledger = store
	return b
}

// Options maps configuration onto build options.
func (b *Builder) Options() BuildOptions {
	return BuildOptions{
		Vectorizer: textutil.VectorizerOptions{
			MaxFeatures: b.cfg.Vectorizer.MaxFeatures,
			NGramMin:    b.cfg.Vectorizer.NGramMin,
			NGramMax:    b.cfg.Vectorizer.NGramMax,
			StopWords:   b.cfg.Vectorizer.StopWords,
			Norm:        b.cfg.Vectorizer.Norm,
		},
		Similarity: similarity.Options{
			Workers: b.cfg.Similarity.Workers,
			MaxRows: b.cfg.Similarity.MaxRows,
		},
	}
}

// BuildAndPersist always recomputes the matrix and writes the artifact.
func (b *Builder) BuildAndPersist(ctx context.Context) (*Catalog, error) {
	run := b.startRun()
	ctx, b = b.scoped(ctx, run)
	input, err := b.loadInput()
	if err != nil {
		return nil, b.fail(ctx, run, err)
	}
	cat, err := b.buildLocked(ctx, run, input, false)
	if err != nil {
		return nil, b.fail(ctx, run, err)
	}
	return cat, nil
}

// LoadOrBuild reuses the artifact when it matches the current dataset and
// falls back to BuildAndPersist otherwise.
func (b *Builder) LoadOrBuild(ctx context.Context) (*Catalog, error) {
	run := b.startRun()
	ctx, b = b.scoped(ctx, run)
	input, err := b.loadInput()
	if err != nil {
		return nil, b.fail(ctx, run, err)
	}
	if cat, ok := b.tryReuse(ctx, run, input); ok {
		return cat, nil
	}
	cat, err := b.buildLocked(ctx, run, input, true)
	if err != nil {
		return nil, b.fail(ctx, run, err)
	}
	return cat, nil
}

type runState struct {
	id      uuid.UUID
	started time.Time
}

type buildInput struct {
	movies []dataset.Movie
	sum    [32]byte
}

func (b *Builder) startRun() runState {
	return runState{id: uuid.New(), started: b.now()}
}

// scoped returns a copy of b whose logger carries the run's correlation ID.
func (b *Builder) scoped(ctx context.Context, run runState) (context.Context, *Builder) {
	ctx = logging.WithCorrelationID(ctx, run.id.String())
	c := *b
	c.logger = logging.WithContext(ctx, b.logger)
	return ctx, &c
}

func (b *Builder) loadInput() (buildInput, error) {
	path := b.cfg.Paths.Dataset
	movies, err := dataset.Load(path)
	if err != nil {
		return buildInput{}, err
	}
	if len(movies) == 0 {
		return buildInput{}, &dataset.DataLoadError{Path: path, Reason: "movies dataset has no rows"}
	}
	sum, size, err := fileutil.SHA256File(path)
	if err != nil {
		return buildInput{}, &dataset.DataLoadError{Path: path, Reason: "checksum movies dataset", Err: err}
	}
	b.logger.Debug("dataset loaded",
		logging.String("path", path),
		logging.Int("rows", len(movies)),
		logging.Int64("bytes", size),
	)
	return buildInput{movies: movies, sum: sum}, nil
}

// tryReuse loads the artifact if it describes the current dataset.
func (b *Builder) tryReuse(ctx context.Context, run runState, input buildInput) (*Catalog, bool) {
	path := b.cfg.Paths.Artifact
	header, matrix, err := artifact.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			b.logger.Info("no similarity artifact yet; building", logging.String("artifact", path))
		} else {
			logging.WarnWithContext(b.logger, "similarity artifact unusable; rebuilding", "artifact_invalid",
				logging.String("artifact", path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "the artifact is rewritten automatically"),
				logging.String(logging.FieldImpact, "startup takes longer while the matrix is recomputed"),
			)
		}
		return nil, false
	}
	if header.Rows != len(input.movies) || header.DatasetSHA256 != input.sum {
		b.logger.Info("similarity artifact is stale; rebuilding",
			logging.String("artifact", path),
			logging.Int("artifact_rows", header.Rows),
			logging.Int("dataset_rows", len(input.movies)),
			logging.Bool("checksum_match", header.DatasetSHA256 == input.sum),
		)
		return nil, false
	}

	cat, err := New(input.movies, matrix, Metadata{
		BuildID:       header.BuildID,
		BuiltAt:       header.BuiltAt,
		DatasetPath:   b.cfg.Paths.Dataset,
		DatasetSHA256: header.DatasetSHA256,
		ArtifactPath:  path,
		Source:        SourceArtifact,
	})
	if err != nil {
		return nil, false
	}
	b.logger.Info("similarity artifact loaded",
		logging.String(logging.FieldBuildID, header.BuildID.String()),
		logging.Int("rows", header.Rows),
		logging.String("built_at", header.BuiltAt.Format(time.RFC3339)),
	)
	b.record(ctx, run, ledger.StatusReused, cat, "")
	return cat, true
}

// buildLocked computes and persists the matrix while holding the artifact
// lock. With recheck set, an artifact written by another process while
// waiting for the lock is reused.
func (b *Builder) buildLocked(ctx context.Context, run runState, input buildInput, recheck bool) (*Catalog, error) {
	lockPath := b.cfg.LockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire artifact lock %s: %w", lockPath, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire artifact lock %s: not acquired", lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			b.logger.Warn("failed to release artifact lock", logging.String("lock", lockPath), logging.Error(err))
		}
	}()

	if recheck {
		if cat, ok := b.tryReuseQuiet(ctx, run, input); ok {
			return cat, nil
		}
	}

	n := len(input.movies)
	b.logger.Info("building similarity matrix",
		logging.String(logging.FieldBuildID, run.id.String()),
		logging.Int("rows", n),
		logging.Int64("matrix_bytes", int64(n)*int64(n)*8),
	)
	start := b.now()
	cat, err := Build(ctx, input.movies, b.Options(), Metadata{
		BuildID:       run.id,
		BuiltAt:       start.UTC(),
		DatasetPath:   b.cfg.Paths.Dataset,
		DatasetSHA256: input.sum,
		ArtifactPath:  b.cfg.Paths.Artifact,
		Source:        SourceBuilt,
	})
	if err != nil {
		return nil, err
	}

	header := artifact.Header{
		BuiltAt:       cat.meta.BuiltAt,
		BuildID:       run.id,
		DatasetSHA256: input.sum,
	}
	if err := artifact.Write(b.cfg.Paths.Artifact, header, cat.matrix); err != nil {
		return nil, fmt.Errorf("persist similarity artifact: %w", err)
	}
	b.logger.Info("similarity matrix built",
		logging.String(logging.FieldBuildID, run.id.String()),
		logging.Int("rows", n),
		logging.Int("vocabulary", cat.meta.Vocabulary),
		logging.Duration("elapsed", b.now().Sub(start)),
		logging.String("artifact", b.cfg.Paths.Artifact),
	)
	b.record(ctx, run, ledger.StatusBuilt, cat, "")
	return cat, nil
}

func (b *Builder) tryReuseQuiet(ctx context.Context, run runState, input buildInput) (*Catalog, bool) {
	header, err := artifact.ReadHeader(b.cfg.Paths.Artifact)
	if err != nil || header.Rows != len(input.movies) || header.DatasetSHA256 != input.sum {
		return nil, false
	}
	return b.tryReuse(ctx, run, input)
}

func (b *Builder) fail(ctx context.Context, run runState, err error) error {
	hint := "re-run with --log-level debug for details"
	if errors.Is(err, dataset.ErrDataLoad) {
		hint = "check paths.dataset and that the CSV has title, genres, overview, keywords, cast, director columns"
	}
	logging.ErrorWithContext(b.logger, "catalog build failed", "build_failed",
		logging.Error(err),
		logging.String(logging.FieldErrorHint, hint),
	)
	b.record(ctx, run, ledger.StatusFailed, nil, err.Error())
	return err
}

func (b *Builder) record(ctx context.Context, run runState, status ledger.Status, cat *Catalog, errMsg string) {
	if b.ledger == nil {
		return
	}
	id := uuid.NewString()
	if status == ledger.StatusBuilt {
		id = run.id.String()
	}
	entry := &ledger.Build{
		ID:          id,
		Status:      status,
		StartedAt:   run.started,
		FinishedAt:  b.now(),
		DatasetPath: b.cfg.Paths.Dataset,
		Error:       errMsg,
	}
	if cat != nil {
		entry.DatasetSHA256 = hex.EncodeToString(cat.meta.DatasetSHA256[:])
		entry.ArtifactPath = cat.meta.ArtifactPath
		entry.Rows = cat.Len()
		entry.Vocabulary = cat.meta.Vocabulary
	}
	if err := b.ledger.Record(ctx, entry); err != nil {
		logging.WarnWithContext(b.logger, "failed to record build", "ledger_write_failed",
			logging.Error(err),
			logging.String("ledger", b.ledger.Path()),
			logging.String(logging.FieldImpact, "build history is incomplete"),
		)
	}
}
