package app

import (
	"context"
	"time"

	"github.com/ericzzh/mattermost-prune/server/bot"
	"github.com/ericzzh/mattermost-prune/server/config"
	"github.com/google/uuid"
	"github.com/mattermost/mattermost-server/v6/model"
	"github.com/pkg/errors"
)

//go:generate mockgen -destination=mocks/mock_app.go -package=mock_app github.com/ericzzh/mattermost-prune/server/app PruneStore,FileBackend,PruneService

type PruneService interface {
	// Start runs one full pass. On failure the partial result is returned with the error.
	Start(ctx context.Context, opt Options) (*Result, error)
}

type Options struct {
	RetentionDays int
	BatchSize     int
	RemovePosts   bool
	DryRun        bool
	Pagination    string
}

func (o Options) IsValid() error {
	if o.RetentionDays <= 0 {
		return errors.Wrap(config.ErrInvalidInput, "retention days must be positive")
	}
	if o.BatchSize <= 0 {
		return errors.Wrap(config.ErrInvalidInput, "batch size must be positive")
	}
	return config.ValidatePagination(o.Pagination)
}

// FileRecord is the part of a FileInfo row the sweep needs.
// The paths are relative to the data directory, any of them may be empty.
// Id is only filled in for keyset paging.
type FileRecord struct {
	Id            string `db:"id"`
	Path          string `db:"path"`
	ThumbnailPath string `db:"thumbnailpath"`
	PreviewPath   string `db:"previewpath"`
	CreateAt      int64  `db:"createat"`
}

type PruneStore interface {
	// GetFileInfos pages in natural row order.
	GetFileInfos(ctx context.Context, before int64, offset, limit int) ([]*FileRecord, error)
	// GetFileInfosAfter pages in id order, starting after afterId.
	GetFileInfosAfter(ctx context.Context, before int64, afterId string, limit int) ([]*FileRecord, error)
	CountFileInfos(ctx context.Context, before int64) (int64, error)
	DeleteFileInfos(ctx context.Context, before int64) (int64, error)
	CountPosts(ctx context.Context, before int64) (int64, error)
	DeletePosts(ctx context.Context, before int64) (int64, error)
}

type Stats struct {
	Batches          int   `json:"batches" yaml:"batches"`
	Rows             int   `json:"rows" yaml:"rows"`
	FilesRemoved     int   `json:"files_removed" yaml:"files_removed"`
	FilesMissing     int   `json:"files_missing" yaml:"files_missing"`
	FileInfosDeleted int64 `json:"fileinfos_deleted" yaml:"fileinfos_deleted"`
	PostsDeleted     int64 `json:"posts_deleted" yaml:"posts_deleted"`
	PostsSkipped     bool  `json:"posts_skipped" yaml:"posts_skipped"`
}

// Result of one pass. In dry run the counters hold what a real pass would have removed.
type Result struct {
	RunId     string        `json:"run_id" yaml:"run_id"`
	Cutoff    int64         `json:"cutoff" yaml:"cutoff"`
	DryRun    bool          `json:"dry_run" yaml:"dry_run"`
	StartedAt time.Time     `json:"started_at" yaml:"started_at"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	Stats     Stats         `json:"stats" yaml:"stats"`
}

type pruneService struct {
	logger     bot.Logger
	pruneStore PruneStore
	files      FileBackend
	now        func() time.Time
}

type ServiceOption func(*pruneService)

// WithClock replaces time.Now as the base of the cutoff.
func WithClock(now func() time.Time) ServiceOption {
	return func(p *pruneService) {
		p.now = now
	}
}

func NewPruneService(ps PruneStore, files FileBackend, logger bot.Logger, opts ...ServiceOption) PruneService {
	p := &pruneService{
		logger:     logger,
		pruneStore: ps,
		files:      files,
		now:        time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

type pruneObject struct {
	*pruneService
	opt    Options
	cutoff int64
	res    Result
}

// Cutoff is the epoch millisecond boundary: rows created strictly before it are removed.
func Cutoff(now time.Time, retentionDays int) int64 {
	return model.GetMillisForTime(now.Add(-24 * time.Hour * time.Duration(retentionDays)))
}

func (p *pruneService) newPruneObject(opt Options) *pruneObject {
	now := p.now()
	cutoff := Cutoff(now, opt.RetentionDays)

	return &pruneObject{
		pruneService: p,
		opt:          opt,
		cutoff:       cutoff,
		res: Result{
			RunId:     uuid.NewString(),
			Cutoff:    cutoff,
			DryRun:    opt.DryRun,
			StartedAt: now,
		},
	}
}

func (p *pruneService) Start(ctx context.Context, opt Options) (*Result, error) {
	if err := opt.IsValid(); err != nil {
		return nil, err
	}

	po := p.newPruneObject(opt)
	p.logger.Infof("Prune: run %s started. cutoff: %d, batch size: %d, dry run: %v",
		po.res.RunId, po.cutoff, opt.BatchSize, opt.DryRun)

	err := po.run(ctx)
	po.res.Duration = p.now().Sub(po.res.StartedAt)

	return &po.res, err
}

func (po *pruneObject) run(ctx context.Context) error {
	if err := po.sweepFiles(ctx); err != nil {
		return errors.Wrap(err, "failed to sweep files")
	}

	if err := po.purgeFileInfos(ctx); err != nil {
		return errors.Wrap(err, "failed to purge FileInfo")
	}

	if !po.opt.RemovePosts {
		po.res.Stats.PostsSkipped = true
		po.logger.Infof("Prune: skipping posts removal.")
		return nil
	}

	if err := po.purgePosts(ctx); err != nil {
		return errors.Wrap(err, "failed to purge Posts")
	}

	return nil
}
