package app

import (
	"context"

	"github.com/pkg/errors"
)

// purgeFileInfos runs after the sweep, with the same cutoff, so the rows it deletes are
// the ones whose files were just removed (barring concurrent writers).
func (po *pruneObject) purgeFileInfos(ctx context.Context) error {
	n, err := po.purge(ctx, "FileInfo", po.pruneStore.CountFileInfos, po.pruneStore.DeleteFileInfos)
	po.res.Stats.FileInfosDeleted = n
	return err
}

func (po *pruneObject) purgePosts(ctx context.Context) error {
	n, err := po.purge(ctx, "Posts", po.pruneStore.CountPosts, po.pruneStore.DeletePosts)
	po.res.Stats.PostsDeleted = n
	return err
}

type purgeFunc func(ctx context.Context, before int64) (int64, error)

// purge deletes every row of table older than the cutoff.
// In dry run no mutating statement is executed: the only statement is a read-only
// SELECT COUNT(*) with the same predicate, so the report shows what a real run deletes.
func (po *pruneObject) purge(ctx context.Context, table string, count, del purgeFunc) (int64, error) {
	if po.opt.DryRun {
		n, err := count(ctx, po.cutoff)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to count %s rows", table)
		}
		po.logger.Infof("[DRY RUN] Would delete %d %s rows older than %d", n, table, po.cutoff)
		return n, nil
	}

	po.logger.Tracef("Prune: deleting %s rows. params: %d", table, po.cutoff)
	n, err := del(ctx, po.cutoff)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete %s rows", table)
	}
	po.logger.Infof("Removed %d %s rows", n, table)
	return n, nil
}
