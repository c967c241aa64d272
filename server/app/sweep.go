package app

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/ericzzh/mattermost-prune/server/config"
	"github.com/pkg/errors"
)

// page is the sweep cursor. It lives for one run only, a killed run starts over from
// the first page against the rows that are left.
type page struct {
	index   int
	size    int
	afterId string
}

// sweepFiles removes the files of every FileInfo row older than the cutoff.
//
// Rows are not deleted while sweeping, which is what keeps offset paging stable.
// Concurrent writers to FileInfo can still make offset paging skip or repeat rows;
// keyset pagination does not have that problem.
func (po *pruneObject) sweepFiles(ctx context.Context) error {
	pg := page{size: po.opt.BatchSize}

	for {
		records, err := po.fetchBatch(ctx, pg)
		if err != nil {
			return err
		}
		po.res.Stats.Batches++

		for _, r := range records {
			if err := po.removeFiles(r); err != nil {
				return err
			}
			pg.afterId = r.Id
		}
		po.res.Stats.Rows += len(records)

		// a short page is the last one
		if len(records) < pg.size {
			po.logger.Debugf("Prune: file sweep done. batches: %d, rows: %d", po.res.Stats.Batches, po.res.Stats.Rows)
			return nil
		}
		pg.index++
	}
}

func (po *pruneObject) fetchBatch(ctx context.Context, pg page) ([]*FileRecord, error) {
	if po.opt.Pagination == config.PaginationKeyset {
		po.logger.Tracef("Prune: fetching FileInfo batch %d after id %q", pg.index, pg.afterId)
		records, err := po.pruneStore.GetFileInfosAfter(ctx, po.cutoff, pg.afterId, pg.size)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to fetch FileInfo rows after id %q", pg.afterId)
		}
		return records, nil
	}

	offset := pg.index * pg.size
	po.logger.Tracef("Prune: fetching FileInfo batch %d. params: %d %d %d", pg.index, po.cutoff, offset, pg.size)
	records, err := po.pruneStore.GetFileInfos(ctx, po.cutoff, offset, pg.size)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch FileInfo rows at offset %d", offset)
	}
	return records, nil
}

func (po *pruneObject) removeFiles(r *FileRecord) error {
	var removed int
	for _, path := range []string{r.Path, r.ThumbnailPath, r.PreviewPath} {
		if path == "" {
			continue
		}

		ok, err := po.removeFile(path)
		if err != nil {
			return err
		}
		if ok {
			removed++
		}
	}

	if removed == 0 {
		po.logger.Tracef("Prune: no files to be deleted for %q", r.Path)
		return nil
	}

	if !po.opt.DryRun {
		po.logger.Infof("Deleted: %d files. Main file: %s", removed, r.Path)
	}
	return nil
}

// removeFile reports whether the file existed. A missing file is not an error.
func (po *pruneObject) removeFile(path string) (bool, error) {
	if !isLocalPath(path) {
		return false, errors.Errorf("refusing to delete %q, it is outside the data directory", path)
	}

	exists, err := po.files.FileExists(path)
	if err != nil {
		return false, errors.Wrapf(err, "failed to check file %s", path)
	}
	if !exists {
		po.missingFile(path)
		return false, nil
	}

	if po.opt.DryRun {
		po.logger.Infof("[DRY RUN] Would remove: %s", path)
		po.res.Stats.FilesRemoved++
		return true, nil
	}

	if err := po.files.RemoveFile(path); err != nil {
		// gone between the check and the removal
		if errors.Is(err, fs.ErrNotExist) {
			po.missingFile(path)
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to delete file %s", path)
	}

	po.logger.Tracef("Prune: removed %s", path)
	po.res.Stats.FilesRemoved++
	return true, nil
}

func (po *pruneObject) missingFile(path string) {
	po.logger.Tracef("Prune: path does not exist: %s", path)
	po.res.Stats.FilesMissing++
}

func isLocalPath(path string) bool {
	if filepath.IsAbs(path) {
		return false
	}
	clean := filepath.Clean(path)
	return clean != ".." && !strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
