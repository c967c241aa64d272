package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/ericzzh/mattermost-prune/server/app"
	"github.com/ericzzh/mattermost-prune/server/bot"
	"github.com/pkg/errors"
)

// Column names are lower case so that sqlx maps them the same way on every driver.
// Offset paging only needs the paths, so it works on a FileInfo table without an id.
var fileInfoColumns = []string{
	"COALESCE(path, '') AS path",
	"COALESCE(thumbnailpath, '') AS thumbnailpath",
	"COALESCE(previewpath, '') AS previewpath",
	"createat",
}

// keysetColumns adds the id that keyset paging orders on.
var keysetColumns = append([]string{"id"}, fileInfoColumns...)

type pruneStore struct {
	log          bot.Logger
	store        *SQLStore
	queryBuilder sq.StatementBuilderType
}

func NewPruneStore(log bot.Logger, sqlStore *SQLStore) app.PruneStore {
	return &pruneStore{
		log:          log,
		store:        sqlStore,
		queryBuilder: sqlStore.builder,
	}
}

// GetFileInfos has no ORDER BY, pages follow the natural row order.
// The returned records carry no Id.
func (ps *pruneStore) GetFileInfos(ctx context.Context, before int64, offset, limit int) ([]*app.FileRecord, error) {
	query := ps.queryBuilder.
		Select(fileInfoColumns...).
		From("FileInfo").
		Where(sq.Lt{"createat": before}).
		Limit(uint64(limit)).
		Offset(uint64(offset))

	ps.logQuery(query)

	data := []*app.FileRecord{}
	if err := ps.store.selectBuilder(ctx, ps.store.db, &data, query); err != nil {
		return nil, errors.Wrapf(err, "failed to select FileInfo before=%d offset=%d", before, offset)
	}
	return data, nil
}

func (ps *pruneStore) GetFileInfosAfter(ctx context.Context, before int64, afterId string, limit int) ([]*app.FileRecord, error) {
	query := ps.queryBuilder.
		Select(keysetColumns...).
		From("FileInfo").
		Where(sq.And{
			sq.Lt{"createat": before},
			sq.Gt{"id": afterId},
		}).
		OrderBy("id").
		Limit(uint64(limit))

	ps.logQuery(query)

	data := []*app.FileRecord{}
	if err := ps.store.selectBuilder(ctx, ps.store.db, &data, query); err != nil {
		return nil, errors.Wrapf(err, "failed to select FileInfo before=%d after=%q", before, afterId)
	}
	return data, nil
}

func (ps *pruneStore) CountFileInfos(ctx context.Context, before int64) (int64, error) {
	return ps.count(ctx, "FileInfo", before)
}

func (ps *pruneStore) DeleteFileInfos(ctx context.Context, before int64) (int64, error) {
	return ps.delete(ctx, "FileInfo", before)
}

func (ps *pruneStore) CountPosts(ctx context.Context, before int64) (int64, error) {
	return ps.count(ctx, "Posts", before)
}

func (ps *pruneStore) DeletePosts(ctx context.Context, before int64) (int64, error) {
	return ps.delete(ctx, "Posts", before)
}

func (ps *pruneStore) count(ctx context.Context, table string, before int64) (int64, error) {
	query := ps.queryBuilder.
		Select("COUNT(*)").
		From(table).
		Where(sq.Lt{"createat": before})

	ps.logQuery(query)

	var n int64
	if err := ps.store.getBuilder(ctx, ps.store.db, &n, query); err != nil {
		return 0, errors.Wrapf(err, "failed to count %s before=%d", table, before)
	}
	return n, nil
}

func (ps *pruneStore) delete(ctx context.Context, table string, before int64) (int64, error) {
	query := ps.queryBuilder.
		Delete(table).
		Where(sq.Lt{"createat": before})

	ps.logQuery(query)

	res, err := ps.store.execBuilder(ctx, ps.store.db, query)
	if err != nil {
		return 0, errors.Wrapf(err, "failed to delete from %s before=%d", table, before)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "failed to get affected rows of %s", table)
	}
	return n, nil
}

func (ps *pruneStore) logQuery(b builder) {
	sqlString, args, err := b.ToSql()
	if err != nil {
		return
	}
	ps.log.Tracef("Querying: %s params: %v", sqlString, args)
}
