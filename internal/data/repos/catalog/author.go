package catalog

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/bookshelf-backend/internal/domain"
	pkgerrors "github.com/yungbote/bookshelf-backend/internal/pkg/errors"
	"github.com/yungbote/bookshelf-backend/internal/platform/dbctx"
	"github.com/yungbote/bookshelf-backend/internal/platform/logger"
)

type AuthorRepo interface {
	Create(dbc dbctx.Context, author *types.Author) (*types.Author, error)
	// GetByName is an exact match; it returns (nil, nil) when absent.
	GetByName(dbc dbctx.Context, name string) (*types.Author, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Author, error)
	List(dbc dbctx.Context) ([]*types.Author, error)
	Count(dbc dbctx.Context) (int64, error)
	UpdateBorn(dbc dbctx.Context, author *types.Author, born int) error
}

type authorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAuthorRepo(db *gorm.DB, baseLog *logger.Logger) AuthorRepo {
	repoLog := baseLog.With("repo", "AuthorRepo")
	return &authorRepo{db: db, log: repoLog}
}

func (ar *authorRepo) Create(dbc dbctx.Context, author *types.Author) (*types.Author, error) {
	if err := dbc.DB(ar.db).Create(author).Error; err != nil {
		return nil, pkgerrors.ClassifyWrite("author", "name", author.Name, err)
	}
	return author, nil
}

func (ar *authorRepo) GetByName(dbc dbctx.Context, name string) (*types.Author, error) {
	var author types.Author
	err := dbc.DB(ar.db).
		Where("name = ?", name).
		Take(&author).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &author, nil
}

func (ar *authorRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Author, error) {
	var results []*types.Author
	if len(ids) == 0 {
		return results, nil
	}
	if err := dbc.DB(ar.db).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *authorRepo) List(dbc dbctx.Context) ([]*types.Author, error) {
	var results []*types.Author
	if err := dbc.DB(ar.db).
		Order("created_at ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *authorRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	if err := dbc.DB(ar.db).
		Model(&types.Author{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (ar *authorRepo) UpdateBorn(dbc dbctx.Context, author *types.Author, born int) error {
	if err := dbc.DB(ar.db).
		Model(author).
		Update("born", born).Error; err != nil {
		return pkgerrors.ClassifyWrite("author", "born", born, err)
	}
	author.Born = &born
	return nil
}
