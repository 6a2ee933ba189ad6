package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskmanagement/internal/model"
	"taskmanagement/internal/query"
)

type SearchRepositoryInterface interface {
	SearchTaskIDs(ctx context.Context, firstResult, maxResults int, filterSignatures, roleSignatures, excludeCaseIDs []string, req *model.SearchRequest) ([]string, error)
	SearchTaskCount(ctx context.Context, filterSignatures, roleSignatures, excludeCaseIDs []string, req *model.SearchRequest) (int64, error)
}

var _ SearchRepositoryInterface = (*SearchRepository)(nil)

// SearchRepository runs signature-filtered searches. It never locks rows.
type SearchRepository struct {
	db *gorm.DB
}

func NewSearchRepository(db *gorm.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// SearchTaskIDs returns one page of matching task ids in a total order
func (r *SearchRepository) SearchTaskIDs(
	ctx context.Context,
	firstResult, maxResults int,
	filterSignatures, roleSignatures, excludeCaseIDs []string,
	req *model.SearchRequest,
) ([]string, error) {
	search := query.TaskSearch{
		FilterSignatures: filterSignatures,
		RoleSignatures:   roleSignatures,
		ExcludeCaseIDs:   excludeCaseIDs,
		Request:          req,
	}
	sql, args := search.IDsQuery(firstResult, maxResults)

	ids := make([]string, 0, maxResults)
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&ids).Error; err != nil {
		return nil, fmt.Errorf("search task ids: %w", err)
	}
	return ids, nil
}

// SearchTaskCount returns the number of tasks matching the same predicates as SearchTaskIDs
func (r *SearchRepository) SearchTaskCount(
	ctx context.Context,
	filterSignatures, roleSignatures, excludeCaseIDs []string,
	req *model.SearchRequest,
) (int64, error) {
	search := query.TaskSearch{
		FilterSignatures: filterSignatures,
		RoleSignatures:   roleSignatures,
		ExcludeCaseIDs:   excludeCaseIDs,
		Request:          req,
	}
	sql, args := search.CountQuery()

	var count int64
	if err := r.db.WithContext(ctx).Raw(sql, args...).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("count tasks: %w", err)
	}
	return count, nil
}
