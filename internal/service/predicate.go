package service

import (
	"context"
	"strings"

	"staybook/internal/apperror"
	"staybook/internal/model"
	"staybook/internal/repository"
	"staybook/internal/utils"
)

// BuildPropertyQuery translates a StructuredFilter into an unexecuted query.
// A category that resolves to nothing is dropped rather than failing the
// search. The category lookup is the only store access.
func BuildPropertyQuery(ctx context.Context, f model.StructuredFilter, categories CategoryResolver) (*repository.PropertyQuery, error) {
	q := repository.NewPropertyQuery()

	if f.Location != nil {
		q.ILike(repository.ColLocation, *f.Location)
	}

	if f.Category != nil && !strings.EqualFold(*f.Category, "any") {
		id, ok, err := categories.FindCategoryIDByName(ctx, *f.Category)
		if err != nil {
			return nil, apperror.Upstream(err)
		}
		if ok {
			q.Eq(repository.ColCategoryID, id)
		} else {
			utils.Logger.WithField("category", *f.Category).Debug("Category not found, ignoring")
		}
	}

	if f.MinPrice != nil {
		q.Gte(repository.ColPricePerNight, *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q.Lte(repository.ColPricePerNight, *f.MaxPrice)
	}

	return q, nil
}
