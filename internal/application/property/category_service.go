package property

import (
	"context"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CategoryService handles cost category administration
type CategoryService struct {
	categoryRepo property.CategoryRepository
	recorder     *auditapp.Recorder
	logger       *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo property.CategoryRepository, recorder *auditapp.Recorder, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		recorder:     recorder,
		logger:       logger,
	}
}

// Create creates a new cost category
func (s *CategoryService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCategoryRequest) (*CategoryResponse, error) {
	categoryType := property.CategoryType(req.Type)

	exists, err := s.categoryRepo.ExistsByName(ctx, categoryType, req.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists for the type")
	}

	category, err := property.NewCategory(tenantID, categoryType, req.Name)
	if err != nil {
		return nil, err
	}

	category.CreatedBy = req.CreatedBy

	if req.Description != "" {
		if err := category.SetDescription(req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.recordCategoryAction(ctx, category, audit.ActionCreate)
	s.logger.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("type", req.Type),
		zap.String("name", category.Name))

	response := ToCategoryResponse(category)
	return &response, nil
}

// GetByID retrieves a category by ID
func (s *CategoryService) GetByID(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	response := ToCategoryResponse(category)
	return &response, nil
}

// List returns all categories, optionally restricted to one type
func (s *CategoryService) List(ctx context.Context, categoryType string) ([]CategoryResponse, error) {
	var (
		categories []*property.Category
		err        error
	)

	if categoryType != "" {
		categories, err = s.categoryRepo.FindByType(ctx, property.CategoryType(categoryType))
	} else {
		categories, err = s.categoryRepo.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	return ToCategoryResponses(categories), nil
}

// Update updates a category's name and description
func (s *CategoryService) Update(ctx context.Context, categoryID uuid.UUID, req UpdateCategoryRequest) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != category.Name {
		exists, err := s.categoryRepo.ExistsByName(ctx, category.Type, *req.Name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Category with this name already exists for the type")
		}
		if err := category.SetName(*req.Name); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := category.SetDescription(*req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.recordCategoryAction(ctx, category, audit.ActionUpdate)

	response := ToCategoryResponse(category)
	return &response, nil
}

// Activate activates a category
func (s *CategoryService) Activate(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	return s.transition(ctx, categoryID, func(c *property.Category) error { return c.Activate() })
}

// Deactivate deactivates a category. Deactivated categories stay on
// historical entries but cannot be used on new ones.
func (s *CategoryService) Deactivate(ctx context.Context, categoryID uuid.UUID) (*CategoryResponse, error) {
	return s.transition(ctx, categoryID, func(c *property.Category) error { return c.Deactivate() })
}

// Delete deletes a category. Categories referenced by entry lines cannot
// be deleted, only deactivated.
func (s *CategoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return err
	}

	inUse, err := s.categoryRepo.InUse(ctx, categoryID)
	if err != nil {
		return err
	}
	if inUse {
		return shared.NewDomainError("CATEGORY_IN_USE", "Category is referenced by cost entries. Deactivate it instead")
	}

	if err := s.categoryRepo.Delete(ctx, categoryID); err != nil {
		return err
	}

	s.recordCategoryAction(ctx, category, audit.ActionDelete)
	s.logger.Info("Category deleted",
		zap.String("category_id", categoryID.String()),
		zap.String("name", category.Name))

	return nil
}

func (s *CategoryService) transition(ctx context.Context, categoryID uuid.UUID, fn func(*property.Category) error) (*CategoryResponse, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	if err := fn(category); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.recordCategoryAction(ctx, category, audit.ActionUpdate)

	response := ToCategoryResponse(category)
	return &response, nil
}

func (s *CategoryService) recordCategoryAction(ctx context.Context, category *property.Category, action string) {
	log, err := audit.NewAuditLog(category.TenantID, action, "cost_category")
	if err != nil {
		return
	}
	s.recorder.Record(ctx, log.WithResourceID(category.ID.String()))
}
