package property

import (
	"context"
	"testing"
	"time"

	auditapp "github.com/fnbcost/backend/internal/application/audit"
	"github.com/fnbcost/backend/internal/domain/audit"
	"github.com/fnbcost/backend/internal/domain/property"
	"github.com/fnbcost/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockPropertyRepository is a mock implementation of property.PropertyRepository
type MockPropertyRepository struct {
	mock.Mock
}

func (m *MockPropertyRepository) Create(ctx context.Context, prop *property.Property) error {
	args := m.Called(ctx, prop)
	return args.Error(0)
}

func (m *MockPropertyRepository) Update(ctx context.Context, prop *property.Property) error {
	args := m.Called(ctx, prop)
	return args.Error(0)
}

func (m *MockPropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindByCode(ctx context.Context, code string) (*property.Property, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) FindAll(ctx context.Context, filter property.PropertyFilter) ([]*property.Property, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*property.Property), args.Get(1).(int64), args.Error(2)
}

func (m *MockPropertyRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*property.Property, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*property.Property), args.Error(1)
}

func (m *MockPropertyRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockOutletRepository is a mock implementation of property.OutletRepository
type MockOutletRepository struct {
	mock.Mock
}

func (m *MockOutletRepository) Create(ctx context.Context, outlet *property.Outlet) error {
	args := m.Called(ctx, outlet)
	return args.Error(0)
}

func (m *MockOutletRepository) Update(ctx context.Context, outlet *property.Outlet) error {
	args := m.Called(ctx, outlet)
	return args.Error(0)
}

func (m *MockOutletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockOutletRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Outlet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Outlet), args.Error(1)
}

func (m *MockOutletRepository) FindByProperty(ctx context.Context, propertyID uuid.UUID) ([]*property.Outlet, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*property.Outlet), args.Error(1)
}

func (m *MockOutletRepository) ExistsByCode(ctx context.Context, propertyID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, propertyID, code)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of property.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *property.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *property.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*property.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindByType(ctx context.Context, categoryType property.CategoryType) ([]*property.Category, error) {
	args := m.Called(ctx, categoryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*property.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]*property.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*property.Category), args.Error(1)
}

func (m *MockCategoryRepository) ExistsByName(ctx context.Context, categoryType property.CategoryType, name string) (bool, error) {
	args := m.Called(ctx, categoryType, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockCategoryRepository) InUse(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, log *audit.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditRepository) FindByID(ctx context.Context, id uuid.UUID) (*audit.AuditLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.AuditLog), args.Error(1)
}

func (m *MockAuditRepository) FindAll(ctx context.Context, filter audit.Filter) ([]*audit.AuditLog, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*audit.AuditLog), args.Get(1).(int64), args.Error(2)
}

func (m *MockAuditRepository) CountByAction(ctx context.Context, from, to time.Time) ([]audit.ActionCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.ActionCount), args.Error(1)
}

func (m *MockAuditRepository) CountByResource(ctx context.Context, from, to time.Time) ([]audit.ActionCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.ActionCount), args.Error(1)
}

func (m *MockAuditRepository) CountByDay(ctx context.Context, from, to time.Time) ([]audit.ActionCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.ActionCount), args.Error(1)
}

func (m *MockAuditRepository) UserActivity(ctx context.Context, from, to time.Time, startHour, endHour int) ([]audit.UserActivity, error) {
	args := m.Called(ctx, from, to, startHour, endHour)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.UserActivity), args.Error(1)
}

func (m *MockAuditRepository) HourlyCounts(ctx context.Context, from, to time.Time) ([]audit.HourlyCount, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.HourlyCount), args.Error(1)
}

func (m *MockAuditRepository) FailedLoginClusters(ctx context.Context, from, to time.Time, minCount int64) ([]audit.FailedLoginCluster, error) {
	args := m.Called(ctx, from, to, minCount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.FailedLoginCluster), args.Error(1)
}

func newTestRecorder() *auditapp.Recorder {
	repo := new(MockAuditRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*audit.AuditLog")).Return(nil).Maybe()
	return auditapp.NewRecorder(repo, zap.NewNop())
}

func newPropertyService(propertyRepo *MockPropertyRepository, outletRepo *MockOutletRepository) *PropertyService {
	return NewPropertyService(propertyRepo, outletRepo, newTestRecorder(), zap.NewNop())
}

// Tests for PropertyService.Create
func TestPropertyService_Create_Success(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	service := newPropertyService(propertyRepo, new(MockOutletRepository))

	tenantID := uuid.New()
	propertyRepo.On("ExistsByCode", mock.Anything, "HH01").Return(false, nil)
	propertyRepo.On("Create", mock.Anything, mock.AnythingOfType("*property.Property")).Return(nil)

	result, err := service.Create(context.Background(), tenantID, CreatePropertyRequest{
		Name:     "Harbor Hotel",
		Code:     "HH01",
		Type:     "hotel",
		Currency: "EUR",
		TimeZone: "Europe/Berlin",
	})

	assert.NoError(t, err)
	assert.Equal(t, "Harbor Hotel", result.Name)
	assert.Equal(t, "HH01", result.Code)
	assert.Equal(t, "EUR", result.Currency)
	assert.True(t, result.IsActive)
	propertyRepo.AssertExpectations(t)
}

func TestPropertyService_Create_DuplicateCode(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	service := newPropertyService(propertyRepo, new(MockOutletRepository))

	propertyRepo.On("ExistsByCode", mock.Anything, "HH01").Return(true, nil)

	result, err := service.Create(context.Background(), uuid.New(), CreatePropertyRequest{
		Name: "Harbor Hotel",
		Code: "HH01",
		Type: "hotel",
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	propertyRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Tests for PropertyService.Delete
func TestPropertyService_Delete_RefusedWhileOutletsExist(t *testing.T) {
	propertyRepo := new(MockPropertyRepository)
	outletRepo := new(MockOutletRepository)
	service := newPropertyService(propertyRepo, outletRepo)

	tenantID := uuid.New()
	prop, err := property.NewProperty(tenantID, "Harbor Hotel", "HH01", property.PropertyTypeHotel)
	assert.NoError(t, err)
	outlet, err := property.NewOutlet(tenantID, prop.ID, "Main Restaurant", "REST")
	assert.NoError(t, err)

	propertyRepo.On("FindByID", mock.Anything, prop.ID).Return(prop, nil)
	outletRepo.On("FindByProperty", mock.Anything, prop.ID).Return([]*property.Outlet{outlet}, nil)

	err = service.Delete(context.Background(), prop.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CANNOT_DELETE", domainErr.Code)
	propertyRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

// Tests for OutletService.Create
func TestOutletService_Create_UnknownProperty(t *testing.T) {
	outletRepo := new(MockOutletRepository)
	propertyRepo := new(MockPropertyRepository)
	service := NewOutletService(outletRepo, propertyRepo, newTestRecorder(), zap.NewNop())

	propertyID := uuid.New()
	propertyRepo.On("FindByID", mock.Anything, propertyID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(context.Background(), uuid.New(), CreateOutletRequest{
		PropertyID: propertyID,
		Name:       "Lobby Bar",
		Code:       "BAR",
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROPERTY_NOT_FOUND", domainErr.Code)
}

func TestOutletService_Create_DuplicateCodeOnProperty(t *testing.T) {
	outletRepo := new(MockOutletRepository)
	propertyRepo := new(MockPropertyRepository)
	service := NewOutletService(outletRepo, propertyRepo, newTestRecorder(), zap.NewNop())

	tenantID := uuid.New()
	prop, err := property.NewProperty(tenantID, "Harbor Hotel", "HH01", property.PropertyTypeHotel)
	assert.NoError(t, err)

	propertyRepo.On("FindByID", mock.Anything, prop.ID).Return(prop, nil)
	outletRepo.On("ExistsByCode", mock.Anything, prop.ID, "BAR").Return(true, nil)

	result, err := service.Create(context.Background(), tenantID, CreateOutletRequest{
		PropertyID: prop.ID,
		Name:       "Lobby Bar",
		Code:       "BAR",
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	outletRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// Tests for CategoryService
func TestCategoryService_Create_DuplicateNameForType(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, newTestRecorder(), zap.NewNop())

	categoryRepo.On("ExistsByName", mock.Anything, property.CategoryTypeFood, "Dairy").Return(true, nil)

	result, err := service.Create(context.Background(), uuid.New(), CreateCategoryRequest{
		Type: "food",
		Name: "Dairy",
	})

	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
}

func TestCategoryService_Delete_RefusedWhileInUse(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, newTestRecorder(), zap.NewNop())

	category, err := property.NewCategory(uuid.New(), property.CategoryTypeBeverage, "Wine")
	assert.NoError(t, err)

	categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	categoryRepo.On("InUse", mock.Anything, category.ID).Return(true, nil)

	err = service.Delete(context.Background(), category.ID)

	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CATEGORY_IN_USE", domainErr.Code)
	categoryRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCategoryService_Deactivate(t *testing.T) {
	categoryRepo := new(MockCategoryRepository)
	service := NewCategoryService(categoryRepo, newTestRecorder(), zap.NewNop())

	category, err := property.NewCategory(uuid.New(), property.CategoryTypeFood, "Produce")
	assert.NoError(t, err)

	categoryRepo.On("FindByID", mock.Anything, category.ID).Return(category, nil)
	categoryRepo.On("Update", mock.Anything, category).Return(nil)

	result, err := service.Deactivate(context.Background(), category.ID)

	assert.NoError(t, err)
	assert.False(t, result.IsActive)
}
