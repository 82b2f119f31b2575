package service

import (
	"context"
	"errors"
	"testing"

	"productmanagement/internal/app/catalog/entity"
	"productmanagement/internal/app/catalog/repository"
	"productmanagement/internal/app/catalog/repository/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCategoryService_CreateCategory_Success(t *testing.T) {
	// Arrange
	ctx := context.Background()
	categoryRepo := new(mocks.MockCategoryRepository)
	cache := new(mocks.MockDropdownCache)

	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	cache.On("DeleteDropdown", ctx).Return(nil)

	svc := NewCategoryService(categoryRepo, cache)

	req := &entity.CreateCategoryRequest{Name: "Electronics"}

	// Act
	resp, err := svc.CreateCategory(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "Category created successfully.", resp.Message)

	view, ok := resp.Data.(*entity.CategoryView)
	require.True(t, ok)
	assert.NotEqual(t, uuid.Nil, view.ID)
	assert.Equal(t, "Electronics", view.Name)
	assert.False(t, view.CreatedAt.IsZero())

	categoryRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCategoryService_CreateCategory_DuplicateName(t *testing.T) {
	// Arrange
	ctx := context.Background()
	categoryRepo := new(mocks.MockCategoryRepository)
	cache := new(mocks.MockDropdownCache)

	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(repository.ErrCategoryAlreadyExists)

	svc := NewCategoryService(categoryRepo, cache)

	// Act
	resp, err := svc.CreateCategory(ctx, &entity.CreateCategoryRequest{Name: "Electronics"})

	// Assert
	assert.Nil(t, resp)
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, KindValidation, se.Kind)
	cache.AssertNotCalled(t, "DeleteDropdown")
}

func TestCategoryService_CreateCategory_RepoError(t *testing.T) {
	// Arrange
	ctx := context.Background()
	categoryRepo := new(mocks.MockCategoryRepository)
	cache := new(mocks.MockDropdownCache)

	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(errors.New("db error"))

	svc := NewCategoryService(categoryRepo, cache)

	// Act
	resp, err := svc.CreateCategory(ctx, &entity.CreateCategoryRequest{Name: "Electronics"})

	// Assert - наружу уходит только фиксированное сообщение
	assert.Nil(t, resp)
	se, ok := AsServiceError(err)
	require.True(t, ok)
	assert.Equal(t, KindInternal, se.Kind)
	assert.Equal(t, "An error occurred while creating the category.", se.Message)
}

func TestCategoryService_CreateCategory_CacheErrorIgnored(t *testing.T) {
	// Arrange
	ctx := context.Background()
	categoryRepo := new(mocks.MockCategoryRepository)
	cache := new(mocks.MockDropdownCache)

	categoryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Category")).Return(nil)
	cache.On("DeleteDropdown", ctx).Return(errors.New("redis error"))

	svc := NewCategoryService(categoryRepo, cache)

	// Act
	resp, err := svc.CreateCategory(ctx, &entity.CreateCategoryRequest{Name: "Electronics"})

	// Assert - ошибка инвалидации кеша не прерывает выполнение
	require.NoError(t, err)
	assert.True(t, resp.Success)
}
