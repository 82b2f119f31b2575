package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"productmanagement/internal/app/catalog/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ProductRepositoryTestSuite тестовый suite для PostgreSQL repository
type ProductRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  ProductRepository
	sqlDB *sql.DB
}

func TestProductRepositorySuite(t *testing.T) {
	suite.Run(t, new(ProductRepositoryTestSuite))
}

func (s *ProductRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewProductRepository(s.db)
}

func (s *ProductRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func productRows(products ...entity.Product) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "name", "description", "price", "image_url", "stock_quantity", "category_id", "created_at", "updated_at",
	})
	for _, p := range products {
		rows.AddRow(p.ID, p.Name, p.Description, p.Price, p.ImageURL, p.StockQuantity, p.CategoryID, p.CreatedAt, p.UpdatedAt)
	}
	return rows
}

// ===================== Create Tests =====================

func (s *ProductRepositoryTestSuite) TestCreate_Success() {
	ctx := context.Background()
	categoryID := uuid.New()
	now := time.Now()

	product := &entity.Product{
		ID:            uuid.New(),
		Name:          "Laptop",
		Description:   "High-performance laptop",
		Price:         1299.99,
		StockQuantity: 4,
		CategoryID:    &categoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Create(ctx, product)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestCreate_DBError() {
	ctx := context.Background()

	product := &entity.Product{ID: uuid.New(), Name: "Laptop"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Create(ctx, product)

	// Assert
	s.Error(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetByID Tests =====================

func (s *ProductRepositoryTestSuite) TestGetByID_Success() {
	ctx := context.Background()
	categoryID := uuid.New()
	product := entity.Product{
		ID:            uuid.New(),
		Name:          "Laptop",
		Description:   "High-performance laptop",
		Price:         1299.99,
		StockQuantity: 4,
		CategoryID:    &categoryID,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1`)).
		WithArgs(product.ID).
		WillReturnRows(productRows(product))

	// Act
	got, err := s.repo.GetByID(ctx, product.ID)

	// Assert
	s.NoError(err)
	s.NotNil(got)
	s.Equal(product.ID, got.ID)
	s.Equal("Laptop", got.Name)
	s.Equal(1299.99, got.Price)
	s.Equal(4, got.StockQuantity)
	s.Require().NotNil(got.CategoryID)
	s.Equal(categoryID, *got.CategoryID)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestGetByID_NotFound() {
	ctx := context.Background()
	productID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1`)).
		WithArgs(productID).
		WillReturnError(gorm.ErrRecordNotFound)

	// Act
	got, err := s.repo.GetByID(ctx, productID)

	// Assert
	s.Nil(got)
	s.ErrorIs(err, ErrProductNotFound)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestGetByID_DBError() {
	ctx := context.Background()
	productID := uuid.New()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE id = $1`)).
		WithArgs(productID).
		WillReturnError(sql.ErrConnDone)

	// Act
	got, err := s.repo.GetByID(ctx, productID)

	// Assert
	s.Nil(got)
	s.Error(err)
	s.NotErrorIs(err, ErrProductNotFound)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== GetAll Tests =====================

func (s *ProductRepositoryTestSuite) TestGetAll_Success() {
	ctx := context.Background()
	categoryID := uuid.New()
	first := entity.Product{ID: uuid.New(), Name: "Laptop", Price: 1299.99, CategoryID: &categoryID}
	second := entity.Product{ID: uuid.New(), Name: "Mouse", Price: 25.5}

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" ORDER BY created_at DESC`)).
		WillReturnRows(productRows(first, second))

	// Act
	products, err := s.repo.GetAll(ctx)

	// Assert
	s.NoError(err)
	s.Len(products, 2)
	s.Equal("Laptop", products[0].Name)
	s.Equal("Mouse", products[1].Name)
	s.Nil(products[1].CategoryID)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestGetAll_Empty() {
	ctx := context.Background()

	s.mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" ORDER BY created_at DESC`)).
		WillReturnRows(productRows())

	// Act
	products, err := s.repo.GetAll(ctx)

	// Assert
	s.NoError(err)
	s.Empty(products)

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Update Tests =====================

func (s *ProductRepositoryTestSuite) TestUpdate_Success() {
	ctx := context.Background()

	product := &entity.Product{
		ID:            uuid.New(),
		Name:          "Updated",
		Price:         75.5,
		StockQuantity: 3,
		UpdatedAt:     time.Now(),
	}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Update(ctx, product)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestUpdate_NotFound() {
	ctx := context.Background()

	product := &entity.Product{ID: uuid.New(), Name: "Ghost"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // 0 rows affected
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Update(ctx, product)

	// Assert
	s.ErrorIs(err, ErrProductNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestUpdate_DBError() {
	ctx := context.Background()

	product := &entity.Product{ID: uuid.New(), Name: "Broken"}

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`UPDATE "products" SET`)).
		WillReturnError(sql.ErrConnDone)
	s.mock.ExpectRollback()

	// Act
	err := s.repo.Update(ctx, product)

	// Assert
	s.Error(err)
	s.NotErrorIs(err, ErrProductNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Delete Tests =====================

func (s *ProductRepositoryTestSuite) TestDelete_Success() {
	ctx := context.Background()
	productID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Delete(ctx, productID)

	// Assert
	s.NoError(err)
	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *ProductRepositoryTestSuite) TestDelete_NotFound() {
	ctx := context.Background()
	productID := uuid.New()

	s.mock.ExpectBegin()
	s.mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "products"`)).
		WillReturnResult(sqlmock.NewResult(0, 0)) // 0 rows affected
	s.mock.ExpectCommit()

	// Act
	err := s.repo.Delete(ctx, productID)

	// Assert
	s.ErrorIs(err, ErrProductNotFound)
	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== NewProductRepository Tests =====================

func TestNewProductRepository(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	dialector := postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	require.NoError(t, err)

	// Act
	repo := NewProductRepository(db)

	// Assert
	assert.NotNil(t, repo)
}
