package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
	repo "github.com/Leopold1975/finscore/internal/finscore/repository/productrepo"
	pr "github.com/Leopold1975/finscore/internal/finscore/repository/productrepo/postgres"
	ur "github.com/Leopold1975/finscore/internal/finscore/repository/userrepo/postgres"
	"github.com/Leopold1975/finscore/internal/pkg/config"
	"github.com/Leopold1975/finscore/internal/pkg/pgtools"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// FINSCORE_TEST_POSTGRES holds the path of a config file pointing at a disposable database.
// The repository suites share it, run them with -p 1.
const testConfigEnv = "FINSCORE_TEST_POSTGRES"

type ProductsRepoSuite struct {
	suite.Suite
	db    *pgxpool.Pool
	repo  pr.ProductsPostgresRepo
	ctx   context.Context
	owner int64
	other int64
}

func (s *ProductsRepoSuite) SetupSuite() {
	path := os.Getenv(testConfigEnv)
	if path == "" {
		s.T().Skipf("%s is not set", testConfigEnv)
	}

	cfg, err := config.New(path)
	s.Require().NoError(err)


	s.ctx = context.Background()
	s.db, err = pgtools.New(s.ctx, cfg.PostgresDB)
	s.Require().NoError(err)

	s.repo = pr.New(s.db)
}

func (s *ProductsRepoSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
}

func (s *ProductsRepoSuite) SetupTest() {
	_, err := s.db.Exec(s.ctx,
		"TRUNCATE product_tags, products, tags, users, scores RESTART IDENTITY CASCADE")
	s.Require().NoError(err)

	users := ur.New(s.db)

	s.owner, err = users.CreateUser(s.ctx, models.User{PhoneNumber: "4086432477", Active: true}) //nolint:exhaustruct
	s.Require().NoError(err)

	s.other, err = users.CreateUser(s.ctx, models.User{PhoneNumber: "4086432478", Active: true}) //nolint:exhaustruct
	s.Require().NoError(err)
}

func (s *ProductsRepoSuite) tag(userID int64, name string) int64 {
	id, err := s.repo.CreateTag(s.ctx, models.Tag{Name: name, UserID: userID}) //nolint:exhaustruct
	s.Require().NoError(err)

	return id
}

func (s *ProductsRepoSuite) product(userID int64, title string, tags ...int64) int64 {
	id, err := s.repo.CreateProduct(s.ctx, models.Product{ //nolint:exhaustruct
		UserID: userID,
		Title:  title,
		Price:  decimal.RequireFromString("100.00"),
		Tags:   tags,
	})
	s.Require().NoError(err)

	return id
}

func (s *ProductsRepoSuite) TestListTagsOrderAndOwner() {
	s.tag(s.owner, "alpha")
	s.tag(s.owner, "beta")
	s.tag(s.other, "gamma")

	tags, err := s.repo.ListTags(s.ctx, s.owner)
	s.Require().NoError(err)
	s.Require().Len(tags, 2)
	s.Require().Equal("beta", tags[0].Name)
	s.Require().Equal("alpha", tags[1].Name)

	owned, err := s.repo.OwnedTagIDs(s.ctx, s.other, []int64{tags[0].ID, tags[1].ID})
	s.Require().NoError(err)
	s.Require().Empty(owned)
}

func (s *ProductsRepoSuite) TestFilterByTagsIsUnion() {
	t1 := s.tag(s.owner, "tag 1")
	t2 := s.tag(s.owner, "tag 2")

	p1 := s.product(s.owner, "product 1", t1)
	p2 := s.product(s.owner, "product 2", t2)
	p3 := s.product(s.owner, "product 3")
	both := s.product(s.owner, "both", t1, t2)
	s.product(s.other, "theirs")

	products, err := s.repo.ListProducts(s.ctx, repo.ListProductsRequest{UserID: s.owner, TagIDs: []int64{t1, t2}})
	s.Require().NoError(err)

	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	s.Require().Equal([]int64{both, p2, p1}, ids)
	s.Require().NotContains(ids, p3)
	s.Require().Equal([]int64{t1, t2}, products[0].Tags)

	products, err = s.repo.ListProducts(s.ctx, repo.ListProductsRequest{UserID: s.owner}) //nolint:exhaustruct
	s.Require().NoError(err)
	s.Require().Len(products, 4)
	s.Require().Empty(products[1].Tags)
}

func (s *ProductsRepoSuite) TestUpdateReplacesOrKeepsTags() {
	t1 := s.tag(s.owner, "tag 1")
	t2 := s.tag(s.owner, "tag 2")
	id := s.product(s.owner, "product", t1)

	err := s.repo.UpdateProduct(s.ctx, models.Product{ //nolint:exhaustruct
		ID: id, UserID: s.owner, Title: "kept", Price: decimal.RequireFromString("1.50"),
	}, false)
	s.Require().NoError(err)

	p, err := s.repo.GetProduct(s.ctx, s.owner, id)
	s.Require().NoError(err)
	s.Require().Equal("kept", p.Title)
	s.Require().Equal([]int64{t1}, p.Tags)

	err = s.repo.UpdateProduct(s.ctx, models.Product{ //nolint:exhaustruct
		ID: id, UserID: s.owner, Title: "replaced", Price: decimal.RequireFromString("1.50"), Tags: []int64{t2},
	}, true)
	s.Require().NoError(err)

	p, err = s.repo.GetProduct(s.ctx, s.owner, id)
	s.Require().NoError(err)
	s.Require().Equal([]int64{t2}, p.Tags)
	s.Require().Equal("tag 2", p.TagObjects[0].Name)

	err = s.repo.UpdateProduct(s.ctx, models.Product{ //nolint:exhaustruct
		ID: id, UserID: s.owner, Title: "cleared", Price: decimal.RequireFromString("1.50"),
	}, true)
	s.Require().NoError(err)

	p, err = s.repo.GetProduct(s.ctx, s.owner, id)
	s.Require().NoError(err)
	s.Require().Empty(p.Tags)
	s.Require().True(p.Price.Equal(decimal.RequireFromString("1.5")))
}

func (s *ProductsRepoSuite) TestUnknownTag() {
	_, err := s.repo.CreateProduct(s.ctx, models.Product{ //nolint:exhaustruct
		UserID: s.owner, Title: "product", Price: decimal.RequireFromString("1"), Tags: []int64{999},
	})
	s.Require().ErrorIs(err, repo.ErrTagNotFound)
}

func (s *ProductsRepoSuite) TestOtherUsersProduct() {
	t := s.tag(s.other, "tag")
	id := s.product(s.other, "theirs", t)

	_, err := s.repo.GetProduct(s.ctx, s.owner, id)
	s.Require().ErrorIs(err, repo.ErrNotFound)

	err = s.repo.UpdateProduct(s.ctx, models.Product{ //nolint:exhaustruct
		ID: id, UserID: s.owner, Title: "x", Price: decimal.RequireFromString("1"),
	}, true)
	s.Require().ErrorIs(err, repo.ErrNotFound)

	s.Require().ErrorIs(s.repo.DeleteProduct(s.ctx, s.owner, id), repo.ErrNotFound)

	s.Require().NoError(s.repo.DeleteProduct(s.ctx, s.other, id))

	tags, err := s.repo.ListTags(s.ctx, s.other)
	s.Require().NoError(err)
	s.Require().Len(tags, 1)
}

func TestProductsRepoSuite(t *testing.T) {
	suite.Run(t, new(ProductsRepoSuite))
}
