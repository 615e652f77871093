package server

import (
	"github.com/Leopold1975/finscore/internal/finscore/domain/models"
)

type TokenResponse struct {
	Token string `json:"token"`
}

type TagResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ProductResponse struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Tags  []int64 `json:"tags"`
	Price string  `json:"price"`
	Link  string  `json:"link"`
}

// ProductDetailResponse nests whole tags instead of their ids.
type ProductDetailResponse struct {
	ID    int64         `json:"id"`
	Title string        `json:"title"`
	Tags  []TagResponse `json:"tags"`
	Price string        `json:"price"`
	Link  string        `json:"link"`
}

type ScoreResponse struct {
	ID            int64   `json:"id"`
	Version       *string `json:"version"`
	Overall       *int    `json:"score_overall"`   //nolint:tagliatelle
	Medical       *int    `json:"score_medical"`   //nolint:tagliatelle
	Income        *int    `json:"score_income"`    //nolint:tagliatelle
	Stuff         *int    `json:"score_stuff"`     //nolint:tagliatelle
	Liability     *int    `json:"score_liability"` //nolint:tagliatelle
	Digital       *int    `json:"score_digital"`   //nolint:tagliatelle
	DescOverall   *string `json:"desc_overall"`    //nolint:tagliatelle
	DescMedical   *string `json:"desc_medical"`    //nolint:tagliatelle
	DescIncome    *string `json:"desc_income"`     //nolint:tagliatelle
	DescStuff     *string `json:"desc_stuff"`      //nolint:tagliatelle
	DescLiability *string `json:"desc_liability"`  //nolint:tagliatelle
	DescDigital   *string `json:"desc_digital"`    //nolint:tagliatelle
}

// UserResponse never carries the password.
type UserResponse struct {
	PhoneNumber   string         `json:"phone_number"` //nolint:tagliatelle
	Name          string         `json:"name"`
	ScoresInitial *ScoreResponse `json:"scores_initial"` //nolint:tagliatelle
	ScoresFinal   *ScoreResponse `json:"scores_final"`   //nolint:tagliatelle
	Email         *string        `json:"email"`
	FirstName     *string        `json:"first_name"` //nolint:tagliatelle
	LastName      *string        `json:"last_name"`  //nolint:tagliatelle
	Age           *int           `json:"age"`
	Zipcode       *string        `json:"zipcode"`
	Income        *string        `json:"income"`
	Education     *string        `json:"education"`
	Employment    *string        `json:"employment"`
}

func newTagResponse(t models.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name}
}

func newTagsResponse(tags []models.Tag) []TagResponse {
	resp := make([]TagResponse, 0, len(tags))
	for _, t := range tags {
		resp = append(resp, newTagResponse(t))
	}

	return resp
}

func newProductResponse(p models.Product) ProductResponse {
	tags := p.Tags
	if tags == nil {
		tags = []int64{}
	}

	return ProductResponse{
		ID:    p.ID,
		Title: p.Title,
		Tags:  tags,
		Price: p.Price.StringFixed(2), //nolint:gomnd
		Link:  p.Link,
	}
}

func newProductsResponse(products []models.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		resp = append(resp, newProductResponse(p))
	}

	return resp
}

func newProductDetailResponse(p models.Product) ProductDetailResponse {
	return ProductDetailResponse{
		ID:    p.ID,
		Title: p.Title,
		Tags:  newTagsResponse(p.TagObjects),
		Price: p.Price.StringFixed(2), //nolint:gomnd
		Link:  p.Link,
	}
}

func newScoreResponse(s *models.Score) *ScoreResponse {
	if s == nil {
		return nil
	}

	return &ScoreResponse{
		ID:            s.ID,
		Version:       s.Version,
		Overall:       s.Overall,
		Medical:       s.Medical,
		Income:        s.Income,
		Stuff:         s.Stuff,
		Liability:     s.Liability,
		Digital:       s.Digital,
		DescOverall:   s.DescOverall,
		DescMedical:   s.DescMedical,
		DescIncome:    s.DescIncome,
		DescStuff:     s.DescStuff,
		DescLiability: s.DescLiability,
		DescDigital:   s.DescDigital,
	}
}

func newUserResponse(u models.User) UserResponse {
	var income *string

	if u.Income != nil {
		s := u.Income.StringFixed(2) //nolint:gomnd
		income = &s
	}

	return UserResponse{
		PhoneNumber:   u.PhoneNumber,
		Name:          u.Name,
		ScoresInitial: newScoreResponse(u.ScoresInitial),
		ScoresFinal:   newScoreResponse(u.ScoresFinal),
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Age:           u.Age,
		Zipcode:       u.Zipcode,
		Income:        income,
		Education:     u.Education,
		Employment:    u.Employment,
	}
}
