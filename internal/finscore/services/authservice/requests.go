package authservice

import "github.com/shopspring/decimal"

// ScoreInput is the writable part of a score. Every sub-score is optional.
type ScoreInput struct {
	Version       *string `json:"version"         validate:"omitempty,max=5"`
	Overall       *int    `json:"score_overall"   validate:"omitempty,gte=0,lte=100"` //nolint:tagliatelle
	Medical       *int    `json:"score_medical"   validate:"omitempty,gte=0,lte=100"` //nolint:tagliatelle
	Income        *int    `json:"score_income"    validate:"omitempty,gte=0,lte=100"` //nolint:tagliatelle
	Stuff         *int    `json:"score_stuff"     validate:"omitempty,gte=0,lte=100"` //nolint:tagliatelle
	Liability     *int    `json:"score_liability" validate:"omitempty,gte=0,lte=100"` //nolint:tagliatelle
	Digital       *int    `json:"score_digital"   validate:"omitempty,gte=0,lte=100"` //nolint:tagliatelle
	DescOverall   *string `json:"desc_overall"`                                       //nolint:tagliatelle
	DescMedical   *string `json:"desc_medical"`                                       //nolint:tagliatelle
	DescIncome    *string `json:"desc_income"`                                        //nolint:tagliatelle
	DescStuff     *string `json:"desc_stuff"`                                         //nolint:tagliatelle
	DescLiability *string `json:"desc_liability"`                                     //nolint:tagliatelle
	DescDigital   *string `json:"desc_digital"`                                       //nolint:tagliatelle
}

type CreateUserRequest struct {
	PhoneNumber   string      `json:"phone_number"   validate:"required,max=17,phone"` //nolint:tagliatelle
	Password      string      `json:"password"       validate:"required,min=5"`
	Name          string      `json:"name"           validate:"required,max=255"`
	ScoresInitial *ScoreInput `json:"scores_initial"` //nolint:tagliatelle
	ScoresFinal   *ScoreInput `json:"scores_final"`   //nolint:tagliatelle

	Email      *string          `json:"email"      validate:"omitempty,email,max=254"`
	FirstName  *string          `json:"first_name" validate:"omitempty,max=30"` //nolint:tagliatelle
	LastName   *string          `json:"last_name"  validate:"omitempty,max=30"` //nolint:tagliatelle
	Age        *int             `json:"age"        validate:"omitnil,gte=18,lte=150"`
	Zipcode    *string          `json:"zipcode"    validate:"omitnil,len=5,number"`
	Income     *decimal.Decimal `json:"income"     validate:"omitempty,digits=10:2"`
	Education  *string          `json:"education"  validate:"omitempty,oneof='High school' College University"`
	Employment *string          `json:"employment" validate:"omitempty,oneof=Student 'Full time' 'Part time'"`
}

// UpdateUserRequest is used by both full and partial updates. For a full update
// phone_number and name are required and omitted optional attributes are cleared.
type UpdateUserRequest struct {
	PhoneNumber   *string     `json:"phone_number"   validate:"omitnil,max=17,phone"` //nolint:tagliatelle
	Password      *string     `json:"password"       validate:"omitnil,min=5"`
	Name          *string     `json:"name"           validate:"omitnil,min=1,max=255"`
	ScoresInitial *ScoreInput `json:"scores_initial"` //nolint:tagliatelle
	ScoresFinal   *ScoreInput `json:"scores_final"`   //nolint:tagliatelle

	Email      *string          `json:"email"      validate:"omitempty,email,max=254"`
	FirstName  *string          `json:"first_name" validate:"omitempty,max=30"` //nolint:tagliatelle
	LastName   *string          `json:"last_name"  validate:"omitempty,max=30"` //nolint:tagliatelle
	Age        *int             `json:"age"        validate:"omitnil,gte=18,lte=150"`
	Zipcode    *string          `json:"zipcode"    validate:"omitnil,len=5,number"`
	Income     *decimal.Decimal `json:"income"     validate:"omitempty,digits=10:2"`
	Education  *string          `json:"education"  validate:"omitempty,oneof='High school' College University"`
	Employment *string          `json:"employment" validate:"omitempty,oneof=Student 'Full time' 'Part time'"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"` //nolint:tagliatelle
	Password    string `json:"password"     validate:"required"`
}
