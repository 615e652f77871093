package models

import "strconv"

const (
	MinScore = 0
	MaxScore = 100
)

// Score is a six-dimensional assessment. It has no owner of its own: a user points
// to it through either the initial or the final slot.
type Score struct {
	ID            int64
	Version       *string
	Overall       *int
	Medical       *int
	Income        *int
	Stuff         *int
	Liability     *int
	Digital       *int
	DescOverall   *string
	DescMedical   *string
	DescIncome    *string
	DescStuff     *string
	DescLiability *string
	DescDigital   *string
}

func (s Score) String() string {
	if s.Overall == nil {
		return "None"
	}

	return strconv.Itoa(*s.Overall)
}
