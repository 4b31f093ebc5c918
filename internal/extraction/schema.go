package extraction

// castResponse is the step-one LLM payload: the cast introduced in the
// opening segment of the transcript.
type castResponse struct {
	Candidates []castCandidate `json:"candidates" validate:"required,min=1,dive"`
	Juror      string          `json:"juror"`
	Moderator  string          `json:"moderator"`
}

type castCandidate struct {
	Name       string `json:"name" validate:"required"`
	Gender     string `json:"gender"`
	Location   string `json:"location"`
	Profession string `json:"profession"`
	Dish       string `json:"dish"`
}

// outcomeResponse is the step-two LLM payload: the tasting order and final
// placements announced near the end of the transcript.
type outcomeResponse struct {
	TastingOrder []string      `json:"tasting_order" validate:"required,min=1,dive,required"`
	Ranking      []outcomeRank `json:"ranking" validate:"required,min=1,dive"`
}

type outcomeRank struct {
	Name string `json:"name" validate:"required"`
	Rank int    `json:"rank" validate:"required,min=1"`
}
