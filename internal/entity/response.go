package entity

type SignUpResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

type SignInResponse struct {
	ID    uint   `json:"id"`
	Token string `json:"token"`
}

type SwipeResponse struct {
	Outcome     string  `json:"outcome"`
	OutcomeEnum Outcome `json:"outcome_enum"`
}

type CandidatesResponse struct {
	Candidates []Candidate `json:"candidates"`
}
