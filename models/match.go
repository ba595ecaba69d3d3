package models

type MatchStatus string

const (
	MatchStatusPending  MatchStatus = "pending"
	MatchStatusLive     MatchStatus = "live"
	MatchStatusFinished MatchStatus = "finished"
)

// SetScore — количество геймов, выигранных каждой стороной в одном сете.
type SetScore struct {
	Team1 int `json:"team1"`
	Team2 int `json:"team2"`
}

// MatchResult хранит счет по сетам и идентификатор победителя.
// Поле Winner всегда должно совпадать с результатом пересчета по сетам
// (engine.DetermineWinner) и никогда не задается независимо.
type MatchResult struct {
	Sets   []SetScore `json:"sets"`
	Winner string     `json:"winner,omitempty"`
}

// Match — матч группового этапа. Составы фиксируются при генерации
// расписания; Result присутствует тогда и только тогда, когда
// Status == finished.
type Match struct {
	ID       string       `json:"id"`
	Team1ID  string       `json:"team1Id"`
	Team2ID  string       `json:"team2Id"`
	Result   *MatchResult `json:"result,omitempty"`
	Status   MatchStatus  `json:"status"`
	Round    *string      `json:"round,omitempty"`
	Position *int         `json:"position,omitempty"`
}

// BracketMatch — узел сетки плей-офф. Team1ID/Team2ID остаются пустыми,
// пока не завершены все матчи из PreviousMatchIDs.
type BracketMatch struct {
	ID               string       `json:"id"`
	Team1ID          string       `json:"team1Id"`
	Team2ID          string       `json:"team2Id"`
	Result           *MatchResult `json:"result,omitempty"`
	Status           MatchStatus  `json:"status"`
	Round            string       `json:"round"`
	Position         int          `json:"position"`
	NextMatchID      *string      `json:"nextMatchId,omitempty"`
	PreviousMatchIDs []string     `json:"previousMatchIds,omitempty"`
}
