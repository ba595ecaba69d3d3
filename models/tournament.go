package models

import "time"

// TournamentPhase представляет фазы турнира, соответствующие ENUM в БД.
type TournamentPhase string

const (
	PhaseRegistration TournamentPhase = "registration"
	PhaseGroups       TournamentPhase = "groups"
	PhaseBracket      TournamentPhase = "bracket"
	PhaseFinished     TournamentPhase = "finished"
)

// TournamentConfig — настройки турнира, задаваемые организатором.
type TournamentConfig struct {
	Name                    string  `json:"name"`
	Description             string  `json:"description"`
	Date                    string  `json:"date"`
	Time                    string  `json:"time"`
	Image                   *string `json:"image,omitempty"`
	TotalTeams              int     `json:"totalTeams"`
	NumberOfGroups          int     `json:"numberOfGroups"`
	QualifyFirst            int     `json:"qualifyFirst"`
	QualifyThird            bool    `json:"qualifyThird"`
	NumberOfThirdQualifiers int     `json:"numberOfThirdQualifiers"`
	RegistrationClosed      bool    `json:"registrationClosed"`
}

// Tournament — агрегат турнира. Groups и Bracket заменяются целиком
// при генерации (никогда не мержатся частично), после чего только
// прогрессируют по мере внесения результатов.
type Tournament struct {
	ID          string           `json:"id"`
	OrganizerID int              `json:"organizer_id"`
	Config      TournamentConfig `json:"config"`
	Teams       []Team           `json:"teams"`
	Groups      []Group          `json:"groups"`
	Bracket     []BracketMatch   `json:"bracket"`
	Phase       TournamentPhase  `json:"phase"`
	Champion    *string          `json:"champion,omitempty"`
	FinishedAt  *time.Time       `json:"finishedAt,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`

	PosterKey *string `json:"-"`
	PosterURL *string `json:"poster_url,omitempty"`
}
