package models

// GroupStanding — положение команды в группе. Таблица всегда пересчитывается
// целиком по списку матчей группы, никогда не корректируется по одному матчу.
type GroupStanding struct {
	TeamID       string `json:"teamId"`
	Played       int    `json:"played"`
	Won          int    `json:"won"`
	Lost         int    `json:"lost"`
	GamesFor     int    `json:"gamesFor"`
	GamesAgainst int    `json:"gamesAgainst"`
	GamesDiff    int    `json:"gamesDiff"`
	Position     int    `json:"position,omitempty"`
}

// Group — круговая подгруппа (лигилья) одной категории. Расписание
// генерируется один раз при создании группы.
type Group struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	TeamIDs   []string        `json:"teamIds"`
	Matches   []Match         `json:"matches"`
	Standings []GroupStanding `json:"standings"`
}
