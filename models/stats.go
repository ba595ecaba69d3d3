package models

// PlayerStats — сводная статистика игрока по всем турнирам, где он играл.
type PlayerStats struct {
	MatchesPlayed     int     `json:"matches_played"`
	MatchesWon        int     `json:"matches_won"`
	WinRate           int     `json:"win_rate"`
	SetsWon           int     `json:"sets_won"`
	TotalSets         int     `json:"total_sets"`
	GamesWon          int     `json:"games_won"`
	TotalGames        int     `json:"total_games"`
	TournamentsPlayed int     `json:"tournaments_played"`
	Level             float64 `json:"level"`
}
