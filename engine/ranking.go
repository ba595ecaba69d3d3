package engine

import (
	"sort"

	"github.com/padelpoint/torneo-system/models"
)

// RankedTeam — команда, прошедшая в плей-офф, с показателями, по которым
// производился отбор.
type RankedTeam struct {
	TeamID    string `json:"teamId"`
	GroupID   string `json:"groupId"`
	Position  int    `json:"position"`
	Won       int    `json:"won"`
	GamesDiff int    `json:"gamesDiff"`
}

// RankQualifiers отбирает из групп одной категории прямых квалификантов
// (позиции 1..qualifyFirst каждой группы) и, если thirdQualifiers > 0,
// лучшие третьи места: команды на позиции qualifyFirst+1 всех групп
// сравниваются между собой по победам и разнице геймов, и лучшие
// thirdQualifiers из них дополняют список.
//
// Прямые квалификанты идут первыми в порядке обхода групп, отобранные третьи
// — следом. Итоговый посев выполняет BuildBracket, здесь порядок внутри
// списка дальше не нормируется. Если в группе меньше qualifyFirst команд,
// она просто дает меньше квалификантов.
func RankQualifiers(groups []models.Group, qualifyFirst, thirdQualifiers int) []RankedTeam {
	ranked := make([]RankedTeam, 0, len(groups)*qualifyFirst)
	thirds := make([]RankedTeam, 0, len(groups))

	for _, group := range groups {
		for idx, standing := range group.Standings {
			team := RankedTeam{
				TeamID:    standing.TeamID,
				GroupID:   group.ID,
				Position:  idx + 1,
				Won:       standing.Won,
				GamesDiff: standing.GamesDiff,
			}
			if idx < qualifyFirst {
				ranked = append(ranked, team)
			} else if idx == qualifyFirst && thirdQualifiers > 0 {
				thirds = append(thirds, team)
			}
		}
	}

	if thirdQualifiers > 0 {
		sort.SliceStable(thirds, func(i, j int) bool {
			if thirds[i].Won != thirds[j].Won {
				return thirds[i].Won > thirds[j].Won
			}
			return thirds[i].GamesDiff > thirds[j].GamesDiff
		})
		if thirdQualifiers > len(thirds) {
			thirdQualifiers = len(thirds)
		}
		ranked = append(ranked, thirds[:thirdQualifiers]...)
	}

	return ranked
}
