package engine

import (
	"errors"
	"math/rand"

	"github.com/padelpoint/torneo-system/models"
)

var (
	ErrNoApprovedTeams   = errors.New("no approved teams to partition into groups")
	ErrInvalidGroupCount = errors.New("number of groups must be positive")
)

// PartitionIntoGroups раскладывает подтвержденные команды по группам.
//
// Команды сначала группируются по категории (пустая категория превращается
// в "General" один раз, здесь), затем сконфигурированное общее число групп
// делится между категориями: поровну с округлением вниз, остаток уходит
// последней категории. Внутри категории команды перемешиваются по
// Фишеру-Йетсу и раздаются по группам по кругу (команда с индексом k попадает
// в группу k mod n), поэтому размеры групп различаются не более чем на одну
// команду. Группы, оставшиеся без команд, не попадают в результат.
//
// Каждая группа получает полное круговое расписание и обнуленную таблицу.
// Сохранение групп и перевод турнира в фазу groups — забота вызывающего.
func PartitionIntoGroups(rng *rand.Rand, teams []models.Team, numberOfGroups int) ([]models.Group, error) {
	if numberOfGroups < 1 {
		return nil, ErrInvalidGroupCount
	}

	approved := make([]models.Team, 0, len(teams))
	for _, team := range teams {
		if team.Status == models.TeamStatusApproved {
			approved = append(approved, team)
		}
	}
	if len(approved) == 0 {
		return nil, ErrNoApprovedTeams
	}

	// Категории в порядке первого появления, чтобы раскладка не зависела
	// от порядка обхода map.
	byCategory := make(map[string][]models.Team)
	categories := make([]string, 0)
	for _, team := range approved {
		cat := team.ResolvedCategory()
		if _, seen := byCategory[cat]; !seen {
			categories = append(categories, cat)
		}
		byCategory[cat] = append(byCategory[cat], team)
	}

	groupsPerCategory := numberOfGroups / len(categories)
	if groupsPerCategory < 1 {
		groupsPerCategory = 1
	}

	groups := make([]models.Group, 0, numberOfGroups)
	for catIdx, cat := range categories {
		numGroups := groupsPerCategory
		if catIdx == len(categories)-1 {
			remainder := numberOfGroups - groupsPerCategory*(len(categories)-1)
			if remainder >= 1 {
				numGroups = remainder
			}
		}

		shuffled := Shuffle(rng, byCategory[cat])
		for i := 0; i < numGroups; i++ {
			name := groupName(cat, i, len(categories) > 1)
			teamIDs := make([]string, 0, (len(shuffled)+numGroups-1)/numGroups)
			for teamIdx, team := range shuffled {
				if teamIdx%numGroups == i {
					teamIDs = append(teamIDs, team.ID)
				}
			}
			if len(teamIDs) == 0 {
				continue
			}

			matches, err := GenerateSchedule(rng, teamIDs)
			if err != nil {
				// Группа из одной команды: расписание пустое, но группа
				// сохраняется, чтобы команда не потерялась.
				matches = []models.Match{}
			}
			groups = append(groups, models.Group{
				ID:        NewID(rng),
				Name:      name,
				TeamIDs:   teamIDs,
				Matches:   matches,
				Standings: ComputeStandings(teamIDs, nil),
			})
		}
	}

	return groups, nil
}

func groupName(category string, index int, multiCategory bool) string {
	letter := string(rune('A' + index))
	if multiCategory {
		return category + " - " + letter
	}
	return "Grupo " + letter
}
