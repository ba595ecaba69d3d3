package models

// TeamStatus представляет статусы заявки команды, соответствующие ENUM в БД.
type TeamStatus string

const (
	TeamStatusPending  TeamStatus = "pending"
	TeamStatusApproved TeamStatus = "approved"
	TeamStatusRejected TeamStatus = "rejected"
)

// CategoryGeneral — категория по умолчанию для команд без заявленного уровня.
const CategoryGeneral = "General"

// Player — один из двух игроков пары.
type Player struct {
	Name     string  `json:"name"`
	Phone    *string `json:"phone,omitempty"`
	PlayerID *string `json:"player_id,omitempty"`
}

// Team представляет пару, заявленную на турнир. Только команды со статусом
// approved попадают в жеребьёвку групп.
type Team struct {
	ID       string     `json:"id"`
	Player1  Player     `json:"player1"`
	Player2  Player     `json:"player2"`
	Category *string    `json:"category,omitempty"`
	Status   TeamStatus `json:"status"`
	Email    *string    `json:"email,omitempty"`
}

// ResolvedCategory возвращает категорию команды, подставляя CategoryGeneral,
// если категория не указана.
func (t Team) ResolvedCategory() string {
	if t.Category == nil || *t.Category == "" {
		return CategoryGeneral
	}
	return *t.Category
}
