package engine

import "math/rand"

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

const idLength = 9

// NewID генерирует короткий случайный идентификатор (base36) для матчей и
// групп. Источник случайности передается явно, чтобы генерация оставалась
// воспроизводимой в тестах.
func NewID(rng *rand.Rand) string {
	b := make([]byte, idLength)
	for i := range b {
		b[i] = idAlphabet[rng.Intn(len(idAlphabet))]
	}
	return string(b)
}

// Shuffle перемешивает срез по Фишеру-Йетсу, не изменяя исходный.
func Shuffle[T any](rng *rand.Rand, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}
