package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	// Ресурсы
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrRegistrationNotFound = errors.New("team registration not found")
	ErrGroupNotFound        = errors.New("group not found")
	ErrMatchNotFound        = errors.New("match not found")

	// Валидация и бизнес-правила
	ErrValidationFailed         = errors.New("validation failed")
	ErrPasswordTooShort         = errors.New("password is too short")
	ErrTournamentNameRequired   = errors.New("tournament name is required")
	ErrPlayerNamesRequired      = errors.New("both player names are required")
	ErrRegistrationClosed       = errors.New("tournament registration is closed")
	ErrTournamentFull           = errors.New("tournament registration is full")
	ErrInvalidPhase             = errors.New("operation not allowed in the current tournament phase")
	ErrGroupsNotFinished        = errors.New("all group matches must be finished before generating the bracket")
	ErrInvalidGroupConfig       = errors.New("invalid group configuration")
	ErrInvalidQualifierConfig   = errors.New("invalid qualifier configuration")
	ErrMatchTeamsImmutable      = errors.New("match result cannot be changed after the winner has played the next match")
	ErrBracketSlotsNotResolved  = errors.New("bracket match teams are not resolved yet")
	ErrTournamentNameConflict   = errors.New("tournament name already exists")
	ErrRegistrationConflict     = errors.New("team is already registered for this tournament")
	ErrPosterContentTypeInvalid = errors.New("poster must be a jpeg, png or webp image")

	// Аутентификация и доступ
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")
)
